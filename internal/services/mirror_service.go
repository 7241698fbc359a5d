package services

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gitcred/gitcred/pkg/logger"
)

var (
	httpsURLPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	sshURLPattern   = regexp.MustCompile(`^git@github\.com:([^/]+)/(.+?)(?:\.git)?$`)
)

// MirrorService keeps local clones of analyzed repositories under the cache
// directory so history reads never touch the network.
type MirrorService struct {
	cacheDir string
	git      func(dir string, args ...string) error
}

// NewMirrorService creates a new mirror service
func NewMirrorService(cacheDir string) *MirrorService {
	return &MirrorService{
		cacheDir: cacheDir,
		git:      runGit,
	}
}

// ParseRepoURL extracts owner and repository name from an HTTPS or SSH
// GitHub URL. An optional .git suffix and trailing slash are accepted.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	if m := httpsURLPattern.FindStringSubmatch(repoURL); m != nil {
		return m[1], m[2], nil
	}
	if m := sshURLPattern.FindStringSubmatch(repoURL); m != nil {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("invalid GitHub repository URL: %s", repoURL)
}

// Sync clones the repository on first use or updates the existing clone. A
// copy that fails to fetch, or that lost its .git directory, is treated as
// corrupt: it is discarded and cloned from scratch. Returns the local path
// of the clone.
func (s *MirrorService) Sync(repoURL string) (string, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	repoPath := filepath.Join(s.cacheDir, owner+"_"+repo)

	if s.isRepositoryCloned(repoPath) {
		logger.Infof("Updating cached repository at %s", repoPath)

		err := s.git(repoPath, "fetch", "--all", "--quiet")
		if err == nil {
			return repoPath, nil
		}

		logger.Warnf("Failed to update cached repository, re-cloning: %v", err)
	} else {
		logger.Infof("Cloning %s/%s into cache", owner, repo)
	}

	// git refuses to clone into a non-empty directory, so any leftover copy
	// is discarded first.
	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to discard stale clone: %w", err)
	}

	if err := s.git("", "clone", "--quiet", repoURL, repoPath); err != nil {
		return "", fmt.Errorf("failed to clone repository: %w", err)
	}

	return repoPath, nil
}

// isRepositoryCloned checks if a repository is already cloned
func (s *MirrorService) isRepositoryCloned(repoPath string) bool {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	return err == nil && info.IsDir()
}

// runGit runs a git command, folding captured stderr into the error so
// failures surface git's own message.
func runGit(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("git %s: %w", args[0], err)
	}

	return nil
}
