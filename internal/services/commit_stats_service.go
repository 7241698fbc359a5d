package services

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/gitcred/gitcred/internal/models"
)

// CommitStatsService reads commit history from a local clone and aggregates
// it by author email.
type CommitStatsService struct{}

// NewCommitStatsService creates a new commit stats service
func NewCommitStatsService() *CommitStatsService {
	return &CommitStatsService{}
}

// Aggregate walks every commit reachable from any ref and groups commits by
// author email. Records come back in first-seen order, and each record's
// Name and SampleSHA are taken from the first commit encountered for that
// email. Returns the records and the total number of commits read.
func (s *CommitStatsService) Aggregate(repoPath string) ([]*models.EmailRecord, int, error) {
	cmd := exec.Command("git", "log", "--format=%an|%ae|%H", "--all")
	cmd.Dir = repoPath

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open git log pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, 0, fmt.Errorf("failed to start git log: %w", err)
	}

	records, total, err := s.scan(stdout)
	if err != nil {
		return nil, 0, err
	}

	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, 0, fmt.Errorf("git log failed: %w: %s", err, msg)
		}
		return nil, 0, fmt.Errorf("git log failed: %w", err)
	}

	return records, total, nil
}

// scan consumes name|email|sha lines, streaming so arbitrarily large
// histories stay in constant memory. The email and SHA cannot contain the
// separator, so fields are anchored from the right and an author name keeps
// any pipes of its own. Lines with fewer than three fields are skipped.
func (s *CommitStatsService) scan(r io.Reader) ([]*models.EmailRecord, int, error) {
	byEmail := make(map[string]*models.EmailRecord)
	var records []*models.EmailRecord
	total := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "|")
		if len(parts) < 3 {
			continue
		}

		name := strings.TrimSpace(strings.Join(parts[:len(parts)-2], "|"))
		email := strings.TrimSpace(parts[len(parts)-2])
		sha := strings.TrimSpace(parts[len(parts)-1])
		total++

		if record, ok := byEmail[email]; ok {
			record.Commits++
			continue
		}

		record := models.NewEmailRecord(email, name, sha)
		byEmail[email] = record
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read git log output: %w", err)
	}

	return records, total, nil
}
