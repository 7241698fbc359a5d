package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gitcred/gitcred/internal/models"
)

const (
	commitKeyPrefix = "commit_"
	userKeyPrefix   = "user_"
)

// ProfileCache is an append-only map of GitHub lookup results backed by one
// JSON file. Entries are never invalidated: a stale hit is preferred over a
// repeated API call, and negative results are kept so dead ends are not
// retried on later runs.
type ProfileCache struct {
	path    string
	entries map[string]models.CachedProfile
}

// Load reads the cache file at path. A missing file yields an empty cache;
// an unreadable or malformed file is an error.
func Load(path string) (*ProfileCache, error) {
	c := &ProfileCache{
		path:    path,
		entries: make(map[string]models.CachedProfile),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile cache: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("failed to parse profile cache %s: %w", path, err)
	}

	return c, nil
}

// Save rewrites the whole cache file, pretty-printed so it stays inspectable
// and diffable by hand.
func (c *ProfileCache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile cache: %w", err)
	}

	return nil
}

// GetCommit returns the cached commit-author lookup for a SHA
func (c *ProfileCache) GetCommit(sha string) (models.CachedProfile, bool) {
	profile, ok := c.entries[commitKeyPrefix+sha]
	return profile, ok
}

// PutCommit stores a commit-author lookup result, negative results included
func (c *ProfileCache) PutCommit(sha string, profile models.CachedProfile) {
	c.entries[commitKeyPrefix+sha] = profile
}

// GetUser returns the cached full-profile lookup for a login
func (c *ProfileCache) GetUser(login string) (models.CachedProfile, bool) {
	profile, ok := c.entries[userKeyPrefix+login]
	return profile, ok
}

// PutUser stores a full-profile lookup result
func (c *ProfileCache) PutUser(login string, profile models.CachedProfile) {
	c.entries[userKeyPrefix+login] = profile
}

// Len reports the number of cached lookups
func (c *ProfileCache) Len() int {
	return len(c.entries)
}
