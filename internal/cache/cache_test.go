package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitcred/gitcred/internal/models"
)

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "profile_cache.json"))

	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestNegativeResultIsCached(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "profile_cache.json"))
	require.NoError(t, err)

	_, ok := c.GetCommit("abc123")
	assert.False(t, ok, "unseen SHA should miss")

	c.PutCommit("abc123", models.CachedProfile{})

	profile, ok := c.GetCommit("abc123")
	assert.True(t, ok, "negative result should hit")
	assert.Empty(t, profile.ProfileURL)
}

func TestCommitAndUserKeysDoNotCollide(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "profile_cache.json"))
	require.NoError(t, err)

	c.PutCommit("octocat", models.CachedProfile{ProfileURL: "https://github.com/from-commit"})
	c.PutUser("octocat", models.CachedProfile{ProfileURL: "https://github.com/octocat"})

	commit, ok := c.GetCommit("octocat")
	require.True(t, ok)
	user, ok := c.GetUser("octocat")
	require.True(t, ok)

	assert.Equal(t, "https://github.com/from-commit", commit.ProfileURL)
	assert.Equal(t, "https://github.com/octocat", user.ProfileURL)
	assert.Equal(t, 2, c.Len())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile_cache.json")

	c, err := Load(path)
	require.NoError(t, err)

	c.PutCommit("deadbeef", models.CachedProfile{ProfileURL: "https://github.com/alice", Name: "Alice"})
	c.PutUser("alice", models.CachedProfile{
		ProfileURL: "https://github.com/alice",
		Name:       "Alice Example",
		LinkedIn:   "https://linkedin.com/in/alice",
		Company:    "Example Corp",
	})
	c.PutCommit("cafe", models.CachedProfile{})

	require.NoError(t, c.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Len())

	commit, ok := reloaded.GetCommit("deadbeef")
	require.True(t, ok)
	assert.Equal(t, "Alice", commit.Name)

	user, ok := reloaded.GetUser("alice")
	require.True(t, ok)
	assert.Equal(t, "https://linkedin.com/in/alice", user.LinkedIn)
	assert.Equal(t, "Example Corp", user.Company)

	negative, ok := reloaded.GetCommit("cafe")
	require.True(t, ok, "negative entries must survive reload")
	assert.Empty(t, negative.ProfileURL)
}

func TestSaveWritesPrettyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile_cache.json")

	c, err := Load(path)
	require.NoError(t, err)
	c.PutUser("alice", models.CachedProfile{ProfileURL: "https://github.com/alice"})
	require.NoError(t, c.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "{\n  \""), "cache file should be indented")
	assert.Contains(t, string(data), "user_alice")
}
