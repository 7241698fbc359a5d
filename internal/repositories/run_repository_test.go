package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitcred/gitcred/internal/models"
	"github.com/gitcred/gitcred/pkg/database"
)

func newTestRepository(t *testing.T) *RunRepository {
	t.Helper()

	require.NoError(t, database.Init(filepath.Join(t.TempDir(), "runs.db")))
	t.Cleanup(func() { database.Close() })

	return NewRunRepository(database.DB)
}

func finishedRun(repoURL, owner, repo string, finished time.Time) *models.Run {
	run := models.NewRun(repoURL, owner, repo)
	run.StartedAt = finished.Add(-time.Minute)
	run.FinishedAt = finished
	return run
}

func TestCreateAndListRecent(t *testing.T) {
	repo := newTestRepository(t)

	now := time.Now()
	older := finishedRun("https://github.com/acme/widget", "acme", "widget", now.Add(-time.Hour))
	older.Commits = 10
	newer := finishedRun("https://github.com/acme/gadget", "acme", "gadget", now)
	newer.Commits = 42
	newer.Emails = 7
	newer.Resolved = 5

	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	runs, err := repo.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, newer.ID, runs[0].ID, "newest run comes first")
	assert.Equal(t, 42, runs[0].Commits)
	assert.Equal(t, 7, runs[0].Emails)
	assert.Equal(t, 5, runs[0].Resolved)
	assert.Equal(t, older.ID, runs[1].ID)
}

func TestListRecentHonorsLimit(t *testing.T) {
	repo := newTestRepository(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(finishedRun("https://github.com/acme/widget", "acme", "widget", base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := repo.ListRecent(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestGetByRepo(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Create(finishedRun("https://github.com/acme/widget", "acme", "widget", time.Now())))
	require.NoError(t, repo.Create(finishedRun("https://github.com/acme/gadget", "acme", "gadget", time.Now())))

	runs, err := repo.GetByRepo("acme", "widget")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "widget", runs[0].Repo)

	none, err := repo.GetByRepo("acme", "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}
