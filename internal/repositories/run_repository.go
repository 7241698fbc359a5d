package repositories

import (
	"database/sql"

	"github.com/gitcred/gitcred/internal/models"
)

// RunRepository handles database operations for the run ledger
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create records a completed run
func (r *RunRepository) Create(run *models.Run) error {
	query := `
		INSERT INTO runs (id, repo_url, owner, repo, started_at, finished_at, commits, emails, resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID,
		run.RepoURL,
		run.Owner,
		run.Repo,
		run.StartedAt,
		run.FinishedAt,
		run.Commits,
		run.Emails,
		run.Resolved,
	)
	return err
}

// ListRecent retrieves the most recent runs, newest first
func (r *RunRepository) ListRecent(limit int) ([]*models.Run, error) {
	query := `
		SELECT id, repo_url, owner, repo, started_at, finished_at, commits, emails, resolved
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run := &models.Run{}
		err := rows.Scan(
			&run.ID,
			&run.RepoURL,
			&run.Owner,
			&run.Repo,
			&run.StartedAt,
			&run.FinishedAt,
			&run.Commits,
			&run.Emails,
			&run.Resolved,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetByRepo retrieves all runs for one owner/repo pair, newest first
func (r *RunRepository) GetByRepo(owner, repo string) ([]*models.Run, error) {
	query := `
		SELECT id, repo_url, owner, repo, started_at, finished_at, commits, emails, resolved
		FROM runs
		WHERE owner = ? AND repo = ?
		ORDER BY started_at DESC
	`

	rows, err := r.db.Query(query, owner, repo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run := &models.Run{}
		err := rows.Scan(
			&run.ID,
			&run.RepoURL,
			&run.Owner,
			&run.Repo,
			&run.StartedAt,
			&run.FinishedAt,
			&run.Commits,
			&run.Emails,
			&run.Resolved,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
