package models

import (
	"time"

	"github.com/google/uuid"
)

// Run represents one completed analysis recorded in the local ledger
type Run struct {
	ID         string    `json:"id"`
	RepoURL    string    `json:"repo_url"`
	Owner      string    `json:"owner"`
	Repo       string    `json:"repo"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Commits    int       `json:"commits"`
	Emails     int       `json:"emails"`
	Resolved   int       `json:"resolved"`
}

// NewRun creates a new Run with a generated UUID, stamped as started now
func NewRun(repoURL, owner, repo string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		RepoURL:   repoURL,
		Owner:     owner,
		Repo:      repo,
		StartedAt: time.Now(),
	}
}

// MarkFinished stamps the run's completion time
func (r *Run) MarkFinished() {
	r.FinishedAt = time.Now()
}
