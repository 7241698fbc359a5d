package services

import (
	"context"
	"path/filepath"

	"github.com/gitcred/gitcred/internal/cache"
	"github.com/gitcred/gitcred/internal/models"
	"github.com/gitcred/gitcred/internal/repositories"
	"github.com/gitcred/gitcred/pkg/logger"
)

// CacheFileName is the profile cache file kept under the cache directory.
const CacheFileName = "profile_cache.json"

// AnalysisOptions carries the per-run knobs from the CLI surface.
type AnalysisOptions struct {
	RepoURL string
	Token   string
	Details bool
}

// AnalysisResult is one finished pipeline run: the joined rows in
// aggregation order, unfiltered, plus the ledger record describing the run.
type AnalysisResult struct {
	Rows []models.ReportRow
	Run  *models.Run
}

// AnalysisService drives the pipeline end to end: mirror sync, commit
// aggregation, contributor fetch, identity resolution, cache persistence,
// and the run ledger. Every step runs sequentially.
type AnalysisService struct {
	cacheDir      string
	mirrorService *MirrorService
	statsService  *CommitStatsService
	reportService *ReportService
	runRepository *repositories.RunRepository
}

// NewAnalysisService creates a new analysis service. runRepository may be
// nil when the ledger is unavailable; runs are then not recorded.
func NewAnalysisService(cacheDir string, runRepository *repositories.RunRepository) *AnalysisService {
	return &AnalysisService{
		cacheDir:      cacheDir,
		mirrorService: NewMirrorService(cacheDir),
		statsService:  NewCommitStatsService(),
		reportService: NewReportService(),
		runRepository: runRepository,
	}
}

// Run executes one analysis. Any error short of ledger bookkeeping aborts
// the run; the profile cache is only written after every email is resolved.
func (s *AnalysisService) Run(ctx context.Context, opts AnalysisOptions) (*AnalysisResult, error) {
	owner, repo, err := ParseRepoURL(opts.RepoURL)
	if err != nil {
		return nil, err
	}

	run := models.NewRun(opts.RepoURL, owner, repo)

	repoPath, err := s.mirrorService.Sync(opts.RepoURL)
	if err != nil {
		return nil, err
	}

	logger.Info("Reading commit history...")
	records, total, err := s.statsService.Aggregate(repoPath)
	if err != nil {
		return nil, err
	}
	run.Commits = total
	run.Emails = len(records)
	logger.Infof("Found %d commits across %d email addresses", total, len(records))

	contributorService := NewContributorService(opts.Token)
	contributors, err := contributorService.FetchContributors(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	profileCache, err := cache.Load(filepath.Join(s.cacheDir, CacheFileName))
	if err != nil {
		return nil, err
	}
	logger.Debugf("Profile cache holds %d entries", profileCache.Len())

	resolver := NewResolverService(contributorService.Client(), profileCache, contributors, owner, repo, opts.Details)

	identities := make(map[string]models.Identity, len(records))
	for _, record := range records {
		identity, err := resolver.Resolve(ctx, record)
		if err != nil {
			return nil, err
		}

		if identity.Resolved() {
			run.Resolved++
		}
		identities[record.Email] = identity
	}

	if err := profileCache.Save(); err != nil {
		return nil, err
	}

	run.MarkFinished()
	logger.Infof("Resolved %d of %d email addresses", run.Resolved, run.Emails)

	if s.runRepository != nil {
		if err := s.runRepository.Create(run); err != nil {
			logger.Warnf("Failed to record run in ledger: %v", err)
		}
	}

	return &AnalysisResult{
		Rows: s.reportService.BuildRows(records, identities),
		Run:  run,
	}, nil
}
