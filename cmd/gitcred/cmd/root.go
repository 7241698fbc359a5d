package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitcred/gitcred/internal/repositories"
	"github.com/gitcred/gitcred/pkg/config"
	"github.com/gitcred/gitcred/pkg/database"
	"github.com/gitcred/gitcred/pkg/logger"
)

const ledgerFileName = "runs.db"

var logLevel string

var RootCmd = &cobra.Command{
	Use:   "gitcred",
	Short: "Map git commit emails to GitHub identities.",
	Long: `gitcred walks a repository's commit history, groups commits by author
email, and resolves each email to a GitHub profile using the contributor
list, the commit-author API, and a persistent lookup cache.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "set log level to debug, info, warn or error (defaults to LOG_LEVEL)")
	RootCmd.DisableAutoGenTag = true

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := logLevel
	if level == "" {
		level = config.AppConfig.Log.Level
	}
	logger.Init(level)
}

// openRunLedger opens the sqlite run ledger under the cache directory. The
// ledger is bookkeeping, not pipeline state, so callers decide whether a
// failure here is fatal.
func openRunLedger() (*repositories.RunRepository, error) {
	cacheDir := config.AppConfig.Cache.Dir
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	if err := database.Init(filepath.Join(cacheDir, ledgerFileName)); err != nil {
		return nil, err
	}

	return repositories.NewRunRepository(database.DB), nil
}
