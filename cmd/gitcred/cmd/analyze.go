package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gitcred/gitcred/internal/services"
	"github.com/gitcred/gitcred/pkg/config"
	"github.com/gitcred/gitcred/pkg/database"
	"github.com/gitcred/gitcred/pkg/logger"
)

var (
	analyzeToken      string
	analyzeDetails    bool
	analyzeMinCommits int
	analyzeLimit      int
	analyzeCSV        bool
	analyzeXLSX       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo-url>",
	Short: "Analyze a repository and print ranked contributor identities",
	Long: `Analyze clones or updates the repository in the local cache, aggregates
its commit history by author email, resolves each email to a GitHub
profile, and prints the ranked result.

Output is a fixed-width table when stdout is a terminal and CSV when it
is piped; --csv forces CSV either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeToken, "token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
	analyzeCmd.Flags().BoolVar(&analyzeDetails, "details", false, "fetch full profiles: display name, LinkedIn, website, company")
	analyzeCmd.Flags().IntVar(&analyzeMinCommits, "min-commits", 1, "hide emails with fewer commits")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "show only the top N emails (0 shows all)")
	analyzeCmd.Flags().BoolVar(&analyzeCSV, "csv", false, "write CSV even when stdout is a terminal")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "also write the report to an Excel file at this path")

	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	token := analyzeToken
	if token == "" {
		token = config.AppConfig.GitHub.Token
	}

	runRepository, err := openRunLedger()
	if err != nil {
		logger.Warnf("Run ledger unavailable: %v", err)
	} else {
		defer database.Close()
	}

	analysisService := services.NewAnalysisService(config.AppConfig.Cache.Dir, runRepository)
	result, err := analysisService.Run(cmd.Context(), services.AnalysisOptions{
		RepoURL: args[0],
		Token:   token,
		Details: analyzeDetails,
	})
	if err != nil {
		return err
	}

	reportService := services.NewReportService()
	rows := reportService.Prepare(result.Rows, analyzeMinCommits, analyzeLimit)

	if analyzeXLSX != "" {
		if err := services.NewExportService().WriteXLSX(analyzeXLSX, rows, analyzeDetails); err != nil {
			return err
		}
		logger.Infof("Wrote %d rows to %s", len(rows), analyzeXLSX)
	}

	if analyzeCSV || !term.IsTerminal(int(os.Stdout.Fd())) {
		return reportService.RenderCSV(os.Stdout, rows, analyzeDetails)
	}

	return reportService.RenderTable(os.Stdout, rows)
}
