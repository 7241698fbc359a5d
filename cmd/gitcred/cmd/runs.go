package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitcred/gitcred/internal/models"
	"github.com/gitcred/gitcred/pkg/database"
)

var (
	runsLimit int
	runsRepo  string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent analysis runs from the local ledger",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to show")
	runsCmd.Flags().StringVar(&runsRepo, "repo", "", "only show runs for this owner/name pair")

	RootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	runRepository, err := openRunLedger()
	if err != nil {
		return err
	}
	defer database.Close()

	var runs []*models.Run
	if runsRepo != "" {
		owner, repo, ok := strings.Cut(runsRepo, "/")
		if !ok {
			return fmt.Errorf("invalid --repo value %q, expected owner/name", runsRepo)
		}
		runs, err = runRepository.GetByRepo(owner, repo)
	} else {
		runs, err = runRepository.ListRecent(runsLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%-36s %-30s %-20s %8s %8s %8s\n", "ID", "Repository", "Finished", "Commits", "Emails", "Resolved")
	for _, run := range runs {
		fmt.Printf("%-36s %-30s %-20s %8d %8d %8d\n",
			run.ID,
			run.Owner+"/"+run.Repo,
			run.FinishedAt.Format("2006-01-02 15:04:05"),
			run.Commits,
			run.Emails,
			run.Resolved,
		)
	}

	return nil
}
