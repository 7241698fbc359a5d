package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gitcred/gitcred/internal/handlers"
	"github.com/gitcred/gitcred/internal/middleware"
	"github.com/gitcred/gitcred/internal/services"
	"github.com/gitcred/gitcred/pkg/config"
	"github.com/gitcred/gitcred/pkg/database"
	"github.com/gitcred/gitcred/pkg/logger"
)

var (
	servePort    string
	serveToken   string
	serveDetails bool
)

var serveCmd = &cobra.Command{
	Use:   "serve <repo-url>",
	Short: "Analyze a repository and serve the report over HTTP",
	Long: `Serve runs one full analysis and then exposes the resolved snapshot as
JSON until interrupted. The snapshot is fixed at startup; re-run to pick
up new commits.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (defaults to GITCRED_PORT or 8080)")
	serveCmd.Flags().StringVar(&serveToken, "token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
	serveCmd.Flags().BoolVar(&serveDetails, "details", false, "fetch full profiles before serving")

	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	token := serveToken
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
		Details: serveDetails,
	})
	if err != nil {
		return err
	}

	port := servePort
	if port == "" {
		port = config.AppConfig.Server.Port
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      setupRouter(result),
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Serving report for %s/%s on :%s", result.Run.Owner, result.Run.Repo, port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func setupRouter(result *services.AnalysisResult) *gin.Engine {
	gin.SetMode(config.AppConfig.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	reportHandler := handlers.NewReportHandler(services.NewReportService(), result.Rows, result.Run)
	healthHandler := handlers.NewHealthHandler()

	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/api/contributors", reportHandler.Contributors)
	router.GET("/api/run", reportHandler.Run)

	return router
}
