package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gitcred/gitcred/internal/models"
	"github.com/gitcred/gitcred/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	rows          []models.ReportRow
	run           *models.Run
}

// NewReportHandler serves the snapshot produced by one analysis run. The
// rows are the full unfiltered set; filtering happens per request.
func NewReportHandler(reportService *services.ReportService, rows []models.ReportRow, run *models.Run) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		rows:          rows,
		run:           run,
	}
}

// Contributors returns the ranked contributor rows, filtered by the
// min_commits and limit query parameters
func (h *ReportHandler) Contributors(c *gin.Context) {
	minCommits, err := strconv.Atoi(c.DefaultQuery("min_commits", "1"))
	if err != nil || minCommits < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_commits must be a positive integer"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"repository":   h.run.Owner + "/" + h.run.Repo,
		"contributors": h.reportService.Prepare(h.rows, minCommits, limit),
	})
}

// Run returns the ledger record for the served snapshot
func (h *ReportHandler) Run(c *gin.Context) {
	c.JSON(http.StatusOK, h.run)
}
