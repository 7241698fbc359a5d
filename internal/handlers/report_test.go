package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitcred/gitcred/internal/models"
	"github.com/gitcred/gitcred/internal/services"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	rows := []models.ReportRow{
		{Email: "carol@example.com", Commits: 1, SampleSHA: "ccc333"},
		{Email: "alice@example.com", Commits: 12, SampleSHA: "aaa111", ProfileURL: "https://github.com/alice"},
		{Email: "bob@example.com", Commits: 5, SampleSHA: "bbb222", ProfileURL: "https://github.com/bob"},
	}
	run := models.NewRun("https://github.com/acme/widget", "acme", "widget")
	run.Commits = 18
	run.Emails = 3
	run.Resolved = 2

	handler := NewReportHandler(services.NewReportService(), rows, run)
	healthHandler := NewHealthHandler()

	router := gin.New()
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/api/contributors", handler.Contributors)
	router.GET("/api/run", handler.Run)

	return router
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := get(t, newTestRouter(), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestContributorsDefaults(t *testing.T) {
	w := get(t, newTestRouter(), "/api/contributors")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Repository   string             `json:"repository"`
		Contributors []models.ReportRow `json:"contributors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "acme/widget", resp.Repository)
	require.Len(t, resp.Contributors, 3)
	assert.Equal(t, "alice@example.com", resp.Contributors[0].Email, "rows are sorted by commits")
}

func TestContributorsFilters(t *testing.T) {
	w := get(t, newTestRouter(), "/api/contributors?min_commits=5&limit=1")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Contributors []models.ReportRow `json:"contributors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Contributors, 1)
	assert.Equal(t, "alice@example.com", resp.Contributors[0].Email)
}

func TestContributorsRejectsBadParams(t *testing.T) {
	testCases := []struct {
		name string
		path string
	}{
		{name: "Non-numeric min_commits", path: "/api/contributors?min_commits=lots"},
		{name: "Zero min_commits", path: "/api/contributors?min_commits=0"},
		{name: "Negative limit", path: "/api/contributors?limit=-1"},
	}

	router := newTestRouter()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(t, router, tc.path)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRunEndpoint(t *testing.T) {
	w := get(t, newTestRouter(), "/api/run")

	require.Equal(t, http.StatusOK, w.Code)

	var run models.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, "acme", run.Owner)
	assert.Equal(t, 18, run.Commits)
	assert.Equal(t, 2, run.Resolved)
}
