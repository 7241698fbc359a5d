package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gitcred/gitcred/internal/models"
)

var (
	basicColumns    = []string{"email", "commits", "sample_sha", "profile_url"}
	detailedColumns = []string{"name", "email", "commits", "sample_sha", "profile_url", "linkedin", "website", "company"}
)

// ReportService joins, filters, sorts, and renders resolved contributor
// rows.
type ReportService struct{}

// NewReportService creates a new report service
func NewReportService() *ReportService {
	return &ReportService{}
}

// BuildRows joins email records with their resolved identities, preserving
// aggregation order. The row name prefers the GitHub display name and falls
// back to the commit author name.
func (s *ReportService) BuildRows(records []*models.EmailRecord, identities map[string]models.Identity) []models.ReportRow {
	rows := make([]models.ReportRow, 0, len(records))

	for _, record := range records {
		identity := identities[record.Email]

		name := identity.Name
		if name == "" {
			name = record.Name
		}

		rows = append(rows, models.ReportRow{
			Email:      record.Email,
			Name:       name,
			Commits:    record.Commits,
			SampleSHA:  record.SampleSHA,
			ProfileURL: identity.ProfileURL,
			LinkedIn:   identity.LinkedIn,
			Website:    identity.Website,
			Company:    identity.Company,
		})
	}

	return rows
}

// Prepare applies the minimum-commit filter, sorts by commit count
// descending (stable, so input order breaks ties), and truncates to the top
// limit rows when limit > 0.
func (s *ReportService) Prepare(rows []models.ReportRow, minCommits, limit int) []models.ReportRow {
	filtered := make([]models.ReportRow, 0, len(rows))
	for _, row := range rows {
		if row.Commits >= minCommits {
			filtered = append(filtered, row)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Commits > filtered[j].Commits
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return filtered
}

// RenderTable writes the fixed-width terminal view. Commit hashes are
// truncated for readability; the CSV and XLSX renderers keep them in full.
func (s *ReportService) RenderTable(w io.Writer, rows []models.ReportRow) error {
	if _, err := fmt.Fprintf(w, "%-40s %-8s %-12s %s\n", "Email", "Commits", "Sample SHA", "GitHub Profile"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 120)); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-40s %-8d %-12s %s\n", row.Email, row.Commits, shortSHA(row.SampleSHA), row.ProfileURL); err != nil {
			return err
		}
	}

	return nil
}

// RenderCSV writes rows as CSV with a header line, using the extended
// column set when details is true.
func (s *ReportService) RenderCSV(w io.Writer, rows []models.ReportRow, details bool) error {
	writer := csv.NewWriter(w)

	header := basicColumns
	if details {
		header = detailedColumns
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		var fields []string
		if details {
			fields = []string{row.Name, row.Email, strconv.Itoa(row.Commits), row.SampleSHA, row.ProfileURL, row.LinkedIn, row.Website, row.Company}
		} else {
			fields = []string{row.Email, strconv.Itoa(row.Commits), row.SampleSHA, row.ProfileURL}
		}

		if err := writer.Write(fields); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
