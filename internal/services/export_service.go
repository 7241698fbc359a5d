package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gitcred/gitcred/internal/models"
)

const exportSheetName = "Contributors"

// ExportService writes report rows to an Excel workbook.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteXLSX saves rows, already filtered and sorted, to path with a header
// row. The extended column set is used when details is true.
func (s *ExportService) WriteXLSX(path string, rows []models.ReportRow, details bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := basicColumns
	if details {
		header = detailedColumns
	}

	headerCells := make([]interface{}, len(header))
	for i, title := range header {
		headerCells[i] = title
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &headerCells); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		var cells []interface{}
		if details {
			cells = []interface{}{row.Name, row.Email, row.Commits, row.SampleSHA, row.ProfileURL, row.LinkedIn, row.Website, row.Company}
		} else {
			cells = []interface{}{row.Email, row.Commits, row.SampleSHA, row.ProfileURL}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(exportSheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}
