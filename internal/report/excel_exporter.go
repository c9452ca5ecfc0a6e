// Package report builds downloadable reports for the HR dashboard.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rohitpai/travel-desk/internal/application/service"
)

const exportSheet = "Travel Indents"

var exportHeaders = []string{
	"Indent ID", "Employee ID", "Employee Name", "Email", "Grade",
	"Department", "Designation", "Purpose", "Travel Type", "Start Date",
	"End Date", "From", "To", "Total Days", "Status",
}

// IndentExporter renders indent lists as xlsx workbooks
type IndentExporter struct {
	logger *zap.Logger
}

// NewIndentExporter creates a new exporter
func NewIndentExporter(logger *zap.Logger) *IndentExporter {
	return &IndentExporter{logger: logger}
}

// Export writes the indent views into a single-sheet workbook and returns
// the serialized file
func (e *IndentExporter) Export(views []*service.IndentView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, view := range views {
		row := i + 2
		values := []interface{}{
			view.IndentID,
			view.EmployeeID,
			view.EmployeeName,
			view.Email,
			view.Grade,
			view.Department,
			view.Designation,
			view.PurposeOfBooking,
			view.TravelType,
			view.TravelStartDate,
			view.TravelEndDate,
			fmt.Sprintf("%s, %s", view.FromCity, view.FromCountry),
			fmt.Sprintf("%s, %s", view.ToCity, view.ToCountry),
			view.TotalDays,
			view.Status,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	e.logger.Info("Indent export generated", zap.Int("rows", len(views)))
	return buf, nil
}
