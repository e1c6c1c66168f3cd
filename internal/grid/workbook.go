package grid

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/crimetrends/internal/model"
)

// Workbook sheet names.
const (
	CognosticsSheet = "Cognostics"
	PointsSheet     = "Points"
)

// writeWorkbook writes the panels' cognostics and chart points as an XLSX
// workbook. Undefined cognostics are left blank.
func writeWorkbook(w io.Writer, d *Display) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CognosticsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, 0, len(d.Cognostics)+2)
	for _, c := range d.Cognostics {
		header = append(header, c.Label)
	}
	header = append(header, "First Year", "Last Year")
	if err := setRow(f, CognosticsSheet, 1, header); err != nil {
		return err
	}

	for i, p := range d.Panels {
		row := make([]any, 0, len(header))
		for _, c := range d.Cognostics {
			row = append(row, cognosticCell(p, c.Key))
		}
		row = append(row, p.FirstYear, p.LastYear)
		if err := setRow(f, CognosticsSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(PointsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := setRow(f, PointsSheet, 1, []any{"Borough", "Offence", "Year", "Offences"}); err != nil {
		return err
	}
	line := 2
	for _, p := range d.Panels {
		for _, pt := range p.Chart.Points {
			if err := setRow(f, PointsSheet, line, []any{p.Borough, p.Offence, pt.Year, pt.Count}); err != nil {
				return err
			}
			line++
		}
	}

	for _, sheet := range []string{CognosticsSheet, PointsSheet} {
		if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
			return fmt.Errorf("failed to size columns: %w", err)
		}
	}
	if err := f.SetPanes(CognosticsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// cognosticCell returns the workbook value of key for p; nil leaves the
// cell blank.
func cognosticCell(p model.PanelSummary, key model.SortKey) any {
	switch key {
	case model.SortByBorough:
		return p.Borough
	case model.SortByOffence:
		return p.Offence
	}
	v, ok := p.Cognostic(key)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
