package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

// ResultSheet is the worksheet WriteXLSX writes to.
const ResultSheet = "results"

// highlight is the fill of rows selected by any solution.
const highlight = "FFFF00"

// report is the export layout shared by the CSV and XLSX writers. Cells
// hold a string label, a float64 value, an int marker or nil.
type report struct {
	rows [][]any
	// selected marks the value rows picked by at least one solution.
	selected []bool
}

func newReport(values []float64, r subsetsum.ResultSet, target *float64) report {
	header := []any{"value"}
	for i := range r {
		header = append(header, fmt.Sprintf("solution %d", i+1))
	}
	header = append(header, "selected")

	marks := make([][]bool, len(values))
	for i := range marks {
		marks[i] = make([]bool, len(r))
	}
	for j, s := range r {
		for _, idx := range s {
			marks[idx][j] = true
		}
	}

	rep := report{rows: [][]any{header}, selected: make([]bool, len(values))}
	for i, v := range values {
		row := []any{v}
		for _, m := range marks[i] {
			if m {
				row = append(row, 1)
				rep.selected[i] = true
			} else {
				row = append(row, 0)
			}
		}
		selected := 0
		if rep.selected[i] {
			selected = 1
		}
		rep.rows = append(rep.rows, append(row, selected))
	}

	if len(r) > 0 {
		sums := []any{"sum"}
		diffs := []any{"difference"}
		for _, s := range r {
			var sum float64
			for _, idx := range s {
				sum += values[idx]
			}
			sums = append(sums, round(sum))
			if target != nil {
				diffs = append(diffs, round(math.Abs(sum-*target)))
			}
		}
		rep.rows = append(rep.rows, append(sums, nil))
		if target != nil {
			rep.rows = append(rep.rows, append(diffs, nil))
		}
	}
	return rep
}

// WriteCSV writes one row per value with a 0/1 column per solution and
// a final column telling whether any solution selects the value. A sum
// row follows, and a row with the distance to target when target is not
// nil.
func WriteCSV(w io.Writer, values []float64, r subsetsum.ResultSet, target *float64) error {
	writer := csv.NewWriter(w)
	for _, row := range newReport(values, r, target).rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = text(cell)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the WriteCSV layout to the ResultSheet of a workbook
// and fills the first two cells of every selected value row.
func WriteXLSX(w io.Writer, values []float64, r subsetsum.ResultSet, target *float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rep := newReport(values, r, target)
	for y, row := range rep.rows {
		for x, cell := range row {
			if cell == nil {
				continue
			}
			name, err := excelize.CoordinatesToCellName(x+1, y+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(ResultSheet, name, cell); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", name, err)
			}
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{highlight}},
	})
	if err != nil {
		return fmt.Errorf("failed to create highlight style: %w", err)
	}
	for i, selected := range rep.selected {
		if !selected {
			continue
		}
		// value rows start below the header
		from, _ := excelize.CoordinatesToCellName(1, i+2)
		to, _ := excelize.CoordinatesToCellName(2, i+2)
		if err := f.SetCellStyle(ResultSheet, from, to, style); err != nil {
			return fmt.Errorf("failed to highlight row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func text(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// round keeps at most six decimals, trimming noise from accumulated
// float error.
func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
