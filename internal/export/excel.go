// Package export writes optimization run reports as Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// RunRow is one optimization run in the report.
type RunRow struct {
	JobID      string
	Status     string
	JobType    string
	Strategy   string
	Approach   string
	BestScore  float64
	Iterations int
	CreatedAt  time.Time
}

// WriteReport generates an Excel file summarizing past optimization runs.
func WriteReport(rows []RunRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	summarySheet := "Summary"
	runsSheet := "Runs"

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(runsSheet); err != nil {
		return fmt.Errorf("failed to create runs sheet: %w", err)
	}

	if err := writeSummarySheet(f, summarySheet, rows); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeRunsSheet(f, runsSheet, rows); err != nil {
		return fmt.Errorf("failed to create runs sheet: %w", err)
	}

	// Try to save the file directly, falling back to a buffered write
	if err := f.SaveAs(outputPath); err != nil {
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save report: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0o644); fileErr != nil {
			return fmt.Errorf("failed to save report: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return nil
}

func writeSummarySheet(f *excelize.File, sheetName string, rows []RunRow) error {
	_ = f.SetColWidth(sheetName, "A", "A", 25)
	_ = f.SetColWidth(sheetName, "B", "B", 40)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	setCell := func(col string, v any) {
		_ = f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), v)
	}
	label := func(text string, v any) {
		setCell("A", text)
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		setCell("B", v)
		row++
	}

	setCell("A", "Resume Optimization Report")
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	_ = f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	label("Generated:", time.Now().Format("2006-01-02 15:04:05"))
	label("Total Runs:", len(rows))

	completed := 0
	failed := 0
	var total, best float64
	scored := 0
	for _, r := range rows {
		switch r.Status {
		case "COMPLETED":
			completed++
		case "FAILED":
			failed++
		}
		if r.BestScore > 0 {
			total += r.BestScore
			scored++
			if r.BestScore > best {
				best = r.BestScore
			}
		}
	}
	label("Completed:", completed)
	label("Failed:", failed)
	if scored > 0 {
		label("Average Score:", fmt.Sprintf("%.2f", total/float64(scored)))
		label("Best Score:", fmt.Sprintf("%.2f", best))
	}

	return nil
}

func writeRunsSheet(f *excelize.File, sheetName string, rows []RunRow) error {
	widths := map[string]float64{"A": 38, "B": 12, "C": 12, "D": 20, "E": 14, "F": 12, "G": 11, "H": 20}
	for col, width := range widths {
		_ = f.SetColWidth(sheetName, col, col, width)
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	// Row fills by score band
	strongStyle, _ := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: border,
	})
	okStyle, _ := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFEB9C"}, Pattern: 1},
		Border: border,
	})
	weakStyle, _ := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Border: border,
	})

	headers := []string{"Job ID", "Status", "Job Type", "Strategy", "Approach", "Score", "Iterations", "Created"}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, r := range rows {
		rowNum := i + 2
		cells := []any{
			r.JobID, r.Status, r.JobType, r.Strategy, r.Approach,
			fmt.Sprintf("%.2f", r.BestScore), r.Iterations,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range cells {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("%s%d", string(rune('A'+col)), rowNum), v)
		}

		style := weakStyle
		switch {
		case r.BestScore >= 85:
			style = strongStyle
		case r.BestScore >= 70:
			style = okStyle
		}
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("H%d", rowNum), style)
	}

	if len(rows) > 0 {
		_ = f.AutoFilter(sheetName, fmt.Sprintf("A1:H%d", len(rows)+1), []excelize.AutoFilterOptions{})
	}

	// Freeze top row
	return f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
