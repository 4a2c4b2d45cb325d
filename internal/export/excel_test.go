package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []RunRow {
	return []RunRow{
		{
			JobID:      "7c5cbe31-6e15-4a0c-bd32-cf0c9473de0a",
			Status:     "COMPLETED",
			JobType:    "technical",
			Strategy:   "keyword_optimization",
			Approach:   "keywords",
			BestScore:  91.5,
			Iterations: 2,
			CreatedAt:  time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			JobID:      "0b9e2c1f-92c4-4a4f-9f2e-0a6d35bfae11",
			Status:     "FAILED",
			JobType:    "general",
			BestScore:  0,
			Iterations: 0,
			CreatedAt:  time.Date(2025, 8, 2, 11, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteReport_AddsXlsxExtension(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "report")
	require.NoError(t, WriteReport(sampleRows(), outputPath))

	_, err := os.Stat(outputPath + ".xlsx")
	assert.NoError(t, err, "report file should exist with .xlsx extension")
}

func TestWriteReport_SheetContents(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteReport(sampleRows(), outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Runs"}, f.GetSheetList())

	status, err := f.GetCellValue("Runs", "B2")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", status)

	score, err := f.GetCellValue("Runs", "F2")
	require.NoError(t, err)
	assert.Equal(t, "91.50", score)

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Resume Optimization Report", title)
}

func TestWriteReport_EmptyRows(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteReport(nil, outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "0", total)
}
