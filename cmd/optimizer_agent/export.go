package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/export"
)

var (
	exportOutput string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export past optimization runs to an Excel report",
	Long:  `Reads optimization jobs from the database and writes a two-sheet Excel workbook: a summary and a per-run breakdown.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "runs_report.xlsx", "Output file path")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 100, "Maximum number of runs to include")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	jobs, err := database.ListJobs(ctx, exportLimit)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	rows := make([]export.RunRow, 0, len(jobs))
	for _, job := range jobs {
		row := export.RunRow{
			JobID:     job.ID.String(),
			Status:    job.Status,
			JobType:   job.JobType,
			CreatedAt: job.CreatedAt,
		}
		if job.BestScore != nil {
			row.BestScore = *job.BestScore
		}

		// Strategy and approach live in the stored result, which only
		// completed jobs have.
		if job.Status == db.StatusCompleted {
			result, err := database.GetResult(ctx, job.ID)
			if err == nil && result != nil {
				row.Strategy = string(result.Strategy)
				row.Approach = string(result.Approach)
				row.Iterations = result.Iterations
			}
		}
		rows = append(rows, row)
	}

	if err := export.WriteReport(rows, exportOutput); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Exported %d runs to %s\n", len(rows), exportOutput)
	return nil
}
