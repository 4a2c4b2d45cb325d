package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/scoring"
)

var (
	scoreResume string
	scoreJob    string
	scoreJobURL string
	scoreJSON   bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job posting without rewriting it",
	Long:  `Runs the deterministic scorer on a resume and prints the per-dimension breakdown. Requires no API key or database.`,
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreResume, "resume", "r", "", "Path to resume text file (required)")
	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	scoreCmd.Flags().StringVar(&scoreJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the score as JSON")

	if err := scoreCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	if (scoreJob == "") == (scoreJobURL == "") {
		return fmt.Errorf("exactly one of --job or --job-url is required")
	}

	resume, err := ingestion.FromFile(scoreResume)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	var jobDescription string
	if scoreJobURL != "" {
		jobDescription, err = ingestion.FromURL(context.Background(), scoreJobURL)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
	} else {
		jobDescription, err = ingestion.FromFile(scoreJob)
		if err != nil {
			return fmt.Errorf("failed to load job posting: %w", err)
		}
	}

	score := scoring.Score(resume, jobDescription)

	if scoreJSON {
		return json.NewEncoder(os.Stdout).Encode(score)
	}

	fmt.Printf("Overall:       %.2f\n", score.Overall)
	fmt.Printf("ATS:           %d\n", score.ATS)
	fmt.Printf("Keyword match: %.0f%%\n", score.KeywordMatch*100)
	fmt.Printf("Action verbs:  %d\n", score.ActionVerbCount)
	fmt.Printf("Achievements:  %d\n", score.AchievementCount)
	fmt.Printf("Format:        %d\n", score.FormatScore)
	fmt.Printf("Quality:       %d\n", score.QualityScore)
	fmt.Printf("Completeness:  %d\n", score.CompletenessScore)
	return nil
}
