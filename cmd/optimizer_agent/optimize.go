package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/agent"
	"github.com/jonathan/resume-optimizer/internal/analysis"
	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/generation"
	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/planning"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run the optimization loop against one resume and job posting",
	Long: `Runs the full loop: analyze the job posting, pick a strategy, generate
candidate rewrites in parallel, score them, and iterate until the target
score is reached or the iteration budget runs out.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runOptimize,
}

var (
	optConfigPath    string
	optResume        string
	optJob           string
	optJobURL        string
	optOutputDir     string
	optMaxIterations int
	optMinScore      float64
	optAPIKey        string
	optDatabaseURL   string
	optVerbose       bool
)

func init() {
	optimizeCmd.Flags().StringVar(&optConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	optimizeCmd.Flags().StringVarP(&optResume, "resume", "r", "", "Path to resume text file")
	optimizeCmd.Flags().StringVarP(&optJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	optimizeCmd.Flags().StringVar(&optJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	optimizeCmd.Flags().StringVarP(&optOutputDir, "output-dir", "o", "", "Directory to write the optimized resume and result JSON")
	optimizeCmd.Flags().IntVar(&optMaxIterations, "max-iterations", 0, "Iteration budget (default 3)")
	optimizeCmd.Flags().Float64Var(&optMinScore, "min-score", 0, "Early-stop score threshold (default 85)")
	optimizeCmd.Flags().BoolVarP(&optVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	optimizeCmd.Flags().StringVar(&optAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence and strategy memory
	optimizeCmd.Flags().StringVar(&optDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// Required inputs are checked after merging so they can come from the
	// config file as well as flags.
	if cfg.Resume == "" {
		return fmt.Errorf("a resume is required (use --resume or set 'resume' in the config file)")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("a job posting is required (use --job or --job-url, or set one in the config file)")
	}

	resume, err := ingestion.FromFile(cfg.Resume)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	jobDescription, err := loadJobDescription(ctx, cfg)
	if err != nil {
		return err
	}

	var client llm.Client
	if cfg.APIKey != "" {
		client, err = llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
	} else {
		fmt.Fprintln(os.Stderr, "Warning: no API key set, running with deterministic fallbacks only")
	}

	var (
		recorder agent.Recorder
		memory   planning.Memory
		database *db.DB
		jobID    = uuid.New()
	)
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		recorder = database
		memory = database

		jobID, err = database.CreateJob(ctx, resume, jobDescription)
		if err != nil {
			return fmt.Errorf("failed to create job record: %w", err)
		}
		if err := database.StartJob(ctx, jobID); err != nil {
			return fmt.Errorf("failed to start job: %w", err)
		}
	}

	a := agent.New(
		analysis.NewAnalyzer(client),
		planning.NewPlanner(client, memory),
		generation.NewGenerator(client),
		recorder,
	)

	result, err := a.Run(ctx, agent.RunOptions{
		JobID:          jobID.String(),
		Resume:         resume,
		JobDescription: jobDescription,
		MaxIterations:  cfg.MaxIterations,
		MinScore:       cfg.MinScore,
		Verbose:        cfg.Verbose,
	})
	if err != nil {
		if database != nil {
			_ = database.FailJob(ctx, jobID, err)
		}
		return fmt.Errorf("optimization failed: %w", err)
	}

	if database != nil {
		if err := database.CompleteJob(ctx, jobID, result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record completion: %v\n", err)
		}
	}

	if cfg.OutputDir != "" {
		if err := writeOutputs(cfg.OutputDir, result); err != nil {
			return err
		}
	}

	return nil
}

// buildConfig merges the config file, explicit flags, and environment into
// a validated configuration. Flags win over the file, the file wins over
// the environment.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if optConfigPath != "" {
		loaded, err := config.LoadConfig(optConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if optVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", optConfigPath)
		}
	}

	if cmd.Flags().Changed("resume") {
		cfg.Resume = optResume
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = optJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = optJobURL
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = optOutputDir
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.MaxIterations = optMaxIterations
	}
	if cmd.Flags().Changed("min-score") {
		cfg.MinScore = optMinScore
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = optAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = optDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = optVerbose
	}

	cfg.FromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadJobDescription(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.JobURL != "" {
		text, err := ingestion.FromURL(ctx, cfg.JobURL)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job posting: %w", err)
		}
		return text, nil
	}
	text, err := ingestion.FromFile(cfg.Job)
	if err != nil {
		return "", fmt.Errorf("failed to load job posting: %w", err)
	}
	return text, nil
}

// writeOutputs writes the optimized resume text and the result JSON. The
// JSON is checked against the result schema before writing; a mismatch is
// a warning, not a failure.
func writeOutputs(outputDir string, result *types.OptimizationResult) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	resumePath := filepath.Join(outputDir, "resume_optimized.txt")
	if err := os.WriteFile(resumePath, []byte(result.BestVersion.Content), 0o644); err != nil {
		return fmt.Errorf("failed to write optimized resume: %w", err)
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	schemaPath := schemas.ResolveSchemaPath(schemas.ResultSchema)
	if err := schemas.ValidateDocument(schemaPath, payload); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: result failed schema validation: %v\n", err)
	}

	resultPath := filepath.Join(outputDir, "result.json")
	if err := os.WriteFile(resultPath, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	fmt.Printf("Optimized resume written to %s\n", resumePath)
	fmt.Printf("Result written to %s\n", resultPath)
	return nil
}
