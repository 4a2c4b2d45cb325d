package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/agent"
	"github.com/jonathan/resume-optimizer/internal/analysis"
	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/generation"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/planning"
	"github.com/jonathan/resume-optimizer/internal/server"
)

var (
	servePort          int
	serveMaxIterations int
	serveMinScore      float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that accepts optimization jobs and reports their status and results.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().IntVar(&serveMaxIterations, "max-iterations", 0, "Default iteration budget for submitted jobs")
	serveCmd.Flags().Float64Var(&serveMinScore, "min-score", 0, "Default early-stop score threshold for submitted jobs")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	optimizer := agent.New(
		analysis.NewAnalyzer(client),
		planning.NewPlanner(client, database),
		generation.NewGenerator(client),
		database,
	)

	// Auth is enabled only when JWT_SECRET is configured.
	var (
		jwtService *server.JWTService
		passwords  server.PasswordHasher
	)
	if os.Getenv("JWT_SECRET") != "" {
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("invalid JWT configuration: %w", err)
		}
		passwordCfg, err := config.NewPasswordConfig()
		if err != nil {
			return fmt.Errorf("invalid password configuration: %w", err)
		}
		jwtService = server.NewJWTService(jwtCfg)
		passwords = passwordCfg
	}

	srv := server.New(server.Config{
		Port:          servePort,
		MaxIterations: serveMaxIterations,
		MinScore:      serveMinScore,
	}, database, database, optimizer, jwtService, passwords)

	return srv.Start()
}
