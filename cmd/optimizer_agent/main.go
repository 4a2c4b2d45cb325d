// Package main provides the entry point for the resume optimizer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "optimizer_agent",
	Short: "Agentic resume optimizer",
	Long:  "optimizer_agent iteratively rewrites a resume against a job description using a plan/generate/evaluate loop and a deterministic multi-dimensional scorer.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
