// Package main provides the entry point for the interactive cover letter bot.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cover_letter_bot",
	Short: "Interactive cover letter generator",
	Long: `Cover Letter Bot scrapes a job listing, asks for your preferences, generates a
tailored LaTeX cover letter from your CV and typesets it to PDF.

Configuration can be loaded from a YAML file using --config. Environment variables
prefixed with COVER_LETTER_BOT_ and command-line flags override file values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
