// Package main provides the entry point for the precinct result
// verifier CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pv_verifier",
	Short: "Precinct election report verifier",
	Long: "pv_verifier cross-checks scanned precinct result reports by comparing the table reading " +
		"and the text reading of the same page, flagging precincts where the two disagree.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
