package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrei/pv-verifier/internal/batch"
	"github.com/andrei/pv-verifier/internal/config"
	"github.com/andrei/pv-verifier/internal/extract"
	"github.com/andrei/pv-verifier/internal/ocr"
)

var batchCommand = &cobra.Command{
	Use:   "batch",
	Short: "Verify every precinct report referenced by the remote index",
	Long: `Fetches the counties list and each county's report index, downloads every eligible
precinct report that has not been processed yet, runs the dual-extraction pipeline over each
one concurrently, and persists the full page content of disagreeing precincts under the
problems area for review.

Configuration can be loaded from a JSON file using --config. Command-line arguments override
config file values.`,
	RunE: runBatchCmd,
}

var (
	batchConfigPath  string
	batchBaseURL     string
	batchDataDir     string
	batchCounties    []string
	batchListingURL  string
	batchWorkers     int
	batchTaskTimeout int
	batchPage        int
	batchProvider    string
	batchAPIKey      string
	batchDatabaseURL string
	batchUseBrowser  bool
	batchVerbose     bool
)

func init() {
	batchCommand.Flags().StringVar(&batchConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	batchCommand.Flags().StringVar(&batchBaseURL, "base-url", batch.DefaultBaseURL, "Election results site root")
	batchCommand.Flags().StringVar(&batchDataDir, "data-dir", "data", "Directory for downloaded reports and flagged problems")
	batchCommand.Flags().StringSliceVar(&batchCounties, "county", nil, "County code to process (repeatable; default all)")
	batchCommand.Flags().StringVar(&batchListingURL, "from-listing", "", "Scrape report links from an HTML directory listing instead of the JSON index")
	batchCommand.Flags().IntVar(&batchWorkers, "workers", batch.DefaultWorkers, "Concurrent worker count")
	batchCommand.Flags().IntVar(&batchTaskTimeout, "task-timeout", 0, "Per-item timeout in seconds (0 disables)")
	batchCommand.Flags().IntVar(&batchPage, "page", extract.DefaultPage, "Page number to verify on each report")
	batchCommand.Flags().StringVar(&batchProvider, "ocr-provider", ocr.ProviderTesseract, "OCR provider: tesseract, vision or gemini")
	batchCommand.Flags().StringVar(&batchAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	batchCommand.Flags().StringVar(&batchDatabaseURL, "db-url", "", "PostgreSQL connection URL for the problem mirror (optional, defaults to DATABASE_URL env var)")
	batchCommand.Flags().BoolVar(&batchUseBrowser, "use-browser", false, "Use a headless browser when the index serves an HTML challenge (requires Chrome)")
	batchCommand.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(batchCommand)
}

func runBatchCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if batchConfigPath != "" {
		loaded, err := config.Load(batchConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = *loaded
		if batchVerbose {
			fmt.Printf("Loaded config from: %s\n", batchConfigPath)
		}
	}

	// Command-line arguments take priority; only override when the flag
	// was explicitly set.
	if cmd.Flags().Changed("base-url") || cfg.BaseURL == "" {
		cfg.BaseURL = batchBaseURL
	}
	if cmd.Flags().Changed("data-dir") || cfg.DataDir == "" {
		cfg.DataDir = batchDataDir
	}
	if cmd.Flags().Changed("county") {
		cfg.Counties = batchCounties
	}
	if cmd.Flags().Changed("from-listing") {
		cfg.ListingURL = batchListingURL
	}
	if cmd.Flags().Changed("workers") || cfg.Workers == 0 {
		cfg.Workers = batchWorkers
	}
	if cmd.Flags().Changed("task-timeout") {
		cfg.TaskTimeoutSeconds = batchTaskTimeout
	}
	if cmd.Flags().Changed("page") || cfg.Page == 0 {
		cfg.Page = batchPage
	}
	if cmd.Flags().Changed("ocr-provider") || cfg.OCRProvider == "" {
		cfg.OCRProvider = batchProvider
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = batchAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = batchDatabaseURL
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = batchUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = batchVerbose
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return batch.Run(ctx, batch.Options{
		BaseURL:     cfg.BaseURL,
		DataDir:     cfg.DataDir,
		Counties:    cfg.Counties,
		ListingURL:  cfg.ListingURL,
		Workers:     cfg.Workers,
		TaskTimeout: time.Duration(cfg.TaskTimeoutSeconds) * time.Second,
		Page:        cfg.Page,
		OCRProvider: cfg.OCRProvider,
		APIKey:      cfg.APIKey,
		DatabaseURL: cfg.DatabaseURL,
		UseBrowser:  cfg.UseBrowser,
		Verbose:     cfg.Verbose,
	})
}
