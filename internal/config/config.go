// Package config provides configuration loading and validation for the
// CLI. All fields are optional; missing values use defaults or come from
// flags, which take priority over the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config is the batch-run configuration loadable from a JSON file.
type Config struct {
	// BaseURL is the election results site root.
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`
	// DataDir is the root of the pdfs/ and problems/ areas.
	DataDir string `json:"data_dir,omitempty"`
	// Counties restricts the run to the given county codes.
	Counties []string `json:"counties,omitempty"`
	// ListingURL scrapes report links from an HTML directory listing
	// instead of walking the JSON index.
	ListingURL string `json:"listing_url,omitempty" validate:"omitempty,url"`
	// Workers bounds the concurrent per-item tasks.
	Workers int `json:"workers,omitempty" validate:"gte=0,lte=256"`
	// TaskTimeoutSeconds bounds one item's download+extract; 0 disables.
	TaskTimeoutSeconds int `json:"task_timeout_seconds,omitempty" validate:"gte=0"`
	// Page is the 1-based page of the report carrying the results table.
	Page int `json:"page,omitempty" validate:"gte=0"`
	// OCRProvider selects tesseract, vision or gemini.
	OCRProvider string `json:"ocr_provider,omitempty" validate:"omitempty,oneof=tesseract vision gemini"`
	// APIKey is the Gemini API key (falls back to GEMINI_API_KEY).
	APIKey string `json:"api_key,omitempty"`
	// DatabaseURL enables the optional Postgres problem mirror.
	DatabaseURL string `json:"database_url,omitempty"`
	// UseBrowser enables the headless-browser index fallback.
	UseBrowser bool `json:"use_browser,omitempty"`
	// Verbose prints detailed progress information.
	Verbose bool `json:"verbose,omitempty"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration values against their constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
