package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrei/pv-verifier/internal/extract"
	"github.com/andrei/pv-verifier/internal/ocr"
	"github.com/andrei/pv-verifier/internal/registry"
	"github.com/andrei/pv-verifier/internal/render"
)

var extractCommand = &cobra.Command{
	Use:   "extract",
	Short: "Extract and verify a single report document",
	Long: `Runs the dual-extraction pipeline against one page of a local report PDF and prints
the full page content object, including both vote readings and their reconciliation.`,
	RunE: runExtractCmd,
}

var (
	extractPDFPath  string
	extractOutput   string
	extractProvider string
	extractPage     int
	extractAPIKey   string
)

func init() {
	extractCommand.Flags().StringVar(&extractPDFPath, "pdf", "", "Path to the report PDF (required)")
	extractCommand.Flags().StringVarP(&extractOutput, "output", "o", "", "Output JSON file path (optional, defaults to stdout)")
	extractCommand.Flags().StringVar(&extractProvider, "ocr-provider", ocr.ProviderTesseract, "OCR provider: tesseract, vision or gemini")
	extractCommand.Flags().IntVar(&extractPage, "page", extract.DefaultPage, "Page number to extract")
	extractCommand.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")

	_ = extractCommand.MarkFlagRequired("pdf")

	rootCmd.AddCommand(extractCommand)
}

func runExtractCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey := extractAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	renderer, err := render.NewPoppler()
	if err != nil {
		return err
	}
	provider, err := ocr.New(ctx, extractProvider, apiKey)
	if err != nil {
		return err
	}
	if closer, ok := provider.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	pipeline := &extract.Pipeline{
		Renderer: renderer,
		Provider: provider,
		Registry: registry.Default(),
	}

	result, err := pipeline.ExtractPage(ctx, extractPDFPath, extractPage)
	if err != nil {
		return err
	}

	out := os.Stdout
	if extractOutput != "" {
		f, err := os.Create(extractOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if extractOutput != "" {
		fmt.Printf("Page content extracted to: %s\n", extractOutput)
	}
	return nil
}
