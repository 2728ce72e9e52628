// Package ocr defines the optical character recognition contract and the
// available provider implementations. Providers turn a rendered page
// image into recognized text; they never see the document itself.
package ocr

import (
	"context"
	"fmt"
)

// Provider names accepted by New and the --ocr-provider flag.
const (
	ProviderTesseract = "tesseract"
	ProviderVision    = "vision"
	ProviderGemini    = "gemini"
)

// Result is the recognized content of one page image. Tesseract fills
// Text; the cloud providers distinguish document text from handwritten
// text and report a per-page confidence.
type Result struct {
	Provider        string  `json:"provider"`
	Text            string  `json:"text,omitempty"`
	DocumentText    string  `json:"document_text,omitempty"`
	HandwrittenText string  `json:"handwritten_text,omitempty"`
	Confidence      float64 `json:"confidence,omitempty"`
}

// PlainText returns whichever text field the provider filled, preferring
// the document text of cloud providers.
func (r Result) PlainText() string {
	if r.DocumentText != "" {
		return r.DocumentText
	}
	return r.Text
}

// Provider performs recognition on a PNG page image.
type Provider interface {
	Name() string
	Recognize(ctx context.Context, png []byte) (Result, error)
}

// New builds the named provider. The cloud providers read their
// credentials from the environment (GOOGLE_APPLICATION_CREDENTIALS for
// vision, the apiKey argument for gemini).
func New(ctx context.Context, name, apiKey string) (Provider, error) {
	switch name {
	case ProviderTesseract, "":
		return NewTesseract(), nil
	case ProviderVision:
		return NewVision(ctx)
	case ProviderGemini:
		return NewGemini(ctx, apiKey)
	default:
		return nil, fmt.Errorf("unknown OCR provider %q (want tesseract, vision or gemini)", name)
	}
}
