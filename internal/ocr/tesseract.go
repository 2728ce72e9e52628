package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract runs local OCR through the gosseract binding. A fresh client
// is created per call; gosseract clients are not safe for concurrent use
// and the batch workers each recognize independently.
type Tesseract struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// NewTesseract constructs the local Tesseract provider with Romanian and
// English trained data hints.
func NewTesseract() *Tesseract {
	return &Tesseract{
		clientFactory: gosseract.NewClient,
		languages:     []string{"ron", "eng"},
	}
}

func (t *Tesseract) Name() string { return ProviderTesseract }

// Recognize extracts text from the PNG image.
func (t *Tesseract) Recognize(ctx context.Context, png []byte) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	client := t.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(png); err != nil {
		return Result{}, fmt.Errorf("set image: %w", err)
	}
	if err := client.SetLanguage(t.languages...); err != nil {
		return Result{}, fmt.Errorf("set languages: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	return Result{Provider: ProviderTesseract, Text: text}, nil
}
