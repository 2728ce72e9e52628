package ocr

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), "acme-ocr", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme-ocr")
}

func TestNewDefaultsToTesseract(t *testing.T) {
	p, err := New(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, ProviderTesseract, p.Name())
}

func TestNewGeminiRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), ProviderGemini, "")
	assert.Error(t, err)
}

func TestGeminiProviderIsCloseable(t *testing.T) {
	var provider Provider = &Gemini{}

	closer, ok := provider.(io.Closer)
	require.True(t, ok, "callers release the gemini client through io.Closer")
	assert.NoError(t, closer.Close())
}

func TestResultPlainText(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		expected string
	}{
		{"tesseract text", Result{Text: "plain"}, "plain"},
		{"document text preferred", Result{Text: "plain", DocumentText: "document"}, "document"},
		{"empty", Result{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.PlainText())
		})
	}
}
