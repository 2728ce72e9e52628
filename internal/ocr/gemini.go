package ocr

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiModel is the multimodal model used for transcription.
const geminiModel = "gemini-1.5-flash"

// transcriptionPrompt asks for a verbatim transcription so the vote
// parser sees the same NAME NUMBER lines the other providers produce.
const transcriptionPrompt = "Transcribe all text visible in this scanned document page exactly as written, " +
	"one line per printed line. Do not translate, summarize or reorder anything."

// Gemini runs OCR through the Gemini multimodal API, as a supplemental
// cloud provider for pages where Tesseract confidence is poor.
type Gemini struct {
	client *genai.Client
}

// NewGemini constructs the Gemini provider.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for the gemini provider")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Name() string { return ProviderGemini }

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Recognize asks the model for a verbatim transcription of the image.
func (g *Gemini) Recognize(ctx context.Context, png []byte) (Result, error) {
	model := g.client.GenerativeModel(geminiModel)
	model.SetTemperature(0) // transcription must be deterministic

	resp, err := model.GenerateContent(ctx,
		genai.ImageData("png", png),
		genai.Text(transcriptionPrompt),
	)
	if err != nil {
		return Result{}, fmt.Errorf("gemini transcription failed: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return Result{}, err
	}
	return Result{Provider: ProviderGemini, DocumentText: text}, nil
}

// extractText pulls the text parts out of a generation response.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	out := ""
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	if out == "" {
		return "", fmt.Errorf("no text parts in response")
	}
	return out, nil
}
