package ocr

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// Vision runs OCR through the Google Cloud Vision API. It requests both
// document text detection and plain text detection in one batch, mapping
// the former to DocumentText and the latter to HandwrittenText, matching
// the distinction the precinct forms need (printed counts vs handwritten
// corrections).
type Vision struct {
	service *vision.Service
}

// NewVision constructs the Cloud Vision provider. Credentials come from
// the environment (GOOGLE_APPLICATION_CREDENTIALS) unless overridden via
// opts.
func NewVision(ctx context.Context, opts ...option.ClientOption) (*Vision, error) {
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &Vision{service: svc}, nil
}

func (v *Vision) Name() string { return ProviderVision }

// Recognize submits the image for both detection modes and folds the
// responses into one Result.
func (v *Vision) Recognize(ctx context.Context, png []byte) (Result, error) {
	content := base64.StdEncoding.EncodeToString(png)
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:    &vision.Image{Content: content},
				Features: []*vision.Feature{{Type: "DOCUMENT_TEXT_DETECTION"}},
			},
			{
				Image:    &vision.Image{Content: content},
				Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
			},
		},
	}

	resp, err := v.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return Result{}, fmt.Errorf("vision annotate failed: %w", err)
	}
	if len(resp.Responses) < 2 {
		return Result{}, fmt.Errorf("vision annotate returned %d responses, want 2", len(resp.Responses))
	}

	result := Result{Provider: ProviderVision}

	if doc := resp.Responses[0]; doc.FullTextAnnotation != nil {
		result.DocumentText = doc.FullTextAnnotation.Text
		if len(doc.FullTextAnnotation.Pages) > 0 {
			result.Confidence = doc.FullTextAnnotation.Pages[0].Confidence
		}
	}
	if hand := resp.Responses[1]; hand.FullTextAnnotation != nil {
		result.HandwrittenText = hand.FullTextAnnotation.Text
	}

	return result, nil
}
