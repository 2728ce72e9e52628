// Package extract runs the dual-extraction pipeline for one document
// page: the table reading and the text reading of the same results, the
// OCR pass over the rendered page image, and the reconciliation of the
// two readings into the per-page content object.
package extract

import (
	"context"
	"fmt"

	"github.com/andrei/pv-verifier/internal/ocr"
	"github.com/andrei/pv-verifier/internal/reconcile"
	"github.com/andrei/pv-verifier/internal/registry"
	"github.com/andrei/pv-verifier/internal/render"
	"github.com/andrei/pv-verifier/internal/votes"
)

// DefaultPage is the page of the A3 report form that carries the results
// table.
const DefaultPage = 2

// OCRBlock is the OCR outcome for the page. A provider failure is
// surfaced in Error rather than raised, so a page with failed OCR still
// produces a well-formed content object.
type OCRBlock struct {
	Provider        string  `json:"provider"`
	Text            string  `json:"text,omitempty"`
	DocumentText    string  `json:"document_text,omitempty"`
	HandwrittenText string  `json:"handwritten_text,omitempty"`
	Confidence      float64 `json:"confidence,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// PageContent is the full verification record for one page.
type PageContent struct {
	PageNumber           int              `json:"page_number"`
	Text                 string           `json:"text"`
	TextTables           [][][]string     `json:"text_tables"`
	TextParsedVotes      []votes.Record   `json:"text_parsed_votes"`
	TextFormattedResults votes.Report     `json:"text_formatted_results"`
	OCRParsedVotes       []votes.Record   `json:"ocr_parsed_votes"`
	OCRFormattedResults  string           `json:"ocr_formatted_results"`
	OCRTotalVotes        int              `json:"ocr_total_votes"`
	VoteComparison       reconcile.Report `json:"vote_comparison"`
	OCR                  *OCRBlock        `json:"ocr,omitempty"`
}

// Result wraps the extracted pages of one document.
type Result struct {
	Pages []PageContent `json:"pages"`
}

// Pipeline binds the collaborators the per-document extraction needs.
type Pipeline struct {
	Renderer render.Service
	Provider ocr.Provider
	Registry *registry.Registry
}

// ExtractPage runs the full pipeline against one page of the document.
//
// The "text_votes" side of the comparison is the table reading of the
// machine-readable layer; the "ocr_votes" side is the pattern reading of
// the same layer's flat text. Input errors (missing document, page out
// of range) are returned; OCR-provider errors are embedded in the
// result's OCR block instead.
func (p *Pipeline) ExtractPage(ctx context.Context, path string, page int) (*Result, error) {
	text, err := p.Renderer.PageText(ctx, path, page)
	if err != nil {
		return nil, fmt.Errorf("extracting page text: %w", err)
	}
	tables, err := p.Renderer.PageTables(ctx, path, page)
	if err != nil {
		return nil, fmt.Errorf("extracting page tables: %w", err)
	}

	var table [][]string
	if len(tables) > 0 {
		table = tables[0]
	}
	tableVotes := votes.ParseTable(p.Registry, table)
	textVotes := votes.ParseText(p.Registry, text)

	content := PageContent{
		PageNumber:           page,
		Text:                 text,
		TextTables:           tables,
		TextParsedVotes:      tableVotes,
		TextFormattedResults: votes.Format(tableVotes),
		OCRParsedVotes:       textVotes,
		OCRFormattedResults:  votes.FormatLines(textVotes),
		OCRTotalVotes:        votes.Total(textVotes),
		VoteComparison:       reconcile.Compare(p.Registry, tableVotes, textVotes),
	}

	if p.Provider != nil {
		content.OCR = p.recognize(ctx, path, page)
	}

	return &Result{Pages: []PageContent{content}}, nil
}

// recognize renders the page image and runs the OCR provider over it,
// folding any failure into the block's Error field.
func (p *Pipeline) recognize(ctx context.Context, path string, page int) *OCRBlock {
	block := &OCRBlock{Provider: p.Provider.Name()}

	image, err := p.Renderer.PageImage(ctx, path, page)
	if err != nil {
		block.Error = fmt.Sprintf("render page image: %v", err)
		return block
	}

	result, err := p.Provider.Recognize(ctx, image)
	if err != nil {
		block.Error = err.Error()
		return block
	}

	block.Text = result.Text
	block.DocumentText = result.DocumentText
	block.HandwrittenText = result.HandwrittenText
	block.Confidence = result.Confidence
	return block
}
