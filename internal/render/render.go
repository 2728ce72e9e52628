// Package render turns one page of a scanned report document into the
// three inputs the verification pipeline needs: the machine-readable text
// layer, the results table grid, and a rendered page image for OCR.
package render

import (
	"context"
	"fmt"
)

// Service supplies the three independent readings of a document page.
// Pages are 1-based; every method reports a *PageError when the requested
// page exceeds the document's page count.
type Service interface {
	// PageCount returns the number of pages in the document.
	PageCount(ctx context.Context, path string) (int, error)
	// PageText returns the page's plain text layer.
	PageText(ctx context.Context, path string, page int) (string, error)
	// PageTables returns zero or more tables found on the page, each a
	// grid of cell strings.
	PageTables(ctx context.Context, path string, page int) ([][][]string, error)
	// PageImage returns the page rendered as a PNG image.
	PageImage(ctx context.Context, path string, page int) ([]byte, error)
}

// PageError reports a request for a page beyond the document's page count.
type PageError struct {
	Path  string
	Page  int
	Count int
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%s only has %d pages, requested page %d", e.Path, e.Count, e.Page)
}

// UnavailableError reports that a required external rendering tool is not
// installed. It is returned from the constructor so embedding callers can
// recover or report instead of exiting.
type UnavailableError struct {
	Tool  string
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("rendering unavailable: %s not found (install poppler-utils): %v", e.Tool, e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
