package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrei/pv-verifier/internal/ocr"
	"github.com/andrei/pv-verifier/internal/registry"
	"github.com/andrei/pv-verifier/internal/render"
)

// fakeRenderer serves canned page content for a single-document test.
type fakeRenderer struct {
	text   string
	tables [][][]string
	image  []byte
	pages  int
}

func (f *fakeRenderer) PageCount(_ context.Context, _ string) (int, error) {
	return f.pages, nil
}

func (f *fakeRenderer) PageText(_ context.Context, path string, page int) (string, error) {
	if page > f.pages {
		return "", &render.PageError{Path: path, Page: page, Count: f.pages}
	}
	return f.text, nil
}

func (f *fakeRenderer) PageTables(_ context.Context, path string, page int) ([][][]string, error) {
	if page > f.pages {
		return nil, &render.PageError{Path: path, Page: page, Count: f.pages}
	}
	return f.tables, nil
}

func (f *fakeRenderer) PageImage(_ context.Context, path string, page int) ([]byte, error) {
	if page > f.pages {
		return nil, &render.PageError{Path: path, Page: page, Count: f.pages}
	}
	return f.image, nil
}

// fakeOCR returns a fixed result or error.
type fakeOCR struct {
	result ocr.Result
	err    error
}

func (f *fakeOCR) Name() string { return "fake" }

func (f *fakeOCR) Recognize(_ context.Context, _ []byte) (ocr.Result, error) {
	return f.result, f.err
}

func matchingRenderer() *fakeRenderer {
	return &fakeRenderer{
		pages: 2,
		text:  "CANDIDATE X 150\nCANDIDATE Y 200",
		tables: [][][]string{{
			{"Nr", "Candidat", "Voturi"},
			{"1", "CANDIDATE X", "150"},
			{"2", "CANDIDATE Y", "200"},
		}},
		image: []byte("png"),
	}
}

func TestExtractPageAllMatch(t *testing.T) {
	p := &Pipeline{
		Renderer: matchingRenderer(),
		Provider: &fakeOCR{result: ocr.Result{Provider: "fake", Text: "ocr text"}},
		Registry: registry.New("CANDIDATE X", "CANDIDATE Y"),
	}

	result, err := p.ExtractPage(context.Background(), "report.pdf", 2)
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)

	page := result.Pages[0]
	assert.Equal(t, 2, page.PageNumber)
	assert.True(t, page.VoteComparison.AllMatch)
	assert.Empty(t, page.VoteComparison.Differences)
	assert.Equal(t, 350, page.TextFormattedResults.TotalVotes)
	assert.Equal(t, 350, page.OCRTotalVotes)
	assert.Equal(t, "1 CANDIDATE X 150\n2 CANDIDATE Y 200", page.OCRFormattedResults)

	require.NotNil(t, page.OCR)
	assert.Equal(t, "ocr text", page.OCR.Text)
	assert.Empty(t, page.OCR.Error)
}

func TestExtractPagePerturbedCountFlagsOneDifference(t *testing.T) {
	renderer := matchingRenderer()
	renderer.tables[0][2][2] = "201" // table disagrees with the text layer

	p := &Pipeline{
		Renderer: renderer,
		Registry: registry.New("CANDIDATE X", "CANDIDATE Y"),
	}

	result, err := p.ExtractPage(context.Background(), "report.pdf", 2)
	require.NoError(t, err)

	comparison := result.Pages[0].VoteComparison
	assert.False(t, comparison.AllMatch)
	require.Len(t, comparison.Differences, 1)
	assert.Equal(t, "CANDIDATE Y", comparison.Differences[0].Name)
}

func TestExtractPageOutOfRange(t *testing.T) {
	p := &Pipeline{
		Renderer: matchingRenderer(),
		Registry: registry.New("CANDIDATE X"),
	}

	_, err := p.ExtractPage(context.Background(), "report.pdf", 5)
	var pageErr *render.PageError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, 5, pageErr.Page)
}

func TestExtractPageOCRFailureIsEmbedded(t *testing.T) {
	p := &Pipeline{
		Renderer: matchingRenderer(),
		Provider: &fakeOCR{err: errors.New("tesseract exploded")},
		Registry: registry.New("CANDIDATE X", "CANDIDATE Y"),
	}

	result, err := p.ExtractPage(context.Background(), "report.pdf", 2)
	require.NoError(t, err, "OCR failure must not fail the page")

	require.NotNil(t, result.Pages[0].OCR)
	assert.Contains(t, result.Pages[0].OCR.Error, "tesseract exploded")
	assert.True(t, result.Pages[0].VoteComparison.AllMatch, "comparison is independent of OCR outcome")
}

func TestExtractPageWithoutProviderSkipsOCRBlock(t *testing.T) {
	p := &Pipeline{
		Renderer: matchingRenderer(),
		Registry: registry.New("CANDIDATE X", "CANDIDATE Y"),
	}

	result, err := p.ExtractPage(context.Background(), "report.pdf", 2)
	require.NoError(t, err)
	assert.Nil(t, result.Pages[0].OCR)
}

func TestExtractPageEmptyDocument(t *testing.T) {
	p := &Pipeline{
		Renderer: &fakeRenderer{pages: 2},
		Registry: registry.New("CANDIDATE X"),
	}

	result, err := p.ExtractPage(context.Background(), "report.pdf", 2)
	require.NoError(t, err)

	page := result.Pages[0]
	assert.Empty(t, page.TextParsedVotes)
	assert.Empty(t, page.OCRParsedVotes)
	assert.False(t, page.VoteComparison.AllMatch, "registry names missing from both sides are still flagged")
}
