package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// imageDPI is the render resolution for OCR input. 150 dpi keeps the A3
// form legible for Tesseract without producing oversized images.
const imageDPI = 150

// Poppler implements Service by shelling out to the poppler-utils
// command-line tools (pdfinfo, pdftotext, pdftoppm).
type Poppler struct {
	pdfinfo   string
	pdftotext string
	pdftoppm  string
}

// NewPoppler locates the poppler tools on PATH. A missing tool yields an
// *UnavailableError rather than a process exit, so callers embedding the
// pipeline can degrade gracefully.
func NewPoppler() (*Poppler, error) {
	p := &Poppler{}
	for _, tool := range []struct {
		name string
		dst  *string
	}{
		{"pdfinfo", &p.pdfinfo},
		{"pdftotext", &p.pdftotext},
		{"pdftoppm", &p.pdftoppm},
	} {
		path, err := exec.LookPath(tool.name)
		if err != nil {
			return nil, &UnavailableError{Tool: tool.name, Cause: err}
		}
		*tool.dst = path
	}
	return p, nil
}

var pagesLine = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// PageCount reads the page count from pdfinfo output.
func (p *Poppler) PageCount(ctx context.Context, path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("document not found: %s: %w", path, err)
	}
	out, err := p.run(ctx, p.pdfinfo, path)
	if err != nil {
		return 0, fmt.Errorf("pdfinfo %s: %w", path, err)
	}
	m := pagesLine.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("pdfinfo %s: no page count in output", path)
	}
	count, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, fmt.Errorf("pdfinfo %s: bad page count: %w", path, err)
	}
	return count, nil
}

// PageText extracts the page's text layer with pdftotext in layout mode,
// which preserves the column alignment the table recovery relies on.
func (p *Poppler) PageText(ctx context.Context, path string, page int) (string, error) {
	if err := p.checkPage(ctx, path, page); err != nil {
		return "", err
	}
	out, err := p.run(ctx, p.pdftotext,
		"-f", strconv.Itoa(page), "-l", strconv.Itoa(page), "-layout", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext %s page %d: %w", path, page, err)
	}
	return string(out), nil
}

// PageTables recovers table grids from the layout-mode text. The A3
// precinct form carries a single results table, so at most one grid is
// returned.
func (p *Poppler) PageTables(ctx context.Context, path string, page int) ([][][]string, error) {
	text, err := p.PageText(ctx, path, page)
	if err != nil {
		return nil, err
	}
	grid := parseLayoutGrid(text)
	if len(grid) == 0 {
		return nil, nil
	}
	return [][][]string{grid}, nil
}

// PageImage renders the page to PNG with pdftoppm.
func (p *Poppler) PageImage(ctx context.Context, path string, page int) ([]byte, error) {
	if err := p.checkPage(ctx, path, page); err != nil {
		return nil, err
	}
	out, err := p.run(ctx, p.pdftoppm,
		"-png", "-r", strconv.Itoa(imageDPI),
		"-f", strconv.Itoa(page), "-l", strconv.Itoa(page), path)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm %s page %d: %w", path, page, err)
	}
	return out, nil
}

func (p *Poppler) checkPage(ctx context.Context, path string, page int) error {
	count, err := p.PageCount(ctx, path)
	if err != nil {
		return err
	}
	if page < 1 || page > count {
		return &PageError{Path: path, Page: page, Count: count}
	}
	return nil
}

func (p *Poppler) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%v: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

var columnGap = regexp.MustCompile(`\s{2,}`)

// parseLayoutGrid splits layout-mode text into a table grid. Columns are
// separated by runs of two or more spaces; lines with fewer than two
// columns are prose, not table rows, and are dropped.
func parseLayoutGrid(text string) [][]string {
	var grid [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := columnGap.Split(strings.TrimLeft(line, " \t"), -1)
		if len(cells) < 2 {
			continue
		}
		grid = append(grid, cells)
	}
	return grid
}
