// Package store manages the on-disk state of a verification run: the
// downloaded report documents and the persisted evidence for precincts
// whose readings disagree.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the durable layout under one data directory: report documents
// under pdfs/, flagged reconciliation failures under problems/. Both are
// append-only write targets keyed by distinct names, so concurrent
// writers never collide on the same path.
type Store struct {
	root string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// PDFDir returns the report document directory, creating it if needed.
func (s *Store) PDFDir() (string, error) {
	dir := filepath.Join(s.root, "pdfs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create pdf directory: %w", err)
	}
	return dir, nil
}

// PDFPath returns the path a report document saves under.
func (s *Store) PDFPath(filename string) string {
	return filepath.Join(s.root, "pdfs", filename)
}

// ListPDFs returns the filenames already present in the pdf directory.
// This seeds the processed-file set at the start of a run. A missing
// directory yields an empty list, not an error.
func (s *Store) ListPDFs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "pdfs"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list pdf directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// SaveProblem writes the full page content for a disagreeing precinct to
// problems/<id>.json as indented UTF-8 JSON. The record is written
// through a temp name and renamed so a failed write never leaves a
// partial file behind.
func (s *Store) SaveProblem(id string, content any) error {
	dir := filepath.Join(s.root, "problems")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create problems directory: %w", err)
	}

	target := filepath.Join(dir, id+".json")
	tmp := target + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create problem file for %s: %w", id, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(content); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write problem file for %s: %w", id, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write problem file for %s: %w", id, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to finalize problem file for %s: %w", id, err)
	}
	return nil
}

// ProblemPath returns the path a problem record saves under.
func (s *Store) ProblemPath(id string) string {
	return filepath.Join(s.root, "problems", id+".json")
}
