// Package reconcile cross-checks the two independently derived vote
// readings of one report page and produces a per-candidate agreement
// report. A disagreement on any candidate is the primary signal of an
// extraction failure on one of the two paths.
package reconcile

import (
	"github.com/andrei/pv-verifier/internal/registry"
	"github.com/andrei/pv-verifier/internal/votes"
)

// Difference records one candidate the two readings disagree on. A nil
// vote pointer means that side produced no entry for the name.
type Difference struct {
	Name      string `json:"name"`
	TextVotes *int   `json:"text_votes"`
	OCRVotes  *int   `json:"ocr_votes"`
}

// Report is the outcome of comparing one table-derived reading against
// one text/OCR-derived reading. It is built once per page and never
// mutated; it is persisted only when AllMatch is false.
type Report struct {
	AllMatch    bool         `json:"all_match"`
	Differences []Difference `json:"differences"`
}

// Compare checks the table-derived reading (the "text_votes" side)
// against the text/OCR-derived reading (the "ocr_votes" side).
//
// Every registry name is visited in canonical order: a name missing from
// either side, or present on both with different counts, is recorded as
// a difference. A second pass then flags names that reached the OCR side
// without being registry members at all; both parsers filter through the
// registry so this only fires for callers that bypass them, but the
// contract keeps it as a guard against spurious extra names. Duplicate
// names within one reading collapse last-write-wins when the lookup maps
// are built.
func Compare(reg *registry.Registry, tableVotes, ocrVotes []votes.Record) Report {
	textByName := make(map[string]int, len(tableVotes))
	for _, r := range tableVotes {
		textByName[r.Name] = r.Votes
	}
	ocrByName := make(map[string]int, len(ocrVotes))
	for _, r := range ocrVotes {
		ocrByName[r.Name] = r.Votes
	}

	report := Report{AllMatch: true, Differences: []Difference{}}

	for _, name := range reg.Names() {
		textCount, textOK := textByName[name]
		ocrCount, ocrOK := ocrByName[name]

		switch {
		case !textOK || !ocrOK:
			report.AllMatch = false
			d := Difference{Name: name}
			if textOK {
				d.TextVotes = &textCount
			}
			if ocrOK {
				d.OCRVotes = &ocrCount
			}
			report.Differences = append(report.Differences, d)
		case textCount != ocrCount:
			report.AllMatch = false
			report.Differences = append(report.Differences, Difference{
				Name:      name,
				TextVotes: &textCount,
				OCRVotes:  &ocrCount,
			})
		}
	}

	// Second pass: OCR-side names outside the registry. Iterates the
	// input slice in first-seen order so reports stay deterministic.
	seen := make(map[string]struct{}, len(ocrVotes))
	for _, r := range ocrVotes {
		if _, dup := seen[r.Name]; dup {
			continue
		}
		seen[r.Name] = struct{}{}
		if reg.Contains(r.Name) {
			continue
		}
		if _, inText := textByName[r.Name]; inText {
			continue
		}
		count := ocrByName[r.Name]
		report.AllMatch = false
		report.Differences = append(report.Differences, Difference{
			Name:     r.Name,
			OCRVotes: &count,
		})
	}

	return report
}
