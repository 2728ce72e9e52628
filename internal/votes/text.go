package votes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/andrei/pv-verifier/internal/registry"
)

// candidateLine matches an upper-case candidate name (Romanian diacritics
// included) followed by whitespace and a run of digits, the shape of one
// results line on the report form.
var candidateLine = regexp.MustCompile(`([A-ZĂÎÂȘȚ][A-ZĂÎÂȘȚ\s\-\.]+)\s+(\d+)`)

// ParseText extracts vote records from a flat block of text, produced by
// either the document's text layer or OCR. Every non-overlapping match of
// a name-like run followed by a number is a candidate pair; a pair is
// kept only when the trimmed name is in the registry and the number
// parses as a non-negative integer. This is a best-effort heuristic: it
// has no guard against layouts that deviate from the NAME NUMBER shape.
func ParseText(reg *registry.Registry, text string) []Record {
	var records []Record
	for _, m := range candidateLine.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		count, err := strconv.Atoi(m[2])
		if err != nil || count < 0 {
			continue
		}
		if !reg.Contains(name) {
			continue
		}
		records = append(records, Record{Name: name, Votes: count})
	}
	return records
}
