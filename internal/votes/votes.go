// Package votes extracts candidate vote counts from the two independent
// readings of a precinct report page: the machine-readable table layer and
// a flat block of text (text layer or OCR output). Both parsers validate
// every extracted name against the candidate registry and silently drop
// anything else; the silent drop is the validation step, not data loss.
package votes

// Record is one candidate's extracted vote count. Records are created
// fresh by each parser invocation and never mutated afterwards.
type Record struct {
	Name  string `json:"name"`
	Votes int    `json:"votes"`
}

// Total sums the vote counts of all records.
func Total(records []Record) int {
	total := 0
	for _, r := range records {
		total += r.Votes
	}
	return total
}
