package votes

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// FormattedCandidate is one candidate's share of a formatted report.
type FormattedCandidate struct {
	Name       string  `json:"name"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// Report is a ranked, percentage-annotated rendering of one parse.
type Report struct {
	TotalVotes int                  `json:"total_votes"`
	Candidates []FormattedCandidate `json:"candidates"`
}

// Format ranks the records descending by votes and annotates each with
// its percentage of the total, rounded to two decimals. An empty input
// yields a report with zero total and an empty candidate list. When the
// total is zero every percentage is zero. The sort is stable: candidates
// with equal vote counts keep the order the parser produced them in.
func Format(records []Record) Report {
	if len(records) == 0 {
		return Report{TotalVotes: 0, Candidates: []FormattedCandidate{}}
	}

	total := Total(records)
	candidates := make([]FormattedCandidate, 0, len(records))
	for _, r := range records {
		percentage := 0.0
		if total > 0 {
			percentage = math.Round(float64(r.Votes)/float64(total)*100*100) / 100
		}
		candidates = append(candidates, FormattedCandidate{
			Name:       r.Name,
			Votes:      r.Votes,
			Percentage: percentage,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Votes > candidates[j].Votes
	})

	return Report{TotalVotes: total, Candidates: candidates}
}

// FormatLines renders the records as ranked "position name votes" lines,
// one per record in input order.
func FormatLines(records []Record) string {
	lines := make([]string, 0, len(records))
	for i, r := range records {
		lines = append(lines, fmt.Sprintf("%d %s %d", i+1, r.Name, r.Votes))
	}
	return strings.Join(lines, "\n")
}
