package votes

import (
	"strconv"
	"strings"

	"github.com/andrei/pv-verifier/internal/registry"
)

// ParseTable extracts vote records from a two-dimensional table grid. The
// first row is treated as a header and skipped. A data row contributes a
// record when it has at least three columns, both the name column and the
// votes column are non-empty, the votes column parses as an integer, and
// the trimmed name is in the registry. Malformed rows are skipped, never
// reported: worst case the result is empty.
func ParseTable(reg *registry.Registry, table [][]string) []Record {
	if len(table) < 2 {
		return nil
	}

	var records []Record
	for _, row := range table[1:] {
		if len(row) < 3 || row[1] == "" || row[2] == "" {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			continue
		}
		name := strings.TrimSpace(row[1])
		if !reg.Contains(name) {
			continue
		}
		records = append(records, Record{Name: name, Votes: count})
	}
	return records
}
