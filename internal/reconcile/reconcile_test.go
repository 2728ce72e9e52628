package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrei/pv-verifier/internal/registry"
	"github.com/andrei/pv-verifier/internal/votes"
)

func intptr(v int) *int { return &v }

func TestCompareAllMatch(t *testing.T) {
	reg := registry.New("A", "B", "C")
	set := []votes.Record{
		{Name: "A", Votes: 10},
		{Name: "B", Votes: 20},
		{Name: "C", Votes: 0},
	}

	report := Compare(reg, set, set)

	assert.True(t, report.AllMatch)
	assert.Empty(t, report.Differences)
}

func TestCompareDifferentCounts(t *testing.T) {
	reg := registry.New("A", "B")
	table := []votes.Record{{Name: "A", Votes: 10}, {Name: "B", Votes: 20}}
	text := []votes.Record{{Name: "A", Votes: 10}, {Name: "B", Votes: 21}}

	report := Compare(reg, table, text)

	assert.False(t, report.AllMatch)
	require.Len(t, report.Differences, 1)
	assert.Equal(t, Difference{Name: "B", TextVotes: intptr(20), OCRVotes: intptr(21)}, report.Differences[0])
}

func TestCompareMissingOnOneSide(t *testing.T) {
	reg := registry.New("A", "B")

	t.Run("missing from OCR side", func(t *testing.T) {
		report := Compare(reg,
			[]votes.Record{{Name: "A", Votes: 10}, {Name: "B", Votes: 20}},
			[]votes.Record{{Name: "A", Votes: 10}},
		)
		assert.False(t, report.AllMatch)
		require.Len(t, report.Differences, 1)
		assert.Equal(t, Difference{Name: "B", TextVotes: intptr(20), OCRVotes: nil}, report.Differences[0])
	})

	t.Run("missing from table side", func(t *testing.T) {
		report := Compare(reg,
			[]votes.Record{{Name: "A", Votes: 10}},
			[]votes.Record{{Name: "A", Votes: 10}, {Name: "B", Votes: 20}},
		)
		assert.False(t, report.AllMatch)
		require.Len(t, report.Differences, 1)
		assert.Equal(t, Difference{Name: "B", TextVotes: nil, OCRVotes: intptr(20)}, report.Differences[0])
	})

	t.Run("missing from both sides", func(t *testing.T) {
		report := Compare(reg,
			[]votes.Record{{Name: "A", Votes: 10}},
			[]votes.Record{{Name: "A", Votes: 10}},
		)
		assert.False(t, report.AllMatch)
		require.Len(t, report.Differences, 1)
		assert.Equal(t, Difference{Name: "B", TextVotes: nil, OCRVotes: nil}, report.Differences[0])
	})
}

func TestCompareDifferencesFollowRegistryOrder(t *testing.T) {
	reg := registry.New("C", "A", "B")
	report := Compare(reg, nil, nil)

	require.Len(t, report.Differences, 3)
	assert.Equal(t, "C", report.Differences[0].Name)
	assert.Equal(t, "A", report.Differences[1].Name)
	assert.Equal(t, "B", report.Differences[2].Name)
}

func TestCompareUnregisteredOCRName(t *testing.T) {
	// Parsers never emit names outside the registry; this covers callers
	// that bypass them.
	reg := registry.New("A")
	report := Compare(reg,
		[]votes.Record{{Name: "A", Votes: 10}},
		[]votes.Record{{Name: "A", Votes: 10}, {Name: "STRAY", Votes: 3}},
	)

	assert.False(t, report.AllMatch)
	require.Len(t, report.Differences, 1)
	assert.Equal(t, Difference{Name: "STRAY", TextVotes: nil, OCRVotes: intptr(3)}, report.Differences[0])
}

func TestCompareDuplicateNamesLastWriteWins(t *testing.T) {
	reg := registry.New("A")
	report := Compare(reg,
		[]votes.Record{{Name: "A", Votes: 1}, {Name: "A", Votes: 2}},
		[]votes.Record{{Name: "A", Votes: 2}},
	)

	assert.True(t, report.AllMatch, "last occurrence of a duplicate name wins")
}

func TestComparePerturbationAddsExactlyOneDifference(t *testing.T) {
	reg := registry.New("A", "B", "C")
	table := []votes.Record{
		{Name: "A", Votes: 1},
		{Name: "B", Votes: 2},
		{Name: "C", Votes: 3},
	}
	text := []votes.Record{
		{Name: "A", Votes: 1},
		{Name: "B", Votes: 5},
		{Name: "C", Votes: 3},
	}

	report := Compare(reg, table, text)

	assert.False(t, report.AllMatch)
	require.Len(t, report.Differences, 1)
	assert.Equal(t, "B", report.Differences[0].Name)
}
