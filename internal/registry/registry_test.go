package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	reg := New("ALPHA ONE", "BETA TWO")

	assert.True(t, reg.Contains("ALPHA ONE"))
	assert.True(t, reg.Contains("BETA TWO"))
	assert.False(t, reg.Contains("GAMMA THREE"))
	assert.False(t, reg.Contains("alpha one"), "membership is case sensitive")
	assert.False(t, reg.Contains(" ALPHA ONE"), "membership does not trim")
}

func TestNamesPreservesOrder(t *testing.T) {
	reg := New("C", "A", "B")
	assert.Equal(t, []string{"C", "A", "B"}, reg.Names())
}

func TestNamesReturnsCopy(t *testing.T) {
	reg := New("A", "B")
	names := reg.Names()
	names[0] = "MUTATED"
	assert.Equal(t, []string{"A", "B"}, reg.Names())
}

func TestNewDeduplicates(t *testing.T) {
	reg := New("A", "B", "A")
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"A", "B"}, reg.Names())
}

func TestDefault(t *testing.T) {
	reg := Default()
	assert.Equal(t, 14, reg.Len())
	assert.True(t, reg.Contains("CĂLIN GEORGESCU"))
	assert.True(t, reg.Contains("ELENA-VALERICA LASCONI"))
	assert.False(t, reg.Contains("Călin Georgescu"))
}
