package btle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildPhase0Symbols encodes bits as a phase-0-readable IQ stream: each
// bit occupies one symbol period (SamplePerSymbol*2 scalars), with the
// first four scalars carrying the bit's sign and the rest zero filler
// the phase-0 decision ignores.
func buildPhase0Symbols(bits []uint8) []int32 {
	out := make([]int32, 0, len(bits)*SamplePerSymbol*2)
	for _, b := range bits {
		out = append(out, symbolIQ(b)...)
		out = append(out, 0, 0, 0, 0)
	}
	return out
}

func TestCorrelator_FindsExactPattern(t *testing.T) {
	target := PreambleAccessBit[:LenDemodBufPreambleAccess]

	searchSymbols := LenDemodBufPreambleAccess + 8
	bits := make([]uint8, searchSymbols)
	copy(bits, target)

	rxp := buildPhase0Symbols(bits)

	c := NewCorrelator()
	idx := c.Search(rxp, searchSymbols, target, LenDemodBufPreambleAccess)
	assert.GreaterOrEqual(t, idx, 0, "correlator should find the embedded pattern")
}

func TestCorrelator_NoMatchReturnsNegativeOne(t *testing.T) {
	target := PreambleAccessBit[:LenDemodBufPreambleAccess]

	searchSymbols := LenDemodBufPreambleAccess + 8
	bits := make([]uint8, searchSymbols) // all zero bits, won't match a mixed pattern
	rxp := buildPhase0Symbols(bits)
	rxp = append(rxp, 0, 0) // the last symbol's phase-3 decision reads 2 scalars further

	c := NewCorrelator()
	idx := c.Search(rxp, searchSymbols, target, LenDemodBufPreambleAccess)
	assert.Equal(t, -1, idx)
}

func TestCorrelator_EmptySearchReturnsNegativeOne(t *testing.T) {
	target := PreambleAccessBit[:LenDemodBufPreambleAccess]
	c := NewCorrelator()
	idx := c.Search(nil, 0, target, LenDemodBufPreambleAccess)
	assert.Equal(t, -1, idx)
}
