package btle

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestReceiver_EndToEndAdvInd builds the on-air bit stream for a real
// ADV_IND packet (preamble, access address, scrambled header, scrambled
// AdvA payload, scrambled CRC-24 trailer) at channel 37 and checks that
// ProcessWindow recovers and prints it.
func TestReceiver_EndToEndAdvInd(t *testing.T) {
	const channel = 37

	bits := []uint8{
		0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 1, 0, 1, 0, 1, 1, 0, 1, 1, 1, 1, 1, 0, 1,
		1, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 1, 0, 0, 0, 1, 1, 0, 1, 1, 0, 0, 0, 1,
		0, 0, 1, 0, 1, 0, 1, 1, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0, 1, 0, 1, 0, 0,
		0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1, 0, 1, 0, 0, 0, 1, 0,
		1, 0, 0, 0, 1, 1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1,
		0, 0, 1, 0, 0, 1, 0, 0,
	}
	assert.Len(t, bits, (5+11)*8, "preamble+AA (5 bytes) plus header+payload+crc (11 bytes)")

	rxp := buildPhase0Symbols(bits)

	var out bytes.Buffer
	rv := NewReceiver(&out)
	rv.ProcessWindow(rxp, channel)

	line := out.String()
	assert.Regexp(t, regexp.MustCompile(`^\d+us Pkt1 Ch37 AA:8E89BED6 PDU_t0:ADV_IND T0 R0 PloadL6 AdvA:0123456789ab Data: CRC0\n$`), line)
}

func TestReceiver_EndToEndNoise_PrintsNothing(t *testing.T) {
	bits := make([]uint8, 64)
	for i := range bits {
		bits[i] = uint8(i % 2)
	}
	rxp := buildPhase0Symbols(bits)

	var out bytes.Buffer
	rv := NewReceiver(&out)
	rv.ProcessWindow(rxp, 37)

	assert.Empty(t, out.String())
}
