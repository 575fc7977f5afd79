package btle

// PreambleAccessByte is the 40-bit on-air pattern: the 0xAA preamble
// followed by the standard advertising access address 0x8E89BED6,
// serialized LSB-first per byte as BLE transmits it.
var PreambleAccessByte = [5]byte{0xAA, 0xD6, 0xBE, 0x89, 0x8E}

// PreambleAccessBit unpacks PreambleAccessByte into 40 LSB-first bits.
// Only the first LenDemodBufPreambleAccess of them are passed to the
// correlator: a hit is recognized as soon as the most recent
// LenDemodBufPreambleAccess demodulated bits match bits[0:32] (preamble
// plus the first three access-address bytes), which occurs exactly
// when the sliding window reaches the start of the whole 40-bit
// pattern — letting the remaining 8 bits (the AA's last byte) be
// skipped over deterministically rather than re-verified.
var PreambleAccessBit [len(PreambleAccessByte) * 8]uint8

func init() {
	byteArrayToBitArray(PreambleAccessByte[:], PreambleAccessBit[:])
}

func byteArrayToBitArray(in []byte, bits []uint8) {
	for j, b := range in {
		for i := 0; i < 8; i++ {
			bits[j*8+i] = (b >> uint(i)) & 0x01
		}
	}
}

// Correlator performs the sliding-window preamble/access-address
// search, evaluated in parallel across the SamplePerSymbol phase
// offsets. Its demod matrix is allocated once and reused across calls,
// matching the steady-state no-allocation policy of the receiver loop.
type Correlator struct {
	// demodBuf[phase] is a cyclic bit history of length
	// LenDemodBufPreambleAccess for that phase offset.
	demodBuf [SamplePerSymbol][LenDemodBufPreambleAccess]uint8
}

// NewCorrelator returns a zeroed, ready-to-use Correlator.
func NewCorrelator() *Correlator {
	return &Correlator{}
}

// Search looks for uniqueBits (length numBits, a power of two) within
// the first searchLen symbols of rxp, trying all SamplePerSymbol phase
// offsets for each symbol position. The last phase of each symbol reads
// the first IQ pair of the next one, so rxp must hold at least
// searchLen*SamplePerSymbol*2+2 scalars. It returns the absolute IQ-scalar
// index at which the match began, or -1 if no phase matched anywhere
// in the slice. Comparisons are bitwise exact; when more than one phase
// matches the same symbol position the lowest phase index wins, since
// phases are evaluated in order and the first match returns
// immediately.
func (c *Correlator) Search(rxp []int32, searchLen int, uniqueBits []uint8, numBits int) int {
	demodBufLen := numBits
	demodBufOffset := 0

	for phase := 0; phase < SamplePerSymbol; phase++ {
		for i := range c.demodBuf[phase] {
			c.demodBuf[phase][i] = 0
		}
	}

	for i := 0; i < searchLen*SamplePerSymbol*2; i += SamplePerSymbol * 2 {
		sp := (demodBufOffset - demodBufLen + 1) & (demodBufLen - 1)

		for j := 0; j < SamplePerSymbol*2; j += 2 {
			i0 := rxp[i+j]
			q0 := rxp[i+j+1]
			i1 := rxp[i+j+2]
			q1 := rxp[i+j+3]

			phaseIdx := j / 2
			var bit uint8
			if i0*q1-i1*q0 > 0 {
				bit = 1
			}
			c.demodBuf[phaseIdx][demodBufOffset] = bit

			k := sp
			equal := true
			for p := 0; p < demodBufLen; p++ {
				if c.demodBuf[phaseIdx][k] != uniqueBits[p] {
					equal = false
					break
				}
				k = (k + 1) & (demodBufLen - 1)
			}

			if equal {
				return i + j - (demodBufLen-1)*SamplePerSymbol*2
			}
		}

		demodBufOffset = (demodBufOffset + 1) & (demodBufLen - 1)
	}

	return -1
}
