package btle

import "sync/atomic"

// SamplePerSymbol is the number of IQ samples captured per GFSK symbol
// at the fixed 4 Msps sample rate used for 1 Mbps BLE.
const SamplePerSymbol = 4

const (
	// LenBufInSample is half the ring length in interleaved IQ
	// scalars; at 4 Msps this is roughly 4ms of samples.
	LenBufInSample = 8 * 4096

	// LenBuf is the full cyclic region length, a power of two so the
	// write offset can be masked instead of taken modulo.
	LenBuf = LenBufInSample * 2

	maxNumInfoByte = 43
	maxNumPhyByte  = 47

	// MaxNumPhySample is the worst-case number of IQ samples (I,Q
	// pairs) one advertising PDU (preamble+AA+header+payload+CRC)
	// occupies.
	MaxNumPhySample = maxNumPhyByte * 8 * SamplePerSymbol

	// LenBufMaxNumPhySample is the trailing overlap region length:
	// enough room to read one packet's worth of samples past the
	// wrap point without discontinuity.
	LenBufMaxNumPhySample = 2 * MaxNumPhySample

	// LenDemodBufPreambleAccess is the correlator's cyclic match
	// window length, held at 32 (of the 40 preamble+AA bits) so index
	// arithmetic can use power-of-two masking.
	LenDemodBufPreambleAccess = 32
)

// Phase tracks which half of the ring the producer is currently
// filling; the consumer reads the other half.
type Phase int

const (
	FirstHalf Phase = iota
	SecondHalf
)

// Ring is a fixed-size power-of-two cyclic IQ buffer with a trailing
// overlap region, single-producer/single-consumer. The producer is the
// radio callback; the consumer is the receiver loop. There are no
// locks: the producer publishes sample writes before publishing the
// updated offset (release), and the consumer reads the offset (acquire)
// before reading cells strictly behind it.
type Ring struct {
	buf    []int32
	offset atomic.Uint32
}

// NewRing allocates the ring and its overlap region once; it is reused
// for the lifetime of the process.
func NewRing() *Ring {
	return &Ring{
		buf: make([]int32, LenBuf+LenBufMaxNumPhySample),
	}
}

// Push appends scalars (each IQ sample contributes two: I then Q) to
// the ring, masking the write index modulo LenBuf. It must never block
// and is the only method the radio callback may call.
func (r *Ring) Push(scalars []int32) {
	off := int(r.offset.Load())
	for _, s := range scalars {
		r.buf[off] = s
		off = (off + 1) & (LenBuf - 1)
	}
	r.offset.Store(uint32(off))
}

// Offset returns the producer's current write offset (acquire read).
func (r *Ring) Offset() int {
	return int(r.offset.Load())
}

// RefreshOverlap copies the buffer prefix into the overlap slot at
// offset LenBuf, so a consumer read starting at LenBuf/2 can run
// contiguously past the wrap point. Called by the consumer only,
// immediately before it reads the window that starts at LenBuf/2.
func (r *Ring) RefreshOverlap() {
	copy(r.buf[LenBuf:LenBuf+LenBufMaxNumPhySample], r.buf[:LenBufMaxNumPhySample])
}

// Window returns a read-only contiguous slice of length n starting at
// readPtr (0 or LenBuf/2), extending into the overlap region as needed.
func (r *Ring) Window(readPtr, n int) []int32 {
	return r.buf[readPtr : readPtr+n]
}

// At returns the raw backing cell at index i, used by tests to assert
// the overlap invariant directly.
func (r *Ring) At(i int) int32 {
	return r.buf[i]
}
