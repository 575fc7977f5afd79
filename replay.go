package btle

import "io"

// replayChunkBytes is the read granularity for a replay file, matching
// the HackRF bulk-transfer size so a replayed capture exercises the
// ring buffer in chunks of the same shape a live run would.
const replayChunkBytes = 16 * 1024

// ReplaySource reads a flat capture file (raw IQ samples, no header or
// framing, as CaptureWriter produces) and drives the same onSamples
// callback shape the radio back-ends use, so the receiver loop's
// consumer logic is identical whether fed by a live radio or a replay
// file.
type ReplaySource struct {
	r io.ReadCloser
}

// NewReplaySource wraps r (already opened by the caller).
func NewReplaySource(r io.ReadCloser) *ReplaySource {
	return &ReplaySource{r: r}
}

// Run reads the file in fixed-size chunks, calling onSamples for each
// one, until EOF, then returns nil. A short final chunk is still
// delivered. Any other read error is returned as-is; a normal EOF is
// not an error (spec: replay ending is exit code 0).
func (s *ReplaySource) Run(onSamples func([]byte)) error {
	buf := make([]byte, replayChunkBytes)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			onSamples(buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// Close closes the underlying file.
func (s *ReplaySource) Close() error {
	return s.r.Close()
}
