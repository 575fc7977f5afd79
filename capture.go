package btle

import (
	"io"

	"github.com/sirupsen/logrus"
)

// CaptureWriter appends raw IQ bytes to a capture file exactly as the
// receiver loop observes them, mirroring the original's sample-dump
// helper: a flat sequence of raw samples in the back-end's native
// width, with no header or framing. Writes are best-effort: once a
// write fails it logs and disables itself for the remainder of the
// run rather than ever interrupting reception.
type CaptureWriter struct {
	w       io.WriteCloser
	log     *logrus.Entry
	enabled bool
}

// NewCaptureWriter wraps w (already opened by the caller) as an active
// capture sink.
func NewCaptureWriter(w io.WriteCloser, log *logrus.Entry) *CaptureWriter {
	return &CaptureWriter{w: w, log: log, enabled: true}
}

// Write appends samples verbatim. A failed write disables the capture
// permanently; it never returns an error to the caller, since capture
// is diagnostic and must not interrupt reception.
func (c *CaptureWriter) Write(samples []byte) {
	if !c.enabled {
		return
	}

	if _, err := c.w.Write(samples); err != nil {
		c.log.WithError(err).Warn("capture write failed, disabling capture")
		c.enabled = false
		return
	}
}

// Close closes the underlying file.
func (c *CaptureWriter) Close() error {
	return c.w.Close()
}
