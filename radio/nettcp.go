package radio

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/bemasher/rtltcp"
	"github.com/sirupsen/logrus"
)

// NetTCPDevice proxies an SDR front end over the rtl_tcp wire protocol:
// a 4-byte command + 4-byte value datagram for tuning/gain, followed by
// a continuous stream of interleaved unsigned 8-bit IQ. Samples are
// recentered to signed int8 before reaching onSamples, so downstream
// code sees the same centered representation as the USB back-ends.
type NetTCPDevice struct {
	log *logrus.Entry
	sdr rtltcp.SDR

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewNetTCPDevice dials addr (host:port of a running rtl_tcp instance).
func NewNetTCPDevice(log *logrus.Entry, addr string) (*NetTCPDevice, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve rtl_tcp address: %w", err)
	}

	d := &NetTCPDevice{log: log}
	if err := d.sdr.Connect(tcpAddr); err != nil {
		return nil, fmt.Errorf("connect rtl_tcp: %w", err)
	}
	log.WithField("gain_count", d.sdr.Info.GainCount).Debug("rtl_tcp connected")

	return d, nil
}

// Configure tunes the remote device and fixes the sample rate, leaving
// offset tuning and AGC under manual control so the requested gain is
// honored exactly.
func (d *NetTCPDevice) Configure(freqHz uint64, gainDB uint8) error {
	d.sdr.SetSampleRate(SampleRateHz)
	d.sdr.SetCenterFreq(uint32(freqHz))
	d.sdr.SetOffsetTuning(false)
	d.sdr.SetGainMode(true)
	d.sdr.SetGain(uint32(gainDB) * 10)
	d.log.WithFields(logrus.Fields{"freq_hz": freqHz, "gain_db": gainDB}).Debug("rtl_tcp configured")
	return nil
}

// Start reads the raw IQ stream in fixed-size blocks, recenters each
// byte from rtl_tcp's unsigned convention to the signed int8 the rest
// of the pipeline assumes, and hands the result to onSamples. Blocks
// until Stop is called or the connection errs out.
func (d *NetTCPDevice) Start(onSamples func([]byte)) error {
	d.mu.Lock()
	d.running = true
	d.stopCh = make(chan struct{})
	stopCh := d.stopCh
	d.mu.Unlock()

	const blockSize = 16 * 1024
	block := make([]byte, blockSize)

	for {
		select {
		case <-stopCh:
			return nil
		default:
		}

		_, err := io.ReadFull(&d.sdr, block)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("rtl_tcp read: %w", err)
		}

		for i, v := range block {
			block[i] = v - 128
		}
		onSamples(block)
	}
}

// Stop signals the Start loop to exit.
func (d *NetTCPDevice) Stop() error {
	d.mu.Lock()
	if d.running {
		close(d.stopCh)
		d.running = false
	}
	d.mu.Unlock()
	return nil
}

// Close closes the TCP connection to rtl_tcp.
func (d *NetTCPDevice) Close() error {
	return d.sdr.Close()
}
