package radio

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/gousb"
	"github.com/sirupsen/logrus"
)

const (
	hackrfVID = gousb.ID(0x1d50)
	hackrfPID = gousb.ID(0x6089)

	// Vendor request numbers from the HackRF USB protocol.
	hackrfSetFreq       = 0x10
	hackrfSampleRateSet = 0x06
	hackrfBasebandSet   = 0x07
	hackrfRXVGAGain     = 0x14
	hackrfRXLNAGain     = 0x13
	hackrfSetTransceive = 0x01

	hackrfModeRX = 0x01
	hackrfModeOff = 0x00

	// HackRF RX gain is fixed split between LNA (coarse, spec-pinned
	// at 40dB) and VGA (fine, 0..62 in 2dB steps); Configure's gainDB
	// maps directly onto the VGA stage.
	hackrfLNAGainDB = 40
)

// HackRFDevice streams int8 IQ samples from a HackRF One (or compatible)
// over libusb via gousb.
type HackRFDevice struct {
	log *logrus.Entry

	ctx  *gousb.Context
	dev  *gousb.Device
	intf *gousb.Interface
	done func()
	ep   *gousb.InEndpoint

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewHackRFDevice opens the first HackRF found on the USB bus.
func NewHackRFDevice(log *logrus.Entry) (*HackRFDevice, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(hackrfVID, hackrfPID)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("open hackrf: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("open hackrf: device not found")
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("hackrf autodetach: %w", err)
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("hackrf claim interface: %w", err)
	}

	ep, err := intf.InEndpoint(1)
	if err != nil {
		done()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("hackrf bulk-in endpoint: %w", err)
	}

	return &HackRFDevice{
		log:  log,
		ctx:  ctx,
		dev:  dev,
		intf: intf,
		done: done,
		ep:   ep,
	}, nil
}

func (h *HackRFDevice) vendorOut(request uint8, value, index uint16) error {
	_, err := h.dev.Control(
		gousb.ControlOut|gousb.ControlVendor|gousb.ControlInterface,
		request, value, index, nil,
	)
	return err
}

// Configure sets the sample rate, baseband filter, center frequency
// and RX gain. LNA gain is pinned to 40dB; gainDB sets the VGA stage
// (must already be validated against GainRange(HackRF)).
func (h *HackRFDevice) Configure(freqHz uint64, gainDB uint8) error {
	if err := h.vendorOut(hackrfSampleRateSet, uint16(SampleRateHz&0xffff), uint16(SampleRateHz>>16)); err != nil {
		return fmt.Errorf("hackrf set sample rate: %w", err)
	}
	if err := h.vendorOut(hackrfBasebandSet, uint16(BasebandFilterHz&0xffff), uint16(BasebandFilterHz>>16)); err != nil {
		return fmt.Errorf("hackrf set baseband filter: %w", err)
	}
	if err := h.vendorOut(hackrfSetFreq, uint16(freqHz&0xffff), uint16((freqHz>>16)&0xffff)); err != nil {
		return fmt.Errorf("hackrf set freq: %w", err)
	}
	if err := h.vendorOut(hackrfRXLNAGain, hackrfLNAGainDB, 0); err != nil {
		return fmt.Errorf("hackrf set lna gain: %w", err)
	}
	// VGA gain is set in 2dB steps; round down to the nearest valid step.
	vgaStep := (gainDB / 2) * 2
	if err := h.vendorOut(hackrfRXVGAGain, uint16(vgaStep), 0); err != nil {
		return fmt.Errorf("hackrf set vga gain: %w", err)
	}
	h.log.WithFields(logrus.Fields{"freq_hz": freqHz, "lna_db": hackrfLNAGainDB, "vga_db": vgaStep}).Debug("hackrf configured")
	return nil
}

// Start puts the device into RX mode and reads bulk transfers in a
// loop, handing each transfer's bytes to onSamples. It blocks until
// Stop is called or the stream errs out; callers run it in its own
// goroutine.
func (h *HackRFDevice) Start(onSamples func([]byte)) error {
	if err := h.vendorOut(hackrfSetTransceive, hackrfModeRX, 0); err != nil {
		return fmt.Errorf("hackrf start rx: %w", err)
	}

	stream, err := h.ep.NewStream(16*1024, 4)
	if err != nil {
		return fmt.Errorf("hackrf open stream: %w", err)
	}
	defer stream.Close()

	h.mu.Lock()
	h.running = true
	h.stopCh = make(chan struct{})
	stopCh := h.stopCh
	h.mu.Unlock()

	buf := make([]byte, 16*1024)
	for {
		select {
		case <-stopCh:
			return nil
		default:
		}
		n, err := stream.Read(buf)
		if n > 0 {
			onSamples(buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("hackrf stream read: %w", err)
		}
	}
}

// Stop signals the Start loop to exit and puts the device back into
// idle mode.
func (h *HackRFDevice) Stop() error {
	h.mu.Lock()
	if h.running {
		close(h.stopCh)
		h.running = false
	}
	h.mu.Unlock()
	return h.vendorOut(hackrfSetTransceive, hackrfModeOff, 0)
}

// Close releases the USB interface and context.
func (h *HackRFDevice) Close() error {
	h.done()
	if err := h.dev.Close(); err != nil {
		return err
	}
	return h.ctx.Close()
}
