package radio

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/gousb"
	"github.com/sirupsen/logrus"
)

const (
	bladerfVID = gousb.ID(0x2cf0)
	bladerfPID = gousb.ID(0x5246)

	bladerfCmdSetFreq   = 0x71
	bladerfCmdSetSample = 0x72
	bladerfCmdSetGain   = 0x73
	bladerfCmdSetLPF    = 0x74
	bladerfCmdRXEnable  = 0x75
)

// BladeRFDevice streams int16 IQ samples from a BladeRF over libusb via
// gousb. Unlike a stubbed-out back-end, Start here performs the actual
// bulk-transfer read loop.
type BladeRFDevice struct {
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

// NewBladeRFDevice opens the first BladeRF found on the USB bus.
func NewBladeRFDevice(log *logrus.Entry) (*BladeRFDevice, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(bladerfVID, bladerfPID)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("open bladerf: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("open bladerf: device not found (is the FPGA image loaded?)")
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("bladerf autodetach: %w", err)
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("bladerf claim interface: %w", err)
	}

	ep, err := intf.InEndpoint(1)
	if err != nil {
		done()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("bladerf bulk-in endpoint: %w", err)
	}

	return &BladeRFDevice{
		log:  log,
		ctx:  ctx,
		dev:  dev,
		intf: intf,
		done: done,
		ep:   ep,
	}, nil
}

func (b *BladeRFDevice) vendorOut(request uint8, value, index uint16) error {
	_, err := b.dev.Control(
		gousb.ControlOut|gousb.ControlVendor|gousb.ControlInterface,
		request, value, index, nil,
	)
	return err
}

// Configure sets sample rate, LPF bandwidth, center frequency and RX
// gain (validated against GainRange(BladeRF) by the caller).
func (b *BladeRFDevice) Configure(freqHz uint64, gainDB uint8) error {
	if err := b.vendorOut(bladerfCmdSetSample, uint16(SampleRateHz&0xffff), uint16(SampleRateHz>>16)); err != nil {
		return fmt.Errorf("bladerf set sample rate: %w", err)
	}
	if err := b.vendorOut(bladerfCmdSetLPF, uint16(BasebandFilterHz&0xffff), uint16(BasebandFilterHz>>16)); err != nil {
		return fmt.Errorf("bladerf set lpf: %w", err)
	}
	if err := b.vendorOut(bladerfCmdSetFreq, uint16(freqHz&0xffff), uint16((freqHz>>16)&0xffff)); err != nil {
		return fmt.Errorf("bladerf set freq: %w", err)
	}
	if err := b.vendorOut(bladerfCmdSetGain, uint16(gainDB), 0); err != nil {
		return fmt.Errorf("bladerf set gain: %w", err)
	}
	b.log.WithFields(logrus.Fields{"freq_hz": freqHz, "gain_db": gainDB}).Debug("bladerf configured")
	return nil
}

// Start enables the RX path and reads bulk transfers in a loop,
// handing each transfer's bytes (interleaved int16 IQ, little-endian)
// to onSamples. Blocks until Stop is called.
func (b *BladeRFDevice) Start(onSamples func([]byte)) error {
	if err := b.vendorOut(bladerfCmdRXEnable, 1, 0); err != nil {
		return fmt.Errorf("bladerf rx enable: %w", err)
	}

	stream, err := b.ep.NewStream(32*1024, 4)
	if err != nil {
		return fmt.Errorf("bladerf open stream: %w", err)
	}
	defer stream.Close()

	b.mu.Lock()
	b.running = true
	b.stopCh = make(chan struct{})
	stopCh := b.stopCh
	b.mu.Unlock()

	buf := make([]byte, 32*1024)
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
			return fmt.Errorf("bladerf stream read: %w", err)
		}
	}
}

// Stop signals the Start loop to exit and disables the RX path.
func (b *BladeRFDevice) Stop() error {
	b.mu.Lock()
	if b.running {
		close(b.stopCh)
		b.running = false
	}
	b.mu.Unlock()
	return b.vendorOut(bladerfCmdRXEnable, 0, 0)
}

// Close releases the USB interface and context.
func (b *BladeRFDevice) Close() error {
	b.done()
	if err := b.dev.Close(); err != nil {
		return err
	}
	return b.ctx.Close()
}
