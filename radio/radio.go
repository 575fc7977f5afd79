// Package radio abstracts the SDR front ends the receiver pipeline can
// be fed from: HackRF and BladeRF over USB, or a network-attached
// rtl_tcp-protocol relay. Each back-end implements Device; the receiver
// loop only ever talks to this interface.
package radio

import "fmt"

// SampleRateHz is the fixed capture rate the whole pipeline assumes.
const SampleRateHz = 4000000

// BasebandFilterHz is the target baseband filter bandwidth, applied
// where the back-end exposes a configurable filter.
const BasebandFilterHz = 2000000

// Device is the contract every back-end implements: tune and set gain,
// start streaming samples into a callback, stop, and release the
// underlying handle. Start's callback must never block — it only
// copies bytes into the caller's ring buffer.
type Device interface {
	Configure(freqHz uint64, gainDB uint8) error
	Start(onSamples func([]byte)) error
	Stop() error
	Close() error
}

// Backend names a supported Device implementation, selected by the
// CLI's --backend flag.
type Backend string

const (
	HackRF  Backend = "hackrf"
	BladeRF Backend = "bladerf"
	NetTCP  Backend = "nettcp"
)

// GainRange returns the inclusive [min, max] RX gain range valid for a
// backend, in dB.
func GainRange(b Backend) (min, max uint8) {
	switch b {
	case HackRF:
		return 0, 62
	case BladeRF:
		return 0, 66
	case NetTCP:
		// nettcp proxies whichever device sits behind it and cannot
		// tell which one that is, so it accepts the widest USB
		// back-end range (BladeRF's). The proxied device's own range
		// is not checked.
		return 0, 66
	default:
		return 0, 0
	}
}

// ErrChannelOutOfRange is returned by FrequencyForChannel for channel
// numbers outside 0..39.
type ErrChannelOutOfRange struct {
	Channel int
}

func (e *ErrChannelOutOfRange) Error() string {
	return fmt.Sprintf("channel %d out of range 0..39", e.Channel)
}

// FrequencyForChannel maps a BLE channel number to its center
// frequency in Hz, per the advertising/data channel layout: channels
// 37/38/39 are the three advertising channels, interleaved among the
// 0..36 data channels by frequency rather than by index.
func FrequencyForChannel(channel int) (uint64, error) {
	switch {
	case channel == 37:
		return 2402000000, nil
	case channel == 38:
		return 2426000000, nil
	case channel == 39:
		return 2480000000, nil
	case channel >= 0 && channel <= 10:
		return 2404000000 + uint64(channel)*2000000, nil
	case channel >= 11 && channel <= 36:
		return 2428000000 + uint64(channel-11)*2000000, nil
	default:
		return 0, &ErrChannelOutOfRange{Channel: channel}
	}
}

// ErrGainOutOfRange is returned when a requested gain falls outside a
// backend's valid range.
type ErrGainOutOfRange struct {
	Backend  Backend
	Gain     uint8
	Min, Max uint8
}

func (e *ErrGainOutOfRange) Error() string {
	return fmt.Sprintf("gain %d out of range %d..%d for backend %s", e.Gain, e.Min, e.Max, e.Backend)
}

// ValidateGain checks gain against backend's valid range before any
// device or network call is made.
func ValidateGain(b Backend, gain uint8) error {
	min, max := GainRange(b)
	if gain < min || gain > max {
		return &ErrGainOutOfRange{Backend: b, Gain: gain, Min: min, Max: max}
	}
	return nil
}
