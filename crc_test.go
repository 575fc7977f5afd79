package btle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCRC24_KnownVectors(t *testing.T) {
	cases := []struct {
		name  string
		bytes []byte
		want  uint32
	}{
		{"two zero bytes", []byte{0x00, 0x00}, 0x38b51d},
		{"adv_ind-style header + zero payload", []byte{0x40, 0x06, 0, 0, 0, 0, 0, 0}, 0x287efd},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CRC24(AdvertisingCRCInit, c.bytes))
		})
	}
}

func TestCRC24_SplitCallsMatchSingleCall(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		split := rapid.IntRange(0, len(data)).Draw(t, "split")

		whole := CRC24(AdvertisingCRCInit, data)

		crc := CRC24(AdvertisingCRCInit, data[:split])
		crc = CRC24(crc, data[split:])

		assert.Equal(t, whole, crc)
	})
}

func TestCRCValid_RoundTrip(t *testing.T) {
	body := []byte{0x40, 0x06, 1, 2, 3, 4, 5, 6}
	crc := CRC24(AdvertisingCRCInit, body)

	full := append(append([]byte{}, body...), byte(crc), byte(crc>>8), byte(crc>>16))
	assert.True(t, CRCValid(full))

	full[len(full)-1] ^= 0xFF
	assert.False(t, CRCValid(full))
}
