package btle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeader(t *testing.T) {
	// type=0 (ADV_IND), TxAdd=0, RxAdd=0, length=6
	hdr := ParseHeader([]byte{0x00, 0x06})
	assert.Equal(t, AdvInd, hdr.PDUType)
	assert.False(t, hdr.TxAdd)
	assert.False(t, hdr.RxAdd)
	assert.Equal(t, 6, hdr.PayloadLen)

	// type=5 (CONNECT_REQ), TxAdd=1, RxAdd=1
	hdr = ParseHeader([]byte{0xC5, 0x22})
	assert.Equal(t, ConnectReq, hdr.PDUType)
	assert.True(t, hdr.TxAdd)
	assert.True(t, hdr.RxAdd)
	assert.Equal(t, 0x22, hdr.PayloadLen)
}

func TestParsePayload_AdvA(t *testing.T) {
	// AdvA on the wire: AB 89 67 45 23 01 (little-endian-ish wire order),
	// displayed byte-reversed as 01:23:45:67:89:ab.
	payload := []byte{0xAB, 0x89, 0x67, 0x45, 0x23, 0x01}
	v, err := ParsePayload(AdvInd, payload)
	assert.NoError(t, err)
	adv := v.(PayloadAdvA)
	assert.Equal(t, [6]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB}, adv.AdvA)
	assert.Empty(t, adv.Data)
}

func TestParsePayload_TwoAddrLengthError(t *testing.T) {
	_, err := ParsePayload(AdvDirectInd, make([]byte, 11))
	assert.Error(t, err)
	var lenErr *ErrPayloadLength
	assert.ErrorAs(t, err, &lenErr)
}

func TestParsePayload_ConnectReqFields(t *testing.T) {
	payload := make([]byte, 34)
	// InitA, AdvA, AA all zero; CRCInit most-significant byte first
	payload[16], payload[17], payload[18] = 0x11, 0x22, 0x33
	payload[19] = 5                    // WinSize
	payload[20], payload[21] = 0x01, 0 // WinOffset=1
	payload[22], payload[23] = 0x06, 0 // Interval=6
	payload[33] = 0x05 | (0x02 << 5)   // Hop=5, SCA=2

	v, err := ParsePayload(ConnectReq, payload)
	assert.NoError(t, err)
	cr := v.(PayloadConnectReq)
	assert.Equal(t, uint32(0x112233), cr.CRCInit)
	assert.Equal(t, uint8(5), cr.WinSize)
	assert.Equal(t, uint16(1), cr.WinOffset)
	assert.Equal(t, uint16(6), cr.Interval)
	assert.Equal(t, uint8(5), cr.Hop)
	assert.Equal(t, uint8(2), cr.SCA)
}

func TestParsePayload_ReservedTypeIsRaw(t *testing.T) {
	payload := []byte{1, 2, 3}
	v, err := ParsePayload(Reserved0, payload)
	assert.NoError(t, err)
	raw := v.(PayloadRaw)
	assert.Equal(t, payload, raw.Bytes)
}

func TestPrintPacket_AdvIndFormat(t *testing.T) {
	hdr := Header{PDUType: AdvInd, TxAdd: false, RxAdd: false, PayloadLen: 6}
	payload := PayloadAdvA{AdvA: [6]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB}, Data: nil}

	var buf bytes.Buffer
	PrintPacket(&buf, 0, 1, 37, hdr, payload, true)

	assert.Equal(t, "0us Pkt1 Ch37 AA:8E89BED6 PDU_t0:ADV_IND T0 R0 PloadL6 AdvA:0123456789ab Data: CRC0\n", buf.String())
}
