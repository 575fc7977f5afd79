package btle

import (
	"fmt"
	"io"
)

// PDUType enumerates the advertising PDU types carried in the low 4
// bits of header byte 0.
type PDUType uint8

const (
	AdvInd PDUType = iota
	AdvDirectInd
	AdvNonconnInd
	ScanReq
	ScanRsp
	ConnectReq
	AdvScanInd
	Reserved0
	Reserved1
	Reserved2
	Reserved3
	Reserved4
	Reserved5
	Reserved6
	Reserved7
	Reserved8
)

// pduTypeName mirrors the 16-entry name table the on-screen format
// draws from.
var pduTypeName = [...]string{
	"ADV_IND",
	"ADV_DIRECT_IND",
	"ADV_NONCONN_IND",
	"SCAN_REQ",
	"SCAN_RSP",
	"CONNECT_REQ",
	"ADV_SCAN_IND",
	"RESERVED0",
	"RESERVED1",
	"RESERVED2",
	"RESERVED3",
	"RESERVED4",
	"RESERVED5",
	"RESERVED6",
	"RESERVED7",
	"RESERVED8",
}

func (t PDUType) String() string {
	if int(t) < len(pduTypeName) {
		return pduTypeName[t]
	}
	return "UNKNOWN"
}

// Header is the decoded 2-byte advertising PDU header.
type Header struct {
	PDUType    PDUType
	TxAdd      bool
	RxAdd      bool
	PayloadLen int
}

// ParseHeader decodes the 2-byte advertising PDU header.
func ParseHeader(b []byte) Header {
	return Header{
		PDUType:    PDUType(b[0] & 0x0F),
		TxAdd:      b[0]&0x40 != 0,
		RxAdd:      b[0]&0x80 != 0,
		PayloadLen: int(b[1] & 0x3F),
	}
}

// reverseBytes byte-reverses a wire-order address/field into
// network display order, per spec.md's "address fields are byte-
// reversed relative to the wire order".
func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// PayloadAdvA is the {0,2,4,6} variant: an advertiser address plus
// opaque advertising data.
type PayloadAdvA struct {
	AdvA [6]byte
	Data []byte
}

// PayloadTwoAddr is the {1,3} variant: two addresses, no other data.
type PayloadTwoAddr struct {
	A0 [6]byte
	A1 [6]byte
}

// PayloadConnectReq is the CONNECT_REQ (type 5) variant.
type PayloadConnectReq struct {
	InitA     [6]byte
	AdvA      [6]byte
	AA        [4]byte
	CRCInit   uint32
	WinSize   uint8
	WinOffset uint16
	Interval  uint16
	Latency   uint16
	Timeout   uint16
	ChM       [5]byte
	Hop       uint8
	SCA       uint8
}

// PayloadRaw is the fallback variant for reserved PDU types.
type PayloadRaw struct {
	Bytes []byte
}

// ErrPayloadLength is returned when a variant's payload length doesn't
// match the constant that type requires.
type ErrPayloadLength struct {
	PDUType  PDUType
	Got      int
	Expected int
}

func (e *ErrPayloadLength) Error() string {
	return fmt.Sprintf("payload length %d bytes, need %d for PDU type %d", e.Got, e.Expected, e.PDUType)
}

// ParsePayload dispatches on pdu type and decodes the descrambled
// payload bytes (header already stripped) into the matching variant.
// Payload lengths below 6 or above 37 must be rejected by the caller
// before this is reached (spec.md §4.7 step 2); this function only
// enforces the per-variant length constants.
func ParsePayload(pduType PDUType, payload []byte) (interface{}, error) {
	switch pduType {
	case AdvInd, AdvNonconnInd, ScanRsp, AdvScanInd:
		return parseAdvA(payload), nil
	case AdvDirectInd, ScanReq:
		if len(payload) != 12 {
			return nil, &ErrPayloadLength{pduType, len(payload), 12}
		}
		return parseTwoAddr(payload), nil
	case ConnectReq:
		if len(payload) != 34 {
			return nil, &ErrPayloadLength{pduType, len(payload), 34}
		}
		return parseConnectReq(payload), nil
	default:
		raw := make([]byte, len(payload))
		copy(raw, payload)
		return PayloadRaw{Bytes: raw}, nil
	}
}

func parseAdvA(payload []byte) PayloadAdvA {
	var p PayloadAdvA
	copy(p.AdvA[:], reverseBytes(payload[0:6]))
	p.Data = make([]byte, len(payload)-6)
	copy(p.Data, payload[6:])
	return p
}

func parseTwoAddr(payload []byte) PayloadTwoAddr {
	var p PayloadTwoAddr
	copy(p.A0[:], reverseBytes(payload[0:6]))
	copy(p.A1[:], reverseBytes(payload[6:12]))
	return p
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }

func parseConnectReq(payload []byte) PayloadConnectReq {
	var p PayloadConnectReq
	copy(p.InitA[:], reverseBytes(payload[0:6]))
	copy(p.AdvA[:], reverseBytes(payload[6:12]))
	copy(p.AA[:], reverseBytes(payload[12:16]))
	p.CRCInit = uint32(payload[16])<<16 | uint32(payload[17])<<8 | uint32(payload[18])
	p.WinSize = payload[19]
	p.WinOffset = le16(payload[20:22])
	p.Interval = le16(payload[22:24])
	p.Latency = le16(payload[24:26])
	p.Timeout = le16(payload[26:28])
	copy(p.ChM[:], reverseBytes(payload[28:33]))
	p.Hop = payload[33] & 0x1F
	p.SCA = (payload[33] >> 5) & 0x07
	return p
}

// PrintPacket writes the fixed-format packet line spec.md §4.7/§6
// requires. timeDiffUs is microseconds since the previous packet (0 for
// the first). crcOK is whether the CRC-24 trailer matched; the printed
// CRC field follows the original tool's crc_check() convention, where
// the digit is a mismatch flag (0 = matched, 1 = did not match).
func PrintPacket(w io.Writer, timeDiffUs int64, pktNum, channel int, hdr Header, payload interface{}, crcOK bool) {
	fmt.Fprintf(w, "%dus Pkt%d Ch%d AA:8E89BED6 PDU_t%d:%s T%d R%d PloadL%d ",
		timeDiffUs, pktNum, channel, int(hdr.PDUType), hdr.PDUType, btoi(hdr.TxAdd), btoi(hdr.RxAdd), hdr.PayloadLen)

	switch v := payload.(type) {
	case PayloadAdvA:
		fmt.Fprintf(w, "AdvA:%s Data:%s", hexStr(v.AdvA[:]), hexStr(v.Data))
	case PayloadTwoAddr:
		fmt.Fprintf(w, "A0:%s A1:%s", hexStr(v.A0[:]), hexStr(v.A1[:]))
	case PayloadConnectReq:
		fmt.Fprintf(w, "InitA:%s AdvA:%s AA:%s CRCInit:%06x WSize:%d WOffset:%d Interval:%d Latency:%d Timeout:%d ChM:%s Hop:%d SCA:%d",
			hexStr(v.InitA[:]), hexStr(v.AdvA[:]), hexStr(v.AA[:]), v.CRCInit, v.WinSize, v.WinOffset, v.Interval, v.Latency, v.Timeout, hexStr(v.ChM[:]), v.Hop, v.SCA)
	case PayloadRaw:
		fmt.Fprintf(w, "Byte:%s", hexStr(v.Bytes))
	}

	fmt.Fprintf(w, " CRC%d\n", btoi(!crcOK))
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

func hexStr(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0F]
	}
	return string(out)
}
