// Package btle implements the real-time baseband receiver pipeline for
// Bluetooth Low Energy advertising-channel traffic: a lock-free ring
// buffer, a sliding-window preamble/access-address correlator, a GFSK
// symbol demodulator, the BLE per-channel descrambler, a CRC-24
// validator and the advertising PDU parser/printer.
//
// Radio front ends (HackRF, BladeRF, or a network-attached rtl_tcp
// relay) live in the radio subpackage; the cmd/btle-rx command wires
// CLI parsing, config and lifecycle around this package.
package btle
