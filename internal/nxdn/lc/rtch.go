// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package lc implements the NXDN RTCH link-control record: the
// call-setup/teardown message a voice call's FACCH1 segments carry,
// built atop the same Hamming(17,12,3) coding the channel package uses
// for a single FACCH1 block.
package lc

import (
	"github.com/dvmhub/dvmcore/internal/bits"
	"github.com/dvmhub/dvmcore/internal/edac"
)

// MessageType identifies an RTCH link-control message's function.
type MessageType byte

const (
	RTCHVCall     MessageType = 0x01
	RTCHVCallIV   MessageType = 0x03
	RTCHTxRel     MessageType = 0x08
	RTCHTxRelEx   MessageType = 0x09
	RTCHDCallHdr  MessageType = 0x0A
	RTCHDCallData MessageType = 0x0B
)

// TransmissionMode selects an NXDN call's channel access rate.
type TransmissionMode byte

const (
	Mode4800 TransmissionMode = 0
	Mode9600 TransmissionMode = 1
)

// RTCH is the NXDN voice-call link-control record: message type, call
// flags, transmission mode, and source/destination unit IDs. Carried
// across a voice call's FACCH1 segments the way a P25/DMR voice LC is
// carried across its own call-header framing.
type RTCH struct {
	MessageType      MessageType
	Group            bool
	Emergency        bool
	Encrypted        bool
	Priority         bool
	Duplex           bool
	TransmissionMode TransmissionMode
	SourceID         uint32 // 16 bits
	DestID           uint32 // 16 bits
}

func (r RTCH) payloadBits() []byte {
	out := make([]byte, 0, 48)
	out = append(out, bits.FromUint(uint64(r.MessageType&0x3F), 6)...)
	out = append(out, boolBit(r.Group), boolBit(r.Emergency), boolBit(r.Encrypted),
		boolBit(r.Priority), boolBit(r.Duplex), boolBit(r.TransmissionMode == Mode9600))
	out = append(out, bits.FromUint(uint64(r.SourceID), 16)...)
	out = append(out, bits.FromUint(uint64(r.DestID), 16)...)
	return out // 44 bits
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Encode splits this RTCH's 44 payload bits (padded to 48) into four
// 12-bit groups, each protected by its own Hamming(17,12,3) codeword,
// and packs the concatenated 68 coded bits into 9 bytes.
func (r RTCH) Encode() []byte {
	payload := r.payloadBits()
	for len(payload) < 48 {
		payload = append(payload, 0)
	}

	out := make([]byte, 0, 68)
	for i := 0; i < 48; i += 12 {
		out = append(out, edac.Hamming17_12_3.Encode(payload[i:i+12])...)
	}
	return bits.Pack(out)
}

// DecodeRTCH recovers an RTCH from its 9-byte encoded form, correcting
// up to one bit error per 12-bit group.
func DecodeRTCH(coded []byte) (RTCH, bool) {
	air := bits.Unpack(coded)
	if len(air) < 68 {
		return RTCH{}, false
	}

	payload := make([]byte, 0, 48)
	for i := 0; i < 68; i += 17 {
		group, ok := edac.Hamming17_12_3.Decode(air[i : i+17])
		if !ok {
			return RTCH{}, false
		}
		payload = append(payload, group...)
	}

	tm := Mode4800
	if payload[11] == 1 {
		tm = Mode9600
	}
	return RTCH{
		MessageType:      MessageType(bits.ToUint(payload[0:6])),
		Group:            payload[6] == 1,
		Emergency:        payload[7] == 1,
		Encrypted:        payload[8] == 1,
		Priority:         payload[9] == 1,
		Duplex:           payload[10] == 1,
		TransmissionMode: tm,
		SourceID:         uint32(bits.ToUint(payload[12:28])),
		DestID:           uint32(bits.ToUint(payload[28:44])),
	}, true
}
