// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package lc implements the DMR voice Link Control word: the
// semantic record a Voice LC Header/Terminator burst carries, layered
// atop the same BPTC(196,96) framing a standalone CSBK uses.
package lc

import (
	"github.com/dvmhub/dvmcore/internal/bits"
	"github.com/dvmhub/dvmcore/internal/edac"
)

// FLCO identifies a DMR full link control opcode.
type FLCO byte

const (
	FLCOGroupVoice      FLCO = 0x00
	FLCOUnitToUnitVoice FLCO = 0x03
)

// VoiceLC is the semantic voice Link Control word: FLCO, feature ID,
// service options, and source/destination radio IDs. Constructed when
// a voice header frame is seen and held for the call stream's
// duration.
type VoiceLC struct {
	FLCO      FLCO
	FID       byte // manufacturer feature ID, 8 bits
	Emergency bool
	Privacy   bool
	Broadcast bool
	Priority  byte   // 2 bits
	DestID    uint32 // 24 bits
	SourceID  uint32 // 24 bits
}

func (v VoiceLC) serviceOptions() byte {
	var so byte
	if v.Emergency {
		so |= 0x80
	}
	if v.Privacy {
		so |= 0x40
	}
	if v.Broadcast {
		so |= 0x08
	}
	so |= v.Priority & 0x03
	return so
}

func (v VoiceLC) payloadBits() []byte {
	out := make([]byte, 0, 96)
	out = append(out, bits.FromUint(uint64(v.FLCO), 8)...)
	out = append(out, bits.FromUint(uint64(v.FID), 8)...)
	out = append(out, bits.FromUint(uint64(v.serviceOptions()), 8)...)
	out = append(out, bits.FromUint(uint64(v.DestID), 24)...)
	out = append(out, bits.FromUint(uint64(v.SourceID), 24)...)
	return out
}

// Encode produces the 196-bit BPTC air burst for this voice LC word,
// the same framing a standalone CSBK uses but with the Voice LC CRC
// mask in place of the CSBK mask.
func (v VoiceLC) Encode() [196]byte {
	payload := bits.Pack(v.payloadBits()) // 9 bytes
	full := append(payload, 0, 0)         // room for the CRC
	edac.CRCCCITT16Append(full, edac.CRCMaskVoiceLC)

	var in [96]byte
	copy(in[:], bits.Unpack(full))
	return edac.BPTC19696Encode(in)
}

// DecodeVoiceLC recovers a VoiceLC from a 196-bit BPTC air burst.
func DecodeVoiceLC(air [196]byte) (VoiceLC, bool) {
	data, ok := edac.BPTC19696Decode(air)
	if !ok {
		return VoiceLC{}, false
	}
	full := bits.Pack(data[:88]) // 9 payload bytes + 2 CRC bytes; the last 8 BPTC bits are unused
	if !edac.CRCCCITT16Check(full, edac.CRCMaskVoiceLC) {
		return VoiceLC{}, false
	}

	p := bits.Unpack(full[:9])
	so := byte(bits.ToUint(p[16:24]))
	return VoiceLC{
		FLCO:      FLCO(bits.ToUint(p[0:8])),
		FID:       byte(bits.ToUint(p[8:16])),
		Emergency: so&0x80 != 0,
		Privacy:   so&0x40 != 0,
		Broadcast: so&0x08 != 0,
		Priority:  so & 0x03,
		DestID:    uint32(bits.ToUint(p[24:48])),
		SourceID:  uint32(bits.ToUint(p[48:72])),
	}, true
}
