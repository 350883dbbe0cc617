// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package lc implements the P25 voice Link Control word: the semantic
// record carried by both the LDU1 Link Control Word and the TDULC
// terminator frame. internal/p25/channel already owns the TDULC's
// RS(24,12,13)+Golay(24,12,8) wire framing; this package gives meaning
// to its opaque LCO/MFID/Args fields for the voice opcodes.
package lc

import "github.com/dvmhub/dvmcore/internal/p25/channel"

// LCO identifies a P25 voice link control opcode.
type LCO byte

const (
	LCOGroupVoice      LCO = 0x00
	LCOUnitToUnitVoice LCO = 0x03
	LCOTelephoneVoice  LCO = 0x02
)

// VoiceLC is the semantic P25 voice Link Control word: opcode,
// manufacturer ID, emergency/encrypted flags, priority, and
// source/destination addressing. Constructed when a voice header
// frame is seen and held for the call stream's duration.
type VoiceLC struct {
	LCO       LCO
	MFID      byte
	Emergency bool
	Encrypted bool
	Priority  byte   // 3 bits
	SourceID  uint32 // 24 bits
	DestID    uint32 // 24 bits (16 bits for a group call; stored widened)
}

// ToTDULC packs this voice LC into a channel.TDULC's 56-bit Args field:
// {emergency(1), encrypted(1), priority(3), destId(24), sourceId(24),
// reserved(3)}.
func (v VoiceLC) ToTDULC() channel.TDULC {
	var args uint64
	if v.Emergency {
		args |= 1 << 55
	}
	if v.Encrypted {
		args |= 1 << 54
	}
	args |= uint64(v.Priority&0x7) << 51
	args |= uint64(v.DestID&0xFFFFFF) << 27
	args |= uint64(v.SourceID&0xFFFFFF) << 3

	return channel.TDULC{LCO: byte(v.LCO), MFID: v.MFID, Args: args}
}

// FromTDULC recovers a VoiceLC from a channel.TDULC's LCO/MFID/Args
// fields.
func FromTDULC(t channel.TDULC) VoiceLC {
	return VoiceLC{
		LCO:       LCO(t.LCO),
		MFID:      t.MFID,
		Emergency: t.Args&(1<<55) != 0,
		Encrypted: t.Args&(1<<54) != 0,
		Priority:  byte(t.Args>>51) & 0x7,
		DestID:    uint32(t.Args>>27) & 0xFFFFFF,
		SourceID:  uint32(t.Args>>3) & 0xFFFFFF,
	}
}
