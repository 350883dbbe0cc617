// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package channel implements the DMR L1 channel codings: the Slot Type
// field carried in every sync-position burst, embedded signalling
// (EMB), and standalone Control Signalling Blocks (CSBK) - each a thin
// framing layer over internal/edac's bit-accurate FEC primitives.
package channel

import (
	"github.com/dvmhub/dvmcore/internal/edac"
)

// SlotType carries a burst's colour code and data type, Golay(20,8,7)
// protected so a receiver can identify burst content even with a
// single bit error in the sync position.
type SlotType struct {
	ColourCode byte // 4 bits
	DataType   byte // 4 bits
}

// Encode returns the 20-bit Golay(20,8,7) codeword for this slot type.
func (s SlotType) Encode() uint32 {
	data := uint16(s.ColourCode&0xF)<<4 | uint16(s.DataType&0xF)
	return edac.Golay20_8_7.Encode(data)
}

// DecodeSlotType recovers a SlotType from a 20-bit Golay(20,8,7)
// codeword, correcting up to 3 bit errors.
func DecodeSlotType(codeword uint32) (SlotType, bool) {
	data, ok := edac.Golay20_8_7.Decode(codeword)
	if !ok {
		return SlotType{}, false
	}
	return SlotType{ColourCode: byte(data>>4) & 0xF, DataType: byte(data) & 0xF}, true
}

// EncodeHalves splits this slot type's 20-bit Golay codeword into the
// two 10-bit fields a burst actually carries it in, one on either side
// of the burst's sync field.
func (s SlotType) EncodeHalves() (first, second uint16) {
	codeword := s.Encode()
	return uint16(codeword>>10) & 0x3FF, uint16(codeword) & 0x3FF
}

// DecodeSlotTypeHalves reassembles the two 10-bit burst fields into a
// single 20-bit Golay(20,8,7) codeword before decoding.
func DecodeSlotTypeHalves(first, second uint16) (SlotType, bool) {
	codeword := uint32(first&0x3FF)<<10 | uint32(second&0x3FF)
	return DecodeSlotType(codeword)
}
