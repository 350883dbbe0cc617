// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package channel implements the NXDN L1 channel codings: the Link
// Information Channel (LICH), the Slow Associated Control Channel
// (SACCH), and the first Fast Associated Control Channel segment
// (FACCH1). SACCH and FACCH1 both ride the (17,12,3) shortened Hamming
// code internal/edac builds specifically for NXDN framing; LICH itself
// carries only the frame-structure selector bits and is not
// separately FEC-protected on the air.
package channel

import (
	"github.com/dvmhub/dvmcore/internal/bits"
	"github.com/dvmhub/dvmcore/internal/edac"
)

// LICH selects how the rest of an NXDN frame is structured: the RF
// channel type, the function type, a structure option, and whether
// the frame is outbound (repeater-to-subscriber) or inbound.
type LICH struct {
	RFChannelType byte // 2 bits
	FunctionType  byte // 3 bits
	Option        byte // 2 bits
	Outbound      bool
}

// Encode packs LICH into its single on-air byte: RFCT(2) | FCT(3) |
// option(2) | outbound(1).
func (l LICH) Encode() byte {
	b := (l.RFChannelType & 0x3) << 6
	b |= (l.FunctionType & 0x7) << 3
	b |= (l.Option & 0x3) << 1
	if l.Outbound {
		b |= 0x01
	}
	return b
}

// DecodeLICH unpacks a LICH from its on-air byte.
func DecodeLICH(b byte) LICH {
	return LICH{
		RFChannelType: (b >> 6) & 0x3,
		FunctionType:  (b >> 3) & 0x7,
		Option:        (b >> 1) & 0x3,
		Outbound:      b&0x01 != 0,
	}
}

// SACCH carries slow associated control signalling: the radio access
// number, a two-bit structure field naming how the SACCH superframe
// fragments chain together, and the first 4 bits of this fragment's
// payload - RAN(6) + structure(2) + data(4) filling the Hamming(17,12,3)
// code's 12 data bits.
type SACCH struct {
	RAN       byte // 6 bits, Radio Access Number
	Structure byte // 2 bits
	Data      byte // 4 bits
}

func (s SACCH) dataBits() []byte {
	out := make([]byte, 0, 12)
	out = append(out, bits.FromUint(uint64(s.RAN&0x3F), 6)...)
	out = append(out, bits.FromUint(uint64(s.Structure&0x3), 2)...)
	out = append(out, bits.FromUint(uint64(s.Data&0xF), 4)...)
	return out
}

// Encode returns the 17-bit Hamming(17,12,3) codeword for this SACCH.
func (s SACCH) Encode() []byte {
	return edac.Hamming17_12_3.Encode(s.dataBits())
}

// DecodeSACCH recovers a SACCH from a 17-bit Hamming(17,12,3) codeword,
// correcting a single bit error.
func DecodeSACCH(codeword []byte) (SACCH, bool) {
	data, ok := edac.Hamming17_12_3.Decode(codeword)
	if !ok {
		return SACCH{}, false
	}
	return SACCH{
		RAN:       byte(bits.ToUint(data[0:6])),
		Structure: byte(bits.ToUint(data[6:8])),
		Data:      byte(bits.ToUint(data[8:12])),
	}, true
}

// FACCH1 carries one fast-associated-control-channel link-control
// segment: an opcode and its argument, also Hamming(17,12,3) protected.
type FACCH1 struct {
	Opcode byte // 6 bits
	Arg    byte // 6 bits
}

func (f FACCH1) dataBits() []byte {
	return bits.FromUint(uint64(f.Opcode&0x3F)<<6|uint64(f.Arg&0x3F), 12)
}

// Encode returns the 17-bit Hamming(17,12,3) codeword for this FACCH1.
func (f FACCH1) Encode() []byte {
	return edac.Hamming17_12_3.Encode(f.dataBits())
}

// DecodeFACCH1 recovers a FACCH1 from a 17-bit Hamming(17,12,3)
// codeword, correcting a single bit error.
func DecodeFACCH1(codeword []byte) (FACCH1, bool) {
	data, ok := edac.Hamming17_12_3.Decode(codeword)
	if !ok {
		return FACCH1{}, false
	}
	v := bits.ToUint(data)
	return FACCH1{Opcode: byte(v>>6) & 0x3F, Arg: byte(v) & 0x3F}, true
}
