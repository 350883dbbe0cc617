// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package data implements the P25 PDU layer: the data header, data
// blocks, the assembler/disassembler that convert between a PDU user
// data buffer and a sequence of trellis-framed air blocks, and the
// retransmit state machine governing ACK_RETRY handling.
package data

import (
	"github.com/dvmhub/dvmcore/internal/bits"
	"github.com/dvmhub/dvmcore/internal/edac"
)

// Format is the data header's packet-format tag (DPF).
type Format byte

const (
	FormatUnconfirmed Format = iota
	FormatConfirmed
	FormatResponse
	FormatAMBT
)

const (
	confirmedBlockLength   = 16
	unconfirmedBlockLength = 12
)

// DataHeader is the first block of a P25 PDU packet. The RESPONSE
// variant carries a response class/type/status triple; the AMBT
// variant carries three opcode bytes identifying the alternate
// multi-block trunking message the blocks following it encode.
type DataHeader struct {
	Format         Format
	AckNeeded      bool
	Outbound       bool
	SAP            byte   // 6 bits
	MFID           byte   // 8 bits
	LLID           uint32 // 24 bits
	BlocksToFollow byte   // 7 bits
	PadLength      byte
	FSN            byte
	HeaderOffset   byte
	FullMessage    bool

	ResponseClass  byte // 2 bits, RESPONSE only
	ResponseType   byte // 3 bits, RESPONSE only
	ResponseStatus byte // 3 bits, RESPONSE only

	AMBTOpcode [3]byte // AMBT only
}

// PacketLength returns the user-data length implied by this header's
// block count, format, and pad length.
func (h DataHeader) PacketLength() int {
	perBlock := unconfirmedBlockLength
	if h.Format == FormatConfirmed {
		perBlock = confirmedBlockLength
	}
	return perBlock*int(h.BlocksToFollow) - 4 - int(h.PadLength)
}

func (h DataHeader) payloadBits() []byte {
	out := make([]byte, 0, 80)
	out = append(out, bits.FromUint(uint64(h.Format), 2)...)
	out = append(out, boolBit(h.AckNeeded), boolBit(h.Outbound))
	out = append(out, bits.FromUint(uint64(h.SAP), 6)...)
	out = append(out, bits.FromUint(uint64(h.MFID), 8)...)
	out = append(out, bits.FromUint(uint64(h.LLID), 24)...)
	out = append(out, bits.FromUint(uint64(h.BlocksToFollow), 7)...)
	out = append(out, bits.FromUint(uint64(h.PadLength), 8)...)
	out = append(out, bits.FromUint(uint64(h.FSN), 8)...)
	out = append(out, bits.FromUint(uint64(h.HeaderOffset), 6)...)
	out = append(out, boolBit(h.FullMessage))
	if h.Format == FormatAMBT {
		out = append(out, bits.FromUint(uint64(h.AMBTOpcode[0])<<16|uint64(h.AMBTOpcode[1])<<8|uint64(h.AMBTOpcode[2]), 24)...)
	} else {
		out = append(out, bits.FromUint(uint64(h.ResponseClass), 2)...)
		out = append(out, bits.FromUint(uint64(h.ResponseType), 3)...)
		out = append(out, bits.FromUint(uint64(h.ResponseStatus), 3)...)
		out = append(out, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	}
	return out
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Encode returns the rate-1/2 trellis-coded air block (packed to
// bytes) for this header's 96-bit payload (12 bytes) plus its
// trailing CRC-CCITT16 (2 bytes).
func (h DataHeader) Encode() []byte {
	payload := bits.Pack(h.payloadBits()) // 12 bytes
	full := append(payload, 0, 0)         // 14 bytes, room for the CRC
	edac.CRCCCITT16Append(full, edac.CRCMaskNone)
	return bits.Pack(edac.Trellis12.Encode12(bits.Unpack(full)))
}

// DecodeDataHeader recovers a DataHeader from a rate-1/2 trellis-coded
// air block, Viterbi-correcting channel errors and verifying the
// trailing CRC-CCITT16.
func DecodeDataHeader(block []byte) (DataHeader, bool) {
	decoded := edac.Trellis12.Decode12(bits.Unpack(block))
	if len(decoded) < 112 {
		return DataHeader{}, false
	}
	full := bits.Pack(decoded[:112])
	if !edac.CRCCCITT16Check(full, edac.CRCMaskNone) {
		return DataHeader{}, false
	}

	p := bits.Unpack(full[:12])
	h := DataHeader{
		Format:         Format(bits.ToUint(p[0:2])),
		AckNeeded:      p[2] == 1,
		Outbound:       p[3] == 1,
		SAP:            byte(bits.ToUint(p[4:10])),
		MFID:           byte(bits.ToUint(p[10:18])),
		LLID:           uint32(bits.ToUint(p[18:42])),
		BlocksToFollow: byte(bits.ToUint(p[42:49])),
		PadLength:      byte(bits.ToUint(p[49:57])),
		FSN:            byte(bits.ToUint(p[57:65])),
		HeaderOffset:   byte(bits.ToUint(p[65:71])),
		FullMessage:    p[71] == 1,
	}
	if h.Format == FormatAMBT {
		opcode := bits.ToUint(p[72:96])
		h.AMBTOpcode[0] = byte(opcode >> 16)
		h.AMBTOpcode[1] = byte(opcode >> 8)
		h.AMBTOpcode[2] = byte(opcode)
	} else {
		h.ResponseClass = byte(bits.ToUint(p[72:74]))
		h.ResponseType = byte(bits.ToUint(p[74:77]))
		h.ResponseStatus = byte(bits.ToUint(p[77:80]))
	}
	return h, true
}
