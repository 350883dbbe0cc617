// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package data implements the DMR PDU layer: the data header, data
// blocks, the assembler/disassembler that convert between a PDU user
// data buffer and a sequence of BPTC(196,96)-framed air blocks, and
// the retransmit state machine that governs ACK_RETRY handling.
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
	FormatUDT
)

// confirmedBlockLength is the number of user bytes a confirmed data
// block carries; unconfirmedBlockLength is the unconfirmed figure.
const (
	confirmedBlockLength   = 16
	unconfirmedBlockLength = 12
)

// DataHeader is the first block of a DMR PDU packet: it names the
// packet format, service access point, logical link ID, and how many
// data blocks follow. The RESPONSE variant additionally carries a
// response class/type/status triple.
type DataHeader struct {
	Format         Format
	AckNeeded      bool
	Outbound       bool
	SAP            byte   // 4 bits
	MFID           byte   // 8 bits
	LLID           uint32 // 24 bits
	BlocksToFollow byte   // 7 bits
	PadLength      byte   // 8 bits
	FSN            byte   // 8 bits, fragment sequence number
	HeaderOffset   byte   // 6 bits
	FullMessage    bool

	ResponseClass  byte // 2 bits, RESPONSE only
	ResponseType   byte // 3 bits, RESPONSE only
	ResponseStatus byte // 3 bits, RESPONSE only
}

// PacketLength returns the user-data length implied by this header's
// block count, format, and pad length: (confirmed ? 16 : 12) *
// blocksToFollow - 4 (trailing CRC-32) - padLength.
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
	out = append(out, bits.FromUint(uint64(h.SAP), 4)...)
	out = append(out, bits.FromUint(uint64(h.MFID), 8)...)
	out = append(out, bits.FromUint(uint64(h.LLID), 24)...)
	out = append(out, bits.FromUint(uint64(h.BlocksToFollow), 7)...)
	out = append(out, bits.FromUint(uint64(h.PadLength), 8)...)
	out = append(out, bits.FromUint(uint64(h.FSN), 8)...)
	out = append(out, bits.FromUint(uint64(h.HeaderOffset), 6)...)
	out = append(out, boolBit(h.FullMessage))
	out = append(out, bits.FromUint(uint64(h.ResponseClass), 2)...)
	out = append(out, bits.FromUint(uint64(h.ResponseType), 3)...)
	out = append(out, bits.FromUint(uint64(h.ResponseStatus), 3)...)
	out = append(out, 0, 0) // reserved
	return out
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Encode returns the BPTC(196,96)-framed air block for this header:
// its 80-bit payload, a trailing CRC-CCITT16, and the BPTC code word,
// packed to 25 bytes.
func (h DataHeader) Encode() []byte {
	payload := bits.Pack(h.payloadBits())
	full := append(payload, 0, 0)
	edac.CRCCCITT16Append(full, edac.CRCMaskNone)

	var in [96]byte
	copy(in[:], bits.Unpack(full))
	air := edac.BPTC19696Encode(in)
	return bits.Pack(air[:])
}

// DecodeDataHeader recovers a DataHeader from a BPTC(196,96)-framed
// air block, correcting the single-bit-per-row/column errors BPTC can
// resolve and verifying the trailing CRC-CCITT16.
func DecodeDataHeader(block []byte) (DataHeader, bool) {
	var air [196]byte
	copy(air[:], bits.Unpack(block))
	decoded, ok := edac.BPTC19696Decode(air)
	if !ok {
		return DataHeader{}, false
	}
	full := bits.Pack(decoded[:])
	if !edac.CRCCCITT16Check(full, edac.CRCMaskNone) {
		return DataHeader{}, false
	}

	p := bits.Unpack(full[:10])
	return DataHeader{
		Format:         Format(bits.ToUint(p[0:2])),
		AckNeeded:      p[2] == 1,
		Outbound:       p[3] == 1,
		SAP:            byte(bits.ToUint(p[4:8])),
		MFID:           byte(bits.ToUint(p[8:16])),
		LLID:           uint32(bits.ToUint(p[16:40])),
		BlocksToFollow: byte(bits.ToUint(p[40:47])),
		PadLength:      byte(bits.ToUint(p[47:55])),
		FSN:            byte(bits.ToUint(p[55:63])),
		HeaderOffset:   byte(bits.ToUint(p[63:69])),
		FullMessage:    p[69] == 1,
		ResponseClass:  byte(bits.ToUint(p[70:72])),
		ResponseType:   byte(bits.ToUint(p[72:75])),
		ResponseStatus: byte(bits.ToUint(p[75:78])),
	}, true
}
