// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package channel implements the P25 L1 channel codings: standalone
// Trunking Signalling Blocks (TSBK) and Terminator-with-Link-Control
// (TDULC) frames.
package channel

import (
	"github.com/dvmhub/dvmcore/internal/bits"
	"github.com/dvmhub/dvmcore/internal/edac"
)

// TSBK is a standalone P25 Trunking Signalling Block: a 12-byte block
// (flags, opcode, a manufacturer ID, opcode-specific data, and an
// unmasked CRC-CCITT16) carried over the air as a rate-1/2
// trellis-coded burst.
type TSBK struct {
	LastBlock bool
	Protected bool
	Opcode    byte // 6 bits
	MFID      byte // 8 bits
	Data      uint64
}

func (t TSBK) payloadBits() []byte {
	out := make([]byte, 0, 80)
	lb, pf := byte(0), byte(0)
	if t.LastBlock {
		lb = 1
	}
	if t.Protected {
		pf = 1
	}
	out = append(out, lb, pf)
	out = append(out, bits.FromUint(uint64(t.Opcode), 6)...)
	out = append(out, bits.FromUint(uint64(t.MFID), 8)...)
	out = append(out, bits.FromUint(t.Data, 64)...)
	return out
}

// Encode returns the rate-1/2 trellis-coded air bitstream (192 bits)
// for this TSBK's 12-byte block.
func (t TSBK) Encode() []byte {
	payload := bits.Pack(t.payloadBits())
	full := append(payload, 0, 0)
	edac.CRCCCITT16Append(full, edac.CRCMaskNone)
	return edac.Trellis12.Encode12(bits.Unpack(full))
}

// DecodeTSBK recovers a TSBK from a rate-1/2 trellis-coded air
// bitstream, Viterbi-correcting channel errors and verifying the
// trailing CRC-CCITT16.
func DecodeTSBK(coded []byte) (TSBK, bool) {
	decoded := edac.Trellis12.Decode12(coded)
	if len(decoded) < 96 {
		return TSBK{}, false
	}
	full := bits.Pack(decoded[:96])
	if !edac.CRCCCITT16Check(full, edac.CRCMaskNone) {
		return TSBK{}, false
	}

	payloadBits := bits.Unpack(full[:10])
	return TSBK{
		LastBlock: payloadBits[0] == 1,
		Protected: payloadBits[1] == 1,
		Opcode:    byte(bits.ToUint(payloadBits[2:8])),
		MFID:      byte(bits.ToUint(payloadBits[8:16])),
		Data:      bits.ToUint(payloadBits[16:80]),
	}, true
}
