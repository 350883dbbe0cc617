// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package channel

import (
	"github.com/dvmhub/dvmcore/internal/bits"
	"github.com/dvmhub/dvmcore/internal/edac"
)

// CSBKOpcode identifies a Control Signalling Block's function.
type CSBKOpcode byte

const (
	// CSBKORand is the random-access grant opcode spec.md's CSBK test
	// scenario exercises.
	CSBKORand CSBKOpcode = 0x3D
)

// CSBK is a standalone DMR Control Signalling Block: a 96-bit payload
// (flags, opcode, feature ID, 64 bits of opcode-specific data, and a
// masked CRC-CCITT16) transmitted as a single BPTC(196,96) burst.
type CSBK struct {
	LastBlock bool
	CSBKO     CSBKOpcode
	FID       byte // manufacturer feature ID, 8 bits
	Data      uint64
}

func (c CSBK) payloadBits() []byte {
	out := make([]byte, 0, 80)
	lb := byte(0)
	if c.LastBlock {
		lb = 1
	}
	out = append(out, lb, 0) // last-block flag, reserved bit
	out = append(out, bits.FromUint(uint64(c.CSBKO), 6)...)
	out = append(out, bits.FromUint(uint64(c.FID), 8)...)
	out = append(out, bits.FromUint(c.Data, 64)...)
	return out
}

// Encode produces the 196-bit BPTC air burst for this CSBK.
func (c CSBK) Encode() [196]byte {
	payload := bits.Pack(c.payloadBits()) // 10 bytes
	full := append(payload, 0, 0)         // room for the CRC
	edac.CRCCCITT16Append(full, edac.CRCMaskCSBK)

	var in [96]byte
	copy(in[:], bits.Unpack(full))
	return edac.BPTC19696Encode(in)
}

// DecodeCSBK recovers a CSBK from a 196-bit BPTC air burst, correcting
// the single-bit errors BPTC(196,96)'s row/column Hamming codes can
// resolve and verifying the masked CRC-CCITT16.
func DecodeCSBK(air [196]byte) (CSBK, bool) {
	data, ok := edac.BPTC19696Decode(air)
	if !ok {
		return CSBK{}, false
	}
	full := bits.Pack(data[:])
	if !edac.CRCCCITT16Check(full, edac.CRCMaskCSBK) {
		return CSBK{}, false
	}

	payloadBits := bits.Unpack(full[:10])
	return CSBK{
		LastBlock: payloadBits[0] == 1,
		CSBKO:     CSBKOpcode(bits.ToUint(payloadBits[2:8])),
		FID:       byte(bits.ToUint(payloadBits[8:16])),
		Data:      bits.ToUint(payloadBits[16:80]),
	}, true
}
