// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package channel

import (
	"github.com/dvmhub/dvmcore/internal/bits"
	"github.com/dvmhub/dvmcore/internal/edac"
)

// TDULC is a P25 Terminator Data Unit carrying Link Control: the
// opcode, manufacturer ID, and arguments describing a voice call's
// termination parameters. Its 9-byte payload carries no CRC of its
// own; RS(24,12,13) followed by Golay(24,12,8) protects the field
// well past the point a residual error would go undetected.
type TDULC struct {
	LCO  byte   // 8 bits, Link Control Opcode
	MFID byte   // 8 bits
	Args uint64 // 56 bits
}

func (t TDULC) payloadBits() []byte {
	out := make([]byte, 0, 72)
	out = append(out, bits.FromUint(uint64(t.LCO), 8)...)
	out = append(out, bits.FromUint(uint64(t.MFID), 8)...)
	out = append(out, bits.FromUint(t.Args, 56)...)
	return out
}

// rsSymbols groups a one-bit-per-byte stream into 6-bit RS symbols,
// each returned as a byte holding the symbol value in its low bits.
func rsSymbols(bitstream []byte) []byte {
	out := make([]byte, len(bitstream)/6)
	for i := range out {
		out[i] = byte(bits.ToUint(bitstream[i*6 : i*6+6]))
	}
	return out
}

func rsSymbolBits(symbols []byte) []byte {
	out := make([]byte, 0, len(symbols)*6)
	for _, s := range symbols {
		out = append(out, bits.FromUint(uint64(s), 6)...)
	}
	return out
}

// Encode returns the 36-byte RS(24,12,13)+Golay(24,12,8) FEC field for
// this TDULC's 9-byte payload: the 72 payload bits are grouped into 12
// six-bit RS symbols, RS-encoded out to 24 symbols (144 bits), and
// those 144 bits are then grouped into 12 Golay(24,12,8) codewords.
func (t TDULC) Encode() []byte {
	dataSymbols := rsSymbols(t.payloadBits())
	rsOut := edac.RS24_12_13.Encode(dataSymbols)
	rsBits := rsSymbolBits(rsOut)

	out := make([]byte, 0, 36)
	for i := 0; i < len(rsBits); i += 12 {
		group := bits.ToUint(rsBits[i : i+12])
		codeword := edac.Golay24_12_8.Encode(uint16(group))
		out = append(out, bits.Pack(bits.FromUint(uint64(codeword), 24))...)
	}
	return out
}

// DecodeTDULC recovers a TDULC from a 36-byte RS+Golay FEC field,
// Golay-correcting each 24-bit codeword before RS-correcting the
// resulting 24-symbol word.
func DecodeTDULC(coded []byte) (TDULC, bool) {
	if len(coded) < 36 {
		return TDULC{}, false
	}

	rsBits := make([]byte, 0, 144)
	for i := 0; i < 36; i += 3 {
		codeword := bits.ToUint(bits.Unpack(coded[i : i+3]))
		data, ok := edac.Golay24_12_8.Decode(uint32(codeword))
		if !ok {
			return TDULC{}, false
		}
		rsBits = append(rsBits, bits.FromUint(uint64(data), 12)...)
	}

	dataSymbols, ok := edac.RS24_12_13.Decode(rsSymbols(rsBits))
	if !ok {
		return TDULC{}, false
	}

	payloadBits := rsSymbolBits(dataSymbols)
	return TDULC{
		LCO:  byte(bits.ToUint(payloadBits[0:8])),
		MFID: byte(bits.ToUint(payloadBits[8:16])),
		Args: bits.ToUint(payloadBits[16:72]),
	}, true
}
