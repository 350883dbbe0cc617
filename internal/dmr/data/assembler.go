// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package data

import "github.com/dvmhub/dvmcore/internal/edac"

// BlockSink is the custom block-writer callback an Assembler invokes
// once per encoded block. When set, Assemble returns an empty
// bitstream and the caller receives blocks inline instead.
type BlockSink func(ctx any, blockIndex int, block []byte, isLast bool)

// Assembler converts a PDU user-data buffer into a sequence of
// BPTC(196,96)-framed header and trellis-framed data blocks.
type Assembler struct {
	sink BlockSink
}

// NewAssembler returns an Assembler with no block sink configured; use
// SetBlockWriter to receive blocks inline instead of via the returned
// buffer.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// SetBlockWriter installs the custom block-writer callback.
func (a *Assembler) SetBlockWriter(sink BlockSink) {
	a.sink = sink
}

// Assemble builds the air bitstream for header plus userData. When
// extAddr or auxES is non-nil, its encoded bytes are prepended to the
// user area ahead of userData. precomputedCRC32, when non-nil (the
// AMBT case), is used verbatim instead of being recomputed over the
// user area. Returns the concatenation of every emitted block's bytes
// and its bit length; when a block sink is set, the returned buffer is
// empty and blocks arrive only via the sink.
func (a *Assembler) Assemble(header DataHeader, extAddr *ExtendedAddress, auxES *AuxiliaryES, userData []byte, precomputedCRC32 []byte, ctx any) ([]byte, int) {
	headerBlock := header.Encode()
	blocksToFollow := int(header.BlocksToFollow)
	a.emit(ctx, 0, headerBlock, blocksToFollow == 0)

	out := append([]byte{}, headerBlock...)
	if blocksToFollow == 0 {
		return a.finish(out)
	}

	userArea := make([]byte, 0, len(userData)+16)
	if extAddr != nil {
		userArea = append(userArea, extAddr.Encode()...)
	}
	if auxES != nil {
		userArea = append(userArea, auxES.Encode()...)
	}
	userArea = append(userArea, userData...)

	packetLength := len(userArea)
	var withCRC []byte
	if precomputedCRC32 != nil {
		withCRC = append(append([]byte{}, userArea...), precomputedCRC32...)
	} else {
		withCRC = edac.CRC32Append(userArea)
	}

	padLength := int(header.PadLength)
	padded := make([]byte, packetLength+padLength+4)
	copy(padded, withCRC[:packetLength])
	copy(padded[packetLength+padLength:], withCRC[packetLength:])

	blockLen := unconfirmedBlockLength
	if header.Format == FormatConfirmed {
		blockLen = confirmedBlockLength
	}

	offset := 0
	for i := 0; i < blocksToFollow; i++ {
		end := offset + blockLen
		if end > len(padded) {
			end = len(padded)
		}
		chunk := make([]byte, blockLen)
		copy(chunk, padded[offset:end])

		block := DataBlock{
			Confirmed: header.Format == FormatConfirmed,
			Serial:    byte(i),
			LastBlock: i+1 == blocksToFollow,
			Data:      chunk,
		}
		coded := block.Encode()
		a.emit(ctx, i+1, coded, block.LastBlock)
		out = append(out, coded...)

		offset += blockLen
	}

	return a.finish(out)
}

func (a *Assembler) emit(ctx any, index int, block []byte, isLast bool) {
	if a.sink != nil {
		a.sink(ctx, index, block, isLast)
	}
}

func (a *Assembler) finish(out []byte) ([]byte, int) {
	if a.sink != nil {
		return nil, 0
	}
	return out, len(out) * 8
}
