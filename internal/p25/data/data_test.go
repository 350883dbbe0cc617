// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package data_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/p25/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	h := data.DataHeader{
		Format: data.FormatConfirmed, AckNeeded: true, Outbound: true,
		SAP: 0x20, MFID: 0x90, LLID: 0x00ABCD, BlocksToFollow: 5,
		PadLength: 3, FSN: 0x07, HeaderOffset: 0x2, FullMessage: true,
	}
	got, ok := data.DecodeDataHeader(h.Encode())
	require.True(t, ok)
	assert.Equal(t, h, got)
}

func TestDataHeaderAMBTRoundTrip(t *testing.T) {
	t.Parallel()
	h := data.DataHeader{Format: data.FormatAMBT, SAP: 0x3F, BlocksToFollow: 1, AMBTOpcode: [3]byte{0x12, 0x34, 0x56}}
	got, ok := data.DecodeDataHeader(h.Encode())
	require.True(t, ok)
	assert.Equal(t, h, got)
}

func TestDataHeaderResponseRoundTrip(t *testing.T) {
	t.Parallel()
	h := data.DataHeader{Format: data.FormatResponse, ResponseClass: 0x2, ResponseType: 0x5, ResponseStatus: 0x6}
	got, ok := data.DecodeDataHeader(h.Encode())
	require.True(t, ok)
	assert.Equal(t, h, got)
}

// TestAssembleAMBTUsesPrecomputedCRC exercises invariant 5: AMBT
// format packets carry a pre-computed CRC-32 the assembler must not
// recompute.
func TestAssembleAMBTUsesPrecomputedCRC(t *testing.T) {
	t.Parallel()
	userData := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	precomputed := []byte{0x01, 0x02, 0x03, 0x04}

	header := data.DataHeader{Format: data.FormatAMBT, BlocksToFollow: 1, AMBTOpcode: [3]byte{1, 2, 3}}
	var blocks [][]byte
	asm := data.NewAssembler()
	asm.SetBlockWriter(func(_ any, index int, block []byte, _ bool) {
		if index > 0 {
			blocks = append(blocks, append([]byte{}, block...))
		}
	})
	asm.Assemble(header, nil, nil, userData, precomputed, nil)
	require.Len(t, blocks, 1)

	dis := data.NewDisassembler()
	dis.Disassemble(header.Encode(), true)
	progress := dis.Disassemble(blocks[0], false)
	require.Equal(t, data.Complete, progress)

	got, crcValid := dis.Result()
	assert.Equal(t, userData, got)
	assert.False(t, crcValid, "the precomputed CRC was deliberately arbitrary and must reach the wire untouched")
}

func TestAssembleDisassembleRoundTripConfirmedWithExtendedAddress(t *testing.T) {
	t.Parallel()
	ext := data.ExtendedAddress{Confirmed: true, SourceLLID: 0x00FEED}
	userData := make([]byte, 24) // 4 ext + 24 user = 28, plus the 4-byte CRC-32 fills exactly two confirmed blocks

	header := data.DataHeader{Format: data.FormatConfirmed, BlocksToFollow: 2}
	require.Equal(t, 28, header.PacketLength())

	var blocks [][]byte
	asm := data.NewAssembler()
	asm.SetBlockWriter(func(_ any, index int, block []byte, _ bool) {
		if index > 0 {
			blocks = append(blocks, append([]byte{}, block...))
		}
	})
	asm.Assemble(header, &ext, nil, userData, nil, nil)
	require.Len(t, blocks, 2)

	dis := data.NewDisassembler()
	dis.Disassemble(header.Encode(), true)
	dis.Disassemble(blocks[0], false)
	progress := dis.Disassemble(blocks[1], false)
	require.Equal(t, data.Complete, progress)

	got, crcValid := dis.Result()
	require.True(t, crcValid)
	require.Len(t, got, 28)
	assert.Equal(t, ext, data.DecodeExtendedAddress(got[:4], true))
	assert.Equal(t, userData, got[4:])
}

func TestRetryStateCeilingThenUndeliverable(t *testing.T) {
	t.Parallel()
	r := data.NewRetryState()
	r.Sent([]byte{9, 8, 7})
	_, ok := r.AckRetry()
	require.True(t, ok)
	_, ok = r.AckRetry()
	require.True(t, ok)
	_, ok = r.AckRetry()
	assert.False(t, ok)
}
