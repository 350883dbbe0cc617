// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package channel_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/dmr/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotTypeRoundTrip(t *testing.T) {
	t.Parallel()
	s := channel.SlotType{ColourCode: 0x3, DataType: 0x9}
	got, ok := channel.DecodeSlotType(s.Encode())
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestSlotTypeCorrectsSingleBitError(t *testing.T) {
	t.Parallel()
	s := channel.SlotType{ColourCode: 0x1, DataType: 0xA}
	codeword := s.Encode() ^ (1 << 5)
	got, ok := channel.DecodeSlotType(codeword)
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestSlotTypeHalvesRoundTrip(t *testing.T) {
	t.Parallel()
	s := channel.SlotType{ColourCode: 0x5, DataType: 0x2}
	first, second := s.EncodeHalves()
	got, ok := channel.DecodeSlotTypeHalves(first, second)
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestEMBRoundTrip(t *testing.T) {
	t.Parallel()
	e := channel.EMB{ColourCode: 0x7, PI: true, LCSS: 0x2}
	got, ok := channel.DecodeEMB(e.Encode())
	require.True(t, ok)
	assert.Equal(t, e, got)
}

// TestCSBKRoundTripToleratesSingleBitError exercises spec scenario E:
// a CSBK with CSBKO=RAND, FID=0x00, last-block set, BPTC+masked-CRC
// framed, must survive a single bit corruption anywhere in the air
// burst.
func TestCSBKRoundTripToleratesSingleBitError(t *testing.T) {
	t.Parallel()
	c := channel.CSBK{LastBlock: true, CSBKO: channel.CSBKORand, FID: 0x00, Data: 0x0123456789ABCDEF & ((1 << 64) - 1)}
	air := c.Encode()

	clean, ok := channel.DecodeCSBK(air)
	require.True(t, ok)
	assert.Equal(t, c, clean)

	corrupted := air
	corrupted[42] ^= 1
	recovered, ok := channel.DecodeCSBK(corrupted)
	require.True(t, ok)
	assert.Equal(t, c, recovered)
}

func TestDecodeCSBKFailsOnHeavyCorruption(t *testing.T) {
	t.Parallel()
	c := channel.CSBK{LastBlock: false, CSBKO: channel.CSBKORand, FID: 0x01, Data: 7}
	air := c.Encode()
	// Corrupt every other bit - far beyond what BPTC's row/column
	// Hamming codes (1-bit correcting each) or the trailing CRC check
	// can let through as the original frame.
	for i := 0; i < len(air); i += 2 {
		air[i] ^= 1
	}
	_, ok := channel.DecodeCSBK(air)
	assert.False(t, ok)
}
