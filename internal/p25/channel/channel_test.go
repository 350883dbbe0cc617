// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package channel_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/p25/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTSBKRoundTrip(t *testing.T) {
	t.Parallel()
	tsbk := channel.TSBK{LastBlock: true, Protected: false, Opcode: 0x3D, MFID: 0x90, Data: 0xABCDEF0123456789}
	got, ok := channel.DecodeTSBK(tsbk.Encode())
	require.True(t, ok)
	assert.Equal(t, tsbk, got)
}

func TestTSBKToleratesChannelErrors(t *testing.T) {
	t.Parallel()
	tsbk := channel.TSBK{LastBlock: false, Protected: true, Opcode: 0x01, MFID: 0x00, Data: 42}
	coded := tsbk.Encode()
	coded[10] ^= 1
	got, ok := channel.DecodeTSBK(coded)
	require.True(t, ok)
	assert.Equal(t, tsbk, got)
}

func TestTDULCRoundTrip(t *testing.T) {
	t.Parallel()
	lc := channel.TDULC{LCO: 0x0F, MFID: 0x90, Args: 0x11223344556677}
	got, ok := channel.DecodeTDULC(lc.Encode())
	require.True(t, ok)
	assert.Equal(t, lc, got)
}

func TestTDULCCorrectsChannelErrors(t *testing.T) {
	t.Parallel()
	lc := channel.TDULC{LCO: 0x01, MFID: 0x00, Args: 42}
	coded := lc.Encode()
	coded[20] ^= 1
	got, ok := channel.DecodeTDULC(coded)
	require.True(t, ok)
	assert.Equal(t, lc, got)
}
