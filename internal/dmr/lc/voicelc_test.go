// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package lc_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/dmr/lc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceLCRoundTrip(t *testing.T) {
	t.Parallel()
	v := lc.VoiceLC{
		FLCO: lc.FLCOGroupVoice, FID: 0x10, Emergency: true, Privacy: false,
		Broadcast: false, Priority: 0x2, DestID: 0x00ABCD, SourceID: 0x00EF01,
	}
	got, ok := lc.DecodeVoiceLC(v.Encode())
	require.True(t, ok)
	assert.Equal(t, v, got)
}

func TestVoiceLCCorrectsSingleBitError(t *testing.T) {
	t.Parallel()
	v := lc.VoiceLC{FLCO: lc.FLCOUnitToUnitVoice, FID: 0x00, SourceID: 111, DestID: 222}
	air := v.Encode()
	air[50] ^= 1

	got, ok := lc.DecodeVoiceLC(air)
	require.True(t, ok)
	assert.Equal(t, v, got)
}
