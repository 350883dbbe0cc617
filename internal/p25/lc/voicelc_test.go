// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package lc_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/p25/channel"
	"github.com/dvmhub/dvmcore/internal/p25/lc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceLCTDULCRoundTrip(t *testing.T) {
	t.Parallel()
	v := lc.VoiceLC{
		LCO: lc.LCOGroupVoice, MFID: 0x90, Emergency: true, Encrypted: false,
		Priority: 0x4, SourceID: 0x00ABCD, DestID: 0x001234,
	}
	tdulc := v.ToTDULC()
	got := lc.FromTDULC(tdulc)
	assert.Equal(t, v, got)
}

func TestVoiceLCSurvivesTDULCAirRoundTrip(t *testing.T) {
	t.Parallel()
	v := lc.VoiceLC{LCO: lc.LCOUnitToUnitVoice, MFID: 0x00, SourceID: 111, DestID: 222, Priority: 0x7}

	coded := v.ToTDULC().Encode()
	decoded, ok := channel.DecodeTDULC(coded)
	require.True(t, ok)
	assert.Equal(t, v, lc.FromTDULC(decoded))
}
