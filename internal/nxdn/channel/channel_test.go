// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package channel_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/nxdn/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLICHRoundTrip(t *testing.T) {
	t.Parallel()
	l := channel.LICH{RFChannelType: 0x2, FunctionType: 0x1, Option: 0x3, Outbound: true}
	assert.Equal(t, l, channel.DecodeLICH(l.Encode()))
}

func TestSACCHRoundTripAndCorrection(t *testing.T) {
	t.Parallel()
	s := channel.SACCH{RAN: 0x15, Structure: 0x2, Data: 0xA}
	codeword := s.Encode()
	got, ok := channel.DecodeSACCH(codeword)
	require.True(t, ok)
	assert.Equal(t, s, got)

	corrupted := append([]byte{}, codeword...)
	corrupted[3] ^= 1
	recovered, ok := channel.DecodeSACCH(corrupted)
	require.True(t, ok)
	assert.Equal(t, s, recovered)
}

func TestFACCH1RoundTrip(t *testing.T) {
	t.Parallel()
	f := channel.FACCH1{Opcode: 0x09, Arg: 0x3F}
	got, ok := channel.DecodeFACCH1(f.Encode())
	require.True(t, ok)
	assert.Equal(t, f, got)
}
