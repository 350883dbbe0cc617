// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package lc_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/nxdn/lc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRTCHRoundTrip(t *testing.T) {
	t.Parallel()
	r := lc.RTCH{
		MessageType: lc.RTCHVCall, Group: true, Emergency: false,
		Encrypted: false, Priority: true, Duplex: true,
		TransmissionMode: lc.Mode4800, SourceID: 12345, DestID: 54321,
	}
	got, ok := lc.DecodeRTCH(r.Encode())
	require.True(t, ok)
	assert.Equal(t, r, got)
}

func TestRTCHPreservesAllMessageTypes(t *testing.T) {
	t.Parallel()
	types := []lc.MessageType{lc.RTCHVCall, lc.RTCHVCallIV, lc.RTCHTxRel, lc.RTCHTxRelEx, lc.RTCHDCallHdr, lc.RTCHDCallData}
	for _, mt := range types {
		r := lc.RTCH{MessageType: mt, SourceID: 1234, DestID: 5678}
		got, ok := lc.DecodeRTCH(r.Encode())
		require.True(t, ok)
		assert.Equal(t, mt, got.MessageType)
	}
}

func TestRTCHPreservesTransmissionMode(t *testing.T) {
	t.Parallel()
	for _, mode := range []lc.TransmissionMode{lc.Mode4800, lc.Mode9600} {
		r := lc.RTCH{MessageType: lc.RTCHVCall, SourceID: 100, DestID: 200, TransmissionMode: mode}
		got, ok := lc.DecodeRTCH(r.Encode())
		require.True(t, ok)
		assert.Equal(t, mode, got.TransmissionMode)
	}
}

func TestRTCHCorrectsSingleBitError(t *testing.T) {
	t.Parallel()
	r := lc.RTCH{MessageType: lc.RTCHVCall, SourceID: 999, DestID: 888, Emergency: true}
	coded := r.Encode()
	coded[3] ^= 0x08

	got, ok := lc.DecodeRTCH(coded)
	require.True(t, ok)
	assert.Equal(t, r, got)
}
