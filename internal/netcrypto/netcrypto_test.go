// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package netcrypto_test

import (
	"bytes"
	"testing"

	"github.com/dvmhub/dvmcore/internal/netcrypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = bytes.Repeat([]byte{0x42}, 32)

func TestWrapUnwrapRoundTrip(t *testing.T) {
	t.Parallel()
	payload := []byte("RPTL310100")

	wrapped, err := netcrypto.Wrap(testKey, payload)
	require.NoError(t, err)
	assert.Len(t, wrapped, 2+((2+len(payload)+15)/16)*16)

	got, err := netcrypto.Unwrap(testKey, wrapped)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestUnwrapRejectsBadMagic(t *testing.T) {
	t.Parallel()
	wrapped, err := netcrypto.Wrap(testKey, []byte("hello"))
	require.NoError(t, err)
	wrapped[0] ^= 0xFF

	_, err = netcrypto.Unwrap(testKey, wrapped)
	assert.ErrorIs(t, err, netcrypto.ErrBadMagic)
}

func TestUnwrapRejectsShortDatagram(t *testing.T) {
	t.Parallel()
	_, err := netcrypto.Unwrap(testKey, []byte{0xC8, 0xA2})
	assert.ErrorIs(t, err, netcrypto.ErrShortDatagram)
}

func TestSendQueueBatchesPerAddress(t *testing.T) {
	t.Parallel()
	sq := netcrypto.NewSendQueue()

	require.NoError(t, sq.Enqueue("10.0.0.1:62031", testKey, []byte("a")))
	require.NoError(t, sq.Enqueue("10.0.0.1:62031", testKey, []byte("b")))
	require.NoError(t, sq.Enqueue("10.0.0.2:62031", testKey, []byte("c")))

	batch1 := sq.DrainBatch("10.0.0.1:62031")
	assert.Len(t, batch1, 2)

	batch2 := sq.DrainBatch("10.0.0.1:62031")
	assert.Empty(t, batch2, "drain must empty the batch")

	batch3 := sq.DrainBatch("10.0.0.2:62031")
	assert.Len(t, batch3, 1)
}
