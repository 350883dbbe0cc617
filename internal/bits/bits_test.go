// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package bits_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/bits"
	"github.com/stretchr/testify/assert"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	t.Parallel()
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	assert.Equal(t, data, bits.Pack(bits.Unpack(data)))
}

func TestFromUintToUintRoundTrip(t *testing.T) {
	t.Parallel()
	v := uint64(0x2F62)
	assert.Equal(t, v, bits.ToUint(bits.FromUint(v, 16)))
}

func TestFromUintTruncatesToWidth(t *testing.T) {
	t.Parallel()
	out := bits.FromUint(0x3F, 6)
	assert.Len(t, out, 6)
	assert.Equal(t, uint64(0x3F), bits.ToUint(out))
}
