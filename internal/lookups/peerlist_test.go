// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package lookups_test

import (
	"path/filepath"
	"testing"

	"github.com/dvmhub/dvmcore/internal/lookups"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerListLookupPersistenceRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "peers.list")

	table := lookups.New(path, 0, true)
	table.AddEntry(lookups.PeerEntry{
		ID:                  310100,
		Password:            "",
		PeerReplica:         false,
		Alias:               "W1AW-REPEATER",
		CanRequestKeys:      true,
		CanIssueInhibit:     false,
		HasCallPriority:     true,
		JitterBufferEnabled: true,
		JitterBufferMaxSize: 6,
		JitterBufferMaxWait: 50000,
	})
	table.AddEntry(lookups.PeerEntry{
		ID:       310101,
		Password: "overridden",
	})
	require.NoError(t, table.Save())

	reloaded := lookups.New(path, 0, true)
	require.NoError(t, reloaded.Load())

	got := reloaded.Find(310100)
	assert.Equal(t, "", got.Password, "empty password must round-trip as the inherit sentinel")
	assert.Equal(t, "W1AW-REPEATER", got.Alias)
	assert.True(t, got.CanRequestKeys)
	assert.True(t, got.HasCallPriority)
	assert.Equal(t, 6, got.JitterBufferMaxSize)
	assert.EqualValues(t, 50000, got.JitterBufferMaxWait)

	got2 := reloaded.Find(310101)
	assert.Equal(t, "overridden", got2.Password)
	assert.Equal(t, lookups.DefaultJitterMaxSize, got2.JitterBufferMaxSize, "omitted field falls back to default")
}

func TestFindReturnsDefaultOnMiss(t *testing.T) {
	t.Parallel()
	table := lookups.New(filepath.Join(t.TempDir(), "peers.list"), 0, true)

	got := table.Find(999)
	assert.Zero(t, got.ID)
	assert.False(t, table.IsPeerInList(999))
}

func TestIsPeerAllowedRespectsEnforcement(t *testing.T) {
	t.Parallel()
	enforced := lookups.New(filepath.Join(t.TempDir(), "peers.list"), 0, true)
	assert.False(t, enforced.IsPeerAllowed(123), "unknown peer rejected when enforced")

	open := lookups.New(filepath.Join(t.TempDir(), "peers.list"), 0, false)
	assert.True(t, open.IsPeerAllowed(123), "any peer allowed when not enforced")
}
