// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package sndcp_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/sndcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextFullLifecycle(t *testing.T) {
	t.Parallel()
	c := sndcp.NewContext(42)
	assert.Equal(t, sndcp.Closed, c.State())

	c.Initialize()
	assert.Equal(t, sndcp.Idle, c.State())

	require.True(t, c.GrantChannel(0))
	assert.Equal(t, sndcp.ReadyS, c.State())

	require.True(t, c.Activate(1_000_000))
	assert.Equal(t, sndcp.Standby, c.State())

	c.DataActivity()
	assert.Equal(t, sndcp.Ready, c.State())

	c.DataIdle(2_000_000)
	assert.Equal(t, sndcp.Standby, c.State())

	c.Deactivate()
	assert.Equal(t, sndcp.Closed, c.State())
}

func TestContextReadyTimeoutRevertsToIdle(t *testing.T) {
	t.Parallel()
	c := sndcp.NewContext(1)
	c.Initialize()
	c.GrantChannel(0)

	assert.Equal(t, sndcp.NoExpiry, c.CheckTimers(sndcp.ReadyTimeout-1))
	assert.Equal(t, sndcp.ReadyS, c.State())

	assert.Equal(t, sndcp.ReadyExpired, c.CheckTimers(sndcp.ReadyTimeout))
	assert.Equal(t, sndcp.Idle, c.State())
}

func TestContextStandbyTimeoutClosesContext(t *testing.T) {
	t.Parallel()
	c := sndcp.NewContext(1)
	c.Initialize()
	c.GrantChannel(0)
	c.Activate(0)

	assert.Equal(t, sndcp.StandbyExpired, c.CheckTimers(sndcp.StandbyTimeout))
	assert.Equal(t, sndcp.Closed, c.State())
}

func TestContextDataActivityStopsStandbyTimer(t *testing.T) {
	t.Parallel()
	c := sndcp.NewContext(1)
	c.Initialize()
	c.GrantChannel(0)
	c.Activate(0)

	c.DataActivity()
	// The context is READY; the standby deadline should no longer
	// fire even well past the original timeout.
	assert.Equal(t, sndcp.NoExpiry, c.CheckTimers(sndcp.StandbyTimeout*10))
	assert.Equal(t, sndcp.Ready, c.State())
}

func TestInvalidTransitionsAreRejected(t *testing.T) {
	t.Parallel()
	c := sndcp.NewContext(1)
	assert.False(t, c.GrantChannel(0), "CLOSED must not accept a channel grant")

	c.Initialize()
	assert.False(t, c.Activate(0), "IDLE must not accept an activation request")
}

func TestTableGetOrCreateInitializes(t *testing.T) {
	t.Parallel()
	table := sndcp.NewTable()
	c := table.GetOrCreate(7)
	assert.Equal(t, sndcp.Idle, c.State())

	same := table.GetOrCreate(7)
	assert.Same(t, c, same)
}

func TestTableCheckAllTimersInvokesCallbackPerExpiry(t *testing.T) {
	t.Parallel()
	table := sndcp.NewTable()
	a := table.GetOrCreate(1)
	a.GrantChannel(0)
	b := table.GetOrCreate(2)
	b.GrantChannel(0)
	b.Activate(0)

	var expired []uint32
	table.CheckAllTimers(sndcp.StandbyTimeout, func(llID uint32, c *sndcp.Context, exp sndcp.Expiry) {
		expired = append(expired, llID)
	})

	assert.ElementsMatch(t, []uint32{1, 2}, expired)
}

func TestParsePacketRoundTripsEachVariant(t *testing.T) {
	t.Parallel()

	cases := []sndcp.Packet{
		sndcp.ActivateRequest{NSAPI: 5, NAT: sndcp.NATIPV4Dynamic, IPAddress: 0x0A0A010A, DSUT: 1, MDPCO: 2},
		sndcp.ActivateAccept{
			NSAPI: 5, NAT: sndcp.NATIPV4Dynamic, IPAddress: 0x0A0A010A,
			ReadyTimerSeconds: 10, StandbyTimerSeconds: 60, MTU: 510, MDPCO: 2,
		},
		sndcp.ActivateReject{NSAPI: 5, RejectCode: sndcp.RejectDynamicIPUnsupported},
		sndcp.Deactivate{NSAPI: 5, DeactType: 1},
	}

	for _, want := range cases {
		got, ok := sndcp.ParsePacket(sndcp.Encode(want))
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestParsePacketRejectsShortBody(t *testing.T) {
	t.Parallel()
	_, ok := sndcp.ParsePacket([]byte{byte(sndcp.ActivateTDSContext) << 2, 0x00})
	assert.False(t, ok)
}

func TestParsePacketRejectsEmptyInput(t *testing.T) {
	t.Parallel()
	_, ok := sndcp.ParsePacket(nil)
	assert.False(t, ok)
}

func TestTableRemoveDiscardsContext(t *testing.T) {
	t.Parallel()
	table := sndcp.NewTable()
	table.GetOrCreate(5)
	table.Remove(5)

	_, ok := table.Get(5)
	assert.False(t, ok)
}
