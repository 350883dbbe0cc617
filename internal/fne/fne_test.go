// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package fne_test

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/dvmhub/dvmcore/internal/fne"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHandshakeFullSequence(t *testing.T) {
	t.Parallel()
	table := fne.NewPeerTable()
	const peerID = uint32(312000)
	const password = "s3cr3t"

	// Step 1: RPTL -> FNE creates the connection and issues a salt.
	peer := table.GetOrCreate(peerID, "10.0.0.5", 62031)
	assert.Equal(t, fne.StateWaitingLogin, peer.CurrentState())
	assert.Empty(t, peer.SessionID)
	salt := peer.BeginLogin()
	assert.Equal(t, fne.StateWaitingAuth, peer.CurrentState())
	assert.NotEmpty(t, peer.SessionID)

	// Step 3: RPTK -> FNE verifies SHA-256(salt || password).
	var saltBytes [4]byte
	binary.BigEndian.PutUint32(saltBytes[:], salt)
	hash := sha256.Sum256(append(saltBytes[:], []byte(password)...))
	ok := peer.VerifyAuth(password, hash)
	require.True(t, ok)
	assert.Equal(t, fne.StateWaitingConfig, peer.CurrentState())

	// Step 5: RPTC -> FNE stores config and enters RUNNING.
	ok = peer.ConfigureRunning([]byte(`{"callsign":"N0CALL"}`))
	require.True(t, ok)
	assert.Equal(t, fne.StateRunning, peer.CurrentState())
}

func TestLoginHandshakeRejectsWrongPassword(t *testing.T) {
	t.Parallel()
	peer := fne.NewPeerConnection(1, "127.0.0.1", 62031)
	salt := peer.BeginLogin()

	var saltBytes [4]byte
	binary.BigEndian.PutUint32(saltBytes[:], salt)
	wrongHash := sha256.Sum256(append(saltBytes[:], []byte("wrong-password")...))

	ok := peer.VerifyAuth("correct-password", wrongHash)
	assert.False(t, ok)
	assert.Equal(t, fne.StateInvalid, peer.CurrentState())
}

func TestBeginLoginAssignsFreshSessionIDOnReconnect(t *testing.T) {
	t.Parallel()
	peer := fne.NewPeerConnection(1, "127.0.0.1", 62031)
	peer.BeginLogin()
	first := peer.SessionID
	require.NotEmpty(t, first)

	peer.BeginLogin()
	assert.NotEqual(t, first, peer.SessionID)
}

func TestConfigureRunningRequiresWaitingConfig(t *testing.T) {
	t.Parallel()
	peer := fne.NewPeerConnection(1, "127.0.0.1", 62031)
	ok := peer.ConfigureRunning([]byte(`{}`))
	assert.False(t, ok, "RPTC before RPTL/RPTK must not jump straight to RUNNING")
}

func TestPeerTableSweepMissedPings(t *testing.T) {
	t.Parallel()
	table := fne.NewPeerTable()
	peer := table.GetOrCreate(99, "127.0.0.1", 1)
	peer.Touch(0)

	var swept []uint32
	table.SweepMissedPings(10_000_000, 5_000_000, func(p *fne.PeerConnection) {
		swept = append(swept, p.PeerID)
	})
	require.Len(t, swept, 1)
	assert.Equal(t, uint32(99), swept[0])
}

func TestJitterBufferPerStreamLifecycle(t *testing.T) {
	t.Parallel()
	peer := fne.NewPeerConnection(1, "127.0.0.1", 1)
	assert.Equal(t, 0, peer.StreamCount())

	peer.JitterBuffer(7, 4, 40_000)
	assert.Equal(t, 1, peer.StreamCount())

	peer.RemoveJitterBuffer(7)
	assert.Equal(t, 0, peer.StreamCount())
}

func TestIdentityQualifier(t *testing.T) {
	t.Parallel()
	cases := []struct {
		flags fne.Flags
		want  string
	}{
		{fne.Flags{SysView: true}, "@node1"},
		{fne.Flags{Replica: true}, "%node1"},
		{fne.Flags{NeighborFNE: true}, "+node1"},
		{fne.Flags{}, " node1"},
	}
	for _, c := range cases {
		peer := fne.NewPeerConnection(1, "127.0.0.1", 1)
		peer.Identity = "node1"
		peer.Flags = c.flags
		assert.Equal(t, c.want, peer.IdentityQualifier())
	}
}

func TestParseCommandMatchesLongestTag(t *testing.T) {
	t.Parallel()
	pkt := fne.BuildPacket(fne.CommandRPTPING, 555, []byte{0x01})
	cmd, peerID, body, ok := fne.ParseCommand(pkt)
	require.True(t, ok)
	assert.Equal(t, fne.CommandRPTPING, cmd)
	assert.Equal(t, uint32(555), peerID)
	assert.Equal(t, []byte{0x01}, body)
}

func TestFrameHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	h := fne.FrameHeader{Tag: "DVMD", Sequence: 7, StreamIndex: 2, PeerID: 424242}
	body := []byte{1, 2, 3, 4}
	got, gotBody, ok := fne.DecodeFrame(fne.EncodeFrame(h, body))
	require.True(t, ok)
	assert.Equal(t, h, got)
	assert.Equal(t, body, gotBody)
}
