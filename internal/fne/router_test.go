// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package fne_test

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/dvmhub/dvmcore/internal/acl"
	"github.com/dvmhub/dvmcore/internal/fne"
	"github.com/dvmhub/dvmcore/internal/lookups"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, peerID uint32, password string) *fne.Router {
	t.Helper()
	peerList := lookups.New("", 0, false)
	peerList.AddEntry(lookups.PeerEntry{ID: peerID, Password: password})
	aclTable := acl.New(acl.Options{Enforced: false})
	return fne.NewRouter(fne.NewPeerTable(), peerList, aclTable, fne.MasterPassword("master-pw"))
}

func TestDispatchLoginFullSequence(t *testing.T) {
	t.Parallel()
	const peerID = uint32(9001)
	const password = "hunter2"
	r := newTestRouter(t, peerID, password)

	ackSalt := r.DispatchLogin(fne.BuildPacket(fne.CommandRPTL, peerID, nil), "10.0.0.1", 62031)
	cmd, gotPeerID, body, ok := fne.ParseCommand(ackSalt)
	require.True(t, ok)
	assert.Equal(t, fne.CommandRPTACK, cmd)
	assert.Equal(t, peerID, gotPeerID)
	require.Len(t, body, 4)

	salt := binary.BigEndian.Uint32(body)
	var saltBytes [4]byte
	binary.BigEndian.PutUint32(saltBytes[:], salt)
	hash := sha256.Sum256(append(saltBytes[:], []byte(password)...))

	ack := r.DispatchLogin(fne.BuildPacket(fne.CommandRPTK, peerID, hash[:]), "10.0.0.1", 62031)
	cmd, _, _, ok = fne.ParseCommand(ack)
	require.True(t, ok)
	assert.Equal(t, fne.CommandRPTACK, cmd)

	ack = r.DispatchLogin(fne.BuildPacket(fne.CommandRPTC, peerID, []byte(`{"callsign":"N0CALL"}`)), "10.0.0.1", 62031)
	cmd, _, _, ok = fne.ParseCommand(ack)
	require.True(t, ok)
	assert.Equal(t, fne.CommandRPTACK, cmd)

	peer, ok := r.Peers.Get(peerID)
	require.True(t, ok)
	assert.Equal(t, fne.StateRunning, peer.CurrentState())
}

func TestDispatchLoginRejectsUnknownPeer(t *testing.T) {
	t.Parallel()
	peerList := lookups.New("", 0, true) // ACL-enforced, empty table
	aclTable := acl.New(acl.Options{})
	r := fne.NewRouter(fne.NewPeerTable(), peerList, aclTable, fne.MasterPassword("x"))

	resp := r.DispatchLogin(fne.BuildPacket(fne.CommandRPTL, 555, nil), "10.0.0.1", 1)
	cmd, _, _, ok := fne.ParseCommand(resp)
	require.True(t, ok)
	assert.Equal(t, fne.CommandMSTNAK, cmd)
}

func TestDispatchLoginRejectsWrongHash(t *testing.T) {
	t.Parallel()
	const peerID = uint32(42)
	r := newTestRouter(t, peerID, "correct")

	r.DispatchLogin(fne.BuildPacket(fne.CommandRPTL, peerID, nil), "10.0.0.1", 1)
	resp := r.DispatchLogin(fne.BuildPacket(fne.CommandRPTK, peerID, make([]byte, 32)), "10.0.0.1", 1)
	cmd, _, _, ok := fne.ParseCommand(resp)
	require.True(t, ok)
	assert.Equal(t, fne.CommandMSTNAK, cmd)
}

func TestDispatchFrameRejectsNonRunningPeer(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, 1, "pw")
	r.Peers.GetOrCreate(1, "10.0.0.1", 1) // stays WAITING_LOGIN

	frame := fne.EncodeFrame(fne.FrameHeader{Tag: string(fne.TagVoice), PeerID: 1}, []byte{1})
	_, _, ok := r.DispatchFrame(frame, 100)
	assert.False(t, ok)
}

func TestDispatchFrameAcceptsRunningPeer(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, 2, "pw")
	ack := r.DispatchLogin(fne.BuildPacket(fne.CommandRPTL, 2, nil), "10.0.0.1", 1)
	_, _, saltBody, _ := fne.ParseCommand(ack)
	salt := binary.BigEndian.Uint32(saltBody)
	var saltBytes [4]byte
	binary.BigEndian.PutUint32(saltBytes[:], salt)
	hash := sha256.Sum256(append(saltBytes[:], []byte("pw")...))
	r.DispatchLogin(fne.BuildPacket(fne.CommandRPTK, 2, hash[:]), "10.0.0.1", 1)
	r.DispatchLogin(fne.BuildPacket(fne.CommandRPTC, 2, []byte(`{}`)), "10.0.0.1", 1)

	frame := fne.EncodeFrame(fne.FrameHeader{Tag: string(fne.TagPDU), PeerID: 2}, []byte{9, 9})
	header, body, ok := r.DispatchFrame(frame, 0)
	require.True(t, ok)
	assert.Equal(t, uint32(2), header.PeerID)
	assert.Equal(t, []byte{9, 9}, body)
}

func TestDispatchFrameEnforcesACLOnVoice(t *testing.T) {
	t.Parallel()
	peerList := lookups.New("", 0, false)
	peerList.AddEntry(lookups.PeerEntry{ID: 3, Password: "pw"})
	aclTable := acl.New(acl.Options{Enforced: true})
	aclTable.SetRadioID(acl.RadioIDEntry{ID: 777, Enabled: true})
	r := fne.NewRouter(fne.NewPeerTable(), peerList, aclTable, fne.MasterPassword("pw"))

	ack := r.DispatchLogin(fne.BuildPacket(fne.CommandRPTL, 3, nil), "10.0.0.1", 1)
	_, _, saltBody, _ := fne.ParseCommand(ack)
	salt := binary.BigEndian.Uint32(saltBody)
	var saltBytes [4]byte
	binary.BigEndian.PutUint32(saltBytes[:], salt)
	hash := sha256.Sum256(append(saltBytes[:], []byte("pw")...))
	r.DispatchLogin(fne.BuildPacket(fne.CommandRPTK, 3, hash[:]), "10.0.0.1", 1)
	r.DispatchLogin(fne.BuildPacket(fne.CommandRPTC, 3, []byte(`{}`)), "10.0.0.1", 1)

	frame := fne.EncodeFrame(fne.FrameHeader{Tag: string(fne.TagVoice), PeerID: 3}, []byte{1})

	_, _, ok := r.DispatchFrame(frame, 999) // not in the radio ID table
	assert.False(t, ok)

	_, _, ok = r.DispatchFrame(frame, 777) // allowed radio ID
	assert.True(t, ok)
}

func TestDispatchFrameRejectsReplicationFromOrdinaryPeer(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, 4, "pw")
	ack := r.DispatchLogin(fne.BuildPacket(fne.CommandRPTL, 4, nil), "10.0.0.1", 1)
	_, _, saltBody, _ := fne.ParseCommand(ack)
	salt := binary.BigEndian.Uint32(saltBody)
	var saltBytes [4]byte
	binary.BigEndian.PutUint32(saltBytes[:], salt)
	hash := sha256.Sum256(append(saltBytes[:], []byte("pw")...))
	r.DispatchLogin(fne.BuildPacket(fne.CommandRPTK, 4, hash[:]), "10.0.0.1", 1)
	r.DispatchLogin(fne.BuildPacket(fne.CommandRPTC, 4, []byte(`{}`)), "10.0.0.1", 1)

	frame := fne.EncodeFrame(fne.FrameHeader{Tag: string(fne.TagSpanningTreeUpdate), PeerID: 4}, []byte(`[]`))
	_, _, ok := r.DispatchFrame(frame, 0)
	assert.False(t, ok)
}

func TestDispatchFrameAcceptsReplicationFromNeighborFNE(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, 5, "pw")
	ack := r.DispatchLogin(fne.BuildPacket(fne.CommandRPTL, 5, nil), "10.0.0.1", 1)
	_, _, saltBody, _ := fne.ParseCommand(ack)
	salt := binary.BigEndian.Uint32(saltBody)
	var saltBytes [4]byte
	binary.BigEndian.PutUint32(saltBytes[:], salt)
	hash := sha256.Sum256(append(saltBytes[:], []byte("pw")...))
	r.DispatchLogin(fne.BuildPacket(fne.CommandRPTK, 5, hash[:]), "10.0.0.1", 1)
	r.DispatchLogin(fne.BuildPacket(fne.CommandRPTC, 5, []byte(`{}`)), "10.0.0.1", 1)

	peer, ok := r.Peers.Get(5)
	require.True(t, ok)
	peer.Flags.NeighborFNE = true

	frame := fne.EncodeFrame(fne.FrameHeader{Tag: string(fne.TagSpanningTreeUpdate), PeerID: 5}, []byte(`[]`))
	_, body, ok := r.DispatchFrame(frame, 0)
	require.True(t, ok)
	assert.Equal(t, []byte(`[]`), body)
}

func TestRouteVoiceFrameCreatesJitterBufferOnFirstUse(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, 1, "pw")
	peer := r.Peers.GetOrCreate(1, "10.0.0.1", 1)
	assert.Equal(t, 0, peer.StreamCount())

	header := fne.FrameHeader{Tag: string(fne.TagVoice), PeerID: 1, StreamIndex: 4}
	_, ok := r.RouteVoiceFrame(header, 1, []byte{1, 2, 3}, 1_000_000)
	require.True(t, ok)
	assert.Equal(t, 1, peer.StreamCount())
}
