// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package fne

import "sync"

// PeerTable is the FNE's connected-peer registry, protected by its own
// mutex per spec.md §5's shared-resource policy (distinct from the
// peer-list table's read-many/exclusive-write discipline).
type PeerTable struct {
	mu    sync.Mutex
	peers map[uint32]*PeerConnection
}

// NewPeerTable returns an empty PeerTable.
func NewPeerTable() *PeerTable {
	return &PeerTable{peers: make(map[uint32]*PeerConnection)}
}

// GetOrCreate returns peerID's connection record, creating a fresh
// WAITING_LOGIN one if this is its first RPTL.
func (t *PeerTable) GetOrCreate(peerID uint32, address string, port int) *PeerConnection {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.peers[peerID]; ok {
		return p
	}
	p := NewPeerConnection(peerID, address, port)
	t.peers[peerID] = p
	return p
}

// Get returns peerID's connection record, if any.
func (t *PeerTable) Get(peerID uint32) (*PeerConnection, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.peers[peerID]
	return p, ok
}

// Remove tears down and removes peerID's connection record.
func (t *PeerTable) Remove(peerID uint32) {
	t.mu.Lock()
	p, ok := t.peers[peerID]
	t.mu.Unlock()
	if !ok {
		return
	}
	p.Disconnect()

	t.mu.Lock()
	delete(t.peers, peerID)
	t.mu.Unlock()
}

// Count reports how many peers are currently registered.
func (t *PeerTable) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.peers)
}

// SweepMissedPings calls fn for every registered peer that hasn't
// pinged within timeoutMicros of nowMicros, the periodic scan
// spec.md §5's "Cancellation and timeouts" describes. fn is typically
// Remove or a caller-supplied teardown-and-log callback.
func (t *PeerTable) SweepMissedPings(nowMicros, timeoutMicros int64, fn func(*PeerConnection)) {
	t.mu.Lock()
	stale := make([]*PeerConnection, 0)
	for _, p := range t.peers {
		if p.MissedPingTimeout(nowMicros, timeoutMicros) {
			stale = append(stale, p)
		}
	}
	t.mu.Unlock()

	for _, p := range stale {
		fn(p)
	}
}
