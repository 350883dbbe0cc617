// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package fne

import (
	"sync"

	"github.com/dvmhub/dvmcore/internal/jitter"
	"github.com/google/uuid"
)

// ConnectionState tracks a peer's progress through the login
// handshake. WaitingConfig is an intermediate state the spec's
// enumeration elides with "…" between WAITING_AUTH and RUNNING.
type ConnectionState int

const (
	StateInvalid ConnectionState = iota
	StateWaitingLogin
	StateWaitingAuth
	StateWaitingConfig
	StateRunning
	StateDisconnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateWaitingLogin:
		return "WAITING_LOGIN"
	case StateWaitingAuth:
		return "WAITING_AUTH"
	case StateWaitingConfig:
		return "WAITING_CONFIG"
	case StateRunning:
		return "RUNNING"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return "INVALID"
	}
}

// Flags are the peer-connection role markers spec.md §3 lists:
// replica, neighbor-FNE, conventional, sysview.
type Flags struct {
	Replica      bool
	NeighborFNE  bool
	Conventional bool
	SysView      bool
}

// PeerConnection is the FNE's record of one connected peer: identity,
// address, handshake/connection state, and the jitter buffers it owns
// per active stream. Owned exclusively by the FNE; its lifetime ends
// on explicit teardown, auth NAK, or missed-ping timeout.
type PeerConnection struct {
	mu sync.Mutex

	PeerID         uint32
	MasterID       uint32
	Identity       string
	Address        string
	Port           int
	State          ConnectionState
	Salt           uint32
	LastPingMicros int64
	Flags          Flags
	Configuration  []byte // raw JSON blob from RPTC

	// SessionID correlates every log line and jitter-buffer stream this
	// connection owns across its single RPTL-to-teardown lifetime,
	// distinguishing a reconnecting peer's new session from a prior one
	// that reused the same PeerID.
	SessionID string

	jitterBuffers map[uint32]*jitter.AdaptiveJitterBuffer
	pduSessions   map[uint32]*pduSession
}

// NewPeerConnection returns a connection record in WAITING_LOGIN,
// the state it's in the instant an RPTL arrives.
func NewPeerConnection(peerID uint32, address string, port int) *PeerConnection {
	return &PeerConnection{
		PeerID:        peerID,
		Address:       address,
		Port:          port,
		State:         StateWaitingLogin,
		jitterBuffers: make(map[uint32]*jitter.AdaptiveJitterBuffer),
		pduSessions:   make(map[uint32]*pduSession),
	}
}

// CurrentState reports this connection's state.
func (p *PeerConnection) CurrentState() ConnectionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.State
}

// Touch records a keepalive/ping arrival.
func (p *PeerConnection) Touch(nowMicros int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.LastPingMicros = nowMicros
}

// MissedPingTimeout reports whether this peer hasn't pinged within
// timeoutMicros of nowMicros.
func (p *PeerConnection) MissedPingTimeout(nowMicros, timeoutMicros int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return nowMicros-p.LastPingMicros > timeoutMicros
}

// JitterBuffer returns this connection's jitter buffer for streamID,
// creating it with the given tunables on first use.
func (p *PeerConnection) JitterBuffer(streamID uint32, maxBufferSize int, maxWaitMicros int64) *jitter.AdaptiveJitterBuffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if b, ok := p.jitterBuffers[streamID]; ok {
		return b
	}
	b := jitter.New(maxBufferSize, maxWaitMicros)
	p.jitterBuffers[streamID] = b
	return b
}

// RemoveJitterBuffer drops streamID's jitter buffer once its call ends.
func (p *PeerConnection) RemoveJitterBuffer(streamID uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.jitterBuffers, streamID)
}

// StreamCount reports how many streams currently have a jitter buffer.
func (p *PeerConnection) StreamCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jitterBuffers)
}

// PDUSession returns this connection's PDU reassembly session for
// streamID, creating it with the given protocol's disassembler on
// first use.
func (p *PeerConnection) PDUSession(streamID uint32, protocol PDUProtocol) *pduSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.pduSessions[streamID]; ok {
		return s
	}
	s := newPDUSession(protocol)
	p.pduSessions[streamID] = s
	return s
}

// RemovePDUSession drops streamID's PDU reassembly session once its
// packet completes or fails irrecoverably.
func (p *PeerConnection) RemovePDUSession(streamID uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pduSessions, streamID)
}

// PDUSessionCount reports how many streams currently have a PDU
// reassembly session in progress.
func (p *PeerConnection) PDUSessionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pduSessions)
}

// Disconnect tears this connection down: state moves to DISCONNECTED
// and all jitter buffers and PDU sessions are released.
func (p *PeerConnection) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.State = StateDisconnected
	p.jitterBuffers = make(map[uint32]*jitter.AdaptiveJitterBuffer)
	p.pduSessions = make(map[uint32]*pduSession)
}

// IdentityQualifier returns this peer's log-line identity marker:
// "@name" for a sysview peer, "%name" for a replica, "+name" for a
// neighbor FNE, else a plain space-prefixed name.
func (p *PeerConnection) IdentityQualifier() string {
	switch {
	case p.Flags.SysView:
		return "@" + p.Identity
	case p.Flags.Replica:
		return "%" + p.Identity
	case p.Flags.NeighborFNE:
		return "+" + p.Identity
	default:
		return " " + p.Identity
	}
}
