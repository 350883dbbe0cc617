// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package fne

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/google/uuid"
)

const max32Bit = 1 << 32

// randomSalt draws a uniformly random 32-bit challenge salt, the same
// crypto/rand-backed construction the teacher's RPTL handler uses
// (internal/dmr/servers/hbrp/packet_handlers.go's handleRPTLPacket).
func randomSalt() uint32 {
	n, err := rand.Int(rand.Reader, big.NewInt(max32Bit))
	if err != nil {
		return 0
	}
	return uint32(n.Uint64())
}

// BeginLogin handles step 1 of the handshake (RPTL: peer -> FNE): it
// issues a fresh salt, assigns a new SessionID, and moves the
// connection to WAITING_AUTH for the step-2 challenge response. A peer
// not present in the configured peer list should never reach this
// call; the caller is expected to have already produced a MSTNAK
// instead.
func (p *PeerConnection) BeginLogin() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Salt = randomSalt()
	p.SessionID = uuid.NewString()
	p.State = StateWaitingAuth
	return p.Salt
}

// VerifyAuth handles step 3 of the handshake (RPTK: peer -> FNE): it
// recomputes SHA-256(salt ∥ password) and compares it against the
// peer-supplied hash. Unlike the teacher's HBRP handler, which
// truncates the comparison to the hash's leading 4 bytes (an
// artifact of DMRHub's RPTACK-salt-only legacy compatibility path),
// this compares the full 32-byte digest per spec.md §6 step 3.
// On success the connection moves to WAITING_CONFIG; on failure it
// reverts to INVALID and the caller must respond with MSTNAK.
func (p *PeerConnection) VerifyAuth(password string, receivedHash [32]byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.State != StateWaitingAuth {
		return false
	}

	var saltBytes [4]byte
	binary.BigEndian.PutUint32(saltBytes[:], p.Salt)
	want := sha256.Sum256(append(saltBytes[:], []byte(password)...))

	if want != receivedHash {
		p.State = StateInvalid
		return false
	}
	p.State = StateWaitingConfig
	return true
}

// ConfigureRunning handles step 5 of the handshake (RPTC: peer ->
// FNE): it stores the peer's JSON configuration blob and moves the
// connection to RUNNING.
func (p *PeerConnection) ConfigureRunning(configJSON []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.State != StateWaitingConfig {
		return false
	}
	p.Configuration = append([]byte{}, configJSON...)
	p.State = StateRunning
	return true
}
