// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package fne

import (
	"crypto/sha256"
	"encoding/binary"
	"log/slog"
	"time"

	"github.com/dvmhub/dvmcore/internal/acl"
	"github.com/dvmhub/dvmcore/internal/jitter"
	"github.com/dvmhub/dvmcore/internal/logging"
	"github.com/dvmhub/dvmcore/internal/lookups"
	"github.com/dvmhub/dvmcore/internal/metrics"
)

// MasterPassword is the FNE-wide login password used when a peer-list
// row leaves its Password field empty (spec.md's "inherit master
// password" sentinel).
type MasterPassword string

// Router is the FNE's single packet entry point: it recognizes a
// variable-length login-handshake command tag or a fixed FrameHeader
// prefix and dispatches to the right peer's connection state, ACL
// gate, or jitter buffer, mirroring the teacher's handlePacket switch
// (internal/dmr/servers/hbrp/server.go).
type Router struct {
	Peers    *PeerTable
	PeerList *lookups.PeerListLookup
	ACL      *acl.Table
	Master   MasterPassword
	// Logger receives one line per steady-state login/auth rejection,
	// prefixed with the peer-id/identity-qualifier marker spec.md §7
	// describes; nil falls back to slog.Default().
	Logger *slog.Logger
	// Metrics, when set, receives a RecordJitterOutcome call for every
	// reordered/dropped/timed-out frame RouteVoiceFrame observes. nil
	// disables recording.
	Metrics *metrics.Metrics
	// Replication holds the spanning-tree/active-peer-list state shared
	// with linked replica/neighbor FNEs; nil disables the
	// TagReplicationControl/TagSpanningTreeUpdate families entirely,
	// same as the original FNE with no replica peers configured.
	Replication *ReplicationController
}

// NewRouter returns a Router wired to the given peer registry, peer
// identity table, and ACL gate.
func NewRouter(peers *PeerTable, peerList *lookups.PeerListLookup, aclTable *acl.Table, master MasterPassword) *Router {
	return &Router{Peers: peers, PeerList: peerList, ACL: aclTable, Master: master}
}

func (r *Router) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// rejectLogin logs a steady-state login/auth rejection at the identity
// the peer list knows the peer by (or "unknown" on a lookup miss), per
// spec.md §7's peer-id + identity-qualifier log-line convention.
func (r *Router) rejectLogin(peerID uint32, reason string) {
	entry := r.PeerList.Find(peerID)
	identity := entry.Alias
	if identity == "" {
		identity = "unknown"
	}
	qualifier := logging.QualifierByte(false, entry.PeerReplica, false)
	r.logger().Warn("login rejected",
		"peer", logging.PeerPrefix(peerID, identity, qualifier),
		"reason", reason,
	)
}

func (r *Router) passwordFor(peerID uint32) (string, bool) {
	if !r.PeerList.IsPeerAllowed(peerID) {
		return "", false
	}
	entry := r.PeerList.Find(peerID)
	if entry.Password != "" {
		return entry.Password, true
	}
	return string(r.Master), true
}

// DispatchLogin handles one login-handshake-phase packet (RPTL, RPTK,
// RPTC, RPTCL, RPTPING), returning the response packet to send back.
// A peer list miss or a PDU rejected for any other reason produces a
// MSTNAK rather than silently dropping the packet, per the teacher's
// sendCommand(..., CommandMSTNAK, ...) fallback on every handler's
// else branch.
func (r *Router) DispatchLogin(data []byte, address string, port int) []byte {
	cmd, peerID, body, ok := ParseCommand(data)
	if !ok {
		return nil
	}

	var peerIDBytes [4]byte
	binary.BigEndian.PutUint32(peerIDBytes[:], peerID)

	switch cmd {
	case CommandRPTL:
		if _, allowed := r.passwordFor(peerID); !allowed {
			r.rejectLogin(peerID, "RPTL: peer not in peer list")
			return BuildPacket(CommandMSTNAK, peerID, nil)
		}
		peer := r.Peers.GetOrCreate(peerID, address, port)
		salt := peer.BeginLogin()
		var saltBytes [4]byte
		binary.BigEndian.PutUint32(saltBytes[:], salt)
		return BuildPacket(CommandRPTACK, peerID, saltBytes[:])

	case CommandRPTK:
		peer, ok := r.Peers.Get(peerID)
		if !ok || len(body) < sha256.Size {
			r.rejectLogin(peerID, "RPTK: unknown connection or short hash")
			return BuildPacket(CommandMSTNAK, peerID, nil)
		}
		password, allowed := r.passwordFor(peerID)
		if !allowed {
			r.rejectLogin(peerID, "RPTK: peer not in peer list")
			return BuildPacket(CommandMSTNAK, peerID, nil)
		}
		var hash [32]byte
		copy(hash[:], body[:sha256.Size])
		if !peer.VerifyAuth(password, hash) {
			r.rejectLogin(peerID, "RPTK: auth hash mismatch")
			return BuildPacket(CommandMSTNAK, peerID, nil)
		}
		return BuildPacket(CommandRPTACK, peerID, nil)

	case CommandRPTC:
		peer, ok := r.Peers.Get(peerID)
		if !ok || !peer.ConfigureRunning(body) {
			r.rejectLogin(peerID, "RPTC: unknown connection or malformed config")
			return BuildPacket(CommandMSTNAK, peerID, nil)
		}
		r.logger().Info("peer running",
			"peer_id", peerID,
			"session_id", peer.SessionID,
		)
		return BuildPacket(CommandRPTACK, peerID, nil)

	case CommandRPTCL:
		r.Peers.Remove(peerID)
		return nil

	case CommandRPTPING:
		peer, ok := r.Peers.Get(peerID)
		if !ok {
			return BuildPacket(CommandMSTNAK, peerID, nil)
		}
		peer.Touch(time.Now().UnixMicro())
		return BuildPacket(CommandMSTPONG, peerID, nil)

	default:
		return nil
	}
}

// DispatchFrame handles one RUNNING-state frame (voice, PDU data,
// activity log, …): it requires the originating peer to already be
// RUNNING and, for a voice frame, that its source radio ID clears the
// ACL gate. It returns the decoded header, the frame's body, and
// whether the frame was accepted.
func (r *Router) DispatchFrame(data []byte, srcRadioID uint32) (FrameHeader, []byte, bool) {
	header, body, ok := DecodeFrame(data)
	if !ok {
		return FrameHeader{}, nil, false
	}

	peer, ok := r.Peers.Get(header.PeerID)
	if !ok || peer.CurrentState() != StateRunning {
		return header, nil, false
	}

	if header.Tag == string(TagVoice) && r.ACL != nil && !r.ACL.ValidateSrcID(srcRadioID) {
		return header, nil, false
	}

	if header.Tag == string(TagReplicationControl) || header.Tag == string(TagSpanningTreeUpdate) {
		if !peer.Flags.Replica && !peer.Flags.NeighborFNE {
			r.rejectLogin(header.PeerID, "replication/spanning-tree frame from non-replica, non-neighbor peer")
			return header, nil, false
		}
	}

	return header, body, true
}

// DispatchSpanningTreeUpdate decodes and applies a TagSpanningTreeUpdate
// frame's body via r.Replication, logging (but not rejecting) any
// duplicate peer ID the update reported. A no-op when Replication is
// nil.
func (r *Router) DispatchSpanningTreeUpdate(peerID uint32, body []byte) {
	if r.Replication == nil {
		return
	}
	duplicates, err := r.Replication.HandleSpanningTreeUpdate(body)
	if err != nil {
		r.logger().Warn("malformed spanning tree update", "peer_id", peerID, "error", err)
		return
	}
	if len(duplicates) > 0 {
		r.logger().Warn("spanning tree update contained duplicate peer IDs",
			"peer_id", peerID, "duplicates", duplicates)
	}
}

// RouteVoiceFrame hands a decoded voice frame's payload to the
// originating peer's per-stream jitter buffer, creating the buffer
// with the peer list's configured tunables on first use, and returns
// whatever frames the buffer releases in sequence order as a result.
func (r *Router) RouteVoiceFrame(header FrameHeader, seq uint16, payload []byte, nowMicros int64) ([]jitter.Frame, bool) {
	peer, ok := r.Peers.Get(header.PeerID)
	if !ok {
		return nil, false
	}

	entry := r.PeerList.Find(header.PeerID)
	maxSize := lookups.DefaultJitterMaxSize
	maxWait := lookups.DefaultJitterMaxWait
	if entry.JitterBufferEnabled {
		maxSize = entry.JitterBufferMaxSize
		maxWait = entry.JitterBufferMaxWait
	}

	buf := peer.JitterBuffer(uint32(header.StreamIndex), maxSize, maxWait)
	before := buf.Statistics()
	frames := buf.ProcessFrame(seq, payload, nowMicros)
	r.recordJitterDelta(before, buf.Statistics())
	return frames, true
}

// recordJitterDelta reports the portion of after that's new since
// before to r.Metrics, one RecordJitterOutcome call per counter that
// advanced.
func (r *Router) recordJitterDelta(before, after jitter.Stats) {
	if r.Metrics == nil {
		return
	}
	for range after.Reordered - before.Reordered {
		r.Metrics.RecordJitterOutcome("reordered")
	}
	for range after.Dropped - before.Dropped {
		r.Metrics.RecordJitterOutcome("dropped")
	}
	for range after.TimedOut - before.TimedOut {
		r.Metrics.RecordJitterOutcome("timed_out")
	}
}

// FrameTag identifies a RUNNING-state opcode family by its 4-character
// ASCII prefix.
type FrameTag string

const (
	// TagVoice carries a voice call's per-frame audio payload.
	TagVoice FrameTag = "DVMV"
	// TagPDU carries a data-call PDU block, handed to the PDU
	// assembler/disassembler for the originating protocol.
	TagPDU FrameTag = "DVMP"
	// TagActivityLog carries an activity/diagnostic log line for
	// replication to a neighbor FNE.
	TagActivityLog FrameTag = "DVML"
)
