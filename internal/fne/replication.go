// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package fne

import (
	"encoding/json"
	"fmt"
)

// Peer-status/replication/spanning-tree opcode-family tags, completing
// the family list spec.md §7 names alongside TagVoice/TagPDU/
// TagActivityLog above.
const (
	// TagDiagnosticLog carries a diagnostic log line for replication to
	// a neighbor FNE, parallel to TagActivityLog's activity stream.
	TagDiagnosticLog FrameTag = "DVMG"
	// TagPeerStatus carries a peer's periodic status report (state,
	// stream count, uptime) to a monitoring neighbor.
	TagPeerStatus FrameTag = "DVMS"
	// TagReplicationControl carries an active-peer-list or
	// high-availability-parameter update between replica FNEs.
	TagReplicationControl FrameTag = "DVMX"
	// TagSpanningTreeUpdate carries a spanning-tree topology update,
	// used to avoid forwarding loops across more than two linked FNEs.
	TagSpanningTreeUpdate FrameTag = "DVMT"
)

// ReplicationSubFunction selects which payload a TagReplicationControl
// frame carries, mirroring the original FNE's REPL_ACT_PEER_LIST /
// REPL_HA_PARAMS sub-functions.
type ReplicationSubFunction byte

const (
	ReplActivePeerList ReplicationSubFunction = iota
	ReplHAParams
)

// ActivePeerList is the JSON body of a ReplActivePeerList frame: the
// peer IDs a replica FNE currently has RUNNING, so its HA partner can
// reconcile which peers it should itself accept traffic from.
type ActivePeerList struct {
	PeerIDs []uint32 `json:"peer_ids"`
}

// HAParams is the JSON body of a ReplHAParams frame: the address a
// replica FNE's partner should treat as the current master.
type HAParams struct {
	MasterAddress string `json:"master_address"`
	MasterPort    int    `json:"master_port"`
}

// SpanningTreeNode is one node of a serialized spanning-tree topology
// update: a peer ID and the peer IDs it reports as its own downstream
// links.
type SpanningTreeNode struct {
	PeerID   uint32   `json:"peer_id"`
	Children []uint32 `json:"children"`
}

// DeserializeTree decodes a spanning-tree update and reports any peer
// ID that appears as a child under more than one node, or is listed as
// a node more than once, which the original FNE logs and drops rather
// than applying, since a peer can only have one parent in a loop-free
// tree. A child that is also listed as a node of its own (to carry its
// own children) is not a duplicate.
func DeserializeTree(nodes []SpanningTreeNode) (seen map[uint32]bool, duplicates []uint32, err error) {
	seen = make(map[uint32]bool, len(nodes))
	listed := make(map[uint32]bool, len(nodes))
	parented := make(map[uint32]bool)
	for _, n := range nodes {
		if listed[n.PeerID] {
			duplicates = append(duplicates, n.PeerID)
		}
		listed[n.PeerID] = true
		seen[n.PeerID] = true
		for _, c := range n.Children {
			if parented[c] {
				duplicates = append(duplicates, c)
				continue
			}
			parented[c] = true
			seen[c] = true
		}
	}
	return seen, duplicates, nil
}

// ReplicationController tracks the spanning-tree-update and
// active-peer-list state this FNE exchanges with linked replica/
// neighbor FNEs. Actually sending the resulting frames over the wire
// is left to the caller's transport, same as the rest of this package.
type ReplicationController struct {
	// Enabled gates spanning-tree processing, mirroring the original
	// FNE's m_enableSpanningTree: when false, HandleSpanningTreeUpdate
	// is a no-op, since a two-FNE deployment has nothing to route
	// around.
	Enabled bool

	knownPeers map[uint32]bool
}

// NewReplicationController returns a controller with spanning-tree
// processing enabled.
func NewReplicationController() *ReplicationController {
	return &ReplicationController{Enabled: true, knownPeers: make(map[uint32]bool)}
}

// HandleActivePeerList decodes a ReplActivePeerList frame body and
// returns the peer IDs it lists, for the caller to reconcile against
// its own PeerTable.
func (rc *ReplicationController) HandleActivePeerList(body []byte) (ActivePeerList, error) {
	var list ActivePeerList
	if err := json.Unmarshal(body, &list); err != nil {
		return ActivePeerList{}, fmt.Errorf("fne: decoding active peer list: %w", err)
	}
	return list, nil
}

// EncodeActivePeerList builds the JSON body of an outbound
// ReplActivePeerList frame from a snapshot of this FNE's own running
// peer IDs.
func EncodeActivePeerList(peerIDs []uint32) ([]byte, error) {
	return json.Marshal(ActivePeerList{PeerIDs: peerIDs})
}

// HandleHAParams decodes a ReplHAParams frame body.
func (rc *ReplicationController) HandleHAParams(body []byte) (HAParams, error) {
	var params HAParams
	if err := json.Unmarshal(body, &params); err != nil {
		return HAParams{}, fmt.Errorf("fne: decoding HA params: %w", err)
	}
	return params, nil
}

// HandleSpanningTreeUpdate decodes a topology update and merges its
// peer IDs into the controller's known-peer set, reporting any
// duplicate peer ID the update contained so the caller can log it
// rather than silently applying an inconsistent tree. A no-op, and
// never an error, when Enabled is false.
func (rc *ReplicationController) HandleSpanningTreeUpdate(body []byte) (duplicates []uint32, err error) {
	if !rc.Enabled {
		return nil, nil
	}
	var nodes []SpanningTreeNode
	if err := json.Unmarshal(body, &nodes); err != nil {
		return nil, fmt.Errorf("fne: decoding spanning tree update: %w", err)
	}
	seen, dup, err := DeserializeTree(nodes)
	if err != nil {
		return nil, err
	}
	for id := range seen {
		rc.knownPeers[id] = true
	}
	return dup, nil
}

// KnownPeerCount reports how many distinct peer IDs the last-applied
// spanning-tree update(s) have recorded.
func (rc *ReplicationController) KnownPeerCount() int {
	return len(rc.knownPeers)
}
