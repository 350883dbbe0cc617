// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package fne

import (
	dmrdata "github.com/dvmhub/dvmcore/internal/dmr/data"
	p25data "github.com/dvmhub/dvmcore/internal/p25/data"
)

// PDUProtocol selects which air-interface's PDU disassembler a
// TagPDU stream uses; the FNE itself is protocol-agnostic, but each
// peer speaks exactly one air interface, known by whichever listener
// accepted its connection.
type PDUProtocol int

const (
	PDUProtocolDMR PDUProtocol = iota
	PDUProtocolP25
)

// PDUOutcome reports a pduSession's state after consuming one block,
// unifying internal/dmr/data.Progress and internal/p25/data.Progress
// (which are distinct types with identical meaning) into the one enum
// Router.DispatchPDU's caller needs.
type PDUOutcome int

const (
	PDUIncomplete PDUOutcome = iota
	PDUComplete
	PDUHeaderOnly
	PDUError
)

// pduSession wraps exactly one of a DMR or P25 disassembler — the two
// packages are independently grounded, protocol-specific L2a layers
// (internal/dmr/data, internal/p25/data); this type is the thin
// adapter that lets the FNE route to whichever one a stream's peer
// speaks without either protocol package depending on the other or on
// internal/fne.
type pduSession struct {
	dmr *dmrdata.Disassembler
	p25 *p25data.Disassembler
}

func newPDUSession(protocol PDUProtocol) *pduSession {
	switch protocol {
	case PDUProtocolP25:
		return &pduSession{p25: p25data.NewDisassembler()}
	default:
		return &pduSession{dmr: dmrdata.NewDisassembler()}
	}
}

// consume feeds one air block to the underlying disassembler and
// reports its outcome plus how many additional blocks (since the last
// call) failed FEC and were zero-filled.
func (s *pduSession) consume(block []byte, reset bool) (outcome PDUOutcome, newUndecodable int) {
	if s.dmr != nil {
		before := s.dmr.UndecodableBlocks()
		switch s.dmr.Disassemble(block, reset) {
		case dmrdata.Complete:
			outcome = PDUComplete
		case dmrdata.HeaderOnly:
			outcome = PDUHeaderOnly
		case dmrdata.Error:
			outcome = PDUError
		default:
			outcome = PDUIncomplete
		}
		return outcome, s.dmr.UndecodableBlocks() - before
	}

	before := s.p25.UndecodableBlocks()
	switch s.p25.Disassemble(block, reset) {
	case p25data.Complete:
		outcome = PDUComplete
	case p25data.HeaderOnly:
		outcome = PDUHeaderOnly
	case p25data.Error:
		outcome = PDUError
	default:
		outcome = PDUIncomplete
	}
	return outcome, s.p25.UndecodableBlocks() - before
}

func (s *pduSession) result() ([]byte, bool) {
	if s.dmr != nil {
		return s.dmr.Result()
	}
	return s.p25.Result()
}

// protocolLabel names this session's protocol for metrics.
func (p PDUProtocol) protocolLabel() string {
	if p == PDUProtocolP25 {
		return "p25"
	}
	return "dmr"
}

// DispatchPDU feeds one TagPDU frame's body to the originating peer's
// per-stream PDU disassembler, creating the session with the given
// protocol's disassembler on first use (a fresh header block, reset
// true). It reports the reassembled user data and its CRC validity
// once the session reaches PDUComplete, and tears the session down on
// either PDUComplete or PDUError so a later stream reusing the same
// index starts clean. Every block that fails FEC along the way is
// reported to r.Metrics as an FEC-uncorrectable event, labeled by
// protocol.
func (r *Router) DispatchPDU(header FrameHeader, protocol PDUProtocol, body []byte, reset bool) ([]byte, bool, PDUOutcome) {
	peer, ok := r.Peers.Get(header.PeerID)
	if !ok {
		return nil, false, PDUError
	}

	session := peer.PDUSession(uint32(header.StreamIndex), protocol)
	outcome, newUndecodable := session.consume(body, reset)

	if r.Metrics != nil {
		for range newUndecodable {
			r.Metrics.RecordFECUncorrectable(protocol.protocolLabel())
		}
	}

	switch outcome {
	case PDUComplete:
		data, valid := session.result()
		peer.RemovePDUSession(uint32(header.StreamIndex))
		return data, valid, PDUComplete
	case PDUError:
		peer.RemovePDUSession(uint32(header.StreamIndex))
		return nil, false, PDUError
	default:
		return nil, false, outcome
	}
}
