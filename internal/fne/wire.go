// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package fne implements the L5 peer-connection layer: the FNE peer
// protocol's login handshake, per-peer connection state, identity
// qualifiers, and the jitter-buffer-per-stream attachment a running
// peer owns. Grounded on the teacher's HBRP server
// (internal/dmr/servers/hbrp/packet_handlers.go), adapted off gorm/
// Redis-backed repeater records onto a plain in-memory peer table.
package fne

import (
	"encoding/binary"
)

// Command is a variable-length ASCII FNE peer-protocol opcode tag,
// matching the teacher's dmrconst.Command: some opcodes are 4 bytes
// (RPTL, RPTK, RPTC), others 6-7 (MSTNAK, RPTPING).
type Command string

const (
	CommandRPTL    Command = "RPTL"    // peer requests login
	CommandRPTK    Command = "RPTK"    // peer's challenge-response hash
	CommandRPTC    Command = "RPTC"    // peer's configuration blob
	CommandRPTCL   Command = "RPTCL"   // peer requests disconnect
	CommandRPTPING Command = "RPTPING" // peer keepalive
	CommandRPTACK  Command = "RPTACK"  // FNE -> peer: step accepted
	CommandMSTNAK  Command = "MSTNAK"  // FNE -> peer: step rejected
	CommandMSTPONG Command = "MSTPONG" // FNE -> peer: ping response
	CommandMSTCL   Command = "MSTCL"   // FNE is closing the connection
)

// ParseCommand matches the longest known command tag prefixing data,
// since FNE opcode tags vary in length (RPTPING at 7 bytes must not be
// mistaken for a 4-byte tag). Returns the command, the peer ID that
// immediately follows it, and the remaining opcode-specific body.
func ParseCommand(data []byte) (cmd Command, peerID uint32, body []byte, ok bool) {
	known := []Command{
		CommandRPTPING, CommandRPTCL, CommandRPTACK, CommandMSTNAK,
		CommandMSTPONG, CommandMSTCL, CommandRPTL, CommandRPTK, CommandRPTC,
	}
	for _, c := range known {
		n := len(c)
		if len(data) >= n+4 && string(data[:n]) == string(c) {
			return c, binary.BigEndian.Uint32(data[n : n+4]), data[n+4:], true
		}
	}
	return "", 0, nil, false
}

// BuildPacket concatenates a command tag, peer ID, and opcode-specific
// body into a wire packet.
func BuildPacket(cmd Command, peerID uint32, body []byte) []byte {
	out := make([]byte, len(cmd)+4+len(body))
	copy(out, cmd)
	binary.BigEndian.PutUint32(out[len(cmd):len(cmd)+4], peerID)
	copy(out[len(cmd)+4:], body)
	return out
}

// FrameHeader is the fixed prefix of a RUNNING-state opcode-family
// packet (voice, data PDU, activity/diagnostic log transfer, peer
// status, replication control, spanning-tree update): a 4-character
// ASCII family tag ('DVMV','DVMP','DVML', …; see FrameTag), a wrapping
// sequence number, a stream index, and the originating peer ID.
type FrameHeader struct {
	Tag         string
	Sequence    byte
	StreamIndex byte
	PeerID      uint32
}

// DecodeFrame splits a RUNNING-state packet into its header and body.
func DecodeFrame(data []byte) (FrameHeader, []byte, bool) {
	const headerLen = 12
	if len(data) < headerLen {
		return FrameHeader{}, nil, false
	}
	return FrameHeader{
		Tag:         string(data[0:4]),
		Sequence:    data[4],
		StreamIndex: data[5],
		PeerID:      binary.BigEndian.Uint32(data[8:12]),
	}, data[headerLen:], true
}

// EncodeFrame builds a RUNNING-state packet from its header and body.
func EncodeFrame(h FrameHeader, body []byte) []byte {
	out := make([]byte, 12+len(body))
	copy(out[0:4], h.Tag)
	out[4] = h.Sequence
	out[5] = h.StreamIndex
	binary.BigEndian.PutUint32(out[8:12], h.PeerID)
	copy(out[12:], body)
	return out
}
