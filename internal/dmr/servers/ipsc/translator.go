// SPDX-License-Identifier: AGPL-3.0-or-later
// DMRHub - Run a DMR network server in a single binary
// Copyright (C) 2023-2026 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package ipsc translates between the legacy IPSC wire format and the
// MMDVM-style DMRD packet this workspace's DMR stack otherwise speaks.
// It exists for sites still running IPSC-only repeaters behind an FNE;
// everything upstream of it (PDU assembly, ACL gating, jitter buffering)
// only ever sees DMRD-shaped packets.
package ipsc

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/USA-RedDragon/dmrgo/dmr/enums"
	"github.com/USA-RedDragon/dmrgo/dmr/layer2"
	"github.com/USA-RedDragon/dmrgo/dmr/layer2/elements"
	"github.com/USA-RedDragon/dmrgo/dmr/layer2/pdu"
	l3elements "github.com/USA-RedDragon/dmrgo/dmr/layer3/elements"
	"github.com/USA-RedDragon/dmrgo/dmr/vocoder"
	"github.com/dvmhub/dvmcore/internal/dmr/dmrconst"
)

// Packet is the minimal DMRD-shaped packet the translator reads and
// writes; it carries only the fields the IPSC wire format itself needs,
// not the FNE peer envelope around it.
type Packet struct {
	Signature   string
	Seq         uint
	Src         uint
	Dst         uint
	Repeater    uint
	Slot        bool // true = TS2
	GroupCall   bool
	FrameType   dmrconst.FrameType
	DTypeOrVSeq uint
	StreamID    uint
	DMRData     [33]byte // DMR burst
}

// Translator converts MMDVM DMRD packets into IPSC user packets.
// It maintains per-stream state (RTP sequence, timestamp, call control)
// and uses the dmrgo library to FEC-decode AMBE voice data from the
// 33-byte DMR burst into the 19-byte IPSC AMBE payload.
//
// It also converts IPSC user packets back into MMDVM DMRD packets for the
// reverse direction.
type Translator struct {
	mu             sync.Mutex
	peerID         uint32
	repeaterID     uint32
	streams        map[uint32]*streamState
	reverseStreams map[uint32]*reverseStreamState
	burst          layer2.Burst // reusable burst to reduce allocations

	nextCallControl uint32
	nextStreamID    uint32
}

// streamState tracks RTP sequencing and call framing for one voice stream.
type streamState struct {
	callControl  uint32 // random per-call
	rtpSeq       uint16
	rtpTimestamp uint32
	ipscSeq      uint8
	headersSent  int  // number of voice headers sent (3 required)
	burstIndex   int  // 0-5 → A-F
	firstPacket  bool // true for the very first packet
	flcCached    bool // whether flcBytes is valid
	flcBytes     [12]byte
	lastActivity time.Time // tracks when this stream was last active
}

// IPSC burst data type constants (byte 30 of IPSC voice packet)
const (
	ipscBurstVoiceHead byte = 0x01
	ipscBurstVoiceTerm byte = 0x02
	ipscBurstCSBK      byte = 0x03
	ipscBurstSlot1     byte = 0x0A
	ipscBurstSlot2     byte = 0x8A
)

// RTP timestamp increment per burst (~60ms spacing in 16.16 format)
const rtpTimestampIncrement = 480

// IPSC packet buffer pools to avoid per-packet allocations.
var (
	ipscBuf54Pool = sync.Pool{New: func() any { b := make([]byte, 54); return &b }} //nolint:gochecknoglobals
	ipscBuf52Pool = sync.Pool{New: func() any { b := make([]byte, 52); return &b }} //nolint:gochecknoglobals
	ipscBuf57Pool = sync.Pool{New: func() any { b := make([]byte, 57); return &b }} //nolint:gochecknoglobals
	ipscBuf66Pool = sync.Pool{New: func() any { b := make([]byte, 66); return &b }} //nolint:gochecknoglobals
)

// ReturnBuffer returns a buffer previously obtained from TranslateToIPSC
// back to the appropriate sync.Pool for reuse. Callers should invoke this
// after they are done with each []byte slice returned by TranslateToIPSC.
func ReturnBuffer(buf []byte) {
	switch cap(buf) {
	case 52:
		ipscBuf52Pool.Put(&buf)
	case 54:
		ipscBuf54Pool.Put(&buf)
	case 57:
		ipscBuf57Pool.Put(&buf)
	case 66:
		ipscBuf66Pool.Put(&buf)
	}
}

// NewTranslator builds a translator for one IPSC peer, identified by
// peerID, which is written as the peer ID of every IPSC packet it
// builds. DMRD packets translated from IPSC carry the peer ID found in
// the IPSC packet itself as their repeater ID.
func NewTranslator(peerID uint32) *Translator {
	return &Translator{
		streams:        make(map[uint32]*streamState),
		reverseStreams: make(map[uint32]*reverseStreamState),
		peerID:         peerID,
		repeaterID:     peerID,
	}
}

// TranslateToIPSC converts an MMDVM DMRD Packet into one or more IPSC
// user packets ready to send to IPSC peers. It returns nil if the packet
// cannot be translated (e.g. non-voice data we don't handle yet).
func (t *Translator) TranslateToIPSC(pkt Packet) [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	streamID := pkt.StreamID
	if streamID > math.MaxUint32 {
		return nil
	}

	ss, ok := t.streams[uint32(streamID)]
	if !ok {
		t.nextCallControl++
		if t.nextCallControl == 0 {
			t.nextCallControl = 1
		}
		ss = &streamState{
			callControl:  t.nextCallControl,
			firstPacket:  true,
			lastActivity: time.Now(),
		}
		t.streams[uint32(streamID)] = ss
	}
	ss.lastActivity = time.Now()

	frameType := pkt.FrameType
	dtypeOrVSeq := pkt.DTypeOrVSeq

	var results [][]byte

	switch frameType {
	case dmrconst.FrameDataSync:
		if dtypeOrVSeq > 255 {
			slog.Debug("ipsc translator: invalid dtype", "dtype", dtypeOrVSeq)
			return nil
		}
		switch elements.DataType(dtypeOrVSeq) {
		case elements.DataTypeVoiceLCHeader:
			// IPSC sends 3 copies of the voice header.
			results = make([][]byte, 0, 3)
			for i := 0; i < 3; i++ {
				data := t.buildVoiceHeader(pkt, ss, i == 0 && ss.firstPacket)
				results = append(results, data)
			}
			ss.headersSent = 3
			ss.firstPacket = false
			ss.burstIndex = 0
		case elements.DataTypeTerminatorWithLC:
			data := t.buildVoiceTerminator(pkt, ss)
			results = [][]byte{data}
			delete(t.streams, uint32(streamID))
		case elements.DataTypeCSBK, elements.DataTypePIHeader,
			elements.DataTypeDataHeader, elements.DataTypeRate12,
			elements.DataTypeRate34, elements.DataTypeRate1,
			elements.DataTypeMBCHeader, elements.DataTypeMBCContinuation:
			data := t.buildIPSCDataPacket(pkt, ss, elements.DataType(dtypeOrVSeq))
			results = [][]byte{data}
			ss.firstPacket = false
		case elements.DataTypeIdle, elements.DataTypeUnifiedSingleBlock, elements.DataTypeReserved:
			return nil
		default:
			slog.Debug("ipsc translator: unhandled data sync dtype", "dtype", dtypeOrVSeq)
			return nil
		}

	case dmrconst.FrameVoice, dmrconst.FrameVoiceSync:
		data := t.buildVoiceBurst(pkt, ss)
		if data != nil {
			results = [][]byte{data}
		}
		ss.burstIndex = (ss.burstIndex + 1) % 6

	default:
		slog.Debug("ipsc translator: unknown frame type", "frameType", frameType)
		return nil
	}

	return results
}

// CleanupStream removes state for a given stream (e.g. on timeout).
func (t *Translator) CleanupStream(streamID uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.streams, streamID)
}

// CleanupReverseStream removes reverse stream state for a given call control ID.
func (t *Translator) CleanupReverseStream(callControl uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.reverseStreams, callControl)
}

// CleanupStaleStreams removes any forward or reverse stream entries that
// have not been active within the given maxAge duration. This prevents
// unbounded growth of the stream maps when a terminator packet is lost.
func (t *Translator) CleanupStaleStreams(maxAge time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	cleaned := 0

	for id, ss := range t.streams {
		if now.Sub(ss.lastActivity) > maxAge {
			delete(t.streams, id)
			cleaned++
		}
	}
	for id, rss := range t.reverseStreams {
		if now.Sub(rss.lastActivity) > maxAge {
			delete(t.reverseStreams, id)
			cleaned++
		}
	}

	if cleaned > 0 {
		slog.Debug("ipsc translator: cleaned stale streams", "count", cleaned)
	}

	return cleaned
}

// StreamCount returns the number of active forward and reverse streams.
func (t *Translator) StreamCount() (forward, reverse int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.streams), len(t.reverseStreams)
}

// buildIPSCHeader writes the common 18-byte IPSC header (bytes 0-17).
func (t *Translator) buildIPSCHeader(buf []byte, pkt Packet, ss *streamState, isEnd bool, isData bool) {
	if isData {
		if pkt.GroupCall {
			buf[0] = 0x83 // GROUP_DATA
		} else {
			buf[0] = 0x84 // PVT_DATA
		}
	} else {
		if pkt.GroupCall {
			buf[0] = 0x80 // GROUP_VOICE
		} else {
			buf[0] = 0x81 // PVT_VOICE
		}
	}

	binary.BigEndian.PutUint32(buf[1:5], t.peerID)

	buf[5] = ss.ipscSeq

	buf[6] = byte(pkt.Src >> 16)
	buf[7] = byte(pkt.Src >> 8)
	buf[8] = byte(pkt.Src)

	buf[9] = byte(pkt.Dst >> 16)
	buf[10] = byte(pkt.Dst >> 8)
	buf[11] = byte(pkt.Dst)

	if pkt.GroupCall {
		buf[12] = 0x02
	} else {
		buf[12] = 0x01
	}

	binary.BigEndian.PutUint32(buf[13:17], ss.callControl)

	callInfo := byte(0x00)
	if pkt.Slot {
		callInfo |= 0x20
	}
	if isEnd {
		callInfo |= 0x40
	}
	buf[17] = callInfo
}

// buildRTPHeader writes the 12-byte RTP header at buf[18:30].
func (t *Translator) buildRTPHeader(buf []byte, ss *streamState, marker bool, payloadType byte) {
	buf[18] = 0x80 // RTP version 2, no padding, no extension, 0 CSRCs

	pt := payloadType
	if marker {
		pt |= 0x80
	}
	buf[19] = pt

	binary.BigEndian.PutUint16(buf[20:22], ss.rtpSeq)
	ss.rtpSeq++

	binary.BigEndian.PutUint32(buf[22:26], ss.rtpTimestamp)
	ss.rtpTimestamp += rtpTimestampIncrement

	binary.BigEndian.PutUint32(buf[26:30], 0) // SSRC
}

// buildVoiceHeader builds a 54-byte IPSC voice header packet.
// Voice headers embed the Full LC (link control) data.
func (t *Translator) buildVoiceHeader(pkt Packet, ss *streamState, isFirst bool) []byte {
	bufp := ipscBuf54Pool.Get().(*[]byte) //nolint:errcheck,forcetypeassert
	buf := *bufp
	clear(buf)

	t.buildIPSCHeader(buf, pkt, ss, false, false)
	t.buildRTPHeader(buf, ss, isFirst, 0x5D)

	buf[30] = ipscBurstVoiceHead
	buf[31] = 0x80
	binary.BigEndian.PutUint16(buf[32:34], 0x000A)
	buf[34] = 0x80
	if pkt.Slot {
		buf[35] = ipscBurstSlot2
	} else {
		buf[35] = ipscBurstSlot1
	}
	binary.BigEndian.PutUint16(buf[36:38], 0x0060)

	t.burst.DecodeFromBytes(pkt.DMRData)
	flcBytes := t.getOrCacheFLC(pkt, ss)
	copy(buf[38:50], flcBytes[:12])

	return buf
}

// buildVoiceTerminator builds a 54-byte IPSC voice terminator packet.
func (t *Translator) buildVoiceTerminator(pkt Packet, ss *streamState) []byte {
	bufp := ipscBuf54Pool.Get().(*[]byte) //nolint:errcheck,forcetypeassert
	buf := *bufp
	clear(buf)

	t.buildIPSCHeader(buf, pkt, ss, true, false)
	t.buildRTPHeader(buf, ss, false, 0x5E)

	buf[30] = ipscBurstVoiceTerm
	buf[31] = 0x80
	binary.BigEndian.PutUint16(buf[32:34], 0x000A)
	buf[34] = 0x80
	if pkt.Slot {
		buf[35] = ipscBurstSlot2
	} else {
		buf[35] = ipscBurstSlot1
	}
	binary.BigEndian.PutUint16(buf[36:38], 0x0060)

	t.burst.DecodeFromBytes(pkt.DMRData)
	flcBytes := t.getOrCacheFLC(pkt, ss)
	copy(buf[38:50], flcBytes[:12])

	ss.ipscSeq++
	return buf
}

// buildIPSCDataPacket builds a 54-byte IPSC data packet for CSBK, Data Header, etc.
// The structure is identical to voice header/terminator but with data packet types.
func (t *Translator) buildIPSCDataPacket(pkt Packet, ss *streamState, dataType elements.DataType) []byte {
	bufp := ipscBuf54Pool.Get().(*[]byte) //nolint:errcheck,forcetypeassert
	buf := *bufp
	clear(buf)

	t.buildIPSCHeader(buf, pkt, ss, false, true)
	t.buildRTPHeader(buf, ss, ss.firstPacket, 0x5D)

	buf[30] = byte(dataType)
	buf[31] = 0xC0
	binary.BigEndian.PutUint16(buf[32:34], 0x000A)
	buf[34] = 0x80
	if pkt.Slot {
		buf[35] = ipscBurstSlot2
	} else {
		buf[35] = ipscBurstSlot1
	}
	binary.BigEndian.PutUint16(buf[36:38], 0x0060)

	t.burst.DecodeFromBytes(pkt.DMRData)
	flcBytes := t.getOrCacheFLC(pkt, ss)
	copy(buf[38:50], flcBytes[:12])

	ss.ipscSeq++
	return buf
}

// buildVoiceBurst builds an IPSC voice burst packet.
// Burst A = 52 bytes, Bursts B-D,F = 57 bytes, Burst E = 66 bytes.
func (t *Translator) buildVoiceBurst(pkt Packet, ss *streamState) []byte {
	t.burst.DecodeFromBytes(pkt.DMRData)

	if t.burst.IsData {
		slog.Debug("ipsc translator: skipping data burst in voice stream")
		return nil
	}

	ambeData := vocoder.PackAMBEVoice(t.burst.VoiceData.Frames)

	slotBurst := ipscBurstSlot2
	if !pkt.Slot {
		slotBurst = ipscBurstSlot1
	}

	burstIdx := ss.burstIndex % 6

	var buf []byte
	switch burstIdx {
	case 0: // Burst A — sync burst, 52 bytes
		bufp := ipscBuf52Pool.Get().(*[]byte) //nolint:errcheck,forcetypeassert
		buf = *bufp
		clear(buf)
		t.buildIPSCHeader(buf, pkt, ss, false, false)
		t.buildRTPHeader(buf, ss, false, 0x5D)

		buf[30] = slotBurst
		buf[31] = 0x14
		buf[32] = 0x40
		copy(buf[33:52], ambeData[:])

	case 4: // Burst E — extended with embedded LC, 66 bytes
		bufp := ipscBuf66Pool.Get().(*[]byte) //nolint:errcheck,forcetypeassert
		buf = *bufp
		clear(buf)
		t.buildIPSCHeader(buf, pkt, ss, false, false)
		t.buildRTPHeader(buf, ss, false, 0x5D)

		buf[30] = slotBurst
		buf[31] = 0x22
		buf[32] = 0x16
		copy(buf[33:52], ambeData[:])

		if t.burst.HasEmbeddedSignalling {
			embData := t.burst.PackEmbeddedSignallingData()
			copy(buf[52:56], embData[:4])
		}

		buf[59] = byte(pkt.Dst >> 16)
		buf[60] = byte(pkt.Dst >> 8)
		buf[61] = byte(pkt.Dst)
		buf[62] = byte(pkt.Src >> 16)
		buf[63] = byte(pkt.Src >> 8)
		buf[64] = byte(pkt.Src)
		buf[65] = 0x14

	default: // Bursts B, C, D, F — 57 bytes with embedded signalling
		bufp := ipscBuf57Pool.Get().(*[]byte) //nolint:errcheck,forcetypeassert
		buf = *bufp
		clear(buf)
		t.buildIPSCHeader(buf, pkt, ss, false, false)
		t.buildRTPHeader(buf, ss, false, 0x5D)

		buf[30] = slotBurst
		buf[31] = 0x19
		buf[32] = 0x06
		copy(buf[33:52], ambeData[:])

		if t.burst.HasEmbeddedSignalling {
			embData := t.burst.PackEmbeddedSignallingData()
			copy(buf[52:56], embData[:4])
		}
	}

	return buf
}

// extractFullLCBytes builds 12 bytes of Full Link Control data from the
// packet fields, using the dmrgo library's encoder.
func extractFullLCBytes(pkt Packet) [12]byte {
	flco := enums.FLCOUnitToUnitVoiceChannelUser
	if pkt.Dst > dmrconst.MaxDMRAddress || pkt.Src > dmrconst.MaxDMRAddress {
		slog.Error("ipsc translator: full LC address out of range")
		return [12]byte{}
	}

	if pkt.GroupCall {
		flco = enums.FLCOGroupVoiceChannelUser
	}

	flc := pdu.FullLinkControl{
		FLCO:         flco,
		FeatureSetID: enums.StandardizedFID,
		ServiceOptions: l3elements.ServiceOptions{
			Reserved: [2]byte{1, 0}, // sets 0x20 (default)
		},
		GroupAddress:  int(pkt.Dst),
		TargetAddress: int(pkt.Dst),
		SourceAddress: int(pkt.Src),
	}

	encoded, err := flc.Encode()
	if err != nil {
		slog.Error("ipsc translator: failed to encode full LC", "error", err)
		return [12]byte{}
	}

	var res [12]byte
	copy(res[:], encoded)
	return res
}

// getOrCacheFLC returns cached Full LC bytes for the stream, computing them
// on first call. Within a single call the src/dst/groupCall never change,
// so the expensive Encode() call is cached.
func (t *Translator) getOrCacheFLC(pkt Packet, ss *streamState) [12]byte {
	if ss.flcCached {
		return ss.flcBytes
	}
	ss.flcBytes = extractFullLCBytes(pkt)
	ss.flcCached = true
	return ss.flcBytes
}

// reverseStreamState tracks per-call state for IPSC→MMDVM translation.
type reverseStreamState struct {
	streamID     uint32
	seq          uint8
	burstIndex   int       // 0-5 → A-F within a superframe
	started      bool      // whether we've seen a voice header
	lastActivity time.Time // tracks when this stream was last active
}

// TranslateToMMDVM converts raw IPSC user packet data into MMDVM DMRD Packets.
// Returns nil if the packet cannot be translated.
func (t *Translator) TranslateToMMDVM(packetType byte, data []byte) []Packet {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(data) < 31 {
		slog.Debug("ipsc translator: IPSC packet too short", "length", len(data))
		return nil
	}

	switch packetType {
	case 0x80, 0x81, 0x83, 0x84:
		// supported packet types
	default:
		slog.Debug("ipsc translator: ignoring unsupported IPSC packet", "type", packetType)
		return nil
	}

	peerID := binary.BigEndian.Uint32(data[1:5])
	src := uint(data[6])<<16 | uint(data[7])<<8 | uint(data[8])
	dst := uint(data[9])<<16 | uint(data[10])<<8 | uint(data[11])
	groupCall := packetType == 0x80 || packetType == 0x83
	callInfo := data[17]
	slot := (callInfo & 0x20) != 0 // true = TS2
	isEnd := (callInfo & 0x40) != 0

	slog.Debug("ipsc translator: TranslateToMMDVM",
		"packetType", fmt.Sprintf("0x%02X", packetType),
		"src", src, "dst", dst, "groupCall", groupCall,
		"slot", slot, "isEnd", isEnd)

	callControl := binary.BigEndian.Uint32(data[13:17])

	rss, ok := t.reverseStreams[callControl]
	if !ok {
		t.nextStreamID++
		if t.nextStreamID == 0 {
			t.nextStreamID = 1
		}
		rss = &reverseStreamState{
			streamID:     t.nextStreamID,
			lastActivity: time.Now(),
		}
		t.reverseStreams[callControl] = rss
	}
	rss.lastActivity = time.Now()

	burstType := data[30]

	results := make([]Packet, 0, 1)

	switch burstType {
	case ipscBurstVoiceHead:
		// Only process the first of the 3 copies IPSC sends.
		if !rss.started {
			pkt := t.buildMMDVMDataPacket(src, dst, groupCall, slot, peerID, rss,
				elements.DataTypeVoiceLCHeader, data)
			results = append(results, pkt)
			rss.started = true
			rss.burstIndex = 0
		}

	case ipscBurstVoiceTerm:
		pkt := t.buildMMDVMDataPacket(src, dst, groupCall, slot, peerID, rss,
			elements.DataTypeTerminatorWithLC, data)
		results = append(results, pkt)
		delete(t.reverseStreams, callControl)

	case ipscBurstSlot1, ipscBurstSlot2:
		if len(data) < 52 {
			slog.Debug("ipsc translator: voice burst too short", "length", len(data))
			return nil
		}
		if pkt, ok := t.buildMMDVMVoiceBurst(src, dst, groupCall, slot, peerID, rss, data); ok {
			results = append(results, pkt)
		}

	case ipscBurstCSBK:
		pkt := t.buildMMDVMDataPacket(src, dst, groupCall, slot, peerID, rss,
			elements.DataTypeCSBK, data)
		results = append(results, pkt)

	default:
		// The burst type byte maps directly to the DMR data type for any
		// other 54-byte packet shaped like a voice header.
		if len(data) >= 50 && burstType <= 10 {
			pkt := t.buildMMDVMDataPacket(src, dst, groupCall, slot, peerID, rss,
				elements.DataType(burstType), data)
			results = append(results, pkt)
		} else {
			slog.Debug("ipsc translator: unknown IPSC burst type", "burstType", burstType)
			return nil
		}
	}

	if isEnd && burstType != ipscBurstVoiceTerm {
		delete(t.reverseStreams, callControl)
	}

	return results
}

// buildMMDVMDataPacket builds an MMDVM DMRD packet for a voice LC header, terminator,
// or data burst (CSBK, Data Header, etc.), constructing the 33-byte DMR burst from
// the IPSC payload data.
func (t *Translator) buildMMDVMDataPacket(
	src, dst uint, groupCall, slot bool,
	peerID uint32,
	rss *reverseStreamState,
	dataType elements.DataType,
	ipscData []byte,
) Packet {
	pkt := Packet{
		Signature:   "DMRD",
		Seq:         uint(rss.seq),
		Src:         src,
		Dst:         dst,
		Repeater:    uint(peerID),
		Slot:        slot,
		GroupCall:   groupCall,
		FrameType:   dmrconst.FrameDataSync,
		DTypeOrVSeq: uint(dataType),
		StreamID:    uint(rss.streamID),
	}
	rss.seq++

	var lcBytes [12]byte
	if len(ipscData) >= 50 {
		copy(lcBytes[:], ipscData[38:50])
	} else {
		lcBytes[1] = 0x00
		lcBytes[2] = 0x20
		lcBytes[3] = byte(dst >> 16)
		lcBytes[4] = byte(dst >> 8)
		lcBytes[5] = byte(dst)
		lcBytes[6] = byte(src >> 16)
		lcBytes[7] = byte(src >> 8)
		lcBytes[8] = byte(src)
	}

	// For voice LC headers/terminators, override the FLCO byte to match
	// the group/private flag from the IPSC packet type; CSBK/data types
	// keep their payload bytes as-is.
	if dataType == elements.DataTypeVoiceLCHeader || dataType == elements.DataTypeTerminatorWithLC {
		if groupCall {
			lcBytes[0] = byte(enums.FLCOGroupVoiceChannelUser)
		} else {
			lcBytes[0] = byte(enums.FLCOUnitToUnitVoiceChannelUser)
		}
	}

	pkt.DMRData = layer2.BuildLCDataBurst(lcBytes, dataType, 0)

	return pkt
}

// buildMMDVMVoiceBurst builds MMDVM DMRD packets from an IPSC voice burst:
// it extracts the 19-byte AMBE payload, FEC-encodes back to DMR format, and
// reconstructs the full 33-byte DMR burst with proper sync/EMB.
func (t *Translator) buildMMDVMVoiceBurst(
	src, dst uint, groupCall, slot bool,
	peerID uint32,
	rss *reverseStreamState,
	ipscData []byte,
) (Packet, bool) {
	var ambeBytes [19]byte
	copy(ambeBytes[:], ipscData[33:52])

	frames := vocoder.UnpackAMBEVoice(ambeBytes)

	var vc pdu.Vocoder
	vc.Frames = frames

	burstIdx := rss.burstIndex % 6

	var burst layer2.Burst
	burst.VoiceData = vc

	if burstIdx == 0 {
		burst.SyncPattern = enums.MsSourcedVoice
		burst.VoiceBurst = enums.VoiceBurstA
		burst.HasEmbeddedSignalling = false
	} else {
		burst.SyncPattern = enums.EmbeddedSignallingPattern
		burst.HasEmbeddedSignalling = true

		switch burstIdx {
		case 1:
			burst.VoiceBurst = enums.VoiceBurstB
		case 2:
			burst.VoiceBurst = enums.VoiceBurstC
		case 3:
			burst.VoiceBurst = enums.VoiceBurstD
		case 4:
			burst.VoiceBurst = enums.VoiceBurstE
		case 5:
			burst.VoiceBurst = enums.VoiceBurstF
		}

		t.populateEmbeddedSignalling(&burst, burstIdx, ipscData)
	}

	dmrData := burst.Encode()

	if burstIdx < 0 {
		burstIdx = 0
	}

	frameType := dmrconst.FrameVoice
	if burstIdx == 0 {
		frameType = dmrconst.FrameVoiceSync
	}

	pkt := Packet{
		Signature:   "DMRD",
		Seq:         uint(rss.seq),
		Src:         src,
		Dst:         dst,
		Repeater:    uint(peerID),
		Slot:        slot,
		GroupCall:   groupCall,
		FrameType:   frameType,
		DTypeOrVSeq: uint(burstIdx), //nolint:gosec // bounds checked
		StreamID:    uint(rss.streamID),
		DMRData:     dmrData,
	}
	rss.seq++
	rss.burstIndex = (rss.burstIndex + 1) % 6

	return pkt, true
}

// populateEmbeddedSignalling fills in the embedded signalling fields
// for voice bursts B-F from the IPSC packet's trailing data.
func (t *Translator) populateEmbeddedSignalling(burst *layer2.Burst, burstIdx int, ipscData []byte) {
	burst.EmbeddedSignalling = pdu.EmbeddedSignalling{
		ColorCode:                          0,
		PreemptionAndPowerControlIndicator: false,
		LCSS:                               enums.ContinuationFragmentLCorCSBK,
		ParityOK:                           true,
	}

	switch burstIdx {
	case 1: // Burst B — first fragment
		burst.EmbeddedSignalling.LCSS = enums.FirstFragmentLC
	case 4: // Burst E — last fragment
		burst.EmbeddedSignalling.LCSS = enums.LastFragmentLCorCSBK
	default: // Bursts C, D, F — continuation
		burst.EmbeddedSignalling.LCSS = enums.ContinuationFragmentLCorCSBK
	}

	var embBytes []byte
	switch len(ipscData) {
	case 57: // Bursts B, C, D, F — 5 bytes of embedded data at [52:57]
		embBytes = ipscData[52:57]
	case 66: // Burst E — embedded data at [52:59]
		embBytes = ipscData[52:59]
	default:
		return
	}

	if len(embBytes) >= 4 {
		burst.UnpackEmbeddedSignallingData(embBytes)
	}
}
