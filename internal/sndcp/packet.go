// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package sndcp

import "encoding/binary"

// PDUType identifies an SNDCP control PDU's wire message type.
type PDUType byte

const (
	ActivateTDSContext PDUType = iota
	ActivateTDSContextAccept
	ActivateTDSContextReject
	DeactivateTDSContext
)

// NAT identifies the network address type an activation request or
// accept carries.
type NAT byte

const (
	NATIPV4Static NAT = iota
	NATIPV4Dynamic
)

// RejectReason identifies why a context activation request was
// refused.
type RejectReason byte

const (
	RejectSUNotProvisioned RejectReason = iota
	RejectStaticIPUnsupported
	RejectDynamicIPUnsupported
	RejectAnyReason
)

// Packet is the tagged sum of SNDCP control PDU variants ParsePacket
// can produce: a plain type switch over a small, closed set of
// structs in place of a factory returning a heap-allocated base-class
// pointer.
type Packet interface {
	Type() PDUType
	encode() []byte
}

// ActivateRequest is a subscriber's request to activate a data
// context on an LLID: NSAPI, requested address type, and dynamic
// service/MDPCO options.
type ActivateRequest struct {
	NSAPI     byte
	NAT       NAT
	IPAddress uint32
	DSUT      byte
	MDPCO     byte
}

func (ActivateRequest) Type() PDUType { return ActivateTDSContext }

func (p ActivateRequest) encode() []byte {
	out := make([]byte, 8)
	out[0] = byte(ActivateTDSContext) << 2
	out[1] = p.NSAPI<<4 | byte(p.NAT)&0x0F
	out[2] = p.DSUT
	out[3] = p.MDPCO
	binary.BigEndian.PutUint32(out[4:8], p.IPAddress)
	return out
}

// ActivateAccept grants a context activation request, carrying the
// allocated address and the ready/standby timer values the subscriber
// should expect.
type ActivateAccept struct {
	NSAPI               byte
	NAT                 NAT
	IPAddress           uint32
	ReadyTimerSeconds   byte
	StandbyTimerSeconds byte
	MTU                 uint16
	MDPCO               byte
}

func (ActivateAccept) Type() PDUType { return ActivateTDSContextAccept }

func (p ActivateAccept) encode() []byte {
	out := make([]byte, 11)
	out[0] = byte(ActivateTDSContextAccept) << 2
	out[1] = p.NSAPI<<4 | byte(p.NAT)&0x0F
	out[2] = p.ReadyTimerSeconds
	out[3] = p.StandbyTimerSeconds
	binary.BigEndian.PutUint32(out[4:8], p.IPAddress)
	binary.BigEndian.PutUint16(out[8:10], p.MTU)
	out[10] = p.MDPCO
	return out
}

// ActivateReject refuses a context activation request with a reason
// code.
type ActivateReject struct {
	NSAPI      byte
	RejectCode RejectReason
}

func (ActivateReject) Type() PDUType { return ActivateTDSContextReject }

func (p ActivateReject) encode() []byte {
	return []byte{byte(ActivateTDSContextReject) << 2, p.NSAPI, byte(p.RejectCode)}
}

// Deactivate requests (or confirms) a context's teardown.
type Deactivate struct {
	NSAPI     byte
	DeactType byte
}

func (Deactivate) Type() PDUType { return DeactivateTDSContext }

func (p Deactivate) encode() []byte {
	return []byte{byte(DeactivateTDSContext) << 2, p.NSAPI, p.DeactType}
}

// Encode returns data's wire encoding for the variant it holds.
func Encode(data Packet) []byte {
	return data.encode()
}

// ParsePacket decodes data's leading byte as a PDUType tag and
// dispatches to the matching variant, reporting false for an
// unrecognized tag or a body too short for its variant.
func ParsePacket(data []byte) (Packet, bool) {
	if len(data) < 1 {
		return nil, false
	}
	switch PDUType(data[0] >> 2) {
	case ActivateTDSContext:
		if len(data) < 8 {
			return nil, false
		}
		return ActivateRequest{
			NSAPI:     data[1] >> 4,
			NAT:       NAT(data[1] & 0x0F),
			DSUT:      data[2],
			MDPCO:     data[3],
			IPAddress: binary.BigEndian.Uint32(data[4:8]),
		}, true
	case ActivateTDSContextAccept:
		if len(data) < 11 {
			return nil, false
		}
		return ActivateAccept{
			NSAPI:               data[1] >> 4,
			NAT:                 NAT(data[1] & 0x0F),
			ReadyTimerSeconds:   data[2],
			StandbyTimerSeconds: data[3],
			IPAddress:           binary.BigEndian.Uint32(data[4:8]),
			MTU:                 binary.BigEndian.Uint16(data[8:10]),
			MDPCO:               data[10],
		}, true
	case ActivateTDSContextReject:
		if len(data) < 3 {
			return nil, false
		}
		return ActivateReject{NSAPI: data[1], RejectCode: RejectReason(data[2])}, true
	case DeactivateTDSContext:
		if len(data) < 3 {
			return nil, false
		}
		return Deactivate{NSAPI: data[1], DeactType: data[2]}, true
	default:
		return nil, false
	}
}
