// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package kmm

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MessageID identifies a KMM frame variant. The numeric values below
// are dvmcore's own wire assignment (TIA-102.AACA-C reserves this byte
// for the purpose but the literal codepoints aren't load-bearing to
// this package's contract: encode/decode only needs to agree with
// itself and with whatever peer shares this codebase).
type MessageID byte

const (
	MessageIDNull                   MessageID = 0x00
	MessageIDInventoryCommand       MessageID = 0x0A
	MessageIDInventoryResponseHdr   MessageID = 0x0B
	MessageIDRegistrationResponse   MessageID = 0x10
	MessageIDDeregistrationResponse MessageID = 0x11
	MessageIDRekeyCommand           MessageID = 0x20
	MessageIDRekeyAcknowledgment    MessageID = 0x21
	MessageIDUnableToDecrypt        MessageID = 0x30
	MessageIDNak                    MessageID = 0x3F
)

// headerLength is the size in bytes of the common KMM header prefix
// every frame variant shares.
const headerLength = 6

// Header is the fixed-format prefix common to every KMM frame.
type Header struct {
	MessageID      MessageID
	MessageNumber  uint8
	DestinationRSI uint32 // 24-bit Radio Set Identifier, low bits used
	MessageIDExt   uint8
}

// Encode writes the 6-byte header.
func (h Header) Encode() []byte {
	buf := make([]byte, headerLength)
	buf[0] = byte(h.MessageID)
	buf[1] = h.MessageNumber
	buf[2] = byte(h.DestinationRSI >> 16)
	buf[3] = byte(h.DestinationRSI >> 8)
	buf[4] = byte(h.DestinationRSI)
	buf[5] = h.MessageIDExt
	return buf
}

// DecodeHeader parses the 6-byte header prefix of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < headerLength {
		return Header{}, ErrFrameTooShort
	}
	return Header{
		MessageID:      MessageID(data[0]),
		MessageNumber:  data[1],
		DestinationRSI: uint32(data[2])<<16 | uint32(data[3])<<8 | uint32(data[4]),
		MessageIDExt:   data[5],
	}, nil
}

var (
	// ErrFrameTooShort is returned when a buffer is too small to hold a
	// frame's declared fixed fields.
	ErrFrameTooShort = errors.New("kmm: frame too short")
	// ErrUnknownMessageID is returned by Decode for an unrecognized
	// message_id byte.
	ErrUnknownMessageID = errors.New("kmm: unknown message id")
)

// Frame is the common contract every KMM variant implements.
type Frame interface {
	Length() int
	Encode() []byte
	String() string
}

// Decode routes raw bytes to the correct Frame variant by message_id
// (the first header byte).
func Decode(data []byte) (Frame, error) {
	hdr, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	body := data[headerLength:]

	switch hdr.MessageID {
	case MessageIDNull:
		return &NullMessage{Header: hdr}, nil
	case MessageIDInventoryCommand:
		f := &InventoryCommand{Header: hdr}
		return f, f.decodeBody(body)
	case MessageIDInventoryResponseHdr:
		f := &InventoryResponseHeader{Header: hdr}
		return f, f.decodeBody(body)
	case MessageIDRegistrationResponse:
		f := &RegistrationResponse{Header: hdr}
		return f, f.decodeBody(body)
	case MessageIDDeregistrationResponse:
		f := &DeregistrationResponse{Header: hdr}
		return f, f.decodeBody(body)
	case MessageIDRekeyCommand:
		f := &RekeyCommand{Header: hdr}
		return f, f.decodeBody(body)
	case MessageIDRekeyAcknowledgment:
		f := &RekeyAcknowledgment{Header: hdr}
		return f, f.decodeBody(body)
	case MessageIDUnableToDecrypt:
		f := &UnableToDecrypt{Header: hdr}
		return f, f.decodeBody(body)
	case MessageIDNak:
		f := &Nak{Header: hdr}
		return f, f.decodeBody(body)
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownMessageID, byte(hdr.MessageID))
	}
}

// NullMessage carries no body; it is used as a heartbeat/acknowledgment
// placeholder.
type NullMessage struct {
	Header Header
}

func (f *NullMessage) Length() int    { return headerLength }
func (f *NullMessage) Encode() []byte { return f.Header.Encode() }
func (f *NullMessage) String() string {
	return fmt.Sprintf("KMM NULL dest=0x%06X", f.Header.DestinationRSI)
}

// InventoryCommand requests a key inventory report from a unit.
type InventoryCommand struct {
	Header        Header
	InventoryType byte
}

func (f *InventoryCommand) Length() int { return headerLength + 1 }
func (f *InventoryCommand) Encode() []byte {
	return append(f.Header.Encode(), f.InventoryType)
}
func (f *InventoryCommand) decodeBody(body []byte) error {
	if len(body) < 1 {
		return ErrFrameTooShort
	}
	f.InventoryType = body[0]
	return nil
}
func (f *InventoryCommand) String() string {
	return fmt.Sprintf("KMM INVENTORY_CMD type=0x%02X", f.InventoryType)
}

// InventoryResponseHeader begins an inventory report, stating how many
// key-status records follow.
type InventoryResponseHeader struct {
	Header        Header
	InventoryType byte
	Count         uint8
}

func (f *InventoryResponseHeader) Length() int { return headerLength + 2 }
func (f *InventoryResponseHeader) Encode() []byte {
	return append(f.Header.Encode(), f.InventoryType, f.Count)
}
func (f *InventoryResponseHeader) decodeBody(body []byte) error {
	if len(body) < 2 {
		return ErrFrameTooShort
	}
	f.InventoryType = body[0]
	f.Count = body[1]
	return nil
}
func (f *InventoryResponseHeader) String() string {
	return fmt.Sprintf("KMM INVENTORY_RSP_HDR type=0x%02X count=%d", f.InventoryType, f.Count)
}

// RegistrationResponse answers a unit's registration request.
type RegistrationResponse struct {
	Header       Header
	ResponseCode byte
}

func (f *RegistrationResponse) Length() int    { return headerLength + 1 }
func (f *RegistrationResponse) Encode() []byte { return append(f.Header.Encode(), f.ResponseCode) }
func (f *RegistrationResponse) decodeBody(body []byte) error {
	if len(body) < 1 {
		return ErrFrameTooShort
	}
	f.ResponseCode = body[0]
	return nil
}
func (f *RegistrationResponse) String() string {
	return fmt.Sprintf("KMM REG_RSP code=0x%02X", f.ResponseCode)
}

// DeregistrationResponse answers a unit's deregistration request.
type DeregistrationResponse struct {
	Header       Header
	ResponseCode byte
}

func (f *DeregistrationResponse) Length() int { return headerLength + 1 }
func (f *DeregistrationResponse) Encode() []byte {
	return append(f.Header.Encode(), f.ResponseCode)
}
func (f *DeregistrationResponse) decodeBody(body []byte) error {
	if len(body) < 1 {
		return ErrFrameTooShort
	}
	f.ResponseCode = body[0]
	return nil
}
func (f *DeregistrationResponse) String() string {
	return fmt.Sprintf("KMM DEREG_RSP code=0x%02X", f.ResponseCode)
}

// KeyItem is one wrapped TEK within a keyset.
type KeyItem struct {
	SLN        uint16 // Storage Location Number
	KeyID      uint16
	WrappedKey [40]byte
}

func (k KeyItem) encode() []byte {
	buf := make([]byte, 4+40)
	binary.BigEndian.PutUint16(buf[0:2], k.SLN)
	binary.BigEndian.PutUint16(buf[2:4], k.KeyID)
	copy(buf[4:], k.WrappedKey[:])
	return buf
}

func decodeKeyItem(data []byte) (KeyItem, int, error) {
	const itemLen = 4 + 40
	if len(data) < itemLen {
		return KeyItem{}, 0, ErrFrameTooShort
	}
	var k KeyItem
	k.SLN = binary.BigEndian.Uint16(data[0:2])
	k.KeyID = binary.BigEndian.Uint16(data[2:4])
	copy(k.WrappedKey[:], data[4:itemLen])
	return k, itemLen, nil
}

// KeysetItem groups the keys belonging to one crypto algorithm keyset.
type KeysetItem struct {
	KeysetID byte
	AlgID    byte
	Keys     []KeyItem
}

func (ks KeysetItem) encode() []byte {
	buf := []byte{ks.KeysetID, ks.AlgID, byte(len(ks.Keys))}
	for _, k := range ks.Keys {
		buf = append(buf, k.encode()...)
	}
	return buf
}

func decodeKeysetItem(data []byte) (KeysetItem, int, error) {
	if len(data) < 3 {
		return KeysetItem{}, 0, ErrFrameTooShort
	}
	ks := KeysetItem{KeysetID: data[0], AlgID: data[1]}
	count := int(data[2])
	off := 3
	for i := 0; i < count; i++ {
		k, n, err := decodeKeyItem(data[off:])
		if err != nil {
			return KeysetItem{}, 0, err
		}
		ks.Keys = append(ks.Keys, k)
		off += n
	}
	return ks, off, nil
}

// RekeyCommand delivers one or more keysets of wrapped TEKs to a unit.
type RekeyCommand struct {
	Header  Header
	Keysets []KeysetItem
}

func (f *RekeyCommand) Length() int {
	n := headerLength + 1
	for _, ks := range f.Keysets {
		n += len(ks.encode())
	}
	return n
}

func (f *RekeyCommand) Encode() []byte {
	buf := append(f.Header.Encode(), byte(len(f.Keysets)))
	for _, ks := range f.Keysets {
		buf = append(buf, ks.encode()...)
	}
	return buf
}

func (f *RekeyCommand) decodeBody(body []byte) error {
	if len(body) < 1 {
		return ErrFrameTooShort
	}
	count := int(body[0])
	off := 1
	for i := 0; i < count; i++ {
		ks, n, err := decodeKeysetItem(body[off:])
		if err != nil {
			return err
		}
		f.Keysets = append(f.Keysets, ks)
		off += n
	}
	return nil
}

func (f *RekeyCommand) String() string {
	return fmt.Sprintf("KMM REKEY_CMD keysets=%d", len(f.Keysets))
}

// RekeyAcknowledgment confirms a unit applied (or rejected) a
// RekeyCommand.
type RekeyAcknowledgment struct {
	Header   Header
	KeysetID byte
	Status   byte
}

func (f *RekeyAcknowledgment) Length() int { return headerLength + 2 }
func (f *RekeyAcknowledgment) Encode() []byte {
	return append(f.Header.Encode(), f.KeysetID, f.Status)
}
func (f *RekeyAcknowledgment) decodeBody(body []byte) error {
	if len(body) < 2 {
		return ErrFrameTooShort
	}
	f.KeysetID = body[0]
	f.Status = body[1]
	return nil
}
func (f *RekeyAcknowledgment) String() string {
	return fmt.Sprintf("KMM REKEY_ACK keyset=0x%02X status=0x%02X", f.KeysetID, f.Status)
}

// keyFormatTEK mirrors the body_format bit that decides whether an
// UnableToDecrypt body carries a TEK-format key reference.
const keyFormatTEK = 0x01

// UnableToDecrypt reports that a unit could not decrypt received
// traffic: it names the algorithm/key that failed and, when body_format
// indicates a TEK, the message indicator in use. Per the open question
// about asymmetric encode/decode offsets in the reference
// implementation, this package always decodes decryptInfoFmt at offset
// 1 into the body and only reads MI when keyFormatTEK is set, and
// Encode is written to match that same layout so round trips agree
// with themselves regardless of what any external asymmetric encoder
// produced historically.
type UnableToDecrypt struct {
	Header         Header
	BodyFormat     byte
	DecryptInfoFmt byte
	AlgID          byte
	KeyID          uint16
	MI             []byte // 9 bytes, present only if BodyFormat&keyFormatTEK != 0
}

func (f *UnableToDecrypt) Length() int {
	n := headerLength + 2 + 1 + 2
	if f.BodyFormat&keyFormatTEK != 0 {
		n += 9
	}
	return n
}

func (f *UnableToDecrypt) Encode() []byte {
	buf := append(f.Header.Encode(), f.BodyFormat, f.DecryptInfoFmt, f.AlgID)
	kid := make([]byte, 2)
	binary.BigEndian.PutUint16(kid, f.KeyID)
	buf = append(buf, kid...)
	if f.BodyFormat&keyFormatTEK != 0 {
		mi := make([]byte, 9)
		copy(mi, f.MI)
		buf = append(buf, mi...)
	}
	return buf
}

func (f *UnableToDecrypt) decodeBody(body []byte) error {
	if len(body) < 5 {
		return ErrFrameTooShort
	}
	f.BodyFormat = body[0]
	f.DecryptInfoFmt = body[1]
	f.AlgID = body[2]
	f.KeyID = binary.BigEndian.Uint16(body[3:5])
	if f.BodyFormat&keyFormatTEK != 0 {
		if len(body) < 5+9 {
			return ErrFrameTooShort
		}
		f.MI = append([]byte{}, body[5:14]...)
	}
	return nil
}

func (f *UnableToDecrypt) String() string {
	return fmt.Sprintf("KMM UNABLE_TO_DECRYPT alg=0x%02X key=0x%04X", f.AlgID, f.KeyID)
}

// Nak reports KMM-level rejection of a prior command.
type Nak struct {
	Header     Header
	ReasonCode byte
}

func (f *Nak) Length() int    { return headerLength + 1 }
func (f *Nak) Encode() []byte { return append(f.Header.Encode(), f.ReasonCode) }
func (f *Nak) decodeBody(body []byte) error {
	if len(body) < 1 {
		return ErrFrameTooShort
	}
	f.ReasonCode = body[0]
	return nil
}
func (f *Nak) String() string {
	return fmt.Sprintf("KMM NAK reason=0x%02X", f.ReasonCode)
}
