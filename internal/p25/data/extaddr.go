// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package data

// ExtendedAddress is the ARP-style second header an EXT_ADDR-SAP PDU
// carries at the start of its user area: the originating LLID. 4
// bytes wide for a confirmed packet, 12 for unconfirmed.
type ExtendedAddress struct {
	Confirmed  bool
	SourceLLID uint32 // 24 bits
}

// Encode returns this extended-address header's on-wire bytes.
func (e ExtendedAddress) Encode() []byte {
	n := 4
	if !e.Confirmed {
		n = 12
	}
	out := make([]byte, n)
	out[0] = byte(e.SourceLLID >> 16)
	out[1] = byte(e.SourceLLID >> 8)
	out[2] = byte(e.SourceLLID)
	return out
}

// DecodeExtendedAddress recovers an ExtendedAddress from its on-wire
// bytes, sized per confirmed.
func DecodeExtendedAddress(raw []byte, confirmed bool) ExtendedAddress {
	return ExtendedAddress{
		Confirmed:  confirmed,
		SourceLLID: uint32(raw[0])<<16 | uint32(raw[1])<<8 | uint32(raw[2]),
	}
}

// AuxiliaryES is the encryption-sync block an ENC_USER_DATA- or
// ENC_KMM-SAP PDU carries at the start of its user area.
type AuxiliaryES struct {
	MI    [9]byte
	AlgID byte
	KeyID uint16
	EXSAP byte
}

// Encode returns this auxiliary encryption-sync block's 13 on-wire
// bytes: MI(9) | algId(1) | kId(2) | EXSAP(1).
func (a AuxiliaryES) Encode() []byte {
	out := make([]byte, 13)
	copy(out[0:9], a.MI[:])
	out[9] = a.AlgID
	out[10] = byte(a.KeyID >> 8)
	out[11] = byte(a.KeyID)
	out[12] = a.EXSAP
	return out
}

// DecodeAuxiliaryES recovers an AuxiliaryES from its 13 on-wire bytes.
func DecodeAuxiliaryES(raw []byte) AuxiliaryES {
	var a AuxiliaryES
	copy(a.MI[:], raw[0:9])
	a.AlgID = raw[9]
	a.KeyID = uint16(raw[10])<<8 | uint16(raw[11])
	a.EXSAP = raw[12]
	return a
}
