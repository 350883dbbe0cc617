// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package channel

import "github.com/dvmhub/dvmcore/internal/edac"

// EMB is the embedded signalling field carried in the two side bursts
// of a DMR voice superframe: colour code, a privacy indicator, and the
// link-control-start-stop field, QR(16,7,6) protected, plus a trailing
// reserved bit the air interface always sends as 0 and which rides
// alongside the QR codeword unprotected.
type EMB struct {
	ColourCode byte // 4 bits
	PI         bool
	LCSS       byte // 2 bits
	Reserved   bool // always false on transmit; QR(16,7,6) doesn't cover it
}

// Encode returns the 16-bit QR(16,7,6) codeword for this EMB.
func (e EMB) Encode() uint16 {
	data := byte(e.ColourCode&0xF) << 3
	if e.PI {
		data |= 0x04
	}
	data |= e.LCSS & 0x3
	return edac.QR16_7_6.Encode(data)
}

// DecodeEMB recovers an EMB from a 16-bit QR(16,7,6) codeword,
// correcting up to two bit errors.
func DecodeEMB(codeword uint16) (EMB, bool) {
	data, ok := edac.QR16_7_6.Decode(codeword)
	if !ok {
		return EMB{}, false
	}
	return EMB{
		ColourCode: (data >> 3) & 0xF,
		PI:         data&0x04 != 0,
		LCSS:       data & 0x3,
		Reserved:   false,
	}, true
}
