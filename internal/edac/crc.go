// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package edac implements the bit-accurate forward-error-correction
// primitives (Hamming, Golay, BPTC, trellis, QR and Reed-Solomon codes)
// and CRC checks used by the DMR, P25 and NXDN channel codings. Every
// primitive is a pure, allocation-free function pair: Encode turns a
// data word into a code word, Decode attempts to recover the data word
// and reports whether the result is trustworthy.
package edac

import "hash/crc32"

// CRCMask values XOR the computed CRC-CCITT16 before it is written to
// the wire; DMR CSBK and multi-block-control headers each use a
// different fixed mask so that a CSBK and an MBC header with otherwise
// identical payloads never produce the same on-air CRC bytes.
type CRCMask uint16

const (
	// CRCMaskNone applies no masking (P25 TSBK/TDULC use this).
	CRCMaskNone CRCMask = 0x0000
	// CRCMaskCSBK is applied to a standalone DMR CSBK.
	CRCMaskCSBK CRCMask = 0xA5A5
	// CRCMaskMBCHeader is applied to a DMR multi-block-control header.
	CRCMaskMBCHeader CRCMask = 0xAAAA
	// CRCMaskMBCContinuation is applied to DMR MBC continuation blocks.
	CRCMaskMBCContinuation CRCMask = 0x5555
	// CRCMaskVoiceLC is applied to a DMR Voice LC header/terminator burst.
	CRCMaskVoiceLC CRCMask = 0x9696
)

const crcCCITT16Poly = 0x1021

// CRCCCITT16 computes the CRC-CCITT16 (x^16+x^12+x^5+1, initial value
// 0xFFFF) over data, MSB-first, matching the TIA-102/ETSI DMR framing
// convention. Callers pass the full buffer excluding the trailing two
// CRC bytes.
func CRCCCITT16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ crcCCITT16Poly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// CRCCCITT16Append computes the masked CRC-CCITT16 over data[:len(data)-2]
// and writes it big-endian into the final two bytes of data.
func CRCCCITT16Append(data []byte, mask CRCMask) {
	n := len(data)
	if n < 2 {
		return
	}
	crc := CRCCCITT16(data[:n-2]) ^ uint16(mask)
	data[n-2] = byte(crc >> 8)
	data[n-1] = byte(crc)
}

// CRCCCITT16Check recomputes the masked CRC-CCITT16 over data[:len(data)-2]
// and reports whether it matches the trailing two bytes.
func CRCCCITT16Check(data []byte, mask CRCMask) bool {
	n := len(data)
	if n < 2 {
		return false
	}
	want := CRCCCITT16(data[:n-2]) ^ uint16(mask)
	got := uint16(data[n-2])<<8 | uint16(data[n-1])
	return want == got
}

// CRC32 computes the IEEE 802.3 CRC-32 over data. PDU user data uses
// this checksum computed over the unpadded user bytes; the result is
// relocated to sit after the pad bytes on the wire (see the PDU
// assembler). hash/crc32's IEEE table is bit-for-bit the polynomial
// TIA-102 PDU framing specifies, so there is no ecosystem library that
// does anything different here.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// CRC32Append computes the CRC-32 over data and appends it, big-endian,
// as four new bytes.
func CRC32Append(data []byte) []byte {
	crc := CRC32(data)
	out := make([]byte, len(data)+4)
	copy(out, data)
	out[len(data)+0] = byte(crc >> 24)
	out[len(data)+1] = byte(crc >> 16)
	out[len(data)+2] = byte(crc >> 8)
	out[len(data)+3] = byte(crc)
	return out
}

// CRC32Check reports whether the last four bytes of data are the
// big-endian CRC-32 of the bytes preceding them.
func CRC32Check(data []byte) bool {
	n := len(data)
	if n < 4 {
		return false
	}
	want := CRC32(data[:n-4])
	got := uint32(data[n-4])<<24 | uint32(data[n-3])<<16 | uint32(data[n-2])<<8 | uint32(data[n-1])
	return want == got
}
