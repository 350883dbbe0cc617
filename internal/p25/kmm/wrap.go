// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package kmm implements P25 Key Management Messages: the frame family
// TIA-102.AACA-C defines for OTAR key distribution (inventory, rekey,
// registration, unable-to-decrypt, NAK), their AES-based MAC trailer,
// and the AES key wrap used to carry Traffic Encryption Keys inside a
// REKEY_CMD.
package kmm

import (
	"crypto/aes"
	"encoding/binary"
	"errors"
)

// wrapIV is the default integrity-check register TIA-102.AACA-C
// §14.3.3 wraps a TEK under, matching RFC 3394's default IV.
const wrapIV = 0xA6A6A6A6A6A6A6A6

// wrapRounds is the number of passes over the 4 64-bit blocks of a
// 32-byte TEK, the fixed 6 passes of the RFC 3394 wrap (24 AES
// operations in all).
const wrapRounds = 6

var (
	// ErrBadWrapLength is returned when a wrapped container isn't 40 bytes.
	ErrBadWrapLength = errors.New("kmm: wrapped TEK must be 40 bytes")
	// ErrBadKeyLength is returned when a TEK plaintext isn't 32 bytes.
	ErrBadKeyLength = errors.New("kmm: TEK plaintext must be 32 bytes")
	// ErrIntegrityCheck is returned when unwrap's recovered ICV register
	// doesn't match the expected constant, meaning the KEK or ciphertext
	// is wrong.
	ErrIntegrityCheck = errors.New("kmm: TEK unwrap integrity check failed")
)

// WrapTEK wraps a 32-byte plaintext traffic-encryption key under kek (a
// 32-byte AES-256 key-encryption key) into the 40-byte
// magic(2)|wrapped(32)|check(6) container TIA-102.AACA-C §14.3.3
// describes - structurally the 8-byte integrity register A followed by
// 4 wrapped 8-byte blocks, same shape as RFC 3394 key wrap.
func WrapTEK(kek, plaintext []byte) ([]byte, error) {
	if len(plaintext) != 32 {
		return nil, ErrBadKeyLength
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	const n = 4
	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], plaintext[i*8:i*8+8])
	}

	a := uint64(wrapIV)
	buf := make([]byte, 16)
	for j := 0; j < wrapRounds; j++ {
		for i := 0; i < n; i++ {
			binary.BigEndian.PutUint64(buf[:8], a)
			copy(buf[8:], r[i][:])
			block.Encrypt(buf, buf)

			a = binary.BigEndian.Uint64(buf[:8]) ^ uint64(j*n+i+1)
			copy(r[i][:], buf[8:])
		}
	}

	out := make([]byte, 40)
	binary.BigEndian.PutUint64(out[:8], a)
	for i := 0; i < n; i++ {
		copy(out[8+i*8:8+i*8+8], r[i][:])
	}
	return out, nil
}

// UnwrapTEK inverts WrapTEK, returning the 32-byte plaintext TEK.
func UnwrapTEK(kek, wrapped []byte) ([]byte, error) {
	if len(wrapped) != 40 {
		return nil, ErrBadWrapLength
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	const n = 4
	a := binary.BigEndian.Uint64(wrapped[:8])
	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], wrapped[8+i*8:8+i*8+8])
	}

	buf := make([]byte, 16)
	for j := wrapRounds - 1; j >= 0; j-- {
		for i := n - 1; i >= 0; i-- {
			a ^= uint64(j*n + i + 1)
			binary.BigEndian.PutUint64(buf[:8], a)
			copy(buf[8:], r[i][:])
			block.Decrypt(buf, buf)

			a = binary.BigEndian.Uint64(buf[:8])
			copy(r[i][:], buf[8:])
		}
	}

	if a != wrapIV {
		return nil, ErrIntegrityCheck
	}

	out := make([]byte, 32)
	for i := 0; i < n; i++ {
		copy(out[i*8:i*8+8], r[i][:])
	}
	return out, nil
}
