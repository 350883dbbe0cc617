// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package netcrypto wraps FNE inter-peer datagrams in AES-256, block
// by block, and queues the encrypted datagrams for batched send so a
// transport can hand a whole burst to the kernel in one syscall instead
// of one sendto per datagram.
package netcrypto

import (
	"crypto/aes"
	"encoding/binary"
	"errors"

	"github.com/dvmhub/dvmcore/internal/queue"
)

// Magic is the 2-byte big-endian marker prefixed to every wrapped
// datagram, identifying it as AES-wrapped FNE traffic before any
// decryption is attempted.
const Magic uint16 = 0xC8A2

const blockSize = aes.BlockSize // 16

var (
	// ErrBadMagic is returned when a datagram's leading bytes aren't the
	// expected wrapper magic.
	ErrBadMagic = errors.New("netcrypto: bad magic")
	// ErrShortDatagram is returned when a datagram is too small to contain
	// a magic plus at least one cipher block.
	ErrShortDatagram = errors.New("netcrypto: datagram shorter than one block")
	// ErrMisalignedDatagram is returned when the encrypted portion of a
	// datagram isn't a whole number of cipher blocks.
	ErrMisalignedDatagram = errors.New("netcrypto: encrypted portion not block-aligned")
	// ErrBadLength is returned when a decrypted length field doesn't fit
	// within the decrypted block data.
	ErrBadLength = errors.New("netcrypto: decrypted length out of range")
)

// Wrap pads payload with a 2-byte big-endian length prefix, zero-pads
// to a 16-byte boundary, encrypts it block-by-block with AES-256-ECB
// under key, and prepends the magic marker.
func Wrap(key, payload []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plain := make([]byte, 2+len(payload))
	binary.BigEndian.PutUint16(plain, uint16(len(payload)))
	copy(plain[2:], payload)
	if rem := len(plain) % blockSize; rem != 0 {
		plain = append(plain, make([]byte, blockSize-rem)...)
	}

	cipherText := make([]byte, len(plain))
	for off := 0; off < len(plain); off += blockSize {
		block.Encrypt(cipherText[off:off+blockSize], plain[off:off+blockSize])
	}

	out := make([]byte, 2+len(cipherText))
	binary.BigEndian.PutUint16(out, Magic)
	copy(out[2:], cipherText)
	return out, nil
}

// Unwrap validates the magic marker, decrypts the remaining blocks
// under key, and returns the original payload.
func Unwrap(key, datagram []byte) ([]byte, error) {
	if len(datagram) < 2+blockSize {
		return nil, ErrShortDatagram
	}
	if binary.BigEndian.Uint16(datagram) != Magic {
		return nil, ErrBadMagic
	}
	cipherText := datagram[2:]
	if len(cipherText)%blockSize != 0 {
		return nil, ErrMisalignedDatagram
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plain := make([]byte, len(cipherText))
	for off := 0; off < len(cipherText); off += blockSize {
		block.Decrypt(plain[off:off+blockSize], cipherText[off:off+blockSize])
	}

	if len(plain) < 2 {
		return nil, ErrBadLength
	}
	n := int(binary.BigEndian.Uint16(plain))
	if n < 0 || 2+n > len(plain) {
		return nil, ErrBadLength
	}
	return plain[2 : 2+n], nil
}

// SendQueue batches outgoing wrapped datagrams per destination address
// so a transport loop can drain and send a whole burst at once (the
// Go analogue of a single sendmmsg() call per peer).
type SendQueue struct {
	q *queue.Queue
}

// NewSendQueue creates an empty batched send queue.
func NewSendQueue() *SendQueue {
	return &SendQueue{q: queue.NewQueue()}
}

// Enqueue wraps payload for key (under the AES key for that peer) and
// appends it to addr's pending batch.
func (s *SendQueue) Enqueue(addr string, key, payload []byte) error {
	wrapped, err := Wrap(key, payload)
	if err != nil {
		return err
	}
	_, err = s.q.Push(addr, wrapped)
	return err
}

// DrainBatch removes and returns every datagram queued for addr, ready
// to be handed to the transport as a single batch.
func (s *SendQueue) DrainBatch(addr string) [][]byte {
	return s.q.Drain(addr)
}
