// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package kmm

import (
	"crypto/aes"
	"crypto/cipher"
)

// macKeyConst is the fixed 16-byte constant TIA-102.AACA-C XORs into the
// AES-encrypted zero block during CBC-MAC key derivation, distinguishing
// the derived MAC key from the raw TEK it is derived from.
var macKeyConst = [16]byte{
	0x5C, 0x5C, 0x5C, 0x5C, 0x5C, 0x5C, 0x5C, 0x5C,
	0x5C, 0x5C, 0x5C, 0x5C, 0x5C, 0x5C, 0x5C, 0x5C,
}

// deriveCBCMACKey derives the AES-CBC-MAC signing key from a TEK: the
// TEK AES-encrypts an all-zero block, the result is XORed against
// macKeyConst, and that value is itself used as a key to AES-encrypt
// the same all-zero block a second time.
func deriveCBCMACKey(tek []byte) ([]byte, error) {
	block, err := aes.NewCipher(tek)
	if err != nil {
		return nil, err
	}
	var zero, tmp [16]byte
	block.Encrypt(tmp[:], zero[:])

	var mixed [16]byte
	for i := range mixed {
		mixed[i] = tmp[i] ^ macKeyConst[i]
	}

	block2, err := aes.NewCipher(mixed[:])
	if err != nil {
		return nil, err
	}
	var macKey [16]byte
	block2.Encrypt(macKey[:], zero[:])
	return macKey[:], nil
}

// CBCMAC computes the 8-byte AES-CBC-MAC trailer TIA-102.AACA-C's
// ENH_MAC format uses: derive the CBC-MAC key from tek, CBC-encrypt
// frame under a zero IV, and return the first 8 bytes of the final
// ciphertext block.
func CBCMAC(tek, frame []byte) ([]byte, error) {
	macKey, err := deriveCBCMACKey(tek)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(macKey)
	if err != nil {
		return nil, err
	}

	padded := padZero(frame, aes.BlockSize)
	var iv [16]byte
	cbc := cipher.NewCBCEncrypter(block, iv[:])
	out := make([]byte, len(padded))
	cbc.CryptBlocks(out, padded)

	last := out[len(out)-aes.BlockSize:]
	return append([]byte{}, last[:8]...), nil
}

func padZero(data []byte, blockSize int) []byte {
	rem := len(data) % blockSize
	if rem == 0 {
		return data
	}
	return append(append([]byte{}, data...), make([]byte, blockSize-rem)...)
}

// cmacRb is the constant NIST SP 800-38B uses to derive CMAC subkeys
// for a 128-bit block cipher.
const cmacRb = 0x87

func cmacSubkeys(block cipher.Block) (k1, k2 [16]byte) {
	var zero, l [16]byte
	block.Encrypt(l[:], zero[:])

	k1 = shiftLeftXorRb(l)
	k2 = shiftLeftXorRb(k1)
	return k1, k2
}

func shiftLeftXorRb(in [16]byte) [16]byte {
	var out [16]byte
	var carry byte
	for i := 15; i >= 0; i-- {
		out[i] = (in[i] << 1) | carry
		carry = in[i] >> 7
	}
	msbSet := in[0]&0x80 != 0
	if msbSet {
		out[15] ^= cmacRb
	}
	return out
}

// CMAC computes the standard NIST AES-CMAC (SP 800-38B) over message
// under an AES-256 key, returning the full 16-byte tag. KMM's ENH_MAC
// trailer uses the first 8 bytes.
func CMAC(key, message []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	k1, k2 := cmacSubkeys(block)

	n := (len(message) + 15) / 16
	complete := len(message) > 0 && len(message)%16 == 0
	if n == 0 {
		n = 1
		complete = false
	}

	var lastBlock [16]byte
	if complete {
		copy(lastBlock[:], message[(n-1)*16:n*16])
		for i := range lastBlock {
			lastBlock[i] ^= k1[i]
		}
	} else {
		start := (n - 1) * 16
		tail := message[start:]
		copy(lastBlock[:], tail)
		lastBlock[len(tail)] = 0x80
		for i := range lastBlock {
			lastBlock[i] ^= k2[i]
		}
	}

	var x [16]byte
	for i := 0; i < n-1; i++ {
		var y [16]byte
		for j := 0; j < 16; j++ {
			y[j] = x[j] ^ message[i*16+j]
		}
		block.Encrypt(x[:], y[:])
	}
	var y [16]byte
	for j := 0; j < 16; j++ {
		y[j] = x[j] ^ lastBlock[j]
	}
	block.Encrypt(x[:], y[:])
	return x[:], nil
}
