// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package edac

// HammingCode is a systematic binary Hamming code described by its
// parity-check matrix. Column j of H gives the syndrome contributed by
// bit j; a single-bit error at position j is identified by a syndrome
// equal to column j. Codes with an appended overall parity bit (the
// (n,k,4) SECDED variants) set Extended true so Decode can also flag
// uncorrectable double-bit errors.
type HammingCode struct {
	N, K     int
	h        [][]byte // R x N, R = N-K (minus one if Extended)
	Extended bool
}

// columnsForR returns the binary representations 1..2^r-1 as bit
// vectors of length r, MSB first - the classical Hamming parity-check
// column set.
func columnsForR(r int) [][]byte {
	cols := make([][]byte, 0, (1<<uint(r))-1)
	for v := 1; v < (1 << uint(r)); v++ {
		col := make([]byte, r)
		for i := 0; i < r; i++ {
			col[i] = byte((v >> uint(r-1-i)) & 1)
		}
		cols = append(cols, col)
	}
	return cols
}

// newHamming builds the (n,k,3) code whose parity-check matrix takes
// the first n-r columns of weight two or more (in natural order) for the
// data positions, followed by the r unit columns for the parity
// positions, so that parity bit i is checked by row i alone and Encode
// can stay systematic. This covers the perfect (15,11), (7,4), (31,26)
// codes and their shortened derivatives (13,9), (10,6), (17,12) (the
// last needs r=5 since 2^5-1=31 >= 17).
func newHamming(n, r int) *HammingCode {
	var cols, units [][]byte
	for _, col := range columnsForR(r) {
		weight := 0
		for _, b := range col {
			weight += int(b)
		}
		if weight == 1 {
			units = append([][]byte{col}, units...)
		} else if len(cols) < n-r {
			cols = append(cols, col)
		}
	}
	cols = append(cols, units...)
	h := make([][]byte, r)
	for i := range h {
		h[i] = make([]byte, n)
		for j, col := range cols {
			h[i][j] = col[i]
		}
	}
	return &HammingCode{N: n, K: n - r, h: h}
}

// extend appends an overall even-parity bit, turning a distance-3 code
// into the corresponding SECDED distance-4 code.
func (c *HammingCode) extend() *HammingCode {
	r := len(c.h)
	h := make([][]byte, r+1)
	for i := 0; i < r; i++ {
		h[i] = append(append([]byte{}, c.h[i]...), 0)
	}
	parity := make([]byte, c.N+1)
	for i := range parity {
		parity[i] = 1
	}
	h[r] = parity
	return &HammingCode{N: c.N + 1, K: c.K, h: h, Extended: true}
}

var (
	// Hamming15_11_3 is the unshortened (15,11,3) DMR voice/data sync code.
	Hamming15_11_3 = newHamming(15, 4)
	// Hamming13_9_3 is the (13,9,3) shortened variant used for DMR embedded signalling.
	Hamming13_9_3 = newHamming(13, 4)
	// Hamming10_6_3 is the (10,6,3) shortened variant used for DMR short bursts.
	Hamming10_6_3 = newHamming(10, 4)
	// Hamming17_12_3 is the (17,12,3) variant used for NXDN FACCH/SACCH framing.
	Hamming17_12_3 = newHamming(17, 5)
	// Hamming16_11_4 is Hamming15_11_3 extended with an overall parity bit (SECDED).
	Hamming16_11_4 = Hamming15_11_3.extend()
	// Hamming8_4_4 is the (8,4,4) SECDED code used for DMR slot type / NXDN FACCH1.
	Hamming8_4_4 = newHamming(7, 3).extend()
)

// Encode returns the N-bit systematic codeword (data bits followed by
// parity bits, high bit first) for the K data bits in data.
func (c *HammingCode) Encode(data []byte) []byte {
	r := len(c.h)
	code := make([]byte, c.N)
	copy(code, data[:c.K])
	for i := 0; i < r; i++ {
		var p byte
		for j := 0; j < c.K+i; j++ {
			p ^= c.h[i][j] & code[j]
		}
		code[c.K+i] = p
	}
	return code
}

// syndrome computes H*code^T over GF(2).
func (c *HammingCode) syndrome(code []byte) []byte {
	r := len(c.h)
	s := make([]byte, r)
	for i := 0; i < r; i++ {
		var acc byte
		for j := 0; j < c.N; j++ {
			acc ^= c.h[i][j] & code[j]
		}
		s[i] = acc
	}
	return s
}

// Decode corrects a single-bit error (and, for Extended codes,
// distinguishes an uncorrectable double-bit error from no error) and
// returns the K data bits. ok is false when the block could not be
// trusted.
func (c *HammingCode) Decode(code []byte) (data []byte, ok bool) {
	work := append([]byte{}, code...)
	s := c.syndrome(work)

	zero := true
	for _, b := range s {
		if b != 0 {
			zero = false
			break
		}
	}

	if c.Extended {
		overallParity := work[c.N-1]
		var recomputed byte
		for _, b := range work[:c.N-1] {
			recomputed ^= b
		}
		coreSyndromeZero := true
		for _, b := range s[:len(s)-1] {
			if b != 0 {
				coreSyndromeZero = false
				break
			}
		}
		if zero || coreSyndromeZero { // clean, or only the overall-parity bit flipped
			return work[:c.K], true
		}
		if !coreSyndromeZero && recomputed^overallParity == 1 {
			pos := matchColumn(c.h[:len(c.h)-1], s[:len(s)-1], c.N-1)
			if pos < 0 {
				return nil, false
			}
			work[pos] ^= 1
			return work[:c.K], true
		}
		// Syndrome nonzero but parity consistent (or vice versa): two
		// errors occurred, uncorrectable.
		return nil, false
	}

	if zero {
		return work[:c.K], true
	}
	pos := matchColumn(c.h, s, c.N)
	if pos < 0 {
		return nil, false
	}
	work[pos] ^= 1
	return work[:c.K], true
}

func matchColumn(h [][]byte, s []byte, n int) int {
	for j := 0; j < n; j++ {
		match := true
		for i := range h {
			if h[i][j] != s[i] {
				match = false
				break
			}
		}
		if match {
			return j
		}
	}
	return -1
}
