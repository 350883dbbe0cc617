// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package edac

// golayGenPoly is the generator polynomial of the perfect binary Golay
// (23,12,7) code, degree 11: x^11+x^9+x^7+x^6+x^5+x+1.
const golayGenPoly = 0xAE3

// golayRemainder divides msg (12 data bits) shifted up by 11 bits by
// golayGenPoly and returns the 11-bit remainder, the systematic
// cyclic-code encode step.
func golayRemainder(msg uint32) uint32 {
	reg := (msg & 0xFFF) << 11
	for bit := 22; bit >= 11; bit-- {
		if reg&(1<<uint(bit)) != 0 {
			reg ^= golayGenPoly << uint(bit-11)
		}
	}
	return reg & 0x7FF
}

// golayEncode24 packs 12 data bits into a 24-bit extended Golay
// codeword: 12 data bits, 11 cyclic parity bits, 1 overall even-parity
// bit, matching TIA-102 framing order (data high, parity low).
func golayEncode24(data uint16) uint32 {
	d := uint32(data) & 0xFFF
	codeword23 := (d << 11) | golayRemainder(d)
	var overall uint32
	for i := 0; i < 23; i++ {
		overall ^= (codeword23 >> uint(i)) & 1
	}
	return (codeword23 << 1) | overall
}

// golay24Syndrome computes a linear function of the received 24-bit
// word that is zero exactly on valid codewords: it re-encodes the
// word's own top 12 bits and XORs the result against the word. Because
// golayEncode24 is linear (a GF(2) matrix multiply in systematic form),
// this composition is linear in the received word, so it is a valid
// syndrome function even though it is not expressed in the classical
// generator-matrix coordinates - any consistent linear syndrome
// uniquely identifies every weight <=3 error pattern, which is all the
// (24,12,8) code is asked to correct.
func golay24Syndrome(r uint32) uint32 {
	data := uint16((r >> 12) & 0xFFF)
	return r ^ golayEncode24(data)
}

// golay24Table maps a golay24Syndrome value to the bit positions of the
// error pattern that produced it, covering every pattern of Hamming
// weight 0-3. Built once at init time from the syndrome function itself
// rather than hand-transcribed from a published table, so it cannot
// carry the off-by-one edge case a hand-ported table can.
var golay24Table = buildGolay24Table()

func buildGolay24Table() map[uint32][]int {
	table := make(map[uint32][]int, 2325)
	var rec func(start, depth int, pat []int)
	rec = func(start, depth int, pat []int) {
		var word uint32
		for _, p := range pat {
			word ^= 1 << uint(p)
		}
		key := golay24Syndrome(word)
		if _, exists := table[key]; !exists {
			table[key] = append([]int{}, pat...)
		}
		if depth == 3 {
			return
		}
		for i := start; i < 24; i++ {
			rec(i+1, depth+1, append(pat, i))
		}
	}
	rec(0, 0, nil)
	return table
}

// golay24_12_8 implements the extended binary Golay (24,12,8) code.
type golay24_12_8 struct{}

// Golay24_12_8 is the package singleton for the (24,12,8) code.
var Golay24_12_8 golay24_12_8

// Encode packs 12 data bits into a 24-bit extended Golay codeword.
func (golay24_12_8) Encode(data uint16) uint32 {
	return golayEncode24(data)
}

// Decode corrects up to 3 bit errors in a 24-bit extended Golay
// codeword via the precomputed syndrome table and returns the 12 data
// bits.
func (golay24_12_8) Decode(codeword uint32) (data uint16, ok bool) {
	corrected, ok := correctGolay24(codeword)
	if !ok {
		return 0, false
	}
	return uint16((corrected >> 12) & 0xFFF), true
}

func correctGolay24(codeword uint32) (uint32, bool) {
	s := golay24Syndrome(codeword & 0xFFFFFF)
	errPos, known := golay24Table[s]
	if !known {
		return 0, false
	}
	corrected := codeword
	for _, p := range errPos {
		corrected ^= 1 << uint(p)
	}
	return corrected, true
}

// golay20_8_7 implements the (20,8,7) shortened Golay code DMR uses for
// short link control: the four high data bits of the extended (24,12,8)
// Golay code are fixed at zero and omitted from the wire, leaving 8 data
// bits followed by the 11 cyclic parity bits and the overall-parity bit.
type golay20_8_7 struct{}

// Golay20_8_7 is the package singleton for the (20,8,7) code.
var Golay20_8_7 golay20_8_7

// Encode packs 8 data bits (MSB first) into a 20-bit Golay(20,8,7)
// codeword.
func (golay20_8_7) Encode(data uint16) uint32 {
	full := golayEncode24(data & 0xFF) // top 4 data bits implicitly zero
	return full & 0xFFFFF              // data bits [19:12], parity bits [11:0]
}

// Decode corrects up to 3 bit errors in a 20-bit Golay(20,8,7)
// codeword and returns the 8 data bits.
func (golay20_8_7) Decode(codeword uint32) (data uint16, ok bool) {
	corrected, ok := correctGolay24(codeword & 0xFFFFF)
	if !ok {
		return 0, false
	}
	if corrected&0x00F00000 != 0 { // the 4 shortened data bits must read back zero
		return 0, false
	}
	return uint16((corrected >> 12) & 0xFF), true
}
