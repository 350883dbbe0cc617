// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package edac

// Package-level Reed-Solomon arithmetic over GF(64), generated by the
// primitive polynomial x^6+x+1 (0x43). P25 trunking and DMR/NXDN
// parameter messages each shorten this single field to a different
// (n,k) pair; the 7 parameter sets below are exactly those shortenings,
// all sharing one generic systematic encoder/decoder.

const (
	gfOrder = 64
	gfPoly  = 0x43
)

// gfExp is the antilog table, doubled to avoid wraparound in multiply.
// Both tables come from a variable initializer so that they are filled
// before the package-level codes below build their generators from them.
var gfExp, gfLog = buildGFTables()

func buildGFTables() (exp [2 * gfOrder]byte, log [gfOrder]byte) {
	x := 1
	for i := 0; i < gfOrder-1; i++ {
		exp[i] = byte(x)
		log[x] = byte(i)
		x <<= 1
		if x&gfOrder != 0 {
			x ^= gfPoly
		}
	}
	for i := gfOrder - 1; i < 2*gfOrder; i++ {
		exp[i] = exp[i-(gfOrder-1)]
	}
	return exp, log
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+(gfOrder-1)-int(gfLog[b])]
}

func gfInv(a byte) byte {
	return gfExp[(gfOrder-1)-int(gfLog[a])]
}

func gfPow(a byte, p int) byte {
	if a == 0 {
		if p == 0 {
			return 1
		}
		return 0
	}
	e := (int(gfLog[a]) * p) % (gfOrder - 1)
	if e < 0 {
		e += gfOrder - 1
	}
	return gfExp[e]
}

// gfPolyMul multiplies two polynomials represented as coefficient
// slices, highest degree first.
func gfPolyMul(p, q []byte) []byte {
	out := make([]byte, len(p)+len(q)-1)
	for i, pc := range p {
		if pc == 0 {
			continue
		}
		for j, qc := range q {
			out[i+j] ^= gfMul(pc, qc)
		}
	}
	return out
}

// gfPolyEval evaluates p (highest degree first) at x.
func gfPolyEval(p []byte, x byte) byte {
	var y byte
	if len(p) > 0 {
		y = p[0]
	}
	for _, c := range p[1:] {
		y = gfMul(y, x) ^ c
	}
	return y
}

// ReedSolomon is a systematic RS(n,k) code over GF(64) generated by
// roots alpha^0..alpha^(n-k-1).
type ReedSolomon struct {
	N, K int
	gen  []byte
}

func newRS(n, k int) *ReedSolomon {
	gen := []byte{1}
	for i := 0; i < n-k; i++ {
		gen = gfPolyMul(gen, []byte{1, gfPow(2, i)})
	}
	return &ReedSolomon{N: n, K: k, gen: gen}
}

var (
	// RS24_12_13 is the P25 trunking TSBK parameter parity code.
	RS24_12_13 = newRS(24, 12)
	// RS24_16_9 is a lighter-parity P25 variant.
	RS24_16_9 = newRS(24, 16)
	// RS36_20_17 protects longer P25 multi-block messages.
	RS36_20_17 = newRS(36, 20)
	// RS52_30_23 is the P25 ISCH/HDU parameter code.
	RS52_30_23 = newRS(52, 30)
	// RS46_26_21 is used for NXDN parameter messages.
	RS46_26_21 = newRS(46, 26)
	// RS45_26_20 is used for DMR parameter messages.
	RS45_26_20 = newRS(45, 26)
	// RS44_16_29 is the heaviest-parity variant, for short high-value fields.
	RS44_16_29 = newRS(44, 16)
)

// Encode returns the N-symbol systematic codeword (data symbols
// followed by N-K parity symbols) for the K data symbols in data, each
// symbol a 6-bit value in the low bits of a byte.
func (rs *ReedSolomon) Encode(data []byte) []byte {
	work := make([]byte, rs.N)
	copy(work, data[:rs.K])

	for i := 0; i < rs.K; i++ {
		coef := work[i]
		if coef == 0 {
			continue
		}
		for j, gc := range rs.gen {
			work[i+j] ^= gfMul(coef, gc)
		}
	}
	copy(work, data[:rs.K])
	return work
}

// syndromes computes S_i = r(alpha^i) for i=0..n-k-1.
func (rs *ReedSolomon) syndromes(r []byte) []byte {
	nk := rs.N - rs.K
	s := make([]byte, nk)
	poly := make([]byte, len(r))
	copy(poly, r) // highest degree first: treat r[0] as coefficient of x^(n-1)
	for i := 0; i < nk; i++ {
		s[i] = gfPolyEval(poly, gfPow(2, i))
	}
	return s
}

func syndromesAllZero(s []byte) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// berlekampMassey computes the error-locator polynomial from the
// syndromes.
func berlekampMassey(s []byte) []byte {
	c := make([]byte, len(s)+1)
	b := make([]byte, len(s)+1)
	c[0], b[0] = 1, 1
	l, m := 0, 1
	var bCoef byte = 1

	for n := 0; n < len(s); n++ {
		var delta byte
		delta = s[n]
		for i := 1; i <= l; i++ {
			delta ^= gfMul(c[i], s[n-i])
		}
		if delta == 0 {
			m++
			continue
		}
		t := append([]byte{}, c...)
		coef := gfDiv(delta, bCoef)
		for i := 0; i+m < len(c); i++ {
			c[i+m] ^= gfMul(coef, b[i])
		}
		if 2*l <= n {
			l = n + 1 - l
			b = t
			bCoef = delta
			m = 1
		} else {
			m++
		}
	}
	return c[:l+1]
}

// chienSearch finds the roots of the error locator (degree = number of
// errors) by brute-force evaluation over all nonzero field elements,
// returning the error positions as indices from the end of the
// codeword (i.e. exponent of the root's inverse).
func chienSearch(locator []byte, n int) []int {
	var positions []int
	for i := 0; i < n; i++ {
		x := gfPow(2, i)
		// Evaluate locator(x^-1): roots of sigma(x) are alpha^{-pos}.
		xinv := gfInv(x)
		var y byte
		power := byte(1)
		for _, c := range locator {
			y ^= gfMul(c, power)
			power = gfMul(power, xinv)
		}
		if y == 0 {
			positions = append(positions, i)
		}
	}
	return positions
}

func reverse(p []byte) []byte {
	out := make([]byte, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// forney computes error magnitudes at the given positions.
func forney(s, locator []byte, positions []int) map[int]byte {
	// Error evaluator omega(x) = S(x)*sigma(x) mod x^(n-k)
	sigma := locator
	omegaFull := gfPolyMul(reverse(s), reverse(sigma))
	nk := len(s)
	omega := omegaFull
	if len(omega) > nk {
		omega = omega[len(omega)-nk:]
	}

	sigmaDeriv := formalDerivative(reverse(sigma))

	mags := make(map[int]byte, len(positions))
	for _, pos := range positions {
		xi := gfPow(2, pos)
		xiInv := gfInv(xi)
		numerator := gfPolyEval(omega, xiInv)
		denominator := gfPolyEval(sigmaDeriv, xiInv)
		if denominator == 0 {
			continue
		}
		// First root is alpha^0, so Forney's X^(1-b) factor is X itself.
		mags[pos] = gfMul(xi, gfDiv(numerator, denominator))
	}
	return mags
}

// formalDerivative returns the formal derivative of p (highest-degree
// first). Over GF(2^m) the derivative of x^power is power*x^(power-1)
// with the integer coefficient reduced mod 2: the term survives only
// when power is odd.
func formalDerivative(p []byte) []byte {
	deg := len(p) - 1
	res := make([]byte, 0, deg)
	for i, c := range p {
		power := deg - i
		if power == 0 {
			continue
		}
		if power%2 == 1 {
			res = append(res, c)
		} else {
			res = append(res, 0)
		}
	}
	return res
}

// Decode corrects up to (N-K)/2 symbol errors in a received N-symbol
// word and returns the K data symbols. ok is false when the locator
// degree exceeds the correction capacity or a root could not be found
// for every declared error.
func (rs *ReedSolomon) Decode(received []byte) (data []byte, ok bool) {
	s := rs.syndromes(received)
	if syndromesAllZero(s) {
		return append([]byte{}, received[:rs.K]...), true
	}

	locator := berlekampMassey(s)
	errCount := len(locator) - 1
	if errCount <= 0 || errCount > (rs.N-rs.K)/2 {
		return nil, false
	}

	positions := chienSearch(locator, rs.N)
	if len(positions) != errCount {
		return nil, false
	}

	mags := forney(s, locator, positions)
	corrected := append([]byte{}, received...)
	for _, pos := range positions {
		mag, found := mags[pos]
		if !found {
			return nil, false
		}
		idx := rs.N - 1 - pos
		if idx < 0 || idx >= rs.N {
			return nil, false
		}
		corrected[idx] ^= mag
	}
	return corrected[:rs.K], true
}
