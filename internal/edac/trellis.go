// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package edac

// Trellis implements the P25 constraint-length-4, rate-1/2 convolutional
// code (TIA-102.BAAA) and its rate-3/4 punctured derivative. Both codes
// share the same 8-state trellis and generator polynomials; the 3/4
// rate simply discards a fixed subset of the rate-1/2 output bits and
// the decoder re-inserts erasures at those positions before running
// Viterbi.
type Trellis struct {
	states int
	gen    []uint8 // generator polynomials, one per output bit
}

// rate12Gen are the two generator polynomials (G0, G1) of the P25
// 8-state rate-1/2 trellis, constraint length 4.
var rate12Gen = []uint8{0xD, 0xF} // 1101, 1111 over 4 register bits

// Trellis12 is the rate-1/2 code. States represent the last 3 shifted
// input bits (constraint length 4: 3 state bits + 1 new bit feed the
// generator polynomials below).
var Trellis12 = &Trellis{states: 8, gen: rate12Gen}

// puncture34 selects, out of every 4 rate-1/2 output bits produced by 2
// input bits, the 3 that are kept on the air for the rate-3/4 code; the
// 4th is dropped and re-inserted as an erasure before decoding.
var puncture34 = []bool{true, true, true, false}

// Encode12 runs data bits through the rate-1/2 convolutional encoder
// and returns 2*len(data) coded bits.
func (t *Trellis) Encode12(data []byte) []byte {
	out := make([]byte, 0, 2*len(data))
	var shiftReg uint8
	for _, bit := range data {
		shiftReg = ((shiftReg << 1) | (bit & 1)) & 0xF
		for _, g := range t.gen {
			out = append(out, parity(shiftReg&g))
		}
	}
	return out
}

// Encode34 punctures the rate-1/2 output down to 3 coded bits for
// every 2 input bits.
func Encode34(data []byte) []byte {
	full := Trellis12.Encode12(data)
	out := make([]byte, 0, len(full)*3/4)
	for i, b := range full {
		if puncture34[i%4] {
			out = append(out, b)
		}
	}
	return out
}

func parity(b uint8) byte {
	var p uint8
	for b != 0 {
		p ^= b & 1
		b >>= 1
	}
	return byte(p)
}

// trellisPath is one surviving Viterbi path.
type trellisPath struct {
	bits []byte
	cost int
}

// Decode12 Viterbi-decodes coded (an even-length rate-1/2 bitstream,
// possibly containing -1-valued erasures represented as 2 in the byte
// slice) back to the original data bits.
func (t *Trellis) Decode12(coded []byte) []byte {
	n := len(coded) / 2
	paths := make([]trellisPath, t.states)
	for s := range paths {
		paths[s] = trellisPath{bits: nil, cost: 1 << 30}
	}
	paths[0].cost = 0

	for i := 0; i < n; i++ {
		r0, r1 := coded[2*i], coded[2*i+1]
		next := make([]trellisPath, t.states)
		for s := range next {
			next[s] = trellisPath{cost: 1 << 30}
		}
		for s := 0; s < t.states; s++ {
			if paths[s].cost >= 1<<30 {
				continue
			}
			for _, bit := range []byte{0, 1} {
				ns := ((s << 1) | int(bit)) & (t.states - 1)
				shiftReg := uint8((s << 1) | int(bit))
				var o0, o1 byte
				o0 = parity(shiftReg & t.gen[0])
				o1 = parity(shiftReg & t.gen[1])
				cost := paths[s].cost + hammingCost(o0, r0) + hammingCost(o1, r1)
				if cost < next[ns].cost {
					nb := append(append([]byte{}, paths[s].bits...), bit)
					next[ns] = trellisPath{bits: nb, cost: cost}
				}
			}
		}
		paths = next
	}

	best := 0
	for s := 1; s < t.states; s++ {
		if paths[s].cost < paths[best].cost {
			best = s
		}
	}
	return paths[best].bits
}

// hammingCost scores a received symbol against an expected bit; an
// erasure (value 2) costs a fixed moderate penalty rather than a hard
// mismatch so the Viterbi search can route around it.
func hammingCost(expected, received byte) int {
	if received == 2 {
		return 1
	}
	if expected == received {
		return 0
	}
	return 2
}

// Decode34 re-inserts an erasure after every 3 received bits (undoing
// the puncture34 pattern) and runs the rate-1/2 Viterbi decoder over
// the reconstructed rate-1/2 stream.
func Decode34(coded []byte) []byte {
	groups := len(coded) / 3
	full := make([]byte, 0, groups*4)
	for g := 0; g < groups; g++ {
		full = append(full, coded[3*g], coded[3*g+1], coded[3*g+2], 2)
	}
	return Trellis12.Decode12(full)
}
