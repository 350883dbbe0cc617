// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package edac

// bptcInterleave is the DMR BPTC(196,96) bit interleaver constant: air
// position i carries matrix-order bit (i*181) mod 196.
const bptcInterleave = 181

const (
	bptcRows    = 13
	bptcCols    = 15
	bptcTotal   = bptcRows * bptcCols // 195, plus one reserved lead bit = 196
	bptcDataRow = 9                   // rows 0-8 carry row-coded data, rows 9-12 are column parity
)

// bptcDeinterleave returns the 196 bits of air in natural matrix order
// (index 0 is the reserved bit, always 0; indices 1..195 are row-major
// matrix(row,col) = 1+row*bptcCols+col).
func bptcDeinterleave(air [196]byte) [196]byte {
	var natural [196]byte
	for i := 0; i < 196; i++ {
		natural[i] = air[(i*bptcInterleave)%196]
	}
	return natural
}

func bptcInterleaveBits(natural [196]byte) [196]byte {
	var air [196]byte
	for i := 0; i < 196; i++ {
		air[(i*bptcInterleave)%196] = natural[i]
	}
	return air
}

// BPTC19696Encode encodes 96 payload bits into the 196-bit interleaved
// block product turbo code DMR uses for embedded full link control and
// CACH signalling: a 13x15 matrix whose first 9 rows are
// Hamming(15,11,3) row codewords (11 data bits, 3 of which are reserved
// and fixed to zero, padding 96 payload bits to the 99 row-data
// positions) and whose 15 columns are each a Hamming(13,9,3) column
// codeword (the first 9 rows supply data, the last 4 rows are column
// parity), preceded by one reserved bit that is always 0.
func BPTC19696Encode(data [96]byte) [196]byte {
	var rowData [bptcDataRow][11]byte
	idx := 0
	for r := 0; r < bptcDataRow; r++ {
		for c := 0; c < 11; c++ {
			if idx < 96 {
				rowData[r][c] = data[idx]
				idx++
			}
		}
	}

	var matrix [bptcRows][bptcCols]byte
	for r := 0; r < bptcDataRow; r++ {
		code := Hamming15_11_3.Encode(rowData[r][:])
		for c := 0; c < bptcCols; c++ {
			matrix[r][c] = code[c]
		}
	}
	for c := 0; c < bptcCols; c++ {
		col := make([]byte, 9)
		for r := 0; r < bptcDataRow; r++ {
			col[r] = matrix[r][c]
		}
		code := Hamming13_9_3.Encode(col)
		for r := 0; r < bptcRows; r++ {
			matrix[r][c] = code[r]
		}
	}

	var natural [196]byte
	natural[0] = 0
	for r := 0; r < bptcRows; r++ {
		for c := 0; c < bptcCols; c++ {
			natural[1+r*bptcCols+c] = matrix[r][c]
		}
	}
	return bptcInterleaveBits(natural)
}

// BPTC19696Decode recovers the 96 payload bits from a received 196-bit
// interleaved block, correcting single-bit errors in each row and
// column codeword. ok is false if any row or column is uncorrectable.
func BPTC19696Decode(air [196]byte) (data [96]byte, ok bool) {
	natural := bptcDeinterleave(air)

	var matrix [bptcRows][bptcCols]byte
	for r := 0; r < bptcRows; r++ {
		for c := 0; c < bptcCols; c++ {
			matrix[r][c] = natural[1+r*bptcCols+c]
		}
	}

	for c := 0; c < bptcCols; c++ {
		col := make([]byte, bptcRows)
		for r := 0; r < bptcRows; r++ {
			col[r] = matrix[r][c]
		}
		fixed, colOK := Hamming13_9_3.Decode(col)
		if !colOK {
			return data, false
		}
		for r := 0; r < bptcDataRow; r++ {
			matrix[r][c] = fixed[r]
		}
	}

	idx := 0
	for r := 0; r < bptcDataRow; r++ {
		rowFixed, rowOK := Hamming15_11_3.Decode(matrix[r][:])
		if !rowOK {
			return data, false
		}
		for c := 0; c < 11 && idx < 96; c++ {
			data[idx] = rowFixed[c]
			idx++
		}
	}
	return data, true
}
