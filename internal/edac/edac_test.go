// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package edac_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/edac"
	"github.com/stretchr/testify/assert"
)

func TestCRCCCITT16RoundTrip(t *testing.T) {
	t.Parallel()
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x00, 0x00}
	edac.CRCCCITT16Append(data, edac.CRCMaskCSBK)
	assert.True(t, edac.CRCCCITT16Check(data, edac.CRCMaskCSBK))
	data[0] ^= 0xFF
	assert.False(t, edac.CRCCCITT16Check(data, edac.CRCMaskCSBK))
}

func TestCRC32RoundTrip(t *testing.T) {
	t.Parallel()
	payload := []byte("dvmcore pdu payload")
	framed := edac.CRC32Append(payload)
	assert.True(t, edac.CRC32Check(framed))
	framed[0] ^= 0x01
	assert.False(t, edac.CRC32Check(framed))
}

func TestHamming15_11_3SingleBitCorrection(t *testing.T) {
	t.Parallel()
	data := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0}
	code := edac.Hamming15_11_3.Encode(data)
	corrupt := append([]byte{}, code...)
	corrupt[4] ^= 1

	got, ok := edac.Hamming15_11_3.Decode(corrupt)
	assert.True(t, ok)
	assert.Equal(t, data, got)
}

func TestHamming8_4_4DetectsDoubleError(t *testing.T) {
	t.Parallel()
	data := []byte{1, 0, 1, 1}
	code := edac.Hamming8_4_4.Encode(data)
	corrupt := append([]byte{}, code...)
	corrupt[0] ^= 1
	corrupt[1] ^= 1

	_, ok := edac.Hamming8_4_4.Decode(corrupt)
	assert.False(t, ok, "a SECDED code must refuse to guess on a detected double error")
}

func TestGolay24_12_8CorrectsTripleError(t *testing.T) {
	t.Parallel()
	want := uint16(0xABC)
	code := edac.Golay24_12_8.Encode(want)
	code ^= (1 << 3) | (1 << 10) | (1 << 20)

	got, ok := edac.Golay24_12_8.Decode(code)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGolay20_8_7CorrectsSingleError(t *testing.T) {
	t.Parallel()
	want := uint16(0x5A)
	code := edac.Golay20_8_7.Encode(want)
	code ^= 1 << 7

	got, ok := edac.Golay20_8_7.Decode(code)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestQR16_7_6CorrectsDoubleError(t *testing.T) {
	t.Parallel()
	want := byte(0x55)
	code := edac.QR16_7_6.Encode(want)
	code ^= (1 << 2) | (1 << 9)

	got, ok := edac.QR16_7_6.Decode(code)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestBPTC19696RoundTrip(t *testing.T) {
	t.Parallel()
	var data [96]byte
	for i := range data {
		data[i] = byte(i % 2)
	}

	air := edac.BPTC19696Encode(data)
	got, ok := edac.BPTC19696Decode(air)
	assert.True(t, ok)
	assert.Equal(t, data, got)
}

func TestTrellis12RoundTrip(t *testing.T) {
	t.Parallel()
	data := []byte{1, 0, 1, 1, 0, 0, 1, 1, 0, 1}
	coded := edac.Trellis12.Encode12(data)
	decoded := edac.Trellis12.Decode12(coded)
	assert.Equal(t, data, decoded)
}

func TestTrellis34RoundTrip(t *testing.T) {
	t.Parallel()
	data := []byte{1, 0, 1, 1, 0, 0}
	coded := edac.Encode34(data)
	decoded := edac.Decode34(coded)
	assert.Equal(t, data, decoded)
}

func TestReedSolomon24_12_13CorrectsErrors(t *testing.T) {
	t.Parallel()
	data := make([]byte, 12)
	for i := range data {
		data[i] = byte(i + 1)
	}
	code := edac.RS24_12_13.Encode(data)

	corrupt := append([]byte{}, code...)
	corrupt[0] ^= 0x2A
	corrupt[5] ^= 0x15

	got, ok := edac.RS24_12_13.Decode(corrupt)
	assert.True(t, ok)
	assert.Equal(t, data, got)
}
