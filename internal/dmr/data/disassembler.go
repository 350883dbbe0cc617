// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package data

import "github.com/dvmhub/dvmcore/internal/edac"

// Progress reports a Disassembler's state after each consumed block.
type Progress int

const (
	// Incomplete means more data blocks are still expected.
	Incomplete Progress = iota
	// Complete means the packet (or header-only response) finished
	// reassembling; Result reports whether its CRC-32 validated.
	Complete
	// HeaderOnly means a header block was consumed and at least one
	// data block is still expected.
	HeaderOnly
	// Error means the block failed to decode in a way reassembly
	// cannot recover from (a malformed or non-header reset block).
	Error
)

// Disassembler reassembles a PDU data header and its following data
// blocks into a user-data buffer. A single Disassembler handles one
// packet at a time; call Disassemble with reset=true to start the
// next one.
type Disassembler struct {
	header      DataHeader
	haveHeader  bool
	blockLen    int
	blocks      map[int][]byte
	received    int
	undecodable int
	userData    []byte
	crcValid    bool
}

// NewDisassembler returns an empty Disassembler.
func NewDisassembler() *Disassembler {
	return &Disassembler{}
}

// UndecodableBlocks reports how many blocks of the current packet
// failed FEC and were zero-filled.
func (d *Disassembler) UndecodableBlocks() int {
	return d.undecodable
}

// Header returns the most recently consumed header.
func (d *Disassembler) Header() DataHeader {
	return d.header
}

// Result returns the reassembled user-data buffer (including any
// second header it carried) and whether its CRC-32 validated. Only
// meaningful after Disassemble has returned Complete.
func (d *Disassembler) Result() ([]byte, bool) {
	return d.userData, d.crcValid
}

// Disassemble consumes one air block. With reset=true, block is
// treated as a header block: it is FEC-decoded, CRC-validated, and
// parsed into a DataHeader, discarding any packet still being
// assembled (invariant: a response header mid-assembly terminates the
// prior packet). Subsequent calls with reset=false consume data
// blocks until BlocksToFollow have arrived.
func (d *Disassembler) Disassemble(block []byte, reset bool) Progress {
	if reset {
		header, ok := DecodeDataHeader(block)
		if !ok {
			return Error
		}

		d.header = header
		d.haveHeader = true
		d.blocks = make(map[int][]byte, header.BlocksToFollow)
		d.received = 0
		d.undecodable = 0
		d.userData = nil
		d.crcValid = false

		d.blockLen = unconfirmedBlockLength
		if header.Format == FormatConfirmed {
			d.blockLen = confirmedBlockLength
		}

		if header.Format == FormatResponse || header.BlocksToFollow == 0 {
			return Complete
		}
		return HeaderOnly
	}

	if !d.haveHeader {
		return Error
	}

	confirmed := d.header.Format == FormatConfirmed
	serial := d.received
	if db, ok := DecodeDataBlock(block, confirmed, d.blockLen); ok {
		if confirmed {
			serial = int(db.Serial)
		}
		d.blocks[serial] = db.Data
	} else {
		// Zero-fill so later offsets stay stable; a block that fails
		// its own FEC carries no recoverable serial number, so it is
		// placed at the next reception slot.
		d.undecodable++
		d.blocks[serial] = make([]byte, d.blockLen)
	}
	d.received++

	if d.received >= int(d.header.BlocksToFollow) {
		d.assemble()
		return Complete
	}
	return Incomplete
}

func (d *Disassembler) assemble() {
	padded := make([]byte, 0, int(d.header.BlocksToFollow)*d.blockLen)
	for i := 0; i < int(d.header.BlocksToFollow); i++ {
		padded = append(padded, d.blocks[i]...)
	}

	packetLength := d.header.PacketLength()
	padLength := int(d.header.PadLength)
	if packetLength < 0 || packetLength+padLength+4 > len(padded) {
		d.userData = padded
		d.crcValid = false
		return
	}

	userBytes := padded[:packetLength]
	crcBytes := padded[packetLength+padLength : packetLength+padLength+4]
	d.userData = append([]byte{}, userBytes...)
	d.crcValid = edac.CRC32Check(append(append([]byte{}, userBytes...), crcBytes...))
}
