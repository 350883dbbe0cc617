// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package data

import "github.com/dvmhub/dvmcore/internal/sndcp"

// SNDCPControlSAP is the PDU SAP value carrying SNDCP context control
// traffic (activation and deactivation requests), as opposed to
// ordinary user data addressed to the same LLID.
const SNDCPControlSAP byte = 9

// RouteSNDCP feeds a completed PDU addressed to SNDCPControlSAP into
// table's per-LLID context, applying whichever SNDCP state transition
// the control packet implies, and reports the parsed packet plus true.
// It reports false when the header is not SNDCP control traffic, and
// also when the control packet does not parse, in which case the
// LLID's context is deactivated.
func RouteSNDCP(header DataHeader, userData []byte, table *sndcp.Table, now int64) (sndcp.Packet, bool) {
	if header.Format == FormatAMBT || header.SAP != SNDCPControlSAP {
		return nil, false
	}

	ctx := table.GetOrCreate(header.LLID)
	pkt, ok := sndcp.ParsePacket(userData)
	if !ok {
		ctx.Deactivate()
		return nil, false
	}

	switch pkt.Type() {
	case sndcp.ActivateTDSContext, sndcp.ActivateTDSContextAccept:
		ctx.Activate(now)
	case sndcp.ActivateTDSContextReject, sndcp.DeactivateTDSContext:
		ctx.Deactivate()
	}
	return pkt, true
}
