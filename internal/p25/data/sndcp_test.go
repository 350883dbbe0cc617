// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package data_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/p25/data"
	"github.com/dvmhub/dvmcore/internal/sndcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteSNDCPActivatesContextOnRequest(t *testing.T) {
	t.Parallel()
	table := sndcp.NewTable()
	ctx := table.GetOrCreate(4200)
	require.True(t, ctx.GrantChannel(0))

	header := data.DataHeader{Format: data.FormatConfirmed, SAP: data.SNDCPControlSAP, LLID: 4200}
	req := sndcp.ActivateRequest{NSAPI: 1, NAT: sndcp.NATIPV4Dynamic, IPAddress: 0x0A0A010A}

	pkt, ok := data.RouteSNDCP(header, sndcp.Encode(req), table, 1)
	require.True(t, ok)
	assert.Equal(t, req, pkt)
	assert.Equal(t, sndcp.Standby, ctx.State())
}

func TestRouteSNDCPDeactivatesContextOnRequest(t *testing.T) {
	t.Parallel()
	table := sndcp.NewTable()
	ctx := table.GetOrCreate(1)
	ctx.GrantChannel(0)
	ctx.Activate(0)

	header := data.DataHeader{Format: data.FormatConfirmed, SAP: data.SNDCPControlSAP, LLID: 1}
	req := sndcp.Deactivate{NSAPI: 1, DeactType: 1}

	_, ok := data.RouteSNDCP(header, sndcp.Encode(req), table, 2)
	require.True(t, ok)
	assert.Equal(t, sndcp.Closed, ctx.State())
}

func TestRouteSNDCPIgnoresNonControlSAP(t *testing.T) {
	t.Parallel()
	table := sndcp.NewTable()
	header := data.DataHeader{Format: data.FormatConfirmed, SAP: 0, LLID: 1}

	_, ok := data.RouteSNDCP(header, []byte{0x00}, table, 0)
	assert.False(t, ok)
	_, exists := table.Get(1)
	assert.False(t, exists)
}

func TestRouteSNDCPResetsContextOnUndecodablePacket(t *testing.T) {
	t.Parallel()
	table := sndcp.NewTable()
	ctx := table.GetOrCreate(9)
	ctx.GrantChannel(0)
	ctx.Activate(0)

	header := data.DataHeader{Format: data.FormatConfirmed, SAP: data.SNDCPControlSAP, LLID: 9}
	_, ok := data.RouteSNDCP(header, nil, table, 1)
	assert.False(t, ok)
	assert.Equal(t, sndcp.Closed, ctx.State())
}
