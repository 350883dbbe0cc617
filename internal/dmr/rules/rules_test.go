// SPDX-License-Identifier: AGPL-3.0-or-later
// DMRHub - Run a DMR network server in a single binary
// Copyright (C) 2023-2026 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package rules_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/acl"
	"github.com/dvmhub/dvmcore/internal/dmr/rules"
	"github.com/stretchr/testify/assert"
)

func TestPeerShouldEgressNilTablePermitsEverything(t *testing.T) {
	t.Parallel()
	assert.True(t, rules.PeerShouldEgress(nil, rules.Packet{Src: 3112345, Dst: 91}))
}

func TestPeerShouldEgressRequiresEnabledSrcAndTG(t *testing.T) {
	t.Parallel()
	table := acl.New(acl.Options{Enforced: true})
	packet := rules.Packet{Src: 3112345, Dst: 91}

	assert.False(t, rules.PeerShouldEgress(table, packet))

	table.SetRadioID(acl.RadioIDEntry{ID: 3112345, Enabled: true})
	assert.False(t, rules.PeerShouldEgress(table, packet))

	table.SetTalkgroupRule(acl.TalkgroupRule{TGID: 91, Enabled: true})
	assert.True(t, rules.PeerShouldEgress(table, packet))
}

func TestPeerShouldIngressRejectsDisabledSrc(t *testing.T) {
	t.Parallel()
	table := acl.New(acl.Options{Enforced: true})
	table.SetTalkgroupRule(acl.TalkgroupRule{TGID: 91, Enabled: true})
	table.SetRadioID(acl.RadioIDEntry{ID: 3112345, Enabled: false})

	assert.False(t, rules.PeerShouldIngress(table, rules.Packet{Src: 3112345, Dst: 91}))
}

func TestPeerShouldIngressUnenforcedTablePermitsUnlistedTalkgroup(t *testing.T) {
	t.Parallel()
	table := acl.New(acl.Options{Enforced: false})
	assert.True(t, rules.PeerShouldIngress(table, rules.Packet{Src: 3112345, Dst: 91}))
}
