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

// Package rules decides whether a traffic packet may leave (egress) or
// enter (ingress) a peer, by consulting that peer's ACL table rather
// than a database-backed rule schema: a peer only sees traffic whose
// source radio ID and destination talkgroup both clear its acl.Table.
package rules

import "github.com/dvmhub/dvmcore/internal/acl"

// Packet is the minimal traffic shape rule evaluation needs: a source
// radio ID and a destination talkgroup.
type Packet struct {
	Src uint32
	Dst uint32
}

// PeerShouldEgress reports whether packet may be forwarded out to a
// peer, given that peer's ACL table. A nil table permits everything,
// talkgroup 0 included, which an unenforced acl.Table still rejects
// unless AllowZero is set.
func PeerShouldEgress(table *acl.Table, packet Packet) bool {
	if table == nil {
		return true
	}
	return table.ValidateSrcID(packet.Src) && table.ValidateTGID(packet.Dst)
}

// PeerShouldIngress reports whether packet may be accepted from a peer,
// given that peer's ACL table.
func PeerShouldIngress(table *acl.Table, packet Packet) bool {
	if table == nil {
		return true
	}
	return table.ValidateSrcID(packet.Src) && table.ValidateTGID(packet.Dst)
}
