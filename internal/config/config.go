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

// Package config defines dvmcore's typed configuration: a single Config
// value loaded once (via github.com/USA-RedDragon/configulator in
// cmd/dvmcored) and passed explicitly into every constructor that needs
// part of it. Nothing here is read from a process global or an env var
// directly — that indirection is exactly what made the teacher's original
// atomic.Value-backed GetConfig() singleton hard to test in isolation.
package config

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// Config is the complete, validated configuration for one dvmcore
// instance.
type Config struct {
	LogLevel     LogLevel
	Secret       string
	PasswordSalt string

	HTTP     HTTP
	DMR      DMR
	Database Database
	Redis    Redis
	SMTP     SMTP
	Metrics  Metrics
	PProf    PProf

	Jitter   JitterOptions
	Crypto   CryptoOptions
	ACL      ACLOptions
	PDU      PDUOptions
	SNDCP    SNDCPOptions
	Peer     PeerOptions
	PeerList PeerListOptions
}

// HTTP configures the administrative/status HTTP listener.
type HTTP struct {
	Bind string
	Port int
	// CanonicalHost is the externally-visible base URL used to build
	// absolute links (e.g. in the setup wizard); it has no bearing on
	// what address the listener actually binds.
	CanonicalHost string
	RobotsTXT     RobotsTXT
}

// RobotsTXT configures how the HTTP server answers /robots.txt.
type RobotsTXT struct {
	Mode    RobotsTXTMode
	Content string
}

// DMR groups the two DMR peer-facing listeners: the MMDVM-protocol
// repeater port and the OpenBridge inter-network bridge.
type DMR struct {
	MMDVM      MMDVM
	OpenBridge OpenBridge
}

// MMDVM configures the MMDVM-protocol (DMRD/RPTL/RPTC/...) UDP listener.
type MMDVM struct {
	Bind string
	Port int
}

// OpenBridge configures the OpenBridge inter-FNE bridge listener.
type OpenBridge struct {
	Enabled bool
	Bind    string
	Port    int
}

// Database configures the peer-list/ACL persistence backend.
type Database struct {
	Driver   DatabaseDriver
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// Redis configures the distributed KV/pub-sub backend used once more
// than one FNE instance shares a deployment; when Enabled is false both
// internal/kv and internal/pubsub fall back to their in-memory backends.
type Redis struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
}

// SMTP configures outbound notification email.
type SMTP struct {
	Enabled    bool
	Host       string
	Port       int
	AuthMethod SMTPAuthMethod
	TLS        SMTPTLS
	From       string
	Username   string
	Password   string
}

// Metrics configures the Prometheus metrics listener and, when
// OTLPEndpoint is set, the OpenTelemetry trace exporter shared across
// the FNE peer-connection and PDU-assembler spans.
type Metrics struct {
	Enabled      bool
	Bind         string
	Port         int
	OTLPEndpoint string
}

// PProf configures the optional pprof debug listener.
type PProf struct {
	Enabled bool
	Bind    string
	Port    int
}

// JitterOptions configures internal/jitter.New's per-stream reorder
// window and frame timeout.
type JitterOptions struct {
	// MaxBufferSize is the reorder-window depth; zero means use
	// jitter.DefaultMaxBufferSize.
	MaxBufferSize int
	// MaxWaitTimeMicros is the per-frame timeout in microseconds; zero
	// means use jitter.DefaultMaxWaitTime.
	MaxWaitTimeMicros int64
}

// CryptoOptions configures internal/netcrypto's AES datagram wrapping
// and batched send queue.
type CryptoOptions struct {
	// BatchSize is the maximum number of wrapped datagrams the send
	// queue accumulates before flushing to the transport.
	BatchSize int
	// FlushMillis bounds how long a partial batch waits before it is
	// flushed anyway, so a quiet stream doesn't stall behind BatchSize.
	FlushMillis int
}

// ACLOptions configures internal/acl's radio-ID/talkgroup enforcement;
// it mirrors acl.Options's field set so a loaded Config can be handed
// to acl.New with a plain type conversion, acl.New(acl.Options(config.ACL)).
type ACLOptions struct {
	Enforced  bool
	AllowZero bool
}

// PDUOptions configures internal/dmr/data's and internal/p25/data's PDU
// assembler retransmit ceiling.
type PDUOptions struct {
	// RetryCeiling is the number of verbatim ACK_RETRY resends allowed
	// before a stream is reported NACK_UNDELIVERABLE; zero means use
	// each package's own built-in ceiling.
	RetryCeiling int
}

// SNDCPOptions configures the SNDCP context state machine's
// READY/STANDBY timers.
type SNDCPOptions struct {
	ReadyTimeoutSeconds   int
	StandbyTimeoutSeconds int
}

// PeerOptions configures internal/fne's peer-connection ping-timeout
// sweep.
type PeerOptions struct {
	PingTimeoutSeconds int
}

// PeerListOptions configures internal/lookups's flat-file-backed peer
// identity table.
type PeerListOptions struct {
	// Filename is the flat file lookups.New reloads from; see §4.8's
	// peer-list persistence format.
	Filename string
	// ReloadSeconds is how often the table reloads Filename from disk;
	// zero disables periodic reload.
	ReloadSeconds int
}

// GetDerivedSecret derives a 32-byte AES/session key from Secret and
// PasswordSalt via PBKDF2-SHA256, matching the teacher's original
// session-secret derivation (4096 iterations, 32-byte output).
func (c Config) GetDerivedSecret() []byte {
	const iterations = 4096
	const keyLen = 32
	return pbkdf2.Key([]byte(c.Secret), []byte(c.PasswordSalt), iterations, keyLen, sha256.New)
}
