// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package sndcp implements the Sub-Network Dependent Convergence
// Protocol context state machine: one instance per logical link ID
// (LLID), tracking a P25 data subscriber's session from first PDU
// context activation request through data idle and eventual teardown.
// It is its own package, alongside internal/jitter and internal/acl,
// since the state machine and its control-PDU framing carry no P25
// data header/block concerns of their own.
package sndcp

// State is one state of a per-LLID SNDCP context.
type State int

const (
	// Closed is the initial, uninitialized state: no context exists
	// for this LLID yet.
	Closed State = iota
	// Idle is an initialized context with no active data session.
	Idle
	// ReadyS is the brief window after a channel grant during which
	// the subscriber is expected to send a context activation request
	// before the ready timer reclaims the channel.
	ReadyS
	// Standby is an activated context with no data flowing; the
	// standby timer governs how long the context survives without
	// traffic before being torn down.
	Standby
	// Ready is an activated context with data actively flowing.
	Ready
)

func (s State) String() string {
	switch s {
	case Closed:
		return "CLOSED"
	case Idle:
		return "IDLE"
	case ReadyS:
		return "READY_S"
	case Standby:
		return "STANDBY"
	case Ready:
		return "READY"
	default:
		return "UNKNOWN"
	}
}

const (
	// ReadyTimeout is how long a context may sit in READY_S awaiting
	// a context activation request before it reverts to IDLE.
	ReadyTimeout = int64(10_000_000)
	// StandbyTimeout is how long a context may sit in STANDBY without
	// data activity before it is torn down.
	StandbyTimeout = int64(60_000_000)
)

// Context is one LLID's SNDCP session state machine. Timer deadlines
// are absolute microsecond timestamps in the caller's clock; zero
// means no timer is running.
type Context struct {
	LLID uint32

	state           State
	readyDeadline   int64
	standbyDeadline int64
}

// NewContext returns a fresh, uninitialized context for llID.
func NewContext(llID uint32) *Context {
	return &Context{LLID: llID, state: Closed}
}

// State reports the context's current state.
func (c *Context) State() State {
	return c.state
}

// Initialize moves a CLOSED context to IDLE, as happens the first
// time an LLID is seen. Calling it again on an already-initialized
// context is a no-op.
func (c *Context) Initialize() {
	if c.state == Closed {
		c.state = Idle
	}
}

// GrantChannel moves an IDLE context to READY_S and starts the ready
// timer, as happens when the control channel grants this LLID a
// traffic channel and awaits its context activation request.
func (c *Context) GrantChannel(now int64) bool {
	if c.state != Idle {
		return false
	}
	c.state = ReadyS
	c.readyDeadline = now + ReadyTimeout
	return true
}

// Activate accepts a context activation request received while in
// READY_S, stopping the ready timer and moving to STANDBY with the
// standby timer running.
func (c *Context) Activate(now int64) bool {
	if c.state != ReadyS {
		return false
	}
	c.state = Standby
	c.readyDeadline = 0
	c.standbyDeadline = now + StandbyTimeout
	return true
}

// DataActivity records inbound or outbound user data, moving a
// STANDBY context to READY and stopping the standby timer. A context
// already in READY simply stays there.
func (c *Context) DataActivity() {
	if c.state == Standby {
		c.state = Ready
		c.standbyDeadline = 0
	}
}

// DataIdle records that user data has stopped flowing, moving a READY
// context back to STANDBY and restarting the standby timer.
func (c *Context) DataIdle(now int64) {
	if c.state == Ready {
		c.state = Standby
		c.standbyDeadline = now + StandbyTimeout
	}
}

// Deactivate tears a context down on an explicit deactivation request,
// or on an unhandled/undecodable SNDCP PDU, returning it to CLOSED.
func (c *Context) Deactivate() {
	c.state = Closed
	c.readyDeadline = 0
	c.standbyDeadline = 0
}

// Expiry is the result of a CheckTimers call: which timer fired, if
// any, and whether it implies a call-termination frame must be sent.
type Expiry int

const (
	// NoExpiry means no timer fired.
	NoExpiry Expiry = iota
	// ReadyExpired means the READY_S timer fired: the context reverts
	// to IDLE and a call-termination frame for this LLID is due.
	ReadyExpired
	// StandbyExpired means the STANDBY timer fired: the context is
	// torn down to CLOSED and a call-termination frame for this LLID
	// is due.
	StandbyExpired
)

// CheckTimers advances the context's timers against now and applies
// whichever transition a fired timer implies, reporting which one (if
// any) fired so the caller can emit the corresponding call-termination
// frame.
func (c *Context) CheckTimers(now int64) Expiry {
	switch c.state {
	case ReadyS:
		if c.readyDeadline != 0 && now >= c.readyDeadline {
			c.state = Idle
			c.readyDeadline = 0
			return ReadyExpired
		}
	case Standby:
		if c.standbyDeadline != 0 && now >= c.standbyDeadline {
			c.Deactivate()
			return StandbyExpired
		}
	}
	return NoExpiry
}

// Table tracks one Context per LLID, mirroring the original
// implementation's per-subscriber state/timer maps.
type Table struct {
	contexts map[uint32]*Context
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{contexts: make(map[uint32]*Context)}
}

// GetOrCreate returns llID's context, creating and initializing one on
// first use.
func (t *Table) GetOrCreate(llID uint32) *Context {
	if c, ok := t.contexts[llID]; ok {
		return c
	}
	c := NewContext(llID)
	c.Initialize()
	t.contexts[llID] = c
	return c
}

// Get returns llID's context, if one has been created.
func (t *Table) Get(llID uint32) (*Context, bool) {
	c, ok := t.contexts[llID]
	return c, ok
}

// Remove discards llID's context entirely.
func (t *Table) Remove(llID uint32) {
	delete(t.contexts, llID)
}

// CheckAllTimers runs CheckTimers over every tracked context and
// invokes fn for each one whose timer fired, so a caller can emit the
// call-termination frame the expiry implies.
func (t *Table) CheckAllTimers(now int64, fn func(llID uint32, c *Context, expiry Expiry)) {
	for llID, c := range t.contexts {
		if exp := c.CheckTimers(now); exp != NoExpiry {
			fn(llID, c, exp)
		}
	}
}
