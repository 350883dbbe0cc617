// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package acl enforces radio-ID and talkgroup access control at the
// FNE boundary: a traffic frame is only forwarded if its source radio
// ID and destination talkgroup both clear the configured rules. This
// package owns the in-memory lookup tables and validation logic only;
// reading a concrete ACL rule file format is left to a caller-supplied
// ACLRuleLoader, since no on-disk format is in scope here.
package acl

import (
	"github.com/dvmhub/dvmcore/internal/metrics"
	"github.com/puzpuzpuz/xsync/v4"
)

// RadioIDEntry is one radio-ID ACL row.
type RadioIDEntry struct {
	ID      uint32
	Enabled bool
	Alias   string
}

// TalkgroupRule is one talkgroup ACL row.
type TalkgroupRule struct {
	TGID         uint32
	Enabled      bool
	NonPreferred bool
	Name         string
}

// ACLRuleLoader produces the radio-ID and talkgroup rule sets from
// whatever concrete storage a deployment uses (file, database, remote
// API); dvmcore defines the interface and the enforcement logic that
// consumes it, not a parser.
type ACLRuleLoader interface {
	LoadRadioIDs() ([]RadioIDEntry, error)
	LoadTalkgroupRules() ([]TalkgroupRule, error)
}

// Options configures ACL enforcement behavior.
type Options struct {
	// Enforced gates whether ValidateSrcID/ValidateTGID consult the
	// tables at all; when false, every ID passes except talkgroup 0,
	// which AllowZero governs either way.
	Enforced bool
	// AllowZero permits talkgroup 0 (normally reserved) to validate.
	AllowZero bool
}

// Table is the thread-safe in-memory ACL: a radio-ID table and a
// talkgroup-rule table, each a lock-free concurrent map so the
// high-frequency per-packet validation path never blocks on a
// reload-in-progress writer.
type Table struct {
	opts       Options
	radioIDs   *xsync.Map[uint32, RadioIDEntry]
	talkgroups *xsync.Map[uint32, TalkgroupRule]
	// Metrics, when set, receives a RecordACLRejected call for every
	// ValidateSrcID/ValidateTGID rejection. nil disables recording.
	Metrics *metrics.Metrics
}

// New creates an empty ACL table with the given options.
func New(opts Options) *Table {
	return &Table{
		opts:       opts,
		radioIDs:   xsync.NewMap[uint32, RadioIDEntry](),
		talkgroups: xsync.NewMap[uint32, TalkgroupRule](),
	}
}

// LoadFrom replaces the table contents with what loader provides.
func (t *Table) LoadFrom(loader ACLRuleLoader) error {
	radioIDs, err := loader.LoadRadioIDs()
	if err != nil {
		return err
	}
	talkgroups, err := loader.LoadTalkgroupRules()
	if err != nil {
		return err
	}

	freshRadio := xsync.NewMap[uint32, RadioIDEntry]()
	for _, r := range radioIDs {
		freshRadio.Store(r.ID, r)
	}
	freshTG := xsync.NewMap[uint32, TalkgroupRule]()
	for _, tg := range talkgroups {
		freshTG.Store(tg.TGID, tg)
	}

	t.radioIDs = freshRadio
	t.talkgroups = freshTG
	return nil
}

// SetRadioID inserts or replaces a single radio-ID row.
func (t *Table) SetRadioID(e RadioIDEntry) {
	t.radioIDs.Store(e.ID, e)
}

// SetTalkgroupRule inserts or replaces a single talkgroup row.
func (t *Table) SetTalkgroupRule(r TalkgroupRule) {
	t.talkgroups.Store(r.TGID, r)
}

// ValidateSrcID reports whether a source radio ID may transmit: always
// true when enforcement is off, otherwise only when the ID has an
// enabled row.
func (t *Table) ValidateSrcID(id uint32) bool {
	if !t.opts.Enforced {
		return true
	}
	e, ok := t.radioIDs.Load(id)
	valid := ok && e.Enabled
	if !valid && t.Metrics != nil {
		t.Metrics.RecordACLRejected("src_id")
	}
	return valid
}

// ValidateTGID reports whether a destination talkgroup may be routed.
// Talkgroup 0 is rejected unless Options.AllowZero is set, independent
// of enforcement, since TG 0 is reserved and almost never a deliberate
// destination.
func (t *Table) ValidateTGID(tg uint32) bool {
	if tg == 0 {
		valid := t.opts.AllowZero
		if !valid && t.Metrics != nil {
			t.Metrics.RecordACLRejected("tgid")
		}
		return valid
	}
	if !t.opts.Enforced {
		return true
	}
	r, ok := t.talkgroups.Load(tg)
	valid := ok && r.Enabled
	if !valid && t.Metrics != nil {
		t.Metrics.RecordACLRejected("tgid")
	}
	return valid
}

// IsNonPreferred reports whether tg is marked non-preferred (routed,
// but deprioritized relative to preferred talkgroups). Unknown
// talkgroups are not non-preferred by this definition - they are
// either rejected by ValidateTGID or implicitly preferred.
func (t *Table) IsNonPreferred(tg uint32) bool {
	r, ok := t.talkgroups.Load(tg)
	return ok && r.NonPreferred
}
