// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package lookups implements the flat-file-backed peer identity table
// an FNE consults during the login handshake: per-peer password
// override, replica/priority flags, and jitter-buffer tuning, reloaded
// periodically from disk.
package lookups

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dvmhub/dvmcore/internal/jitter"
	"github.com/puzpuzpuz/xsync/v4"
)

const (
	// DefaultJitterMaxSize is used when a peer list row omits the field.
	DefaultJitterMaxSize = jitter.DefaultMaxBufferSize
	// DefaultJitterMaxWait is used when a peer list row omits the field.
	DefaultJitterMaxWait = jitter.DefaultMaxWaitTime
)

// PeerEntry is one row of the peer identity table.
type PeerEntry struct {
	ID uint32
	// Password overrides the FNE master password for this peer's login
	// handshake. An empty string means "inherit the master password".
	Password            string
	PeerReplica         bool
	Alias               string
	CanRequestKeys      bool
	CanIssueInhibit     bool
	HasCallPriority     bool
	JitterBufferEnabled bool
	JitterBufferMaxSize int
	JitterBufferMaxWait int64
}

// defaultPeerEntry is returned by Find on a miss: an unknown peer, with
// no restrictions recorded against it.
func defaultPeerEntry() PeerEntry {
	return PeerEntry{
		ID:                  0,
		JitterBufferMaxSize: DefaultJitterMaxSize,
		JitterBufferMaxWait: DefaultJitterMaxWait,
	}
}

// PeerListLookup is a thread-safe, periodically-reloaded peer identity
// table. Reads and writes to the concurrent map never block each
// other; file Load/Save are serialized against each other but not
// against reads, since xsync.Map already gives us lock-free lookups in
// place of the teacher's hand-rolled shared/exclusive spinlock.
type PeerListLookup struct {
	filename     string
	reloadPeriod time.Duration
	aclEnforced  bool

	entries *xsync.Map[uint32, PeerEntry]
	saveMu  sync.Mutex
}

// New creates a peer list table backed by filename, reloaded every
// reloadPeriod (zero disables periodic reload - the caller reloads
// manually or via a scheduler). When aclEnforced is true, IsPeerAllowed
// requires the peer to be present in the table.
func New(filename string, reloadPeriod time.Duration, aclEnforced bool) *PeerListLookup {
	return &PeerListLookup{
		filename:     filename,
		reloadPeriod: reloadPeriod,
		aclEnforced:  aclEnforced,
		entries:      xsync.NewMap[uint32, PeerEntry](),
	}
}

// ACLEnforced reports whether presence in this table gates login.
func (l *PeerListLookup) ACLEnforced() bool {
	return l.aclEnforced
}

// ReloadPeriod reports the configured reload interval.
func (l *PeerListLookup) ReloadPeriod() time.Duration {
	return l.reloadPeriod
}

// AddEntry inserts or replaces a peer row in memory (does not persist
// until Save is called).
func (l *PeerListLookup) AddEntry(e PeerEntry) {
	l.entries.Store(e.ID, e)
}

// EraseEntry removes a peer row from memory.
func (l *PeerListLookup) EraseEntry(id uint32) {
	l.entries.Delete(id)
}

// Find returns the entry for id, or a disabled default entry if id
// isn't in the table.
func (l *PeerListLookup) Find(id uint32) PeerEntry {
	e, ok := l.entries.Load(id)
	if !ok {
		return defaultPeerEntry()
	}
	return e
}

// IsPeerInList reports whether id has a row in the table.
func (l *PeerListLookup) IsPeerInList(id uint32) bool {
	_, ok := l.entries.Load(id)
	return ok
}

// IsPeerAllowed reports whether id may log in: always true when ACL
// enforcement is off, otherwise only when the peer has a row.
func (l *PeerListLookup) IsPeerAllowed(id uint32) bool {
	if !l.aclEnforced {
		return true
	}
	return l.IsPeerInList(id)
}

// TableAsList returns a snapshot of every row currently in the table.
func (l *PeerListLookup) TableAsList() []PeerEntry {
	out := make([]PeerEntry, 0, l.entries.Size())
	l.entries.Range(func(_ uint32, e PeerEntry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Load replaces the in-memory table with the contents of the backing
// file. Each non-comment, non-blank line is a comma-separated row:
//
//	id,password,peerReplica,alias,canRequestKeys,canIssueInhibit,
//	hasCallPriority,jitterBufferEnabled,jitterBufferMaxSize,jitterBufferMaxWait
//
// Trailing fields may be omitted, in which case they take their
// documented defaults.
func (l *PeerListLookup) Load() error {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	f, err := os.Open(l.filename)
	if err != nil {
		return err
	}
	defer f.Close()

	fresh := xsync.NewMap[uint32, PeerEntry]()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parsePeerRow(line)
		if err != nil {
			return fmt.Errorf("lookups: parsing %q: %w", line, err)
		}
		fresh.Store(entry.ID, entry)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	l.entries = fresh
	return nil
}

func parsePeerRow(line string) (PeerEntry, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 1 {
		return PeerEntry{}, fmt.Errorf("empty row")
	}

	id, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
	if err != nil {
		return PeerEntry{}, fmt.Errorf("invalid peer id: %w", err)
	}

	e := PeerEntry{
		ID:                  uint32(id),
		JitterBufferMaxSize: DefaultJitterMaxSize,
		JitterBufferMaxWait: DefaultJitterMaxWait,
	}

	get := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	getBool := func(i int) bool { return get(i) == "1" }

	e.Password = get(1)
	e.PeerReplica = getBool(2)
	e.Alias = get(3)
	e.CanRequestKeys = getBool(4)
	e.CanIssueInhibit = getBool(5)
	e.HasCallPriority = getBool(6)
	e.JitterBufferEnabled = getBool(7)
	if v := get(8); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return PeerEntry{}, fmt.Errorf("invalid jitter buffer max size: %w", err)
		}
		e.JitterBufferMaxSize = n
	}
	if v := get(9); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return PeerEntry{}, fmt.Errorf("invalid jitter buffer max wait: %w", err)
		}
		e.JitterBufferMaxWait = n
	}

	return e, nil
}

// Save writes the in-memory table back to the backing file in the
// format Load expects. An entry's empty Password is written back as an
// empty field, preserving the "inherit master password" sentinel.
func (l *PeerListLookup) Save() error {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	f, err := os.Create(l.filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range l.TableAsList() {
		if _, err := fmt.Fprintln(w, formatPeerRow(e)); err != nil {
			return err
		}
	}
	return w.Flush()
}

func formatPeerRow(e PeerEntry) string {
	bit := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	return strings.Join([]string{
		strconv.FormatUint(uint64(e.ID), 10),
		e.Password,
		bit(e.PeerReplica),
		e.Alias,
		bit(e.CanRequestKeys),
		bit(e.CanIssueInhibit),
		bit(e.HasCallPriority),
		bit(e.JitterBufferEnabled),
		strconv.Itoa(e.JitterBufferMaxSize),
		strconv.FormatInt(e.JitterBufferMaxWait, 10),
	}, ",")
}
