// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package acl_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/acl"
	"github.com/stretchr/testify/assert"
)

type fakeLoader struct {
	radioIDs   []acl.RadioIDEntry
	talkgroups []acl.TalkgroupRule
}

func (f fakeLoader) LoadRadioIDs() ([]acl.RadioIDEntry, error)        { return f.radioIDs, nil }
func (f fakeLoader) LoadTalkgroupRules() ([]acl.TalkgroupRule, error) { return f.talkgroups, nil }

func TestValidateSrcIDUnenforced(t *testing.T) {
	t.Parallel()
	table := acl.New(acl.Options{Enforced: false})
	assert.True(t, table.ValidateSrcID(3112345))
}

func TestValidateSrcIDEnforced(t *testing.T) {
	t.Parallel()
	table := acl.New(acl.Options{Enforced: true})
	require := assert.New(t)
	require.False(table.ValidateSrcID(3112345))

	table.SetRadioID(acl.RadioIDEntry{ID: 3112345, Enabled: true})
	require.True(table.ValidateSrcID(3112345))

	table.SetRadioID(acl.RadioIDEntry{ID: 3112346, Enabled: false})
	require.False(table.ValidateSrcID(3112346))
}

func TestValidateTGIDZeroSpecialCased(t *testing.T) {
	t.Parallel()
	table := acl.New(acl.Options{Enforced: false, AllowZero: false})
	assert.False(t, table.ValidateTGID(0))

	allowZero := acl.New(acl.Options{Enforced: false, AllowZero: true})
	assert.True(t, allowZero.ValidateTGID(0))
}

func TestLoadFromReplacesTables(t *testing.T) {
	t.Parallel()
	table := acl.New(acl.Options{Enforced: true})
	loader := fakeLoader{
		radioIDs:   []acl.RadioIDEntry{{ID: 1, Enabled: true}},
		talkgroups: []acl.TalkgroupRule{{TGID: 9, Enabled: true, NonPreferred: true}},
	}
	err := table.LoadFrom(loader)
	assert.NoError(t, err)
	assert.True(t, table.ValidateSrcID(1))
	assert.True(t, table.ValidateTGID(9))
	assert.True(t, table.IsNonPreferred(9))
}
