package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerMatch(t *testing.T) {
	trigger := NewTrigger([]string{"cd", "pushd"})

	tests := []struct {
		name  string
		line  string
		ok    bool
		head  string
		token string
		delim bool
	}{
		{name: "cd with token", line: "cd pro", ok: true, head: "cd ", token: "pro"},
		{name: "pushd", line: "pushd src/ma", ok: true, head: "pushd ", token: "src/ma"},
		{name: "leading whitespace", line: "  cd pro", ok: true, head: "  cd ", token: "pro"},
		{name: "empty token", line: "cd ", ok: true, head: "cd ", token: ""},
		{name: "existing delimiter", line: "cd -- -od", ok: true, head: "cd -- ", token: "-od", delim: true},
		{name: "quoted space in token", line: `cd 'My Doc'`, ok: true, head: "cd ", token: "'My Doc'"},
		{name: "escaped space in token", line: `cd My\ Doc`, ok: true, head: "cd ", token: `My\ Doc`},
		{name: "other command", line: "ls pro", ok: false},
		{name: "bare command", line: "cd", ok: false},
		{name: "command as prefix of word", line: "cdr pro", ok: false},
		{name: "second argument", line: "cd a b", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := trigger.Match(tt.line)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.head, match.Head)
			assert.Equal(t, tt.token, match.RawToken)
			assert.Equal(t, tt.delim, match.HasDelimiter)
		})
	}
}

func TestTriggerDefaultsToCD(t *testing.T) {
	trigger := NewTrigger(nil)

	_, ok := trigger.Match("cd pro")
	assert.True(t, ok)
}
