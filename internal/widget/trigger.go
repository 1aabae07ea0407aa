package widget

import (
	"regexp"
	"strings"
)

// TriggerMatch is the parsed editing-buffer line for one invocation.
type TriggerMatch struct {
	// Head is everything before the path token: leading whitespace, the
	// command word, spacing, and an existing argument delimiter if the
	// user already typed one.
	Head string

	// HasDelimiter records whether Head already ends with the `--`
	// argument delimiter.
	HasDelimiter bool

	// RawToken is the as-typed path argument, quoting and all.
	RawToken string
}

// Trigger recognizes buffer lines the widget completes: an optional
// delimiter, one of the configured directory-change commands, then a
// single path argument.
type Trigger struct {
	pattern *regexp.Regexp
}

// NewTrigger builds a Trigger for the given command names.
func NewTrigger(commands []string) *Trigger {
	if len(commands) == 0 {
		commands = []string{"cd"}
	}
	quoted := make([]string, len(commands))
	for i, c := range commands {
		quoted[i] = regexp.QuoteMeta(c)
	}
	pattern := regexp.MustCompile(
		`^(\s*(?:` + strings.Join(quoted, "|") + `)\s+(--\s+)?)(.*)$`)
	return &Trigger{pattern: pattern}
}

// Match parses line. ok is false when the line is not a completion
// request, in which case the buffer must be left untouched.
func (t *Trigger) Match(line string) (TriggerMatch, bool) {
	groups := t.pattern.FindStringSubmatch(line)
	if groups == nil {
		return TriggerMatch{}, false
	}
	token := groups[3]
	// A second argument means this is not a single-path completion.
	if containsUnquotedSpace(token) {
		return TriggerMatch{}, false
	}
	return TriggerMatch{
		Head:         groups[1],
		HasDelimiter: groups[2] != "",
		RawToken:     token,
	}, true
}

// containsUnquotedSpace reports whether the token holds whitespace outside
// any quoting construct, i.e. whether a second word follows it.
func containsUnquotedSpace(token string) bool {
	inSingle, inDouble := false, false
	for i := 0; i < len(token); i++ {
		switch b := token[i]; {
		case b == '\\' && !inSingle:
			i++
		case b == '\'' && !inDouble:
			inSingle = !inSingle
		case b == '"' && !inSingle:
			inDouble = !inDouble
		case (b == ' ' || b == '\t') && !inSingle && !inDouble:
			return true
		}
	}
	return false
}
