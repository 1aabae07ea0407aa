package shellparse

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Quote renders s as a single shell word that decodes back to exactly s,
// both through Decode and through a POSIX shell. Printable strings are
// delegated to the shell library's quoter; strings carrying control bytes
// use ANSI-C quoting restricted to the escape set Decode understands.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if hasControlBytes(s) {
		return ansiQuote(s)
	}

	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only NUL bytes make Quote fail, and NUL cannot appear in a
		// filesystem name. Fall back to ANSI-C quoting regardless.
		return ansiQuote(s)
	}
	return quoted
}

// hasControlBytes reports whether s contains bytes the generic quoter may
// render with \xHH escapes that Decode does not interpret.
func hasControlBytes(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}

// ansiQuote renders s as $'...' using only the \n, \r, \t, \\ and \'
// escapes. Any other byte is emitted verbatim; the shell and Decode both
// preserve raw bytes inside ANSI-C quotes.
func ansiQuote(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 4)
	out.WriteString("$'")
	for i := 0; i < len(s); i++ {
		switch b := s[i]; b {
		case '\\':
			out.WriteString(`\\`)
		case '\'':
			out.WriteString(`\'`)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case '\t':
			out.WriteString(`\t`)
		default:
			out.WriteByte(b)
		}
	}
	out.WriteString("'")
	return out.String()
}
