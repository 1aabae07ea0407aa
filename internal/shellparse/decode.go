// Package shellparse decodes shell-quoted path tokens into literal byte
// strings and re-encodes literal strings into shell-safe quoted form.
//
// The decoder is intentionally forgiving: the token it receives is being
// typed incrementally by a live user, so an unterminated quote or a trailing
// backslash is not an error. Decoding always terminates, always consumes the
// whole input, and never fails.
package shellparse

import "strings"

// parseState identifies the quoting context the decoder is currently in.
type parseState int

const (
	stateNormal parseState = iota
	stateSingleQuote
	stateDoubleQuote
	stateAnsiQuote
)

// Decode interprets one raw argument token and returns the literal byte
// string it denotes. Supported constructs are backslash escapes, single
// quotes, double quotes (with the narrower \" and \\ escape set), and ANSI-C
// $'...' quoting with the \n, \r, \t, \\ and \' escapes.
func Decode(raw string) string {
	var out strings.Builder
	out.Grow(len(raw))

	state := stateNormal
	for i := 0; i < len(raw); i++ {
		b := raw[i]

		switch state {
		case stateNormal:
			switch {
			case b == '\\':
				if i+1 < len(raw) {
					i++
					out.WriteByte(raw[i])
				}
			case b == '$' && i+1 < len(raw) && raw[i+1] == '\'':
				state = stateAnsiQuote
				i++
			case b == '\'':
				state = stateSingleQuote
			case b == '"':
				state = stateDoubleQuote
			default:
				out.WriteByte(b)
			}

		case stateSingleQuote:
			if b == '\'' {
				state = stateNormal
			} else {
				out.WriteByte(b)
			}

		case stateDoubleQuote:
			switch {
			case b == '"':
				state = stateNormal
			case b == '\\' && i+1 < len(raw) && (raw[i+1] == '"' || raw[i+1] == '\\'):
				i++
				out.WriteByte(raw[i])
			default:
				// Inside double quotes a backslash before anything else
				// stays literal.
				out.WriteByte(b)
			}

		case stateAnsiQuote:
			switch {
			case b == '\'':
				state = stateNormal
			case b == '\\':
				if i+1 < len(raw) {
					i++
					out.WriteByte(unescapeAnsi(raw[i]))
				}
			default:
				out.WriteByte(b)
			}
		}
	}

	return out.String()
}

// unescapeAnsi maps the escape character c of an ANSI-C quoted sequence to
// the byte it denotes. Unknown escapes yield the character itself.
func unescapeAnsi(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return c
	}
}
