// Package transport implements the byte-safe escaping used to move
// candidate names across the line-oriented selector protocol. A directory
// name may contain any byte except NUL, including newlines; escaping keeps
// one candidate per line no matter what the name holds.
package transport

import "strings"

// Encode escapes s so it contains no raw newline, carriage return or tab.
// The escaping is bijective: Decode(Encode(s)) == s for every byte string
// not containing NUL.
func Encode(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch b := s[i]; b {
		case '\\':
			out.WriteString(`\\`)
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
	return out.String()
}

// Decode reverses Encode. Unknown escape pairs and a trailing backslash are
// preserved literally so that decoding is total.
func Decode(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '\\' || i+1 >= len(s) {
			out.WriteByte(b)
			continue
		}
		i++
		switch s[i] {
		case '\\':
			out.WriteByte('\\')
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		default:
			out.WriteByte('\\')
			out.WriteByte(s[i])
		}
	}
	return out.String()
}
