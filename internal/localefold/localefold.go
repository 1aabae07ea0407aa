// Package localefold provides locale-aware case folding for candidate
// matching. A folding rule is just a string-to-string normalization
// function; rules are registered by locale tag so new locales can be added
// without touching the matcher call sites.
package localefold

import "strings"

// NormalizeFunc folds a string into its canonical comparison form.
// Implementations must be idempotent: applying the function twice yields
// the same result as applying it once.
type NormalizeFunc func(string) string

var registry = map[string]NormalizeFunc{
	"":   foldASCII,
	"tr": foldTurkish,
	// Azerbaijani shares the dotted/dotless i distinction.
	"az": foldTurkish,
}

// Register adds or replaces the folding rule for a locale tag.
func Register(tag string, fn NormalizeFunc) {
	registry[tag] = fn
}

// Normalize folds s under the rule registered for tag. Unknown tags fall
// back to plain ASCII folding.
func Normalize(tag, s string) string {
	if fn, ok := registry[tag]; ok {
		return fn(s)
	}
	return foldASCII(s)
}

// HasPrefix reports whether candidate begins with prefix once both are
// normalized under the rule for tag. The comparison happens on the
// normalized forms, so the raw byte lengths of the inputs do not matter.
func HasPrefix(tag, candidate, prefix string) bool {
	return strings.HasPrefix(Normalize(tag, candidate), Normalize(tag, prefix))
}

// foldASCII lowers ASCII letters only, leaving all other bytes untouched.
func foldASCII(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		out.WriteByte(b)
	}
	return out.String()
}

// turkishPairs maps uppercase letters whose lowercase form differs from the
// generic one-to-one ASCII folding. The dotted capital İ lowers to the
// dotted i, while the bare capital I lowers to the dotless ı.
var turkishPairs = map[rune]rune{
	'İ': 'i',
	'I': 'ı',
	'Ç': 'ç',
	'Ğ': 'ğ',
	'Ö': 'ö',
	'Ş': 'ş',
	'Ü': 'ü',
}

// foldTurkish applies the explicit Turkish remap table, then generic ASCII
// folding for the remaining letters. 'I' is consumed by the table, so the
// ASCII pass never sees it.
func foldTurkish(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		if mapped, ok := turkishPairs[r]; ok {
			out.WriteRune(mapped)
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out.WriteRune(r)
	}
	return out.String()
}
