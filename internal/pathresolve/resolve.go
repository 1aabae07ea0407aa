// Package pathresolve turns a decoded literal path into the target
// directory to enumerate and the search prefix typed so far. It handles
// tilde expansion, the dollar-sign ambiguity between "literal $ in a name"
// and "variable reference", the `..` fast path, and logical normalization
// of the target.
package pathresolve

import (
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Result is the outcome of resolving one literal path.
type Result struct {
	// Literal is the path after tilde substitution and any variable
	// expansion, still unsplit.
	Literal string

	// Target is the directory to enumerate, normalized and made safe to
	// pass to anything that parses leading dashes as options.
	Target string

	// Prefix is the partial entry name typed after the last separator.
	Prefix string

	// TildeRelative records that the user typed the path relative to the
	// home directory; the re-encoder restores the ~/ form.
	TildeRelative bool

	// Home is the home directory used for tilde substitution.
	Home string

	// Done is set when the `..` fast path applies: no enumeration or
	// selection happens and DonePath is the completed literal path.
	Done     bool
	DonePath string
}

// Resolver resolves literal paths. The zero value is not usable; construct
// with New. The function fields exist so tests can substitute the
// environment and filesystem probes.
type Resolver struct {
	Home      string
	LookupEnv func(string) (string, bool)
	Stat      func(string) (os.FileInfo, error)
}

// New returns a Resolver bound to the real home directory, environment and
// filesystem.
func New() *Resolver {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &Resolver{
		Home:      home,
		LookupEnv: os.LookupEnv,
		Stat:      os.Stat,
	}
}

// Resolve derives the target directory and search prefix from literal.
func (r *Resolver) Resolve(literal string) Result {
	res := Result{Home: r.Home}

	// Tilde: only a bare ~ or a ~/ prefix refers to the home directory.
	if literal == "~" || strings.HasPrefix(literal, "~/") {
		res.TildeRelative = true
		literal = r.Home + literal[1:]
	}

	if strings.Contains(literal, "$") && r.shouldExpandVariables(literal) {
		literal = r.expandVariables(literal)
	}
	res.Literal = literal

	// A path ending in .. completes immediately: descend into the parent
	// and stop, no listing needed.
	if literal == ".." || strings.HasSuffix(literal, "/..") {
		res.Done = true
		res.DonePath = literal + "/"
		return res
	}

	target, prefix := split(literal)
	res.Prefix = prefix
	res.Target = safeTarget(normalizeTarget(target))
	return res
}

// shouldExpandVariables decides the dollar-sign ambiguity. Dangerous
// substitution forms are never expanded. Otherwise an existing path (or an
// existing parent directory) wins over expansion, matching real directory
// trees rather than blindly substituting.
func (r *Resolver) shouldExpandVariables(literal string) bool {
	if strings.Contains(literal, "$(") ||
		strings.Contains(literal, "`") ||
		strings.Contains(literal, "$[") ||
		strings.Contains(literal, "${!") {
		return false
	}

	if _, err := r.Stat(literal); err == nil {
		return false
	}
	parent := filepath.Dir(literal)
	if _, err := r.Stat(parent); err == nil {
		return false
	}
	return true
}

// expandVariables performs safe, string-only expansion of $NAME and ${NAME}
// references. Anything that is not a valid variable name stays literal.
// Nothing is ever evaluated.
func (r *Resolver) expandVariables(literal string) string {
	var out strings.Builder
	out.Grow(len(literal))

	for i := 0; i < len(literal); i++ {
		b := literal[i]
		if b != '$' {
			out.WriteByte(b)
			continue
		}

		name, next, ok := parseVariableRef(literal, i)
		if !ok {
			out.WriteByte(b)
			continue
		}
		if value, found := r.LookupEnv(name); found {
			out.WriteString(value)
		}
		i = next - 1
	}

	return out.String()
}

// parseVariableRef reads a $NAME or ${NAME} reference starting at the $ in
// s[start]. It returns the variable name and the index just past the
// reference. ok is false when no valid reference starts there.
func parseVariableRef(s string, start int) (name string, next int, ok bool) {
	i := start + 1
	if i >= len(s) {
		return "", 0, false
	}

	braced := s[i] == '{'
	if braced {
		end := strings.IndexByte(s[i:], '}')
		if end < 0 {
			return "", 0, false
		}
		name = s[i+1 : i+end]
		next = i + end + 1
	} else {
		j := i
		for j < len(s) && isNameByte(s[j], j == i) {
			j++
		}
		name = s[i:j]
		next = j
	}

	if name == "" || !syntax.ValidName(name) {
		return "", 0, false
	}
	return name, next, true
}

func isNameByte(b byte, first bool) bool {
	if b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
		return true
	}
	return !first && b >= '0' && b <= '9'
}

// split separates the literal path into the directory to list and the
// partial name typed after the last separator.
func split(literal string) (target, prefix string) {
	switch {
	case literal == "/":
		return "/", ""
	case strings.HasSuffix(literal, "/"):
		return strings.TrimSuffix(literal, "/"), ""
	case strings.Contains(literal, "/"):
		idx := strings.LastIndexByte(literal, '/')
		target = literal[:idx]
		if target == "" {
			target = "/"
		}
		return target, literal[idx+1:]
	case literal == "":
		return ".", ""
	default:
		return ".", literal
	}
}

// normalizeTarget collapses . and .. segments lexically, without touching
// the filesystem, so that unreadable intermediate directories cannot abort
// resolution.
func normalizeTarget(target string) string {
	if target == "" {
		return "."
	}
	return filepath.Clean(target)
}

// safeTarget disambiguates targets that would otherwise be parsed as
// option flags or stay ambiguous, by anchoring them to the current
// directory.
func safeTarget(target string) string {
	if target == "." || target == ".." || target == "/" {
		return target
	}
	if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") {
		return target
	}
	if strings.HasPrefix(target, "-") || strings.HasPrefix(target, ".") {
		return "./" + target
	}
	return target
}
