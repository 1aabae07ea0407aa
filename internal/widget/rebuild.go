package widget

import (
	"strings"

	"github.com/icd-sh/icd/internal/shellparse"
)

// combine merges the selected entry name back into the literal path the
// user typed, replacing the partial prefix after the last separator. The
// result always carries exactly one trailing separator so the widget can
// be invoked again to descend further.
func combine(literal, name string) string {
	idx := strings.LastIndexByte(literal, '/')
	if idx < 0 {
		return name + "/"
	}

	dir := literal[:idx]
	switch dir {
	case "":
		// The literal lives directly under the root.
		return "/" + name + "/"
	case ".":
		return name + "/"
	default:
		return dir + "/" + name + "/"
	}
}

// encodeToken renders the completed literal for the editing buffer. A path
// the user typed relative to the home directory goes back out with a bare
// ~/ prefix; only the remainder is quoted so the shell still expands the
// tilde.
func encodeToken(literal string, tildeRelative bool, home string) string {
	if tildeRelative && home != "" {
		if literal == home || literal == home+"/" {
			return "~/"
		}
		if rest, ok := strings.CutPrefix(literal, home+"/"); ok {
			return "~/" + shellparse.Quote(rest)
		}
	}
	return shellparse.Quote(literal)
}

// assemble builds the replacement buffer line. A completed path that
// starts with a dash gets the `--` argument delimiter unless the user
// already typed one, so the command cannot parse it as an option.
func assemble(match TriggerMatch, literal, token string) (line string, cursor int) {
	head := match.Head
	if strings.HasPrefix(literal, "-") && !match.HasDelimiter {
		head += "-- "
	}
	line = head + token
	return line, len(line)
}
