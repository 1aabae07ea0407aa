// Package enumerate lists the immediate subdirectories of a target
// directory as transport-encoded candidates for the selector.
package enumerate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/icd-sh/icd/internal/transport"
)

// ErrInaccessible reports that the target directory exists check or read
// failed. Callers use it to tell "could not read" apart from an accessible
// directory that simply has no subdirectories.
var ErrInaccessible = errors.New("directory is not accessible")

// Entry is one candidate subdirectory.
type Entry struct {
	// Name is the decoded entry name, exactly as stored on disk.
	Name string

	// Transport is the escaped, newline-safe form of Name used on the
	// line-oriented selector protocol.
	Transport string

	// Hidden records whether the name starts with a dot.
	Hidden bool

	// ModTime is the entry's modification time, used for display
	// annotations only.
	ModTime time.Time
}

// List enumerates the immediate subdirectories of dir, including symlinks
// that resolve to directories. `.` and `..` never appear. Hidden entries
// are included only when includeHidden is set, and are returned as a
// leading block; both blocks are sorted case-insensitively.
//
// A read failure returns an error wrapping ErrInaccessible. An accessible
// directory without subdirectories returns an empty, non-nil slice.
func List(dir string, includeHidden bool) ([]Entry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInaccessible, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInaccessible, dir)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInaccessible, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		hidden := strings.HasPrefix(name, ".")
		if hidden && !includeHidden {
			continue
		}
		if !isDirectory(dir, de) {
			continue
		}

		var modTime time.Time
		if info, err := de.Info(); err == nil {
			modTime = info.ModTime()
		}

		entries = append(entries, Entry{
			Name:      name,
			Transport: transport.Encode(name),
			Hidden:    hidden,
			ModTime:   modTime,
		})
	}

	hiddenBlock, visibleBlock := lo.FilterReject(entries, func(e Entry, _ int) bool {
		return e.Hidden
	})
	sortBlock(hiddenBlock)
	sortBlock(visibleBlock)

	return append(hiddenBlock, visibleBlock...), nil
}

// isDirectory reports whether the entry is a directory or a symlink whose
// target is a directory.
func isDirectory(dir string, de os.DirEntry) bool {
	if de.IsDir() {
		return true
	}
	if de.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, de.Name()))
	return err == nil && info.IsDir()
}

func sortBlock(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}
