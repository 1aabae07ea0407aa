// Package session persists the per-shell-session widget state, currently
// just the hidden-entry visibility flag. The original kept this as ambient
// process-wide state; here it is an explicit value loaded at invocation and
// written back only when the user toggles it.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// staleAfter bounds how long an orphaned session file survives. Shell
// sessions do not announce their death, so old files are swept on load.
const staleAfter = 7 * 24 * time.Hour

// State is the session-scoped widget state.
type State struct {
	HiddenVisible bool      `yaml:"hiddenVisible"`
	UpdatedAt     time.Time `yaml:"updatedAt"`
}

// Store reads and writes the state file for one shell session.
type Store struct {
	dir    string
	id     string
	logger *zap.Logger
}

// NewStore creates a Store for the session files under dir. The id
// identifies the shell session; DefaultID derives one when the caller has
// nothing better.
func NewStore(dir, id string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, id: id, logger: logger}
}

// DefaultID returns the session id from the ICD_SESSION environment
// variable, falling back to the parent process id (the interactive shell).
func DefaultID() string {
	if id := os.Getenv("ICD_SESSION"); id != "" {
		return id
	}
	return strconv.Itoa(os.Getppid())
}

// Load returns the stored state for the session, or the zero state when
// none exists or the file cannot be parsed. Missing or corrupt state is
// never an error for the caller; the widget just starts with hidden
// entries off.
func (s *Store) Load() State {
	s.sweepStale()

	data, err := os.ReadFile(s.path())
	if err != nil {
		return State{}
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		s.logger.Warn("discarding unreadable session state",
			zap.String("path", s.path()), zap.Error(err))
		return State{}
	}
	return state
}

// Save writes the state for the session.
func (s *Store) Save(state State) error {
	state.UpdatedAt = time.Now()

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	return nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, s.id+".yaml")
}

// sweepStale removes session files that have not been touched within
// staleAfter. Best effort only.
func (s *Store) sweepStale() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-staleAfter)
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(s.dir, e.Name()))
		}
	}
}
