package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ExecSelector runs an external fzf-compatible process once per
// round-trip. Candidates go in transport-encoded, one per line, on stdin;
// the process prints the echoed query, the intercepted key (empty when
// none) and the selected line, and signals cancellation with a nonzero
// exit code.
type ExecSelector struct {
	// Command is the selector executable, e.g. "fzf".
	Command string

	Logger *zap.Logger
}

// Select implements Selector.
func (s *ExecSelector) Select(ctx context.Context, req Request) (Outcome, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	args := []string{
		// The loop already handles single-candidate acceptance; the
		// process must not short-circuit it a second time.
		"--no-select-1",
		"--print-query",
		"--query", req.Query,
		"--header", req.Header,
		"--expect", req.ToggleKey,
		"--bind", req.AcceptKey + ":accept",
	}

	var stdin bytes.Buffer
	for _, e := range req.Candidates {
		stdin.WriteString(e.Transport)
		stdin.WriteByte('\n')
	}

	cmd := exec.CommandContext(ctx, s.Command, args...)
	cmd.Stdin = &stdin
	cmd.Stderr = os.Stderr // the selector draws its UI on the tty via stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Nonzero exit is the protocol's cancellation signal, not a
			// failure of ours.
			logger.Debug("external selector cancelled",
				zap.Int("exitCode", exitErr.ExitCode()))
			return Outcome{Kind: OutcomeCancelled, Query: req.Query}, nil
		}
		return Outcome{}, fmt.Errorf("failed to run selector %q: %w", s.Command, err)
	}

	query, key, selected := parseSelectorOutput(string(out))
	if key != "" && key == req.ToggleKey {
		return Outcome{Kind: OutcomeToggled, Query: query}, nil
	}
	if selected == "" {
		return Outcome{Kind: OutcomeCancelled, Query: query}, nil
	}
	return Outcome{Kind: OutcomeAccepted, Selected: selected, Query: query}, nil
}

// parseSelectorOutput splits the three logical output values: echoed
// query, intercepted key name, selected line. Short output leaves the
// missing trailing values empty.
func parseSelectorOutput(out string) (query, key, selected string) {
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) > 0 {
		query = lines[0]
	}
	if len(lines) > 1 {
		key = lines[1]
	}
	if len(lines) > 2 {
		selected = lines[2]
	}
	return query, key, selected
}
