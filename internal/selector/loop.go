package selector

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/icd-sh/icd/internal/enumerate"
	"github.com/icd-sh/icd/internal/localefold"
)

// Lister enumerates candidates for the loop's target directory under the
// given hidden-entry visibility.
type Lister func(includeHidden bool) ([]enumerate.Entry, error)

// Result is the terminal state of one selection session.
type Result struct {
	// Accepted is true when the user chose a candidate.
	Accepted bool

	// Entry is the chosen candidate; meaningful only when Accepted.
	Entry enumerate.Entry

	// HiddenVisible is the visibility flag as it stood at the end of the
	// session; the caller persists it when it changed.
	HiddenVisible bool
}

// Loop owns one selection session: enumerate, fast-path, then blocking
// round-trips with the selector until the user accepts or cancels.
type Loop struct {
	Selector  Selector
	LocaleTag string
	ToggleKey string
	AcceptKey string

	// Target is the directory being completed, shown in the header.
	Target string

	Logger *zap.Logger
}

// Run executes the session. prefix is the partial name the user already
// typed; hiddenVisible is the session's current visibility flag.
func (l *Loop) Run(ctx context.Context, list Lister, prefix string, hiddenVisible bool) (Result, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, inaccessible, err := l.enumerate(list, hiddenVisible)
	if err != nil {
		return Result{}, err
	}

	// Fast paths skip the interactive view entirely: a lone candidate
	// with nothing typed, or a lone prefix match, is the answer.
	if !inaccessible {
		if len(entries) == 1 && prefix == "" {
			return Result{Accepted: true, Entry: entries[0], HiddenVisible: hiddenVisible}, nil
		}
		matched := l.filterByPrefix(entries, prefix)
		if len(matched) == 1 {
			return Result{Accepted: true, Entry: matched[0], HiddenVisible: hiddenVisible}, nil
		}
	}

	query := prefix
	for {
		outcome, err := l.Selector.Select(ctx, Request{
			Candidates: entries,
			Query:      query,
			Header:     l.header(hiddenVisible, inaccessible),
			ToggleKey:  l.ToggleKey,
			AcceptKey:  l.AcceptKey,
		})
		if err != nil {
			return Result{}, fmt.Errorf("selector round-trip failed: %w", err)
		}

		switch outcome.Kind {
		case OutcomeCancelled:
			return Result{Accepted: false, HiddenVisible: hiddenVisible}, nil

		case OutcomeToggled:
			hiddenVisible = !hiddenVisible
			query = outcome.Query
			logger.Debug("toggled hidden visibility",
				zap.Bool("hiddenVisible", hiddenVisible))

			// Never show a stale list after a toggle.
			entries, inaccessible, err = l.enumerate(list, hiddenVisible)
			if err != nil {
				return Result{}, err
			}

		case OutcomeAccepted:
			entry, found := lo.Find(entries, func(e enumerate.Entry) bool {
				return e.Transport == outcome.Selected
			})
			if !found {
				// The selection no longer maps to a candidate; treat it
				// like a cancellation rather than inventing a path.
				logger.Warn("selected line not in candidate set",
					zap.String("selected", outcome.Selected))
				return Result{Accepted: false, HiddenVisible: hiddenVisible}, nil
			}
			return Result{Accepted: true, Entry: entry, HiddenVisible: hiddenVisible}, nil

		default:
			return Result{}, fmt.Errorf("unknown selector outcome %d", outcome.Kind)
		}
	}
}

// enumerate lists candidates, translating inaccessibility into an empty
// list plus a flag: the view is still presented so the user gets header
// feedback and a clean way to cancel.
func (l *Loop) enumerate(list Lister, hiddenVisible bool) ([]enumerate.Entry, bool, error) {
	entries, err := list(hiddenVisible)
	if errors.Is(err, enumerate.ErrInaccessible) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entries, false, nil
}

func (l *Loop) filterByPrefix(entries []enumerate.Entry, prefix string) []enumerate.Entry {
	if prefix == "" {
		return entries
	}
	return lo.Filter(entries, func(e enumerate.Entry, _ int) bool {
		return localefold.HasPrefix(l.LocaleTag, e.Name, prefix)
	})
}

func (l *Loop) header(hiddenVisible, inaccessible bool) string {
	h := l.Target
	if hiddenVisible {
		h += "  [hidden shown]"
	}
	if inaccessible {
		h += "  [cannot read directory]"
	}
	return h
}
