// Package widget implements the interactive directory completion widget:
// it recognizes a directory-change command in the editing buffer, resolves
// the path argument typed so far, runs the selection session and rewrites
// the buffer with the completed path. Cancellation leaves the buffer
// exactly as it was.
package widget

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/icd-sh/icd/internal/config"
	"github.com/icd-sh/icd/internal/enumerate"
	"github.com/icd-sh/icd/internal/history"
	"github.com/icd-sh/icd/internal/pathresolve"
	"github.com/icd-sh/icd/internal/selector"
	"github.com/icd-sh/icd/internal/session"
	"github.com/icd-sh/icd/internal/shellparse"
)

// LineEditor is the widget's view of the shell's editing buffer.
type LineEditor interface {
	// Line returns the current buffer content and cursor offset.
	Line() (string, int)

	// SetLine replaces the buffer content and cursor offset. The widget
	// calls it at most once per invocation, and only on acceptance.
	SetLine(line string, cursor int)
}

// Widget wires the completion pipeline together. History is optional; a
// nil Manager degrades to plain enumeration order.
type Widget struct {
	Config   *config.Config
	Resolver *pathresolve.Resolver
	Selector selector.Selector
	Sessions *session.Store
	History  *history.Manager
	Logger   *zap.Logger

	trigger *Trigger
}

// New builds a Widget from its collaborators.
func New(cfg *config.Config, resolver *pathresolve.Resolver, sel selector.Selector,
	sessions *session.Store, hist *history.Manager, logger *zap.Logger) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Widget{
		Config:   cfg,
		Resolver: resolver,
		Selector: sel,
		Sessions: sessions,
		History:  hist,
		Logger:   logger,
		trigger:  NewTrigger(cfg.Commands),
	}
}

// Complete runs one invocation against the editor's buffer. Lines that are
// not a completion request, and sessions the user cancels, leave the
// buffer untouched.
func (w *Widget) Complete(ctx context.Context, editor LineEditor) error {
	line, _ := editor.Line()
	match, ok := w.trigger.Match(line)
	if !ok {
		w.Logger.Debug("line is not a completion request", zap.String("line", line))
		return nil
	}

	literal := shellparse.Decode(match.RawToken)
	res := w.Resolver.Resolve(literal)

	if res.Done {
		w.apply(editor, match, res.DonePath, res)
		return nil
	}

	state := w.Sessions.Load()

	loop := &selector.Loop{
		Selector:  w.Selector,
		LocaleTag: w.Config.LocaleTag,
		ToggleKey: w.Config.ToggleKey,
		AcceptKey: w.Config.AcceptKey,
		Target:    res.Target,
		Logger:    w.Logger,
	}
	result, err := loop.Run(ctx, w.lister(res.Target), res.Prefix, state.HiddenVisible)
	if err != nil {
		return err
	}

	if result.HiddenVisible != state.HiddenVisible {
		if err := w.Sessions.Save(session.State{HiddenVisible: result.HiddenVisible}); err != nil {
			w.Logger.Warn("failed to persist session state", zap.Error(err))
		}
	}

	if !result.Accepted {
		return nil
	}

	final := combine(res.Literal, result.Entry.Name)
	w.apply(editor, match, final, res)
	w.recordVisit(res.Target, result.Entry.Name)
	return nil
}

func (w *Widget) apply(editor LineEditor, match TriggerMatch, literal string, res pathresolve.Result) {
	token := encodeToken(literal, res.TildeRelative, res.Home)
	line, cursor := assemble(match, literal, token)
	editor.SetLine(line, cursor)
}

// lister enumerates the target directory and surfaces recently visited
// entries at the front of their block.
func (w *Widget) lister(target string) selector.Lister {
	return func(includeHidden bool) ([]enumerate.Entry, error) {
		entries, err := enumerate.List(target, includeHidden)
		if err != nil {
			return nil, err
		}
		return w.boostRecent(target, entries), nil
	}
}

// boostRecent moves recently visited names to the front of the hidden and
// visible blocks, most recent first, without crossing block boundaries.
// History failures fall back to the plain enumeration order.
func (w *Widget) boostRecent(target string, entries []enumerate.Entry) []enumerate.Entry {
	if w.History == nil || len(entries) == 0 {
		return entries
	}

	recent, err := w.History.RecentNames(absPath(target), len(entries))
	if err != nil {
		w.Logger.Warn("failed to load visit history", zap.Error(err))
		return entries
	}
	if len(recent) == 0 {
		return entries
	}

	rank := make(map[string]int, len(recent))
	for i, name := range recent {
		rank[name] = i
	}

	out := make([]enumerate.Entry, 0, len(entries))
	for start := 0; start < len(entries); {
		end := start
		for end < len(entries) && entries[end].Hidden == entries[start].Hidden {
			end++
		}
		out = append(out, reorderBlock(entries[start:end], rank)...)
		start = end
	}
	return out
}

func reorderBlock(block []enumerate.Entry, rank map[string]int) []enumerate.Entry {
	boosted := make([]enumerate.Entry, 0, len(block))
	rest := make([]enumerate.Entry, 0, len(block))
	for _, e := range block {
		if _, ok := rank[e.Name]; ok {
			boosted = append(boosted, e)
		} else {
			rest = append(rest, e)
		}
	}
	for i := 0; i < len(boosted); i++ {
		for j := i + 1; j < len(boosted); j++ {
			if rank[boosted[j].Name] < rank[boosted[i].Name] {
				boosted[i], boosted[j] = boosted[j], boosted[i]
			}
		}
	}
	return append(boosted, rest...)
}

// recordVisit stores the accepted result. Best effort; the completion
// already succeeded.
func (w *Widget) recordVisit(target, name string) {
	if w.History == nil {
		return
	}
	parent := absPath(target)
	if err := w.History.RecordVisit(filepath.Join(parent, name), parent, name); err != nil {
		w.Logger.Warn("failed to record visit", zap.Error(err))
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
