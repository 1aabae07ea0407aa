package selector

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/icd-sh/icd/internal/enumerate"
	"github.com/icd-sh/icd/internal/localefold"
)

// TUI is the built-in Selector: a full-screen picker rendered on the
// alternate screen buffer, which is restored on every exit path by the
// Bubble Tea runtime.
type TUI struct {
	LocaleTag string
	Logger    *zap.Logger
}

// Select implements Selector.
func (t *TUI) Select(ctx context.Context, req Request) (Outcome, error) {
	logger := t.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	model := newTUIModel(req, t.LocaleTag)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		return Outcome{}, fmt.Errorf("selector ui failed: %w", err)
	}

	m, ok := final.(tuiModel)
	if !ok {
		return Outcome{}, fmt.Errorf("unexpected final model %T", final)
	}
	logger.Debug("selector round-trip finished", zap.Int("outcome", int(m.outcome.Kind)))
	return m.outcome, nil
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warningStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hiddenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tuiModel struct {
	req       Request
	localeTag string

	input     textinput.Model
	filtered  []enumerate.Entry
	selection int

	width  int
	height int

	outcome Outcome
}

func newTUIModel(req Request, localeTag string) tuiModel {
	input := textinput.New()
	input.Prompt = "> "
	input.SetValue(req.Query)
	input.Focus()

	m := tuiModel{
		req:       req,
		localeTag: localeTag,
		input:     input,
		width:     80,
		height:    24,
	}
	m.refilter()
	return m
}

// Init implements tea.Model.
func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case key == m.req.ToggleKey:
		m.outcome = Outcome{Kind: OutcomeToggled, Query: m.input.Value()}
		return m, tea.Quit

	case key == "esc" || key == "ctrl+c":
		m.outcome = Outcome{Kind: OutcomeCancelled, Query: m.input.Value()}
		return m, tea.Quit

	case key == m.req.AcceptKey || key == "enter":
		if m.selection >= 0 && m.selection < len(m.filtered) {
			m.outcome = Outcome{
				Kind:     OutcomeAccepted,
				Selected: m.filtered[m.selection].Transport,
				Query:    m.input.Value(),
			}
		} else {
			m.outcome = Outcome{Kind: OutcomeCancelled, Query: m.input.Value()}
		}
		return m, tea.Quit

	case key == "up" || key == "ctrl+p":
		if m.selection > 0 {
			m.selection--
		}
		return m, nil

	case key == "down" || key == "ctrl+n":
		if m.selection < len(m.filtered)-1 {
			m.selection++
		}
		return m, nil

	case key == "ctrl+y":
		if m.selection >= 0 && m.selection < len(m.filtered) {
			// Best effort; a headless environment has no clipboard.
			_ = clipboard.WriteAll(m.filtered[m.selection].Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd
}

// refilter narrows the candidate list against the current query: a locale
// prefix pass first, then fuzzy matching over the remainder so the user
// can keep typing past the prefix.
func (m *tuiModel) refilter() {
	query := m.input.Value()
	if query == "" {
		m.filtered = m.req.Candidates
		m.clampSelection()
		return
	}

	prefixed := make([]enumerate.Entry, 0, len(m.req.Candidates))
	for _, e := range m.req.Candidates {
		if localefold.HasPrefix(m.localeTag, e.Name, query) {
			prefixed = append(prefixed, e)
		}
	}
	if len(prefixed) > 0 {
		m.filtered = prefixed
		m.clampSelection()
		return
	}

	normQuery := localefold.Normalize(m.localeTag, query)
	names := make([]string, len(m.req.Candidates))
	for i, e := range m.req.Candidates {
		names[i] = localefold.Normalize(m.localeTag, e.Name)
	}
	matches := fuzzy.Find(normQuery, names)
	m.filtered = make([]enumerate.Entry, len(matches))
	for i, match := range matches {
		m.filtered[i] = m.req.Candidates[match.Index]
	}
	m.clampSelection()
}

func (m *tuiModel) clampSelection() {
	if len(m.filtered) == 0 {
		m.selection = -1
		return
	}
	if m.selection < 0 {
		m.selection = 0
	}
	if m.selection >= len(m.filtered) {
		m.selection = len(m.filtered) - 1
	}
}

// View implements tea.Model.
func (m tuiModel) View() string {
	header := headerStyle.Render(m.req.Header)
	if len(m.req.Candidates) == 0 {
		header += "\n" + warningStyle.Render("no subdirectories")
	}

	list := m.viewList()
	return header + "\n" + m.input.View() + "\n" + list
}

func (m tuiModel) viewList() string {
	if len(m.filtered) == 0 {
		return dimStyle.Render("  (no matches)")
	}

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 10
	}

	out := ""
	for i, e := range m.filtered {
		if i >= maxRows {
			break
		}

		row := e.Transport
		if !e.ModTime.IsZero() && time.Since(e.ModTime) > 0 {
			row += dimStyle.Render("  " + humanize.Time(e.ModTime))
		}
		if m.width > 4 {
			row = truncate.StringWithTail(row, uint(m.width-4), "…")
		}

		style := normalStyle
		if e.Hidden {
			style = hiddenStyle
		}
		if i == m.selection {
			out += selectedStyle.Render("> ") + style.Render(row)
		} else {
			out += "  " + style.Render(row)
		}
		if i < len(m.filtered)-1 && i < maxRows-1 {
			out += "\n"
		}
	}
	return out
}
