package selector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icd-sh/icd/internal/enumerate"
	"github.com/icd-sh/icd/internal/transport"
)

// scriptedSelector returns pre-recorded outcomes and records the requests
// it saw, so loop behavior can be asserted deterministically.
type scriptedSelector struct {
	outcomes []Outcome
	requests []Request
}

func (s *scriptedSelector) Select(_ context.Context, req Request) (Outcome, error) {
	s.requests = append(s.requests, req)
	if len(s.outcomes) == 0 {
		return Outcome{Kind: OutcomeCancelled}, nil
	}
	out := s.outcomes[0]
	s.outcomes = s.outcomes[1:]
	return out, nil
}

func entry(name string, hidden bool) enumerate.Entry {
	return enumerate.Entry{Name: name, Transport: transport.Encode(name), Hidden: hidden}
}

func staticLister(visible, withHidden []enumerate.Entry) Lister {
	return func(includeHidden bool) ([]enumerate.Entry, error) {
		if includeHidden {
			return withHidden, nil
		}
		return visible, nil
	}
}

func TestSingleCandidateFastPath(t *testing.T) {
	sel := &scriptedSelector{}
	loop := &Loop{Selector: sel, Target: "proj"}

	only := entry("src", false)
	result, err := loop.Run(context.Background(), staticLister([]enumerate.Entry{only}, nil), "", false)
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, "src", result.Entry.Name)
	assert.Empty(t, sel.requests, "the interactive view must not be presented")
}

func TestSinglePrefixMatchFastPath(t *testing.T) {
	sel := &scriptedSelector{}
	loop := &Loop{Selector: sel, Target: "proj"}

	entries := []enumerate.Entry{entry("docs", false), entry("src", false)}
	result, err := loop.Run(context.Background(), staticLister(entries, nil), "s", false)
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, "src", result.Entry.Name)
	assert.Empty(t, sel.requests)
}

func TestPrefixFastPathUsesLocaleRule(t *testing.T) {
	sel := &scriptedSelector{}
	loop := &Loop{Selector: sel, Target: "proj", LocaleTag: "tr"}

	// Under the tr rule, "i" matches İzmir but not Isparta.
	entries := []enumerate.Entry{entry("İzmir", false), entry("Isparta", false)}
	result, err := loop.Run(context.Background(), staticLister(entries, nil), "i", false)
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, "İzmir", result.Entry.Name)
}

func TestInteractiveAccept(t *testing.T) {
	entries := []enumerate.Entry{entry("docs", false), entry("src", false)}
	sel := &scriptedSelector{outcomes: []Outcome{
		{Kind: OutcomeAccepted, Selected: "docs", Query: "d"},
	}}
	loop := &Loop{Selector: sel, Target: "proj"}

	result, err := loop.Run(context.Background(), staticLister(entries, nil), "", false)
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, "docs", result.Entry.Name)
	require.Len(t, sel.requests, 1)
	assert.Equal(t, "", sel.requests[0].Query)
	assert.Equal(t, entries, sel.requests[0].Candidates)
}

func TestCancelLeavesNothingAccepted(t *testing.T) {
	entries := []enumerate.Entry{entry("docs", false), entry("src", false)}
	sel := &scriptedSelector{outcomes: []Outcome{{Kind: OutcomeCancelled}}}
	loop := &Loop{Selector: sel, Target: "proj"}

	result, err := loop.Run(context.Background(), staticLister(entries, nil), "", false)
	require.NoError(t, err)
	assert.False(t, result.Accepted)
}

func TestToggleReenumeratesAndPreservesQuery(t *testing.T) {
	visible := []enumerate.Entry{entry("docs", false), entry("src", false)}
	withHidden := []enumerate.Entry{
		entry(".cache", true), entry(".git", true),
		entry("docs", false), entry("src", false),
	}

	sel := &scriptedSelector{outcomes: []Outcome{
		{Kind: OutcomeToggled, Query: "typed"},
		{Kind: OutcomeAccepted, Selected: `.git`, Query: "typed"},
	}}
	loop := &Loop{Selector: sel, Target: "proj", ToggleKey: "ctrl+h"}

	result, err := loop.Run(context.Background(), staticLister(visible, withHidden), "", false)
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, ".git", result.Entry.Name)
	assert.True(t, result.HiddenVisible, "the flipped flag is reported back")

	require.Len(t, sel.requests, 2)
	assert.Equal(t, visible, sel.requests[0].Candidates)
	assert.Equal(t, withHidden, sel.requests[1].Candidates,
		"a toggle forces re-enumeration before the next round-trip")
	assert.Equal(t, "typed", sel.requests[1].Query,
		"the typed query survives the toggle")
	assert.Contains(t, sel.requests[1].Header, "hidden")
}

func TestEmptyAccessibleDirectoryStillPresents(t *testing.T) {
	sel := &scriptedSelector{outcomes: []Outcome{{Kind: OutcomeCancelled}}}
	loop := &Loop{Selector: sel, Target: "proj"}

	result, err := loop.Run(context.Background(), staticLister([]enumerate.Entry{}, nil), "", false)
	require.NoError(t, err)

	assert.False(t, result.Accepted)
	require.Len(t, sel.requests, 1, "an empty list is still shown for header feedback")
	assert.Empty(t, sel.requests[0].Candidates)
}

func TestInaccessibleDirectoryPresentsWarning(t *testing.T) {
	sel := &scriptedSelector{outcomes: []Outcome{{Kind: OutcomeCancelled}}}
	loop := &Loop{Selector: sel, Target: "secret"}

	lister := func(bool) ([]enumerate.Entry, error) {
		return enumerate.List("/nonexistent-path-for-icd-tests", false)
	}
	result, err := loop.Run(context.Background(), lister, "", false)
	require.NoError(t, err)

	assert.False(t, result.Accepted)
	require.Len(t, sel.requests, 1)
	assert.Contains(t, sel.requests[0].Header, "cannot read")
}

func TestInaccessibleSkipsFastPath(t *testing.T) {
	// Even a single "candidate" must not be auto-accepted if the listing
	// came back inaccessible; here the lister errors so there is nothing
	// to accept at all.
	sel := &scriptedSelector{outcomes: []Outcome{{Kind: OutcomeCancelled}}}
	loop := &Loop{Selector: sel, Target: "secret"}

	lister := func(bool) ([]enumerate.Entry, error) {
		return enumerate.List("/nonexistent-path-for-icd-tests", false)
	}
	result, err := loop.Run(context.Background(), lister, "", false)
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Len(t, sel.requests, 1)
}

func TestAcceptedUnknownSelectionFallsBackToCancel(t *testing.T) {
	entries := []enumerate.Entry{entry("docs", false), entry("src", false)}
	sel := &scriptedSelector{outcomes: []Outcome{
		{Kind: OutcomeAccepted, Selected: "ghost"},
	}}
	loop := &Loop{Selector: sel, Target: "proj"}

	result, err := loop.Run(context.Background(), staticLister(entries, nil), "", false)
	require.NoError(t, err)
	assert.False(t, result.Accepted)
}
