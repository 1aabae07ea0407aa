// Package selector drives the interactive candidate selection session.
// The interaction itself is behind the Selector port so the loop can be
// exercised with scripted outcomes in tests and so the external process
// implementation and the built-in picker are interchangeable.
package selector

import (
	"context"

	"github.com/icd-sh/icd/internal/enumerate"
)

// Request is one blocking round-trip with a selector implementation.
type Request struct {
	// Candidates is the full candidate stream, transport-encoded, in
	// presentation order.
	Candidates []enumerate.Entry

	// Query is the initial query text, echoed back in the outcome so a
	// toggle round-trip does not lose what the user typed.
	Query string

	// Header is the status line shown above the list. It reflects the
	// hidden-visibility state and any inaccessibility warning.
	Header string

	// ToggleKey is intercepted by the selector and reported instead of a
	// selection.
	ToggleKey string

	// AcceptKey accepts the highlighted candidate.
	AcceptKey string
}

// OutcomeKind classifies how a round-trip ended.
type OutcomeKind int

const (
	// OutcomeCancelled means the user aborted; the editing buffer must be
	// left untouched.
	OutcomeCancelled OutcomeKind = iota
	// OutcomeAccepted means a candidate was chosen.
	OutcomeAccepted
	// OutcomeToggled means the toggle key was pressed; the caller
	// re-enumerates and issues another round-trip.
	OutcomeToggled
)

// Outcome is the result of one round-trip.
type Outcome struct {
	Kind OutcomeKind

	// Selected is the transport form of the chosen candidate; meaningful
	// only for OutcomeAccepted.
	Selected string

	// Query is the query text as it stood when the round-trip ended.
	Query string
}

// Selector is the synchronous port to an interactive selection process.
// Implementations block until the user accepts, cancels or toggles.
type Selector interface {
	Select(ctx context.Context, req Request) (Outcome, error)
}
