package order

import (
	"fmt"

	"pos/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions:
//
//	Open ──> Sent ──> PartiallyPaid ──> Paid ──> Closed
//	  │        │            │             │        │
//	  └────────┴────────────┴─────────────┘        │ (Reopen)
//	       (Voided reachable from any              ▼
//	        non-terminal state)             Sent / Open
//
// PartiallyPaid and Paid are derived states: they are recomputed from the
// paid amount against the grand total after every payment mutation rather
// than commanded directly. Merged is the terminal state of an order whose
// financial contents were absorbed by another order.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusOpen is the initial status when an order is first created.
	StatusOpen

	// StatusSent indicates at least one line has been dispatched to preparation.
	StatusSent

	// StatusPartiallyPaid indicates 0 < paid amount < grand total.
	StatusPartiallyPaid

	// StatusPaid indicates the paid amount covers the grand total.
	StatusPaid

	// StatusClosed indicates the order was settled and closed.
	// Closed orders can be reopened.
	StatusClosed

	// StatusVoided indicates the order was cancelled. Terminal.
	StatusVoided

	// StatusMerged indicates the order's contents were merged into another
	// order. Terminal.
	StatusMerged
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:       "Unknown",
		StatusOpen:          "Open",
		StatusSent:          "Sent",
		StatusPartiallyPaid: "PartiallyPaid",
		StatusPaid:          "Paid",
		StatusClosed:        "Closed",
		StatusVoided:        "Voided",
		StatusMerged:        "Merged",
	}
}

// String returns the human-readable name of the status.
// Implements the fmt.Stringer interface and is safe to call on any
// Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions
// other than Reopen (from Closed).
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusVoided || s == StatusMerged
}

// IsOpenish reports whether the order can still be mutated: lines added,
// discounts applied, payments recorded.
func (s Status) IsOpenish() bool {
	switch s {
	case StatusOpen, StatusSent, StatusPartiallyPaid, StatusPaid:
		return true
	default:
		return false
	}
}

// ValidateMutable returns an error when the status no longer accepts
// content mutations.
func (s Status) ValidateMutable() error {
	if !s.IsOpenish() {
		return errs.NewInvalidStateErrorWithCause(
			"order status",
			fmt.Errorf("%s does not accept mutations", s.String()),
		)
	}
	return nil
}

// Close transitions the status to Closed.
//
// Valid transitions: any open-ish status -> Closed. Balance settlement is
// checked by the aggregate, not here.
func (s Status) Close() (Status, error) {
	if !s.IsOpenish() {
		return 0, errs.NewInvalidStateErrorWithCause(
			"order status",
			fmt.Errorf("%s is not a valid status to close", s.String()),
		)
	}
	return StatusClosed, nil
}

// Void transitions the status to Voided.
//
// Valid transitions: any open-ish status -> Voided. Voided is terminal.
func (s Status) Void() (Status, error) {
	if !s.IsOpenish() {
		return 0, errs.NewInvalidStateErrorWithCause(
			"order status",
			fmt.Errorf("%s is not a valid status to void", s.String()),
		)
	}
	return StatusVoided, nil
}

// Reopen validates that the status permits reopening. Only Closed orders
// can be reopened; the aggregate derives the resulting status from its
// line state.
func (s Status) Reopen() error {
	if s != StatusClosed {
		return errs.NewInvalidStateErrorWithCause(
			"order status",
			fmt.Errorf("%s is not a valid status to reopen", s.String()),
		)
	}
	return nil
}

// MarkMerged transitions the status to Merged.
//
// Valid transitions: any open-ish status -> Merged. Merged is terminal.
func (s Status) MarkMerged() (Status, error) {
	if !s.IsOpenish() {
		return 0, errs.NewInvalidStateErrorWithCause(
			"order status",
			fmt.Errorf("%s is not a valid status to merge away", s.String()),
		)
	}
	return StatusMerged, nil
}
