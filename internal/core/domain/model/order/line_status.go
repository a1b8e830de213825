package order

import (
	"fmt"

	"pos/internal/pkg/errs"
)

// LineStatus represents the lifecycle state of a single order line.
//
// State transitions:
//
//	Pending ──> Sent ──> Preparing ──> Ready ──> Served
//	   │  ▲
//	   ▼  │ (Release)
//	  Held ──(Fire)──> Sent
//
// Voided is reachable from any state and is terminal. A held line is
// invisible to preparation until released or explicitly fired.
type LineStatus int

const (
	// LineStatusUnknown represents an invalid or undefined line status.
	LineStatusUnknown LineStatus = iota

	// LineStatusPending is the initial state of a newly added line.
	LineStatusPending

	// LineStatusHeld gates the line from kitchen dispatch.
	LineStatusHeld

	// LineStatusSent indicates the line was dispatched to preparation.
	LineStatusSent

	// LineStatusPreparing indicates the kitchen started working the line.
	LineStatusPreparing

	// LineStatusReady indicates preparation finished.
	LineStatusReady

	// LineStatusServed indicates the line was delivered to the guest.
	LineStatusServed

	// LineStatusVoided indicates the line was cancelled. Terminal; voided
	// lines are excluded from totals.
	LineStatusVoided
)

func getLineStatusStrings() map[LineStatus]string {
	return map[LineStatus]string{
		LineStatusUnknown:   "Unknown",
		LineStatusPending:   "Pending",
		LineStatusHeld:      "Held",
		LineStatusSent:      "Sent",
		LineStatusPreparing: "Preparing",
		LineStatusReady:     "Ready",
		LineStatusServed:    "Served",
		LineStatusVoided:    "Voided",
	}
}

// String returns the human-readable name of the line status.
func (s LineStatus) String() string {
	if str, ok := getLineStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsFireable reports whether the line can be dispatched to preparation.
func (s LineStatus) IsFireable() bool {
	return s == LineStatusPending || s == LineStatusHeld
}

// IsDispatched reports whether the line has already been sent to preparation.
func (s LineStatus) IsDispatched() bool {
	switch s {
	case LineStatusSent, LineStatusPreparing, LineStatusReady, LineStatusServed:
		return true
	default:
		return false
	}
}

// Hold transitions the line to Held.
//
// Valid transitions: Pending -> Held. Holding an already held line is a
// no-op handled by the aggregate; holding a dispatched line is an error.
func (s LineStatus) Hold() (LineStatus, error) {
	if s != LineStatusPending {
		return 0, errs.NewInvalidStateErrorWithCause(
			"line status",
			fmt.Errorf("%s is not a valid status to hold", s.String()),
		)
	}
	return LineStatusHeld, nil
}

// Release transitions the line from Held back to Pending.
func (s LineStatus) Release() (LineStatus, error) {
	if s != LineStatusHeld {
		return 0, errs.NewInvalidStateErrorWithCause(
			"line status",
			fmt.Errorf("%s is not a valid status to release", s.String()),
		)
	}
	return LineStatusPending, nil
}

// Send transitions the line to Sent. Fire and Send share this transition;
// Send skips held lines while Fire forces them through.
func (s LineStatus) Send() (LineStatus, error) {
	if !s.IsFireable() {
		return 0, errs.NewInvalidStateErrorWithCause(
			"line status",
			fmt.Errorf("%s is not a valid status to send", s.String()),
		)
	}
	return LineStatusSent, nil
}

// Void transitions the line to Voided.
//
// Valid transitions: any non-voided state -> Voided. Voiding twice is an
// error so double-void attempts are detectable.
func (s LineStatus) Void() (LineStatus, error) {
	if s == LineStatusVoided {
		return 0, errs.NewInvalidStateErrorWithCause(
			"line status",
			fmt.Errorf("line is already voided"),
		)
	}
	return LineStatusVoided, nil
}

// Progress transitions a dispatched line along the preparation path:
// Sent -> Preparing -> Ready -> Served. Each step may only advance by the
// kitchen's reported order.
func (s LineStatus) Progress(next LineStatus) (LineStatus, error) {
	valid := map[LineStatus]LineStatus{
		LineStatusSent:      LineStatusPreparing,
		LineStatusPreparing: LineStatusReady,
		LineStatusReady:     LineStatusServed,
	}
	if expected, ok := valid[s]; !ok || expected != next {
		return 0, errs.NewInvalidStateErrorWithCause(
			"line status",
			fmt.Errorf("%s cannot progress to %s", s.String(), next.String()),
		)
	}
	return next, nil
}
