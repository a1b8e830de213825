package order

import (
	"time"

	"pos/internal/core/domain/model/kernel"
)

// Payment records the result of one settlement against the order. The order
// does not talk to payment processors; it records outcomes reported by the
// payment collaborator. A payment is removable while the order is open,
// which restores the prior balance exactly.
type Payment struct {
	id         kernel.UUID
	amount     kernel.Money
	tip        kernel.Money
	method     string
	recordedBy kernel.UUID
	recordedAt time.Time
}

// ID returns the payment identity assigned by the payment collaborator.
func (p *Payment) ID() kernel.UUID {
	return p.id
}

// Amount returns the settled amount applied to the balance.
func (p *Payment) Amount() kernel.Money {
	return p.amount
}

// Tip returns the tip amount. Tips do not reduce the balance due.
func (p *Payment) Tip() kernel.Money {
	return p.tip
}

// Method returns the tender method, e.g. "card" or "cash".
func (p *Payment) Method() string {
	return p.method
}

// RecordedBy returns who recorded the payment.
func (p *Payment) RecordedBy() kernel.UUID {
	return p.recordedBy
}

// RecordedAt returns when the payment was recorded.
func (p *Payment) RecordedAt() time.Time {
	return p.recordedAt
}

// SplitReference records, on the parent order, a child order carved out by
// a split along with the lines that moved to it. Kept for audit and
// navigation between the split lineage.
type SplitReference struct {
	childOrderID kernel.UUID
	childNumber  string
	lineIDs      []kernel.UUID
	splitBy      kernel.UUID
	splitAt      time.Time
}

// ChildOrderID returns the child order's identity.
func (r SplitReference) ChildOrderID() kernel.UUID {
	return r.childOrderID
}

// ChildNumber returns the child order's human-readable number.
func (r SplitReference) ChildNumber() string {
	return r.childNumber
}

// LineIDs returns the identities of the lines moved to the child.
func (r SplitReference) LineIDs() []kernel.UUID {
	return r.lineIDs
}

// SplitBy returns who performed the split.
func (r SplitReference) SplitBy() kernel.UUID {
	return r.splitBy
}

// SplitAt returns when the split happened.
func (r SplitReference) SplitAt() time.Time {
	return r.splitAt
}
