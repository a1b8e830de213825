package order

import (
	"time"

	"pos/internal/core/domain/model/kernel"
)

// Modifier is an adjustment to a line item, such as an extra topping or a
// preparation instruction with a price.
type Modifier struct {
	name     string
	price    kernel.Money
	quantity int
}

// Name returns the modifier name.
func (m Modifier) Name() string {
	return m.name
}

// Price returns the modifier's unit price.
func (m Modifier) Price() kernel.Money {
	return m.price
}

// Quantity returns the modifier quantity.
func (m Modifier) Quantity() int {
	return m.quantity
}

// total returns the modifier's contribution to the line total.
func (m Modifier) total() kernel.Money {
	return m.price.MulQty(m.quantity)
}

// BundleComponent is one selected component of a bundled menu item
// (for example the chosen side and drink of a combo).
type BundleComponent struct {
	menuItemID kernel.UUID
	name       string
	quantity   int
}

// MenuItemID returns the component's menu item reference.
func (c BundleComponent) MenuItemID() kernel.UUID {
	return c.menuItemID
}

// Name returns the component name.
func (c BundleComponent) Name() string {
	return c.name
}

// Quantity returns the component quantity.
func (c BundleComponent) Quantity() int {
	return c.quantity
}

// Line is one ordered item within the order aggregate. Lines are created by
// AddLine, mutated exclusively through aggregate events, and logically
// removed by void (post-send) or hard-removed (pre-send only).
//
// Invariants:
//   - A voided line is excluded from totals and cannot transition further.
//   - Quantity is immutable after the line has been sent; only notes may change.
//   - A held line cannot be sent unless released or fired with override.
type Line struct {
	id            kernel.UUID
	menuItemID    kernel.UUID
	name          string
	quantity      int
	unitPrice     kernel.Money
	priceOverride *kernel.Money
	taxRate       float64
	notes         string
	seat          int
	course        int
	isBundle      bool
	modifiers     []Modifier
	components    []BundleComponent

	status     LineStatus
	everSent   bool
	holdReason string
	heldBy     *kernel.UUID
	heldAt     *time.Time
	sentBy     *kernel.UUID
	sentAt     *time.Time
	voidedBy   *kernel.UUID
	voidReason string
	voidedAt   *time.Time
	addedBy    kernel.UUID
	addedAt    time.Time

	// recomputed by the totals calculator after every mutation
	total          kernel.Money
	discountAmount kernel.Money
	taxAmount      kernel.Money
}

// ID returns the line's unique identifier.
func (l *Line) ID() kernel.UUID {
	return l.id
}

// MenuItemID returns the referenced menu item.
func (l *Line) MenuItemID() kernel.UUID {
	return l.menuItemID
}

// Name returns the line's display name.
func (l *Line) Name() string {
	return l.name
}

// Quantity returns the ordered quantity.
func (l *Line) Quantity() int {
	return l.quantity
}

// UnitPrice returns the unit price fixed at add-time.
func (l *Line) UnitPrice() kernel.Money {
	return l.unitPrice
}

// PriceOverride returns the manually overridden unit price, if any.
func (l *Line) PriceOverride() *kernel.Money {
	return l.priceOverride
}

// EffectiveUnitPrice returns the override price when set, otherwise the
// add-time unit price.
func (l *Line) EffectiveUnitPrice() kernel.Money {
	if l.priceOverride != nil {
		return *l.priceOverride
	}
	return l.unitPrice
}

// TaxRate returns the percentage tax rate fixed at add-time.
func (l *Line) TaxRate() float64 {
	return l.taxRate
}

// Notes returns the preparation notes.
func (l *Line) Notes() string {
	return l.notes
}

// Seat returns the seat number, zero when unassigned.
func (l *Line) Seat() int {
	return l.seat
}

// Course returns the dining course number. Defaults to 1.
func (l *Line) Course() int {
	return l.course
}

// IsBundle reports whether the line is a bundled menu item.
func (l *Line) IsBundle() bool {
	return l.isBundle
}

// Modifiers returns the line's modifiers.
func (l *Line) Modifiers() []Modifier {
	return l.modifiers
}

// Components returns the selected bundle components.
func (l *Line) Components() []BundleComponent {
	return l.components
}

// Status returns the line's lifecycle status.
func (l *Line) Status() LineStatus {
	return l.status
}

// IsVoided reports whether the line has been voided.
func (l *Line) IsVoided() bool {
	return l.status == LineStatusVoided
}

// IsHeld reports whether the line is currently held.
func (l *Line) IsHeld() bool {
	return l.status == LineStatusHeld
}

// EverSent reports whether the line was ever dispatched to preparation.
// Lines that were ever sent cannot be hard-removed, only voided.
func (l *Line) EverSent() bool {
	return l.everSent
}

// HoldReason returns the reason recorded when the line was held.
func (l *Line) HoldReason() string {
	return l.holdReason
}

// SentAt returns when the line was dispatched, nil if never sent.
func (l *Line) SentAt() *time.Time {
	return l.sentAt
}

// SentBy returns who dispatched the line, nil if never sent.
func (l *Line) SentBy() *kernel.UUID {
	return l.sentBy
}

// VoidedAt returns when the line was voided, nil if not voided.
func (l *Line) VoidedAt() *time.Time {
	return l.voidedAt
}

// VoidReason returns the reason recorded when the line was voided.
func (l *Line) VoidReason() string {
	return l.voidReason
}

// AddedBy returns who added the line.
func (l *Line) AddedBy() kernel.UUID {
	return l.addedBy
}

// AddedAt returns when the line was added.
func (l *Line) AddedAt() time.Time {
	return l.addedAt
}

// Total returns the line total (quantity x effective unit price plus
// modifiers) under the current state. Zero for voided lines.
func (l *Line) Total() kernel.Money {
	return l.total
}

// DiscountAmount returns the line-scoped discount amount under the current state.
func (l *Line) DiscountAmount() kernel.Money {
	return l.discountAmount
}

// TaxAmount returns the line's tax under the current state: the tax rate
// applied to the line's net amount (total minus line discounts).
func (l *Line) TaxAmount() kernel.Money {
	return l.taxAmount
}

// grossTotal computes quantity x effective unit price plus modifier totals.
func (l *Line) grossTotal() kernel.Money {
	total := l.EffectiveUnitPrice().MulQty(l.quantity)
	for _, m := range l.modifiers {
		total = total.Add(m.total())
	}
	return total
}
