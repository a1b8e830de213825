package order

import (
	"fmt"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// DiscountType classifies how a discount's value is interpreted and whether
// applying it requires a manager's approval.
//
// Value semantics per type:
//   - DiscountPercentage, DiscountEmployee, DiscountLoyalty,
//     DiscountPromotion, DiscountQuantityBreak: value is a percentage of the
//     discounted base.
//   - DiscountFixedAmount, DiscountVoucher: value is a fixed amount in cents.
//   - DiscountComp: the full base is written off; value is ignored.
//
// DiscountPriceOverride exists in the taxonomy for reporting, but price
// overrides are commanded through OverridePrice, which rewrites the line's
// effective unit price instead of adding a discount entry.
type DiscountType int

const (
	// DiscountTypeUnknown represents an invalid or undefined discount type.
	DiscountTypeUnknown DiscountType = iota

	// DiscountPercentage reduces the base by a percentage.
	DiscountPercentage

	// DiscountFixedAmount reduces the base by a fixed amount.
	DiscountFixedAmount

	// DiscountVoucher redeems a voucher for a fixed amount. Manager gated.
	DiscountVoucher

	// DiscountLoyalty redeems loyalty benefits as a percentage.
	DiscountLoyalty

	// DiscountPriceOverride marks a manual price change.
	DiscountPriceOverride

	// DiscountQuantityBreak applies a volume percentage discount.
	DiscountQuantityBreak

	// DiscountComp writes the base off entirely. Manager gated.
	DiscountComp

	// DiscountEmployee applies the staff percentage discount. Manager gated.
	DiscountEmployee

	// DiscountPromotion applies a campaign percentage discount.
	DiscountPromotion
)

func getDiscountTypeStrings() map[DiscountType]string {
	return map[DiscountType]string{
		DiscountTypeUnknown:   "Unknown",
		DiscountPercentage:    "Percentage",
		DiscountFixedAmount:   "FixedAmount",
		DiscountVoucher:       "Voucher",
		DiscountLoyalty:       "Loyalty",
		DiscountPriceOverride: "PriceOverride",
		DiscountQuantityBreak: "QuantityBreak",
		DiscountComp:          "Comp",
		DiscountEmployee:      "Employee",
		DiscountPromotion:     "Promotion",
	}
}

// Validate checks if the DiscountType value is valid.
func (t DiscountType) Validate() error {
	if t == DiscountTypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"discount type is invalid",
			fmt.Errorf("%d is not a valid discount type", t),
		)
	}
	if _, ok := getDiscountTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"discount type is invalid",
			fmt.Errorf("%d is not a valid discount type", t),
		)
	}
	return nil
}

// String returns the human-readable name of the discount type.
func (t DiscountType) String() string {
	if str, ok := getDiscountTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// RequiresApproval reports whether applying a discount of this type must
// carry an approver identity.
func (t DiscountType) RequiresApproval() bool {
	switch t {
	case DiscountComp, DiscountEmployee, DiscountPriceOverride, DiscountVoucher:
		return true
	default:
		return false
	}
}

// IsPercentage reports whether the discount value is interpreted as a
// percentage of the discounted base.
func (t DiscountType) IsPercentage() bool {
	switch t {
	case DiscountPercentage, DiscountLoyalty, DiscountQuantityBreak,
		DiscountEmployee, DiscountPromotion:
		return true
	default:
		return false
	}
}

// Discount is one applied discount. Order-scoped discounts reduce the order
// subtotal; line-scoped discounts reduce a single line's net amount (and,
// through it, that line's tax). The computed amount is recalculated from the
// current state after every mutation, never incrementally adjusted.
type Discount struct {
	id         kernel.UUID
	lineID     *kernel.UUID
	kind       DiscountType
	value      float64
	amount     kernel.Money
	approverID *kernel.UUID
	reason     string
	appliedBy  kernel.UUID
	appliedAt  time.Time
}

// ID returns the discount's unique identifier.
func (d *Discount) ID() kernel.UUID {
	return d.id
}

// LineID returns the targeted line for line-scoped discounts.
// Returns nil for order-scoped discounts.
func (d *Discount) LineID() *kernel.UUID {
	return d.lineID
}

// Kind returns the discount type.
func (d *Discount) Kind() DiscountType {
	return d.kind
}

// Value returns the raw discount value (percentage or cents per Kind).
func (d *Discount) Value() float64 {
	return d.value
}

// Amount returns the computed discount amount under the current order state.
func (d *Discount) Amount() kernel.Money {
	return d.amount
}

// ApproverID returns the approving manager's identity, if any.
func (d *Discount) ApproverID() *kernel.UUID {
	return d.approverID
}

// Reason returns the free-text reason recorded on application.
func (d *Discount) Reason() string {
	return d.reason
}

// AppliedBy returns the identity that applied the discount.
func (d *Discount) AppliedBy() kernel.UUID {
	return d.appliedBy
}

// AppliedAt returns when the discount was applied.
func (d *Discount) AppliedAt() time.Time {
	return d.appliedAt
}

// compute returns the discount amount for a given base, clamped so a
// discount never exceeds what remains of the base.
func (d *Discount) compute(base kernel.Money, remaining kernel.Money) kernel.Money {
	var amount kernel.Money
	switch {
	case d.kind == DiscountComp:
		amount = remaining
	case d.kind.IsPercentage():
		amount = base.Percent(d.value)
	default:
		amount = kernel.NewMoneyFromCents(int64(d.value))
	}

	if amount > remaining {
		amount = remaining
	}
	if amount.IsNegative() {
		amount = kernel.NewMoneyFromCents(0)
	}
	return amount
}
