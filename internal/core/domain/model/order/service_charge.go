package order

import (
	"time"

	"pos/internal/core/domain/model/kernel"
)

// ServiceCharge is an order-level charge computed as a percentage of the
// subtotal, such as a banquet fee or auto-gratuity. Taxable charges
// contribute to tax through the weighted-average line tax rate.
type ServiceCharge struct {
	id      kernel.UUID
	name    string
	rate    float64
	amount  kernel.Money
	taxable bool
	addedBy kernel.UUID
	addedAt time.Time
}

// ID returns the service charge's unique identifier.
func (c *ServiceCharge) ID() kernel.UUID {
	return c.id
}

// Name returns the display name of the charge.
func (c *ServiceCharge) Name() string {
	return c.name
}

// Rate returns the percentage rate applied to the subtotal.
func (c *ServiceCharge) Rate() float64 {
	return c.rate
}

// Amount returns the computed charge amount under the current order state.
func (c *ServiceCharge) Amount() kernel.Money {
	return c.amount
}

// Taxable reports whether the charge contributes to tax.
func (c *ServiceCharge) Taxable() bool {
	return c.taxable
}

// AddedBy returns who added the charge.
func (c *ServiceCharge) AddedBy() kernel.UUID {
	return c.addedBy
}

// AddedAt returns when the charge was added.
func (c *ServiceCharge) AddedAt() time.Time {
	return c.addedAt
}
