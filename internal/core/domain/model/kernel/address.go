package kernel

import (
	"errors"
	"fmt"

	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly initialized Address.
// Addresses must be created via the NewAddress constructor to ensure all identifiers are valid.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is the stable routing key for an order aggregate. It combines the
// organization, site, and order identifiers into one immutable value object,
// and is the identity under which an order's actor is activated and addressed.
//
// Example:
//
//	addr, err := kernel.NewAddress(orgID, siteID, orderID)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(addr) // Output: <org>/<site>/<order>
type Address struct { //nolint:recvcheck //using for validation
	orgID   UUID
	siteID  UUID
	orderID UUID

	guard guard.ConstructorGuard
}

// NewAddress creates a new Address from the organization, site, and order identifiers.
// All three identifiers must be valid UUIDs.
//
// Returns:
//   - Address: A valid address instance
//   - error: Validation error if any identifier is invalid
func NewAddress(orgID UUID, siteID UUID, orderID UUID) (Address, error) {
	addr := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		addr.setOrgID(orgID),
		addr.setSiteID(siteID),
		addr.setOrderID(orderID),
	); err != nil {
		return Address{}, err
	}

	return addr, nil
}

// Validate ensures the Address instance was properly constructed through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// OrgID returns the organization identifier.
func (a Address) OrgID() UUID {
	return a.orgID
}

// SiteID returns the site identifier.
func (a Address) SiteID() UUID {
	return a.siteID
}

// OrderID returns the order identifier.
func (a Address) OrderID() UUID {
	return a.orderID
}

// Sibling returns the address of another order at the same organization and site.
// Split and merge choreography uses this to route commands to sibling actors.
func (a Address) Sibling(orderID UUID) (Address, error) {
	return NewAddress(a.orgID, a.siteID, orderID)
}

// IsEqual compares two addresses component-wise.
func (a Address) IsEqual(other Address) bool {
	return a.orgID.IsEqual(other.orgID) &&
		a.siteID.IsEqual(other.siteID) &&
		a.orderID.IsEqual(other.orderID)
}

// String returns the canonical "org/site/order" representation of the address.
// The string form is used as the routing key in the actor registry.
func (a Address) String() string {
	return fmt.Sprintf("%s/%s/%s", a.orgID, a.siteID, a.orderID)
}

func (a *Address) setOrgID(id UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.orgID = id
	return nil
}

func (a *Address) setSiteID(id UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.siteID = id
	return nil
}

func (a *Address) setOrderID(id UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.orderID = id
	return nil
}
