package order

import (
	"fmt"

	"pos/internal/pkg/errs"
)

// Type classifies how an order is fulfilled. The type is fixed at creation
// and drives downstream routing (table service, kitchen display, delivery
// hand-off) owned by external collaborators.
type Type int

const (
	// TypeUnknown represents an invalid or undefined order type.
	TypeUnknown Type = iota

	// TypeDineIn is table service inside the venue.
	TypeDineIn

	// TypeTakeout is collected by the customer.
	TypeTakeout

	// TypeDelivery is delivered to the customer.
	TypeDelivery

	// TypeDriveThru is served through the drive-thru lane.
	TypeDriveThru

	// TypeOnline originates from an online ordering channel.
	TypeOnline

	// TypeTab is an open bar tab settled later.
	TypeTab
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:   "Unknown",
		TypeDineIn:    "DineIn",
		TypeTakeout:   "Takeout",
		TypeDelivery:  "Delivery",
		TypeDriveThru: "DriveThru",
		TypeOnline:    "Online",
		TypeTab:       "Tab",
	}
}

func getValidTypeStrings() map[Type]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Type]string{
		TypeDineIn:    "DineIn",
		TypeTakeout:   "Takeout",
		TypeDelivery:  "Delivery",
		TypeDriveThru: "DriveThru",
		TypeOnline:    "Online",
		TypeTab:       "Tab",
	}
}

// Validate checks if the Type value is valid.
func (t Type) Validate() error {
	if _, ok := getValidTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"order type is invalid",
			fmt.Errorf("%d is not a valid order type", t),
		)
	}
	return nil
}

// String returns the human-readable name of the order type.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}
