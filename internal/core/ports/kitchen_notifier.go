package ports

import (
	"context"

	"pos/internal/core/domain/model/kernel"
)

// KitchenTicket is the dispatch notification handed to the kitchen when
// lines are sent or fired.
type KitchenTicket struct {
	OrderID     kernel.UUID
	OrderNumber string
	TableID     *kernel.UUID
	LineIDs     []kernel.UUID
	Course      int
	FiredBy     kernel.UUID
}

// KitchenNotifier defines the outbound contract for kitchen dispatch.
// Delivery is at-least-once; consumers deduplicate on line identity.
type KitchenNotifier interface {
	// NotifyFired publishes a ticket for lines that just left the order.
	NotifyFired(ctx context.Context, ticket KitchenTicket) error
}
