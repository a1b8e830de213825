package ports

import (
	"context"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
)

// StoredEvent is one persisted event envelope as read back from the log.
type StoredEvent struct {
	OrderID   kernel.UUID
	Version   int
	EventType string
	Payload   []byte
}

// EventStore defines the persistence contract for order event logs.
// Events are append-only; an order's log is totally ordered by version.
type EventStore interface {
	// Append atomically persists the given events after the expected
	// version and stores the post-apply snapshot for readers. Returns
	// errs.ErrVersionIsInvalid when another writer got there first.
	Append(ctx context.Context, address kernel.Address, expectedVersion int, events []order.Event, snapshot order.Snapshot) error

	// Load reads an order's full event log in version order. An empty
	// slice and no error means the order has no history yet.
	Load(ctx context.Context, address kernel.Address) ([]order.Event, error)

	// LoadSnapshot reads the latest stored snapshot without replaying.
	// Returns errs.ErrObjectNotFound when the order has no history.
	LoadSnapshot(ctx context.Context, address kernel.Address) (order.Snapshot, error)
}
