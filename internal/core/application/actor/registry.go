package actor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"
	"pos/internal/pkg/errs"
)

// DefaultIdleTTL is how long a handle may sit idle before eviction.
const DefaultIdleTTL = 15 * time.Minute

// Registry owns the live order handles of this process, keyed by address.
// Acquiring an address that has no live handle activates one by replaying
// the order's event log; eviction later is invisible to callers because the
// next acquire replays again.
//
// The registry also runs the two-order choreographies (split, merge), which
// need turns on two handles and therefore cannot live inside either one.
type Registry struct {
	store    ports.EventStore
	notifier ports.KitchenNotifier
	logger   *slog.Logger
	idleTTL  time.Duration

	mu      sync.Mutex
	handles map[string]*Handle
	closed  bool
}

// ErrRegistryClosed is returned by operations on a shut-down registry.
var ErrRegistryClosed = errors.New("order registry is closed")

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithIdleTTL overrides the idle eviction threshold.
func WithIdleTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) {
		r.idleTTL = ttl
	}
}

// NewRegistry creates an empty registry. The notifier may be nil when no
// kitchen transport is wired; dispatch then only updates order state.
func NewRegistry(store ports.EventStore, notifier ports.KitchenNotifier, logger *slog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:    store,
		notifier: notifier,
		logger:   logger,
		idleTTL:  DefaultIdleTTL,
		handles:  make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire returns the live handle for an address, activating one by replay
// when none is resident. Concurrent acquires of the same address share one
// handle.
func (r *Registry) Acquire(ctx context.Context, address kernel.Address) (*Handle, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	if h, ok := r.handles[address.String()]; ok {
		r.mu.Unlock()
		return h, nil
	}
	r.mu.Unlock()

	// Replay happens outside the lock; only registration races are resolved
	// under it, keeping slow activations from blocking unrelated orders.
	h, err := activate(ctx, address, r.store, r.notifier, r.logger)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		h.stop()
		return nil, ErrRegistryClosed
	}
	if existing, ok := r.handles[address.String()]; ok {
		h.stop()
		return existing, nil
	}
	r.handles[address.String()] = h
	return h, nil
}

// ResidentCount returns the number of live handles.
func (r *Registry) ResidentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// EvictIdle stops and forgets every handle idle longer than the registry's
// TTL. Returns how many were evicted. Safe to run on a schedule; evicted
// orders reactivate transparently on the next acquire.
func (r *Registry) EvictIdle() int {
	cutoff := time.Now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for key, h := range r.handles {
		if h.IdleSince().Before(cutoff) {
			h.stop()
			delete(r.handles, key)
			evicted++
		}
	}

	if evicted > 0 {
		r.logger.Info("evicted idle order handles", "count", evicted, "resident", len(r.handles))
	}
	return evicted
}

// Shutdown stops every handle and refuses further acquires.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for key, h := range r.handles {
		h.stop()
		delete(r.handles, key)
	}
}

// SplitResult carries both sides of a completed split.
type SplitResult struct {
	Parent order.Snapshot
	Child  order.Snapshot
}

// SplitByItems carves the listed lines off the parent order into a new
// child order at the same site. Three serialized turns across two handles:
// the parent validates and copies the selection, the child is created from
// the copies, and only then does the parent void the moved lines and record
// the lineage.
//
// The child commit lands first, so a crash between the two appends leaves
// the moved lines live on both orders until the parent side is retried;
// the retry is detectable because the parent's lines are already voided.
func (r *Registry) SplitByItems(ctx context.Context, parent kernel.Address, childOrderID kernel.UUID, childNumber string, lineIDs []kernel.UUID, splitBy kernel.UUID) (SplitResult, error) {
	if childOrderID.IsEqual(parent.OrderID()) {
		return SplitResult{}, errs.NewValueIsInvalidErrorWithCause(
			"child order", errors.New("an order cannot be split into itself"))
	}

	childAddress, err := parent.Sibling(childOrderID)
	if err != nil {
		return SplitResult{}, err
	}

	parentHandle, err := r.Acquire(ctx, parent)
	if err != nil {
		return SplitResult{}, err
	}

	moved, parentSnapshot, err := parentHandle.prepareSplit(ctx, lineIDs)
	if err != nil {
		return SplitResult{}, err
	}

	childHandle, err := r.Acquire(ctx, childAddress)
	if err != nil {
		return SplitResult{}, err
	}

	childSnapshot, err := childHandle.createFromSplit(ctx, order.CreateFromSplitParams{
		Number:        childNumber,
		OrderType:     parentSnapshot.OrderType,
		GuestCount:    parentSnapshot.GuestCount,
		ParentOrderID: parent.OrderID(),
		ParentNumber:  parentSnapshot.Number,
		Lines:         moved,
		SplitBy:       splitBy,
	})
	if err != nil {
		return SplitResult{}, err
	}

	parentSnapshot, err = parentHandle.recordSplit(ctx, childOrderID, childNumber, lineIDs, splitBy)
	if err != nil {
		return SplitResult{}, err
	}

	return SplitResult{Parent: parentSnapshot, Child: childSnapshot}, nil
}

// MergeResult carries both sides of a completed merge.
type MergeResult struct {
	Target order.Snapshot
	Source order.Snapshot
}

// MergeOrders folds the source order into the target order at the same
// site. The target absorbs the source's live lines, discounts, charges,
// and payments first; the source is then marked merged, which is terminal.
//
// A crash between the two appends leaves the source open with its contents
// duplicated on the target until the source side is retried; the retry is
// a pure status flip and cannot double the money.
func (r *Registry) MergeOrders(ctx context.Context, source kernel.Address, targetOrderID kernel.UUID, mergedBy kernel.UUID) (MergeResult, error) {
	if targetOrderID.IsEqual(source.OrderID()) {
		return MergeResult{}, errs.NewValueIsInvalidErrorWithCause(
			"target order", errors.New("an order cannot be merged into itself"))
	}

	targetAddress, err := source.Sibling(targetOrderID)
	if err != nil {
		return MergeResult{}, err
	}

	sourceHandle, err := r.Acquire(ctx, source)
	if err != nil {
		return MergeResult{}, err
	}
	targetHandle, err := r.Acquire(ctx, targetAddress)
	if err != nil {
		return MergeResult{}, err
	}

	sourceSnapshot, err := sourceHandle.GetSnapshot(ctx)
	if err != nil {
		return MergeResult{}, err
	}

	targetSnapshot, err := targetHandle.absorbOrder(ctx, sourceSnapshot, mergedBy)
	if err != nil {
		return MergeResult{}, err
	}

	sourceSnapshot, err = sourceHandle.markAsMerged(ctx, targetOrderID, targetSnapshot.Number, mergedBy)
	if err != nil {
		return MergeResult{}, err
	}

	return MergeResult{Target: targetSnapshot, Source: sourceSnapshot}, nil
}
