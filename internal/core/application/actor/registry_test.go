package actor_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"pos/internal/core/application/actor"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"
	"pos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryEventStore is an in-memory EventStore with the same optimistic
// concurrency semantics as the postgres adapter.
type memoryEventStore struct {
	mu        sync.Mutex
	logs      map[string][]order.Event
	snapshots map[string]order.Snapshot
	failNext  bool
}

func newMemoryEventStore() *memoryEventStore {
	return &memoryEventStore{
		logs:      make(map[string][]order.Event),
		snapshots: make(map[string]order.Snapshot),
	}
}

func (s *memoryEventStore) Append(_ context.Context, address kernel.Address, expectedVersion int, events []order.Event, snapshot order.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNext {
		s.failNext = false
		return errs.NewVersionIsInvalidErrorWithCause("expected version")
	}

	key := address.String()
	if len(s.logs[key]) != expectedVersion {
		return errs.NewVersionIsInvalidErrorWithCause("expected version")
	}
	s.logs[key] = append(s.logs[key], events...)
	s.snapshots[key] = snapshot
	return nil
}

func (s *memoryEventStore) Load(_ context.Context, address kernel.Address) ([]order.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logs[address.String()]
	out := make([]order.Event, len(log))
	copy(out, log)
	return out, nil
}

func (s *memoryEventStore) LoadSnapshot(_ context.Context, address kernel.Address) (order.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.snapshots[address.String()]
	if !ok {
		return order.Snapshot{}, errs.NewObjectNotFoundError("order snapshot", address.String())
	}
	return snapshot, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	tickets []ports.KitchenTicket
}

func (n *recordingNotifier) NotifyFired(_ context.Context, ticket ports.KitchenTicket) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tickets = append(n.tickets, ticket)
	return nil
}

func (n *recordingNotifier) Tickets() []ports.KitchenTicket {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.KitchenTicket(nil), n.tickets...)
}

func newTestRegistry(t *testing.T, store ports.EventStore, notifier ports.KitchenNotifier) *actor.Registry {
	t.Helper()

	registry := actor.NewRegistry(store, notifier, slog.New(slog.DiscardHandler))
	t.Cleanup(registry.Shutdown)
	return registry
}

func newRegistryAddress(t *testing.T) kernel.Address {
	t.Helper()

	address, err := kernel.NewAddress(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	return address
}

func createOrderOn(t *testing.T, registry *actor.Registry, address kernel.Address) *actor.Handle {
	t.Helper()

	h, err := registry.Acquire(context.Background(), address)
	require.NoError(t, err)

	_, err = h.CreateOrder(context.Background(), order.CreateParams{
		Number:    "T-3001",
		OrderType: order.TypeDineIn,
		CreatedBy: kernel.NewUUID(),
	})
	require.NoError(t, err)
	return h
}

func addLineOn(t *testing.T, h *actor.Handle, name string, qty int, unitCents int64) kernel.UUID {
	t.Helper()

	result, err := h.AddLine(context.Background(), order.AddLineParams{
		MenuItemID: kernel.NewUUID(),
		Name:       name,
		Quantity:   qty,
		UnitPrice:  kernel.NewMoneyFromCents(unitCents),
		AddedBy:    kernel.NewUUID(),
	})
	require.NoError(t, err)
	return result.LineID
}

func TestRegistryAcquire(t *testing.T) {
	t.Run("should share one handle across acquires of the same address", func(t *testing.T) {
		registry := newTestRegistry(t, newMemoryEventStore(), nil)
		address := newRegistryAddress(t)

		first, err := registry.Acquire(context.Background(), address)
		require.NoError(t, err)
		second, err := registry.Acquire(context.Background(), address)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, registry.ResidentCount())
	})

	t.Run("should refuse acquires after shutdown", func(t *testing.T) {
		registry := actor.NewRegistry(newMemoryEventStore(), nil, slog.New(slog.DiscardHandler))
		registry.Shutdown()

		_, err := registry.Acquire(context.Background(), newRegistryAddress(t))

		assert.ErrorIs(t, err, actor.ErrRegistryClosed)
	})
}

func TestHandleSerialization(t *testing.T) {
	t.Run("should serialize concurrent commands on one order", func(t *testing.T) {
		store := newMemoryEventStore()
		registry := newTestRegistry(t, store, nil)
		address := newRegistryAddress(t)
		h := createOrderOn(t, registry, address)

		const writers = 16
		var wg sync.WaitGroup
		failures := make(chan error, writers)

		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.AddLine(context.Background(), order.AddLineParams{
					MenuItemID: kernel.NewUUID(),
					Name:       "Concurrent item",
					Quantity:   1,
					UnitPrice:  kernel.NewMoneyFromCents(100),
					AddedBy:    kernel.NewUUID(),
				})
				if err != nil {
					failures <- err
				}
			}()
		}
		wg.Wait()
		close(failures)

		for err := range failures {
			t.Fatalf("concurrent AddLine failed: %v", err)
		}

		snapshot, err := h.GetSnapshot(context.Background())
		require.NoError(t, err)
		assert.Len(t, snapshot.Lines, writers)
		// creation event plus one per line, with no version gaps
		assert.Equal(t, writers+1, snapshot.Version)
		assert.Equal(t, int64(writers*100), snapshot.Totals.Subtotal.Cents())
	})
}

func TestEvictionAndReplay(t *testing.T) {
	t.Run("should reactivate an evicted order with identical state", func(t *testing.T) {
		store := newMemoryEventStore()
		registry := actor.NewRegistry(store, nil, slog.New(slog.DiscardHandler), actor.WithIdleTTL(0))
		t.Cleanup(registry.Shutdown)

		address := newRegistryAddress(t)
		h := createOrderOn(t, registry, address)
		addLineOn(t, h, "Burger", 2, 1000)
		before, err := h.GetSnapshot(context.Background())
		require.NoError(t, err)

		evicted := registry.EvictIdle()
		assert.Equal(t, 1, evicted)
		assert.Zero(t, registry.ResidentCount())

		reacquired, err := registry.Acquire(context.Background(), address)
		require.NoError(t, err)
		after, err := reacquired.GetSnapshot(context.Background())
		require.NoError(t, err)

		assert.Equal(t, before, after)
	})

	t.Run("should fail queued turns on an evicted handle", func(t *testing.T) {
		registry := actor.NewRegistry(newMemoryEventStore(), nil, slog.New(slog.DiscardHandler), actor.WithIdleTTL(0))
		t.Cleanup(registry.Shutdown)

		address := newRegistryAddress(t)
		h, err := registry.Acquire(context.Background(), address)
		require.NoError(t, err)

		registry.EvictIdle()

		_, err = h.GetSnapshot(context.Background())
		assert.ErrorIs(t, err, actor.ErrHandleClosed)
	})
}

func TestAppendFailureRollback(t *testing.T) {
	t.Run("should discard in-memory state when the append fails", func(t *testing.T) {
		store := newMemoryEventStore()
		registry := newTestRegistry(t, store, nil)
		address := newRegistryAddress(t)
		h := createOrderOn(t, registry, address)
		addLineOn(t, h, "Burger", 1, 1000)

		store.mu.Lock()
		store.failNext = true
		store.mu.Unlock()

		_, err := h.AddLine(context.Background(), order.AddLineParams{
			MenuItemID: kernel.NewUUID(),
			Name:       "Doomed item",
			Quantity:   1,
			UnitPrice:  kernel.NewMoneyFromCents(500),
			AddedBy:    kernel.NewUUID(),
		})
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)

		snapshot, err := h.GetSnapshot(context.Background())
		require.NoError(t, err)
		assert.Len(t, snapshot.Lines, 1)
		assert.Equal(t, int64(1000), snapshot.Totals.Subtotal.Cents())
		assert.Equal(t, 2, snapshot.Version)
	})
}

func TestKitchenNotification(t *testing.T) {
	t.Run("should publish a ticket when lines are sent", func(t *testing.T) {
		notifier := &recordingNotifier{}
		registry := newTestRegistry(t, newMemoryEventStore(), notifier)
		address := newRegistryAddress(t)
		h := createOrderOn(t, registry, address)
		lineID := addLineOn(t, h, "Burger", 1, 1000)

		_, err := h.Send(context.Background(), kernel.NewUUID())
		require.NoError(t, err)

		tickets := notifier.Tickets()
		require.Len(t, tickets, 1)
		require.Len(t, tickets[0].LineIDs, 1)
		assert.True(t, tickets[0].LineIDs[0].IsEqual(lineID))
		assert.Equal(t, "T-3001", tickets[0].OrderNumber)
		assert.Equal(t, 1, tickets[0].Course)
	})

	t.Run("should carry the fired course on the ticket", func(t *testing.T) {
		notifier := &recordingNotifier{}
		registry := newTestRegistry(t, newMemoryEventStore(), notifier)
		address := newRegistryAddress(t)
		h := createOrderOn(t, registry, address)
		lineID := addLineOn(t, h, "Dessert", 1, 700)

		_, err := h.SetItemCourse(context.Background(), []kernel.UUID{lineID}, 2, kernel.NewUUID())
		require.NoError(t, err)

		_, err = h.FireCourse(context.Background(), 2, kernel.NewUUID())
		require.NoError(t, err)

		tickets := notifier.Tickets()
		require.Len(t, tickets, 1)
		assert.Equal(t, 2, tickets[0].Course)
		require.Len(t, tickets[0].LineIDs, 1)
		assert.True(t, tickets[0].LineIDs[0].IsEqual(lineID))
	})

	t.Run("should publish one ticket per course when a send spans courses", func(t *testing.T) {
		notifier := &recordingNotifier{}
		registry := newTestRegistry(t, newMemoryEventStore(), notifier)
		address := newRegistryAddress(t)
		h := createOrderOn(t, registry, address)
		starterID := addLineOn(t, h, "Soup", 1, 600)
		mainID := addLineOn(t, h, "Steak", 1, 2500)

		_, err := h.SetItemCourse(context.Background(), []kernel.UUID{mainID}, 2, kernel.NewUUID())
		require.NoError(t, err)

		_, err = h.Send(context.Background(), kernel.NewUUID())
		require.NoError(t, err)

		tickets := notifier.Tickets()
		require.Len(t, tickets, 2)
		assert.Equal(t, 1, tickets[0].Course)
		require.Len(t, tickets[0].LineIDs, 1)
		assert.True(t, tickets[0].LineIDs[0].IsEqual(starterID))
		assert.Equal(t, 2, tickets[1].Course)
		require.Len(t, tickets[1].LineIDs, 1)
		assert.True(t, tickets[1].LineIDs[0].IsEqual(mainID))
	})

	t.Run("should publish a ticket when held lines are fired", func(t *testing.T) {
		notifier := &recordingNotifier{}
		registry := newTestRegistry(t, newMemoryEventStore(), notifier)
		address := newRegistryAddress(t)
		h := createOrderOn(t, registry, address)
		lineID := addLineOn(t, h, "Steak", 1, 2500)

		_, err := h.HoldItems(context.Background(), []kernel.UUID{lineID}, kernel.NewUUID(), "course pacing")
		require.NoError(t, err)
		require.Empty(t, notifier.Tickets())

		_, err = h.FireAll(context.Background(), kernel.NewUUID())
		require.NoError(t, err)

		tickets := notifier.Tickets()
		require.Len(t, tickets, 1)
		assert.Equal(t, 1, tickets[0].Course)
	})
}

func TestSplitChoreography(t *testing.T) {
	t.Run("should split lines into a child order and conserve money", func(t *testing.T) {
		store := newMemoryEventStore()
		registry := newTestRegistry(t, store, nil)
		parentAddress := newRegistryAddress(t)
		h := createOrderOn(t, registry, parentAddress)
		addLineOn(t, h, "Burger", 1, 1000)
		wineID := addLineOn(t, h, "Wine", 1, 2000)

		before, err := h.GetSnapshot(context.Background())
		require.NoError(t, err)

		childOrderID := kernel.NewUUID()
		result, err := registry.SplitByItems(context.Background(), parentAddress, childOrderID, "T-3001-2", []kernel.UUID{wineID}, kernel.NewUUID())
		require.NoError(t, err)

		combined := result.Parent.Totals.GrandTotal.Add(result.Child.Totals.GrandTotal)
		assert.Equal(t, before.Totals.GrandTotal.Cents(), combined.Cents())
		assert.Equal(t, "T-3001-2", result.Child.Number)
		require.NotNil(t, result.Child.ParentOrderID)
		assert.True(t, result.Child.ParentOrderID.IsEqual(parentAddress.OrderID()))
		require.Len(t, result.Parent.SplitRefs, 1)
		assert.True(t, result.Parent.SplitRefs[0].ChildOrderID.IsEqual(childOrderID))

		// both sides survive replay
		childAddress, err := parentAddress.Sibling(childOrderID)
		require.NoError(t, err)
		childEvents, err := store.Load(context.Background(), childAddress)
		require.NoError(t, err)
		replayed, err := order.Replay(childAddress, childEvents)
		require.NoError(t, err)
		assert.Equal(t, result.Child.Totals.GrandTotal, replayed.Totals().GrandTotal)
	})

	t.Run("should reject splitting an order into itself", func(t *testing.T) {
		registry := newTestRegistry(t, newMemoryEventStore(), nil)
		parentAddress := newRegistryAddress(t)
		h := createOrderOn(t, registry, parentAddress)
		lineID := addLineOn(t, h, "Burger", 1, 1000)

		_, err := registry.SplitByItems(context.Background(), parentAddress, parentAddress.OrderID(), "T-3001-2", []kernel.UUID{lineID}, kernel.NewUUID())

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should leave the parent untouched when validation fails", func(t *testing.T) {
		registry := newTestRegistry(t, newMemoryEventStore(), nil)
		parentAddress := newRegistryAddress(t)
		h := createOrderOn(t, registry, parentAddress)
		lineID := addLineOn(t, h, "Burger", 1, 1000)

		// the only line cannot be split away
		_, err := registry.SplitByItems(context.Background(), parentAddress, kernel.NewUUID(), "T-3001-2", []kernel.UUID{lineID}, kernel.NewUUID())
		require.ErrorIs(t, err, errs.ErrInvalidState)

		snapshot, err := h.GetSnapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, order.LineStatusPending, snapshot.Lines[0].Status)
		assert.Empty(t, snapshot.SplitRefs)
	})
}

func TestMergeChoreography(t *testing.T) {
	t.Run("should merge the source into the target and conserve money", func(t *testing.T) {
		registry := newTestRegistry(t, newMemoryEventStore(), nil)

		targetAddress := newRegistryAddress(t)
		target := createOrderOn(t, registry, targetAddress)
		addLineOn(t, target, "Burger", 1, 1000)

		sourceAddress, err := targetAddress.Sibling(kernel.NewUUID())
		require.NoError(t, err)
		source, err := registry.Acquire(context.Background(), sourceAddress)
		require.NoError(t, err)
		_, err = source.CreateOrder(context.Background(), order.CreateParams{
			Number:    "T-3002",
			OrderType: order.TypeDineIn,
			CreatedBy: kernel.NewUUID(),
		})
		require.NoError(t, err)
		addLineOn(t, source, "Wine", 1, 2000)

		result, err := registry.MergeOrders(context.Background(), sourceAddress, targetAddress.OrderID(), kernel.NewUUID())
		require.NoError(t, err)

		assert.Equal(t, int64(3000), result.Target.Totals.GrandTotal.Cents())
		assert.Len(t, result.Target.Lines, 2)
		assert.Equal(t, order.StatusMerged, result.Source.Status)
		require.NotNil(t, result.Source.MergedIntoID)
		assert.True(t, result.Source.MergedIntoID.IsEqual(targetAddress.OrderID()))
	})

	t.Run("should reject merging an order into itself", func(t *testing.T) {
		registry := newTestRegistry(t, newMemoryEventStore(), nil)
		address := newRegistryAddress(t)
		createOrderOn(t, registry, address)

		_, err := registry.MergeOrders(context.Background(), address, address.OrderID(), kernel.NewUUID())

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestBillSplitQueries(t *testing.T) {
	t.Run("should split the live balance evenly", func(t *testing.T) {
		registry := newTestRegistry(t, newMemoryEventStore(), nil)
		address := newRegistryAddress(t)
		h := createOrderOn(t, registry, address)
		addLineOn(t, h, "Burger", 1, 1000)

		result, err := h.CalculateSplitByPeople(context.Background(), 3)
		require.NoError(t, err)

		var sum kernel.Money
		for _, share := range result.Shares {
			sum = sum.Add(share)
		}
		assert.Equal(t, int64(1000), sum.Cents())
	})

	t.Run("should validate amounts against the live balance", func(t *testing.T) {
		registry := newTestRegistry(t, newMemoryEventStore(), nil)
		address := newRegistryAddress(t)
		h := createOrderOn(t, registry, address)
		addLineOn(t, h, "Burger", 1, 1000)

		result, err := h.CalculateSplitByAmounts(context.Background(), []kernel.Money{
			kernel.NewMoneyFromCents(400),
			kernel.NewMoneyFromCents(600),
		})
		require.NoError(t, err)

		assert.True(t, result.IsValid)
	})
}
