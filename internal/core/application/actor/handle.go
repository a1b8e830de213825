package actor

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/services"
	"pos/internal/core/ports"
)

// ErrHandleClosed is returned when a command reaches a handle whose
// goroutine has already stopped. Callers re-acquire through the registry,
// which reactivates the order by replay.
var ErrHandleClosed = errors.New("order handle is closed")

// Handle is the single writer for one order. All commands and reads go
// through its mailbox and run one at a time on the handle's goroutine, so
// the aggregate needs no locks and optimistic-concurrency conflicts at the
// store only happen across processes.
//
// A handle activates by replaying the order's event log and stays resident
// until the registry evicts it for idleness or shuts down.
type Handle struct {
	address  kernel.Address
	agg      *order.Order
	store    ports.EventStore
	notifier ports.KitchenNotifier
	splitter *services.BillSplitter
	logger   *slog.Logger

	mailbox    chan *turn
	done       chan struct{}
	lastActive atomic.Int64
}

type turn struct {
	ctx   context.Context
	fn    func(ctx context.Context) (any, error)
	reply chan turnResult
}

type turnResult struct {
	value any
	err   error
}

const mailboxCapacity = 64

func activate(ctx context.Context, address kernel.Address, store ports.EventStore, notifier ports.KitchenNotifier, logger *slog.Logger) (*Handle, error) {
	events, err := store.Load(ctx, address)
	if err != nil {
		return nil, err
	}

	agg, err := order.Replay(address, events)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		address:  address,
		agg:      agg,
		store:    store,
		notifier: notifier,
		splitter: services.NewBillSplitter(),
		logger:   logger.With("order_id", address.OrderID().String()),
		mailbox:  make(chan *turn, mailboxCapacity),
		done:     make(chan struct{}),
	}
	h.touch()

	go h.run()

	return h, nil
}

// Address returns the order address this handle serves.
func (h *Handle) Address() kernel.Address {
	return h.address
}

// IdleSince returns the time of the handle's last completed turn.
func (h *Handle) IdleSince() time.Time {
	return time.Unix(0, h.lastActive.Load())
}

func (h *Handle) touch() {
	h.lastActive.Store(time.Now().UnixNano())
}

// stop ends the handle's goroutine. Queued turns fail with ErrHandleClosed.
// Called by the registry only; callers never stop handles directly.
func (h *Handle) stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

func (h *Handle) run() {
	for {
		select {
		case <-h.done:
			h.drain()
			return
		case t := <-h.mailbox:
			h.execute(t)
		}
	}
}

func (h *Handle) execute(t *turn) {
	if t.ctx.Err() != nil {
		t.reply <- turnResult{err: t.ctx.Err()}
		return
	}
	value, err := t.fn(t.ctx)
	t.reply <- turnResult{value: value, err: err}
	h.touch()
}

func (h *Handle) drain() {
	for {
		select {
		case t := <-h.mailbox:
			t.reply <- turnResult{err: ErrHandleClosed}
		default:
			return
		}
	}
}

// do runs fn as one serialized turn on the handle's goroutine.
func (h *Handle) do(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	t := &turn{ctx: ctx, fn: fn, reply: make(chan turnResult, 1)}

	select {
	case h.mailbox <- t:
	case <-h.done:
		return nil, ErrHandleClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case result := <-t.reply:
		return result.value, result.err
	case <-h.done:
		return nil, ErrHandleClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// commit applies derived events to the aggregate, persists them with the
// fresh snapshot, and reloads from the log if the append fails so the
// in-memory state never runs ahead of what is stored.
func (h *Handle) commit(ctx context.Context, events ...order.Event) error {
	expected := h.agg.Version()

	for _, event := range events {
		if err := h.agg.Apply(event); err != nil {
			h.reload(ctx)
			return err
		}
	}

	if err := h.store.Append(ctx, h.address, expected, events, h.agg.Snapshot()); err != nil {
		h.reload(ctx)
		return err
	}

	return nil
}

func (h *Handle) reload(ctx context.Context) {
	events, err := h.store.Load(ctx, h.address)
	if err != nil {
		h.logger.Error("failed to reload order after append failure", "error", err)
		h.stop()
		return
	}

	agg, err := order.Replay(h.address, events)
	if err != nil {
		h.logger.Error("failed to replay order after append failure", "error", err)
		h.stop()
		return
	}

	h.agg = agg
}

// notifyFired publishes kitchen tickets for freshly dispatched lines, one
// ticket per course so stations bound to a course only see their plates.
// Publishing is best effort: the dispatch is already committed, so a broker
// hiccup is logged, not surfaced to the caller.
func (h *Handle) notifyFired(ctx context.Context, lineIDs []kernel.UUID, firedBy kernel.UUID) {
	if h.notifier == nil || len(lineIDs) == 0 {
		return
	}

	fired := make(map[string]bool, len(lineIDs))
	for _, lineID := range lineIDs {
		fired[lineID.String()] = true
	}

	courses := make([]int, 0, 1)
	byCourse := make(map[int][]kernel.UUID)
	for _, line := range h.agg.Lines() {
		if !fired[line.ID().String()] {
			continue
		}
		course := line.Course()
		if _, seen := byCourse[course]; !seen {
			courses = append(courses, course)
		}
		byCourse[course] = append(byCourse[course], line.ID())
	}
	sort.Ints(courses)

	for _, course := range courses {
		err := h.notifier.NotifyFired(ctx, ports.KitchenTicket{
			OrderID:     h.agg.ID(),
			OrderNumber: h.agg.Number(),
			TableID:     h.agg.TableID(),
			LineIDs:     byCourse[course],
			Course:      course,
			FiredBy:     firedBy,
		})
		if err != nil {
			h.logger.Error("failed to publish kitchen ticket",
				"error", err, "course", course, "line_count", len(byCourse[course]))
		}
	}
}

// commandTurn is the shared shape of a single-event command: derive,
// commit, and answer with the fresh snapshot. A nil event with a nil error
// is a recognized no-op; the current snapshot is returned unchanged.
func (h *Handle) commandTurn(ctx context.Context, derive func() (order.Event, error)) (order.Snapshot, error) {
	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		event, err := derive()
		if err != nil {
			return nil, err
		}
		if event == nil {
			return h.agg.Snapshot(), nil
		}
		if err := h.commit(ctx, event); err != nil {
			return nil, err
		}
		return h.agg.Snapshot(), nil
	})
	if err != nil {
		return order.Snapshot{}, err
	}
	return value.(order.Snapshot), nil
}

// CreateOrder initializes the order.
func (h *Handle) CreateOrder(ctx context.Context, p order.CreateParams) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		return h.agg.Create(p)
	})
}

// AddLineResult carries the identity of a freshly added line together with
// the snapshot it first appears in.
type AddLineResult struct {
	LineID   kernel.UUID
	Snapshot order.Snapshot
}

// AddLine appends a new line to the order.
func (h *Handle) AddLine(ctx context.Context, p order.AddLineParams) (AddLineResult, error) {
	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		event, err := h.agg.AddLine(p)
		if err != nil {
			return nil, err
		}
		if err := h.commit(ctx, event); err != nil {
			return nil, err
		}
		return AddLineResult{LineID: event.LineID, Snapshot: h.agg.Snapshot()}, nil
	})
	if err != nil {
		return AddLineResult{}, err
	}
	return value.(AddLineResult), nil
}

// UpdateLine changes a line's quantity and/or notes.
func (h *Handle) UpdateLine(ctx context.Context, lineID kernel.UUID, quantity *int, notes *string, updatedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.UpdateLine(lineID, quantity, notes, updatedBy)
		return eventOrNil(event), err
	})
}

// VoidLine cancels a line.
func (h *Handle) VoidLine(ctx context.Context, lineID kernel.UUID, voidedBy kernel.UUID, reason string) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.VoidLine(lineID, voidedBy, reason)
		return eventOrNil(event), err
	})
}

// RemoveLine hard-removes a never-sent line.
func (h *Handle) RemoveLine(ctx context.Context, lineID kernel.UUID, removedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.RemoveLine(lineID, removedBy)
		return eventOrNil(event), err
	})
}

// Send dispatches all pending lines and notifies the kitchen.
func (h *Handle) Send(ctx context.Context, sentBy kernel.UUID) (order.Snapshot, error) {
	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		event, err := h.agg.Send(sentBy)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return h.agg.Snapshot(), nil
		}
		if err := h.commit(ctx, event); err != nil {
			return nil, err
		}
		h.notifyFired(ctx, event.LineIDs, sentBy)
		return h.agg.Snapshot(), nil
	})
	if err != nil {
		return order.Snapshot{}, err
	}
	return value.(order.Snapshot), nil
}

// ApplyDiscount applies an order-scoped discount.
func (h *Handle) ApplyDiscount(ctx context.Context, p order.DiscountParams) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.ApplyDiscount(p)
		return eventOrNil(event), err
	})
}

// ApplyLineDiscount applies a discount scoped to one line.
func (h *Handle) ApplyLineDiscount(ctx context.Context, lineID kernel.UUID, p order.DiscountParams) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.ApplyLineDiscount(lineID, p)
		return eventOrNil(event), err
	})
}

// RemoveDiscount removes an order-scoped discount.
func (h *Handle) RemoveDiscount(ctx context.Context, discountID kernel.UUID, removedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.RemoveDiscount(discountID, removedBy)
		return eventOrNil(event), err
	})
}

// RemoveLineDiscount removes a line-scoped discount.
func (h *Handle) RemoveLineDiscount(ctx context.Context, lineID kernel.UUID, discountID kernel.UUID, removedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.RemoveLineDiscount(lineID, discountID, removedBy)
		return eventOrNil(event), err
	})
}

// OverridePrice rewrites a line's effective unit price.
func (h *Handle) OverridePrice(ctx context.Context, lineID kernel.UUID, newUnitPrice kernel.Money, approverID kernel.UUID, reason string, overriddenBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.OverridePrice(lineID, newUnitPrice, approverID, reason, overriddenBy)
		return eventOrNil(event), err
	})
}

// AddServiceCharge adds an order-level percentage charge.
func (h *Handle) AddServiceCharge(ctx context.Context, name string, rate float64, taxable bool, addedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.AddServiceCharge(name, rate, taxable, addedBy)
		return eventOrNil(event), err
	})
}

// RemoveServiceCharge removes a service charge.
func (h *Handle) RemoveServiceCharge(ctx context.Context, chargeID kernel.UUID, removedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.RemoveServiceCharge(chargeID, removedBy)
		return eventOrNil(event), err
	})
}

// RecordPayment applies a settlement result against the balance.
func (h *Handle) RecordPayment(ctx context.Context, paymentID kernel.UUID, amount kernel.Money, tip kernel.Money, method string, recordedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.RecordPayment(paymentID, amount, tip, method, recordedBy)
		return eventOrNil(event), err
	})
}

// RemovePayment reverses a recorded payment.
func (h *Handle) RemovePayment(ctx context.Context, paymentID kernel.UUID, removedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.RemovePayment(paymentID, removedBy)
		return eventOrNil(event), err
	})
}

// Close closes a fully settled order.
func (h *Handle) Close(ctx context.Context, closedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.Close(closedBy)
		return eventOrNil(event), err
	})
}

// VoidOrder cancels the whole order.
func (h *Handle) VoidOrder(ctx context.Context, voidedBy kernel.UUID, reason string, reverseInventory bool) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.Void(voidedBy, reason, reverseInventory)
		return eventOrNil(event), err
	})
}

// Reopen returns a closed order to service.
func (h *Handle) Reopen(ctx context.Context, reopenedBy kernel.UUID, reason string) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.Reopen(reopenedBy, reason)
		return eventOrNil(event), err
	})
}

// HoldItems gates lines from kitchen dispatch.
func (h *Handle) HoldItems(ctx context.Context, lineIDs []kernel.UUID, heldBy kernel.UUID, reason string) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.HoldItems(lineIDs, heldBy, reason)
		return eventOrNil(event), err
	})
}

// ReleaseItems returns held lines to pending.
func (h *Handle) ReleaseItems(ctx context.Context, lineIDs []kernel.UUID, releasedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.ReleaseItems(lineIDs, releasedBy)
		return eventOrNil(event), err
	})
}

// SetItemCourse assigns a dining course to lines.
func (h *Handle) SetItemCourse(ctx context.Context, lineIDs []kernel.UUID, course int, setBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.SetItemCourse(lineIDs, course, setBy)
		return eventOrNil(event), err
	})
}

// FireItems force-dispatches lines and notifies the kitchen.
func (h *Handle) FireItems(ctx context.Context, lineIDs []kernel.UUID, firedBy kernel.UUID) (order.Snapshot, error) {
	return h.fireTurn(ctx, firedBy, func() (*order.LinesFired, error) {
		return h.agg.FireItems(lineIDs, firedBy)
	})
}

// FireCourse fires every fireable line of the course.
func (h *Handle) FireCourse(ctx context.Context, course int, firedBy kernel.UUID) (order.Snapshot, error) {
	return h.fireTurn(ctx, firedBy, func() (*order.LinesFired, error) {
		return h.agg.FireCourse(course, firedBy)
	})
}

// FireAll fires every currently held line.
func (h *Handle) FireAll(ctx context.Context, firedBy kernel.UUID) (order.Snapshot, error) {
	return h.fireTurn(ctx, firedBy, func() (*order.LinesFired, error) {
		return h.agg.FireAll(firedBy)
	})
}

func (h *Handle) fireTurn(ctx context.Context, firedBy kernel.UUID, derive func() (*order.LinesFired, error)) (order.Snapshot, error) {
	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		event, err := derive()
		if err != nil {
			return nil, err
		}
		if event == nil {
			return h.agg.Snapshot(), nil
		}
		if err := h.commit(ctx, event); err != nil {
			return nil, err
		}
		h.notifyFired(ctx, event.LineIDs, firedBy)
		return h.agg.Snapshot(), nil
	})
	if err != nil {
		return order.Snapshot{}, err
	}
	return value.(order.Snapshot), nil
}

// UpdateLineStatus progresses a dispatched line as reported by the kitchen.
func (h *Handle) UpdateLineStatus(ctx context.Context, lineID kernel.UUID, next order.LineStatus, updatedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.UpdateLineStatus(lineID, next, updatedBy)
		return eventOrNil(event), err
	})
}

// GetSnapshot reads the order's current derived state.
func (h *Handle) GetSnapshot(ctx context.Context) (order.Snapshot, error) {
	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		return h.agg.Snapshot(), nil
	})
	if err != nil {
		return order.Snapshot{}, err
	}
	return value.(order.Snapshot), nil
}

// GetHoldSummary reads the held lines grouped by course.
func (h *Handle) GetHoldSummary(ctx context.Context) (order.HoldSummary, error) {
	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		return h.agg.GetHoldSummary(), nil
	})
	if err != nil {
		return order.HoldSummary{}, err
	}
	return value.(order.HoldSummary), nil
}

// GetCourseSummary reads the line counts grouped by course.
func (h *Handle) GetCourseSummary(ctx context.Context) (order.CourseSummary, error) {
	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		return h.agg.GetCourseSummary(), nil
	})
	if err != nil {
		return order.CourseSummary{}, err
	}
	return value.(order.CourseSummary), nil
}

// CalculateSplitByPeople splits the current balance due evenly.
func (h *Handle) CalculateSplitByPeople(ctx context.Context, people int) (services.EvenSplit, error) {
	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		return h.splitter.CalculateSplitByPeople(h.agg.Totals().BalanceDue, people)
	})
	if err != nil {
		return services.EvenSplit{}, err
	}
	return value.(services.EvenSplit), nil
}

// CalculateSplitByAmounts validates caller-chosen amounts against the
// current balance due.
func (h *Handle) CalculateSplitByAmounts(ctx context.Context, amounts []kernel.Money) (services.AmountSplit, error) {
	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		return h.splitter.CalculateSplitByAmounts(h.agg.Totals().BalanceDue, amounts), nil
	})
	if err != nil {
		return services.AmountSplit{}, err
	}
	return value.(services.AmountSplit), nil
}

// prepareSplit runs the split validation turn on the parent side.
func (h *Handle) prepareSplit(ctx context.Context, lineIDs []kernel.UUID) ([]order.LineData, order.Snapshot, error) {
	type prepared struct {
		moved    []order.LineData
		snapshot order.Snapshot
	}

	value, err := h.do(ctx, func(ctx context.Context) (any, error) {
		moved, err := h.agg.PrepareSplit(lineIDs)
		if err != nil {
			return nil, err
		}
		return prepared{moved: moved, snapshot: h.agg.Snapshot()}, nil
	})
	if err != nil {
		return nil, order.Snapshot{}, err
	}
	p := value.(prepared)
	return p.moved, p.snapshot, nil
}

// createFromSplit runs the child-creation turn of a split.
func (h *Handle) createFromSplit(ctx context.Context, p order.CreateFromSplitParams) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.CreateFromSplit(p)
		return eventOrNil(event), err
	})
}

// recordSplit runs the parent-side completion turn of a split.
func (h *Handle) recordSplit(ctx context.Context, childOrderID kernel.UUID, childNumber string, lineIDs []kernel.UUID, splitBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.RecordSplit(childOrderID, childNumber, lineIDs, splitBy)
		return eventOrNil(event), err
	})
}

// absorbOrder runs the target-side turn of a merge.
func (h *Handle) absorbOrder(ctx context.Context, source order.Snapshot, mergedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.AbsorbOrder(source, mergedBy)
		return eventOrNil(event), err
	})
}

// markAsMerged runs the source-side completion turn of a merge.
func (h *Handle) markAsMerged(ctx context.Context, targetOrderID kernel.UUID, targetNumber string, mergedBy kernel.UUID) (order.Snapshot, error) {
	return h.commandTurn(ctx, func() (order.Event, error) {
		event, err := h.agg.MarkAsMerged(targetOrderID, targetNumber, mergedBy)
		return eventOrNil(event), err
	})
}

// eventOrNil keeps a typed nil event pointer from leaking into the Event
// interface, where it would no longer compare equal to nil.
func eventOrNil[E order.Event](event *E) order.Event {
	if event == nil {
		return nil
	}
	return any(event).(order.Event)
}
