package order

import (
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// Apply folds a single event into the aggregate state. It is the only place
// state changes, it never fails on events the aggregate itself derived, and
// it is deterministic: all timestamps and identifiers come from the event.
//
// After the mutation the monetary totals are recomputed from scratch and the
// order status is re-derived, so no event handler maintains totals by hand.
func (o *Order) Apply(event Event) error {
	if err := o.Validate(); err != nil {
		return err
	}

	switch e := event.(type) {
	case *OrderCreated:
		o.applyOrderCreated(e)
	case *OrderCreatedFromSplit:
		o.applyOrderCreatedFromSplit(e)
	case *LineAdded:
		o.applyLineAdded(e)
	case *LineUpdated:
		o.applyLineUpdated(e)
	case *LineRemoved:
		o.applyLineRemoved(e)
	case *LineVoided:
		o.applyLineVoided(e)
	case *LinesSent:
		o.applyLinesDispatched(e.LineIDs, e.SentBy, e.SentAt)
	case *LinesHeld:
		o.applyLinesHeld(e)
	case *LinesReleased:
		o.applyLinesReleased(e)
	case *LineCourseSet:
		o.applyLineCourseSet(e)
	case *LinesFired:
		o.applyLinesDispatched(e.LineIDs, e.FiredBy, e.FiredAt)
	case *LineStatusUpdated:
		o.applyLineStatusUpdated(e)
	case *DiscountApplied:
		o.applyDiscountApplied(e)
	case *DiscountRemoved:
		o.applyDiscountRemoved(e)
	case *PriceOverridden:
		o.applyPriceOverridden(e)
	case *ServiceChargeAdded:
		o.applyServiceChargeAdded(e)
	case *ServiceChargeRemoved:
		o.applyServiceChargeRemoved(e)
	case *PaymentRecorded:
		o.applyPaymentRecorded(e)
	case *PaymentRemoved:
		o.applyPaymentRemoved(e)
	case *OrderClosed:
		o.applyOrderClosed(e)
	case *OrderVoided:
		o.applyOrderVoided(e)
	case *OrderReopened:
		o.applyOrderReopened(e)
	case *LinesSplitToOrder:
		o.applyLinesSplitToOrder(e)
	case *OrderMergedFrom:
		o.applyOrderMergedFrom(e)
	case *OrderMarkedMerged:
		o.applyOrderMarkedMerged(e)
	default:
		return errs.NewValueIsInvalidError("event type")
	}

	o.version++
	o.recalculate()

	return nil
}

// recalculate recomputes the derived totals and status from current state.
func (o *Order) recalculate() {
	o.totals = calculateTotals(o.lines, o.discounts, o.charges, o.payments)
	o.deriveStatus()
}

// deriveStatus recomputes the non-terminal order status from the payment
// and line state. Terminal statuses are never overridden.
func (o *Order) deriveStatus() {
	if !o.created || o.status.IsTerminal() {
		return
	}

	hasPayments := len(o.payments) > 0
	dispatched := false
	for _, line := range o.lines {
		if line.Status().IsDispatched() {
			dispatched = true
			break
		}
	}

	switch {
	case hasPayments && !o.totals.BalanceDue.IsPositive():
		o.status = StatusPaid
	case hasPayments:
		o.status = StatusPartiallyPaid
	case dispatched:
		o.status = StatusSent
	default:
		o.status = StatusOpen
	}
}

func (o *Order) applyOrderCreated(e *OrderCreated) {
	o.created = true
	o.status = StatusOpen
	o.number = e.Number
	o.orderType = e.OrderType
	o.tableID = e.TableID
	o.guestCount = e.GuestCount
	o.serverID = e.ServerID
	o.customerID = e.CustomerID
	o.createdBy = e.CreatedBy
	o.createdAt = e.CreatedAt
}

func (o *Order) applyOrderCreatedFromSplit(e *OrderCreatedFromSplit) {
	o.created = true
	o.status = StatusOpen
	o.number = e.Number
	o.orderType = e.OrderType
	o.guestCount = e.GuestCount
	o.serverID = e.SplitBy
	o.parentOrderID = &e.ParentOrderID
	o.createdBy = e.SplitBy
	o.createdAt = e.SplitAt

	for _, data := range e.Lines {
		o.lines = append(o.lines, lineFromData(data))
	}
}

func (o *Order) applyLineAdded(e *LineAdded) {
	o.lines = append(o.lines, &Line{
		id:         e.LineID,
		menuItemID: e.MenuItemID,
		name:       e.Name,
		quantity:   e.Quantity,
		unitPrice:  e.UnitPrice,
		taxRate:    e.TaxRate,
		notes:      e.Notes,
		seat:       e.Seat,
		course:     e.Course,
		isBundle:   e.IsBundle,
		modifiers:  modifiersFromData(e.Modifiers),
		components: componentsFromData(e.Components),
		status:     LineStatusPending,
		addedBy:    e.AddedBy,
		addedAt:    e.AddedAt,
	})
}

func (o *Order) applyLineUpdated(e *LineUpdated) {
	line := o.mustLine(e.LineID)
	if line == nil {
		return
	}
	if e.Quantity != nil {
		line.quantity = *e.Quantity
	}
	if e.Notes != nil {
		line.notes = *e.Notes
	}
}

func (o *Order) applyLineRemoved(e *LineRemoved) {
	for i, line := range o.lines {
		if line.ID().IsEqual(e.LineID) {
			o.lines = append(o.lines[:i], o.lines[i+1:]...)
			return
		}
	}
}

func (o *Order) applyLineVoided(e *LineVoided) {
	line := o.mustLine(e.LineID)
	if line == nil {
		return
	}
	voidedBy := e.VoidedBy
	voidedAt := e.VoidedAt
	line.status = LineStatusVoided
	line.voidedBy = &voidedBy
	line.voidReason = e.Reason
	line.voidedAt = &voidedAt
}

func (o *Order) applyLinesDispatched(lineIDs []kernel.UUID, by kernel.UUID, at time.Time) {
	sentBy := by
	sentAt := at
	for _, lineID := range lineIDs {
		line := o.mustLine(lineID)
		if line == nil {
			continue
		}
		line.status = LineStatusSent
		line.everSent = true
		line.holdReason = ""
		line.heldBy = nil
		line.heldAt = nil
		line.sentBy = &sentBy
		line.sentAt = &sentAt
	}
}

func (o *Order) applyLinesHeld(e *LinesHeld) {
	heldBy := e.HeldBy
	heldAt := e.HeldAt
	for _, lineID := range e.LineIDs {
		line := o.mustLine(lineID)
		if line == nil {
			continue
		}
		line.status = LineStatusHeld
		line.holdReason = e.Reason
		line.heldBy = &heldBy
		line.heldAt = &heldAt
	}
}

func (o *Order) applyLinesReleased(e *LinesReleased) {
	for _, lineID := range e.LineIDs {
		line := o.mustLine(lineID)
		if line == nil {
			continue
		}
		line.status = LineStatusPending
		line.holdReason = ""
		line.heldBy = nil
		line.heldAt = nil
	}
}

func (o *Order) applyLineCourseSet(e *LineCourseSet) {
	for _, lineID := range e.LineIDs {
		if line := o.mustLine(lineID); line != nil {
			line.course = e.Course
		}
	}
}

func (o *Order) applyLineStatusUpdated(e *LineStatusUpdated) {
	if line := o.mustLine(e.LineID); line != nil {
		line.status = e.Status
	}
}

func (o *Order) applyDiscountApplied(e *DiscountApplied) {
	o.discounts = append(o.discounts, &Discount{
		id:         e.DiscountID,
		lineID:     e.LineID,
		kind:       e.Kind,
		value:      e.Value,
		approverID: e.ApproverID,
		reason:     e.Reason,
		appliedBy:  e.AppliedBy,
		appliedAt:  e.AppliedAt,
	})
}

func (o *Order) applyDiscountRemoved(e *DiscountRemoved) {
	for i, d := range o.discounts {
		if d.ID().IsEqual(e.DiscountID) {
			o.discounts = append(o.discounts[:i], o.discounts[i+1:]...)
			return
		}
	}
}

func (o *Order) applyPriceOverridden(e *PriceOverridden) {
	line := o.mustLine(e.LineID)
	if line == nil {
		return
	}
	newPrice := e.NewUnitPrice
	line.priceOverride = &newPrice
}

func (o *Order) applyServiceChargeAdded(e *ServiceChargeAdded) {
	o.charges = append(o.charges, &ServiceCharge{
		id:      e.ChargeID,
		name:    e.Name,
		rate:    e.Rate,
		taxable: e.Taxable,
		addedBy: e.AddedBy,
		addedAt: e.AddedAt,
	})
}

func (o *Order) applyServiceChargeRemoved(e *ServiceChargeRemoved) {
	for i, c := range o.charges {
		if c.ID().IsEqual(e.ChargeID) {
			o.charges = append(o.charges[:i], o.charges[i+1:]...)
			return
		}
	}
}

func (o *Order) applyPaymentRecorded(e *PaymentRecorded) {
	o.payments = append(o.payments, &Payment{
		id:         e.PaymentID,
		amount:     e.Amount,
		tip:        e.Tip,
		method:     e.Method,
		recordedBy: e.RecordedBy,
		recordedAt: e.RecordedAt,
	})
}

func (o *Order) applyPaymentRemoved(e *PaymentRemoved) {
	for i, p := range o.payments {
		if p.ID().IsEqual(e.PaymentID) {
			o.payments = append(o.payments[:i], o.payments[i+1:]...)
			return
		}
	}
}

func (o *Order) applyOrderClosed(e *OrderClosed) {
	closedBy := e.ClosedBy
	closedAt := e.ClosedAt
	o.status = StatusClosed
	o.closedBy = &closedBy
	o.closedAt = &closedAt
}

func (o *Order) applyOrderVoided(e *OrderVoided) {
	voidedBy := e.VoidedBy
	voidedAt := e.VoidedAt
	o.status = StatusVoided
	o.voidedBy = &voidedBy
	o.voidReason = e.Reason
	o.voidedAt = &voidedAt
}

func (o *Order) applyOrderReopened(e *OrderReopened) {
	o.status = StatusOpen
	o.closedBy = nil
	o.closedAt = nil
}

func (o *Order) applyLinesSplitToOrder(e *LinesSplitToOrder) {
	voidedBy := e.SplitBy
	voidedAt := e.SplitAt
	for _, lineID := range e.LineIDs {
		line := o.mustLine(lineID)
		if line == nil {
			continue
		}
		line.status = LineStatusVoided
		line.voidedBy = &voidedBy
		line.voidReason = "split to order " + e.ChildNumber
		line.voidedAt = &voidedAt
	}

	o.splitRefs = append(o.splitRefs, SplitReference{
		childOrderID: e.ChildOrderID,
		childNumber:  e.ChildNumber,
		lineIDs:      e.LineIDs,
		splitBy:      e.SplitBy,
		splitAt:      e.SplitAt,
	})
}

func (o *Order) applyOrderMergedFrom(e *OrderMergedFrom) {
	for _, data := range e.Lines {
		o.lines = append(o.lines, lineFromData(data))
	}
	for _, data := range e.Discounts {
		o.discounts = append(o.discounts, discountFromData(data))
	}
	for _, data := range e.Charges {
		o.charges = append(o.charges, chargeFromData(data))
	}
	for _, data := range e.Payments {
		o.payments = append(o.payments, paymentFromData(data))
	}
}

func (o *Order) applyOrderMarkedMerged(e *OrderMarkedMerged) {
	targetID := e.TargetOrderID
	o.status = StatusMerged
	o.mergedIntoID = &targetID
}

// mustLine resolves a line referenced by an already validated event. Nil on
// a miss so replay of historical logs never panics.
func (o *Order) mustLine(lineID kernel.UUID) *Line {
	for _, line := range o.lines {
		if line.ID().IsEqual(lineID) {
			return line
		}
	}
	return nil
}
