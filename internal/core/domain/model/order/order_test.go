package order_test

import (
	"testing"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAddress(t *testing.T) kernel.Address {
	t.Helper()

	address, err := kernel.NewAddress(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	return address
}

func newCreatedOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(newTestAddress(t))
	require.NoError(t, err)

	event, err := o.Create(order.CreateParams{
		Number:     "T-1001",
		OrderType:  order.TypeDineIn,
		GuestCount: 2,
		CreatedBy:  kernel.NewUUID(),
	})
	require.NoError(t, err)
	require.NoError(t, o.Apply(event))

	return o
}

func mustApply(t *testing.T, o *order.Order, event order.Event, err error) {
	t.Helper()

	require.NoError(t, err)
	require.NotNil(t, event)
	require.NoError(t, o.Apply(event))
}

func addTestLine(t *testing.T, o *order.Order, name string, qty int, unitCents int64, taxRate float64) kernel.UUID {
	t.Helper()

	event, err := o.AddLine(order.AddLineParams{
		MenuItemID: kernel.NewUUID(),
		Name:       name,
		Quantity:   qty,
		UnitPrice:  kernel.NewMoneyFromCents(unitCents),
		TaxRate:    taxRate,
		AddedBy:    kernel.NewUUID(),
	})
	require.NoError(t, err)
	require.NoError(t, o.Apply(event))
	return event.LineID
}

func TestOrderCreate(t *testing.T) {
	t.Run("should create an open order", func(t *testing.T) {
		o := newCreatedOrder(t)

		assert.True(t, o.IsCreated())
		assert.Equal(t, order.StatusOpen, o.Status())
		assert.Equal(t, "T-1001", o.Number())
		assert.Equal(t, order.TypeDineIn, o.OrderType())
		assert.Equal(t, 1, o.Version())
		assert.True(t, o.Totals().GrandTotal.IsZero())
	})

	t.Run("should assign the creator as server when none is given", func(t *testing.T) {
		o, err := order.NewOrder(newTestAddress(t))
		require.NoError(t, err)

		createdBy := kernel.NewUUID()
		event, err := o.Create(order.CreateParams{
			Number:    "T-1002",
			OrderType: order.TypeTakeout,
			CreatedBy: createdBy,
		})
		require.NoError(t, err)
		require.NoError(t, o.Apply(event))

		assert.True(t, o.ServerID().IsEqual(createdBy))
	})

	t.Run("should reject creating the same order twice", func(t *testing.T) {
		o := newCreatedOrder(t)

		_, err := o.Create(order.CreateParams{
			Number:    "T-1003",
			OrderType: order.TypeDineIn,
			CreatedBy: kernel.NewUUID(),
		})

		assert.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	})

	t.Run("should reject an unknown order type", func(t *testing.T) {
		o, err := order.NewOrder(newTestAddress(t))
		require.NoError(t, err)

		_, err = o.Create(order.CreateParams{
			Number:    "T-1004",
			OrderType: order.TypeUnknown,
			CreatedBy: kernel.NewUUID(),
		})

		assert.Error(t, err)
	})

	t.Run("should reject commands before the order exists", func(t *testing.T) {
		o, err := order.NewOrder(newTestAddress(t))
		require.NoError(t, err)

		_, err = o.Send(kernel.NewUUID())

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestAddLine(t *testing.T) {
	t.Run("should add a pending line and update the subtotal", func(t *testing.T) {
		o := newCreatedOrder(t)

		lineID := addTestLine(t, o, "Burger", 2, 1000, 10)

		require.Len(t, o.Lines(), 1)
		line := o.Lines()[0]
		assert.True(t, line.ID().IsEqual(lineID))
		assert.Equal(t, order.LineStatusPending, line.Status())
		assert.Equal(t, int64(2000), o.Totals().Subtotal.Cents())
		assert.Equal(t, int64(200), o.Totals().TaxTotal.Cents())
		assert.Equal(t, int64(2200), o.Totals().GrandTotal.Cents())
	})

	t.Run("should default the course to 1", func(t *testing.T) {
		o := newCreatedOrder(t)

		addTestLine(t, o, "Soup", 1, 500, 0)

		assert.Equal(t, 1, o.Lines()[0].Course())
	})

	t.Run("should include modifier totals in the line total", func(t *testing.T) {
		o := newCreatedOrder(t)

		event, err := o.AddLine(order.AddLineParams{
			MenuItemID: kernel.NewUUID(),
			Name:       "Burger",
			Quantity:   1,
			UnitPrice:  kernel.NewMoneyFromCents(1000),
			Modifiers: []order.ModifierData{
				{Name: "Extra cheese", Price: kernel.NewMoneyFromCents(150), Quantity: 2},
			},
			AddedBy: kernel.NewUUID(),
		})
		require.NoError(t, err)
		require.NoError(t, o.Apply(event))

		assert.Equal(t, int64(1300), o.Lines()[0].Total().Cents())
	})

	t.Run("should reject a non-positive quantity", func(t *testing.T) {
		o := newCreatedOrder(t)

		_, err := o.AddLine(order.AddLineParams{
			MenuItemID: kernel.NewUUID(),
			Name:       "Burger",
			Quantity:   0,
			UnitPrice:  kernel.NewMoneyFromCents(1000),
			AddedBy:    kernel.NewUUID(),
		})

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject a negative unit price", func(t *testing.T) {
		o := newCreatedOrder(t)

		_, err := o.AddLine(order.AddLineParams{
			MenuItemID: kernel.NewUUID(),
			Name:       "Burger",
			Quantity:   1,
			UnitPrice:  kernel.NewMoneyFromCents(-100),
			AddedBy:    kernel.NewUUID(),
		})

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestUpdateLine(t *testing.T) {
	t.Run("should update quantity before send", func(t *testing.T) {
		o := newCreatedOrder(t)
		lineID := addTestLine(t, o, "Burger", 1, 1000, 0)

		qty := 3
		event, err := o.UpdateLine(lineID, &qty, nil, kernel.NewUUID())
		mustApply(t, o, event, err)

		assert.Equal(t, 3, o.Lines()[0].Quantity())
		assert.Equal(t, int64(3000), o.Totals().Subtotal.Cents())
	})

	t.Run("should reject quantity change after send but allow notes", func(t *testing.T) {
		o := newCreatedOrder(t)
		lineID := addTestLine(t, o, "Burger", 1, 1000, 0)

		sent, err := o.Send(kernel.NewUUID())
		mustApply(t, o, sent, err)

		qty := 3
		_, err = o.UpdateLine(lineID, &qty, nil, kernel.NewUUID())
		assert.ErrorIs(t, err, errs.ErrInvalidState)

		notes := "no onions"
		event, err := o.UpdateLine(lineID, nil, &notes, kernel.NewUUID())
		mustApply(t, o, event, err)
		assert.Equal(t, "no onions", o.Lines()[0].Notes())
	})

	t.Run("should reject an update with nothing to change", func(t *testing.T) {
		o := newCreatedOrder(t)
		lineID := addTestLine(t, o, "Burger", 1, 1000, 0)

		_, err := o.UpdateLine(lineID, nil, nil, kernel.NewUUID())

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject updating a missing line", func(t *testing.T) {
		o := newCreatedOrder(t)
		qty := 2

		_, err := o.UpdateLine(kernel.NewUUID(), &qty, nil, kernel.NewUUID())

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestVoidLine(t *testing.T) {
	t.Run("should exclude a voided line from totals", func(t *testing.T) {
		o := newCreatedOrder(t)
		burgerID := addTestLine(t, o, "Burger", 1, 1000, 10)
		addTestLine(t, o, "Fries", 1, 400, 10)

		event, err := o.VoidLine(burgerID, kernel.NewUUID(), "customer changed mind")
		mustApply(t, o, event, err)

		assert.True(t, o.Lines()[0].IsVoided())
		assert.Equal(t, int64(400), o.Totals().Subtotal.Cents())
		assert.Equal(t, int64(440), o.Totals().GrandTotal.Cents())
	})

	t.Run("should reject voiding a line twice", func(t *testing.T) {
		o := newCreatedOrder(t)
		lineID := addTestLine(t, o, "Burger", 1, 1000, 0)

		event, err := o.VoidLine(lineID, kernel.NewUUID(), "spilled")
		mustApply(t, o, event, err)

		_, err = o.VoidLine(lineID, kernel.NewUUID(), "again")
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("should require a void reason", func(t *testing.T) {
		o := newCreatedOrder(t)
		lineID := addTestLine(t, o, "Burger", 1, 1000, 0)

		_, err := o.VoidLine(lineID, kernel.NewUUID(), "")

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRemoveLine(t *testing.T) {
	t.Run("should hard-remove a never-sent line", func(t *testing.T) {
		o := newCreatedOrder(t)
		lineID := addTestLine(t, o, "Burger", 1, 1000, 0)

		event, err := o.RemoveLine(lineID, kernel.NewUUID())
		mustApply(t, o, event, err)

		assert.Empty(t, o.Lines())
		assert.True(t, o.Totals().Subtotal.IsZero())
	})

	t.Run("should reject removing a sent line", func(t *testing.T) {
		o := newCreatedOrder(t)
		lineID := addTestLine(t, o, "Burger", 1, 1000, 0)

		sent, err := o.Send(kernel.NewUUID())
		mustApply(t, o, sent, err)

		_, err = o.RemoveLine(lineID, kernel.NewUUID())
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})
}

func TestSend(t *testing.T) {
	t.Run("should dispatch pending lines and move the order to sent", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)
		addTestLine(t, o, "Fries", 1, 400, 0)

		event, err := o.Send(kernel.NewUUID())
		mustApply(t, o, event, err)

		assert.Len(t, event.LineIDs, 2)
		assert.Equal(t, order.StatusSent, o.Status())
		for _, line := range o.Lines() {
			assert.Equal(t, order.LineStatusSent, line.Status())
			assert.True(t, line.EverSent())
		}
	})

	t.Run("should skip held lines", func(t *testing.T) {
		o := newCreatedOrder(t)
		burgerID := addTestLine(t, o, "Burger", 1, 1000, 0)
		friesID := addTestLine(t, o, "Fries", 1, 400, 0)

		held, err := o.HoldItems([]kernel.UUID{friesID}, kernel.NewUUID(), "wait for mains")
		mustApply(t, o, held, err)

		event, err := o.Send(kernel.NewUUID())
		mustApply(t, o, event, err)

		require.Len(t, event.LineIDs, 1)
		assert.True(t, event.LineIDs[0].IsEqual(burgerID))
		assert.True(t, o.Lines()[1].IsHeld())
	})

	t.Run("should be a no-op when nothing is pending", func(t *testing.T) {
		o := newCreatedOrder(t)

		event, err := o.Send(kernel.NewUUID())

		require.NoError(t, err)
		assert.Nil(t, event)
		assert.Equal(t, order.StatusOpen, o.Status())
	})
}

func TestDiscounts(t *testing.T) {
	t.Run("should apply a percentage discount to the order", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 2, 1000, 0)

		event, err := o.ApplyDiscount(order.DiscountParams{
			Kind:      order.DiscountPercentage,
			Value:     10,
			AppliedBy: kernel.NewUUID(),
		})
		mustApply(t, o, event, err)

		assert.Equal(t, int64(200), o.Totals().DiscountTotal.Cents())
		assert.Equal(t, int64(1800), o.Totals().GrandTotal.Cents())
	})

	t.Run("should scope a line discount's percentage to its line", func(t *testing.T) {
		o := newCreatedOrder(t)
		burgerID := addTestLine(t, o, "Burger", 1, 1000, 0)
		addTestLine(t, o, "Fries", 1, 400, 0)

		event, err := o.ApplyLineDiscount(burgerID, order.DiscountParams{
			Kind:      order.DiscountPercentage,
			Value:     50,
			AppliedBy: kernel.NewUUID(),
		})
		mustApply(t, o, event, err)

		assert.Equal(t, int64(500), o.Lines()[0].DiscountAmount().Cents())
		assert.True(t, o.Lines()[1].DiscountAmount().IsZero())
		assert.Equal(t, int64(900), o.Totals().GrandTotal.Cents())
	})

	t.Run("should require an approver for a comp", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		_, err := o.ApplyDiscount(order.DiscountParams{
			Kind:      order.DiscountComp,
			AppliedBy: kernel.NewUUID(),
		})
		assert.ErrorIs(t, err, errs.ErrApprovalRequired)

		approver := kernel.NewUUID()
		event, err := o.ApplyDiscount(order.DiscountParams{
			Kind:       order.DiscountComp,
			ApproverID: &approver,
			Reason:     "guest recovery",
			AppliedBy:  kernel.NewUUID(),
		})
		mustApply(t, o, event, err)

		assert.True(t, o.Totals().GrandTotal.IsZero())
	})

	t.Run("should require an approver for a voucher", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		_, err := o.ApplyDiscount(order.DiscountParams{
			Kind:      order.DiscountVoucher,
			Value:     500,
			AppliedBy: kernel.NewUUID(),
		})
		assert.ErrorIs(t, err, errs.ErrApprovalRequired)

		approver := kernel.NewUUID()
		event, err := o.ApplyDiscount(order.DiscountParams{
			Kind:       order.DiscountVoucher,
			Value:      500,
			ApproverID: &approver,
			Reason:     "promo voucher",
			AppliedBy:  kernel.NewUUID(),
		})
		mustApply(t, o, event, err)

		assert.Equal(t, int64(500), o.Totals().DiscountTotal.Cents())
		assert.Equal(t, int64(500), o.Totals().GrandTotal.Cents())
	})

	t.Run("should never discount below zero", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Soda", 1, 300, 0)

		event, err := o.ApplyDiscount(order.DiscountParams{
			Kind:      order.DiscountFixedAmount,
			Value:     500,
			AppliedBy: kernel.NewUUID(),
		})
		mustApply(t, o, event, err)

		assert.Equal(t, int64(300), o.Totals().DiscountTotal.Cents())
		assert.True(t, o.Totals().GrandTotal.IsZero())
		assert.False(t, o.Totals().GrandTotal.IsNegative())
	})

	t.Run("should remove a discount and restore the total", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		applied, err := o.ApplyDiscount(order.DiscountParams{
			Kind:      order.DiscountPercentage,
			Value:     10,
			AppliedBy: kernel.NewUUID(),
		})
		mustApply(t, o, applied, err)

		removed, err := o.RemoveDiscount(applied.DiscountID, kernel.NewUUID())
		mustApply(t, o, removed, err)

		assert.True(t, o.Totals().DiscountTotal.IsZero())
		assert.Equal(t, int64(1000), o.Totals().GrandTotal.Cents())
	})

	t.Run("should not remove a line discount through the order-scoped command", func(t *testing.T) {
		o := newCreatedOrder(t)
		burgerID := addTestLine(t, o, "Burger", 1, 1000, 0)

		applied, err := o.ApplyLineDiscount(burgerID, order.DiscountParams{
			Kind:      order.DiscountPercentage,
			Value:     10,
			AppliedBy: kernel.NewUUID(),
		})
		mustApply(t, o, applied, err)

		_, err = o.RemoveDiscount(applied.DiscountID, kernel.NewUUID())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)

		removed, err := o.RemoveLineDiscount(burgerID, applied.DiscountID, kernel.NewUUID())
		mustApply(t, o, removed, err)
		assert.True(t, o.Totals().DiscountTotal.IsZero())
	})

	t.Run("should reject the price-override discount type", func(t *testing.T) {
		o := newCreatedOrder(t)
		burgerID := addTestLine(t, o, "Burger", 1, 1000, 0)

		_, err := o.ApplyLineDiscount(burgerID, order.DiscountParams{
			Kind:      order.DiscountPriceOverride,
			Value:     500,
			AppliedBy: kernel.NewUUID(),
		})

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOverridePrice(t *testing.T) {
	t.Run("should replace the effective unit price", func(t *testing.T) {
		o := newCreatedOrder(t)
		lineID := addTestLine(t, o, "Burger", 2, 1000, 0)

		event, err := o.OverridePrice(lineID, kernel.NewMoneyFromCents(800), kernel.NewUUID(), "happy hour", kernel.NewUUID())
		mustApply(t, o, event, err)

		assert.Equal(t, int64(800), o.Lines()[0].EffectiveUnitPrice().Cents())
		assert.Equal(t, int64(1000), o.Lines()[0].UnitPrice().Cents())
		assert.Equal(t, int64(1600), o.Totals().Subtotal.Cents())
	})

	t.Run("should require an approver", func(t *testing.T) {
		o := newCreatedOrder(t)
		lineID := addTestLine(t, o, "Burger", 1, 1000, 0)

		_, err := o.OverridePrice(lineID, kernel.NewMoneyFromCents(800), kernel.UUID{}, "", kernel.NewUUID())

		assert.ErrorIs(t, err, errs.ErrApprovalRequired)
	})
}

func TestServiceChargesAndTax(t *testing.T) {
	t.Run("should compute the worked example to the cent", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 2, 1000, 10)

		event, err := o.AddServiceCharge("Service", 10, true, kernel.NewUUID())
		mustApply(t, o, event, err)

		totals := o.Totals()
		assert.Equal(t, int64(2000), totals.Subtotal.Cents())
		assert.Equal(t, int64(200), totals.ServiceChargeTotal.Cents())
		assert.Equal(t, int64(220), totals.TaxTotal.Cents())
		assert.Equal(t, int64(2420), totals.GrandTotal.Cents())
	})

	t.Run("should not tax a non-taxable service charge", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 2, 1000, 10)

		event, err := o.AddServiceCharge("Service", 10, false, kernel.NewUUID())
		mustApply(t, o, event, err)

		totals := o.Totals()
		assert.Equal(t, int64(200), totals.ServiceChargeTotal.Cents())
		assert.Equal(t, int64(200), totals.TaxTotal.Cents())
		assert.Equal(t, int64(2400), totals.GrandTotal.Cents())
	})

	t.Run("should blend mixed tax rates into the service charge tax", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 10)
		addTestLine(t, o, "Wine", 1, 1000, 20)

		event, err := o.AddServiceCharge("Service", 10, true, kernel.NewUUID())
		mustApply(t, o, event, err)

		// blended rate across the two lines is 15%
		totals := o.Totals()
		assert.Equal(t, int64(200), totals.ServiceChargeTotal.Cents())
		assert.Equal(t, int64(330), totals.TaxTotal.Cents())
	})

	t.Run("should remove a service charge", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		added, err := o.AddServiceCharge("Service", 10, false, kernel.NewUUID())
		mustApply(t, o, added, err)

		removed, err := o.RemoveServiceCharge(added.ChargeID, kernel.NewUUID())
		mustApply(t, o, removed, err)

		assert.True(t, o.Totals().ServiceChargeTotal.IsZero())
	})
}

func TestPayments(t *testing.T) {
	t.Run("should move through partially paid to paid", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 2, 1000, 0)

		first, err := o.RecordPayment(kernel.NewUUID(), kernel.NewMoneyFromCents(500), 0, "cash", kernel.NewUUID())
		mustApply(t, o, first, err)
		assert.Equal(t, order.StatusPartiallyPaid, o.Status())
		assert.Equal(t, int64(1500), o.Totals().BalanceDue.Cents())

		second, err := o.RecordPayment(kernel.NewUUID(), kernel.NewMoneyFromCents(1500), kernel.NewMoneyFromCents(300), "card", kernel.NewUUID())
		mustApply(t, o, second, err)
		assert.Equal(t, order.StatusPaid, o.Status())
		assert.True(t, o.Totals().BalanceDue.IsZero())
		assert.Equal(t, int64(300), o.Totals().TipTotal.Cents())
	})

	t.Run("should surface overpayment as a negative balance", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		event, err := o.RecordPayment(kernel.NewUUID(), kernel.NewMoneyFromCents(1200), 0, "cash", kernel.NewUUID())
		mustApply(t, o, event, err)

		assert.Equal(t, int64(-200), o.Totals().BalanceDue.Cents())
		assert.Equal(t, order.StatusPaid, o.Status())
	})

	t.Run("should reject recording the same payment twice", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		paymentID := kernel.NewUUID()
		event, err := o.RecordPayment(paymentID, kernel.NewMoneyFromCents(500), 0, "cash", kernel.NewUUID())
		mustApply(t, o, event, err)

		_, err = o.RecordPayment(paymentID, kernel.NewMoneyFromCents(500), 0, "cash", kernel.NewUUID())
		assert.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	})

	t.Run("should restore the balance when a payment is removed", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		paymentID := kernel.NewUUID()
		recorded, err := o.RecordPayment(paymentID, kernel.NewMoneyFromCents(1000), 0, "cash", kernel.NewUUID())
		mustApply(t, o, recorded, err)

		removed, err := o.RemovePayment(paymentID, kernel.NewUUID())
		mustApply(t, o, removed, err)

		assert.Equal(t, int64(1000), o.Totals().BalanceDue.Cents())
		assert.Equal(t, order.StatusOpen, o.Status())
	})

	t.Run("should reject a non-positive payment amount", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		_, err := o.RecordPayment(kernel.NewUUID(), 0, 0, "cash", kernel.NewUUID())

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestCloseVoidReopen(t *testing.T) {
	t.Run("should refuse to close with an outstanding balance", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		_, err := o.Close(kernel.NewUUID())

		assert.ErrorIs(t, err, errs.ErrBalanceOutstanding)
	})

	t.Run("should close a settled order and freeze it", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		payment, err := o.RecordPayment(kernel.NewUUID(), kernel.NewMoneyFromCents(1000), 0, "cash", kernel.NewUUID())
		mustApply(t, o, payment, err)

		closed, err := o.Close(kernel.NewUUID())
		mustApply(t, o, closed, err)
		assert.Equal(t, order.StatusClosed, o.Status())

		_, err = o.AddLine(order.AddLineParams{
			MenuItemID: kernel.NewUUID(),
			Name:       "Late item",
			Quantity:   1,
			UnitPrice:  kernel.NewMoneyFromCents(100),
			AddedBy:    kernel.NewUUID(),
		})
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("should void an open order", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		event, err := o.Void(kernel.NewUUID(), "walked out", true)
		mustApply(t, o, event, err)

		assert.Equal(t, order.StatusVoided, o.Status())

		_, err = o.Send(kernel.NewUUID())
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("should reopen a closed order into a derived status", func(t *testing.T) {
		o := newCreatedOrder(t)
		addTestLine(t, o, "Burger", 1, 1000, 0)

		sent, err := o.Send(kernel.NewUUID())
		mustApply(t, o, sent, err)

		payment, err := o.RecordPayment(kernel.NewUUID(), kernel.NewMoneyFromCents(1000), 0, "cash", kernel.NewUUID())
		mustApply(t, o, payment, err)

		closed, err := o.Close(kernel.NewUUID())
		mustApply(t, o, closed, err)

		reopened, err := o.Reopen(kernel.NewUUID(), "forgot dessert")
		mustApply(t, o, reopened, err)

		// the earlier payment still settles the balance
		assert.Equal(t, order.StatusPaid, o.Status())

		removed, err := o.RemovePayment(payment.PaymentID, kernel.NewUUID())
		mustApply(t, o, removed, err)
		assert.Equal(t, order.StatusSent, o.Status())
	})

	t.Run("should not reopen a voided order", func(t *testing.T) {
		o := newCreatedOrder(t)

		event, err := o.Void(kernel.NewUUID(), "mistake", false)
		mustApply(t, o, event, err)

		_, err = o.Reopen(kernel.NewUUID(), "undo")
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})
}

func TestReplayDeterminism(t *testing.T) {
	t.Run("should rebuild identical state from the same event log", func(t *testing.T) {
		o := newCreatedOrder(t)
		address := o.Address()

		var log []order.Event

		record := func(event order.Event, err error) {
			require.NoError(t, err)
			require.NotNil(t, event)
			require.NoError(t, o.Apply(event))
			log = append(log, event)
		}

		lineEvent, err := o.AddLine(order.AddLineParams{
			MenuItemID: kernel.NewUUID(),
			Name:       "Burger",
			Quantity:   2,
			UnitPrice:  kernel.NewMoneyFromCents(1000),
			TaxRate:    10,
			AddedBy:    kernel.NewUUID(),
		})
		record(lineEvent, err)

		charge, err := o.AddServiceCharge("Service", 10, true, kernel.NewUUID())
		record(charge, err)

		discount, err := o.ApplyDiscount(order.DiscountParams{
			Kind:      order.DiscountPercentage,
			Value:     5,
			AppliedBy: kernel.NewUUID(),
		})
		record(discount, err)

		sent, err := o.Send(kernel.NewUUID())
		record(sent, err)

		// rebuild from scratch twice; the creation event is not in the log
		// helper, so re-derive it from the snapshot for a fair replay
		full := append([]order.Event{&order.OrderCreated{
			OrderID:    address.OrderID(),
			OrgID:      address.OrgID(),
			SiteID:     address.SiteID(),
			Number:     o.Number(),
			OrderType:  o.OrderType(),
			GuestCount: o.GuestCount(),
			ServerID:   o.ServerID(),
			CreatedBy:  o.CreatedBy(),
			CreatedAt:  o.CreatedAt(),
		}}, log...)

		first, err := order.Replay(address, full)
		require.NoError(t, err)
		second, err := order.Replay(address, full)
		require.NoError(t, err)

		assert.Equal(t, first.Snapshot(), second.Snapshot())
		assert.Equal(t, o.Totals(), first.Totals())
		assert.Equal(t, o.Status(), first.Status())
		assert.Equal(t, o.Version(), first.Version())
	})

	t.Run("should survive an encode and decode round trip", func(t *testing.T) {
		o := newCreatedOrder(t)

		lineEvent, err := o.AddLine(order.AddLineParams{
			MenuItemID: kernel.NewUUID(),
			Name:       "Burger",
			Quantity:   1,
			UnitPrice:  kernel.NewMoneyFromCents(1000),
			TaxRate:    10,
			AddedBy:    kernel.NewUUID(),
		})
		require.NoError(t, err)

		payload, err := order.EncodeEvent(lineEvent)
		require.NoError(t, err)

		decoded, err := order.DecodeEvent(lineEvent.EventType(), payload)
		require.NoError(t, err)
		require.NoError(t, o.Apply(decoded))

		assert.Equal(t, int64(1000), o.Totals().Subtotal.Cents())
	})
}
