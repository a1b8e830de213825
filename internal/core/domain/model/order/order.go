package order

import (
	"errors"
	"fmt"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created through
// the NewOrder factory method. This ensures all orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root for a single point-of-sale order. It owns the
// order's full state from creation through payment, splitting, merging,
// kitchen dispatch, and closure.
//
// Every mutation is an appended, replayable event: command methods validate
// against current state and derive events without mutating anything, and
// Apply folds events into state. Replaying the same event sequence from an
// empty aggregate always reproduces identical derived state, because Apply
// never reads the clock or randomness; such values live on the events.
//
// Order follows these invariants:
//   - GrandTotal = Subtotal - DiscountTotal + ServiceChargeTotal + TaxTotal
//   - BalanceDue = GrandTotal - PaidAmount
//   - Totals are recomputed from scratch after every event, never drifted
//   - Voided lines never contribute to totals and cannot transition further
//   - A failed command derives no event and leaves state untouched
type Order struct {
	address kernel.Address
	created bool

	number     string
	status     Status
	orderType  Type
	tableID    *kernel.UUID
	guestCount int
	serverID   kernel.UUID
	customerID *kernel.UUID

	lines     []*Line
	discounts []*Discount
	charges   []*ServiceCharge
	payments  []*Payment
	splitRefs []SplitReference

	parentOrderID *kernel.UUID
	mergedIntoID  *kernel.UUID

	createdBy  kernel.UUID
	createdAt  time.Time
	closedBy   *kernel.UUID
	closedAt   *time.Time
	voidedBy   *kernel.UUID
	voidReason string
	voidedAt   *time.Time

	totals  Totals
	version int

	isConstructed bool
}

// NewOrder creates an empty aggregate shell for the given address. The shell
// is not yet a created order: the first event must be OrderCreated or
// OrderCreatedFromSplit, derived by the Create/CreateFromSplit commands.
//
// Returns an error if the address is invalid.
func NewOrder(address kernel.Address) (*Order, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		address:       address,
		status:        StatusUnknown,
		isConstructed: true,
	}, nil
}

// Replay rebuilds an order from its full event history. Used on actor
// (re)activation; the fold is side-effect-free and deterministic.
func Replay(address kernel.Address, events []Event) (*Order, error) {
	o, err := NewOrder(address)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		if err := o.Apply(event); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Address returns the order's routing address.
func (o *Order) Address() kernel.Address {
	return o.address
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.address.OrderID()
}

// IsCreated reports whether the aggregate has been initialized by a
// creation event.
func (o *Order) IsCreated() bool {
	return o.created
}

// Number returns the human-readable order number.
func (o *Order) Number() string {
	return o.number
}

// Status returns the current order status.
func (o *Order) Status() Status {
	return o.status
}

// OrderType returns the order's fulfillment type.
func (o *Order) OrderType() Type {
	return o.orderType
}

// TableID returns the table reference, nil when not table service.
func (o *Order) TableID() *kernel.UUID {
	return o.tableID
}

// GuestCount returns the number of guests on the order.
func (o *Order) GuestCount() int {
	return o.guestCount
}

// ServerID returns the assigned server.
func (o *Order) ServerID() kernel.UUID {
	return o.serverID
}

// CustomerID returns the customer reference, nil when anonymous.
func (o *Order) CustomerID() *kernel.UUID {
	return o.customerID
}

// Lines returns the ordered list of lines, voided included.
func (o *Order) Lines() []*Line {
	return o.lines
}

// Discounts returns all applied discounts, order- and line-scoped.
func (o *Order) Discounts() []*Discount {
	return o.discounts
}

// ServiceCharges returns the applied service charges.
func (o *Order) ServiceCharges() []*ServiceCharge {
	return o.charges
}

// Payments returns the recorded payments.
func (o *Order) Payments() []*Payment {
	return o.payments
}

// SplitReferences returns the recorded split lineage.
func (o *Order) SplitReferences() []SplitReference {
	return o.splitRefs
}

// ParentOrderID returns the parent order for orders created by a split.
func (o *Order) ParentOrderID() *kernel.UUID {
	return o.parentOrderID
}

// MergedIntoID returns the target order when this order was merged away.
func (o *Order) MergedIntoID() *kernel.UUID {
	return o.mergedIntoID
}

// Totals returns the derived monetary totals under the current state.
func (o *Order) Totals() Totals {
	return o.totals
}

// Version returns the number of events applied to the aggregate. It serves
// as the expected-version token for optimistic concurrency at the log.
func (o *Order) Version() int {
	return o.version
}

// CreatedBy returns who created the order.
func (o *Order) CreatedBy() kernel.UUID {
	return o.createdBy
}

// CreatedAt returns when the order was created.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CreateParams carries the arguments of the Create command.
type CreateParams struct {
	Number     string
	OrderType  Type
	TableID    *kernel.UUID
	GuestCount int
	ServerID   kernel.UUID
	CustomerID *kernel.UUID
	CreatedBy  kernel.UUID
}

// Create initializes the order. Fails with AlreadyExists when the identity
// has already been initialized.
func (o *Order) Create(p CreateParams) (Event, error) {
	if o.created {
		return nil, errs.NewObjectAlreadyExistsError("order", o.ID().String())
	}

	if err := errors.Join(
		validateRequiredString("order number", p.Number),
		p.OrderType.Validate(),
		validateNonNegativeInt("guest count", p.GuestCount),
		validateActor("created by", p.CreatedBy),
		validateOptionalUUID("table", p.TableID),
		validateOptionalUUID("customer", p.CustomerID),
	); err != nil {
		return nil, err
	}

	// The creator waits the order unless a server is assigned explicitly.
	serverID := p.ServerID
	if serverID.Validate() != nil {
		serverID = p.CreatedBy
	}

	return &OrderCreated{
		OrderID:    o.ID(),
		OrgID:      o.address.OrgID(),
		SiteID:     o.address.SiteID(),
		Number:     p.Number,
		OrderType:  p.OrderType,
		TableID:    p.TableID,
		GuestCount: p.GuestCount,
		ServerID:   serverID,
		CustomerID: p.CustomerID,
		CreatedBy:  p.CreatedBy,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// AddLineParams carries the arguments of the AddLine command.
type AddLineParams struct {
	MenuItemID kernel.UUID
	Name       string
	Quantity   int
	UnitPrice  kernel.Money
	TaxRate    float64
	Notes      string
	Seat       int
	Course     int
	IsBundle   bool
	Modifiers  []ModifierData
	Components []BundleComponentData
	AddedBy    kernel.UUID
}

// AddLine appends a new line in Pending status. The line's total, discount,
// and tax figures are recomputed when the event is applied. A course of
// zero defaults to course 1.
func (o *Order) AddLine(p AddLineParams) (*LineAdded, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateActor("menu item", p.MenuItemID),
		validateRequiredString("line name", p.Name),
		validatePositiveInt("quantity", p.Quantity),
		validateNonNegativeMoney("unit price", p.UnitPrice),
		validateNonNegativeRate("tax rate", p.TaxRate),
		validateActor("added by", p.AddedBy),
	); err != nil {
		return nil, err
	}

	course := p.Course
	if course == 0 {
		course = 1
	}
	if course < 1 {
		return nil, errs.NewValueIsOutOfRangeError("course", course, 1, maxCourse)
	}

	return &LineAdded{
		LineID:     kernel.NewUUID(),
		MenuItemID: p.MenuItemID,
		Name:       p.Name,
		Quantity:   p.Quantity,
		UnitPrice:  p.UnitPrice,
		TaxRate:    p.TaxRate,
		Notes:      p.Notes,
		Seat:       p.Seat,
		Course:     course,
		IsBundle:   p.IsBundle,
		Modifiers:  p.Modifiers,
		Components: p.Components,
		AddedBy:    p.AddedBy,
		AddedAt:    time.Now().UTC(),
	}, nil
}

// UpdateLine changes a line's quantity and/or notes. Quantity is immutable
// once the line has been sent; only notes may change after dispatch.
func (o *Order) UpdateLine(lineID kernel.UUID, quantity *int, notes *string, updatedBy kernel.UUID) (*LineUpdated, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return nil, err
	}

	if line.IsVoided() {
		return nil, errs.NewInvalidStateErrorWithCause(
			"line", fmt.Errorf("line %s is voided", lineID))
	}

	if quantity == nil && notes == nil {
		return nil, errs.NewValueIsRequiredError("quantity or notes")
	}

	if quantity != nil {
		if line.EverSent() {
			return nil, errs.NewInvalidStateErrorWithCause(
				"line", fmt.Errorf("quantity is immutable after send"))
		}
		if err := validatePositiveInt("quantity", *quantity); err != nil {
			return nil, err
		}
	}

	if err := validateActor("updated by", updatedBy); err != nil {
		return nil, err
	}

	return &LineUpdated{
		LineID:    lineID,
		Quantity:  quantity,
		Notes:     notes,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// VoidLine cancels a line, excluding it from totals. Voiding an already
// voided line fails with InvalidState so double-voids are detectable.
// Sibling lines are unaffected.
func (o *Order) VoidLine(lineID kernel.UUID, voidedBy kernel.UUID, reason string) (*LineVoided, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return nil, err
	}

	if _, err := line.Status().Void(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateActor("voided by", voidedBy),
		validateRequiredString("void reason", reason),
	); err != nil {
		return nil, err
	}

	return &LineVoided{
		LineID:   lineID,
		VoidedBy: voidedBy,
		Reason:   reason,
		VoidedAt: time.Now().UTC(),
	}, nil
}

// RemoveLine hard-removes a line that has never been sent. Lines that were
// ever dispatched must be voided instead so the kitchen-side audit trail
// survives.
func (o *Order) RemoveLine(lineID kernel.UUID, removedBy kernel.UUID) (*LineRemoved, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return nil, err
	}

	if line.EverSent() {
		return nil, errs.NewInvalidStateErrorWithCause(
			"line", fmt.Errorf("line %s has been sent; void it instead", lineID))
	}
	if line.IsVoided() {
		return nil, errs.NewInvalidStateErrorWithCause(
			"line", fmt.Errorf("line %s is voided", lineID))
	}

	if err := validateActor("removed by", removedBy); err != nil {
		return nil, err
	}

	return &LineRemoved{
		LineID:    lineID,
		RemovedBy: removedBy,
		RemovedAt: time.Now().UTC(),
	}, nil
}

// Send dispatches all non-held Pending lines to preparation and stamps them
// with the sender and time. Returns nil without an event when no line is
// eligible. The emitted line id set is the signal consumed by the
// kitchen-dispatch collaborator.
func (o *Order) Send(sentBy kernel.UUID) (*LinesSent, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}
	if err := validateActor("sent by", sentBy); err != nil {
		return nil, err
	}

	var lineIDs []kernel.UUID
	for _, line := range o.lines {
		if line.Status() == LineStatusPending {
			lineIDs = append(lineIDs, line.ID())
		}
	}
	if len(lineIDs) == 0 {
		return nil, nil
	}

	return &LinesSent{
		LineIDs: lineIDs,
		SentBy:  sentBy,
		SentAt:  time.Now().UTC(),
	}, nil
}

// DiscountParams carries the arguments of the discount commands.
type DiscountParams struct {
	Kind       DiscountType
	Value      float64
	ApproverID *kernel.UUID
	Reason     string
	AppliedBy  kernel.UUID
}

// ApplyDiscount applies an order-scoped discount. Discount types that are
// manager gated fail with ApprovalRequired unless an approver is supplied.
func (o *Order) ApplyDiscount(p DiscountParams) (*DiscountApplied, error) {
	return o.applyDiscount(nil, p)
}

// ApplyLineDiscount applies a discount scoped to a single line.
func (o *Order) ApplyLineDiscount(lineID kernel.UUID, p DiscountParams) (*DiscountApplied, error) {
	line, err := o.findLine(lineID)
	if err != nil {
		return nil, err
	}
	if line.IsVoided() {
		return nil, errs.NewInvalidStateErrorWithCause(
			"line", fmt.Errorf("line %s is voided", lineID))
	}
	return o.applyDiscount(&lineID, p)
}

func (o *Order) applyDiscount(lineID *kernel.UUID, p DiscountParams) (*DiscountApplied, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		p.Kind.Validate(),
		validateActor("applied by", p.AppliedBy),
	); err != nil {
		return nil, err
	}

	if p.Kind == DiscountPriceOverride {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"discount type",
			fmt.Errorf("price overrides are commanded through OverridePrice"),
		)
	}

	if p.Kind.RequiresApproval() {
		if p.ApproverID == nil {
			return nil, errs.NewApprovalRequiredError(p.Kind.String() + " discount")
		}
		if err := p.ApproverID.Validate(); err != nil {
			return nil, err
		}
		if p.Reason == "" {
			return nil, errs.NewValueIsRequiredError("discount reason")
		}
	}

	if p.Kind != DiscountComp && p.Value <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"discount value",
			fmt.Errorf("%v is not greater than 0", p.Value),
		)
	}

	return &DiscountApplied{
		DiscountID: kernel.NewUUID(),
		LineID:     lineID,
		Kind:       p.Kind,
		Value:      p.Value,
		ApproverID: p.ApproverID,
		Reason:     p.Reason,
		AppliedBy:  p.AppliedBy,
		AppliedAt:  time.Now().UTC(),
	}, nil
}

// RemoveDiscount removes an order-scoped discount.
func (o *Order) RemoveDiscount(discountID kernel.UUID, removedBy kernel.UUID) (*DiscountRemoved, error) {
	return o.removeDiscount(discountID, nil, removedBy)
}

// RemoveLineDiscount removes a discount scoped to the given line. Fails with
// NotFound when the discount does not exist or does not target the line.
func (o *Order) RemoveLineDiscount(lineID kernel.UUID, discountID kernel.UUID, removedBy kernel.UUID) (*DiscountRemoved, error) {
	return o.removeDiscount(discountID, &lineID, removedBy)
}

func (o *Order) removeDiscount(discountID kernel.UUID, lineID *kernel.UUID, removedBy kernel.UUID) (*DiscountRemoved, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}
	if err := validateActor("removed by", removedBy); err != nil {
		return nil, err
	}

	discount := o.findDiscount(discountID)
	if discount == nil {
		return nil, errs.NewObjectNotFoundError("discount", discountID.String())
	}

	if lineID == nil && discount.LineID() != nil {
		return nil, errs.NewObjectNotFoundError("order discount", discountID.String())
	}
	if lineID != nil && (discount.LineID() == nil || !discount.LineID().IsEqual(*lineID)) {
		return nil, errs.NewObjectNotFoundError("line discount", discountID.String())
	}

	return &DiscountRemoved{
		DiscountID: discountID,
		RemovedBy:  removedBy,
		RemovedAt:  time.Now().UTC(),
	}, nil
}

// OverridePrice rewrites a line's effective unit price. Price overrides are
// manager gated and always require an approver.
func (o *Order) OverridePrice(lineID kernel.UUID, newUnitPrice kernel.Money, approverID kernel.UUID, reason string, overriddenBy kernel.UUID) (*PriceOverridden, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return nil, err
	}
	if line.IsVoided() {
		return nil, errs.NewInvalidStateErrorWithCause(
			"line", fmt.Errorf("line %s is voided", lineID))
	}

	if err := approverID.Validate(); err != nil {
		return nil, errs.NewApprovalRequiredError("price override")
	}

	if err := errors.Join(
		validateNonNegativeMoney("new unit price", newUnitPrice),
		validateActor("overridden by", overriddenBy),
	); err != nil {
		return nil, err
	}

	return &PriceOverridden{
		LineID:       lineID,
		NewUnitPrice: newUnitPrice,
		ApproverID:   approverID,
		Reason:       reason,
		OverriddenBy: overriddenBy,
		OverriddenAt: time.Now().UTC(),
	}, nil
}

// AddServiceCharge adds an order-level percentage charge. The amount is
// recomputed against the subtotal whenever totals are recalculated.
func (o *Order) AddServiceCharge(name string, rate float64, taxable bool, addedBy kernel.UUID) (*ServiceChargeAdded, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateRequiredString("service charge name", name),
		validateNonNegativeRate("service charge rate", rate),
		validateActor("added by", addedBy),
	); err != nil {
		return nil, err
	}

	return &ServiceChargeAdded{
		ChargeID: kernel.NewUUID(),
		Name:     name,
		Rate:     rate,
		Taxable:  taxable,
		AddedBy:  addedBy,
		AddedAt:  time.Now().UTC(),
	}, nil
}

// RemoveServiceCharge removes a previously added service charge.
func (o *Order) RemoveServiceCharge(chargeID kernel.UUID, removedBy kernel.UUID) (*ServiceChargeRemoved, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}
	if err := validateActor("removed by", removedBy); err != nil {
		return nil, err
	}

	if o.findCharge(chargeID) == nil {
		return nil, errs.NewObjectNotFoundError("service charge", chargeID.String())
	}

	return &ServiceChargeRemoved{
		ChargeID:  chargeID,
		RemovedBy: removedBy,
		RemovedAt: time.Now().UTC(),
	}, nil
}

// RecordPayment applies a settlement result against the balance. Overpayment
// is allowed and surfaced through a negative balance due, not rejected.
// Fails with AlreadyExists when the payment identity was already recorded.
func (o *Order) RecordPayment(paymentID kernel.UUID, amount kernel.Money, tip kernel.Money, method string, recordedBy kernel.UUID) (*PaymentRecorded, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateActor("payment", paymentID),
		validateNonNegativeMoney("tip", tip),
		validateRequiredString("payment method", method),
		validateActor("recorded by", recordedBy),
	); err != nil {
		return nil, err
	}

	if !amount.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"payment amount",
			fmt.Errorf("%s is not greater than 0", amount),
		)
	}

	if o.findPayment(paymentID) != nil {
		return nil, errs.NewObjectAlreadyExistsError("payment", paymentID.String())
	}

	return &PaymentRecorded{
		PaymentID:  paymentID,
		Amount:     amount,
		Tip:        tip,
		Method:     method,
		RecordedBy: recordedBy,
		RecordedAt: time.Now().UTC(),
	}, nil
}

// RemovePayment reverses a recorded payment while the order is open,
// restoring the prior balance exactly.
func (o *Order) RemovePayment(paymentID kernel.UUID, removedBy kernel.UUID) (*PaymentRemoved, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}
	if err := validateActor("removed by", removedBy); err != nil {
		return nil, err
	}

	if o.findPayment(paymentID) == nil {
		return nil, errs.NewObjectNotFoundError("payment", paymentID.String())
	}

	return &PaymentRemoved{
		PaymentID: paymentID,
		RemovedBy: removedBy,
		RemovedAt: time.Now().UTC(),
	}, nil
}

// Close closes the order. Policy: closing requires full settlement, so the
// command fails with BalanceOutstanding whenever balance due is positive.
func (o *Order) Close(closedBy kernel.UUID) (*OrderClosed, error) {
	if err := o.requireCreated(); err != nil {
		return nil, err
	}
	if err := validateActor("closed by", closedBy); err != nil {
		return nil, err
	}

	if _, err := o.status.Close(); err != nil {
		return nil, err
	}

	if o.totals.BalanceDue.IsPositive() {
		return nil, errs.NewBalanceOutstandingError("balance due", o.totals.BalanceDue)
	}

	return &OrderClosed{
		ClosedBy: closedBy,
		ClosedAt: time.Now().UTC(),
	}, nil
}

// Void cancels the whole order from any open-ish status. Terminal.
func (o *Order) Void(voidedBy kernel.UUID, reason string, reverseInventory bool) (*OrderVoided, error) {
	if err := o.requireCreated(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateActor("voided by", voidedBy),
		validateRequiredString("void reason", reason),
	); err != nil {
		return nil, err
	}

	if _, err := o.status.Void(); err != nil {
		return nil, err
	}

	return &OrderVoided{
		VoidedBy:         voidedBy,
		Reason:           reason,
		ReverseInventory: reverseInventory,
		VoidedAt:         time.Now().UTC(),
	}, nil
}

// Reopen returns a closed order to service. The resulting status is derived
// from the line state: Sent when any line was dispatched, Open otherwise.
// Voided orders cannot be reopened.
func (o *Order) Reopen(reopenedBy kernel.UUID, reason string) (*OrderReopened, error) {
	if err := o.requireCreated(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateActor("reopened by", reopenedBy),
		validateRequiredString("reopen reason", reason),
	); err != nil {
		return nil, err
	}

	if err := o.status.Reopen(); err != nil {
		return nil, err
	}

	return &OrderReopened{
		ReopenedBy: reopenedBy,
		Reason:     reason,
		ReopenedAt: time.Now().UTC(),
	}, nil
}

func (o *Order) requireCreated() error {
	if !o.created {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	return nil
}

func (o *Order) requireMutable() error {
	if err := o.requireCreated(); err != nil {
		return err
	}
	return o.status.ValidateMutable()
}

func (o *Order) findLine(lineID kernel.UUID) (*Line, error) {
	for _, line := range o.lines {
		if line.ID().IsEqual(lineID) {
			return line, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("line", lineID.String())
}

func (o *Order) findDiscount(discountID kernel.UUID) *Discount {
	for _, d := range o.discounts {
		if d.ID().IsEqual(discountID) {
			return d
		}
	}
	return nil
}

func (o *Order) findCharge(chargeID kernel.UUID) *ServiceCharge {
	for _, c := range o.charges {
		if c.ID().IsEqual(chargeID) {
			return c
		}
	}
	return nil
}

func (o *Order) findPayment(paymentID kernel.UUID) *Payment {
	for _, p := range o.payments {
		if p.ID().IsEqual(paymentID) {
			return p
		}
	}
	return nil
}

const maxCourse = 20

func validateRequiredString(paramName string, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(paramName)
	}
	return nil
}

func validateActor(paramName string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(paramName, err)
	}
	return nil
}

func validateOptionalUUID(paramName string, id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	return validateActor(paramName, *id)
}

func validatePositiveInt(paramName string, value int) error {
	if value <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			paramName, fmt.Errorf("%d is not greater than 0", value))
	}
	return nil
}

func validateNonNegativeInt(paramName string, value int) error {
	if value < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			paramName, fmt.Errorf("%d is negative", value))
	}
	return nil
}

func validateNonNegativeMoney(paramName string, value kernel.Money) error {
	if value.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(
			paramName, fmt.Errorf("%s is negative", value))
	}
	return nil
}

func validateNonNegativeRate(paramName string, value float64) error {
	if value < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			paramName, fmt.Errorf("%v is negative", value))
	}
	return nil
}
