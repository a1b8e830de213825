package order

import (
	"encoding/json"
	"fmt"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// Event is one immutable fact about an order, appended to the order's
// durable log and replayed to reconstruct state. Every value that depends
// on the wall clock or on randomness is a field on the event, captured when
// the command is handled; Apply never reads the clock, so replaying the same
// event sequence always yields identical state.
type Event interface {
	// EventType returns the stable type tag stored alongside the payload
	// in the durable log.
	EventType() string
}

// Event type tags. These are persisted; never renumber or rename.
const (
	EventOrderCreated          = "OrderCreated"
	EventOrderCreatedFromSplit = "OrderCreatedFromSplit"
	EventLineAdded             = "LineAdded"
	EventLineUpdated           = "LineUpdated"
	EventLineRemoved           = "LineRemoved"
	EventLineVoided            = "LineVoided"
	EventLinesSent             = "LinesSent"
	EventLinesHeld             = "LinesHeld"
	EventLinesReleased         = "LinesReleased"
	EventLineCourseSet         = "LineCourseSet"
	EventLinesFired            = "LinesFired"
	EventLineStatusUpdated     = "LineStatusUpdated"
	EventDiscountApplied       = "DiscountApplied"
	EventDiscountRemoved       = "DiscountRemoved"
	EventPriceOverridden       = "PriceOverridden"
	EventServiceChargeAdded    = "ServiceChargeAdded"
	EventServiceChargeRemoved  = "ServiceChargeRemoved"
	EventPaymentRecorded       = "PaymentRecorded"
	EventPaymentRemoved        = "PaymentRemoved"
	EventOrderClosed           = "OrderClosed"
	EventOrderVoided           = "OrderVoided"
	EventOrderReopened         = "OrderReopened"
	EventLinesSplitToOrder     = "LinesSplitToOrder"
	EventOrderMergedFrom       = "OrderMergedFrom"
	EventOrderMarkedMerged     = "OrderMarkedMerged"
)

// ModifierData is the serialized form of a line modifier.
type ModifierData struct {
	Name     string       `json:"name"`
	Price    kernel.Money `json:"price"`
	Quantity int          `json:"quantity"`
}

// BundleComponentData is the serialized form of a selected bundle component.
type BundleComponentData struct {
	MenuItemID kernel.UUID `json:"menu_item_id"`
	Name       string      `json:"name"`
	Quantity   int         `json:"quantity"`
}

// OrderCreated initializes the aggregate. Appending it twice for the same
// identity is rejected at command time.
type OrderCreated struct {
	OrderID    kernel.UUID  `json:"order_id"`
	OrgID      kernel.UUID  `json:"org_id"`
	SiteID     kernel.UUID  `json:"site_id"`
	Number     string       `json:"number"`
	OrderType  Type         `json:"order_type"`
	TableID    *kernel.UUID `json:"table_id,omitempty"`
	GuestCount int          `json:"guest_count"`
	ServerID   kernel.UUID  `json:"server_id"`
	CustomerID *kernel.UUID `json:"customer_id,omitempty"`
	CreatedBy  kernel.UUID  `json:"created_by"`
	CreatedAt  time.Time    `json:"created_at"`
}

// EventType implements Event.
func (OrderCreated) EventType() string { return EventOrderCreated }

// OrderCreatedFromSplit initializes a child order seeded with line copies
// carved off a parent order by SplitByItems.
type OrderCreatedFromSplit struct {
	OrderID       kernel.UUID `json:"order_id"`
	OrgID         kernel.UUID `json:"org_id"`
	SiteID        kernel.UUID `json:"site_id"`
	Number        string      `json:"number"`
	OrderType     Type        `json:"order_type"`
	GuestCount    int         `json:"guest_count"`
	ParentOrderID kernel.UUID `json:"parent_order_id"`
	ParentNumber  string      `json:"parent_number"`
	Lines         []LineData  `json:"lines"`
	SplitBy       kernel.UUID `json:"split_by"`
	SplitAt       time.Time   `json:"split_at"`
}

// EventType implements Event.
func (OrderCreatedFromSplit) EventType() string { return EventOrderCreatedFromSplit }

// LineAdded appends one line in Pending status.
type LineAdded struct {
	LineID     kernel.UUID           `json:"line_id"`
	MenuItemID kernel.UUID           `json:"menu_item_id"`
	Name       string                `json:"name"`
	Quantity   int                   `json:"quantity"`
	UnitPrice  kernel.Money          `json:"unit_price"`
	TaxRate    float64               `json:"tax_rate"`
	Notes      string                `json:"notes,omitempty"`
	Seat       int                   `json:"seat,omitempty"`
	Course     int                   `json:"course"`
	IsBundle   bool                  `json:"is_bundle,omitempty"`
	Modifiers  []ModifierData        `json:"modifiers,omitempty"`
	Components []BundleComponentData `json:"components,omitempty"`
	AddedBy    kernel.UUID           `json:"added_by"`
	AddedAt    time.Time             `json:"added_at"`
}

// EventType implements Event.
func (LineAdded) EventType() string { return EventLineAdded }

// LineUpdated changes a line's quantity and/or notes. Quantity changes are
// only legal before the line has been sent.
type LineUpdated struct {
	LineID    kernel.UUID `json:"line_id"`
	Quantity  *int        `json:"quantity,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
	UpdatedBy kernel.UUID `json:"updated_by"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// EventType implements Event.
func (LineUpdated) EventType() string { return EventLineUpdated }

// LineRemoved hard-removes a line that was never sent.
type LineRemoved struct {
	LineID    kernel.UUID `json:"line_id"`
	RemovedBy kernel.UUID `json:"removed_by"`
	RemovedAt time.Time   `json:"removed_at"`
}

// EventType implements Event.
func (LineRemoved) EventType() string { return EventLineRemoved }

// LineVoided cancels a line, excluding it from totals.
type LineVoided struct {
	LineID   kernel.UUID `json:"line_id"`
	VoidedBy kernel.UUID `json:"voided_by"`
	Reason   string      `json:"reason"`
	VoidedAt time.Time   `json:"voided_at"`
}

// EventType implements Event.
func (LineVoided) EventType() string { return EventLineVoided }

// LinesSent dispatches the listed lines to preparation. This is the signal
// the kitchen-dispatch collaborator consumes.
type LinesSent struct {
	LineIDs []kernel.UUID `json:"line_ids"`
	SentBy  kernel.UUID   `json:"sent_by"`
	SentAt  time.Time     `json:"sent_at"`
}

// EventType implements Event.
func (LinesSent) EventType() string { return EventLinesSent }

// LinesHeld gates the listed lines from kitchen dispatch.
type LinesHeld struct {
	LineIDs []kernel.UUID `json:"line_ids"`
	HeldBy  kernel.UUID   `json:"held_by"`
	Reason  string        `json:"reason,omitempty"`
	HeldAt  time.Time     `json:"held_at"`
}

// EventType implements Event.
func (LinesHeld) EventType() string { return EventLinesHeld }

// LinesReleased returns the listed held lines to Pending.
type LinesReleased struct {
	LineIDs    []kernel.UUID `json:"line_ids"`
	ReleasedBy kernel.UUID   `json:"released_by"`
	ReleasedAt time.Time     `json:"released_at"`
}

// EventType implements Event.
func (LinesReleased) EventType() string { return EventLinesReleased }

// LineCourseSet assigns a dining course number to the listed lines.
type LineCourseSet struct {
	LineIDs []kernel.UUID `json:"line_ids"`
	Course  int           `json:"course"`
	SetBy   kernel.UUID   `json:"set_by"`
	SetAt   time.Time     `json:"set_at"`
}

// EventType implements Event.
func (LineCourseSet) EventType() string { return EventLineCourseSet }

// LinesFired force-dispatches the listed lines, bypassing holds.
type LinesFired struct {
	LineIDs []kernel.UUID `json:"line_ids"`
	FiredBy kernel.UUID   `json:"fired_by"`
	FiredAt time.Time     `json:"fired_at"`
}

// EventType implements Event.
func (LinesFired) EventType() string { return EventLinesFired }

// LineStatusUpdated progresses a dispatched line along the preparation
// path as reported back by the kitchen collaborator.
type LineStatusUpdated struct {
	LineID    kernel.UUID `json:"line_id"`
	Status    LineStatus  `json:"status"`
	UpdatedBy kernel.UUID `json:"updated_by"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// EventType implements Event.
func (LineStatusUpdated) EventType() string { return EventLineStatusUpdated }

// DiscountApplied records an order- or line-scoped discount.
type DiscountApplied struct {
	DiscountID kernel.UUID  `json:"discount_id"`
	LineID     *kernel.UUID `json:"line_id,omitempty"`
	Kind       DiscountType `json:"kind"`
	Value      float64      `json:"value"`
	ApproverID *kernel.UUID `json:"approver_id,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	AppliedBy  kernel.UUID  `json:"applied_by"`
	AppliedAt  time.Time    `json:"applied_at"`
}

// EventType implements Event.
func (DiscountApplied) EventType() string { return EventDiscountApplied }

// DiscountRemoved removes a previously applied discount.
type DiscountRemoved struct {
	DiscountID kernel.UUID `json:"discount_id"`
	RemovedBy  kernel.UUID `json:"removed_by"`
	RemovedAt  time.Time   `json:"removed_at"`
}

// EventType implements Event.
func (DiscountRemoved) EventType() string { return EventDiscountRemoved }

// PriceOverridden rewrites a line's effective unit price.
type PriceOverridden struct {
	LineID       kernel.UUID  `json:"line_id"`
	NewUnitPrice kernel.Money `json:"new_unit_price"`
	ApproverID   kernel.UUID  `json:"approver_id"`
	Reason       string       `json:"reason,omitempty"`
	OverriddenBy kernel.UUID  `json:"overridden_by"`
	OverriddenAt time.Time    `json:"overridden_at"`
}

// EventType implements Event.
func (PriceOverridden) EventType() string { return EventPriceOverridden }

// ServiceChargeAdded records an order-level percentage charge.
type ServiceChargeAdded struct {
	ChargeID kernel.UUID `json:"charge_id"`
	Name     string      `json:"name"`
	Rate     float64     `json:"rate"`
	Taxable  bool        `json:"taxable"`
	AddedBy  kernel.UUID `json:"added_by"`
	AddedAt  time.Time   `json:"added_at"`
}

// EventType implements Event.
func (ServiceChargeAdded) EventType() string { return EventServiceChargeAdded }

// ServiceChargeRemoved removes a previously added service charge.
type ServiceChargeRemoved struct {
	ChargeID  kernel.UUID `json:"charge_id"`
	RemovedBy kernel.UUID `json:"removed_by"`
	RemovedAt time.Time   `json:"removed_at"`
}

// EventType implements Event.
func (ServiceChargeRemoved) EventType() string { return EventServiceChargeRemoved }

// PaymentRecorded applies a settlement result against the balance.
type PaymentRecorded struct {
	PaymentID  kernel.UUID  `json:"payment_id"`
	Amount     kernel.Money `json:"amount"`
	Tip        kernel.Money `json:"tip"`
	Method     string       `json:"method"`
	RecordedBy kernel.UUID  `json:"recorded_by"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// EventType implements Event.
func (PaymentRecorded) EventType() string { return EventPaymentRecorded }

// PaymentRemoved reverses a recorded payment, restoring the prior balance.
type PaymentRemoved struct {
	PaymentID kernel.UUID `json:"payment_id"`
	RemovedBy kernel.UUID `json:"removed_by"`
	RemovedAt time.Time   `json:"removed_at"`
}

// EventType implements Event.
func (PaymentRemoved) EventType() string { return EventPaymentRemoved }

// OrderClosed closes a fully settled order.
type OrderClosed struct {
	ClosedBy kernel.UUID `json:"closed_by"`
	ClosedAt time.Time   `json:"closed_at"`
}

// EventType implements Event.
func (OrderClosed) EventType() string { return EventOrderClosed }

// OrderVoided cancels the whole order. Terminal.
type OrderVoided struct {
	VoidedBy         kernel.UUID `json:"voided_by"`
	Reason           string      `json:"reason"`
	ReverseInventory bool        `json:"reverse_inventory,omitempty"`
	VoidedAt         time.Time   `json:"voided_at"`
}

// EventType implements Event.
func (OrderVoided) EventType() string { return EventOrderVoided }

// OrderReopened returns a closed order to an open status derived from its
// line state.
type OrderReopened struct {
	ReopenedBy kernel.UUID `json:"reopened_by"`
	Reason     string      `json:"reason"`
	ReopenedAt time.Time   `json:"reopened_at"`
}

// EventType implements Event.
func (OrderReopened) EventType() string { return EventOrderReopened }

// LinesSplitToOrder marks the listed source lines voided-as-moved and
// records the split lineage on the parent.
type LinesSplitToOrder struct {
	ChildOrderID kernel.UUID   `json:"child_order_id"`
	ChildNumber  string        `json:"child_number"`
	LineIDs      []kernel.UUID `json:"line_ids"`
	SplitBy      kernel.UUID   `json:"split_by"`
	SplitAt      time.Time     `json:"split_at"`
}

// EventType implements Event.
func (LinesSplitToOrder) EventType() string { return EventLinesSplitToOrder }

// OrderMergedFrom absorbs a source order's lines, discounts, service
// charges, and payments into this order.
type OrderMergedFrom struct {
	SourceOrderID kernel.UUID         `json:"source_order_id"`
	SourceNumber  string              `json:"source_number"`
	Lines         []LineData          `json:"lines"`
	Discounts     []DiscountData      `json:"discounts,omitempty"`
	Charges       []ServiceChargeData `json:"charges,omitempty"`
	Payments      []PaymentData       `json:"payments,omitempty"`
	MergedBy      kernel.UUID         `json:"merged_by"`
	MergedAt      time.Time           `json:"merged_at"`
}

// EventType implements Event.
func (OrderMergedFrom) EventType() string { return EventOrderMergedFrom }

// OrderMarkedMerged sets the source order of a merge to its terminal
// Merged status and records where its contents went.
type OrderMarkedMerged struct {
	TargetOrderID kernel.UUID `json:"target_order_id"`
	TargetNumber  string      `json:"target_number"`
	MergedBy      kernel.UUID `json:"merged_by"`
	MergedAt      time.Time   `json:"merged_at"`
}

// EventType implements Event.
func (OrderMarkedMerged) EventType() string { return EventOrderMarkedMerged }

// EncodeEvent serializes an event payload for the durable log.
func EncodeEvent(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("event payload", err)
	}
	return data, nil
}

// DecodeEvent deserializes an event payload by its persisted type tag.
// Returns ValueIsInvalid for unknown tags or malformed payloads.
func DecodeEvent(eventType string, data []byte) (Event, error) {
	prototypes := map[string]func() Event{
		EventOrderCreated:          func() Event { return &OrderCreated{} },
		EventOrderCreatedFromSplit: func() Event { return &OrderCreatedFromSplit{} },
		EventLineAdded:             func() Event { return &LineAdded{} },
		EventLineUpdated:           func() Event { return &LineUpdated{} },
		EventLineRemoved:           func() Event { return &LineRemoved{} },
		EventLineVoided:            func() Event { return &LineVoided{} },
		EventLinesSent:             func() Event { return &LinesSent{} },
		EventLinesHeld:             func() Event { return &LinesHeld{} },
		EventLinesReleased:         func() Event { return &LinesReleased{} },
		EventLineCourseSet:         func() Event { return &LineCourseSet{} },
		EventLinesFired:            func() Event { return &LinesFired{} },
		EventLineStatusUpdated:     func() Event { return &LineStatusUpdated{} },
		EventDiscountApplied:       func() Event { return &DiscountApplied{} },
		EventDiscountRemoved:       func() Event { return &DiscountRemoved{} },
		EventPriceOverridden:       func() Event { return &PriceOverridden{} },
		EventServiceChargeAdded:    func() Event { return &ServiceChargeAdded{} },
		EventServiceChargeRemoved:  func() Event { return &ServiceChargeRemoved{} },
		EventPaymentRecorded:       func() Event { return &PaymentRecorded{} },
		EventPaymentRemoved:        func() Event { return &PaymentRemoved{} },
		EventOrderClosed:           func() Event { return &OrderClosed{} },
		EventOrderVoided:           func() Event { return &OrderVoided{} },
		EventOrderReopened:         func() Event { return &OrderReopened{} },
		EventLinesSplitToOrder:     func() Event { return &LinesSplitToOrder{} },
		EventOrderMergedFrom:       func() Event { return &OrderMergedFrom{} },
		EventOrderMarkedMerged:     func() Event { return &OrderMarkedMerged{} },
	}

	prototype, ok := prototypes[eventType]
	if !ok {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"event type",
			fmt.Errorf("%q is not a known event type", eventType),
		)
	}

	event := prototype()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("event payload", err)
	}
	return event, nil
}
