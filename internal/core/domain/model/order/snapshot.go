package order

import (
	"time"

	"pos/internal/core/domain/model/kernel"
)

// LineData is the serialized form of a line, used in snapshots and in the
// bulk-copy events produced by split and merge.
type LineData struct {
	LineID         kernel.UUID           `json:"line_id"`
	MenuItemID     kernel.UUID           `json:"menu_item_id"`
	Name           string                `json:"name"`
	Quantity       int                   `json:"quantity"`
	UnitPrice      kernel.Money          `json:"unit_price"`
	PriceOverride  *kernel.Money         `json:"price_override,omitempty"`
	TaxRate        float64               `json:"tax_rate"`
	Notes          string                `json:"notes,omitempty"`
	Seat           int                   `json:"seat,omitempty"`
	Course         int                   `json:"course"`
	IsBundle       bool                  `json:"is_bundle,omitempty"`
	Modifiers      []ModifierData        `json:"modifiers,omitempty"`
	Components     []BundleComponentData `json:"components,omitempty"`
	Status         LineStatus            `json:"status"`
	StatusName     string                `json:"status_name"`
	EverSent       bool                  `json:"ever_sent,omitempty"`
	HoldReason     string                `json:"hold_reason,omitempty"`
	SentBy         *kernel.UUID          `json:"sent_by,omitempty"`
	SentAt         *time.Time            `json:"sent_at,omitempty"`
	VoidedBy       *kernel.UUID          `json:"voided_by,omitempty"`
	VoidReason     string                `json:"void_reason,omitempty"`
	VoidedAt       *time.Time            `json:"voided_at,omitempty"`
	AddedBy        kernel.UUID           `json:"added_by"`
	AddedAt        time.Time             `json:"added_at"`
	Total          kernel.Money          `json:"total"`
	DiscountAmount kernel.Money          `json:"discount_amount"`
	TaxAmount      kernel.Money          `json:"tax_amount"`
}

// DiscountData is the serialized form of an applied discount.
type DiscountData struct {
	DiscountID kernel.UUID  `json:"discount_id"`
	LineID     *kernel.UUID `json:"line_id,omitempty"`
	Kind       DiscountType `json:"kind"`
	KindName   string       `json:"kind_name"`
	Value      float64      `json:"value"`
	Amount     kernel.Money `json:"amount"`
	ApproverID *kernel.UUID `json:"approver_id,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	AppliedBy  kernel.UUID  `json:"applied_by"`
	AppliedAt  time.Time    `json:"applied_at"`
}

// ServiceChargeData is the serialized form of a service charge.
type ServiceChargeData struct {
	ChargeID kernel.UUID  `json:"charge_id"`
	Name     string       `json:"name"`
	Rate     float64      `json:"rate"`
	Amount   kernel.Money `json:"amount"`
	Taxable  bool         `json:"taxable"`
	AddedBy  kernel.UUID  `json:"added_by"`
	AddedAt  time.Time    `json:"added_at"`
}

// PaymentData is the serialized form of a payment record.
type PaymentData struct {
	PaymentID  kernel.UUID  `json:"payment_id"`
	Amount     kernel.Money `json:"amount"`
	Tip        kernel.Money `json:"tip"`
	Method     string       `json:"method"`
	RecordedBy kernel.UUID  `json:"recorded_by"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// SplitReferenceData is the serialized form of a split lineage record.
type SplitReferenceData struct {
	ChildOrderID kernel.UUID   `json:"child_order_id"`
	ChildNumber  string        `json:"child_number"`
	LineIDs      []kernel.UUID `json:"line_ids"`
	SplitBy      kernel.UUID   `json:"split_by"`
	SplitAt      time.Time     `json:"split_at"`
}

// TotalsData is the serialized form of the derived monetary totals.
type TotalsData struct {
	Subtotal           kernel.Money `json:"subtotal"`
	DiscountTotal      kernel.Money `json:"discount_total"`
	ServiceChargeTotal kernel.Money `json:"service_charge_total"`
	TaxTotal           kernel.Money `json:"tax_total"`
	GrandTotal         kernel.Money `json:"grand_total"`
	PaidAmount         kernel.Money `json:"paid_amount"`
	TipTotal           kernel.Money `json:"tip_total"`
	BalanceDue         kernel.Money `json:"balance_due"`
}

// Snapshot is the materialized read projection of an order's full derived
// state. It is persisted alongside the event log for reporting and is the
// payload exchanged during merge choreography; replay never reads it.
type Snapshot struct {
	OrderID       kernel.UUID          `json:"order_id"`
	OrgID         kernel.UUID          `json:"org_id"`
	SiteID        kernel.UUID          `json:"site_id"`
	Number        string               `json:"number"`
	Status        Status               `json:"status"`
	StatusName    string               `json:"status_name"`
	OrderType     Type                 `json:"order_type"`
	TableID       *kernel.UUID         `json:"table_id,omitempty"`
	GuestCount    int                  `json:"guest_count"`
	ServerID      kernel.UUID          `json:"server_id"`
	CustomerID    *kernel.UUID         `json:"customer_id,omitempty"`
	Lines         []LineData           `json:"lines"`
	Discounts     []DiscountData       `json:"discounts,omitempty"`
	Charges       []ServiceChargeData  `json:"charges,omitempty"`
	Payments      []PaymentData        `json:"payments,omitempty"`
	SplitRefs     []SplitReferenceData `json:"split_refs,omitempty"`
	ParentOrderID *kernel.UUID         `json:"parent_order_id,omitempty"`
	MergedIntoID  *kernel.UUID         `json:"merged_into_id,omitempty"`
	Totals        TotalsData           `json:"totals"`
	Version       int                  `json:"version"`
	CreatedBy     kernel.UUID          `json:"created_by"`
	CreatedAt     time.Time            `json:"created_at"`
	ClosedAt      *time.Time           `json:"closed_at,omitempty"`
	VoidedAt      *time.Time           `json:"voided_at,omitempty"`
}

func lineToData(l *Line) LineData {
	return LineData{
		LineID:         l.id,
		MenuItemID:     l.menuItemID,
		Name:           l.name,
		Quantity:       l.quantity,
		UnitPrice:      l.unitPrice,
		PriceOverride:  l.priceOverride,
		TaxRate:        l.taxRate,
		Notes:          l.notes,
		Seat:           l.seat,
		Course:         l.course,
		IsBundle:       l.isBundle,
		Modifiers:      modifiersToData(l.modifiers),
		Components:     componentsToData(l.components),
		Status:         l.status,
		StatusName:     l.status.String(),
		EverSent:       l.everSent,
		HoldReason:     l.holdReason,
		SentBy:         l.sentBy,
		SentAt:         l.sentAt,
		VoidedBy:       l.voidedBy,
		VoidReason:     l.voidReason,
		VoidedAt:       l.voidedAt,
		AddedBy:        l.addedBy,
		AddedAt:        l.addedAt,
		Total:          l.total,
		DiscountAmount: l.discountAmount,
		TaxAmount:      l.taxAmount,
	}
}

func lineFromData(d LineData) *Line {
	return &Line{
		id:            d.LineID,
		menuItemID:    d.MenuItemID,
		name:          d.Name,
		quantity:      d.Quantity,
		unitPrice:     d.UnitPrice,
		priceOverride: d.PriceOverride,
		taxRate:       d.TaxRate,
		notes:         d.Notes,
		seat:          d.Seat,
		course:        d.Course,
		isBundle:      d.IsBundle,
		modifiers:     modifiersFromData(d.Modifiers),
		components:    componentsFromData(d.Components),
		status:        d.Status,
		everSent:      d.EverSent,
		holdReason:    d.HoldReason,
		sentBy:        d.SentBy,
		sentAt:        d.SentAt,
		voidedBy:      d.VoidedBy,
		voidReason:    d.VoidReason,
		voidedAt:      d.VoidedAt,
		addedBy:       d.AddedBy,
		addedAt:       d.AddedAt,
	}
}

func modifiersToData(mods []Modifier) []ModifierData {
	if len(mods) == 0 {
		return nil
	}
	out := make([]ModifierData, 0, len(mods))
	for _, m := range mods {
		out = append(out, ModifierData{Name: m.name, Price: m.price, Quantity: m.quantity})
	}
	return out
}

func modifiersFromData(data []ModifierData) []Modifier {
	if len(data) == 0 {
		return nil
	}
	out := make([]Modifier, 0, len(data))
	for _, d := range data {
		out = append(out, Modifier{name: d.Name, price: d.Price, quantity: d.Quantity})
	}
	return out
}

func componentsToData(comps []BundleComponent) []BundleComponentData {
	if len(comps) == 0 {
		return nil
	}
	out := make([]BundleComponentData, 0, len(comps))
	for _, c := range comps {
		out = append(out, BundleComponentData{MenuItemID: c.menuItemID, Name: c.name, Quantity: c.quantity})
	}
	return out
}

func componentsFromData(data []BundleComponentData) []BundleComponent {
	if len(data) == 0 {
		return nil
	}
	out := make([]BundleComponent, 0, len(data))
	for _, d := range data {
		out = append(out, BundleComponent{menuItemID: d.MenuItemID, name: d.Name, quantity: d.Quantity})
	}
	return out
}

func discountToData(d *Discount) DiscountData {
	return DiscountData{
		DiscountID: d.id,
		LineID:     d.lineID,
		Kind:       d.kind,
		KindName:   d.kind.String(),
		Value:      d.value,
		Amount:     d.amount,
		ApproverID: d.approverID,
		Reason:     d.reason,
		AppliedBy:  d.appliedBy,
		AppliedAt:  d.appliedAt,
	}
}

func chargeToData(c *ServiceCharge) ServiceChargeData {
	return ServiceChargeData{
		ChargeID: c.id,
		Name:     c.name,
		Rate:     c.rate,
		Amount:   c.amount,
		Taxable:  c.taxable,
		AddedBy:  c.addedBy,
		AddedAt:  c.addedAt,
	}
}

func paymentToData(p *Payment) PaymentData {
	return PaymentData{
		PaymentID:  p.id,
		Amount:     p.amount,
		Tip:        p.tip,
		Method:     p.method,
		RecordedBy: p.recordedBy,
		RecordedAt: p.recordedAt,
	}
}

func discountFromData(d DiscountData) *Discount {
	return &Discount{
		id:         d.DiscountID,
		lineID:     d.LineID,
		kind:       d.Kind,
		value:      d.Value,
		approverID: d.ApproverID,
		reason:     d.Reason,
		appliedBy:  d.AppliedBy,
		appliedAt:  d.AppliedAt,
	}
}

func chargeFromData(d ServiceChargeData) *ServiceCharge {
	return &ServiceCharge{
		id:      d.ChargeID,
		name:    d.Name,
		rate:    d.Rate,
		taxable: d.Taxable,
		addedBy: d.AddedBy,
		addedAt: d.AddedAt,
	}
}

func paymentFromData(d PaymentData) *Payment {
	return &Payment{
		id:         d.PaymentID,
		amount:     d.Amount,
		tip:        d.Tip,
		method:     d.Method,
		recordedBy: d.RecordedBy,
		recordedAt: d.RecordedAt,
	}
}

// Snapshot materializes the order's full derived state. The result is a
// plain data view safe to serialize and hand across aggregate boundaries.
func (o *Order) Snapshot() Snapshot {
	lines := make([]LineData, 0, len(o.lines))
	for _, l := range o.lines {
		lines = append(lines, lineToData(l))
	}

	var discounts []DiscountData
	for _, d := range o.discounts {
		discounts = append(discounts, discountToData(d))
	}

	var charges []ServiceChargeData
	for _, c := range o.charges {
		charges = append(charges, chargeToData(c))
	}

	var payments []PaymentData
	for _, p := range o.payments {
		payments = append(payments, paymentToData(p))
	}

	var splitRefs []SplitReferenceData
	for _, r := range o.splitRefs {
		splitRefs = append(splitRefs, SplitReferenceData{
			ChildOrderID: r.childOrderID,
			ChildNumber:  r.childNumber,
			LineIDs:      r.lineIDs,
			SplitBy:      r.splitBy,
			SplitAt:      r.splitAt,
		})
	}

	return Snapshot{
		OrderID:       o.ID(),
		OrgID:         o.address.OrgID(),
		SiteID:        o.address.SiteID(),
		Number:        o.number,
		Status:        o.status,
		StatusName:    o.status.String(),
		OrderType:     o.orderType,
		TableID:       o.tableID,
		GuestCount:    o.guestCount,
		ServerID:      o.serverID,
		CustomerID:    o.customerID,
		Lines:         lines,
		Discounts:     discounts,
		Charges:       charges,
		Payments:      payments,
		SplitRefs:     splitRefs,
		ParentOrderID: o.parentOrderID,
		MergedIntoID:  o.mergedIntoID,
		Totals: TotalsData{
			Subtotal:           o.totals.Subtotal,
			DiscountTotal:      o.totals.DiscountTotal,
			ServiceChargeTotal: o.totals.ServiceChargeTotal,
			TaxTotal:           o.totals.TaxTotal,
			GrandTotal:         o.totals.GrandTotal,
			PaidAmount:         o.totals.PaidAmount,
			TipTotal:           o.totals.TipTotal,
			BalanceDue:         o.totals.BalanceDue,
		},
		Version:   o.version,
		CreatedBy: o.createdBy,
		CreatedAt: o.createdAt,
		ClosedAt:  o.closedAt,
		VoidedAt:  o.voidedAt,
	}
}
