package order

import (
	"pos/internal/core/domain/model/kernel"
)

// Totals holds the derived monetary state of an order. Totals are always
// recomputed from scratch out of the current line, discount, charge, and
// payment state; nothing is incrementally adjusted, so replaying the same
// events always produces the same figures.
//
// Invariants:
//
//	GrandTotal = Subtotal - DiscountTotal + ServiceChargeTotal + TaxTotal
//	BalanceDue = GrandTotal - PaidAmount
type Totals struct {
	Subtotal           kernel.Money
	DiscountTotal      kernel.Money
	ServiceChargeTotal kernel.Money
	TaxTotal           kernel.Money
	GrandTotal         kernel.Money
	PaidAmount         kernel.Money
	TipTotal           kernel.Money
	BalanceDue         kernel.Money
}

// calculateTotals recomputes every derived monetary figure and writes the
// per-entity computed amounts (line total, line discount, line tax,
// discount amount, charge amount) back onto the entities.
//
// Tax policy: each line's tax is its at-add-time rate applied to the line's
// net amount (gross minus line-scoped discounts). Order-level discounts do
// not reduce tax. Taxable service charges are taxed at the weighted-average
// line tax rate:
//
//	serviceChargeTax = taxableChargeAmount x (sum(lineTotal_i x taxRate_i) / subtotal) / 100
//
// The single blended rate is a deliberate policy choice; downstream totals
// depend on this exact formula.
func calculateTotals(
	lines []*Line,
	discounts []*Discount,
	charges []*ServiceCharge,
	payments []*Payment,
) Totals {
	zero := kernel.NewMoneyFromCents(0)

	subtotal := zero
	lineDiscountTotal := zero
	lineTaxTotal := zero
	weightedTaxSum := 0.0

	for _, line := range lines {
		if line.IsVoided() {
			line.total = zero
			line.discountAmount = zero
			line.taxAmount = zero
			continue
		}

		gross := line.grossTotal()
		line.total = gross

		lineDiscount := zero
		remaining := gross
		for _, d := range discounts {
			if d.lineID == nil || !d.lineID.IsEqual(line.id) {
				continue
			}
			amount := d.compute(gross, remaining)
			d.amount = amount
			remaining = remaining.Sub(amount)
			lineDiscount = lineDiscount.Add(amount)
		}
		line.discountAmount = lineDiscount

		net := gross.Sub(lineDiscount)
		line.taxAmount = net.Percent(line.taxRate)

		subtotal = subtotal.Add(gross)
		lineDiscountTotal = lineDiscountTotal.Add(lineDiscount)
		lineTaxTotal = lineTaxTotal.Add(line.taxAmount)
		weightedTaxSum += float64(gross.Cents()) * line.taxRate
	}

	orderDiscountTotal := zero
	remaining := subtotal.Sub(lineDiscountTotal)
	for _, d := range discounts {
		if d.lineID != nil {
			continue
		}
		amount := d.compute(subtotal, remaining)
		d.amount = amount
		remaining = remaining.Sub(amount)
		orderDiscountTotal = orderDiscountTotal.Add(amount)
	}

	chargeTotal := zero
	taxableChargeTotal := zero
	for _, c := range charges {
		c.amount = subtotal.Percent(c.rate)
		chargeTotal = chargeTotal.Add(c.amount)
		if c.taxable {
			taxableChargeTotal = taxableChargeTotal.Add(c.amount)
		}
	}

	chargeTax := zero
	if taxableChargeTotal.IsPositive() && subtotal.IsPositive() {
		blendedRate := weightedTaxSum / float64(subtotal.Cents())
		chargeTax = taxableChargeTotal.Percent(blendedRate)
	}

	paid := zero
	tips := zero
	for _, p := range payments {
		paid = paid.Add(p.amount)
		tips = tips.Add(p.tip)
	}

	discountTotal := lineDiscountTotal.Add(orderDiscountTotal)
	taxTotal := lineTaxTotal.Add(chargeTax)
	grandTotal := subtotal.Sub(discountTotal).Add(chargeTotal).Add(taxTotal)

	return Totals{
		Subtotal:           subtotal,
		DiscountTotal:      discountTotal,
		ServiceChargeTotal: chargeTotal,
		TaxTotal:           taxTotal,
		GrandTotal:         grandTotal,
		PaidAmount:         paid,
		TipTotal:           tips,
		BalanceDue:         grandTotal.Sub(paid),
	}
}
