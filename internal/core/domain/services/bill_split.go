package services

import (
	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// BillSplitter is a domain service computing payment splits over an order's
// outstanding balance. It is pure arithmetic over the balance: no order
// state changes until the computed shares come back as recorded payments.
//
// Key responsibilities:
//   - Splitting a balance evenly across a party
//   - Validating caller-chosen amounts against the balance
//
// Business rules:
//   - The shares of every split sum to the balance exactly, to the cent
//   - Leftover cents of an even split go to the first share
type BillSplitter struct{}

// NewBillSplitter creates a BillSplitter domain service.
func NewBillSplitter() *BillSplitter {
	return &BillSplitter{}
}

// EvenSplit is the result of splitting a balance across a number of people.
type EvenSplit struct {
	People int
	Shares []kernel.Money
}

// AmountSplit is the result of validating caller-chosen split amounts.
// IsValid reports whether the amounts settle the balance exactly; when it
// is false, Difference carries the shortfall (positive) or excess (negative).
type AmountSplit struct {
	Amounts    []kernel.Money
	Total      kernel.Money
	IsValid    bool
	Difference kernel.Money
}

// CalculateSplitByPeople splits a balance due into the given number of equal
// shares. Cents that do not divide evenly land on the first share, so the
// shares always sum to the balance exactly.
func (s *BillSplitter) CalculateSplitByPeople(balanceDue kernel.Money, people int) (EvenSplit, error) {
	if people < 1 {
		return EvenSplit{}, errs.NewValueIsOutOfRangeError("people", people, 1, maxSplitPeople)
	}
	if people > maxSplitPeople {
		return EvenSplit{}, errs.NewValueIsOutOfRangeError("people", people, 1, maxSplitPeople)
	}
	if !balanceDue.IsPositive() {
		return EvenSplit{}, errs.NewValueIsInvalidError("balance due")
	}

	base := balanceDue.Cents() / int64(people)
	remainder := balanceDue.Cents() % int64(people)

	shares := make([]kernel.Money, people)
	for i := range shares {
		shares[i] = kernel.NewMoneyFromCents(base)
	}
	shares[0] = shares[0].Add(kernel.NewMoneyFromCents(remainder))

	return EvenSplit{People: people, Shares: shares}, nil
}

// CalculateSplitByAmounts validates caller-chosen amounts against a balance
// due. The split is valid only when the balance is positive, every amount
// is positive, and the amounts sum to the balance exactly; an empty amount
// list never validates. Mismatches report through IsValid and Difference
// rather than an error, so a till can show the shortfall and keep going.
func (s *BillSplitter) CalculateSplitByAmounts(balanceDue kernel.Money, amounts []kernel.Money) AmountSplit {
	var total kernel.Money
	allPositive := true
	for _, amount := range amounts {
		if !amount.IsPositive() {
			allPositive = false
		}
		total = total.Add(amount)
	}

	return AmountSplit{
		Amounts:    amounts,
		Total:      total,
		IsValid:    balanceDue.IsPositive() && allPositive && len(amounts) > 0 && total == balanceDue,
		Difference: balanceDue.Sub(total),
	}
}

const maxSplitPeople = 50
