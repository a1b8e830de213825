package order

import (
	"errors"
	"fmt"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// Splitting and merging are two-aggregate choreographies coordinated outside
// the aggregate, one event per side:
//
//	split: parent.PrepareSplit -> child.CreateFromSplit -> parent.RecordSplit
//	merge: source.Snapshot     -> target.AbsorbOrder    -> source.MarkAsMerged
//
// The child/target side is committed first. If the second append fails the
// moved lines exist twice until the parent/source side is retried, which is
// safe: the parent retry voids the same line set and the source retry only
// flips a status. Money is conserved on every completed choreography.

// PrepareSplit validates a split selection and returns deep copies of the
// listed lines, ready to seed a child order. The copies keep their line
// identities and dispatch state. The parent is not changed; RecordSplit
// does that once the child exists.
func (o *Order) PrepareSplit(lineIDs []kernel.UUID) ([]LineData, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := validateLineIDList(lineIDs); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(lineIDs))
	moved := make([]LineData, 0, len(lineIDs))
	for _, lineID := range lineIDs {
		if seen[lineID.String()] {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"line ids", fmt.Errorf("line %s is listed twice", lineID))
		}
		seen[lineID.String()] = true

		line, err := o.findLine(lineID)
		if err != nil {
			return nil, err
		}
		if line.IsVoided() {
			return nil, errs.NewInvalidStateErrorWithCause(
				"line", fmt.Errorf("line %s is voided and cannot move", lineID))
		}
		moved = append(moved, lineToData(line))
	}

	remaining := 0
	for _, line := range o.lines {
		if !line.IsVoided() && !seen[line.ID().String()] {
			remaining++
		}
	}
	if remaining == 0 {
		return nil, errs.NewInvalidStateErrorWithCause(
			"order", errors.New("a split must leave at least one line on the source order"))
	}

	return moved, nil
}

// CreateFromSplitParams carries the arguments of the CreateFromSplit command.
type CreateFromSplitParams struct {
	Number        string
	OrderType     Type
	GuestCount    int
	ParentOrderID kernel.UUID
	ParentNumber  string
	Lines         []LineData
	SplitBy       kernel.UUID
}

// CreateFromSplit initializes a child order seeded with the line copies
// carved off its parent. Fails with AlreadyExists when the identity has
// already been initialized, which is what makes split retries safe on the
// child side.
func (o *Order) CreateFromSplit(p CreateFromSplitParams) (*OrderCreatedFromSplit, error) {
	if o.created {
		return nil, errs.NewObjectAlreadyExistsError("order", o.ID().String())
	}

	if err := errors.Join(
		validateRequiredString("order number", p.Number),
		p.OrderType.Validate(),
		validateNonNegativeInt("guest count", p.GuestCount),
		validateActor("parent order", p.ParentOrderID),
		validateRequiredString("parent number", p.ParentNumber),
		validateActor("split by", p.SplitBy),
	); err != nil {
		return nil, err
	}

	if len(p.Lines) == 0 {
		return nil, errs.NewValueIsRequiredError("lines")
	}
	if p.ParentOrderID.IsEqual(o.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"parent order", errors.New("an order cannot be split into itself"))
	}

	return &OrderCreatedFromSplit{
		OrderID:       o.ID(),
		OrgID:         o.address.OrgID(),
		SiteID:        o.address.SiteID(),
		Number:        p.Number,
		OrderType:     p.OrderType,
		GuestCount:    p.GuestCount,
		ParentOrderID: p.ParentOrderID,
		ParentNumber:  p.ParentNumber,
		Lines:         p.Lines,
		SplitBy:       p.SplitBy,
		SplitAt:       time.Now().UTC(),
	}, nil
}

// RecordSplit finishes a split on the parent side once the child order
// exists: the moved lines are voided as moved and the lineage is recorded.
// Retrying after a crash is detectable because the already voided lines
// fail PrepareSplit with InvalidState.
func (o *Order) RecordSplit(childOrderID kernel.UUID, childNumber string, lineIDs []kernel.UUID, splitBy kernel.UUID) (*LinesSplitToOrder, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateActor("child order", childOrderID),
		validateRequiredString("child number", childNumber),
		validateLineIDList(lineIDs),
		validateActor("split by", splitBy),
	); err != nil {
		return nil, err
	}

	if childOrderID.IsEqual(o.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"child order", errors.New("an order cannot be split into itself"))
	}

	for _, lineID := range lineIDs {
		line, err := o.findLine(lineID)
		if err != nil {
			return nil, err
		}
		if line.IsVoided() {
			return nil, errs.NewInvalidStateErrorWithCause(
				"line", fmt.Errorf("line %s is already voided", lineID))
		}
	}

	return &LinesSplitToOrder{
		ChildOrderID: childOrderID,
		ChildNumber:  childNumber,
		LineIDs:      lineIDs,
		SplitBy:      splitBy,
		SplitAt:      time.Now().UTC(),
	}, nil
}

// AbsorbOrder merges a source order's contents into this order. The source
// is handed over as a snapshot taken inside the source actor's turn; voided
// source lines stay behind. The source must still be in service and must
// not be this order.
func (o *Order) AbsorbOrder(source Snapshot, mergedBy kernel.UUID) (*OrderMergedFrom, error) {
	if err := o.requireMutable(); err != nil {
		return nil, err
	}
	if err := validateActor("merged by", mergedBy); err != nil {
		return nil, err
	}

	if source.OrderID.IsEqual(o.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"source order", errors.New("an order cannot be merged into itself"))
	}
	if !source.Status.IsOpenish() {
		return nil, errs.NewInvalidStateErrorWithCause(
			"source order", fmt.Errorf("order %s is %s", source.Number, source.Status))
	}

	var lines []LineData
	for _, line := range source.Lines {
		if line.Status == LineStatusVoided {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, errs.NewInvalidStateErrorWithCause(
			"source order", errors.New("order has no live lines to merge"))
	}

	return &OrderMergedFrom{
		SourceOrderID: source.OrderID,
		SourceNumber:  source.Number,
		Lines:         lines,
		Discounts:     source.Discounts,
		Charges:       source.Charges,
		Payments:      source.Payments,
		MergedBy:      mergedBy,
		MergedAt:      time.Now().UTC(),
	}, nil
}

// MarkAsMerged finishes a merge on the source side once the target has
// absorbed its contents. Terminal: a merged order only answers reads.
func (o *Order) MarkAsMerged(targetOrderID kernel.UUID, targetNumber string, mergedBy kernel.UUID) (*OrderMarkedMerged, error) {
	if err := o.requireCreated(); err != nil {
		return nil, err
	}

	if err := errors.Join(
		validateActor("target order", targetOrderID),
		validateRequiredString("target number", targetNumber),
		validateActor("merged by", mergedBy),
	); err != nil {
		return nil, err
	}

	if targetOrderID.IsEqual(o.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"target order", errors.New("an order cannot be merged into itself"))
	}

	if _, err := o.status.MarkMerged(); err != nil {
		return nil, err
	}

	return &OrderMarkedMerged{
		TargetOrderID: targetOrderID,
		TargetNumber:  targetNumber,
		MergedBy:      mergedBy,
		MergedAt:      time.Now().UTC(),
	}, nil
}
