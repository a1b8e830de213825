// Package order provides the event-sourced Order aggregate for the point of
// sale. It covers the full order lifecycle: lines and modifiers, discounts
// and price overrides, service charges, payments, hold/fire coursing, bill
// splitting and merging, and closure.
//
// The package includes:
//   - Order: The aggregate root; command methods derive events, Apply folds them
//   - Event: The closed set of replayable order events and their JSON codec
//   - Status / LineStatus: State machines enforcing valid transitions
//   - Totals: Derived monetary figures, recomputed from scratch after every event
//   - Snapshot: A materialized read view, also the merge handover payload
//
// Key business rules:
//   - GrandTotal = Subtotal - DiscountTotal + ServiceChargeTotal + TaxTotal
//   - Replaying the same event log always reproduces identical state
//   - Voided lines are excluded from totals and cannot transition further
//   - Closing requires a fully settled balance
//   - Splits and merges conserve money across the two orders involved
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
