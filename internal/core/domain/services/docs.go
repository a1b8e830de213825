// Package services provides domain services that operate over the order
// aggregate without belonging to it. It implements business computations
// whose inputs and outputs cross the aggregate boundary.
//
// The package includes:
//   - BillSplitter: A domain service computing even and amount-based payment
//     splits over an order's outstanding balance
//
// Domain services stay pure: they never mutate aggregates, they only compute
// results that come back to the aggregate as commands.
package services
