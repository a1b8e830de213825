// Package actor hosts the runtime model of the order aggregate: one
// goroutine and mailbox per live order, so every command runs as a
// serialized turn against in-memory state that is the replay of the
// order's event log.
//
// The package includes:
//   - Handle: The single writer for one order; exposes the command API
//   - Registry: Address-keyed handle ownership, lazy activation by replay,
//     idle eviction, and the split/merge choreographies across two handles
//
// Key properties:
//   - Commands on one order never interleave; cross-order commands run freely
//   - A handle that fails to persist reloads from the log, never runs ahead
//   - Eviction is invisible to callers; the next acquire replays the order
package actor
