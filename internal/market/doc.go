// Package market owns the market board: the active listing list and the
// feed lifecycle that keeps it current.
//
// The board:
//   - Seeds from a snapshot, newest first, capped at 12
//   - Prepends realtime inserts and evicts the oldest
//   - Replaces updated listings in place
//   - Keeps the last-known-good list (or demo listings) when a fetch fails
//   - Exposes Resume once the realtime channel has stalled
package market
