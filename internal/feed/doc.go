// Package feed implements the market update feed client.
//
// The client:
//   - Fetches the latest snapshot (up to 12 rows, newest first) from a SnapshotSource
//   - Subscribes to realtime INSERT / UPDATE changes on the listings table
//   - Formats every rate for the selected display currency before delivery
//   - Rejoins after a disconnect, up to MaxRetries attempts RetryDelay apart
//
// Each Subscription runs a single goroutine that parses frames and invokes the
// callbacks in delivery order. Callbacks never run after Unsubscribe returns.
package feed
