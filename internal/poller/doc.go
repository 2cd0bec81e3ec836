// Package poller refreshes the board snapshot on a cron schedule.
//
// The poller:
//   - Runs one refresh immediately on start
//   - Then follows a cron spec (default "@every 5m")
//   - Skips a tick while the previous refresh is still running
package poller
