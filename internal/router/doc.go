// Package router turns realtime frames into board events.
//
// Routing rules for frames on the joined topic:
//   - postgres_changes INSERT / UPDATE -> model.InsertEvent / model.UpdateEvent
//   - phx_error, phx_close, system with status "error" -> model.DisconnectEvent
//   - replies, heartbeats, DELETE changes and other topics are skipped
//
// Rows are validated here so malformed records never reach a board.
package router
