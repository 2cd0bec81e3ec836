// Package connection implements the realtime WebSocket transport.
//
// The transport:
//   - Dials the backend's Phoenix realtime endpoint with gorilla/websocket
//   - Sends Phoenix heartbeats on the "phoenix" topic
//   - Reports a stale connection when nothing arrives within the ping timeout
//   - Joins channels and waits for the matching phx_reply
//
// It does not reconnect; package feed owns the retry policy.
package connection
