// Package websocket provides WebSocket transport for the Parking Panic game.
//
// The websocket package implements:
//   - Real-time state push to connected clients
//   - Session-aware WebSocket connections
//   - Automatic state broadcasting after every slide, undo, and reset
//   - Connection lifecycle management
//   - Keepalive via ping/pong
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine pair that manages reading, writing, and cleanup. The Run loop
// owns the session map; registration and broadcasts travel over channels.
//
// Message Protocol:
//
// Messages are JSON-encoded with the following structure:
//   - Outgoing: {session_id, event: "state_update", game_state: {...}}
//   - Incoming client messages are ignored; slides go through the REST API
//
// Session Integration:
//
// WebSocket connections are session-aware. Clients specify their session ID
// via query parameter (?session=abc1) when establishing the connection.
// State updates are broadcast only to clients watching the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// inside an HTTP handler, after validating the session
//	hub.ServeWS(w, r, sessionID)
//
// Connection Lifecycle:
//
// 1. Client connects with session ID
// 2. Connection registered with hub
// 3. Client receives a state update after every committed operation
// 4. Disconnection triggers cleanup; empty sessions are dropped
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive broadcasts
// simultaneously without blocking each other. A client that stops
// draining its queue is unregistered rather than stalling the hub.
package websocket
