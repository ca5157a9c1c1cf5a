// Package api provides HTTP REST API handlers for the Parking Panic game.
//
// The api package implements:
//   - RESTful endpoints for sliding vehicles and running sessions
//   - Session management endpoints
//   - Level listing, loading, and authoring
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (optional level_id in body)
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/unified - Combined view for dashboards and bots
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/move - Slide one vehicle
//   - POST /api/sessions/{id}/bulk-move - Slide a whole sequence, stopping at the first rejection
//   - POST /api/sessions/{id}/undo - Roll back the most recent slide
//   - POST /api/sessions/{id}/reset - Restore the starting layout
//   - GET /api/sessions/{id}/history - Get move history with pagination
//
// Levels:
//   - GET /api/levels - List available levels
//   - GET /api/levels/{name} - Get one level definition
//   - POST /api/levels - Save a new level definition
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Moves are sent as POST with
// JSON body:
//
//	{
//	  "vehicle": "A",
//	  "direction": "up|down|left|right",
//	  "distance": 2 // optional, defaults to 1
//	}
//
// Bulk moves wrap a sequence:
//
//	{
//	  "moves": [
//	    {"vehicle": "B", "direction": "down"},
//	    {"vehicle": "A", "direction": "right", "distance": 4}
//	  ]
//	}
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// A slide the rules reject is NOT an HTTP error: the handler returns
// 200 with success=false and an attempted block naming the reason.
// HTTP error codes are reserved for infrastructure failures:
//
//	{
//	  "error": "session not found",
//	  "code": 404
//	}
package api

//
// Enriched Responses (Move and Bulk Move)
//
// Move (POST /api/sessions/{id}/move)
//   Response:
//     - step: { vehicle, dir, distance, from{row,col}, to{row,col}, step_count, success, solved? }
//     - attempted: { vehicle, dir, distance, reason, blocker?, pos? } // present when rejected
//     - game_state additions:
//         board: ["AA.B..", ...] // one string per row, '.' for empty cells
//         message: level-specific feedback text
//
// Bulk Move (POST /api/sessions/{id}/bulk-move)
//   Response:
//     - requested_moves, moves_executed
//     - stopped_reason (text), stop_reason_code (enum), stopped_on_move (1-based), truncated, limit
//     - steps: [{ idx, vehicle, dir, distance, from, to, step_count, success, solved? }]
//     - attempted: first rejected slide with reason and blocker
//     - start_steps, end_steps, solved
//     - blockers: vehicles currently pinning the target in place
