// Package mcp provides Model Context Protocol server implementation for the Parking Panic game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Session-aware command execution
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - get_state: Get current game state with board visualization
//   - move_vehicle: Slide one vehicle along its axis
//   - bulk_move: Execute multiple slides in sequence
//   - undo_move: Roll back the most recent slide
//   - reset_session: Restore the starting layout
//   - get_history: Retrieve move history with pagination
//   - get_hint: Blocker analysis for the target's escape path
//   - create_session: Create new game session with level selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_levels: List available levels
//   - game_instructions: Full rules and agent strategy notes
//   - describe_cell: Inspect a single board cell
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: Streamable HTTP endpoint mounted on the main server
//
// Architecture:
//
// The MCP layer holds no game state. Every tool call is proxied to the
// REST API, so agents and browser clients always observe the same
// sessions. Board analysis helpers (hints, cell descriptions, mobility
// ranges) are computed client-side from the fetched state.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	srv := client.GetMCPServer()
//
//	// Stdio mode
//	server.ServeStdio(srv)
//
//	// HTTP mode
//	httpServer := server.NewStreamableHTTPServer(srv)
//	mux.Handle("/mcp", httpServer)
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously solve sliding puzzles
//   - Develop and test strategies
//   - Analyze blocker chains and plan slide sequences
//   - Manage multiple game sessions
//   - Learn from move history
package mcp
