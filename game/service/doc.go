// Package service provides the business logic layer for the Parking Panic
// puzzle server.
//
// The service package implements:
//   - Multi-session game management
//   - Level definition loading and listing
//   - Move processing with rule feedback
//   - Bulk move execution with per-step traces
//   - Undo and reset handling
//   - Move history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelManager manages level definition loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the puzzle engine, providing session isolation, level management, and
// business logic orchestration. Each session maintains its own engine
// instance with independent state. Rule violations (a blocked slide, a move
// off the grid, a cross-axis request) come back as unsuccessful MoveResults
// carrying the level's feedback messages; Go errors are reserved for missing
// sessions and infrastructure failures.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, levelMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "beginner")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide a vehicle
//	result, err := gameService.Move(ctx, sessionInfo.ID, service.MoveRequest{
//		Vehicle: "B", Direction: "down", Distance: 1,
//	})
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// game state. Multiple sessions can run concurrently on different levels.
// Sessions track creation time, last access time, and move history for
// analytics and debugging.
package service
