// Package engine provides the core puzzle logic for Parking Panic.
//
// The engine package implements the sliding-block mechanics including:
//   - Grid occupancy with atomic place/clear operations
//   - Move validation and application along vehicle axes
//   - Win detection for the target vehicle at the exit
//   - Step counting, move history and undo
//   - Level definition loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for puzzle operations,
// implemented by GameEngine. GameState represents one play-through of one
// level, while LevelConfig defines the lot layout loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("tutorial")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide a vehicle
//	result, err := gameEngine.AttemptMove("B", engine.Down, 1)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Vehicles occupy 2+ contiguous cells and slide only along their own axis,
// never through other vehicles or past the lot boundary. Each committed
// slide counts as one step regardless of distance. The puzzle is solved when
// the target vehicle reaches the exit cell on the boundary.
//
// The engine is pure and single-threaded: every operation runs to completion
// and reports its outcome as a return value. Failed moves mutate nothing.
package engine
