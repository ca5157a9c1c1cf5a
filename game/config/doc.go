// Package config provides level management for the Parking Panic game.
//
// The config package handles:
//   - Loading level definitions from JSON files
//   - Level validation and verification
//   - Default level management
//   - Level discovery and listing
//
// Level Format:
//
// Levels are stored as JSON files in the configs directory.
// Each level defines:
//   - Grid dimensions (rows and cols)
//   - A vehicle roster (id, orientation, length, anchor, target flag)
//   - The exit cell the target vehicle must reach
//   - Game messages for various events
//
// Available Levels:
//
// The package ships with levels of increasing difficulty:
//   - tutorial: Two vehicles, two moves, teaches the slide mechanic
//   - beginner: A packed 6x6 lot with one clean five-move escape
//   - rush-half-hour: Nine vehicles that gridlock the whole board
//
// Usage:
//
//	manager := config.NewManager("configs")
//
//	// Load a specific level
//	level, err := manager.LoadLevel("beginner")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get the default level
//	defaultLevel := manager.GetDefault()
//
//	// List available levels
//	levels, err := manager.ListLevels()
//
// Validation:
//
// All levels are validated for:
//   - Grid dimensions within the supported range
//   - Vehicle geometry (length, bounds, no overlaps)
//   - Exactly one target vehicle
//   - Exit placement on the target's row or column edge
//   - Required message templates
package config
