package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateLevelConfig validates a level definition for structural correctness.
// Every violation is reported as a malformed-level error carrying the reason.
func ValidateLevelConfig(config *LevelConfig) error {
	if config == nil {
		return &MalformedLevelError{Reason: "level config is nil"}
	}
	if config.Name == "" {
		return &MalformedLevelError{Reason: "name is required"}
	}
	if config.Description == "" {
		return &MalformedLevelError{Reason: "description is required"}
	}

	if config.Rows < MinGridDim || config.Rows > MaxGridDim {
		return &MalformedLevelError{Reason: fmt.Sprintf("rows must be between %d and %d, got %d", MinGridDim, MaxGridDim, config.Rows)}
	}
	if config.Cols < MinGridDim || config.Cols > MaxGridDim {
		return &MalformedLevelError{Reason: fmt.Sprintf("cols must be between %d and %d, got %d", MinGridDim, MaxGridDim, config.Cols)}
	}

	if len(config.Vehicles) == 0 {
		return &MalformedLevelError{Reason: "at least one vehicle is required"}
	}

	seen := make(map[VehicleID]bool)
	var target *Vehicle
	targetCount := 0

	vehicles := make([]*Vehicle, 0, len(config.Vehicles))
	for i, spec := range config.Vehicles {
		if spec.ID == "" {
			return &MalformedLevelError{Reason: fmt.Sprintf("vehicle %d: id is required", i)}
		}
		id := VehicleID(spec.ID)
		if seen[id] {
			return &MalformedLevelError{Reason: fmt.Sprintf("duplicate vehicle id %q", spec.ID)}
		}
		seen[id] = true

		orientation, err := ParseOrientation(spec.Orientation)
		if err != nil {
			return &MalformedLevelError{Reason: fmt.Sprintf("vehicle %s: %v", spec.ID, err)}
		}
		if spec.Length < MinVehicleLength {
			return &MalformedLevelError{Reason: fmt.Sprintf("vehicle %s: length must be at least %d, got %d", spec.ID, MinVehicleLength, spec.Length)}
		}

		v := &Vehicle{
			ID:          id,
			Orientation: orientation,
			Length:      spec.Length,
			Anchor:      Position{Row: spec.Row, Col: spec.Col},
			Target:      spec.Target,
		}
		for _, pos := range v.Cells() {
			if pos.Row < 0 || pos.Row >= config.Rows || pos.Col < 0 || pos.Col >= config.Cols {
				return &MalformedLevelError{Reason: fmt.Sprintf("vehicle %s: cell (%d,%d) is outside the %dx%d grid", spec.ID, pos.Row, pos.Col, config.Rows, config.Cols)}
			}
		}

		if spec.Target {
			targetCount++
			target = v
		}
		vehicles = append(vehicles, v)
	}

	if targetCount != 1 {
		return &MalformedLevelError{Reason: fmt.Sprintf("exactly one vehicle must be the target, got %d", targetCount)}
	}

	// Overlap check against a scratch grid
	scratch := NewGrid(config.Rows, config.Cols)
	for _, v := range vehicles {
		if err := scratch.Place(v); err != nil {
			var overlap *OverlapError
			if errors.As(err, &overlap) {
				return &MalformedLevelError{Reason: fmt.Sprintf("vehicles %s and %s overlap at (%d,%d)", overlap.Occupant, overlap.Vehicle, overlap.Pos.Row, overlap.Pos.Col)}
			}
			return &MalformedLevelError{Reason: err.Error()}
		}
	}

	// The exit must be a boundary cell the target can actually face: same row
	// on the left/right edge for a horizontal target, same column on the
	// top/bottom edge for a vertical one. A horizontal vehicle never leaves
	// its row, so anything else is structurally unreachable.
	exit := Position{Row: config.Exit.Row, Col: config.Exit.Col}
	if exit.Row < 0 || exit.Row >= config.Rows || exit.Col < 0 || exit.Col >= config.Cols {
		return &MalformedLevelError{Reason: fmt.Sprintf("exit (%d,%d) is outside the %dx%d grid", exit.Row, exit.Col, config.Rows, config.Cols)}
	}
	if target.Orientation == Horizontal {
		if exit.Col != 0 && exit.Col != config.Cols-1 {
			return &MalformedLevelError{Reason: fmt.Sprintf("exit (%d,%d) must sit on the left or right edge for a horizontal target", exit.Row, exit.Col)}
		}
		if exit.Row != target.Anchor.Row {
			return &MalformedLevelError{Reason: fmt.Sprintf("exit row %d does not match target vehicle row %d", exit.Row, target.Anchor.Row)}
		}
	} else {
		if exit.Row != 0 && exit.Row != config.Rows-1 {
			return &MalformedLevelError{Reason: fmt.Sprintf("exit (%d,%d) must sit on the top or bottom edge for a vertical target", exit.Row, exit.Col)}
		}
		if exit.Col != target.Anchor.Col {
			return &MalformedLevelError{Reason: fmt.Sprintf("exit col %d does not match target vehicle col %d", exit.Col, target.Anchor.Col)}
		}
	}

	if config.Messages.Welcome == "" {
		return &MalformedLevelError{Reason: "messages.welcome is required"}
	}
	if config.Messages.Solved == "" {
		return &MalformedLevelError{Reason: "messages.solved is required"}
	}
	if !strings.Contains(config.Messages.Solved, "%d") {
		return &MalformedLevelError{Reason: "messages.solved must contain %d for the step count"}
	}

	return nil
}

// LoadLevelConfig loads a level definition from a JSON file
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	// Support CONFIG_DIR environment variable for alternative level directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a level definition by name from the configs directory
func LoadConfigByName(configName string) (*LevelConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("level file '%s' not found", configName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file '%s': %v", configName, err)
	}

	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse level file '%s': %v", configName, err)
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid level '%s': %v", configName, err)
	}

	return &config, nil
}

// DefaultLevelConfig returns the built-in tutorial level: a 6x6 lot with the
// target car two slides from the exit
func DefaultLevelConfig() *LevelConfig {
	config := &LevelConfig{
		Name:        "tutorial",
		Description: "Two cars, two moves: slide the truck aside and drive out.",
		Rows:        6,
		Cols:        6,
		Exit:        ExitSpec{Row: 2, Col: 5},
		Vehicles: []VehicleSpec{
			{ID: "A", Orientation: "horizontal", Length: 2, Row: 2, Col: 0, Target: true},
			{ID: "B", Orientation: "vertical", Length: 2, Row: 2, Col: 3},
		},
	}
	config.Messages.Welcome = "Welcome to the lot! Clear a path for car A."
	config.Messages.Moved = "Nice slide."
	config.Messages.Blocked = "That car is boxed in."
	config.Messages.OutOfBounds = "That slide leaves the lot."
	config.Messages.WrongAxis = "Cars only slide along their own axis."
	config.Messages.Solved = "Car A is free! Solved in %d steps."
	config.Messages.AlreadySolved = "Already solved. Reset to play again."
	config.Messages.Undone = "Rolled back."
	config.Messages.NothingToUndo = "No moves to undo."
	config.Messages.Reset = "Lot restored. Step counter zeroed."
	return config
}

// InitGameStateFromConfig creates a fresh game state from a validated level
// definition. A nil config falls back to the built-in tutorial level.
func InitGameStateFromConfig(config *LevelConfig) (*GameState, error) {
	if config == nil {
		config = DefaultLevelConfig()
	}

	vehicles := make([]*Vehicle, 0, len(config.Vehicles))
	for _, spec := range config.Vehicles {
		orientation, err := ParseOrientation(spec.Orientation)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, &Vehicle{
			ID:          VehicleID(spec.ID),
			Orientation: orientation,
			Length:      spec.Length,
			Anchor:      Position{Row: spec.Row, Col: spec.Col},
			Target:      spec.Target,
		})
	}

	grid := NewGrid(config.Rows, config.Cols)
	for _, v := range vehicles {
		if err := grid.Place(v); err != nil {
			return nil, &MalformedLevelError{Reason: err.Error()}
		}
	}

	gs := &GameState{
		LevelName:    config.Name,
		Rows:         config.Rows,
		Cols:         config.Cols,
		Exit:         Position{Row: config.Exit.Row, Col: config.Exit.Col},
		Vehicles:     vehicles,
		Steps:        0,
		Message:      config.Messages.Welcome,
		MoveHistory:  []MoveRecord{},
		TotalMoves:   0,
		CurrentMoves: []MoveRecord{},
		grid:         grid,
	}
	gs.Solved = gs.evaluateSolved()
	gs.Board = grid.Render()
	return gs, nil
}

// RebuildGrid reconstructs the occupancy grid from the vehicle list, used
// after a persistence round-trip where only the exported fields survive
func (gs *GameState) RebuildGrid() error {
	if gs.Rows < MinGridDim || gs.Cols < MinGridDim {
		return &MalformedLevelError{Reason: fmt.Sprintf("state grid %dx%d is too small", gs.Rows, gs.Cols)}
	}
	grid := NewGrid(gs.Rows, gs.Cols)
	for _, v := range gs.Vehicles {
		if err := grid.Place(v); err != nil {
			return err
		}
	}
	gs.grid = grid
	gs.Board = grid.Render()
	return nil
}
