package engine

import "fmt"

// Engine provides the main interface for puzzle operations. One engine owns
// one play-through of one level. The engine does no locking; callers that
// share an engine across goroutines serialize access themselves.
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsSolved() bool
	StepCount() int

	// Movement operations
	AttemptMove(id VehicleID, direction Direction, distance int) (*MoveResult, error)
	CanMove(id VehicleID, direction Direction, distance int) error
	Undo() (*MoveResult, error)

	// Rendering queries
	Occupant(row, col int) (VehicleID, error)
	Board() []string

	// Configuration
	GetConfig() *LevelConfig

	// History
	GetMoveHistory() []MoveRecord
	GetLastMove() *MoveRecord
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *LevelConfig
}

// NewEngine creates a new puzzle engine for the provided level definition
func NewEngine(config *LevelConfig) (*GameEngine, error) {
	if err := ValidateLevelConfig(config); err != nil {
		return nil, err
	}

	state, err := InitGameStateFromConfig(config)
	if err != nil {
		return nil, err
	}

	return &GameEngine{config: config, state: state}, nil
}

// NewEngineWithDefaults creates a new puzzle engine on the built-in tutorial
// level
func NewEngineWithDefaults() *GameEngine {
	// The built-in level is fixed data and always validates
	engine, _ := NewEngine(DefaultLevelConfig())
	return engine
}

// NewEngineFromState restores an engine from a persisted state, rebuilding
// the occupancy grid from the vehicle list
func NewEngineFromState(config *LevelConfig, state *GameState) (*GameEngine, error) {
	if err := ValidateLevelConfig(config); err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("state cannot be nil")
	}
	if err := state.RebuildGrid(); err != nil {
		return nil, err
	}
	state.Solved = state.evaluateSolved()
	return &GameEngine{config: config, state: state}, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Reset restores the initial vehicle layout and zeroes the step counter.
// Cumulative history and totals survive the reset; only the current-attempt
// segment is cleared.
func (e *GameEngine) Reset() *GameState {
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	// The config validated at construction time, so re-init cannot fail
	state, _ := InitGameStateFromConfig(e.config)
	e.state = state

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveRecord{}
	e.state.Steps = 0
	if e.config.Messages.Reset != "" {
		e.state.Message = e.config.Messages.Reset
	}

	return e.state
}

// IsSolved reports whether the target vehicle has reached the exit
func (e *GameEngine) IsSolved() bool {
	return e.state.Solved
}

// StepCount returns the number of committed moves in the current attempt
func (e *GameEngine) StepCount() int {
	return e.state.Steps
}

// AttemptMove validates and, if legal, commits a slide of the named vehicle.
// On failure the grid, the step counter and the history are untouched.
func (e *GameEngine) AttemptMove(id VehicleID, direction Direction, distance int) (*MoveResult, error) {
	v := e.state.VehicleByID(id)
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVehicle, id)
	}

	if err := e.state.validateMove(v, direction, distance); err != nil {
		return nil, err
	}

	return e.state.applyMove(v, direction, distance, e.config)
}

// CanMove checks whether a slide would be legal without applying it. A nil
// return means the move would commit.
func (e *GameEngine) CanMove(id VehicleID, direction Direction, distance int) error {
	v := e.state.VehicleByID(id)
	if v == nil {
		return fmt.Errorf("%w: %s", ErrUnknownVehicle, id)
	}
	return e.state.validateMove(v, direction, distance)
}

// Undo reverses the last committed move of the current attempt
func (e *GameEngine) Undo() (*MoveResult, error) {
	return e.state.undoLast(e.config)
}

// Occupant returns the vehicle holding a cell, for rendering queries
func (e *GameEngine) Occupant(row, col int) (VehicleID, error) {
	return e.state.grid.Occupant(row, col)
}

// Board returns the rendered grid rows
func (e *GameEngine) Board() []string {
	return e.state.Board
}

// GetConfig returns the level definition this engine was built from
func (e *GameEngine) GetConfig() *LevelConfig {
	return e.config
}

// GetMoveHistory returns the cumulative move history
func (e *GameEngine) GetMoveHistory() []MoveRecord {
	return e.state.MoveHistory
}

// GetLastMove returns the most recent move of the current attempt, or nil
func (e *GameEngine) GetLastMove() *MoveRecord {
	if len(e.state.CurrentMoves) == 0 {
		return nil
	}
	return &e.state.CurrentMoves[len(e.state.CurrentMoves)-1]
}
