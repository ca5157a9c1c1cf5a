package service

import (
	"time"

	"github.com/gridgames/parking-panic/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	LevelName      string              `json:"level_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	LevelConfig    *engine.LevelConfig `json:"level_config"`
	Events         []GameEvent         `json:"events,omitempty"`
}

// MoveRequest names one requested slide
type MoveRequest struct {
	Vehicle   string `json:"vehicle"`
	Direction string `json:"direction"`
	Distance  int    `json:"distance,omitempty"` // 0 means a single cell
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
	Attempted *AttemptInfo      `json:"attempted,omitempty"`
	Analysis  string            `json:"analysis,omitempty"`
}

// BulkMoveResult contains the result of multiple moves executed in sequence
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked|out_of_bounds|wrong_axis|unknown_vehicle|invalid_distance|solved
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused the stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartSteps int  `json:"start_steps"`
	EndSteps   int  `json:"end_steps"`
	Solved     bool `json:"solved"`

	// Per-step compact trace for this call only
	Steps []StepInfo `json:"steps,omitempty"`

	// Failure diagnostics
	Attempted *AttemptInfo `json:"attempted,omitempty"`

	// Final status aids
	Message  string   `json:"message,omitempty"`
	Analysis string   `json:"analysis,omitempty"`
	Blockers []string `json:"blockers,omitempty"`
}

// StepInfo is a compact record for one executed slide
type StepInfo struct {
	Idx       int             `json:"idx"`
	Vehicle   string          `json:"vehicle"`
	Dir       string          `json:"dir"`
	Distance  int             `json:"distance"`
	From      engine.Position `json:"from"`
	To        engine.Position `json:"to"`
	StepCount int             `json:"step_count"`
	Success   bool            `json:"success"`
	Solved    bool            `json:"solved,omitempty"`
}

// AttemptInfo details the first rejected slide
type AttemptInfo struct {
	Vehicle  string           `json:"vehicle"`
	Dir      string           `json:"dir"`
	Distance int              `json:"distance"`
	Reason   string           `json:"reason"`            // machine-friendly code
	Blocker  string           `json:"blocker,omitempty"` // set when another vehicle was in the way
	Pos      *engine.Position `json:"pos,omitempty"`     // the cell that caused the rejection
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"` // "created", "move", "blocked", "solved", "undo"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Vehicle   string           `json:"vehicle,omitempty"`
	Position  *engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// LevelInfo provides information about an available level
type LevelInfo struct {
	Filename    string `json:"filename"`
	LevelID     string `json:"level_id"` // The identifier to use for session creation
	Name        string `json:"name"`     // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Vehicles    int    `json:"vehicles"`
}
