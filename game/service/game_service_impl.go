package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gridgames/parking-panic/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
	}
}

// getLevelID returns the level_id for a given level display name, used for
// consistent API responses
func (s *gameServiceImpl) getLevelID(levelName string) string {
	availableLevels, err := s.levels.ListLevels()
	if err == nil {
		for _, lvl := range availableLevels {
			if lvl.Name == levelName {
				return lvl.LevelID
			}
		}
	}
	// Fallback: return as-is or "default"
	if levelName == "" {
		return "default"
	}
	return levelName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load the level definition
	var config *engine.LevelConfig
	var err error
	if levelName != "" {
		config, err = s.levels.LoadLevel(levelName)
		if err != nil {
			// Provide a helpful error message with the available options
			if strings.Contains(err.Error(), "level not found") {
				availableLevels, listErr := s.levels.ListLevels()
				if listErr == nil && len(availableLevels) > 0 {
					var levelIDs []string
					for _, lvl := range availableLevels {
						levelIDs = append(levelIDs, lvl.LevelID)
					}
					return nil, fmt.Errorf("level '%s' not found. Available levels: %v", levelName, levelIDs)
				}
				return nil, fmt.Errorf("level '%s' not found. Use /api/levels to list available levels", levelName)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", levelName, err)
		}
	} else {
		config = s.levels.GetDefault()
	}

	// Let the session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Prefer the requested level id; otherwise look it up by display name
	levelID := levelName
	if levelID == "" {
		levelID = s.getLevelID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		LevelName:      levelID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		LevelConfig:    session.Config,
		Events: []GameEvent{{
			Type:      "created",
			Message:   config.Messages.Welcome,
			Timestamp: time.Now(),
		}},
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		LevelName:      s.getLevelID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		LevelConfig:    session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			LevelName:      s.getLevelID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			LevelConfig:    sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single slide for a session. Rule violations come back as an
// unsuccessful MoveResult, not as an error; errors are reserved for missing
// sessions and infrastructure failures.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, move MoveRequest) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result := s.executeMove(sess, move, 1)
	result.Analysis = engine.AnalyzeExitPath(sess.Engine.GetState())

	// Auto-save session after the move
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warnf("Failed to persist session %s after move: %v", sessionID, err)
	}

	return result, nil
}

// BulkMove executes multiple slides in sequence, stopping at the first
// rejection or once the puzzle is solved
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []MoveRequest) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.GetState()
	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
		StartSteps:     state.Steps,
		Solved:         state.Solved,
		Message:        state.Message,
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, mv := range moves {
		if sess.Engine.IsSolved() {
			result.StoppedReason = "puzzle already solved"
			result.StopReasonCode = "solved"
			result.StoppedOnMove = result.MovesExecuted + 1
			break
		}

		moveResult := s.executeMove(sess, mv, i+1)
		result.Events = append(result.Events, moveResult.Events...)

		if !moveResult.Success {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d rejected: %s", i+1, moveResult.Message)
			result.StoppedOnMove = i + 1
			result.Attempted = moveResult.Attempted
			if moveResult.Attempted != nil {
				result.StopReasonCode = moveResult.Attempted.Reason
			}
			break
		}

		result.MovesExecuted++
		if moveResult.Step != nil {
			result.Steps = append(result.Steps, *moveResult.Step)
		}
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.EndSteps = endState.Steps
	result.Solved = endState.Solved
	result.Message = endState.Message

	// Decision aids
	result.Analysis = engine.AnalyzeExitPath(endState)
	for _, blocker := range engine.BlockersToExit(endState) {
		result.Blockers = append(result.Blockers, string(blocker))
	}

	// Auto-save session after the batch
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warnf("Failed to persist session %s after bulk moves: %v", sessionID, err)
	}

	return result, nil
}

// Undo reverses the last committed slide of the current attempt
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	undone, err := sess.Engine.Undo()
	state := sess.Engine.GetState()
	if err != nil {
		message := err.Error()
		if errors.Is(err, engine.ErrNothingToUndo) && sess.Config.Messages.NothingToUndo != "" {
			message = sess.Config.Messages.NothingToUndo
		}
		return &MoveResult{
			Success:   false,
			GameState: state,
			Message:   message,
			Attempted: &AttemptInfo{Reason: rejectionCode(err)},
			Analysis:  engine.AnalyzeExitPath(state),
		}, nil
	}

	result := &MoveResult{
		Success:   true,
		GameState: state,
		Message:   state.Message,
		Events: []GameEvent{{
			Type:      "undo",
			Message:   state.Message,
			Timestamp: time.Now(),
			Vehicle:   string(undone.Vehicle),
			Position:  &undone.Anchor,
		}},
		Analysis: engine.AnalyzeExitPath(state),
	}

	if err := s.sessions.Save(sessionID); err != nil {
		log.Warnf("Failed to persist session %s after undo: %v", sessionID, err)
	}

	return result, nil
}

// Reset restores a game session to its initial layout
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warnf("Failed to persist session %s after reset: %v", sessionID, err)
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of moves
	var moves []engine.MoveRecord
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else {
		// Normal chronological order
		if start < total {
			moves = history[start:end]
		}
	}

	// Ensure moves is not nil
	if moves == nil {
		moves = []engine.MoveRecord{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns the available level definitions
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level definition
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error) {
	return s.levels.LoadLevel(levelName)
}

// SaveLevel saves a level definition to disk
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelName string, config *engine.LevelConfig) error {
	return s.levels.SaveLevel(levelName, config)
}

// executeMove runs one slide against a session's engine and folds the outcome
// into a MoveResult. idx is the 1-based position within the calling batch.
func (s *gameServiceImpl) executeMove(sess *Session, move MoveRequest, idx int) *MoveResult {
	distance := move.Distance
	if distance == 0 {
		distance = 1
	}

	state := sess.Engine.GetState()

	dir, err := engine.ParseDirection(move.Direction)
	if err != nil {
		return s.rejectedResult(sess, move, distance, err)
	}

	vehicle := engine.VehicleID(move.Vehicle)
	prev := state.VehicleByID(vehicle)
	var from engine.Position
	if prev != nil {
		from = prev.Anchor
	}

	res, err := sess.Engine.AttemptMove(vehicle, dir, distance)
	if err != nil {
		return s.rejectedResult(sess, move, distance, err)
	}

	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Vehicle %s moved %s %d to (%d,%d)", res.Vehicle, dir, distance, res.Anchor.Row, res.Anchor.Col),
		Timestamp: time.Now(),
		Vehicle:   string(res.Vehicle),
		Position:  &res.Anchor,
	}}
	if res.Solved {
		events = append(events, GameEvent{
			Type:      "solved",
			Message:   state.Message,
			Timestamp: time.Now(),
			Vehicle:   string(res.Vehicle),
		})
	}

	return &MoveResult{
		Success:   true,
		GameState: state,
		Message:   state.Message,
		Events:    events,
		Step: &StepInfo{
			Idx:       idx,
			Vehicle:   string(res.Vehicle),
			Dir:       string(dir),
			Distance:  distance,
			From:      from,
			To:        res.Anchor,
			StepCount: res.Steps,
			Success:   true,
			Solved:    res.Solved,
		},
	}
}

// rejectedResult folds an engine rejection into an unsuccessful MoveResult
// with the level's configured feedback message
func (s *gameServiceImpl) rejectedResult(sess *Session, move MoveRequest, distance int, err error) *MoveResult {
	state := sess.Engine.GetState()
	code := rejectionCode(err)
	message := rejectionMessage(sess.Config, code, err)
	message = fmt.Sprintf("%s [%s %s %d]", message, move.Vehicle, move.Direction, distance)

	attempted := &AttemptInfo{
		Vehicle:  move.Vehicle,
		Dir:      move.Direction,
		Distance: distance,
		Reason:   code,
	}

	var blocked *engine.BlockedError
	var outOfBounds *engine.OutOfBoundsError
	switch {
	case errors.As(err, &blocked):
		attempted.Blocker = string(blocked.Blocker)
		attempted.Pos = &blocked.Pos
	case errors.As(err, &outOfBounds):
		attempted.Pos = &outOfBounds.Pos
	}

	return &MoveResult{
		Success:   false,
		GameState: state,
		Message:   message,
		Events: []GameEvent{{
			Type:      "blocked",
			Message:   message,
			Timestamp: time.Now(),
			Vehicle:   move.Vehicle,
		}},
		Attempted: attempted,
	}
}

// rejectionCode maps an engine error to a machine-friendly reason code
func rejectionCode(err error) string {
	var blocked *engine.BlockedError
	var outOfBounds *engine.OutOfBoundsError
	var wrongAxis *engine.InvalidDirectionError

	switch {
	case errors.As(err, &blocked):
		return "blocked"
	case errors.As(err, &outOfBounds):
		return "out_of_bounds"
	case errors.As(err, &wrongAxis):
		return "wrong_axis"
	case errors.Is(err, engine.ErrUnknownVehicle):
		return "unknown_vehicle"
	case errors.Is(err, engine.ErrUnknownDirection):
		return "unknown_direction"
	case errors.Is(err, engine.ErrInvalidDistance):
		return "invalid_distance"
	case errors.Is(err, engine.ErrNothingToUndo):
		return "nothing_to_undo"
	default:
		return "rejected"
	}
}

// rejectionMessage picks the level's configured feedback line for a rejection,
// falling back to the raw error text
func rejectionMessage(cfg *engine.LevelConfig, code string, err error) string {
	if cfg == nil {
		return err.Error()
	}
	switch code {
	case "blocked":
		if cfg.Messages.Blocked != "" {
			return cfg.Messages.Blocked
		}
	case "out_of_bounds":
		if cfg.Messages.OutOfBounds != "" {
			return cfg.Messages.OutOfBounds
		}
	case "wrong_axis":
		if cfg.Messages.WrongAxis != "" {
			return cfg.Messages.WrongAxis
		}
	}
	return err.Error()
}
