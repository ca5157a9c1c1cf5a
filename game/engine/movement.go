package engine

import (
	"fmt"
	"time"
)

// VehicleByID returns the vehicle with the given id, or nil
func (gs *GameState) VehicleByID(id VehicleID) *Vehicle {
	for _, v := range gs.Vehicles {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// TargetVehicle returns the vehicle that must reach the exit
func (gs *GameState) TargetVehicle() *Vehicle {
	for _, v := range gs.Vehicles {
		if v.Target {
			return v
		}
	}
	return nil
}

// pathCells returns the cells a vehicle would newly occupy sliding distance
// cells in the given direction, nearest first. The vacated trailing cells are
// not included.
func pathCells(v *Vehicle, dir Direction, distance int) []Position {
	dr, dc := dir.delta()
	// Leading cell of the vehicle in the direction of travel
	lead := v.Anchor
	if dir == Right {
		lead.Col += v.Length - 1
	}
	if dir == Down {
		lead.Row += v.Length - 1
	}

	cells := make([]Position, distance)
	for i := 1; i <= distance; i++ {
		cells[i-1] = Position{Row: lead.Row + dr*i, Col: lead.Col + dc*i}
	}
	return cells
}

// validateMove checks a requested slide without mutating anything. Checks run
// in order: axis, bounds for the whole path, then occupancy along the path
// nearest cell first.
func (gs *GameState) validateMove(v *Vehicle, dir Direction, distance int) error {
	if distance < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidDistance, distance)
	}
	if dir.Axis() != v.Orientation {
		return &InvalidDirectionError{Vehicle: v.ID, Orientation: v.Orientation, Direction: dir}
	}

	path := pathCells(v, dir, distance)
	for _, pos := range path {
		if !gs.grid.InBounds(pos) {
			return &OutOfBoundsError{Pos: pos}
		}
	}
	for _, pos := range path {
		occupant, err := gs.grid.Occupant(pos.Row, pos.Col)
		if err != nil {
			return err
		}
		if occupant != "" && occupant != v.ID {
			return &BlockedError{Vehicle: v.ID, Blocker: occupant, Pos: pos}
		}
	}
	return nil
}

// applyMove commits a validated slide: clear old cells, shift the anchor,
// place new cells, count the step, record history, re-evaluate solved
func (gs *GameState) applyMove(v *Vehicle, dir Direction, distance int, cfg *LevelConfig) (*MoveResult, error) {
	from := v.Anchor
	if err := gs.grid.Clear(v); err != nil {
		return nil, err
	}

	dr, dc := dir.delta()
	v.Anchor.Row += dr * distance
	v.Anchor.Col += dc * distance

	if err := gs.grid.Place(v); err != nil {
		// Restore the old placement so a corrupted request cannot leave the
		// vehicle off the grid
		v.Anchor = from
		if placeErr := gs.grid.Place(v); placeErr != nil {
			return nil, placeErr
		}
		return nil, err
	}

	gs.Steps++
	gs.appendMove(v.ID, dir, distance, from, v.Anchor)
	gs.Solved = gs.evaluateSolved()
	gs.Board = gs.grid.Render()

	if gs.Solved {
		gs.Message = fmt.Sprintf(solvedMessage(cfg), gs.Steps)
	} else {
		gs.Message = movedMessage(cfg, v.ID, dir, distance)
	}

	return &MoveResult{Vehicle: v.ID, Anchor: v.Anchor, Steps: gs.Steps, Solved: gs.Solved}, nil
}

// undoLast reverses the most recent committed move of the current attempt.
// The vacated cells are necessarily free because only the last move can be
// undone, so the inverse slide is applied directly instead of re-validating.
func (gs *GameState) undoLast(cfg *LevelConfig) (*MoveResult, error) {
	if len(gs.CurrentMoves) == 0 {
		return nil, ErrNothingToUndo
	}

	last := gs.CurrentMoves[len(gs.CurrentMoves)-1]
	v := gs.VehicleByID(last.Vehicle)
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVehicle, last.Vehicle)
	}

	if err := gs.grid.Clear(v); err != nil {
		return nil, err
	}
	v.Anchor = last.From
	if err := gs.grid.Place(v); err != nil {
		return nil, err
	}

	// Drop the move from both tracks; the entries are the same record since
	// every commit appends to both
	gs.CurrentMoves = gs.CurrentMoves[:len(gs.CurrentMoves)-1]
	gs.MoveHistory = gs.MoveHistory[:len(gs.MoveHistory)-1]
	gs.TotalMoves--
	gs.Steps--
	gs.Solved = gs.evaluateSolved()
	gs.Board = gs.grid.Render()
	gs.Message = undoneMessage(cfg, v.ID)

	return &MoveResult{Vehicle: v.ID, Anchor: v.Anchor, Steps: gs.Steps, Solved: gs.Solved}, nil
}

// evaluateSolved reports whether the target vehicle covers the exit cell
func (gs *GameState) evaluateSolved() bool {
	target := gs.TargetVehicle()
	return target != nil && target.Occupies(gs.Exit)
}

// appendMove records a committed move in both history tracks
func (gs *GameState) appendMove(id VehicleID, dir Direction, distance int, from, to Position) {
	record := MoveRecord{
		Vehicle:   id,
		Direction: dir,
		Distance:  distance,
		From:      from,
		To:        to,
		Step:      gs.Steps,
		Timestamp: time.Now().Unix(),
	}
	gs.MoveHistory = append(gs.MoveHistory, record)
	gs.TotalMoves++
	gs.CurrentMoves = append(gs.CurrentMoves, record)
}

// movedMessage builds the state message for an ordinary committed move
func movedMessage(cfg *LevelConfig, id VehicleID, dir Direction, distance int) string {
	detail := fmt.Sprintf("[%s %s %d]", id, dir, distance)
	if cfg != nil && cfg.Messages.Moved != "" {
		return cfg.Messages.Moved + " " + detail
	}
	return "Moved " + detail
}

// solvedMessage returns the victory format string, which carries a %d slot
// for the step count
func solvedMessage(cfg *LevelConfig) string {
	if cfg != nil && cfg.Messages.Solved != "" {
		return cfg.Messages.Solved
	}
	return "Solved in %d steps!"
}

// undoneMessage builds the state message after an undo
func undoneMessage(cfg *LevelConfig, id VehicleID) string {
	detail := fmt.Sprintf("[%s]", id)
	if cfg != nil && cfg.Messages.Undone != "" {
		return cfg.Messages.Undone + " " + detail
	}
	return "Undid last move " + detail
}
