package engine

import (
	"errors"
	"fmt"
)

// Kind sentinels. The typed errors below match these through errors.Is, so
// callers can branch on the kind without unpacking the details.
var (
	ErrOutOfBounds      = errors.New("out of bounds")
	ErrOverlap          = errors.New("cell already occupied")
	ErrInvalidDirection = errors.New("direction not on vehicle axis")
	ErrBlocked          = errors.New("path blocked")
	ErrMalformedLevel   = errors.New("malformed level")
)

// Precondition sentinels for inputs the game rules never see
var (
	ErrUnknownVehicle   = errors.New("unknown vehicle")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrInvalidDistance  = errors.New("move distance must be at least 1")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrVehicleNotPlaced = errors.New("vehicle not placed on grid")
)

// OutOfBoundsError reports a cell outside the grid
type OutOfBoundsError struct {
	Pos Position
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("out of bounds: (%d,%d)", e.Pos.Row, e.Pos.Col)
}

func (e *OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }

// OverlapError reports an attempt to place a vehicle on a cell another
// vehicle already holds
type OverlapError struct {
	Vehicle  VehicleID
	Occupant VehicleID
	Pos      Position
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("cell (%d,%d) already occupied by %s, cannot place %s",
		e.Pos.Row, e.Pos.Col, e.Occupant, e.Vehicle)
}

func (e *OverlapError) Is(target error) bool { return target == ErrOverlap }

// InvalidDirectionError reports a slide requested across the vehicle's axis
type InvalidDirectionError struct {
	Vehicle     VehicleID
	Orientation Orientation
	Direction   Direction
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("%s vehicle %s cannot move %s", e.Orientation, e.Vehicle, e.Direction)
}

func (e *InvalidDirectionError) Is(target error) bool { return target == ErrInvalidDirection }

// BlockedError reports the first vehicle sitting on the requested path
type BlockedError struct {
	Vehicle VehicleID
	Blocker VehicleID
	Pos     Position
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("vehicle %s blocked by %s at (%d,%d)", e.Vehicle, e.Blocker, e.Pos.Row, e.Pos.Col)
}

func (e *BlockedError) Is(target error) bool { return target == ErrBlocked }

// MalformedLevelError reports why a level definition was rejected
type MalformedLevelError struct {
	Reason string
}

func (e *MalformedLevelError) Error() string { return "malformed level: " + e.Reason }

func (e *MalformedLevelError) Is(target error) bool { return target == ErrMalformedLevel }
