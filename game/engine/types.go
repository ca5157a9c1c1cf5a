package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Orientation is the axis a vehicle occupies and slides along
type Orientation string

// Direction is a requested slide direction
type Direction string

// VehicleID identifies one vehicle within a level
type VehicleID string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"

	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"

	// Validation constants
	MinGridDim       = 2
	MaxGridDim       = 50
	MinVehicleLength = 2
	MaxBulkMoves     = 50

	WebSocketBufferSize = 256

	// EmptyCellRune is used when rendering the board as text rows
	EmptyCellRune = '.'
)

// Cell is one grid square: empty, or occupied by exactly one vehicle
type Cell struct {
	Occupied bool      `json:"occupied"`
	Vehicle  VehicleID `json:"vehicle,omitempty"`
}

// Position is a (row, col) coordinate, zero-based from the top-left corner
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// VehicleSpec describes one vehicle in a level file
type VehicleSpec struct {
	ID          string `json:"id"`
	Orientation string `json:"orientation"`
	Length      int    `json:"length"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Target      bool   `json:"target,omitempty"`
}

// ExitSpec names the boundary cell the target vehicle must reach
type ExitSpec struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// LevelConfig represents a level definition from JSON
type LevelConfig struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Rows        int           `json:"rows"`
	Cols        int           `json:"cols"`
	Exit        ExitSpec      `json:"exit"`
	Vehicles    []VehicleSpec `json:"vehicles"`
	Messages    struct {
		Welcome       string `json:"welcome"`
		Moved         string `json:"moved"`
		Blocked       string `json:"blocked"`
		OutOfBounds   string `json:"out_of_bounds"`
		WrongAxis     string `json:"wrong_axis"`
		Solved        string `json:"solved"`
		AlreadySolved string `json:"already_solved"`
		Undone        string `json:"undone"`
		NothingToUndo string `json:"nothing_to_undo"`
		Reset         string `json:"reset"`
	} `json:"messages"`
}

// Vehicle is a placed vehicle. Anchor is its topmost/leftmost cell; the
// vehicle extends length-1 further cells right (horizontal) or down
// (vertical).
type Vehicle struct {
	ID          VehicleID   `json:"id"`
	Orientation Orientation `json:"orientation"`
	Length      int         `json:"length"`
	Anchor      Position    `json:"anchor"`
	Target      bool        `json:"target,omitempty"`
}

// Cells returns the positions the vehicle occupies, anchor first
func (v *Vehicle) Cells() []Position {
	cells := make([]Position, v.Length)
	for i := 0; i < v.Length; i++ {
		cells[i] = v.Anchor
		if v.Orientation == Horizontal {
			cells[i].Col += i
		} else {
			cells[i].Row += i
		}
	}
	return cells
}

// Occupies reports whether the vehicle covers the given position
func (v *Vehicle) Occupies(pos Position) bool {
	if v.Orientation == Horizontal {
		return pos.Row == v.Anchor.Row && pos.Col >= v.Anchor.Col && pos.Col < v.Anchor.Col+v.Length
	}
	return pos.Col == v.Anchor.Col && pos.Row >= v.Anchor.Row && pos.Row < v.Anchor.Row+v.Length
}

// GameState represents the complete state of one play-through
type GameState struct {
	LevelName string     `json:"level_name"`
	Rows      int        `json:"rows"`
	Cols      int        `json:"cols"`
	Exit      Position   `json:"exit"`
	Vehicles  []*Vehicle `json:"vehicles"`
	Steps     int        `json:"steps"`
	Solved    bool       `json:"solved"`
	Message   string     `json:"message"`

	// Board is the rendered grid, one string per row, '.' for empty cells.
	// Derived from the grid after every mutation; kept in the state so API
	// and MCP consumers get a drawable view without engine access.
	Board []string `json:"board"`

	// MoveHistory is cumulative and survives resets. CurrentMoves tracks only
	// the moves since the last reset; it is what Steps counts and what Undo
	// pops.
	MoveHistory  []MoveRecord `json:"move_history"`
	TotalMoves   int          `json:"total_moves"`
	CurrentMoves []MoveRecord `json:"current_moves"`

	// grid is the authoritative occupancy structure. It is derived from
	// Vehicles and rebuilt after a persistence round-trip, so it stays
	// unexported.
	grid *Grid
}

// MoveRecord is one committed move in the history
type MoveRecord struct {
	Vehicle   VehicleID `json:"vehicle"`
	Direction Direction `json:"direction"`
	Distance  int       `json:"distance"`
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Step      int       `json:"step"`
	Timestamp int64     `json:"timestamp"`
}

// MoveResult reports the outcome of a committed move or undo
type MoveResult struct {
	Vehicle VehicleID `json:"vehicle"`
	Anchor  Position  `json:"anchor"`
	Steps   int       `json:"steps"`
	Solved  bool      `json:"solved"`
}

// ParseOrientation accepts "horizontal"/"vertical" and the single letters
// "h"/"v", case insensitive
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return "", &MalformedLevelError{Reason: "unknown orientation " + strconv.Quote(s)}
}

// ParseDirection maps a request string to a Direction
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	case Left:
		return Left, nil
	case Right:
		return Right, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Axis returns the orientation a direction travels along
func (d Direction) Axis() Orientation {
	if d == Left || d == Right {
		return Horizontal
	}
	return Vertical
}

// delta returns the per-cell row/col offset for a direction
func (d Direction) delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	}
	return 0, 0
}

// Opposite returns the reverse direction, used when undoing a move
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}
