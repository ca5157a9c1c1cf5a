package engine

import (
	"errors"
	"testing"
)

func TestGridInBounds(t *testing.T) {
	grid := NewGrid(6, 6)

	tests := []struct {
		name     string
		pos      Position
		expected bool
	}{
		{"top left corner", Position{0, 0}, true},
		{"bottom right corner", Position{5, 5}, true},
		{"negative row", Position{-1, 0}, false},
		{"negative col", Position{0, -1}, false},
		{"row past the edge", Position{6, 0}, false},
		{"col past the edge", Position{0, 6}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := grid.InBounds(test.pos); got != test.expected {
				t.Errorf("InBounds(%v): expected %v, got %v", test.pos, test.expected, got)
			}
		})
	}
}

func TestGridOccupant(t *testing.T) {
	grid := NewGrid(6, 6)
	v := &Vehicle{ID: "A", Orientation: Horizontal, Length: 2, Anchor: Position{Row: 2, Col: 0}}
	if err := grid.Place(v); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	occupant, err := grid.Occupant(2, 1)
	if err != nil {
		t.Fatalf("Occupant failed: %v", err)
	}
	if occupant != "A" {
		t.Errorf("Expected occupant A, got %q", occupant)
	}

	occupant, err = grid.Occupant(0, 0)
	if err != nil {
		t.Fatalf("Occupant failed: %v", err)
	}
	if occupant != "" {
		t.Errorf("Expected empty cell, got %q", occupant)
	}

	if _, err := grid.Occupant(6, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected out of bounds error, got %v", err)
	}
	if _, err := grid.Occupant(0, -1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected out of bounds error, got %v", err)
	}
}

func TestGridPlace(t *testing.T) {
	grid := NewGrid(6, 6)

	v := &Vehicle{ID: "B", Orientation: Vertical, Length: 3, Anchor: Position{Row: 1, Col: 2}}
	if err := grid.Place(v); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	for _, pos := range v.Cells() {
		occupant, _ := grid.Occupant(pos.Row, pos.Col)
		if occupant != "B" {
			t.Errorf("Cell (%d,%d): expected B, got %q", pos.Row, pos.Col, occupant)
		}
	}
	if grid.OccupiedCount() != 3 {
		t.Errorf("Expected 3 occupied cells, got %d", grid.OccupiedCount())
	}
}

func TestGridPlace_Overlap(t *testing.T) {
	grid := NewGrid(6, 6)
	first := &Vehicle{ID: "A", Orientation: Horizontal, Length: 2, Anchor: Position{Row: 2, Col: 1}}
	if err := grid.Place(first); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	// Crosses the occupied cell (2,2)
	second := &Vehicle{ID: "B", Orientation: Vertical, Length: 3, Anchor: Position{Row: 1, Col: 2}}
	err := grid.Place(second)
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("Expected overlap error, got %v", err)
	}

	var overlap *OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("Expected *OverlapError, got %T", err)
	}
	if overlap.Occupant != "A" || overlap.Vehicle != "B" {
		t.Errorf("Unexpected overlap details: %+v", overlap)
	}
	if overlap.Pos != (Position{Row: 2, Col: 2}) {
		t.Errorf("Expected overlap at (2,2), got (%d,%d)", overlap.Pos.Row, overlap.Pos.Col)
	}

	// The failed placement wrote nothing
	if occupant, _ := grid.Occupant(1, 2); occupant != "" {
		t.Errorf("Expected (1,2) untouched after failed place, got %q", occupant)
	}
	if grid.OccupiedCount() != 2 {
		t.Errorf("Expected 2 occupied cells, got %d", grid.OccupiedCount())
	}
}

func TestGridPlace_OutOfBounds(t *testing.T) {
	grid := NewGrid(6, 6)

	v := &Vehicle{ID: "C", Orientation: Horizontal, Length: 3, Anchor: Position{Row: 0, Col: 4}}
	if err := grid.Place(v); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Expected out of bounds error, got %v", err)
	}

	// The in-bounds prefix was not written either
	if occupant, _ := grid.Occupant(0, 4); occupant != "" {
		t.Errorf("Expected (0,4) untouched after failed place, got %q", occupant)
	}
}

func TestGridClear(t *testing.T) {
	grid := NewGrid(6, 6)
	v := &Vehicle{ID: "A", Orientation: Horizontal, Length: 2, Anchor: Position{Row: 2, Col: 0}}
	if err := grid.Place(v); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	if err := grid.Clear(v); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	for _, pos := range v.Cells() {
		occupant, _ := grid.Occupant(pos.Row, pos.Col)
		if occupant != "" {
			t.Errorf("Cell (%d,%d): expected empty after clear, got %q", pos.Row, pos.Col, occupant)
		}
	}

	// Clearing a vehicle that is not placed is an error and a no-op
	if err := grid.Clear(v); !errors.Is(err, ErrVehicleNotPlaced) {
		t.Errorf("Expected vehicle-not-placed error, got %v", err)
	}
}

func TestGridClear_WrongPosition(t *testing.T) {
	grid := NewGrid(6, 6)
	v := &Vehicle{ID: "A", Orientation: Horizontal, Length: 2, Anchor: Position{Row: 2, Col: 0}}
	if err := grid.Place(v); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	// A stale copy pointing at cells the vehicle does not hold
	stale := &Vehicle{ID: "A", Orientation: Horizontal, Length: 2, Anchor: Position{Row: 2, Col: 2}}
	if err := grid.Clear(stale); !errors.Is(err, ErrVehicleNotPlaced) {
		t.Errorf("Expected vehicle-not-placed error, got %v", err)
	}

	// The real placement is intact
	if occupant, _ := grid.Occupant(2, 0); occupant != "A" {
		t.Errorf("Expected (2,0) still held by A, got %q", occupant)
	}
}

func TestGridRender(t *testing.T) {
	grid := NewGrid(3, 4)
	v := &Vehicle{ID: "A", Orientation: Horizontal, Length: 2, Anchor: Position{Row: 1, Col: 1}}
	if err := grid.Place(v); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	expected := []string{
		"....",
		".AA.",
		"....",
	}
	rows := grid.Render()
	if len(rows) != len(expected) {
		t.Fatalf("Expected %d rows, got %d", len(expected), len(rows))
	}
	for i, row := range expected {
		if rows[i] != row {
			t.Errorf("Row %d: expected %q, got %q", i, row, rows[i])
		}
	}
}
