package engine

import "fmt"

// Grid is the parking lot: a fixed rows by cols matrix of cells. Created at
// level load, mutated in place by every successful move, never resized.
type Grid struct {
	Rows  int
	Cols  int
	cells [][]Cell
}

// NewGrid creates an empty grid. Dimensions are assumed to be validated by
// the level loader.
func NewGrid(rows, cols int) *Grid {
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
	}
	return &Grid{Rows: rows, Cols: cols, cells: cells}
}

// InBounds reports whether a position lies inside the grid
func (g *Grid) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.Rows && pos.Col >= 0 && pos.Col < g.Cols
}

// Occupant returns the vehicle holding the cell, or the empty id when the
// cell is free. Fails with an out-of-bounds error for positions outside the
// grid.
func (g *Grid) Occupant(row, col int) (VehicleID, error) {
	pos := Position{Row: row, Col: col}
	if !g.InBounds(pos) {
		return "", &OutOfBoundsError{Pos: pos}
	}
	return g.cells[row][col].Vehicle, nil
}

// Place marks all of the vehicle's cells as held by it. Checks every cell
// before writing any: out-of-bounds cells and cells held by a different
// vehicle reject the whole placement.
func (g *Grid) Place(v *Vehicle) error {
	cells := v.Cells()
	for _, pos := range cells {
		if !g.InBounds(pos) {
			return &OutOfBoundsError{Pos: pos}
		}
	}
	for _, pos := range cells {
		cell := g.cells[pos.Row][pos.Col]
		if cell.Occupied && cell.Vehicle != v.ID {
			return &OverlapError{Vehicle: v.ID, Occupant: cell.Vehicle, Pos: pos}
		}
	}
	for _, pos := range cells {
		g.cells[pos.Row][pos.Col] = Cell{Occupied: true, Vehicle: v.ID}
	}
	return nil
}

// Clear empties the vehicle's cells. If the vehicle is not currently placed
// exactly at its cells, nothing is mutated and an error is returned.
func (g *Grid) Clear(v *Vehicle) error {
	cells := v.Cells()
	for _, pos := range cells {
		if !g.InBounds(pos) {
			return &OutOfBoundsError{Pos: pos}
		}
		cell := g.cells[pos.Row][pos.Col]
		if !cell.Occupied || cell.Vehicle != v.ID {
			return fmt.Errorf("clear %s: %w", v.ID, ErrVehicleNotPlaced)
		}
	}
	for _, pos := range cells {
		g.cells[pos.Row][pos.Col] = Cell{}
	}
	return nil
}

// OccupiedCount returns the number of occupied cells
func (g *Grid) OccupiedCount() int {
	count := 0
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.cells[r][c].Occupied {
				count++
			}
		}
	}
	return count
}

// Render draws the grid as one string per row, vehicles shown by the first
// rune of their id and empty cells by '.'
func (g *Grid) Render() []string {
	rows := make([]string, g.Rows)
	for r := 0; r < g.Rows; r++ {
		line := make([]rune, 0, g.Cols)
		for c := 0; c < g.Cols; c++ {
			cell := g.cells[r][c]
			if !cell.Occupied {
				line = append(line, EmptyCellRune)
				continue
			}
			line = append(line, []rune(string(cell.Vehicle))[0])
		}
		rows[r] = string(line)
	}
	return rows
}
