// Command analyze prints quick, human-readable heuristics about the level
// files in the project's configs directory. It renders each starting board,
// summarizes occupancy, measures the target's distance to the exit, and
// flags vehicles parked on the escape path or frozen in place.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AnalysisLevel is a light struct for reading level files used by analysis.
type AnalysisLevel struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Rows        int               `json:"rows"`
	Cols        int               `json:"cols"`
	Exit        AnalysisPoint     `json:"exit"`
	Vehicles    []AnalysisVehicle `json:"vehicles"`
	Messages    map[string]string `json:"messages"`
}

// AnalysisVehicle mirrors a vehicle entry in a level file.
type AnalysisVehicle struct {
	ID          string `json:"id"`
	Orientation string `json:"orientation"`
	Length      int    `json:"length"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Target      bool   `json:"target"`
}

// AnalysisPoint denotes a grid coordinate used during analysis output.
type AnalysisPoint struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func main() {
	levels := []string{
		"beginner.json",
		"rush-half-hour.json",
		"tutorial.json",
	}

	for _, levelFile := range levels {
		fmt.Printf("\n=== Analyzing %s ===\n", levelFile)
		analyzeLevel(filepath.Join("configs", levelFile))
	}
}

func analyzeLevel(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var level AnalysisLevel
	if err := json.Unmarshal(data, &level); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\n", level.Name)
	fmt.Printf("Grid: %d x %d\n", level.Rows, level.Cols)
	fmt.Printf("Exit: (%d, %d)\n", level.Exit.Row, level.Exit.Col)
	fmt.Printf("Vehicles: %d\n", len(level.Vehicles))

	board := renderLayout(&level)
	for r, row := range board {
		if r == level.Exit.Row && level.Exit.Col == level.Cols-1 {
			fmt.Printf("  %s ⇒ EXIT\n", row)
			continue
		}
		fmt.Printf("  %s\n", row)
	}

	occupied := 0
	for _, row := range board {
		for _, cell := range row {
			if cell != '.' {
				occupied++
			}
		}
	}
	total := level.Rows * level.Cols
	if total > 0 {
		fmt.Printf("Occupancy: %d/%d cells (%d free)\n", occupied, total, total-occupied)
	}

	var target *AnalysisVehicle
	for i := range level.Vehicles {
		if level.Vehicles[i].Target {
			target = &level.Vehicles[i]
			break
		}
	}
	if target == nil {
		fmt.Printf("⚠️  WARNING: no target vehicle in this level!\n")
		return
	}

	distance, blockers := escapeRoute(&level, board, target)
	fmt.Printf("Target %s: %d cell(s) from the exit\n", target.ID, distance)

	if len(blockers) > 0 {
		fmt.Printf("⚠️  %d vehicle(s) parked on the escape path: %s\n", len(blockers), strings.Join(blockers, ", "))
	} else {
		fmt.Printf("✅ The escape path is clear\n")
	}

	var frozen []string
	for i := range level.Vehicles {
		v := &level.Vehicles[i]
		if slideRoom(&level, board, v) == 0 {
			frozen = append(frozen, v.ID)
		}
	}

	if len(frozen) > 0 {
		fmt.Printf("⚠️  WARNING: %d vehicle(s) cannot slide at start: %s\n", len(frozen), strings.Join(frozen, ", "))
	} else {
		fmt.Printf("✅ All vehicles have at least one legal slide\n")
	}
}

// renderLayout draws the starting board, '.' for empty cells and the first
// byte of each vehicle's id for the cells it covers.
func renderLayout(level *AnalysisLevel) []string {
	grid := make([][]byte, level.Rows)
	for r := range grid {
		grid[r] = make([]byte, level.Cols)
		for c := range grid[r] {
			grid[r][c] = '.'
		}
	}

	for i := range level.Vehicles {
		v := &level.Vehicles[i]
		for _, cell := range vehicleCells(v) {
			if cell.Row >= 0 && cell.Row < level.Rows && cell.Col >= 0 && cell.Col < level.Cols {
				grid[cell.Row][cell.Col] = v.ID[0]
			}
		}
	}

	board := make([]string, level.Rows)
	for r := range grid {
		board[r] = string(grid[r])
	}
	return board
}

// escapeRoute measures how far the target must travel to cover the exit and
// lists the distinct vehicles parked on that stretch, nearest first.
func escapeRoute(level *AnalysisLevel, board []string, target *AnalysisVehicle) (int, []string) {
	var targetByte byte
	if target.ID != "" {
		targetByte = target.ID[0]
	}

	var blockers []string
	seen := make(map[byte]bool)
	distance := 0

	probe := func(row, col int) {
		if row < 0 || row >= len(board) || col < 0 || col >= len(board[row]) {
			return
		}
		cell := board[row][col]
		if cell == '.' || cell == targetByte || seen[cell] {
			return
		}
		seen[cell] = true
		blockers = append(blockers, string(cell))
	}

	if isVertical(target.Orientation) {
		front := target.Row + target.Length - 1
		if level.Exit.Row > front {
			distance = level.Exit.Row - front
			for row := front + 1; row <= level.Exit.Row; row++ {
				probe(row, target.Col)
			}
		} else if level.Exit.Row < target.Row {
			distance = target.Row - level.Exit.Row
			for row := target.Row - 1; row >= level.Exit.Row; row-- {
				probe(row, target.Col)
			}
		}
	} else {
		front := target.Col + target.Length - 1
		if level.Exit.Col > front {
			distance = level.Exit.Col - front
			for col := front + 1; col <= level.Exit.Col; col++ {
				probe(target.Row, col)
			}
		} else if level.Exit.Col < target.Col {
			distance = target.Col - level.Exit.Col
			for col := target.Col - 1; col >= level.Exit.Col; col-- {
				probe(target.Row, col)
			}
		}
	}

	return distance, blockers
}

// slideRoom counts the empty cells a vehicle can reach across both of its
// legal directions from the starting position.
func slideRoom(level *AnalysisLevel, board []string, v *AnalysisVehicle) int {
	empty := func(row, col int) bool {
		if row < 0 || row >= level.Rows || col < 0 || col >= level.Cols {
			return false
		}
		return board[row][col] == '.'
	}

	room := 0
	if isVertical(v.Orientation) {
		for row := v.Row - 1; empty(row, v.Col); row-- {
			room++
		}
		for row := v.Row + v.Length; empty(row, v.Col); row++ {
			room++
		}
	} else {
		for col := v.Col - 1; empty(v.Row, col); col-- {
			room++
		}
		for col := v.Col + v.Length; empty(v.Row, col); col++ {
			room++
		}
	}
	return room
}

// vehicleCells lists the cells a vehicle covers, anchor first. Entries with
// no id or a non-positive length contribute nothing.
func vehicleCells(v *AnalysisVehicle) []AnalysisPoint {
	if v.ID == "" || v.Length < 1 {
		return nil
	}

	cells := make([]AnalysisPoint, 0, v.Length)
	for i := 0; i < v.Length; i++ {
		if isVertical(v.Orientation) {
			cells = append(cells, AnalysisPoint{Row: v.Row + i, Col: v.Col})
		} else {
			cells = append(cells, AnalysisPoint{Row: v.Row, Col: v.Col + i})
		}
	}
	return cells
}

func isVertical(orientation string) bool {
	switch strings.ToLower(orientation) {
	case "v", "vertical":
		return true
	}
	return false
}
