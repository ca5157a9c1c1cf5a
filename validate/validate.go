// Command validate provides a small CLI that validates level JSON files in
// the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Grid dimensions and vehicle geometry (orientation, length, bounds)
//   - Exactly one target vehicle and no overlapping vehicles
//   - Exit placement on the edge of the target's row or column
//   - Required message keys
//   - Mobility: the starting layout is not frozen and not already solved
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gridgames/parking-panic/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateLevel loads and validates a single level JSON file. It performs
// structural checks, geometry and overlap validation, message presence,
// and a mobility analysis of the starting layout.
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if config.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Level name is required")
	}

	if config.Rows < engine.MinGridDim || config.Rows > engine.MaxGridDim {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("rows must be between %d and %d, got %d",
			engine.MinGridDim, engine.MaxGridDim, config.Rows))
	}
	if config.Cols < engine.MinGridDim || config.Cols > engine.MaxGridDim {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("cols must be between %d and %d, got %d",
			engine.MinGridDim, engine.MaxGridDim, config.Cols))
	}

	if len(config.Vehicles) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Must have at least 1 vehicle")
	}

	// Per-vehicle geometry, id uniqueness, and cell overlaps
	seen := make(map[string]bool)
	occupied := make(map[engine.Position]string)
	targetCount := 0
	var target engine.VehicleSpec

	for i, v := range config.Vehicles {
		if v.ID == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Vehicle %d has no id", i+1))
			continue
		}
		if seen[v.ID] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate vehicle id %q", v.ID))
			continue
		}
		seen[v.ID] = true

		if v.Target {
			targetCount++
			target = v
		}

		if _, err := engine.ParseOrientation(v.Orientation); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Vehicle %s: invalid orientation %q", v.ID, v.Orientation))
			continue
		}

		if v.Length < engine.MinVehicleLength {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Vehicle %s: length must be at least %d, got %d",
				v.ID, engine.MinVehicleLength, v.Length))
			continue
		}

		for _, cell := range vehicleCells(v) {
			if cell.Row < 0 || cell.Row >= config.Rows || cell.Col < 0 || cell.Col >= config.Cols {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Vehicle %s does not fit on the board (cell %d,%d)",
					v.ID, cell.Row, cell.Col))
				continue
			}
			if other, ok := occupied[cell]; ok && other != v.ID {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Vehicles %s and %s overlap at (%d,%d)",
					other, v.ID, cell.Row, cell.Col))
				continue
			}
			occupied[cell] = v.ID
		}
	}

	if targetCount != 1 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Exactly one target vehicle is required, found %d", targetCount))
	}

	// Exit must sit on the board edge, aligned with the target's travel lane
	if config.Exit.Row < 0 || config.Exit.Row >= config.Rows || config.Exit.Col < 0 || config.Exit.Col >= config.Cols {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Exit (%d,%d) is outside the board", config.Exit.Row, config.Exit.Col))
	} else if targetCount == 1 {
		if isVertical(target.Orientation) {
			if config.Exit.Col != target.Col || (config.Exit.Row != 0 && config.Exit.Row != config.Rows-1) {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Exit (%d,%d) is not on the edge of the target's column",
					config.Exit.Row, config.Exit.Col))
			}
		} else {
			if config.Exit.Row != target.Row || (config.Exit.Col != 0 && config.Exit.Col != config.Cols-1) {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Exit (%d,%d) is not on the edge of the target's row",
					config.Exit.Row, config.Exit.Col))
			}
		}
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required message: welcome")
	}
	if config.Messages.Solved == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required message: solved")
	} else if !strings.Contains(config.Messages.Solved, "%d") {
		result.Valid = false
		result.Errors = append(result.Errors, "Message solved must contain %d for the step count")
	}

	// Mobility analysis - a layout where nothing can slide is unplayable
	if result.Valid {
		mobilityResult := validateMobility(&config)
		if !mobilityResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, mobilityResult.Errors...)
		} else {
			result.Errors = append(result.Errors, mobilityResult.Errors...)
		}
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", config.Rows, config.Cols))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Vehicles: %d", len(config.Vehicles)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Target: %s", target.ID))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Exit: (%d,%d)", config.Exit.Row, config.Exit.Col))
	}

	return result
}

// validateMobility checks the starting layout for two degenerate shapes:
// a target that already covers the exit, and a frozen board where no
// vehicle can slide at all. It reports how many vehicles can move.
func validateMobility(config *engine.LevelConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	occupied := make(map[engine.Position]string)
	for _, v := range config.Vehicles {
		for _, cell := range vehicleCells(v) {
			occupied[cell] = v.ID
		}
	}

	empty := func(row, col int) bool {
		if row < 0 || row >= config.Rows || col < 0 || col >= config.Cols {
			return false
		}
		_, taken := occupied[engine.Position{Row: row, Col: col}]
		return !taken
	}

	movable := 0
	for _, v := range config.Vehicles {
		if v.Target && occupied[engine.Position{Row: config.Exit.Row, Col: config.Exit.Col}] == v.ID {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Target %s already covers the exit at start", v.ID))
			continue
		}

		var canMove bool
		if isVertical(v.Orientation) {
			canMove = empty(v.Row-1, v.Col) || empty(v.Row+v.Length, v.Col)
		} else {
			canMove = empty(v.Row, v.Col-1) || empty(v.Row, v.Col+v.Length)
		}
		if canMove {
			movable++
		}
	}

	if result.Valid && movable == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Frozen layout: no vehicle can slide from the starting position")
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Mobility: %d/%d vehicles can slide at start", movable, len(config.Vehicles)))
	}

	return result
}

// vehicleCells lists the cells a vehicle spec occupies, anchor first
func vehicleCells(v engine.VehicleSpec) []engine.Position {
	if v.Length < 1 {
		return nil
	}
	cells := make([]engine.Position, v.Length)
	for i := 0; i < v.Length; i++ {
		if isVertical(v.Orientation) {
			cells[i] = engine.Position{Row: v.Row + i, Col: v.Col}
		} else {
			cells[i] = engine.Position{Row: v.Row, Col: v.Col + i}
		}
	}
	return cells
}

func isVertical(orientation string) bool {
	o, err := engine.ParseOrientation(orientation)
	return err == nil && o == engine.Vertical
}

// main scans the level directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid. The directory defaults to ../configs and can be overridden by
// the first argument.
func main() {
	levelDir := "../configs"
	if len(os.Args) > 1 {
		levelDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
