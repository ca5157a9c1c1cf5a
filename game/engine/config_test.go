package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createValidConfig() *LevelConfig {
	config := &LevelConfig{
		Name:        "Test Level",
		Description: "A valid test level",
		Rows:        6,
		Cols:        6,
		Exit:        ExitSpec{Row: 2, Col: 5},
		Vehicles: []VehicleSpec{
			{ID: "A", Orientation: "horizontal", Length: 2, Row: 2, Col: 0, Target: true},
			{ID: "B", Orientation: "vertical", Length: 2, Row: 2, Col: 3},
			{ID: "C", Orientation: "horizontal", Length: 3, Row: 0, Col: 1},
		},
	}
	config.Messages.Welcome = "Welcome to the test lot!"
	config.Messages.Solved = "Solved in %d steps!"
	return config
}

func TestValidateLevelConfig_ValidConfig(t *testing.T) {
	config := createValidConfig()
	if err := ValidateLevelConfig(config); err != nil {
		t.Errorf("Expected valid config to pass validation, got: %v", err)
	}
}

func TestValidateLevelConfig_NilConfig(t *testing.T) {
	err := ValidateLevelConfig(nil)
	if !errors.Is(err, ErrMalformedLevel) {
		t.Errorf("Expected malformed level error for nil config, got: %v", err)
	}
}

func TestValidateLevelConfig_MissingName(t *testing.T) {
	config := createValidConfig()
	config.Name = ""
	err := ValidateLevelConfig(config)
	if err == nil {
		t.Fatal("Expected error for missing name")
	}
	if !strings.Contains(err.Error(), "name is required") {
		t.Errorf("Expected name validation error, got: %v", err)
	}
}

func TestValidateLevelConfig_MissingDescription(t *testing.T) {
	config := createValidConfig()
	config.Description = ""
	err := ValidateLevelConfig(config)
	if err == nil || !strings.Contains(err.Error(), "description is required") {
		t.Errorf("Expected description validation error, got: %v", err)
	}
}

func TestValidateLevelConfig_GridDimensions(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
	}{
		{"rows too small", 1, 6},
		{"cols too small", 6, 0},
		{"rows too large", 51, 6},
		{"cols too large", 6, 51},
		{"negative rows", -3, 6},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			config.Rows = test.rows
			config.Cols = test.cols
			err := ValidateLevelConfig(config)
			if !errors.Is(err, ErrMalformedLevel) {
				t.Errorf("Expected malformed level error, got: %v", err)
			}
			if err != nil && !strings.Contains(err.Error(), "must be between") {
				t.Errorf("Expected dimension range in error, got: %v", err)
			}
		})
	}
}

func TestValidateLevelConfig_NoVehicles(t *testing.T) {
	config := createValidConfig()
	config.Vehicles = nil
	err := ValidateLevelConfig(config)
	if err == nil || !strings.Contains(err.Error(), "at least one vehicle") {
		t.Errorf("Expected vehicle count error, got: %v", err)
	}
}

func TestValidateLevelConfig_VehicleIDs(t *testing.T) {
	t.Run("empty id", func(t *testing.T) {
		config := createValidConfig()
		config.Vehicles[1].ID = ""
		err := ValidateLevelConfig(config)
		if err == nil || !strings.Contains(err.Error(), "id is required") {
			t.Errorf("Expected id validation error, got: %v", err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		config := createValidConfig()
		config.Vehicles[2].ID = "B"
		err := ValidateLevelConfig(config)
		if err == nil || !strings.Contains(err.Error(), "duplicate vehicle id") {
			t.Errorf("Expected duplicate id error, got: %v", err)
		}
	})
}

func TestValidateLevelConfig_BadOrientation(t *testing.T) {
	config := createValidConfig()
	config.Vehicles[0].Orientation = "diagonal"
	err := ValidateLevelConfig(config)
	if err == nil || !strings.Contains(err.Error(), "unknown orientation") {
		t.Errorf("Expected orientation error, got: %v", err)
	}
}

func TestValidateLevelConfig_ShortVehicle(t *testing.T) {
	config := createValidConfig()
	config.Vehicles[1].Length = 1
	err := ValidateLevelConfig(config)
	if err == nil || !strings.Contains(err.Error(), "length must be at least") {
		t.Errorf("Expected length error, got: %v", err)
	}
}

func TestValidateLevelConfig_VehicleOutOfBounds(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*LevelConfig)
		expected string
	}{
		{
			"anchor outside",
			func(c *LevelConfig) { c.Vehicles[1].Row = 7 },
			"outside the 6x6 grid",
		},
		{
			"tail hangs off the right edge",
			func(c *LevelConfig) { c.Vehicles[2].Col = 4 },
			"outside the 6x6 grid",
		},
		{
			"negative anchor",
			func(c *LevelConfig) { c.Vehicles[1].Col = -1 },
			"outside the 6x6 grid",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			test.mutate(config)
			err := ValidateLevelConfig(config)
			if err == nil || !strings.Contains(err.Error(), test.expected) {
				t.Errorf("Expected bounds error, got: %v", err)
			}
		})
	}
}

func TestValidateLevelConfig_TargetCount(t *testing.T) {
	t.Run("no target", func(t *testing.T) {
		config := createValidConfig()
		config.Vehicles[0].Target = false
		err := ValidateLevelConfig(config)
		if err == nil || !strings.Contains(err.Error(), "exactly one vehicle must be the target, got 0") {
			t.Errorf("Expected target count error, got: %v", err)
		}
	})

	t.Run("two targets", func(t *testing.T) {
		config := createValidConfig()
		config.Vehicles[1].Target = true
		err := ValidateLevelConfig(config)
		if err == nil || !strings.Contains(err.Error(), "exactly one vehicle must be the target, got 2") {
			t.Errorf("Expected target count error, got: %v", err)
		}
	})
}

func TestValidateLevelConfig_Overlap(t *testing.T) {
	config := createValidConfig()
	// Crosses vehicle B at (2,3)
	config.Vehicles = append(config.Vehicles, VehicleSpec{
		ID: "D", Orientation: "horizontal", Length: 2, Row: 2, Col: 3,
	})
	err := ValidateLevelConfig(config)
	if err == nil || !strings.Contains(err.Error(), "overlap") {
		t.Errorf("Expected overlap error, got: %v", err)
	}
}

func TestValidateLevelConfig_Exit(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*LevelConfig)
		expected string
	}{
		{
			"exit outside the grid",
			func(c *LevelConfig) { c.Exit = ExitSpec{Row: 2, Col: 6} },
			"outside the 6x6 grid",
		},
		{
			"exit in the interior",
			func(c *LevelConfig) { c.Exit = ExitSpec{Row: 2, Col: 3} },
			"left or right edge",
		},
		{
			"exit in the wrong row",
			func(c *LevelConfig) { c.Exit = ExitSpec{Row: 4, Col: 5} },
			"does not match target vehicle row",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			test.mutate(config)
			err := ValidateLevelConfig(config)
			if err == nil || !strings.Contains(err.Error(), test.expected) {
				t.Errorf("Expected exit validation error, got: %v", err)
			}
		})
	}

	t.Run("vertical target needs a top or bottom exit", func(t *testing.T) {
		config := createValidConfig()
		config.Vehicles[0].Target = false
		config.Vehicles[1].Target = true
		err := ValidateLevelConfig(config)
		if err == nil || !strings.Contains(err.Error(), "top or bottom edge") {
			t.Errorf("Expected vertical exit error, got: %v", err)
		}
	})

	t.Run("vertical target with aligned bottom exit", func(t *testing.T) {
		config := createValidConfig()
		config.Vehicles[0].Target = false
		config.Vehicles[1].Target = true
		config.Exit = ExitSpec{Row: 5, Col: 3}
		if err := ValidateLevelConfig(config); err != nil {
			t.Errorf("Expected valid vertical exit, got: %v", err)
		}
	})
}

func TestValidateLevelConfig_Messages(t *testing.T) {
	t.Run("missing welcome", func(t *testing.T) {
		config := createValidConfig()
		config.Messages.Welcome = ""
		err := ValidateLevelConfig(config)
		if err == nil || !strings.Contains(err.Error(), "messages.welcome is required") {
			t.Errorf("Expected welcome validation error, got: %v", err)
		}
	})

	t.Run("missing solved", func(t *testing.T) {
		config := createValidConfig()
		config.Messages.Solved = ""
		err := ValidateLevelConfig(config)
		if err == nil || !strings.Contains(err.Error(), "messages.solved is required") {
			t.Errorf("Expected solved validation error, got: %v", err)
		}
	})

	t.Run("solved without step slot", func(t *testing.T) {
		config := createValidConfig()
		config.Messages.Solved = "You did it!"
		err := ValidateLevelConfig(config)
		if err == nil || !strings.Contains(err.Error(), "must contain %d") {
			t.Errorf("Expected format validation error, got: %v", err)
		}
	})
}

func TestLoadLevelConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "valid.json")
		content := `{
			"name": "loaded",
			"description": "Loaded from disk",
			"rows": 6,
			"cols": 6,
			"exit": {"row": 2, "col": 5},
			"vehicles": [
				{"id": "A", "orientation": "horizontal", "length": 2, "row": 2, "col": 0, "target": true},
				{"id": "B", "orientation": "v", "length": 3, "row": 1, "col": 4}
			],
			"messages": {"welcome": "Hi!", "solved": "Done in %d steps!"}
		}`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}

		config, err := LoadLevelConfig(path)
		if err != nil {
			t.Fatalf("Expected load to succeed, got: %v", err)
		}
		if config.Name != "loaded" {
			t.Errorf("Expected name 'loaded', got %q", config.Name)
		}
		if len(config.Vehicles) != 2 {
			t.Errorf("Expected 2 vehicles, got %d", len(config.Vehicles))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadLevelConfig(filepath.Join(dir, "missing.json")); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}
		if _, err := LoadLevelConfig(path); err == nil {
			t.Error("Expected error for malformed json")
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.json")
		content := `{"name": "bad", "description": "No vehicles", "rows": 6, "cols": 6,
			"exit": {"row": 2, "col": 5}, "vehicles": [],
			"messages": {"welcome": "Hi!", "solved": "Done in %d steps!"}}`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}
		if _, err := LoadLevelConfig(path); !errors.Is(err, ErrMalformedLevel) {
			t.Errorf("Expected malformed level error, got: %v", err)
		}
	})
}

func TestDefaultLevelConfig(t *testing.T) {
	config := DefaultLevelConfig()
	if err := ValidateLevelConfig(config); err != nil {
		t.Fatalf("Expected built-in level to validate, got: %v", err)
	}
	if config.Name != "tutorial" {
		t.Errorf("Expected name 'tutorial', got %q", config.Name)
	}
	if config.Rows != 6 || config.Cols != 6 {
		t.Errorf("Expected 6x6 grid, got %dx%d", config.Rows, config.Cols)
	}
}

func TestInitGameStateFromConfig(t *testing.T) {
	config := createValidConfig()
	state, err := InitGameStateFromConfig(config)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if state.Steps != 0 {
		t.Errorf("Expected 0 steps, got %d", state.Steps)
	}
	if state.Solved {
		t.Error("Expected level not to start solved")
	}
	if len(state.Vehicles) != 3 {
		t.Errorf("Expected 3 vehicles, got %d", len(state.Vehicles))
	}
	if state.Exit != (Position{Row: 2, Col: 5}) {
		t.Errorf("Expected exit (2,5), got (%d,%d)", state.Exit.Row, state.Exit.Col)
	}
	if state.Message != config.Messages.Welcome {
		t.Errorf("Expected welcome message, got %q", state.Message)
	}
	if len(state.Board) != 6 {
		t.Errorf("Expected 6 board rows, got %d", len(state.Board))
	}

	for _, v := range state.Vehicles {
		for _, pos := range v.Cells() {
			occupant, err := state.grid.Occupant(pos.Row, pos.Col)
			if err != nil {
				t.Fatalf("Occupant(%d,%d): %v", pos.Row, pos.Col, err)
			}
			if occupant != v.ID {
				t.Errorf("Cell (%d,%d): expected %s, got %q", pos.Row, pos.Col, v.ID, occupant)
			}
		}
	}

	t.Run("nil config uses the tutorial", func(t *testing.T) {
		state, err := InitGameStateFromConfig(nil)
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		if state.LevelName != "tutorial" {
			t.Errorf("Expected tutorial level, got %q", state.LevelName)
		}
	})
}

func TestRebuildGrid(t *testing.T) {
	config := createValidConfig()
	state, err := InitGameStateFromConfig(config)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// Drop the derived structures, as a JSON round-trip would
	state.grid = nil
	state.Board = nil

	if err := state.RebuildGrid(); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if occupant, _ := state.grid.Occupant(2, 3); occupant != "B" {
		t.Errorf("Expected (2,3) held by B after rebuild, got %q", occupant)
	}
	if len(state.Board) != 6 {
		t.Errorf("Expected board rebuilt, got %d rows", len(state.Board))
	}

	t.Run("overlapping vehicles rejected", func(t *testing.T) {
		state.Vehicles[2].Anchor = Position{Row: 2, Col: 2}
		if err := state.RebuildGrid(); !errors.Is(err, ErrOverlap) {
			t.Errorf("Expected overlap error, got: %v", err)
		}
	})
}
