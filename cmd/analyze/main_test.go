package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAnalysisLevel(t *testing.T) {
	level := AnalysisLevel{
		Name:        "Test Level",
		Description: "Test level",
		Rows:        6,
		Cols:        6,
		Exit:        AnalysisPoint{Row: 2, Col: 5},
		Vehicles: []AnalysisVehicle{
			{ID: "A", Orientation: "horizontal", Length: 2, Row: 2, Col: 0, Target: true},
			{ID: "B", Orientation: "vertical", Length: 3, Row: 0, Col: 4},
		},
		Messages: map[string]string{
			"welcome": "Welcome!",
		},
	}

	if level.Name != "Test Level" {
		t.Errorf("Expected Name 'Test Level', got '%s'", level.Name)
	}

	if level.Rows != 6 || level.Cols != 6 {
		t.Errorf("Expected 6x6 grid, got %dx%d", level.Rows, level.Cols)
	}

	if len(level.Vehicles) != 2 {
		t.Errorf("Expected 2 vehicles, got %d", len(level.Vehicles))
	}

	if !level.Vehicles[0].Target {
		t.Error("Expected vehicle A to be the target")
	}
}

func TestAnalysisPoint(t *testing.T) {
	point := AnalysisPoint{Row: 3, Col: 5}

	if point.Row != 3 {
		t.Errorf("Expected Row 3, got %d", point.Row)
	}

	if point.Col != 5 {
		t.Errorf("Expected Col 5, got %d", point.Col)
	}
}

func TestIsVertical(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"vertical", true},
		{"v", true},
		{"V", true},
		{"Vertical", true},
		{"horizontal", false},
		{"h", false},
		{"", false},
	}

	for _, test := range tests {
		result := isVertical(test.input)
		if result != test.expected {
			t.Errorf("isVertical(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestRenderLayout(t *testing.T) {
	level := AnalysisLevel{
		Rows: 3,
		Cols: 3,
		Vehicles: []AnalysisVehicle{
			{ID: "A", Orientation: "horizontal", Length: 2, Row: 1, Col: 0, Target: true},
			{ID: "C", Orientation: "vertical", Length: 2, Row: 0, Col: 2},
		},
	}

	board := renderLayout(&level)

	expected := []string{
		"..C",
		"AAC",
		"...",
	}

	if len(board) != len(expected) {
		t.Fatalf("Expected %d rows, got %d", len(expected), len(board))
	}

	for i, row := range expected {
		if board[i] != row {
			t.Errorf("Row %d: expected %q, got %q", i, row, board[i])
		}
	}
}

func TestEscapeRoute(t *testing.T) {
	level := AnalysisLevel{
		Rows: 6,
		Cols: 6,
		Exit: AnalysisPoint{Row: 2, Col: 5},
		Vehicles: []AnalysisVehicle{
			{ID: "A", Orientation: "horizontal", Length: 2, Row: 2, Col: 0, Target: true},
			{ID: "C", Orientation: "vertical", Length: 2, Row: 2, Col: 2},
			{ID: "B", Orientation: "vertical", Length: 3, Row: 1, Col: 4},
		},
	}

	board := renderLayout(&level)
	distance, blockers := escapeRoute(&level, board, &level.Vehicles[0])

	if distance != 4 {
		t.Errorf("Expected distance 4, got %d", distance)
	}

	if len(blockers) != 2 {
		t.Fatalf("Expected 2 blockers, got %d: %v", len(blockers), blockers)
	}

	// Nearest first
	if blockers[0] != "C" || blockers[1] != "B" {
		t.Errorf("Expected blockers [C B], got %v", blockers)
	}
}

func TestEscapeRoute_Clear(t *testing.T) {
	level := AnalysisLevel{
		Rows: 6,
		Cols: 6,
		Exit: AnalysisPoint{Row: 2, Col: 5},
		Vehicles: []AnalysisVehicle{
			{ID: "A", Orientation: "horizontal", Length: 2, Row: 2, Col: 0, Target: true},
			{ID: "B", Orientation: "vertical", Length: 3, Row: 3, Col: 4},
		},
	}

	board := renderLayout(&level)
	distance, blockers := escapeRoute(&level, board, &level.Vehicles[0])

	if distance != 4 {
		t.Errorf("Expected distance 4, got %d", distance)
	}

	if len(blockers) != 0 {
		t.Errorf("Expected no blockers, got %v", blockers)
	}
}

func TestSlideRoom(t *testing.T) {
	level := AnalysisLevel{
		Rows: 6,
		Cols: 6,
		Vehicles: []AnalysisVehicle{
			{ID: "A", Orientation: "horizontal", Length: 2, Row: 2, Col: 0, Target: true},
		},
	}

	board := renderLayout(&level)
	room := slideRoom(&level, board, &level.Vehicles[0])

	// Against the left edge: nothing leftward, four empty cells rightward
	if room != 4 {
		t.Errorf("Expected slide room 4, got %d", room)
	}
}

func TestSlideRoom_Frozen(t *testing.T) {
	level := AnalysisLevel{
		Rows: 3,
		Cols: 3,
		Vehicles: []AnalysisVehicle{
			{ID: "A", Orientation: "horizontal", Length: 2, Row: 1, Col: 0, Target: true},
			{ID: "B", Orientation: "horizontal", Length: 2, Row: 0, Col: 0},
			{ID: "C", Orientation: "vertical", Length: 3, Row: 0, Col: 2},
			{ID: "D", Orientation: "horizontal", Length: 2, Row: 2, Col: 0},
		},
	}

	board := renderLayout(&level)
	for i := range level.Vehicles {
		if room := slideRoom(&level, board, &level.Vehicles[i]); room != 0 {
			t.Errorf("Expected vehicle %s to be frozen, got room %d", level.Vehicles[i].ID, room)
		}
	}
}

func TestAnalyzeLevel_ValidFile(t *testing.T) {
	// Create a temporary test level file
	validLevel := `{
		"name": "Test Level",
		"description": "Test level",
		"rows": 6,
		"cols": 6,
		"exit": {"row": 2, "col": 5},
		"vehicles": [
			{"id": "A", "orientation": "horizontal", "length": 2, "row": 2, "col": 0, "target": true},
			{"id": "B", "orientation": "vertical", "length": 2, "row": 2, "col": 3}
		],
		"messages": {
			"welcome": "Welcome!"
		}
	}`

	tmpfile, err := os.CreateTemp("", "test_level_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(validLevel)); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	tmpfile.Close()

	// Test that analyzeLevel doesn't panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeLevel panicked: %v", r)
		}
	}()

	analyzeLevel(tmpfile.Name())
}

func TestAnalyzeLevel_InvalidFile(t *testing.T) {
	// Test with non-existent file
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeLevel panicked with invalid file: %v", r)
		}
	}()

	analyzeLevel("/non/existent/file.json")
}

func TestAnalyzeLevel_InvalidJSON(t *testing.T) {
	// Create a temporary file with invalid JSON
	invalidJSON := `{"name": "test", invalid json}`

	tmpfile, err := os.CreateTemp("", "test_level_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(invalidJSON)); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	tmpfile.Close()

	// Test that analyzeLevel doesn't panic with invalid JSON
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeLevel panicked with invalid JSON: %v", r)
		}
	}()

	analyzeLevel(tmpfile.Name())
}

func TestAnalyzeLevel_NoTarget(t *testing.T) {
	noTarget := `{
		"name": "No Target",
		"rows": 6,
		"cols": 6,
		"exit": {"row": 2, "col": 5},
		"vehicles": [
			{"id": "B", "orientation": "vertical", "length": 2, "row": 2, "col": 3}
		]
	}`

	tmpfile, err := os.CreateTemp("", "test_level_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(noTarget)); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	tmpfile.Close()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeLevel panicked without a target: %v", r)
		}
	}()

	analyzeLevel(tmpfile.Name())
}

func TestMain_Integration(t *testing.T) {
	// Create a temporary configs directory for testing
	tmpDir, err := os.MkdirTemp("", "test_configs_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create a test level file
	testLevel := `{
		"name": "Test Level",
		"description": "Test level",
		"rows": 6,
		"cols": 6,
		"exit": {"row": 2, "col": 5},
		"vehicles": [
			{"id": "A", "orientation": "horizontal", "length": 2, "row": 2, "col": 0, "target": true},
			{"id": "B", "orientation": "vertical", "length": 2, "row": 2, "col": 3}
		],
		"messages": {
			"welcome": "Welcome!"
		}
	}`

	levelPath := filepath.Join(tmpDir, "beginner.json")
	if err := os.WriteFile(levelPath, []byte(testLevel), 0644); err != nil {
		t.Fatalf("Failed to write test level: %v", err)
	}

	// Save original working directory
	originalWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	defer os.Chdir(originalWD)

	// Change to temp directory
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	// Create configs subdirectory and move the file there
	if err := os.Mkdir("configs", 0755); err != nil {
		t.Fatalf("Failed to create configs dir: %v", err)
	}

	if err := os.Rename("beginner.json", "configs/beginner.json"); err != nil {
		t.Fatalf("Failed to move level file: %v", err)
	}

	// Test that main doesn't panic (we can't easily test output without complex mocking)
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("main() panicked: %v", r)
		}
	}()

	// We can't call main() directly as it would process all hardcoded levels,
	// but we can test analyzeLevel with our test file
	analyzeLevel("configs/beginner.json")
}

func TestAnalyzeLevel_BlockedPath(t *testing.T) {
	// Level where the escape path is blocked and one vehicle is pinned
	blockedLevel := `{
		"name": "Blocked Test",
		"description": "Level with a crowded escape path",
		"rows": 6,
		"cols": 6,
		"exit": {"row": 2, "col": 5},
		"vehicles": [
			{"id": "A", "orientation": "horizontal", "length": 2, "row": 2, "col": 0, "target": true},
			{"id": "B", "orientation": "vertical", "length": 3, "row": 0, "col": 3},
			{"id": "C", "orientation": "vertical", "length": 2, "row": 2, "col": 5},
			{"id": "D", "orientation": "horizontal", "length": 2, "row": 5, "col": 2}
		],
		"messages": {
			"welcome": "Welcome!"
		}
	}`

	tmpfile, err := os.CreateTemp("", "test_level_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(blockedLevel)); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	tmpfile.Close()

	// Test that analyzeLevel handles a blocked path without panicking
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeLevel panicked with a blocked path: %v", r)
		}
	}()

	analyzeLevel(tmpfile.Name())
}
