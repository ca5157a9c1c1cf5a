package engine

import "fmt"

// CountOccupiedCells counts the grid cells currently held by any vehicle
func CountOccupiedCells(state *GameState) int {
	if state.grid == nil {
		return 0
	}
	return state.grid.OccupiedCount()
}

// ExitDirection returns the direction the target vehicle travels to reach
// the exit
func ExitDirection(state *GameState) Direction {
	target := state.TargetVehicle()
	if target == nil {
		return ""
	}
	if target.Orientation == Horizontal {
		if state.Exit.Col == 0 {
			return Left
		}
		return Right
	}
	if state.Exit.Row == 0 {
		return Up
	}
	return Down
}

// ExitPath returns the cells between the target's leading edge and the exit,
// nearest first and including the exit cell. Empty when the target already
// covers the exit.
func ExitPath(state *GameState) []Position {
	target := state.TargetVehicle()
	if target == nil || target.Occupies(state.Exit) {
		return nil
	}

	dir := ExitDirection(state)
	dr, dc := dir.delta()

	lead := target.Anchor
	if dir == Right {
		lead.Col += target.Length - 1
	}
	if dir == Down {
		lead.Row += target.Length - 1
	}

	var path []Position
	for pos := (Position{Row: lead.Row + dr, Col: lead.Col + dc}); ; pos.Row, pos.Col = pos.Row+dr, pos.Col+dc {
		if !state.grid.InBounds(pos) {
			break
		}
		path = append(path, pos)
		if pos == state.Exit {
			break
		}
	}
	return path
}

// ExitDistance returns how many cells the target must still travel, 0 when
// it covers the exit
func ExitDistance(state *GameState) int {
	return len(ExitPath(state))
}

// BlockersToExit returns the vehicles sitting on the exit path, nearest
// first, each listed once
func BlockersToExit(state *GameState) []VehicleID {
	var blockers []VehicleID
	seen := make(map[VehicleID]bool)
	for _, pos := range ExitPath(state) {
		occupant, err := state.grid.Occupant(pos.Row, pos.Col)
		if err != nil || occupant == "" || seen[occupant] {
			continue
		}
		seen[occupant] = true
		blockers = append(blockers, occupant)
	}
	return blockers
}

// MaxSlide returns how many cells the vehicle could slide in the given
// direction right now. 0 for unknown vehicles, cross-axis directions, or a
// vehicle already against an obstacle.
func MaxSlide(state *GameState, id VehicleID, dir Direction) int {
	v := state.VehicleByID(id)
	if v == nil || dir.Axis() != v.Orientation {
		return 0
	}

	dr, dc := dir.delta()
	lead := v.Anchor
	if dir == Right {
		lead.Col += v.Length - 1
	}
	if dir == Down {
		lead.Row += v.Length - 1
	}

	slide := 0
	for pos := (Position{Row: lead.Row + dr, Col: lead.Col + dc}); state.grid.InBounds(pos); pos.Row, pos.Col = pos.Row+dr, pos.Col+dc {
		occupant, err := state.grid.Occupant(pos.Row, pos.Col)
		if err != nil || occupant != "" {
			break
		}
		slide++
	}
	return slide
}

// VehicleMobility reports the maximum slide per on-axis direction
func VehicleMobility(state *GameState, id VehicleID) map[Direction]int {
	v := state.VehicleByID(id)
	if v == nil {
		return nil
	}

	directions := []Direction{Left, Right}
	if v.Orientation == Vertical {
		directions = []Direction{Up, Down}
	}

	mobility := make(map[Direction]int, 2)
	for _, dir := range directions {
		mobility[dir] = MaxSlide(state, id, dir)
	}
	return mobility
}

// MovableVehicles returns the ids of vehicles with at least one legal move
func MovableVehicles(state *GameState) []VehicleID {
	var movable []VehicleID
	for _, v := range state.Vehicles {
		for _, slide := range VehicleMobility(state, v.ID) {
			if slide > 0 {
				movable = append(movable, v.ID)
				break
			}
		}
	}
	return movable
}

// AnalyzeExitPath summarizes how close the current attempt is to a solve
func AnalyzeExitPath(state *GameState) string {
	if state.Solved {
		return "SOLVED: target vehicle is at the exit!"
	}

	target := state.TargetVehicle()
	if target == nil {
		return "INVALID: level has no target vehicle"
	}

	blockers := BlockersToExit(state)
	distance := ExitDistance(state)

	switch len(blockers) {
	case 0:
		return fmt.Sprintf("CLEAR: open path, %d cells to the exit", distance)
	case 1:
		return fmt.Sprintf("CLOSE: only %s stands between %s and the exit", blockers[0], target.ID)
	default:
		return fmt.Sprintf("BLOCKED: %d vehicles on the exit path", len(blockers))
	}
}
