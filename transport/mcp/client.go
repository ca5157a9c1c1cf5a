package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gridgames/parking-panic/game/engine"
	"github.com/gridgames/parking-panic/game/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Parking Panic",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Parking Panic - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Slide vehicles along their axis until the target car reaches the exit.
Horizontal vehicles slide left/right, vertical vehicles slide up/down.
Vehicles never rotate and never pass through each other.

AVAILABLE TOOLS:
- get_state: Get current board and progress
- move_vehicle: Slide one vehicle (requires intent explanation)
- bulk_move: Slide a whole sequence at once - requires intent explanation
- undo_move: Roll back the most recent slide
- reset_session: Restore the starting layout
- get_history: View past slides
- get_hint: See which vehicles pin the target in place
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_levels: List available levels
- game_instructions: Get comprehensive game instructions and rules
- describe_cell: Get detailed info about a specific board cell

NOTE: The 'intent' parameter on move_vehicle/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional level selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the level to play (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_vehicle",
		Description: "Slide one vehicle along its axis",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"vehicle": map[string]interface{}{
					"type":        "string",
					"description": "ID of the vehicle to slide (a board letter, e.g. \"A\")",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide; must match the vehicle's axis",
				},
				"distance": map[string]interface{}{
					"type":        "integer",
					"description": "How many cells to slide (default 1)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this slide (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "vehicle", "direction"},
		},
	}, c.handleMoveVehicle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple slides in sequence, stopping at the first rejection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"vehicle": map[string]interface{}{
								"type":        "string",
								"description": "Vehicle ID",
							},
							"direction": map[string]interface{}{
								"type": "string",
								"enum": []string{"up", "down", "left", "right"},
							},
							"distance": map[string]interface{}{
								"type":        "integer",
								"description": "Cells to slide (default 1)",
							},
						},
						"required": []string{"vehicle", "direction"},
					},
					"description": "Array of slides to execute in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of slides (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo_move",
		Description: "Roll back the most recent slide",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndoMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_session",
		Description: "Restore the starting layout and zero the step counter",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleResetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_hint",
		Description: "Analyze the board: which vehicles pin the target in place and how far each can slide",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a specific board cell: whether it is empty, which vehicle occupies it, and whether it is the exit.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell to describe (0-based, top to bottom)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell to describe (0-based, left to right)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	levelName, _ := args["level_name"].(string)

	body := map[string]string{}
	if levelName != "" {
		body["level_id"] = levelName
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n\n%s",
		session.ID, session.LevelName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Level: %s, Created: %s)\n",
			s.ID, s.LevelName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveVehicle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	vehicle, _ := args["vehicle"].(string)
	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"vehicle":   vehicle,
		"direction": direction,
	}
	if distance, ok := args["distance"].(float64); ok && distance > 0 {
		body["distance"] = int(distance)
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	// Convert moves to request objects
	moves := make([]map[string]interface{}, 0, len(movesRaw))
	for _, m := range movesRaw {
		entry, ok := m.(map[string]interface{})
		if !ok {
			continue
		}
		move := map[string]interface{}{
			"vehicle":   entry["vehicle"],
			"direction": entry["direction"],
		}
		if distance, ok := entry["distance"].(float64); ok && distance > 0 {
			move["distance"] = int(distance)
		}
		moves = append(moves, move)
	}

	body := map[string]interface{}{
		"moves": moves,
	}

	var result service.BulkMoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/bulk-move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatBulkMoveResult(sessionID, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleUndoMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/undo", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleResetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Also fetch current segment from live state
	var state engine.GameState
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		// If fetching state fails, still return the history
		result := formatHistory(&history)
		return mcp.NewToolResultText(result), nil
	}

	result := formatHistory(&history)
	result += "\n" + formatCurrentSegment(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	err := c.apiCall("GET", "/api/levels", nil, &levels)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Levels:\n\n"
	for _, level := range levels {
		result += fmt.Sprintf("• %s\n  %s\n  Grid: %dx%d, Vehicles: %d\n\n",
			level.LevelID, level.Description, level.Rows, level.Cols, level.Vehicles)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHint(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎮 Parking Panic - Complete Instructions

GAME OBJECTIVE:
Slide vehicles out of the way until the target car can reach the exit on
the edge of the lot.

GAME MECHANICS:
• Vehicles: Each vehicle is 1 cell wide and 2+ cells long
• Orientation: Horizontal vehicles slide only left/right, vertical only up/down
• Sliding: A slide of N cells needs N empty cells in that direction
• Atomicity: A slide either fully succeeds or nothing changes
• Steps: Every committed slide counts 1 step, regardless of distance
• Victory: The target car covers the exit cell

BOARD LEGEND:
• Letters (A, B, C, ...) - Vehicles; a vehicle's letter fills every cell it occupies
• . - Empty cell
• The target vehicle is the one flagged in the level (usually A or X)
• The exit is a cell on the edge, aligned with the target's row or column

🤖 AI AGENTS - SUCCESS STRATEGIES:

🗺️ READ THE BOARD CELL BY CELL:
Rows print top to bottom, columns left to right, both 0-based.
"AA.B.." means A occupies (row,0) and (row,1), B occupies (row,3).
Count cells before planning a slide; off-by-one distances get rejected.

🧩 WORK THE BLOCKER CHAIN:
1. Find the target vehicle and the exit
2. List every vehicle standing between the target and the exit
3. For each blocker, ask: which way can it move, and what blocks it?
4. Clear blockers-of-blockers first; the puzzle is the chain, not the target

📏 DISTANCES MATTER:
- A vehicle can slide at most as far as the run of empty cells ahead of it
- Use get_hint to see each blocker's legal slide range
- Use describe_cell when unsure what occupies a square

🔄 ITERATIVE DEVELOPMENT:
1. Analysis: read the board, map every vehicle's position and axis
2. Planning: order the blocker chain into a slide sequence
3. Execution: prefer bulk_move for a planned sequence; it stops at the
   first rejection and reports exactly which slide failed and why
4. Refinement: undo_move rolls back one slide; reset_session restarts

🚨 CRITICAL PITFALLS TO AVOID:
- ❌ Sliding a vehicle across its axis (horizontal vehicles never move up/down)
- ❌ Planning through occupied cells; vehicles never jump or overlap
- ❌ Forgetting that long vehicles need their whole body in bounds
- ❌ Treating a rejected slide as fatal; the board is unchanged, re-plan

MOVEMENT COMMANDS:
- move_vehicle: one slide (vehicle, direction, optional distance)
- bulk_move: a sequence of slides executed in order
- undo_move / reset_session for recovery

VICTORY CONDITION:
- The target car reaches the exit; the game reports solved and the
  step count. Further slides are rejected until reset.

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has unique 4-character ID
- Sessions maintain independent state and level
- Use session-specific tools for multi-game management

Remember: every level is solvable from its starting layout. If you are
stuck, reset and attack the blocker chain in a different order.

Good luck clearing the lot! 🚗`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	rowF, okRow := args["row"].(float64)
	colF, okCol := args["col"].(float64)
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required"), nil
	}
	row, col := int(rowF), int(colF)

	// Get the current game state to access the board
	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Check bounds
	if row < 0 || row >= state.Rows || col < 0 || col >= state.Cols {
		return mcp.NewToolResultError(fmt.Sprintf("Cell (%d, %d) is out of bounds. The board is %dx%d (rows 0-%d, cols 0-%d)",
			row, col, state.Rows, state.Cols, state.Rows-1, state.Cols-1)), nil
	}

	occupant := occupantAt(&state, row, col)
	isExit := row == state.Exit.Row && col == state.Exit.Col

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Cell at (%d, %d):\n", row, col))
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━\n")

	if occupant == "" {
		b.WriteString("Occupant: none (empty cell)\n")
	} else {
		b.WriteString(fmt.Sprintf("Occupant: vehicle %s\n", occupant))
		if v := findVehicle(&state, occupant); v != nil {
			span := "right"
			if v.Orientation == engine.Vertical {
				span = "down"
			}
			b.WriteString(fmt.Sprintf("Orientation: %s, length %d, anchored at (%d,%d) extending %s\n",
				v.Orientation, v.Length, v.Anchor.Row, v.Anchor.Col, span))
			if v.Target {
				b.WriteString("This is the TARGET vehicle; get it to the exit.\n")
			}
			if ranges := formatMobility(&state, v); ranges != "" {
				b.WriteString(fmt.Sprintf("Can slide: %s\n", ranges))
			} else {
				b.WriteString("Can slide: nowhere (boxed in)\n")
			}
		}
	}

	if isExit {
		b.WriteString("This cell is the EXIT. The target vehicle must cover it to win.\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\n\n%s",
		session.ID, session.LevelName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header (include cumulative total moves)
	result.WriteString(fmt.Sprintf("Level: %s | Steps: %d | Total moves: %d\n",
		state.LevelName, state.Steps, state.TotalMoves))
	result.WriteString(fmt.Sprintf("Exit: (%d,%d)\n\n", state.Exit.Row, state.Exit.Col))

	// Board, one row per line; mark the exit row when it sits on the right edge
	board := state.Board
	if len(board) != state.Rows {
		board = renderBoard(state)
	}
	for r, row := range board {
		result.WriteString(row)
		if r == state.Exit.Row && state.Exit.Col == state.Cols-1 {
			result.WriteString(" ⇒ EXIT")
		}
		result.WriteString("\n")
	}

	// Status
	if state.Solved {
		result.WriteString("\n🎉 SOLVED!")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	if result.Success {
		response = "✓ Slide successful\n"
	} else {
		response = "✗ Slide rejected\n"
	}

	// Compact step summary (if available)
	if result.Step != nil {
		s := result.Step
		status := "✗"
		if s.Success {
			status = "✓"
		}
		response += fmt.Sprintf("Step: %s %s %d (%d,%d)→(%d,%d) steps=%d %s\n",
			s.Vehicle, s.Dir, s.Distance, s.From.Row, s.From.Col, s.To.Row, s.To.Col, s.StepCount, status)
	}

	// Failure diagnostic (if available)
	if result.Attempted != nil {
		a := result.Attempted
		response += fmt.Sprintf("Rejected: %s %s %d reason=%s", a.Vehicle, a.Dir, a.Distance, a.Reason)
		if a.Blocker != "" {
			response += fmt.Sprintf(" blocker=%s", a.Blocker)
		}
		if a.Pos != nil {
			response += fmt.Sprintf(" at (%d,%d)", a.Pos.Row, a.Pos.Col)
		}
		response += "\n"
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	// Session header
	rows, cols := 0, 0
	levelName := ""
	if result.GameState != nil {
		rows, cols = result.GameState.Rows, result.GameState.Cols
		levelName = result.GameState.LevelName
	}
	b.WriteString(fmt.Sprintf("Session: %s • Level: %s • Grid: %dx%d\n",
		sessionID, levelName, rows, cols))

	// Bulk summary
	b.WriteString(fmt.Sprintf("Executed %d/%d moves (steps %d→%d)\n",
		result.MovesExecuted, result.RequestedMoves, result.StartSteps, result.EndSteps))
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped: %s\n", result.StoppedReason))
	}

	// Events (keep as-is, concise)
	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	// Per-step trace for this call
	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			status := "✗"
			if s.Success {
				status = "✓"
			}
			b.WriteString(fmt.Sprintf("%d. %s %s %d (%d,%d)→(%d,%d) steps=%d %s\n",
				s.Idx, s.Vehicle, s.Dir, s.Distance, s.From.Row, s.From.Col, s.To.Row, s.To.Col, s.StepCount, status))
		}
	}

	// Stopped diagnostic
	if result.Attempted != nil {
		a := result.Attempted
		b.WriteString(fmt.Sprintf("\nBlocked on move %d: %s %s %d reason=%s",
			result.StoppedOnMove, a.Vehicle, a.Dir, a.Distance, a.Reason))
		if a.Blocker != "" {
			b.WriteString(fmt.Sprintf(" blocker=%s", a.Blocker))
		}
		if a.Pos != nil {
			b.WriteString(fmt.Sprintf(" at (%d,%d)", a.Pos.Row, a.Pos.Col))
		}
		b.WriteString("\n")
	}

	// Blocker analysis from the final state
	if len(result.Blockers) > 0 {
		b.WriteString(fmt.Sprintf("\nVehicles pinning the target: %s\n", strings.Join(result.Blockers, ", ")))
	}

	// Full state at the end (kept for compatibility)
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) | Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for i, move := range history.Moves {
		num := (history.Page-1)*history.PageSize + i + 1
		result += fmt.Sprintf("%d. %s %s %d (%d,%d)→(%d,%d) [step %d]\n",
			num, move.Vehicle, move.Direction, move.Distance,
			move.From.Row, move.From.Col, move.To.Row, move.To.Col, move.Step)
	}

	return result
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	moves := state.CurrentMoves
	header := fmt.Sprintf("Current Attempt | Slides since reset: %d\n\n", state.Steps)
	if len(moves) == 0 {
		return header + "(no slides in current attempt)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, move := range moves {
		// i is zero-based within the segment
		b.WriteString(fmt.Sprintf("%d. %s %s %d (%d,%d)→(%d,%d)\n",
			i+1, move.Vehicle, move.Direction, move.Distance,
			move.From.Row, move.From.Col, move.To.Row, move.To.Col))
	}
	return b.String()
}

// formatHint analyzes the board for the target's escape path
func formatHint(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}
	if state.Solved {
		return "Already solved! Reset the session to play again."
	}

	target := findTarget(state)
	if target == nil {
		return "No target vehicle in this level"
	}

	blockers, distance := escapePath(state, target)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Target %s is %d cell(s) from the exit at (%d,%d).\n",
		target.ID, distance, state.Exit.Row, state.Exit.Col))

	if len(blockers) == 0 {
		dir := escapeDirection(state, target)
		b.WriteString(fmt.Sprintf("The path is clear: slide %s %s %d to win.\n", target.ID, dir, distance))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Vehicles in the way (nearest first): %s\n\n", joinIDs(blockers)))
	for _, id := range blockers {
		v := findVehicle(state, string(id))
		if v == nil {
			continue
		}
		if ranges := formatMobility(state, v); ranges != "" {
			b.WriteString(fmt.Sprintf("- %s can slide: %s\n", v.ID, ranges))
		} else {
			b.WriteString(fmt.Sprintf("- %s cannot move; clear its neighbors first\n", v.ID))
		}
	}
	return b.String()
}

// Board helpers. These work from the rendered board so the MCP side never
// needs a live engine.

// renderBoard rebuilds the row strings from the vehicle list
func renderBoard(state *engine.GameState) []string {
	rows := make([][]byte, state.Rows)
	for r := range rows {
		rows[r] = bytes.Repeat([]byte{'.'}, state.Cols)
	}
	for _, v := range state.Vehicles {
		for _, cell := range v.Cells() {
			if cell.Row >= 0 && cell.Row < state.Rows && cell.Col >= 0 && cell.Col < state.Cols {
				rows[cell.Row][cell.Col] = byte(v.ID[0])
			}
		}
	}
	board := make([]string, state.Rows)
	for r := range rows {
		board[r] = string(rows[r])
	}
	return board
}

// occupantAt returns the vehicle id at (row,col), or "" for an empty cell
func occupantAt(state *engine.GameState, row, col int) string {
	board := state.Board
	if len(board) != state.Rows {
		board = renderBoard(state)
	}
	if row < 0 || row >= len(board) || col < 0 || col >= len(board[row]) {
		return ""
	}
	if board[row][col] == '.' {
		return ""
	}
	return string(board[row][col])
}

func findVehicle(state *engine.GameState, id string) *engine.Vehicle {
	for _, v := range state.Vehicles {
		if string(v.ID) == id {
			return v
		}
	}
	return nil
}

func findTarget(state *engine.GameState) *engine.Vehicle {
	for _, v := range state.Vehicles {
		if v.Target {
			return v
		}
	}
	return nil
}

// escapeDirection returns the direction the target must travel to reach the exit
func escapeDirection(state *engine.GameState, target *engine.Vehicle) string {
	if target.Orientation == engine.Horizontal {
		if state.Exit.Col >= target.Anchor.Col {
			return "right"
		}
		return "left"
	}
	if state.Exit.Row >= target.Anchor.Row {
		return "down"
	}
	return "up"
}

// escapePath lists the distinct vehicles between the target and the exit,
// nearest first, and the number of cells the target must travel
func escapePath(state *engine.GameState, target *engine.Vehicle) ([]engine.VehicleID, int) {
	var blockers []engine.VehicleID
	seen := make(map[string]bool)
	distance := 0

	appendOccupant := func(row, col int) {
		id := occupantAt(state, row, col)
		if id != "" && id != string(target.ID) && !seen[id] {
			seen[id] = true
			blockers = append(blockers, engine.VehicleID(id))
		}
	}

	if target.Orientation == engine.Horizontal {
		front := target.Anchor.Col + target.Length - 1
		if state.Exit.Col > front {
			distance = state.Exit.Col - front
			for col := front + 1; col <= state.Exit.Col; col++ {
				appendOccupant(target.Anchor.Row, col)
			}
		} else if state.Exit.Col < target.Anchor.Col {
			distance = target.Anchor.Col - state.Exit.Col
			for col := target.Anchor.Col - 1; col >= state.Exit.Col; col-- {
				appendOccupant(target.Anchor.Row, col)
			}
		}
	} else {
		front := target.Anchor.Row + target.Length - 1
		if state.Exit.Row > front {
			distance = state.Exit.Row - front
			for row := front + 1; row <= state.Exit.Row; row++ {
				appendOccupant(row, target.Anchor.Col)
			}
		} else if state.Exit.Row < target.Anchor.Row {
			distance = target.Anchor.Row - state.Exit.Row
			for row := target.Anchor.Row - 1; row >= state.Exit.Row; row-- {
				appendOccupant(row, target.Anchor.Col)
			}
		}
	}

	return blockers, distance
}

// slideRange counts how many cells the vehicle could slide in one direction
func slideRange(state *engine.GameState, v *engine.Vehicle, dir engine.Direction) int {
	dRow, dCol := 0, 0
	var edge engine.Position
	switch dir {
	case engine.Up:
		dRow = -1
		edge = v.Anchor
	case engine.Down:
		dRow = 1
		edge = engine.Position{Row: v.Anchor.Row + v.Length - 1, Col: v.Anchor.Col}
	case engine.Left:
		dCol = -1
		edge = v.Anchor
	case engine.Right:
		dCol = 1
		edge = engine.Position{Row: v.Anchor.Row, Col: v.Anchor.Col + v.Length - 1}
	}

	count := 0
	row, col := edge.Row+dRow, edge.Col+dCol
	for row >= 0 && row < state.Rows && col >= 0 && col < state.Cols {
		if occupantAt(state, row, col) != "" {
			break
		}
		count++
		row += dRow
		col += dCol
	}
	return count
}

// formatMobility renders a vehicle's legal slide ranges, e.g. "up 1, down 2"
func formatMobility(state *engine.GameState, v *engine.Vehicle) string {
	var dirs []engine.Direction
	if v.Orientation == engine.Horizontal {
		dirs = []engine.Direction{engine.Left, engine.Right}
	} else {
		dirs = []engine.Direction{engine.Up, engine.Down}
	}

	var parts []string
	for _, dir := range dirs {
		if n := slideRange(state, v, dir); n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", dir, n))
		}
	}
	return strings.Join(parts, ", ")
}

func joinIDs(ids []engine.VehicleID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
