// Package api provides the HTTP/JSON REST, SSE and WebSocket front ends for
// the peg-solitaire engine.
package api

import "github.com/yourusername/pegengine/pkg/engine"

// ============================================================================
// Request Types
// ============================================================================

// NewGameRequest starts a game. Exactly one of Name and Board is set.
type NewGameRequest struct {
	Name    string `json:"name,omitempty"`    // Catalog board name
	Board   string `json:"board,omitempty"`   // Serialized board string
	Reverse bool   `json:"reverse,omitempty"` // Build-up mode
	Plural  bool   `json:"plural,omitempty"`  // Force plural rules
}

// SelectRequest selects the peg at (col,row).
type SelectRequest struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// MoveRequest commits one jump. Either Direction is set, or Target is set
// with an optional Source (default: the current selection).
type MoveRequest struct {
	Direction string           `json:"direction,omitempty"` // "left", "upRight", ...
	Target    *engine.Position `json:"target,omitempty"`
	Source    *engine.Position `json:"source,omitempty"`
	DX        *float64         `json:"dx,omitempty"` // Drag displacement
	DY        *float64         `json:"dy,omitempty"`
}

// DecodeRequest is the body of POST /api/boards/decode.
type DecodeRequest struct {
	Board string `json:"board"`
}

// SolveRequest is the body of POST /api/solve.
type SolveRequest struct {
	Name               string `json:"name,omitempty"`
	Board              string `json:"board,omitempty"`
	Game               string `json:"game,omitempty"` // Solve from a session's current position
	MaxNodes           int    `json:"max_nodes,omitempty"`
	RequireSingularity bool   `json:"require_singularity,omitempty"`
}

// ============================================================================
// Response Types
// ============================================================================

// GameResponse is returned by every call that reads or mutates a game.
type GameResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name,omitempty"`
	Moved *bool           `json:"moved,omitempty"` // Set by mutating calls
	State engine.Snapshot `json:"state"`
}

// BoardInfo describes one catalog board.
type BoardInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Board       string `json:"board"`
	Type        string `json:"type"`
	Topology    string `json:"topology"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Pegs        int    `json:"pegs"`
}

// BoardsResponse lists the catalog.
type BoardsResponse struct {
	Boards []BoardInfo `json:"boards"`
}

// BoardResponse is a serialized board plus its decoded layout.
type BoardResponse struct {
	Board       string              `json:"board"`
	Type        string              `json:"type"`
	Topology    string              `json:"topology"`
	Singularity engine.Position     `json:"singularity"`
	Plural      bool                `json:"plural"`
	Pegs        int                 `json:"pegs"`
	Map         [][]engine.HoleType `json:"map"`
}

// ScoreResponse is the score of a session.
type ScoreResponse struct {
	ID    string             `json:"id"`
	Score engine.ScoreStatus `json:"score"`
	Moves []string           `json:"moves"`
}

// SolveResponse is the outcome of a solver run.
type SolveResponse struct {
	Solved    bool     `json:"solved"`
	Complete  bool     `json:"complete"` // False when the search was cut short
	Remaining int      `json:"remaining"`
	Nodes     int      `json:"nodes"`
	ElapsedMs int64    `json:"elapsed_ms"`
	Cached    bool     `json:"cached,omitempty"` // Served from the solve cache
	Moves     []string `json:"moves"`
}

// SolveProgressResponse is one SSE progress event.
type SolveProgressResponse struct {
	Nodes         int   `json:"nodes"`
	Depth         int   `json:"depth"`
	BestRemaining int   `json:"best_remaining"`
	ElapsedMs     int64 `json:"elapsed_ms"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error   string `json:"error"`             // Error message
	Code    string `json:"code,omitempty"`    // Error code
	Details string `json:"details,omitempty"` // Additional details
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status   string      `json:"status"`          // "ok" or "error"
	Version  string      `json:"version"`         // Server version
	Sessions int         `json:"sessions"`        // Live game sessions
	Pool     *PoolStats  `json:"pool,omitempty"`  // Worker pool statistics
	Cache    *CacheStats `json:"cache,omitempty"` // Solve cache statistics
}

// CacheStats reports solve cache usage.
type CacheStats struct {
	Lookups uint64  `json:"lookups"`
	Hits    uint64  `json:"hits"`
	Adds    uint64  `json:"adds"`
	HitRate float64 `json:"hit_rate"` // Percent
}

// boardInfo describes a catalog entry.
func boardInfo(e engine.CatalogEntry) BoardInfo {
	b := e.Board
	return BoardInfo{
		Name:        e.Name,
		Description: e.Description,
		Board:       b.Serialize(),
		Type:        b.Type().String(),
		Topology:    b.Topology().String(),
		Width:       b.Width(),
		Height:      b.Height(),
		Pegs:        b.PegCount(),
	}
}

func boardResponse(b *engine.Board) BoardResponse {
	return BoardResponse{
		Board:       b.Serialize(),
		Type:        b.Type().String(),
		Topology:    b.Topology().String(),
		Singularity: b.Singularity(),
		Plural:      b.Plural(),
		Pegs:        b.PegCount(),
		Map:         b.Map(),
	}
}

func solveResponse(res *engine.SolveResult, complete bool) SolveResponse {
	moves := make([]string, len(res.Moves))
	for i, op := range res.Moves {
		moves[i] = engine.FormatOperation(op)
	}
	return SolveResponse{
		Solved:    res.Solved,
		Complete:  complete,
		Remaining: res.Remaining,
		Nodes:     res.Nodes,
		ElapsedMs: res.Elapsed.Milliseconds(),
		Moves:     moves,
	}
}
