package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pegengine/pkg/engine"
)

// Handlers holds the HTTP handlers and their shared state.
type Handlers struct {
	sessions *SessionStore
	version  string
	pool     *WorkerPool
	solve    engine.SolveOptions
	cache    *engine.SolveCache
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(sessions *SessionStore, version string) *Handlers {
	return &Handlers{
		sessions: sessions,
		version:  version,
		solve:    engine.DefaultSolveOptions(),
	}
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(sessions *SessionStore, version string, pool *WorkerPool) *Handlers {
	h := NewHandlers(sessions, version)
	h.pool = pool
	return h
}

// SetSolveOptions replaces the default solver limits.
func (h *Handlers) SetSolveOptions(opts engine.SolveOptions) {
	h.solve = opts
}

// SetSolveCache sets the cache finished solver runs are served from.
// A nil cache disables caching.
func (h *Handlers) SetSolveCache(c *engine.SolveCache) {
	h.cache = c
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// resolveBoard returns the catalog board called name, or the decoded board
// string when name is empty.
func resolveBoard(name, board string) (*engine.Board, string, error) {
	switch {
	case name != "" && board != "":
		return nil, "", errors.New("name and board are mutually exclusive")
	case name != "":
		b, ok := engine.LookupBoard(name)
		if !ok {
			return nil, "", fmt.Errorf("unknown board %q", name)
		}
		return b, name, nil
	case board != "":
		b, err := engine.ParseBoard(board)
		if err != nil {
			return nil, "", err
		}
		return b, "custom", nil
	}
	return nil, "", errors.New("name or board is required")
}

// acquireGame takes a game slot if the pool is configured. The returned
// function releases it.
func (h *Handlers) acquireGame(ctx context.Context) (func(), error) {
	if h.pool == nil {
		return func() {}, nil
	}
	if err := h.pool.AcquireGame(ctx); err != nil {
		return nil, err
	}
	return h.pool.ReleaseGame, nil
}

// withSession resolves the {id} path value and runs fn on its game under a
// game slot. It writes the error response itself and returns false on
// failure.
func (h *Handlers) withSession(w http.ResponseWriter, r *http.Request, fn func(s *Session, g *engine.Game)) bool {
	release, err := h.acquireGame(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return false
	}
	defer release()

	s, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), "GAME_NOT_FOUND")
		return false
	}
	s.Do(func(g *engine.Game) { fn(s, g) })
	return true
}

func gameResponse(s *Session, g *engine.Game) GameResponse {
	return GameResponse{ID: s.ID, Name: s.Name, State: g.Snapshot()}
}

func movedResponse(s *Session, g *engine.Game, moved bool) GameResponse {
	resp := gameResponse(s, g)
	resp.Moved = &moved
	return resp
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.sessions != nil {
		resp.Sessions = h.sessions.Len()
	}

	// Include pool stats if available
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	if h.cache != nil {
		lookups, hits, adds := h.cache.Stats()
		resp.Cache = &CacheStats{Lookups: lookups, Hits: hits, Adds: adds, HitRate: h.cache.HitRate()}
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListBoards handles GET /api/boards
func (h *Handlers) ListBoards(w http.ResponseWriter, r *http.Request) {
	entries := engine.Boards()
	resp := BoardsResponse{Boards: make([]BoardInfo, len(entries))}
	for i, e := range entries {
		resp.Boards[i] = boardInfo(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// DecodeBoard handles POST /api/boards/decode
func (h *Handlers) DecodeBoard(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	if req.Board == "" {
		writeError(w, http.StatusBadRequest, "board is required", "MISSING_BOARD")
		return
	}

	b, err := engine.ParseBoard(req.Board)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_BOARD")
		return
	}
	writeJSON(w, http.StatusOK, boardResponse(b))
}

// CreateGame handles POST /api/games
func (h *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	b, name, err := resolveBoard(req.Name, req.Board)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_BOARD")
		return
	}
	if req.Plural {
		b = b.WithPlural(true)
	}

	s, err := h.sessions.Create(b, name, req.Reverse)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error(), "TOO_MANY_GAMES")
		return
	}
	log.WithFields(logrus.Fields{
		"game":    s.ID,
		"board":   name,
		"reverse": req.Reverse,
	}).Debug("game created")

	var resp GameResponse
	s.Do(func(g *engine.Game) { resp = gameResponse(s, g) })
	writeJSON(w, http.StatusCreated, resp)
}

// GetGame handles GET /api/games/{id}
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	var resp GameResponse
	if h.withSession(w, r, func(s *Session, g *engine.Game) { resp = gameResponse(s, g) }) {
		writeJSON(w, http.StatusOK, resp)
	}
}

// DeleteGame handles DELETE /api/games/{id}
func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Delete(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, ErrSessionNotFound.Error(), "GAME_NOT_FOUND")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectPeg handles POST /api/games/{id}/select
func (h *Handlers) SelectPeg(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	var resp GameResponse
	ok := h.withSession(w, r, func(s *Session, g *engine.Game) {
		g.Select(engine.Pos(req.Col, req.Row))
		resp = gameResponse(s, g)
	})
	if ok {
		writeJSON(w, http.StatusOK, resp)
	}
}

// applyMove runs the jump described by req. The error is reserved for
// malformed requests; an illegal jump is reported as moved=false.
func applyMove(g *engine.Game, req MoveRequest) (bool, error) {
	switch {
	case req.Direction != "":
		d, ok := engine.ParseDirection(req.Direction)
		if !ok {
			return false, fmt.Errorf("unknown direction %q", req.Direction)
		}
		return g.Move(d), nil
	case req.DX != nil || req.DY != nil:
		if req.DX == nil || req.DY == nil {
			return false, errors.New("dx and dy must be given together")
		}
		return g.Drag(*req.DX, *req.DY), nil
	case req.Target != nil:
		from := engine.NoPosition
		if req.Source != nil {
			from = *req.Source
		}
		return g.Click(*req.Target, from), nil
	}
	return false, errors.New("one of direction, dx/dy or target is required")
}

// MoveGame handles POST /api/games/{id}/move
func (h *Handlers) MoveGame(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	var resp GameResponse
	var moveErr error
	ok := h.withSession(w, r, func(s *Session, g *engine.Game) {
		var moved bool
		moved, moveErr = applyMove(g, req)
		resp = movedResponse(s, g, moved)
	})
	if !ok {
		return
	}
	if moveErr != nil {
		writeError(w, http.StatusBadRequest, moveErr.Error(), "INVALID_MOVE")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UndoGame handles POST /api/games/{id}/undo
func (h *Handlers) UndoGame(w http.ResponseWriter, r *http.Request) {
	var resp GameResponse
	if h.withSession(w, r, func(s *Session, g *engine.Game) { resp = movedResponse(s, g, g.Undo()) }) {
		writeJSON(w, http.StatusOK, resp)
	}
}

// ExpandGame handles POST /api/games/{id}/expand
func (h *Handlers) ExpandGame(w http.ResponseWriter, r *http.Request) {
	var resp GameResponse
	if h.withSession(w, r, func(s *Session, g *engine.Game) { resp = movedResponse(s, g, g.Expand()) }) {
		writeJSON(w, http.StatusOK, resp)
	}
}

// GameScore handles GET /api/games/{id}/score
func (h *Handlers) GameScore(w http.ResponseWriter, r *http.Request) {
	var resp ScoreResponse
	ok := h.withSession(w, r, func(s *Session, g *engine.Game) {
		ops := g.Operations()
		resp = ScoreResponse{ID: s.ID, Score: g.Score(), Moves: make([]string, len(ops))}
		for i, op := range ops {
			resp.Moves[i] = engine.FormatOperation(op)
		}
	})
	if ok {
		writeJSON(w, http.StatusOK, resp)
	}
}

// GameBoard handles GET /api/games/{id}/board
func (h *Handlers) GameBoard(w http.ResponseWriter, r *http.Request) {
	var resp BoardResponse
	if h.withSession(w, r, func(s *Session, g *engine.Game) { resp = boardResponse(g.Board()) }) {
		writeJSON(w, http.StatusOK, resp)
	}
}

// solveBoard resolves the board a solve request names: a session's current
// position, a catalog board or a board string.
func (h *Handlers) solveBoard(req SolveRequest) (*engine.Board, int, error) {
	if req.Game == "" {
		b, _, err := resolveBoard(req.Name, req.Board)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		return b, 0, nil
	}
	s, err := h.sessions.Get(req.Game)
	if err != nil {
		return nil, http.StatusNotFound, err
	}
	var b *engine.Board
	s.Do(func(g *engine.Game) { b = g.Board() })
	return b, 0, nil
}

func (h *Handlers) solveOptions(maxNodes int, requireSingularity bool) engine.SolveOptions {
	opts := h.solve
	if maxNodes > 0 && (opts.MaxNodes <= 0 || maxNodes < opts.MaxNodes) {
		opts.MaxNodes = maxNodes
	}
	opts.RequireSingularity = requireSingularity
	return opts
}

// Solve handles POST /api/solve
func (h *Handlers) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	b, status, err := h.solveBoard(req)
	if err != nil {
		writeError(w, status, err.Error(), "INVALID_BOARD")
		return
	}

	// Acquire solve worker slot if pool is configured
	if h.pool != nil {
		if err := h.pool.AcquireSolve(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSolve()
	}

	res, cached, err := engine.SolveCached(r.Context(), h.cache, b, h.solveOptions(req.MaxNodes, req.RequireSingularity), nil)
	switch {
	case errors.Is(err, engine.ErrNodeLimit):
		writeJSON(w, http.StatusOK, solveResponse(res, false))
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error(), "SOLVE_CANCELLED")
	default:
		log.WithFields(logrus.Fields{
			"solved": res.Solved,
			"nodes":  res.Nodes,
			"took":   res.Elapsed,
			"cached": cached,
		}).Debug("solve finished")
		resp := solveResponse(res, true)
		resp.Cached = cached
		writeJSON(w, http.StatusOK, resp)
	}
}
