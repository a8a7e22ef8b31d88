package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/yourusername/pegengine/pkg/engine"
)

// SSEEvent represents a Server-Sent Event.
type SSEEvent struct {
	Event string      `json:"event"` // Event type: "progress", "result", "error", "done"
	Data  interface{} `json:"data"`  // Event data
}

// SolveSSE handles Server-Sent Events for streaming solver progress.
// GET /api/solve/stream?name=...|board=...|game=...&max_nodes=...&singularity=true
func (h *Handlers) SolveSSE(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	req := SolveRequest{
		Name:               query.Get("name"),
		Board:              query.Get("board"),
		Game:               query.Get("game"),
		MaxNodes:           parseIntParam(query.Get("max_nodes"), 0),
		RequireSingularity: query.Get("singularity") == "true",
	}

	b, _, err := h.solveBoard(req)
	if err != nil {
		writeSSEError(w, "invalid board: "+err.Error())
		return
	}

	// Flush function for streaming
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireSolve(r.Context()); err != nil {
			writeSSEError(w, "server busy")
			return
		}
		defer h.pool.ReleaseSolve()
	}

	opts := h.solveOptions(req.MaxNodes, req.RequireSingularity)
	opts.ProgressEvery = parseIntParam(query.Get("every"), opts.ProgressEvery)

	// Progress callback sends SSE events
	callback := func(p engine.SolveProgress) {
		writeSSEEvent(w, "progress", SolveProgressResponse{
			Nodes:         p.Nodes,
			Depth:         p.Depth,
			BestRemaining: p.BestRemaining,
			ElapsedMs:     p.Elapsed.Milliseconds(),
		})
		flusher.Flush()
	}

	res, cached, err := engine.SolveCached(r.Context(), h.cache, b, opts, callback)
	if err != nil && !errors.Is(err, engine.ErrNodeLimit) {
		writeSSEError(w, "solve failed: "+err.Error())
		return
	}

	// Send final result
	resp := solveResponse(res, err == nil)
	resp.Cached = cached
	writeSSEEvent(w, "result", resp)
	flusher.Flush()

	// Send done event to signal completion
	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return defaultVal
	}
	return val
}
