package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/yourusername/pegengine/pkg/engine"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// newTestServer serves the full route table.
func newTestServer(t *testing.T, config ServerConfig) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(config, "test").Routes())
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends body (if any) as JSON and decodes the response into out (if
// non-nil). It returns the status code.
func doJSON(t *testing.T, srv *httptest.Server, method, path string, body, out interface{}) int {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, srv *httptest.Server, req NewGameRequest) GameResponse {
	t.Helper()
	var game GameResponse
	if status := doJSON(t, srv, "POST", "/api/games", req, &game); status != http.StatusCreated {
		t.Fatalf("create game status = %d, want %d", status, http.StatusCreated)
	}
	return game
}

func TestHealthHandler(t *testing.T) {
	h := NewHandlers(NewSessionStore(0, 0), "test-version")

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Health status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if health.Status != "ok" {
		t.Errorf("Status = %q, want %q", health.Status, "ok")
	}
	if health.Version != "test-version" {
		t.Errorf("Version = %q, want %q", health.Version, "test-version")
	}
	if health.Pool != nil {
		t.Error("Pool stats reported without a pool")
	}
}

func TestHealthReportsSessions(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())
	createGame(t, srv, NewGameRequest{Name: "english"})

	var health HealthResponse
	if status := doJSON(t, srv, "GET", "/api/health", nil, &health); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if health.Sessions != 1 {
		t.Errorf("Sessions = %d, want 1", health.Sessions)
	}
	if health.Pool == nil || health.Pool.MaxSolve != DefaultConfig().MaxSolveWorkers {
		t.Errorf("Pool = %+v, want solve lane of %d", health.Pool, DefaultConfig().MaxSolveWorkers)
	}
}

func TestListBoards(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	var resp BoardsResponse
	if status := doJSON(t, srv, "GET", "/api/boards", nil, &resp); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(resp.Boards) != len(engine.Boards()) {
		t.Fatalf("boards = %d, want %d", len(resp.Boards), len(engine.Boards()))
	}
	english := resp.Boards[0]
	if english.Name != "english" || english.Pegs != 32 || english.Width != 7 || english.Height != 7 {
		t.Errorf("english = %+v, want 7x7 with 32 pegs", english)
	}
	for _, b := range resp.Boards {
		if _, err := engine.ParseBoard(b.Board); err != nil {
			t.Errorf("board %s: ParseBoard(%q) error: %v", b.Name, b.Board, err)
		}
	}
}

func TestDecodeBoard(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())
	english, _ := engine.LookupBoard("english")

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"valid board", DecodeRequest{Board: english.Serialize()}, http.StatusOK},
		{"missing board", DecodeRequest{}, http.StatusBadRequest},
		{"garbage", DecodeRequest{Board: "not a board"}, http.StatusBadRequest},
		{"invalid JSON", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp BoardResponse
			status := doJSON(t, srv, "POST", "/api/boards/decode", tt.body, &resp)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if status != http.StatusOK {
				return
			}
			if resp.Pegs != 32 || resp.Type != "rectangular" {
				t.Errorf("decoded = %d pegs, %s; want 32, rectangular", resp.Pegs, resp.Type)
			}
			if resp.Singularity != engine.Pos(3, 3) {
				t.Errorf("Singularity = %v, want (3,3)", resp.Singularity)
			}
		})
	}
}

func TestCreateGame(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())
	triangle, _ := engine.LookupBoard("triangle")

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantPegs   int
	}{
		{"catalog board", NewGameRequest{Name: "english"}, http.StatusCreated, 32},
		{"board string", NewGameRequest{Board: triangle.Serialize()}, http.StatusCreated, 14},
		{"reverse", NewGameRequest{Name: "seed", Reverse: true}, http.StatusCreated, 1},
		{"unknown board", NewGameRequest{Name: "nope"}, http.StatusBadRequest, 0},
		{"name and board", NewGameRequest{Name: "english", Board: triangle.Serialize()}, http.StatusBadRequest, 0},
		{"no board", NewGameRequest{}, http.StatusBadRequest, 0},
		{"invalid JSON", "[", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var game GameResponse
			status := doJSON(t, srv, "POST", "/api/games", tt.body, &game)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if status != http.StatusCreated {
				return
			}
			if game.ID == "" {
				t.Error("game ID is empty")
			}
			if game.State.RemainingPegCount != tt.wantPegs {
				t.Errorf("RemainingPegCount = %d, want %d", game.State.RemainingPegCount, tt.wantPegs)
			}
		})
	}
}

func TestGameLifecycle(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())
	game := createGame(t, srv, NewGameRequest{Name: "english"})
	base := "/api/games/" + game.ID

	var sel GameResponse
	doJSON(t, srv, "POST", base+"/select", SelectRequest{Col: 3, Row: 1}, &sel)
	if sel.State.SelectedPosition != engine.Pos(3, 1) {
		t.Fatalf("SelectedPosition = %v, want (3,1)", sel.State.SelectedPosition)
	}

	var moved GameResponse
	doJSON(t, srv, "POST", base+"/move", MoveRequest{Direction: "down"}, &moved)
	if moved.Moved == nil || !*moved.Moved {
		t.Fatal("move down reported not moved")
	}
	if moved.State.RemainingPegCount != 31 || moved.State.Moves != 1 {
		t.Errorf("after move = %d pegs, %d moves; want 31, 1", moved.State.RemainingPegCount, moved.State.Moves)
	}

	var score ScoreResponse
	doJSON(t, srv, "GET", base+"/score", nil, &score)
	if score.Score.TakenCount != 1 || len(score.Moves) != 1 || score.Moves[0] != "(3,1)->(3,3)" {
		t.Errorf("score = %+v, want one move (3,1)->(3,3)", score)
	}

	var board BoardResponse
	doJSON(t, srv, "GET", base+"/board", nil, &board)
	if board.Pegs != 31 {
		t.Errorf("exported board pegs = %d, want 31", board.Pegs)
	}

	var undone GameResponse
	doJSON(t, srv, "POST", base+"/undo", nil, &undone)
	if undone.Moved == nil || !*undone.Moved || undone.State.RemainingPegCount != 32 {
		t.Errorf("undo = moved %v, %d pegs; want true, 32", undone.Moved, undone.State.RemainingPegCount)
	}

	doJSON(t, srv, "POST", base+"/undo", nil, &undone)
	if undone.Moved == nil || *undone.Moved {
		t.Error("undo on an empty log reported a change")
	}

	if status := doJSON(t, srv, "DELETE", base, nil, nil); status != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", status)
	}
	if status := doJSON(t, srv, "GET", base, nil, nil); status != http.StatusNotFound {
		t.Errorf("GET after DELETE status = %d, want 404", status)
	}
}

func TestMoveRequests(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	dx, dy := 0.0, 40.0
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantMoved  bool
	}{
		{"direction", MoveRequest{Direction: "down"}, http.StatusOK, true},
		{"blocked direction", MoveRequest{Direction: "up"}, http.StatusOK, false},
		{"target", MoveRequest{Target: &engine.Position{Col: 3, Row: 3}}, http.StatusOK, true},
		{"target with source", MoveRequest{Target: &engine.Position{Col: 3, Row: 3}, Source: &engine.Position{Col: 1, Row: 3}}, http.StatusOK, true},
		{"drag", MoveRequest{DX: &dx, DY: &dy}, http.StatusOK, true},
		{"half a drag", MoveRequest{DX: &dx}, http.StatusBadRequest, false},
		{"unknown direction", MoveRequest{Direction: "sideways"}, http.StatusBadRequest, false},
		{"empty", MoveRequest{}, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := createGame(t, srv, NewGameRequest{Name: "english"})
			base := "/api/games/" + game.ID
			doJSON(t, srv, "POST", base+"/select", SelectRequest{Col: 3, Row: 1}, nil)

			var resp GameResponse
			status := doJSON(t, srv, "POST", base+"/move", tt.body, &resp)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if status != http.StatusOK {
				return
			}
			if resp.Moved == nil || *resp.Moved != tt.wantMoved {
				t.Errorf("Moved = %v, want %v", resp.Moved, tt.wantMoved)
			}
		})
	}
}

func TestUnknownGame(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/api/games/missing", nil},
		{"DELETE", "/api/games/missing", nil},
		{"POST", "/api/games/missing/select", SelectRequest{}},
		{"POST", "/api/games/missing/move", MoveRequest{Direction: "up"}},
		{"POST", "/api/games/missing/undo", nil},
		{"POST", "/api/games/missing/expand", nil},
		{"GET", "/api/games/missing/score", nil},
		{"GET", "/api/games/missing/board", nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if status := doJSON(t, srv, tt.method, tt.path, tt.body, nil); status != http.StatusNotFound {
				t.Errorf("status = %d, want 404", status)
			}
		})
	}
}

func TestExpandGame(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())
	game := createGame(t, srv, NewGameRequest{Name: "seed", Reverse: true})
	base := "/api/games/" + game.ID

	var resp GameResponse
	doJSON(t, srv, "POST", base+"/expand", nil, &resp)
	if resp.Moved == nil || *resp.Moved {
		t.Error("expand on a centred seed reported a change")
	}

	doJSON(t, srv, "POST", base+"/select", SelectRequest{Col: 2, Row: 2}, nil)
	doJSON(t, srv, "POST", base+"/move", MoveRequest{Direction: "right"}, nil)
	doJSON(t, srv, "POST", base+"/expand", nil, &resp)
	if resp.Moved == nil || !*resp.Moved {
		t.Fatal("expand after a build-up move reported no change")
	}
	if w := len(resp.State.Holes[0]); w != 7 {
		t.Errorf("width after expand = %d, want 7", w)
	}
	if !resp.State.IsRevert {
		t.Error("IsRevert = false for a build-up game")
	}
}

func TestTooManyGames(t *testing.T) {
	config := DefaultConfig()
	config.MaxSessions = 1
	srv := newTestServer(t, config)

	createGame(t, srv, NewGameRequest{Name: "english"})
	if status := doJSON(t, srv, "POST", "/api/games", NewGameRequest{Name: "english"}, nil); status != http.StatusServiceUnavailable {
		t.Errorf("second game status = %d, want 503", status)
	}
}

func TestSolveHandler(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	tests := []struct {
		name         string
		body         interface{}
		wantStatus   int
		wantSolved   bool
		wantComplete bool
	}{
		{"triangle", SolveRequest{Name: "triangle"}, http.StatusOK, true, true},
		{"node limit", SolveRequest{Name: "english", MaxNodes: 1}, http.StatusOK, false, false},
		{"unknown board", SolveRequest{Name: "nope"}, http.StatusBadRequest, false, false},
		{"unknown game", SolveRequest{Game: "missing"}, http.StatusNotFound, false, false},
		{"invalid JSON", "{", http.StatusBadRequest, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp SolveResponse
			status := doJSON(t, srv, "POST", "/api/solve", tt.body, &resp)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if status != http.StatusOK {
				return
			}
			if resp.Solved != tt.wantSolved || resp.Complete != tt.wantComplete {
				t.Errorf("solved, complete = %v, %v; want %v, %v", resp.Solved, resp.Complete, tt.wantSolved, tt.wantComplete)
			}
			if resp.Solved && len(resp.Moves) != 13 {
				t.Errorf("moves = %d, want 13", len(resp.Moves))
			}
		})
	}
}

func TestSolveFromGame(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())
	game := createGame(t, srv, NewGameRequest{Name: "triangle"})

	var resp SolveResponse
	if status := doJSON(t, srv, "POST", "/api/solve", SolveRequest{Game: game.ID}, &resp); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !resp.Solved || resp.Remaining != 1 {
		t.Errorf("solve from game = solved %v with %d pegs, want solved with 1", resp.Solved, resp.Remaining)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	req, _ := http.NewRequest("OPTIONS", srv.URL+"/api/games/x", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, "DELETE") {
		t.Errorf("Allow-Methods = %q, want DELETE listed", got)
	}
}

func TestSolveCached(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	var first, second SolveResponse
	doJSON(t, srv, "POST", "/api/solve", SolveRequest{Name: "triangle"}, &first)
	doJSON(t, srv, "POST", "/api/solve", SolveRequest{Name: "triangle"}, &second)
	if first.Cached || !second.Cached {
		t.Errorf("cached = %v, %v; want false, true", first.Cached, second.Cached)
	}
	if len(second.Moves) != len(first.Moves) || second.Nodes != first.Nodes {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}

	var health HealthResponse
	doJSON(t, srv, "GET", "/api/health", nil, &health)
	if health.Cache == nil || health.Cache.Hits != 1 || health.Cache.Adds != 1 {
		t.Errorf("health cache = %+v, want 1 hit and 1 add", health.Cache)
	}
}
