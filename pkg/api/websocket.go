package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pegengine/pkg/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // "new", "select", "click", "drag", "move", "undo", "expand", "score", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "state", "score", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// WSState is the payload of a "state" response.
type WSState struct {
	Name  string          `json:"name,omitempty"`
	Moved *bool           `json:"moved,omitempty"`
	State engine.Snapshot `json:"state"`
}

// WSClient represents a connected WebSocket client. Each connection plays
// its own game, owned by the read pump.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
	game     *engine.Game
	name     string
}

// WebSocket handles WebSocket connections for interactive play.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) fail(msg WSMessage, text string) {
	c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: text}
}

func (c *WSClient) state(msg WSMessage, moved *bool) {
	c.sendChan <- WSResponse{Type: "state", ID: msg.ID, Payload: WSState{
		Name:  c.name,
		Moved: moved,
		State: c.game.Snapshot(),
	}}
}

func (c *WSClient) moved(msg WSMessage, ok bool) {
	c.state(msg, &ok)
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
		return
	case "new":
		c.handleNew(msg)
		return
	case "select", "click", "drag", "move", "undo", "expand", "score":
	default:
		c.fail(msg, "unknown message type")
		return
	}

	if c.game == nil {
		c.fail(msg, "no game: send a new message first")
		return
	}

	if pool := c.handlers.pool; pool != nil {
		if !pool.TryAcquireGame() {
			c.fail(msg, "server busy")
			return
		}
		defer pool.ReleaseGame()
	}

	switch msg.Type {
	case "select":
		var req SelectRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.fail(msg, "invalid payload")
			return
		}
		c.game.Select(engine.Pos(req.Col, req.Row))
		c.state(msg, nil)
	case "click", "drag", "move":
		var req MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.fail(msg, "invalid payload")
			return
		}
		ok, err := applyMove(c.game, req)
		if err != nil {
			c.fail(msg, err.Error())
			return
		}
		c.moved(msg, ok)
	case "undo":
		c.moved(msg, c.game.Undo())
	case "expand":
		c.moved(msg, c.game.Expand())
	case "score":
		c.sendChan <- WSResponse{Type: "score", ID: msg.ID, Payload: c.game.Score()}
	}
}

func (c *WSClient) handleNew(msg WSMessage) {
	var req NewGameRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.fail(msg, "invalid payload")
		return
	}
	b, name, err := resolveBoard(req.Name, req.Board)
	if err != nil {
		c.fail(msg, "invalid board: "+err.Error())
		return
	}
	if req.Plural {
		b = b.WithPlural(true)
	}
	c.game = engine.NewGame(b, req.Reverse)
	c.name = name
	log.WithFields(logrus.Fields{
		"board":   name,
		"reverse": req.Reverse,
		"remote":  c.conn.RemoteAddr().String(),
	}).Debug("websocket game started")
	c.state(msg, nil)
}
