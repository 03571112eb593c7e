package handlers

import (
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mindbridge/internal/game"
	"mindbridge/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// upgrader accepts same-origin browsers and non-browser clients without an Origin header
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	},
}

// clientMessage is what players send over the socket
type clientMessage struct {
	Type   string `json:"type"`
	Choice string `json:"choice,omitempty"`
}

// serverMessage is a non-event reply
type serverMessage struct {
	Type    string        `json:"type"`
	Error   string        `json:"error,omitempty"`
	Outcome *game.Outcome `json:"outcome,omitempty"`
}

// EventsHandler streams session events over WebSocket
type EventsHandler struct {
	games *service.GameService
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(games *service.GameService) *EventsHandler {
	return &EventsHandler{games: games}
}

// eventClient buffers outgoing messages so session listeners never block
// on the network.
type eventClient struct {
	conn      *websocket.Conn
	send      chan interface{}
	done      chan struct{}
	closeOnce sync.Once
}

func (c *eventClient) enqueue(msg interface{}) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		log.Printf("WebSocket client too slow, dropping %T", msg)
	}
}

func (c *eventClient) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Stream upgrades the request and relays events of the caller's current
// and future sessions. Clients may answer with {"type":"answer","choice":...}.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var header http.Header
	owner, _, ok := ownerKey(w, r, false)
	if !ok {
		// the upgrade response carries the new guest cookie
		rec := &headerRecorder{header: http.Header{}}
		owner, _, _ = ownerKey(rec, r, true)
		header = rec.header
	}

	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &eventClient{
		conn: conn,
		send: make(chan interface{}, sendBuffer),
		done: make(chan struct{}),
	}

	stop := h.games.Watch(owner, func(ev game.Event) { client.enqueue(ev) })
	if sess, err := h.games.Get(owner); err == nil {
		client.enqueue(game.Event{Type: game.EventState, State: sess.Snapshot()})
	}

	go client.writePump()
	h.readPump(client, owner)

	stop()
	client.close()
}

func (h *EventsHandler) readPump(client *eventClient, owner string) {
	conn := client.conn
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error for %s: %v", owner, err)
			}
			return
		}

		switch msg.Type {
		case "answer":
			sess, err := h.games.Get(owner)
			if err != nil {
				client.enqueue(serverMessage{Type: "error", Error: err.Error()})
				continue
			}
			out, err := sess.SelectAnswer(msg.Choice)
			if err != nil {
				client.enqueue(serverMessage{Type: "error", Error: err.Error()})
				continue
			}
			client.enqueue(serverMessage{Type: "answered", Outcome: &out})
		case "ping":
			client.enqueue(serverMessage{Type: "pong"})
		default:
			client.enqueue(serverMessage{Type: "error", Error: "unknown message type"})
		}
	}
}

func (c *eventClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

// headerRecorder collects cookies set before a WebSocket upgrade
type headerRecorder struct {
	header http.Header
}

func (h *headerRecorder) Header() http.Header         { return h.header }
func (h *headerRecorder) Write(b []byte) (int, error) { return len(b), nil }
func (h *headerRecorder) WriteHeader(int)             {}
