// Package notify delivers engagement notifications to connected clients
// over websockets.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("notify: hub closed")

type client struct {
	actorID string
	conn    *websocket.Conn
	send    chan []byte
}

type message struct {
	actorID string
	payload []byte
}

// Hub is the registry of connected clients keyed by actor id.
//
// A single goroutine owns the registry. Public methods talk to it through
// channels.
type Hub struct {
	logger     *slog.Logger
	upgrader   websocket.Upgrader
	sendBuffer int

	registerCh   chan *client
	unregisterCh chan *client
	sendCh       chan message
	countCh      chan countReq

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

type countReq struct {
	actorID string
	resp    chan int
}

// NewHub starts a Hub. sendBuffer is the number of messages queued per
// client before new messages for that client are dropped.
func NewHub(logger *slog.Logger, sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	h := &Hub{
		logger:       logger,
		sendBuffer:   sendBuffer,
		registerCh:   make(chan *client),
		unregisterCh: make(chan *client),
		sendCh:       make(chan message, 256),
		countCh:      make(chan countReq),
		stopCh:       make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)

	clients := make(map[string]map[*client]struct{})
	drop := func(c *client) {
		set, ok := clients[c.actorID]
		if !ok {
			return
		}
		if _, ok := set[c]; !ok {
			return
		}
		delete(set, c)
		close(c.send)
		if len(set) == 0 {
			delete(clients, c.actorID)
		}
	}

	for {
		select {
		case <-h.stopCh:
			for _, set := range clients {
				for c := range set {
					close(c.send)
				}
			}
			return

		case c := <-h.registerCh:
			if clients[c.actorID] == nil {
				clients[c.actorID] = make(map[*client]struct{})
			}
			clients[c.actorID][c] = struct{}{}

		case c := <-h.unregisterCh:
			drop(c)

		case m := <-h.sendCh:
			for c := range clients[m.actorID] {
				select {
				case c.send <- m.payload:
				default:
					// Slow client; the message is dropped so the loop never blocks.
				}
			}

		case req := <-h.countCh:
			req.resp <- len(clients[req.actorID])
		}
	}
}

// Close stops the hub and disconnects every client.
func (h *Hub) Close() {
	if h.closed.CompareAndSwap(false, true) {
		close(h.stopCh)
	}
	<-h.stopped
}

// Send queues payload for every connection of actorID. It never waits for
// delivery.
func (h *Hub) Send(actorID string, payload []byte) error {
	if h.closed.Load() {
		return ErrClosed
	}
	select {
	case h.sendCh <- message{actorID: actorID, payload: payload}:
		return nil
	case <-h.stopped:
		return ErrClosed
	default:
		return fmt.Errorf("notify: send queue full, dropped message for %s", actorID)
	}
}

// Notify implements engagement.Notifier.
func (h *Hub) Notify(_ context.Context, n engagement.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return h.Send(n.Recipient, payload)
}

// Connections returns the number of open connections of actorID.
func (h *Hub) Connections(actorID string) int {
	if h.closed.Load() {
		return 0
	}
	req := countReq{actorID: actorID, resp: make(chan int, 1)}
	select {
	case h.countCh <- req:
	case <-h.stopped:
		return 0
	}
	select {
	case n := <-req.resp:
		return n
	case <-h.stopped:
		return 0
	}
}

// ServeHTTP upgrades the request to a websocket and streams the
// notifications of the actor named by the X-Actor-ID header.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-Actor-ID")
	if actorID == "" {
		http.Error(w, "missing actor", http.StatusUnauthorized)
		return
	}
	if h.closed.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Could not upgrade websocket", "error", err.Error())
		return
	}
	c := &client{
		actorID: actorID,
		conn:    conn,
		send:    make(chan []byte, h.sendBuffer),
	}

	select {
	case h.registerCh <- c:
	case <-h.stopped:
		conn.Close()
		return
	}
	h.logger.Info("Websocket connected", "actor_id", actorID)

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards inbound frames and unregisters the client once the
// connection fails.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregisterCh <- c:
		case <-h.stopped:
		}
		c.conn.Close()
		h.logger.Info("Websocket disconnected", "actor_id", c.actorID)
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
