// Package statshub fans out search statistics to websocket subscribers,
// the way the reference backend's Hub/Client pair pushes board and
// status updates.
package statshub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const idlePingInterval = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client is one connected websocket subscriber.
type Client struct {
	hub  *Hub
	send chan []byte
}

// Hub owns the set of connected clients and a single broadcast channel
// for stats events.
type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	broadcast chan any
}

// NewHub returns an empty, unstarted hub. Call Run in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan any, 32),
	}
}

// Run drains the broadcast channel and fans each payload out to every
// connected client, until done is closed.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			data, err := json.Marshal(payload)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "stats", Payload: data})
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues payload for broadcast, dropping it if the queue is full
// rather than blocking the caller (a search result is stale soon enough
// that a missed push doesn't matter).
func (h *Hub) Publish(payload any) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

// HasClients reports whether any client is currently connected.
func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

// Register adds a client to the fan-out set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// NewClient returns a client bound to this hub with a buffered send queue.
func (h *Hub) NewClient() *Client {
	return &Client{hub: h, send: make(chan []byte, 16)}
}

// Send returns the client's outbound channel, for the connection's write
// pump.
func (c *Client) Send() <-chan []byte { return c.send }

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// WritePump relays messages from the client's send channel to conn,
// injecting an idle ping if nothing has been written in idlePingInterval.
func WritePump(conn *websocket.Conn, client *Client) error {
	ticker := time.NewTicker(idlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload, _ := json.Marshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-client.Send():
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < idlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
