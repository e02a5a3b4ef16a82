package wshub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"speeddots/internal/audio"
	"speeddots/internal/game"
	"sync"

	"github.com/coder/websocket"
)

// ClientMessage is the JSON structure received from renderers.
type ClientMessage struct {
	Type  string  `json:"t"`
	DotID string  `json:"id,omitempty"`
	W     float64 `json:"w,omitempty"`
	H     float64 `json:"h,omitempty"`
	On    *bool   `json:"on,omitempty"`
}

// ServerMessage is the JSON structure sent to renderers. Snapshot is set for
// "state" messages and Cue for "cue" messages.
type ServerMessage struct {
	Type     string         `json:"t"`
	Cue      audio.Cue      `json:"c,omitempty"`
	Snapshot *game.Snapshot `json:"d,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub tracks the renderers connected to the session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client. Non-blocking: drops if channel full.
func (h *Hub) Broadcast(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] Marshal error: %v\n", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// PublishSnapshot is a controller observer that forwards state to every renderer.
func (h *Hub) PublishSnapshot(snap game.Snapshot) {
	h.Broadcast(ServerMessage{Type: "state", Snapshot: &snap})
}

// PlayCue relays an audio cue to renderers that synthesize sound themselves.
func (h *Hub) PlayCue(c audio.Cue) error {
	if !c.Valid() {
		return fmt.Errorf("relaying cue %q: unknown cue", c)
	}
	h.Broadcast(ServerMessage{Type: "cue", Cue: c})
	return nil
}

// Dispatch applies a renderer message to the controller.
func Dispatch(c *game.Controller, msg ClientMessage) error {
	switch msg.Type {
	case "tap":
		c.TapDot(msg.DotID)
	case "start":
		c.Start()
	case "pause":
		c.Pause()
	case "resume":
		c.Resume()
	case "menu":
		c.ReturnToMenu()
	case "sound":
		if msg.On != nil {
			c.SetSoundEnabled(*msg.On)
		} else {
			c.ToggleSound()
		}
	case "bounds":
		c.SetPlayAreaBounds(msg.W, msg.H)
	default:
		return fmt.Errorf("dispatching message: unknown type %q", msg.Type)
	}
	return nil
}
