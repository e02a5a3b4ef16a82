package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"speeddots/internal/analytics"
	"speeddots/internal/broadcast"
	"speeddots/internal/db"
	"speeddots/internal/events"
	"speeddots/internal/game"
	"speeddots/internal/metrics"
	"speeddots/internal/sqlitestore"
	"speeddots/internal/wshub"
	"strconv"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

type Server struct {
	Game        *game.Controller
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	Metrics     *metrics.Metrics
	Bus         *events.Bus
	DB          *db.DB             // nil if no database configured
	Local       *sqlitestore.Store // nil if SQLITE_PATH is unset
	EventBuffer chan db.DotEvent   // nil if no database configured

	tallies map[string]*analytics.Tally
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.Game.Start()
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.Game.Pause()
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.Game.Resume()
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	s.Game.ReturnToMenu()
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}

// handleSound toggles sound, or sets it when an "on" form value is given.
func (s *Server) handleSound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	if v := r.FormValue("on"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "Invalid sound flag", http.StatusBadRequest)
			return
		}
		s.Game.SetSoundEnabled(on)
	} else {
		s.Game.ToggleSound()
	}
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	width, err := strconv.ParseFloat(r.FormValue("w"), 64)
	if err != nil || !finite(width) {
		http.Error(w, "Invalid width", http.StatusBadRequest)
		return
	}
	height, err := strconv.ParseFloat(r.FormValue("h"), 64)
	if err != nil || !finite(height) {
		http.Error(w, "Invalid height", http.StatusBadRequest)
		return
	}
	s.Game.SetPlayAreaBounds(width, height)
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// handleTap always answers 200; a tap on a dot that is gone is not an error.
func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	counted := s.Game.TapDot(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]bool{"counted": counted})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	snapChan := s.Broadcaster.Subscribe()
	defer s.Broadcaster.Unsubscribe(snapChan)

	send := func(snap game.Snapshot) bool {
		data, err := json.Marshal(snap)
		if err != nil {
			log.Printf("[SSE] Marshal error: %v\n", err)
			return false
		}
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
		flusher.Flush()
		return true
	}

	if !send(s.Game.Snapshot()) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-snapChan:
			if !send(snap) {
				return
			}
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := s.joinClient(conn)
	defer func() {
		s.Hub.Unregister(client.ID)
		if s.Metrics != nil {
			s.Metrics.ConnectedClients.Dec()
		}
	}()

	go client.WritePump(ctx)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				log.Printf("[WS] Read error: %v\n", err)
			}
			return
		}
		var msg wshub.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Bad message: %v\n", err)
			continue
		}
		if err := wshub.Dispatch(s.Game, msg); err != nil {
			log.Printf("[WS] %v\n", err)
		}
	}
}

// joinClient queues the current snapshot on a new client before registering
// it, so hub broadcasts can never fill Send ahead of the initial state.
func (s *Server) joinClient(conn *websocket.Conn) *wshub.Client {
	client := &wshub.Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 64),
	}
	snap := s.Game.Snapshot()
	initial, err := json.Marshal(wshub.ServerMessage{Type: "state", Snapshot: &snap})
	if err != nil {
		log.Printf("[WS] Marshal error: %v\n", err)
	} else {
		client.Send <- initial
	}

	s.Hub.Register(client)
	if s.Metrics != nil {
		s.Metrics.ConnectedClients.Inc()
	}
	return client
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":"%s"}`, status, err.Error())
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s","clients":%d}`, status, s.Hub.Len())
}
