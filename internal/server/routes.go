package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"speeddots/internal/audio"
	"speeddots/internal/broadcast"
	"speeddots/internal/clock"
	"speeddots/internal/config"
	"speeddots/internal/db"
	"speeddots/internal/events"
	"speeddots/internal/game"
	"speeddots/internal/metrics"
	"speeddots/internal/scores"
	"speeddots/internal/sqlitestore"
	"speeddots/internal/wshub"
	"time"
)

func Run() error {
	appCfg, err := config.Load()
	if err != nil {
		return err
	}

	srv := &Server{
		Hub:     wshub.NewHub(),
		Metrics: metrics.New(),
		Bus:     events.NewBus(),
	}

	// Optional database connection
	var store game.ScoreStore
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			srv.EventBuffer = make(chan db.DotEvent, 1000)
			go dotEventBatchWriter(database, srv.EventBuffer)
			store = database
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	if appCfg.SQLitePath != "" {
		local, err := sqlitestore.Open(appCfg.SQLitePath)
		if err != nil {
			log.Printf("[Store] Failed to open %s: %v\n", appCfg.SQLitePath, err)
		} else {
			srv.Local = local
			if store == nil {
				store = local
			}
		}
	}
	if store == nil {
		store = scores.NewMemory(0)
	}

	gameCfg := game.DefaultConfig()
	gameCfg.SessionSeconds = appCfg.SessionSeconds
	gameCfg.DotLifetime = appCfg.DotLifetime

	// renderers synthesize sound themselves; the server only relays cues
	sound := audio.NewService(appCfg.SoundEnabled, srv.Hub)
	srv.Game = game.New(gameCfg, clock.Real{}, sound, store, srv.Bus)
	srv.Game.SetSoundEnabled(appCfg.SoundEnabled)
	srv.Game.SetPlayAreaBounds(appCfg.PlayAreaWidth, appCfg.PlayAreaHeight)
	srv.Game.Subscribe(srv.Hub.PublishSnapshot)
	srv.Broadcaster = broadcast.NewBroadcaster(srv.Game)
	defer srv.Game.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.pumpEvents(ctx)

	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, srv.Routes())
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /pause", s.handlePause)
	mux.HandleFunc("POST /resume", s.handleResume)
	mux.HandleFunc("POST /menu", s.handleMenu)
	mux.HandleFunc("POST /sound", s.handleSound)
	mux.HandleFunc("POST /bounds", s.handleBounds)
	mux.HandleFunc("POST /tap/{id}", s.handleTap)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	mux.HandleFunc("GET /analytics/lifetime", s.handleAnalyticsLifetime)
	mux.HandleFunc("GET /analytics/leaderboard", s.handleAnalyticsLeaderboard)
	mux.HandleFunc("GET /analytics/session/{id}", s.handleAnalyticsSession)
	mux.HandleFunc("GET /analytics/recent", s.handleAnalyticsRecent)
	return mux
}

func dotEventBatchWriter(database *db.DB, buffer chan db.DotEvent) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.DotEvent, 0, 50)

	for {
		select {
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= 50 {
				if err := database.BatchRecordDotEvents(batch); err != nil {
					log.Printf("[DB] BatchRecordDotEvents error: %v\n", err)
				}
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if err := database.BatchRecordDotEvents(batch); err != nil {
					log.Printf("[DB] BatchRecordDotEvents error: %v\n", err)
				}
				batch = batch[:0]
			}
		}
	}
}
