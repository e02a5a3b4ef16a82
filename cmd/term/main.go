package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"speeddots/internal/audio"
	"speeddots/internal/clock"
	"speeddots/internal/config"
	"speeddots/internal/events"
	"speeddots/internal/game"
	"speeddots/internal/scores"
	"speeddots/internal/sqlitestore"
	"speeddots/internal/term"

	"github.com/gdamore/tcell/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "speeddots: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// the screen owns the terminal, so logs go to a file or nowhere
	log.SetOutput(io.Discard)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	var store game.ScoreStore = scores.NewMemory(0)
	var local *sqlitestore.Store
	if cfg.SQLitePath != "" {
		local, err = sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer local.Close()
		store = local
	}

	spk := audio.NewSpeaker()
	sound := audio.NewService(cfg.SoundEnabled)
	if err := spk.Initialize(); err != nil {
		// Non-fatal, game can run without sound
		log.Printf("[Audio] Speaker unavailable: %v\n", err)
	} else {
		defer spk.Close()
		sound.AddPlayer(spk)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	gameCfg := game.DefaultConfig()
	gameCfg.SessionSeconds = cfg.SessionSeconds
	gameCfg.DotLifetime = cfg.DotLifetime

	bus := events.NewBus()
	ctrl := game.New(gameCfg, clock.Real{}, sound, store, bus)
	defer ctrl.Close()
	ctrl.SetSoundEnabled(cfg.SoundEnabled)

	quit := make(chan struct{})
	defer close(quit)
	go term.RecordSessions(bus, local, quit)

	term.NewHost(screen, ctrl).Run()
	return nil
}
