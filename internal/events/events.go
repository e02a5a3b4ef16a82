package events

import (
	"log"
	"time"
)

type Kind string

const (
	SessionStarted Kind = "session_started"
	SessionEnded   Kind = "session_ended"
	SessionPaused  Kind = "session_paused"
	SessionResumed Kind = "session_resumed"
	DotSpawned     Kind = "dot_spawned"
	DotTapped      Kind = "dot_tapped"
	DotMissed      Kind = "dot_missed"
	LevelUp        Kind = "level_up"
)

// Event is a gameplay fact published by the controller. Fields not relevant
// to a Kind are left zero.
type Event struct {
	Kind      Kind
	SessionID string
	DotID     string
	Score     int
	Level     int
	Points    int
	X         float64
	Y         float64
	Reaction  time.Duration
	Completed bool // SessionEnded: true for game over, false when abandoned
	At        time.Time
}

type Bus struct {
	Events chan Event
}

func NewBus() *Bus {
	return &Bus{
		Events: make(chan Event, 256),
	}
}

// Publish hands ev to the consumer without blocking. Events are dropped when
// the buffer is full.
func (b *Bus) Publish(ev Event) bool {
	if b == nil {
		return false
	}
	select {
	case b.Events <- ev:
		return true
	default:
		log.Printf("[Events] Buffer full, dropping %s\n", ev.Kind)
		return false
	}
}
