package audio

import (
	"fmt"
	"log"
	"sync"
)

// Cue names a sound effect the game asks for.
type Cue string

const (
	CueTap      Cue = "tap"
	CueMiss     Cue = "miss"
	CueLevelUp  Cue = "levelUp"
	CueGameOver Cue = "gameOver"
	CueBonus    Cue = "bonus"
)

var AllCues = []Cue{CueTap, CueMiss, CueLevelUp, CueGameOver, CueBonus}

func (c Cue) Valid() bool {
	for _, known := range AllCues {
		if c == known {
			return true
		}
	}
	return false
}

// Player is a sink that can render a cue. Errors are reported to the Service,
// which logs them.
type Player interface {
	PlayCue(c Cue) error
}

// Service routes cues to its players while sound is enabled. Failures never
// reach the caller.
type Service struct {
	mu      sync.Mutex
	enabled bool
	players []Player
}

func NewService(enabled bool, players ...Player) *Service {
	return &Service{enabled: enabled, players: players}
}

func (s *Service) Play(c Cue) {
	s.mu.Lock()
	enabled := s.enabled
	players := s.players
	s.mu.Unlock()

	if !enabled {
		return
	}
	if !c.Valid() {
		log.Printf("[Audio] Unknown cue %q\n", c)
		return
	}
	for _, p := range players {
		if err := p.PlayCue(c); err != nil {
			log.Printf("[Audio] %v\n", err)
		}
	}
}

func (s *Service) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// AddPlayer attaches another sink, e.g. a transport that forwards cues to clients.
func (s *Service) AddPlayer(p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append(s.players, p)
}

// Noop discards every cue.
type Noop struct{}

func (Noop) PlayCue(Cue) error { return nil }
func (Noop) Play(Cue)          {}
func (Noop) SetEnabled(bool)   {}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(c Cue) error

func (f PlayerFunc) PlayCue(c Cue) error {
	if f == nil {
		return fmt.Errorf("playing %s: nil player", c)
	}
	return f(c)
}
