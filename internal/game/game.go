package game

import (
	"speeddots/internal/audio"
	"speeddots/internal/dots"
	"time"
)

type State string

const (
	StateMenu     = State("menu")
	StatePlaying  = State("playing")
	StatePaused   = State("paused")
	StateGameOver = State("gameover")
)

type Config struct {
	SessionSeconds  int // starting countdown, also the cap for bonus time
	BonusSeconds    int
	PointsPerLevel  int
	TickInterval    time.Duration
	DotLifetime     time.Duration
	AppearDelay     time.Duration
	TapRemoveDelay  time.Duration
	MissRemoveDelay time.Duration
	TapPingDuration time.Duration
}

func DefaultConfig() Config {
	return Config{
		SessionSeconds:  60,
		BonusSeconds:    2,
		PointsPerLevel:  100,
		TickInterval:    time.Second,
		DotLifetime:     2 * time.Second,
		AppearDelay:     100 * time.Millisecond,
		TapRemoveDelay:  200 * time.Millisecond,
		MissRemoveDelay: 300 * time.Millisecond,
		TapPingDuration: 500 * time.Millisecond,
	}
}

// Audio plays cues. Implementations swallow their own failures.
type Audio interface {
	Play(c audio.Cue)
	SetEnabled(enabled bool)
}

// ScoreStore persists the single high-score value.
type ScoreStore interface {
	ReadHighScore() (int, error)
	WriteHighScore(score int) error
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	State         State       `json:"state"`
	Score         int         `json:"score"`
	Level         int         `json:"level"`
	TimeRemaining int         `json:"time"`
	HighScore     int         `json:"highScore"`
	SoundEnabled  bool        `json:"sound"`
	Dots          []dots.Dot  `json:"dots"`
	LastTap       *dots.Point `json:"lastTap,omitempty"`
	SessionID     string      `json:"session,omitempty"`
}

// LiveDots returns the dots that can still be tapped.
func (s Snapshot) LiveDots() []dots.Dot {
	live := make([]dots.Dot, 0, len(s.Dots))
	for _, d := range s.Dots {
		if d.State.Live() {
			live = append(live, d)
		}
	}
	return live
}
