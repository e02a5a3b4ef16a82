package analytics

import (
	"speeddots/internal/events"
	"time"
)

// Tally accumulates SessionStats for one session from its event stream, so
// badges can be awarded without a round trip to the database. TPS is measured
// over playing time; paused spans are excluded.
type Tally struct {
	stats         SessionStats
	reactionTotal time.Duration
	reactionSeen  bool
	started       time.Time
	ended         time.Time
	pausedAt      time.Time
	paused        time.Duration
}

func NewTally(sessionID string) *Tally {
	return &Tally{stats: SessionStats{SessionID: sessionID, Level: 1}}
}

// Add folds ev into the tally. Events from other sessions are ignored.
func (t *Tally) Add(ev events.Event) {
	if ev.SessionID != t.stats.SessionID {
		return
	}
	if ev.Score > t.stats.Score {
		t.stats.Score = ev.Score
	}
	if ev.Level > t.stats.Level {
		t.stats.Level = ev.Level
	}
	switch ev.Kind {
	case events.SessionStarted:
		t.started = ev.At
	case events.DotTapped:
		t.stats.Taps++
		t.reactionTotal += ev.Reaction
		ms := int(ev.Reaction.Milliseconds())
		if !t.reactionSeen || ms < t.stats.BestReaction {
			t.stats.BestReaction = ms
			t.reactionSeen = true
		}
	case events.DotMissed:
		t.stats.Misses++
	case events.SessionPaused:
		t.pausedAt = ev.At
	case events.SessionResumed:
		t.resume(ev.At)
	case events.SessionEnded:
		t.resume(ev.At)
		t.ended = ev.At
		t.stats.Completed = ev.Completed
	}
}

func (t *Tally) resume(at time.Time) {
	if t.pausedAt.IsZero() {
		return
	}
	if at.After(t.pausedAt) {
		t.paused += at.Sub(t.pausedAt)
	}
	t.pausedAt = time.Time{}
}

func (t *Tally) Stats() SessionStats {
	s := t.stats
	if s.Taps > 0 {
		s.AvgReaction = float64(t.reactionTotal.Milliseconds()) / float64(s.Taps)
	}
	if resolved := s.Taps + s.Misses; resolved > 0 {
		s.Accuracy = float64(s.Taps) / float64(resolved) * 100
	}
	if !t.started.IsZero() {
		if played := t.ended.Sub(t.started) - t.paused; played > 0 {
			s.TPS = float64(s.Taps) / played.Seconds()
		}
	}
	s.Badges = EvaluateSessionBadges(s)
	return s
}
