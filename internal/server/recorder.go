package server

import (
	"context"
	"log"
	"speeddots/internal/analytics"
	"speeddots/internal/db"
	"speeddots/internal/events"
	"speeddots/internal/sqlitestore"
)

// pumpEvents drains the controller's event bus until ctx is done.
func (s *Server) pumpEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.Bus.Events:
			s.recordEvent(ev)
		}
	}
}

// recordEvent feeds one gameplay event to metrics and storage. It is only
// called from the pump goroutine.
func (s *Server) recordEvent(ev events.Event) {
	if s.Metrics != nil {
		s.Metrics.Observe(ev)
	}
	if s.tallies == nil {
		s.tallies = make(map[string]*analytics.Tally)
	}

	switch ev.Kind {
	case events.SessionStarted:
		s.tallies[ev.SessionID] = analytics.NewTally(ev.SessionID)
		if s.DB != nil {
			if err := s.DB.CreateSession(ev.SessionID, ev.At); err != nil {
				log.Printf("[DB] CreateSession error: %v\n", err)
			}
		}
	case events.DotTapped, events.DotMissed:
		s.bufferDotEvent(ev)
	}

	tally := s.tallies[ev.SessionID]
	if tally != nil {
		tally.Add(ev)
	}

	if ev.Kind == events.SessionEnded {
		delete(s.tallies, ev.SessionID)
		s.finishSession(ev, tally)
	}
}

func (s *Server) bufferDotEvent(ev events.Event) {
	if s.EventBuffer == nil {
		return
	}
	outcome := db.OutcomeTapped
	if ev.Kind == events.DotMissed {
		outcome = db.OutcomeMissed
	}
	select {
	case s.EventBuffer <- db.DotEvent{
		SessionID:  ev.SessionID,
		DotID:      ev.DotID,
		Outcome:    outcome,
		Level:      ev.Level,
		Points:     ev.Points,
		X:          ev.X,
		Y:          ev.Y,
		ReactionMs: int(ev.Reaction.Milliseconds()),
		At:         ev.At,
	}:
	default:
		log.Println("[DB] Dot event buffer full, dropping event")
	}
}

func (s *Server) finishSession(ev events.Event, tally *analytics.Tally) {
	if s.Local != nil {
		err := s.Local.RecordSession(sqlitestore.SessionRecord{
			ID:        ev.SessionID,
			Score:     ev.Score,
			Level:     ev.Level,
			Completed: ev.Completed,
			EndedAt:   ev.At,
		})
		if err != nil {
			log.Printf("[Store] RecordSession error: %v\n", err)
		}
	}

	if s.DB == nil {
		return
	}
	if err := s.DB.EndSession(ev.SessionID, ev.Score, ev.Level, ev.Completed, ev.At); err != nil {
		log.Printf("[DB] EndSession error: %v\n", err)
		return
	}
	if tally == nil {
		return
	}
	for _, b := range tally.Stats().Badges {
		if err := s.DB.AwardBadge(ev.SessionID, string(b.ID)); err != nil {
			log.Printf("[DB] AwardBadge error: %v\n", err)
		}
	}
}
