package term

import (
	"log"
	"speeddots/internal/events"
	"speeddots/internal/sqlitestore"
)

// RecordSessions drains bus until quit closes, saving each finished session
// to local when it is set.
func RecordSessions(bus *events.Bus, local *sqlitestore.Store, quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case ev := <-bus.Events:
			if ev.Kind != events.SessionEnded || local == nil {
				continue
			}
			err := local.RecordSession(sqlitestore.SessionRecord{
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
	}
}
