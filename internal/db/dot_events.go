package db

import (
	"fmt"
	"time"
)

const (
	OutcomeTapped = "tapped"
	OutcomeMissed = "missed"
)

type DotEvent struct {
	SessionID  string
	DotID      string
	Outcome    string
	Level      int
	Points     int
	X          float64
	Y          float64
	ReactionMs int
	At         time.Time
}

const insertDotEvent = `
	INSERT INTO dot_events (session_id, dot_id, outcome, level, points, dot_x, dot_y, reaction_ms, at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (d *DB) RecordDotEvent(ev DotEvent) error {
	_, err := d.conn.Exec(insertDotEvent,
		ev.SessionID, ev.DotID, ev.Outcome, ev.Level, ev.Points, ev.X, ev.Y, ev.ReactionMs, ev.At)
	if err != nil {
		return fmt.Errorf("recording dot event: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordDotEvents(events []DotEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertDotEvent)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.SessionID, ev.DotID, ev.Outcome, ev.Level, ev.Points, ev.X, ev.Y, ev.ReactionMs, ev.At); err != nil {
			return fmt.Errorf("recording dot event in batch: %w", err)
		}
	}

	return tx.Commit()
}
