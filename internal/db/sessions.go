package db

import (
	"fmt"
	"time"
)

type SessionRecord struct {
	ID         string
	StartedAt  time.Time
	EndedAt    *time.Time
	FinalScore int
	FinalLevel int
	Completed  bool
}

func (d *DB) CreateSession(id string, startedAt time.Time) error {
	_, err := d.conn.Exec(`
		INSERT INTO sessions (id, started_at)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, id, startedAt)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// EndSession stores the outcome of a session. completed is false for sessions
// abandoned through the menu or a restart.
func (d *DB) EndSession(id string, score, level int, completed bool, endedAt time.Time) error {
	_, err := d.conn.Exec(`
		UPDATE sessions SET ended_at = $2, final_score = $3, final_level = $4, completed = $5
		WHERE id = $1
	`, id, endedAt, score, level, completed)
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return nil
}

func (d *DB) GetSession(id string) (*SessionRecord, error) {
	rec := &SessionRecord{ID: id}
	err := d.conn.QueryRow(`
		SELECT started_at, ended_at, final_score, final_level, completed
		FROM sessions WHERE id = $1
	`, id).Scan(&rec.StartedAt, &rec.EndedAt, &rec.FinalScore, &rec.FinalLevel, &rec.Completed)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return rec, nil
}
