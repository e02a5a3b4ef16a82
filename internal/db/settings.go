package db

import (
	"database/sql"
	"fmt"
	"speeddots/internal/scores"
)

// ReadHighScore returns the stored high score, or 0 when none was written yet.
func (d *DB) ReadHighScore() (int, error) {
	var value int
	err := d.conn.QueryRow(`SELECT value FROM settings WHERE key = $1`, scores.HighScoreKey).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading high score: %w", err)
	}
	return value, nil
}

func (d *DB) WriteHighScore(n int) error {
	_, err := d.conn.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now()
	`, scores.HighScoreKey, n)
	if err != nil {
		return fmt.Errorf("writing high score: %w", err)
	}
	return nil
}
