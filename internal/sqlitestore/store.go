// Package sqlitestore keeps the high score and finished sessions in a local
// SQLite file for hosts without a Postgres database.
package sqlitestore

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"speeddots/internal/scores"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationTable = "schema_migrations"

type Store struct {
	sqlDB *sql.DB
}

// SessionRecord is one finished or abandoned session.
type SessionRecord struct {
	ID        string
	Score     int
	Level     int
	Completed bool
	EndedAt   time.Time
}

// Open opens the store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path)
	if path == ":memory:" {
		dsn = path
	} else {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a single connection keeps :memory: databases coherent
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrationsFS, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ReadHighScore() (int, error) {
	var value int
	err := s.sqlDB.QueryRow(`SELECT value FROM settings WHERE key = ?`, scores.HighScoreKey).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading high score: %w", err)
	}
	return value, nil
}

func (s *Store) WriteHighScore(n int) error {
	_, err := s.sqlDB.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scores.HighScoreKey, n, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing high score: %w", err)
	}
	return nil
}

// RecordSession stores the final score of a session. Re-recording an id
// overwrites it.
func (s *Store) RecordSession(rec SessionRecord) error {
	completed := 0
	if rec.Completed {
		completed = 1
	}
	_, err := s.sqlDB.Exec(
		`INSERT OR REPLACE INTO sessions (id, score, level, completed, ended_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Score, rec.Level, completed, rec.EndedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	rows, err := s.sqlDB.Query(
		`SELECT id, score, level, completed, ended_at FROM sessions ORDER BY ended_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var completed int
		var endedAt int64
		if err := rows.Scan(&rec.ID, &rec.Score, &rec.Level, &completed, &endedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		rec.Completed = completed == 1
		rec.EndedAt = time.UnixMilli(endedAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// applyMigrations executes each migration file at most once.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS, root string) error {
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var found int
		err := sqlDB.QueryRow(`SELECT 1 FROM `+migrationTable+` WHERE name = ?`, file).Scan(&found)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration %s: %w", file, err)
		}

		content, err := fs.ReadFile(migrationFS, root+"/"+file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := extractUp(string(content))

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
		log.Printf("[Store] Applied migration: %s\n", file)
	}
	return nil
}

// extractUp returns the SQL in the -- +migrate Up section.
func extractUp(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len("-- +migrate Up"):]
	if downIdx := strings.Index(body, "-- +migrate Down"); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}
