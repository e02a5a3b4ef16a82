package db

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		// Clean up test data
		database.conn.Exec("DELETE FROM session_badges")
		database.conn.Exec("DELETE FROM dot_events")
		database.conn.Exec("DELETE FROM sessions")
		database.conn.Exec("DELETE FROM settings")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	database := getTestDB(t)

	// Running twice must be harmless
	if err := database.Migrate(); err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}

	tables := []string{"settings", "sessions", "dot_events", "session_badges"}
	for _, table := range tables {
		var exists bool
		err := database.conn.QueryRow(`
			SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)
		`, table).Scan(&exists)
		if err != nil {
			t.Errorf("checking table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestHighScore(t *testing.T) {
	database := getTestDB(t)

	got, err := database.ReadHighScore()
	if err != nil {
		t.Fatalf("ReadHighScore() error: %v", err)
	}
	if got != 0 {
		t.Errorf("ReadHighScore() = %d, want 0", got)
	}

	if err := database.WriteHighScore(900); err != nil {
		t.Fatalf("WriteHighScore() error: %v", err)
	}
	if err := database.WriteHighScore(1400); err != nil {
		t.Fatalf("WriteHighScore() overwrite error: %v", err)
	}

	got, err = database.ReadHighScore()
	if err != nil {
		t.Fatalf("ReadHighScore() error: %v", err)
	}
	if got != 1400 {
		t.Errorf("ReadHighScore() = %d, want 1400", got)
	}
}

func TestCreateAndEndSession(t *testing.T) {
	database := getTestDB(t)

	id := uuid.NewString()
	start := time.Now().UTC().Truncate(time.Millisecond)
	if err := database.CreateSession(id, start); err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}
	// Duplicate create is ignored
	if err := database.CreateSession(id, start); err != nil {
		t.Fatalf("CreateSession() duplicate error: %v", err)
	}

	if err := database.EndSession(id, 1500, 5, true, start.Add(time.Minute)); err != nil {
		t.Fatalf("EndSession() error: %v", err)
	}

	rec, err := database.GetSession(id)
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if rec.EndedAt == nil {
		t.Error("ended_at should be set after EndSession()")
	}
	if rec.FinalScore != 1500 || rec.FinalLevel != 5 || !rec.Completed {
		t.Errorf("session = %+v, want score 1500 level 5 completed", rec)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	database := getTestDB(t)

	if _, err := database.GetSession("00000000-0000-0000-0000-000000000000"); err == nil {
		t.Error("GetSession() should return error for nonexistent session")
	}
}

func TestRecordDotEvent(t *testing.T) {
	database := getTestDB(t)

	id := uuid.NewString()
	database.CreateSession(id, time.Now())

	err := database.RecordDotEvent(DotEvent{
		SessionID:  id,
		DotID:      uuid.NewString(),
		Outcome:    OutcomeTapped,
		Level:      1,
		Points:     100,
		X:          120,
		Y:          340,
		ReactionMs: 480,
		At:         time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordDotEvent() error: %v", err)
	}
}

func TestBatchRecordDotEvents(t *testing.T) {
	database := getTestDB(t)

	id := uuid.NewString()
	database.CreateSession(id, time.Now())

	now := time.Now()
	events := []DotEvent{
		{SessionID: id, DotID: "a", Outcome: OutcomeTapped, Level: 1, Points: 100, X: 50, Y: 60, ReactionMs: 300, At: now},
		{SessionID: id, DotID: "b", Outcome: OutcomeMissed, Level: 2, X: 200, Y: 400, ReactionMs: 2000, At: now},
		{SessionID: id, DotID: "c", Outcome: OutcomeTapped, Level: 2, Points: 200, X: 90, Y: 700, ReactionMs: 250, At: now},
	}

	if err := database.BatchRecordDotEvents(events); err != nil {
		t.Fatalf("BatchRecordDotEvents() error: %v", err)
	}

	var count int
	database.conn.QueryRow("SELECT COUNT(*) FROM dot_events WHERE session_id = $1", id).Scan(&count)
	if count != 3 {
		t.Errorf("dot event count = %d, want 3", count)
	}
}

func TestAwardBadge(t *testing.T) {
	database := getTestDB(t)

	id := uuid.NewString()
	database.CreateSession(id, time.Now())

	if err := database.AwardBadge(id, "sharp_eye"); err != nil {
		t.Fatalf("AwardBadge() error: %v", err)
	}
	// Awarding twice is a no-op
	if err := database.AwardBadge(id, "sharp_eye"); err != nil {
		t.Fatalf("AwardBadge() duplicate error: %v", err)
	}

	badges, err := database.GetSessionBadges(id)
	if err != nil {
		t.Fatalf("GetSessionBadges() error: %v", err)
	}
	if len(badges) != 1 || badges[0] != "sharp_eye" {
		t.Errorf("badges = %v, want [sharp_eye]", badges)
	}
}
