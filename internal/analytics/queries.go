package analytics

import (
	"fmt"
	"speeddots/internal/db"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetSessionStats(sessionID string) (*SessionStats, error) {
	stats := &SessionStats{SessionID: sessionID}

	err := q.DB.QueryRow(`
		SELECT final_score, final_level, completed FROM sessions WHERE id = $1
	`, sessionID).Scan(&stats.Score, &stats.Level, &stats.Completed)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	err = q.DB.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE outcome = 'tapped') as taps,
			COUNT(*) FILTER (WHERE outcome = 'missed') as misses,
			COALESCE(AVG(reaction_ms) FILTER (WHERE outcome = 'tapped'), 0) as avg_reaction,
			COALESCE(MIN(reaction_ms) FILTER (WHERE outcome = 'tapped'), 0) as best_reaction
		FROM dot_events
		WHERE session_id = $1
	`, sessionID).Scan(&stats.Taps, &stats.Misses, &stats.AvgReaction, &stats.BestReaction)
	if err != nil {
		return nil, fmt.Errorf("getting dot stats: %w", err)
	}

	var durationSecs float64
	q.DB.QueryRow(`
		SELECT EXTRACT(EPOCH FROM (ended_at - started_at))
		FROM sessions WHERE id = $1 AND ended_at IS NOT NULL
	`, sessionID).Scan(&durationSecs)
	if durationSecs > 0 {
		stats.TPS = float64(stats.Taps) / durationSecs
	}

	if resolved := stats.Taps + stats.Misses; resolved > 0 {
		stats.Accuracy = float64(stats.Taps) / float64(resolved) * 100
	}

	stats.Badges = EvaluateSessionBadges(*stats)

	return stats, nil
}

func (q *Queries) GetLifetimeStats() (*LifetimeStats, error) {
	stats := &LifetimeStats{}

	err := q.DB.QueryRow(`
		SELECT
			COUNT(*) as sessions_played,
			COALESCE(SUM(final_score), 0) as total_score,
			COALESCE(MAX(final_score), 0) as best_score,
			COALESCE(MAX(final_level), 0) as best_level
		FROM sessions
		WHERE ended_at IS NOT NULL
	`).Scan(&stats.SessionsPlayed, &stats.TotalScore, &stats.BestScore, &stats.BestLevel)
	if err != nil {
		return nil, fmt.Errorf("getting lifetime stats: %w", err)
	}

	// Most recent consecutive completed sessions
	rows, err := q.DB.Query(`
		SELECT completed FROM sessions WHERE ended_at IS NOT NULL ORDER BY ended_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("getting completed streak: %w", err)
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var completed bool
		if err := rows.Scan(&completed); err != nil {
			return nil, err
		}
		if !completed {
			break
		}
		streak++
	}
	stats.CompletedStreak = streak

	stats.Badges = EvaluateLifetimeBadges(*stats)

	return stats, nil
}

func (q *Queries) GetLeaderboard(category string, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch category {
	case "score":
		query = `
			SELECT id, final_score as value, ended_at
			FROM sessions
			WHERE ended_at IS NOT NULL
			ORDER BY value DESC, ended_at
			LIMIT $1`
	case "level":
		query = `
			SELECT id, final_level as value, ended_at
			FROM sessions
			WHERE ended_at IS NOT NULL
			ORDER BY value DESC, ended_at
			LIMIT $1`
	case "reaction":
		query = `
			SELECT s.id, MIN(de.reaction_ms) as value, s.ended_at
			FROM sessions s
			JOIN dot_events de ON de.session_id = s.id AND de.outcome = 'tapped'
			GROUP BY s.id, s.ended_at
			ORDER BY value ASC
			LIMIT $1`
	case "taps":
		query = `
			SELECT s.id, COUNT(*) as value, s.ended_at
			FROM sessions s
			JOIN dot_events de ON de.session_id = s.id AND de.outcome = 'tapped'
			GROUP BY s.id, s.ended_at
			ORDER BY value DESC
			LIMIT $1`
	default:
		return nil, fmt.Errorf("unknown leaderboard category: %s", category)
	}

	rows, err := q.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.SessionID, &e.Value, &e.EndedAt); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	return entries, nil
}

// GetSessionBadges returns the badges recorded for a session.
func (q *Queries) GetSessionBadges(sessionID string) ([]Badge, error) {
	ids, err := q.DB.GetSessionBadges(sessionID)
	if err != nil {
		return nil, err
	}
	var out []Badge
	for _, id := range ids {
		if b, ok := AllBadges[BadgeID(id)]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}
