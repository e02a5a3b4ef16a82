package server

import (
	"log"
	"net/http"
	"speeddots/internal/analytics"
	"strconv"
)

func (s *Server) handleAnalyticsLifetime(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Analytics requires a database connection", http.StatusServiceUnavailable)
		return
	}

	q := analytics.NewQueries(s.DB)
	stats, err := q.GetLifetimeStats()
	if err != nil {
		log.Printf("[Analytics] lifetime stats error: %v\n", err)
		http.Error(w, "Error loading stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAnalyticsLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Analytics requires a database connection", http.StatusServiceUnavailable)
		return
	}

	q := analytics.NewQueries(s.DB)
	category := r.URL.Query().Get("cat")
	if category == "" {
		category = "score"
	}

	entries, err := q.GetLeaderboard(category, 10)
	if err != nil {
		log.Printf("[Analytics] leaderboard error: %v\n", err)
		http.Error(w, "Error loading leaderboard", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAnalyticsSession(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Analytics requires a database connection", http.StatusServiceUnavailable)
		return
	}

	q := analytics.NewQueries(s.DB)
	stats, err := q.GetSessionStats(r.PathValue("id"))
	if err != nil {
		log.Printf("[Analytics] session stats error: %v\n", err)
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if recorded, err := q.GetSessionBadges(stats.SessionID); err == nil && len(recorded) > 0 {
		stats.Badges = recorded
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleAnalyticsRecent lists sessions kept in the local store.
func (s *Server) handleAnalyticsRecent(w http.ResponseWriter, r *http.Request) {
	if s.Local == nil {
		http.Error(w, "Recent sessions require SQLITE_PATH", http.StatusServiceUnavailable)
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	sessions, err := s.Local.RecentSessions(limit)
	if err != nil {
		log.Printf("[Store] recent sessions error: %v\n", err)
		http.Error(w, "Error loading sessions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}
