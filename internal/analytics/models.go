package analytics

import "time"

type SessionStats struct {
	SessionID    string
	Score        int
	Level        int
	Completed    bool
	Taps         int
	Misses       int
	AvgReaction  float64 // ms, taps only
	BestReaction int     // ms
	Accuracy     float64 // percentage of resolved dots that were tapped
	TPS          float64 // taps per second
	Badges       []Badge
}

type LifetimeStats struct {
	SessionsPlayed  int
	TotalScore      int
	BestScore       int
	BestLevel       int
	CompletedStreak int
	Badges          []Badge
}

type LeaderboardEntry struct {
	SessionID string
	Value     int
	Rank      int
	EndedAt   *time.Time
}
