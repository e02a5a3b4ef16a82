package scores

import "sync"

// Memory is a process-local score store, used when no database is configured.
type Memory struct {
	mu     sync.Mutex
	values map[string]int
	Writes int
}

func NewMemory(initial int) *Memory {
	m := &Memory{values: make(map[string]int)}
	if initial > 0 {
		m.values[HighScoreKey] = initial
	}
	return m
}

// HighScoreKey is the single key every score store persists under.
const HighScoreKey = "HighScore"

func (m *Memory) ReadHighScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[HighScoreKey], nil
}

func (m *Memory) WriteHighScore(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[HighScoreKey] = n
	m.Writes++
	return nil
}
