package scores

import "testing"

func TestMemory_DefaultsToZero(t *testing.T) {
	m := NewMemory(0)
	got, err := m.ReadHighScore()
	if err != nil {
		t.Fatalf("ReadHighScore: %v", err)
	}
	if got != 0 {
		t.Errorf("ReadHighScore() = %d, want 0", got)
	}
}

func TestMemory_WriteThenRead(t *testing.T) {
	m := NewMemory(500)
	if got, _ := m.ReadHighScore(); got != 500 {
		t.Errorf("initial = %d, want 500", got)
	}

	if err := m.WriteHighScore(1200); err != nil {
		t.Fatalf("WriteHighScore: %v", err)
	}
	if got, _ := m.ReadHighScore(); got != 1200 {
		t.Errorf("ReadHighScore() = %d, want 1200", got)
	}
	if m.Writes != 1 {
		t.Errorf("Writes = %d, want 1", m.Writes)
	}
}
