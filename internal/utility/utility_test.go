package utility

import "testing"

func TestBetween_InRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := Between(40, 360)
		if v < 40 || v > 360 {
			t.Fatalf("Between(40, 360) = %v, out of range", v)
		}
	}
}

func TestBetween_EmptyRange(t *testing.T) {
	if v := Between(40, 40); v != 40 {
		t.Errorf("Between(40, 40) = %v, want 40", v)
	}
	if v := Between(50, 10); v != 50 {
		t.Errorf("Between(50, 10) = %v, want 50", v)
	}
}

func TestPick(t *testing.T) {
	items := []string{"red", "blue", "green"}
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		seen[Pick(items)] = true
	}
	// 300 draws over 3 items should hit every one
	if len(seen) != len(items) {
		t.Errorf("Pick covered %d of %d items", len(seen), len(items))
	}
}

func TestPick_Empty(t *testing.T) {
	if got := Pick([]int(nil)); got != 0 {
		t.Errorf("Pick(nil) = %d, want 0", got)
	}
}
