package dots

import (
	"math"
	"testing"
	"time"
)

var bounds = Bounds{Width: 400, Height: 800}

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	if list := s.GetList(); len(list) != 0 {
		t.Errorf("new store should be empty, got %d dots", len(list))
	}
}

func TestStore_Add(t *testing.T) {
	s := NewStore()
	now := time.Now()
	dot := s.Add(bounds, now)

	if dot.ID == "" {
		t.Error("dot ID should not be empty")
	}
	if dot.Position.X < Padding || dot.Position.X > bounds.Width-Padding {
		t.Errorf("dot X = %v, out of bounds", dot.Position.X)
	}
	if dot.Position.Y < Padding || dot.Position.Y > bounds.Height-Padding {
		t.Errorf("dot Y = %v, out of bounds", dot.Position.Y)
	}
	if dot.Color == "" {
		t.Error("dot Color should not be empty")
	}
	if dot.State != Appearing {
		t.Errorf("dot State = %q, want %q", dot.State, Appearing)
	}
	if !dot.SpawnedAt.Equal(now) {
		t.Errorf("SpawnedAt = %v, want %v", dot.SpawnedAt, now)
	}
}

func TestStore_Add_UniqueIDs(t *testing.T) {
	s := NewStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		d := s.Add(bounds, time.Now())
		if seen[d.ID] {
			t.Fatalf("duplicate dot ID %q", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestStore_Add_PaletteColor(t *testing.T) {
	s := NewStore()
	valid := make(map[Color]bool)
	for _, c := range Palette {
		valid[c] = true
	}
	for i := 0; i < 50; i++ {
		d := s.Add(bounds, time.Now())
		if !valid[d.Color] {
			t.Fatalf("dot Color = %q, not in palette", d.Color)
		}
	}
}

func TestStore_SetState_LeavesLiveSet(t *testing.T) {
	s := NewStore()
	dot := s.Add(bounds, time.Now())

	if !s.IsLive(dot.ID) {
		t.Fatal("new dot should be live")
	}
	s.SetState(dot.ID, Tapped)

	if s.IsLive(dot.ID) {
		t.Error("tapped dot should not be live")
	}
	if s.LiveCount() != 0 {
		t.Errorf("LiveCount() = %d, want 0", s.LiveCount())
	}
	if len(s.GetList()) != 1 {
		t.Errorf("tapped dot should still be displayed, got %d dots", len(s.GetList()))
	}
}

func TestStore_SetState_Nonexistent(t *testing.T) {
	s := NewStore()
	if s.SetState("missing", Missed) {
		t.Error("SetState() on unknown id should return false")
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	a := s.Add(bounds, time.Now())
	b := s.Add(bounds, time.Now())
	c := s.Add(bounds, time.Now())

	if !s.Remove(b.ID) {
		t.Fatal("Remove() = false, want true")
	}
	if s.Remove(b.ID) {
		t.Error("second Remove() = true, want false")
	}

	list := s.GetList()
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != c.ID {
		t.Errorf("GetList() after remove = %v, want [%s %s]", list, a.ID, c.ID)
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Add(bounds, time.Now())
	s.Add(bounds, time.Now())

	s.Clear()

	if list := s.GetList(); len(list) != 0 {
		t.Errorf("after Clear(), got %d dots, want 0", len(list))
	}
	if s.LiveCount() != 0 {
		t.Errorf("after Clear(), LiveCount() = %d, want 0", s.LiveCount())
	}
}

func TestBounds_Usable(t *testing.T) {
	cases := []struct {
		b    Bounds
		want bool
	}{
		{Bounds{}, false},
		{Bounds{Width: 400}, false},
		{Bounds{Width: 79, Height: 800}, false},
		{Bounds{Width: 80, Height: 80}, true},
		{Bounds{Width: 400, Height: 800}, true},
		{Bounds{Width: math.Inf(1), Height: 800}, false},
		{Bounds{Width: 400, Height: math.Inf(-1)}, false},
		{Bounds{Width: math.NaN(), Height: 800}, false},
	}
	for _, tc := range cases {
		if got := tc.b.Usable(); got != tc.want {
			t.Errorf("%+v.Usable() = %v, want %v", tc.b, got, tc.want)
		}
	}
}
