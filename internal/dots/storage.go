package dots

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds every dot currently on screen, including tapped and missed dots
// that are still animating out. Insertion order is preserved.
type Store struct {
	mu    sync.Mutex
	dots  map[string]*Dot
	order []string
}

func NewStore() *Store {
	return &Store{
		dots: make(map[string]*Dot),
	}
}

func (s *Store) Add(b Bounds, now time.Time) *Dot {
	s.mu.Lock()
	defer s.mu.Unlock()
	dot := &Dot{
		ID:        uuid.NewString(),
		Position:  RandomPosition(b),
		Color:     RandomColor(),
		State:     Appearing,
		SpawnedAt: now,
	}
	s.dots[dot.ID] = dot
	s.order = append(s.order, dot.ID)
	return dot
}

func (s *Store) Get(id string) (Dot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.dots[id]; ok {
		return *d, true
	}
	return Dot{}, false
}

// IsLive reports whether id names a dot that can still be tapped or expire.
func (s *Store) IsLive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dots[id]
	return ok && d.State.Live()
}

// SetState moves a dot to a new visual state. It returns false for unknown ids.
func (s *Store) SetState(id string, state VisualState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.dots[id]; ok {
		d.State = state
		return true
	}
	return false
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dots[id]; !ok {
		return false
	}
	delete(s.dots, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.dots {
		if d.State.Live() {
			n++
		}
	}
	return n
}

// GetList returns copies of every displayed dot in spawn order.
func (s *Store) GetList() []Dot {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]Dot, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, *s.dots[id])
	}
	return list
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dots = make(map[string]*Dot)
	s.order = nil
}
