package broadcast

import (
	"speeddots/internal/game"
	"sync"
)

// Broadcaster fans controller snapshots out to subscribers such as SSE streams.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan game.Snapshot]bool
}

// NewBroadcaster subscribes to c and republishes every snapshot it emits.
func NewBroadcaster(c *game.Controller) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan game.Snapshot]bool),
	}
	if c != nil {
		c.Subscribe(b.Publish)
	}
	return b
}

func (b *Broadcaster) Subscribe() chan game.Snapshot {
	ch := make(chan game.Snapshot, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan game.Snapshot) {
	b.Mu.Lock()
	delete(b.Clients, ch)
	b.Mu.Unlock()
	close(ch)
}

func (b *Broadcaster) Publish(snap game.Snapshot) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- snap:
		default:
			// skip clients with full data channels
		}
	}
}
