package broadcast

import (
	"speeddots/internal/clock"
	"speeddots/internal/game"
	"testing"
	"time"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster(nil)
	if b == nil {
		t.Fatal("NewBroadcaster() returned nil")
	}
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster(nil)

	ch := b.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}

	b.Mu.Lock()
	if len(b.Clients) != 1 {
		t.Errorf("clients count = %d, want 1", len(b.Clients))
	}
	b.Mu.Unlock()

	b.Unsubscribe(ch)

	b.Mu.Lock()
	if len(b.Clients) != 0 {
		t.Errorf("clients count after unsubscribe = %d, want 0", len(b.Clients))
	}
	b.Mu.Unlock()
}

func TestBroadcaster_Publish(t *testing.T) {
	b := NewBroadcaster(nil)

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Publish(game.Snapshot{State: game.StatePlaying, Score: 300})

	for i, ch := range []chan game.Snapshot{ch1, ch2} {
		select {
		case snap := <-ch:
			if snap.State != game.StatePlaying || snap.Score != 300 {
				t.Errorf("ch%d got %+v, want playing with score 300", i+1, snap)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("ch%d timed out", i+1)
		}
	}

	b.Unsubscribe(ch1)
	b.Unsubscribe(ch2)
}

func TestBroadcaster_SkipsFullChannels(t *testing.T) {
	b := NewBroadcaster(nil)

	ch := b.Subscribe()

	// Fill the channel buffer (capacity 10)
	for i := 0; i < 10; i++ {
		b.Publish(game.Snapshot{Score: i})
	}

	// This should not block even though channel is full
	done := make(chan bool)
	go func() {
		b.Publish(game.Snapshot{Score: 99})
		done <- true
	}()

	select {
	case <-done:
		// Success - didn't block
	case <-time.After(1 * time.Second):
		t.Fatal("Publish blocked on full channel")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_ForwardsControllerSnapshots(t *testing.T) {
	c := game.New(game.DefaultConfig(), clock.NewFake(time.Now()), nil, nil, nil)
	defer c.Close()
	c.SetPlayAreaBounds(400, 800)
	b := NewBroadcaster(c)

	ch := b.Subscribe()
	c.Start()

	select {
	case snap := <-ch:
		if snap.State != game.StatePlaying {
			t.Errorf("State = %q, want %q", snap.State, game.StatePlaying)
		}
		if len(snap.LiveDots()) != 1 {
			t.Errorf("live dots = %d, want 1", len(snap.LiveDots()))
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for controller snapshot")
	}

	b.Unsubscribe(ch)
}
