package wshub

import (
	"encoding/json"
	"speeddots/internal/audio"
	"speeddots/internal/clock"
	"speeddots/internal/game"
	"testing"
	"time"
)

func recv(t *testing.T, c *Client) ServerMessage {
	t.Helper()
	select {
	case data := <-c.Send:
		var got ServerMessage
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return got
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("%s did not receive message", c.ID)
	}
	return ServerMessage{}
}

func TestRegisterAndBroadcast(t *testing.T) {
	h := NewHub()

	c1 := &Client{ID: "c1", Send: make(chan []byte, 16)}
	c2 := &Client{ID: "c2", Send: make(chan []byte, 16)}

	h.Register(c1)
	h.Register(c2)

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}

	h.PublishSnapshot(game.Snapshot{State: game.StatePlaying, Score: 200, Level: 2})

	for _, c := range []*Client{c1, c2} {
		got := recv(t, c)
		if got.Type != "state" || got.Snapshot == nil {
			t.Fatalf("unexpected message: %+v", got)
		}
		if got.Snapshot.Score != 200 || got.Snapshot.Level != 2 {
			t.Errorf("snapshot = %+v, want score 200 level 2", got.Snapshot)
		}
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub()

	c1 := &Client{ID: "c1", Send: make(chan []byte, 16)}
	h.Register(c1)
	h.Unregister("c1")

	if _, ok := <-c1.Send; ok {
		t.Fatal("c1.Send should be closed")
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}

	// Unregistering twice is harmless
	h.Unregister("c1")
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub()

	c1 := &Client{ID: "c1", Send: make(chan []byte, 1)}
	h.Register(c1)

	h.PlayCue(audio.CueTap)
	h.PlayCue(audio.CueMiss) // should be dropped, not block

	got := recv(t, c1)
	if got.Cue != audio.CueTap {
		t.Errorf("Cue = %q, want %q", got.Cue, audio.CueTap)
	}
}

func TestPlayCue(t *testing.T) {
	h := NewHub()
	c1 := &Client{ID: "c1", Send: make(chan []byte, 16)}
	h.Register(c1)

	if err := h.PlayCue(audio.CueLevelUp); err != nil {
		t.Fatalf("PlayCue: %v", err)
	}
	got := recv(t, c1)
	if got.Type != "cue" || got.Cue != audio.CueLevelUp {
		t.Errorf("got %+v, want levelUp cue", got)
	}

	if err := h.PlayCue(audio.Cue("fanfare")); err == nil {
		t.Error("expected error for unknown cue")
	}
}

func TestDispatch(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	c := game.New(game.DefaultConfig(), clk, nil, nil, nil)
	defer c.Close()

	if err := Dispatch(c, ClientMessage{Type: "bounds", W: 400, H: 800}); err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if err := Dispatch(c, ClientMessage{Type: "start"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap := c.Snapshot()
	live := snap.LiveDots()
	if len(live) != 1 {
		t.Fatalf("live dots = %d, want 1", len(live))
	}

	if err := Dispatch(c, ClientMessage{Type: "tap", DotID: live[0].ID}); err != nil {
		t.Fatalf("tap: %v", err)
	}
	if got := c.Snapshot().Score; got != 100 {
		t.Errorf("Score = %d, want 100", got)
	}

	Dispatch(c, ClientMessage{Type: "pause"})
	if got := c.State(); got != game.StatePaused {
		t.Errorf("State = %q, want %q", got, game.StatePaused)
	}
	Dispatch(c, ClientMessage{Type: "resume"})
	if got := c.State(); got != game.StatePlaying {
		t.Errorf("State = %q, want %q", got, game.StatePlaying)
	}

	off := false
	Dispatch(c, ClientMessage{Type: "sound", On: &off})
	if c.Snapshot().SoundEnabled {
		t.Error("SoundEnabled = true, want false")
	}
	Dispatch(c, ClientMessage{Type: "sound"})
	if !c.Snapshot().SoundEnabled {
		t.Error("SoundEnabled = false after toggle, want true")
	}

	Dispatch(c, ClientMessage{Type: "menu"})
	if got := c.State(); got != game.StateMenu {
		t.Errorf("State = %q, want %q", got, game.StateMenu)
	}

	if err := Dispatch(c, ClientMessage{Type: "jump"}); err == nil {
		t.Error("expected error for unknown message type")
	}
}
