package game

import (
	"log"
	"speeddots/internal/audio"
	"speeddots/internal/clock"
	"speeddots/internal/dots"
	"speeddots/internal/events"
	"sync"

	"github.com/google/uuid"
)

// Controller owns a single game session. Every mutation, whether from an
// intent or a timer, runs under mu, so callbacks never interleave.
type Controller struct {
	mu        sync.Mutex
	deliverMu sync.Mutex

	cfg    Config
	clock  clock.Clock
	audio  Audio
	store  ScoreStore
	events *events.Bus

	state         State
	score         int
	level         int
	timeRemaining int
	tapsThisLevel int
	highScore     int
	soundEnabled  bool
	bounds        dots.Bounds
	lastTap       *dots.Point
	sessionID     string

	Dots *dots.Store

	timers   map[*timer]struct{}
	timerSeq uint64
	expiry   map[string]*timer
	appear   map[string]*timer
	tick     *timer
	ping     *timer

	observers    map[int]func(Snapshot)
	nextObserver int
	pending      []func()
}

// New creates a controller in the Menu state. The high score is read from
// store once, here.
func New(cfg Config, clk clock.Clock, a Audio, store ScoreStore, bus *events.Bus) *Controller {
	if a == nil {
		a = audio.Noop{}
	}
	c := &Controller{
		cfg:           cfg,
		clock:         clk,
		audio:         a,
		store:         store,
		events:        bus,
		state:         StateMenu,
		level:         1,
		timeRemaining: cfg.SessionSeconds,
		soundEnabled:  true,
		Dots:          dots.NewStore(),
		timers:        make(map[*timer]struct{}),
		expiry:        make(map[string]*timer),
		appear:        make(map[string]*timer),
		observers:     make(map[int]func(Snapshot)),
	}
	if store != nil {
		high, err := store.ReadHighScore()
		if err != nil {
			log.Printf("[Game] Reading high score: %v\n", err)
		} else {
			c.highScore = high
		}
	}
	c.audio.SetEnabled(c.soundEnabled)
	return c
}

// Subscribe registers fn to receive a snapshot after every mutation. fn runs
// synchronously after the controller lock is released but must not call back
// into the controller; hand the snapshot off instead.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetPlayAreaBounds records the play-area size used by the next spawn. Dots
// already on screen keep their positions.
func (c *Controller) SetPlayAreaBounds(width, height float64) {
	c.update(func() bool {
		c.bounds = dots.Bounds{Width: width, Height: height}
		return c.refill() > 0
	})
}

// Start resets the session and begins playing. It is accepted from any state.
func (c *Controller) Start() {
	c.update(func() bool {
		if c.state == StatePlaying || c.state == StatePaused {
			c.endSession(false)
		}
		c.cancelAll()
		c.Dots.Clear()
		c.score = 0
		c.level = 1
		c.tapsThisLevel = 0
		c.timeRemaining = c.cfg.SessionSeconds
		c.lastTap = nil
		c.sessionID = uuid.NewString()
		c.state = StatePlaying
		c.emit(events.Event{Kind: events.SessionStarted, Level: c.level})
		c.tick = c.after(c.cfg.TickInterval, c.onTick)
		c.refill()
		return true
	})
}

func (c *Controller) Pause() {
	c.update(func() bool {
		if c.state != StatePlaying {
			return false
		}
		c.pauseTimers()
		c.state = StatePaused
		c.emit(events.Event{Kind: events.SessionPaused, Level: c.level})
		return true
	})
}

func (c *Controller) Resume() {
	c.update(func() bool {
		if c.state != StatePaused {
			return false
		}
		c.state = StatePlaying
		c.resumeTimers()
		c.emit(events.Event{Kind: events.SessionResumed, Level: c.level})
		return true
	})
}

// ReturnToMenu abandons the current session. Nothing beyond what game over
// already committed is persisted.
func (c *Controller) ReturnToMenu() {
	c.update(func() bool {
		if c.state == StateMenu {
			return false
		}
		if c.state == StatePlaying || c.state == StatePaused {
			c.endSession(false)
		}
		c.cancelAll()
		c.Dots.Clear()
		c.lastTap = nil
		c.state = StateMenu
		return true
	})
}

// TapDot scores a hit on a live dot. Taps on unknown, removed, or fading dots
// and taps outside Playing are ignored; the result reports whether it counted.
func (c *Controller) TapDot(id string) bool {
	counted := false
	c.update(func() bool {
		if c.state != StatePlaying || !c.Dots.IsLive(id) {
			return false
		}
		dot, _ := c.Dots.Get(id)

		exp := c.expiry[id]
		reaction := c.cfg.DotLifetime
		if exp != nil {
			reaction = c.elapsed(exp)
		}
		c.cancel(exp)
		c.cancel(c.appear[id])
		delete(c.expiry, id)
		delete(c.appear, id)

		pos := dot.Position
		c.lastTap = &pos
		c.cancel(c.ping)
		c.ping = c.after(c.cfg.TapPingDuration, func() {
			c.ping = nil
			c.lastTap = nil
		})

		c.Dots.SetState(id, dots.Tapped)
		c.after(c.cfg.TapRemoveDelay, func() { c.Dots.Remove(id) })
		c.play(audio.CueTap)

		tapLevel := c.level
		points := c.cfg.PointsPerLevel * tapLevel
		c.score += points
		c.emit(events.Event{
			Kind:     events.DotTapped,
			DotID:    id,
			Level:    tapLevel,
			Points:   points,
			X:        pos.X,
			Y:        pos.Y,
			Reaction: reaction,
		})

		c.tapsThisLevel++
		if c.tapsThisLevel >= c.level {
			c.level++
			c.tapsThisLevel = 0
			c.play(audio.CueLevelUp)
			c.emit(events.Event{Kind: events.LevelUp, Level: c.level})
		}

		prev := c.timeRemaining
		c.timeRemaining = min(c.timeRemaining+c.cfg.BonusSeconds, c.cfg.SessionSeconds)
		if c.timeRemaining > prev {
			c.play(audio.CueBonus)
		}

		c.refill()
		c.updateHighScore()
		counted = true
		return true
	})
	return counted
}

// ToggleSound flips the sound flag and returns the new value.
func (c *Controller) ToggleSound() bool {
	var enabled bool
	c.update(func() bool {
		c.soundEnabled = !c.soundEnabled
		enabled = c.soundEnabled
		c.pending = append(c.pending, func() { c.audio.SetEnabled(enabled) })
		return true
	})
	return enabled
}

func (c *Controller) SetSoundEnabled(enabled bool) {
	c.update(func() bool {
		if c.soundEnabled == enabled {
			return false
		}
		c.soundEnabled = enabled
		c.pending = append(c.pending, func() { c.audio.SetEnabled(enabled) })
		return true
	})
}

// Close cancels every outstanding timer. The controller stays readable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelAll()
}

func (c *Controller) onTick() {
	c.tick = nil
	if c.state != StatePlaying {
		return
	}
	if c.timeRemaining > 0 {
		c.timeRemaining--
		c.tick = c.after(c.cfg.TickInterval, c.onTick)
		return
	}
	c.gameOver()
}

func (c *Controller) gameOver() {
	c.cancelAll()
	c.Dots.Clear()
	c.lastTap = nil
	c.state = StateGameOver
	c.updateHighScore()
	c.play(audio.CueGameOver)
	c.endSession(true)
}

// refill spawns until the live set reaches the current level or a spawn is
// rejected. It returns the number of dots spawned.
func (c *Controller) refill() int {
	n := 0
	for c.spawn() {
		n++
	}
	return n
}

func (c *Controller) spawn() bool {
	if c.state != StatePlaying || !c.bounds.Usable() || c.Dots.LiveCount() >= c.level {
		return false
	}
	dot := c.Dots.Add(c.bounds, c.clock.Now())
	id := dot.ID
	c.appear[id] = c.after(c.cfg.AppearDelay, func() {
		delete(c.appear, id)
		if d, ok := c.Dots.Get(id); ok && d.State == dots.Appearing {
			c.Dots.SetState(id, dots.Active)
		}
	})
	c.expiry[id] = c.after(c.cfg.DotLifetime, func() { c.expire(id) })
	c.emit(events.Event{
		Kind:  events.DotSpawned,
		DotID: id,
		Level: c.level,
		X:     dot.Position.X,
		Y:     dot.Position.Y,
	})
	return true
}

func (c *Controller) expire(id string) {
	delete(c.expiry, id)
	if !c.Dots.IsLive(id) {
		return
	}
	c.cancel(c.appear[id])
	delete(c.appear, id)

	dot, _ := c.Dots.Get(id)
	c.Dots.SetState(id, dots.Missed)
	c.play(audio.CueMiss)
	c.emit(events.Event{
		Kind:     events.DotMissed,
		DotID:    id,
		Level:    c.level,
		X:        dot.Position.X,
		Y:        dot.Position.Y,
		Reaction: c.cfg.DotLifetime,
	})
	c.after(c.cfg.MissRemoveDelay, func() {
		c.Dots.Remove(id)
		c.refill()
	})
}

func (c *Controller) updateHighScore() {
	if c.score <= c.highScore {
		return
	}
	c.highScore = c.score
	if c.store == nil {
		return
	}
	if err := c.store.WriteHighScore(c.highScore); err != nil {
		log.Printf("[Game] Writing high score: %v\n", err)
	}
}

func (c *Controller) endSession(completed bool) {
	c.emit(events.Event{
		Kind:      events.SessionEnded,
		Level:     c.level,
		Completed: completed,
	})
}

func (c *Controller) play(cue audio.Cue) {
	c.pending = append(c.pending, func() { c.audio.Play(cue) })
}

func (c *Controller) emit(ev events.Event) {
	if c.events == nil {
		return
	}
	ev.SessionID = c.sessionID
	ev.Score = c.score
	ev.At = c.clock.Now()
	c.pending = append(c.pending, func() { c.events.Publish(ev) })
}

// update applies fn under the lock, then delivers queued cues, events and,
// if fn reports a change, a snapshot to observers. Deliveries are serialized
// in mutation order.
func (c *Controller) update(fn func() bool) {
	c.mu.Lock()
	changed := fn()
	pending := c.pending
	c.pending = nil
	var snap Snapshot
	var observers []func(Snapshot)
	if changed {
		snap = c.snapshotLocked()
		observers = make([]func(Snapshot), 0, len(c.observers))
		for _, o := range c.observers {
			observers = append(observers, o)
		}
	}
	c.deliverMu.Lock()
	c.mu.Unlock()
	defer c.deliverMu.Unlock()

	for _, p := range pending {
		p()
	}
	for _, o := range observers {
		o(snap)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:         c.state,
		Score:         c.score,
		Level:         c.level,
		TimeRemaining: c.timeRemaining,
		HighScore:     c.highScore,
		SoundEnabled:  c.soundEnabled,
		Dots:          c.Dots.GetList(),
		SessionID:     c.sessionID,
	}
	if c.lastTap != nil {
		p := *c.lastTap
		snap.LastTap = &p
	}
	return snap
}
