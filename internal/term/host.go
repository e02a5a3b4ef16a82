// Package term hosts a session in a terminal: it draws snapshots with tcell
// and turns mouse clicks and keys into controller intents.
package term

import (
	"fmt"
	"speeddots/internal/dots"
	"speeddots/internal/game"
	"time"

	"github.com/gdamore/tcell/v2"
)

const frameInterval = 50 * time.Millisecond

var dotColors = map[dots.Color]tcell.Color{
	dots.Red:    tcell.ColorRed,
	dots.Blue:   tcell.ColorBlue,
	dots.Green:  tcell.ColorGreen,
	dots.Yellow: tcell.ColorYellow,
	dots.Purple: tcell.ColorPurple,
	dots.Orange: tcell.ColorOrange,
}

var dotRunes = map[dots.VisualState]rune{
	dots.Appearing: '░',
	dots.Active:    '█',
	dots.Tapped:    '*',
	dots.Missed:    'x',
}

type Host struct {
	Screen tcell.Screen
	Game   *game.Controller

	changed    chan struct{}
	buttonDown bool
}

// NewHost subscribes to ctrl and sizes the play area to screen.
func NewHost(screen tcell.Screen, ctrl *game.Controller) *Host {
	h := &Host{
		Screen:  screen,
		Game:    ctrl,
		changed: make(chan struct{}, 1),
	}
	ctrl.Subscribe(func(game.Snapshot) {
		select {
		case h.changed <- struct{}{}:
		default:
		}
	})
	cols, rows := screen.Size()
	b := BoundsFor(cols, rows)
	ctrl.SetPlayAreaBounds(b.Width, b.Height)
	return h
}

// Run processes input and redraws until the player quits.
func (h *Host) Run() {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go h.Screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	h.draw(h.Game.Snapshot())
	for {
		select {
		case ev := <-events:
			if ev == nil {
				return
			}
			if !h.handleEvent(ev) {
				return
			}
		case <-h.changed:
		case <-ticker.C:
		}
		h.draw(h.Game.Snapshot())
	}
}

// handleEvent applies one input event and reports whether to keep running.
func (h *Host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyEnter {
			h.Game.Start()
			return true
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 's':
			h.Game.Start()
		case 'p':
			if h.Game.State() == game.StatePaused {
				h.Game.Resume()
			} else {
				h.Game.Pause()
			}
		case 'm':
			h.Game.ReturnToMenu()
		case 't':
			h.Game.ToggleSound()
		}

	case *tcell.EventMouse:
		// motion events repeat while the button is held; tap on the press edge only
		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !h.buttonDown {
			x, y := ev.Position()
			if id, ok := HitTest(h.Game.Snapshot().Dots, x, y); ok {
				h.Game.TapDot(id)
			}
		}
		h.buttonDown = pressed

	case *tcell.EventResize:
		h.Screen.Sync()
		cols, rows := ev.Size()
		b := BoundsFor(cols, rows)
		h.Game.SetPlayAreaBounds(b.Width, b.Height)
	}
	return true
}

func (h *Host) draw(snap game.Snapshot) {
	h.Screen.Clear()

	hud := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	sound := "on"
	if !snap.SoundEnabled {
		sound = "off"
	}
	h.drawText(0, 0, fmt.Sprintf("Score %d  Level %d  Time %d  Best %d  Sound %s",
		snap.Score, snap.Level, snap.TimeRemaining, snap.HighScore, sound), hud)
	h.drawText(0, 1, statusLine(snap), tcell.StyleDefault.Foreground(tcell.ColorGray))

	cols, rows := h.Screen.Size()
	for _, d := range snap.Dots {
		style := tcell.StyleDefault.Foreground(dotColors[d.Color])
		if !d.State.Live() {
			style = style.Dim(true)
		}
		x0, y0, x1, y1 := footprint(d)
		for y := max(y0, HUDRows); y <= y1 && y < rows; y++ {
			for x := max(x0, 0); x <= x1 && x < cols; x++ {
				h.Screen.SetContent(x, y, dotRunes[d.State], nil, style)
			}
		}
	}

	if snap.LastTap != nil {
		x, y := ToCell(*snap.LastTap)
		h.Screen.SetContent(x, y, 'o', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true))
	}

	h.Screen.Show()
}

func statusLine(snap game.Snapshot) string {
	switch snap.State {
	case game.StateMenu:
		return "SpeedDots: press s to start, q to quit"
	case game.StatePaused:
		return "Paused: p to resume, m for menu"
	case game.StateGameOver:
		if snap.Score > 0 && snap.Score >= snap.HighScore {
			return fmt.Sprintf("Game over! New high score %d. s to play again, m for menu", snap.Score)
		}
		return fmt.Sprintf("Game over! Score %d. s to play again, m for menu", snap.Score)
	}
	return "Click the dots. p to pause, t toggles sound"
}

func (h *Host) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		h.Screen.SetContent(x, y, r, nil, style)
		x++
	}
}
