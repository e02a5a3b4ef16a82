package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freqs    []float64 // played back to back
	duration time.Duration
	volume   float64 // beep.Volume exponent, base 2
}

var cueTones = map[Cue]tone{
	CueTap:      {freqs: []float64{880}, duration: 60 * time.Millisecond, volume: -1},
	CueMiss:     {freqs: []float64{220, 165}, duration: 120 * time.Millisecond, volume: -1.5},
	CueLevelUp:  {freqs: []float64{523.25, 659.25, 783.99}, duration: 90 * time.Millisecond, volume: -1},
	CueGameOver: {freqs: []float64{392, 311.13, 261.63}, duration: 220 * time.Millisecond, volume: -0.5},
	CueBonus:    {freqs: []float64{1318.5}, duration: 80 * time.Millisecond, volume: -2},
}

// Speaker synthesizes cue tones on the local audio device.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewSpeaker() *Speaker {
	return &Speaker{mixer: &beep.Mixer{}}
}

// Initialize opens the audio device. A Speaker that failed to initialize
// reports an error for every cue.
func (s *Speaker) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

func (s *Speaker) PlayCue(c Cue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return fmt.Errorf("playing %s: speaker not initialized", c)
	}
	st, err := cueStreamer(c)
	if err != nil {
		return err
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
	return nil
}

func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	s.initialized = false
}

// cueStreamer builds a finite streamer for a cue.
func cueStreamer(c Cue) (beep.Streamer, error) {
	t, ok := cueTones[c]
	if !ok {
		return nil, fmt.Errorf("playing %s: no tone for cue", c)
	}
	parts := make([]beep.Streamer, 0, len(t.freqs))
	for _, f := range t.freqs {
		sine, err := generators.SineTone(sampleRate, f)
		if err != nil {
			return nil, fmt.Errorf("generating %s tone: %w", c, err)
		}
		n := sampleRate.N(t.duration)
		parts = append(parts, newEnvelope(beep.Take(n, sine), n))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   t.volume,
	}, nil
}

// envelope applies a short linear fade in and an exponential fade out to
// avoid clicks at tone boundaries.
type envelope struct {
	s     beep.Streamer
	pos   int
	total int
}

func newEnvelope(s beep.Streamer, total int) *envelope {
	return &envelope{s: s, total: total}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	attack := sampleRate.N(5 * time.Millisecond)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.pos < attack {
			gain = float64(e.pos) / float64(attack)
		}
		progress := float64(e.pos) / float64(e.total)
		gain *= math.Exp(-3 * progress)
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error {
	return e.s.Err()
}
