package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_FiresInDeadlineOrder(t *testing.T) {
	c := NewFake(epoch)
	var got []string
	c.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	c.AfterFunc(1*time.Second, func() { got = append(got, "a") })
	c.AfterFunc(3*time.Second, func() { got = append(got, "c") })

	c.Advance(3 * time.Second)

	want := "abc"
	if s := join(got); s != want {
		t.Errorf("fire order = %q, want %q", s, want)
	}
}

func TestFake_TiesFireFIFO(t *testing.T) {
	c := NewFake(epoch)
	var got []string
	c.AfterFunc(time.Second, func() { got = append(got, "x") })
	c.AfterFunc(time.Second, func() { got = append(got, "y") })
	c.AfterFunc(time.Second, func() { got = append(got, "z") })

	c.Advance(time.Second)

	if s := join(got); s != "xyz" {
		t.Errorf("fire order = %q, want %q", s, "xyz")
	}
}

func TestFake_StopPreventsFire(t *testing.T) {
	c := NewFake(epoch)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	if !tm.Stop() {
		t.Error("Stop() = false on pending timer, want true")
	}
	if tm.Stop() {
		t.Error("second Stop() = true, want false")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestFake_NotDueYet(t *testing.T) {
	c := NewFake(epoch)
	fired := false
	c.AfterFunc(2*time.Second, func() { fired = true })

	c.Advance(1999 * time.Millisecond)
	if fired {
		t.Fatal("timer fired early")
	}
	c.Advance(time.Millisecond)
	if !fired {
		t.Fatal("timer did not fire at its deadline")
	}
}

func TestFake_CallbackSchedulesWithinAdvance(t *testing.T) {
	c := NewFake(epoch)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(5 * time.Second)

	if ticks != 5 {
		t.Errorf("ticks = %d, want 5", ticks)
	}
	if !c.Now().Equal(epoch.Add(5 * time.Second)) {
		t.Errorf("Now() = %v, want %v", c.Now(), epoch.Add(5*time.Second))
	}
}

func TestFake_NowDuringCallback(t *testing.T) {
	c := NewFake(epoch)
	var at time.Time
	c.AfterFunc(1500*time.Millisecond, func() { at = c.Now() })

	c.Advance(3 * time.Second)

	if want := epoch.Add(1500 * time.Millisecond); !at.Equal(want) {
		t.Errorf("Now() in callback = %v, want %v", at, want)
	}
}

func join(parts []string) string {
	s := ""
	for _, p := range parts {
		s += p
	}
	return s
}
