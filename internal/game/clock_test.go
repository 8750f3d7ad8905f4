package game

import (
	"testing"
	"time"
)

func TestClock_Deltas(t *testing.T) {
	c := NewClock(0.033)
	t0 := time.Unix(1000, 0)
	if dt := c.Tick(t0); dt != 0 {
		t.Fatalf("first tick=%.4f, want 0", dt)
	}
	if dt := c.Tick(t0.Add(10 * time.Millisecond)); !approx(dt, 0.010, 1e-12) {
		t.Fatalf("dt=%.4f, want 0.010", dt)
	}
	if dt := c.Tick(t0.Add(2 * time.Second)); dt != 0.033 {
		t.Fatalf("long frame dt=%.4f, want clamp 0.033", dt)
	}
	if dt := c.Tick(t0); dt != 0 {
		t.Fatalf("backwards clock dt=%.4f, want 0", dt)
	}
}

func TestClock_PauseResume(t *testing.T) {
	c := NewClock(0.033)
	t0 := time.Unix(1000, 0)
	c.Tick(t0)
	c.Pause()
	if !c.Paused() {
		t.Fatal("Paused should report true")
	}
	if dt := c.Tick(t0.Add(16 * time.Millisecond)); dt != 0 {
		t.Fatalf("paused dt=%.4f, want 0", dt)
	}
	// A long pause must not leak into the first resumed delta.
	resume := t0.Add(time.Minute)
	c.Resume(resume)
	if dt := c.Tick(resume.Add(16 * time.Millisecond)); !approx(dt, 0.016, 1e-12) {
		t.Fatalf("dt after resume=%.4f, want 0.016", dt)
	}
}
