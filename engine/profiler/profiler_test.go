package profiler

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestProfiler(interval time.Duration) (*Profiler, *fakeClock) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithInterval(interval), WithLabel("Test"))
	p.now = clock.now
	p.lastTime = clock.t
	return p, clock
}

func TestTickReportsAtInterval(t *testing.T) {
	p, clock := newTestProfiler(time.Second)

	frameTimes := []time.Duration{2 * time.Millisecond, 6 * time.Millisecond, 4 * time.Millisecond}
	for i, ft := range frameTimes {
		clock.t = clock.t.Add(250 * time.Millisecond)
		if p.Tick(ft) {
			t.Fatalf("tick %d reported before the interval elapsed", i)
		}
	}

	clock.t = clock.t.Add(250 * time.Millisecond)
	if !p.Tick(4 * time.Millisecond) {
		t.Fatal("tick at the interval did not report")
	}

	st := p.Last()
	if st.Frames != 4 {
		t.Errorf("Frames = %d, want 4", st.Frames)
	}
	if st.FPS != 4 {
		t.Errorf("FPS = %v, want 4", st.FPS)
	}
	if st.AvgFrameTime != 4*time.Millisecond {
		t.Errorf("AvgFrameTime = %v, want 4ms", st.AvgFrameTime)
	}
	if st.MaxFrameTime != 6*time.Millisecond {
		t.Errorf("MaxFrameTime = %v, want 6ms", st.MaxFrameTime)
	}
	if st.SysMB <= 0 {
		t.Errorf("SysMB = %v, want > 0", st.SysMB)
	}
}

func TestTickResetsWindow(t *testing.T) {
	p, clock := newTestProfiler(time.Second)

	clock.t = clock.t.Add(time.Second)
	p.Tick(10 * time.Millisecond)

	clock.t = clock.t.Add(time.Second)
	if !p.Tick(time.Millisecond) {
		t.Fatal("second window did not report")
	}
	st := p.Last()
	if st.Frames != 1 || st.MaxFrameTime != time.Millisecond {
		t.Errorf("second window = %+v, want 1 frame with max 1ms", st)
	}
}

func TestZeroIntervalReportsEveryTick(t *testing.T) {
	p, _ := newTestProfiler(0)
	for i := 0; i < 3; i++ {
		if !p.Tick(time.Millisecond) {
			t.Fatalf("tick %d did not report", i)
		}
	}
	if p.Last().FPS != 0 {
		t.Errorf("FPS over a zero-length window = %v, want 0", p.Last().FPS)
	}
}
