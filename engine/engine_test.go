package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/tri-go/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// recorder collects the interleaving of Update and Render calls.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeStepper struct {
	rec     *recorder
	ticks   int
	panicAt int
}

func (s *fakeStepper) Update() {
	s.ticks++
	if s.panicAt > 0 && s.ticks == s.panicAt {
		panic("boom")
	}
	s.rec.add("update")
}

func (s *fakeStepper) State() scene.State {
	return scene.State{EntityCount: s.ticks}
}

// fakeRenderer stops the engine after stopAfter frames and fails on failAt.
type fakeRenderer struct {
	rec       *recorder
	stop      func()
	stopAfter int
	failAt    int
	rendered  int
	counts    []int
}

var errRender = errors.New("render failed")

func (r *fakeRenderer) Render(state scene.State) error {
	r.rendered++
	r.counts = append(r.counts, state.EntityCount)
	r.rec.add("render")
	if r.failAt > 0 && r.rendered == r.failAt {
		return errRender
	}
	if r.stopAfter > 0 && r.rendered >= r.stopAfter && r.stop != nil {
		r.stop()
	}
	return nil
}

func newTestEngine(stepper *fakeStepper, renderer *fakeRenderer, opts ...EngineBuilderOption) Engine {
	e := NewEngine(stepper, renderer, opts...)
	renderer.stop = e.Stop
	return e
}

func TestRunAlternatesUpdateAndRender(t *testing.T) {
	rec := &recorder{}
	s := &fakeStepper{rec: rec}
	r := &fakeRenderer{rec: rec, stopAfter: 3}
	e := newTestEngine(s, r)

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"update", "render", "update", "render", "update", "render"}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, got[i], want[i])
		}
	}
	// Each render sees the state produced by the update just before it.
	for i, c := range r.counts {
		if c != i+1 {
			t.Errorf("render %d saw tick %d", i, c)
		}
	}
	if e.Frames() != 3 {
		t.Errorf("Frames = %d, want 3", e.Frames())
	}

	select {
	case <-e.Done():
	default:
		t.Error("Done not closed after Run returned")
	}
}

func TestRunPropagatesRenderError(t *testing.T) {
	rec := &recorder{}
	r := &fakeRenderer{rec: rec, failAt: 2}
	e := newTestEngine(&fakeStepper{rec: rec}, r)

	err := e.Run()
	if !errors.Is(err, errRender) {
		t.Fatalf("Run = %v, want errRender", err)
	}
	if r.rendered != 2 {
		t.Errorf("rendered %d frames, want 2", r.rendered)
	}
	if e.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", e.Frames())
	}
}

func TestRunRecoversPanic(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(&fakeStepper{rec: rec, panicAt: 2}, &fakeRenderer{rec: rec})

	if err := e.Run(); !errors.Is(err, ErrFramePanic) {
		t.Fatalf("Run = %v, want ErrFramePanic", err)
	}
}

func TestStopBeforeRun(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(&fakeStepper{rec: rec}, &fakeRenderer{rec: rec})
	e.Stop()
	e.Stop()

	if err := e.Run(); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Errorf("ran %v after Stop", calls)
	}
	if err := e.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run = %v, want ErrAlreadyRunning", err)
	}
}

func TestFrameCallbackAndLimit(t *testing.T) {
	rec := &recorder{}
	var callbacks int
	e := newTestEngine(&fakeStepper{rec: rec}, &fakeRenderer{rec: rec, stopAfter: 5},
		WithFrameLimit(500),
		WithFrameCallback(func(dt float32) {
			if dt < 0 {
				t.Errorf("negative delta %v", dt)
			}
			callbacks++
		}),
	)

	start := time.Now()
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if callbacks != 5 {
		t.Errorf("callbacks = %d, want 5", callbacks)
	}
	// Four full 2ms frames elapse before the fifth frame stops the loop.
	if elapsed := time.Since(start); elapsed < 8*time.Millisecond {
		t.Errorf("5 frames at 500 fps took %v, want >= 8ms", elapsed)
	}
}

// fakeWindow pumps until RequestClose or until closeAfter elapses.
type fakeWindow struct {
	closed     chan struct{}
	closeOnce  sync.Once
	closeAfter time.Duration
}

func newFakeWindow(closeAfter time.Duration) *fakeWindow {
	return &fakeWindow{closed: make(chan struct{}), closeAfter: closeAfter}
}

func (w *fakeWindow) SetUpdateCallback(func()) {}
func (w *fakeWindow) SetResizeCallback(func(int, int)) {}
func (w *fakeWindow) SetKeyDownCallback(func(uint32)) {}
func (w *fakeWindow) SetKeyUpCallback(func(uint32)) {}
func (w *fakeWindow) SetMouseMoveCallback(func(int32, int32)) {}
func (w *fakeWindow) SetCursorCaptureCallback(func(bool)) {}
func (w *fakeWindow) SetCursorCaptured(bool) {}
func (w *fakeWindow) CursorCaptured() bool { return false }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) Close() error { return nil }
func (w *fakeWindow) Width() int { return 800 }
func (w *fakeWindow) Height() int { return 600 }

func (w *fakeWindow) IsRunning() bool {
	select {
	case <-w.closed:
		return false
	default:
		return true
	}
}

func (w *fakeWindow) RequestClose() {
	w.closeOnce.Do(func() { close(w.closed) })
}

func (w *fakeWindow) ProcessMessages() {
	if w.closeAfter > 0 {
		select {
		case <-w.closed:
		case <-time.After(w.closeAfter):
			w.RequestClose()
		}
		return
	}
	<-w.closed
}

func TestRunWithWindowStopsOnClose(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(&fakeStepper{rec: rec}, &fakeRenderer{rec: rec}, WithFrameLimit(1000))

	if err := e.RunWithWindow(newFakeWindow(20 * time.Millisecond)); err != nil {
		t.Fatalf("RunWithWindow: %v", err)
	}
	if e.Frames() == 0 {
		t.Error("no frames rendered before the window closed")
	}
}

func TestRunWithWindowClosesOnFailure(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(&fakeStepper{rec: rec}, &fakeRenderer{rec: rec, failAt: 3})
	w := newFakeWindow(0)

	if err := e.RunWithWindow(w); !errors.Is(err, errRender) {
		t.Fatalf("RunWithWindow = %v, want errRender", err)
	}
	if w.IsRunning() {
		t.Error("window still running after the loop failed")
	}
}
