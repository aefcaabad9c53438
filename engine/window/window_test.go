package window

import "testing"

// These tests exercise the window without a platform window, so they run headless.

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{closeOnEscape: true}
	for _, opt := range []WindowBuilderOption{
		WithTitle("tri"),
		WithWidth(800),
		WithHeight(600),
		WithMinWidth(100),
		WithMinHeight(50),
		WithMaxWidth(1000),
		WithMaxHeight(900),
		WithCursorCaptured(true),
		WithCloseOnEscape(false),
	} {
		opt(w)
	}

	if w.title != "tri" || w.width != 800 || w.height != 600 {
		t.Errorf("title/size = %q %dx%d", w.title, w.width, w.height)
	}
	if w.minWidth != 100 || w.minHeight != 50 || w.maxWidth != 1000 || w.maxHeight != 900 {
		t.Errorf("limits = %d,%d..%d,%d", w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	}
	if !w.captureCursor || w.closeOnEscape {
		t.Errorf("captureCursor=%v closeOnEscape=%v", w.captureCursor, w.closeOnEscape)
	}
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{}

	if w.IsRunning() {
		t.Error("IsRunning = true without a platform window")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("SurfaceDescriptor != nil without a platform window")
	}
	if w.CursorCaptured() {
		t.Error("CursorCaptured = true without a platform window")
	}
	if err := w.Close(); err == nil {
		t.Error("Close succeeded without a platform window")
	}
	w.RequestClose()

	// ProcessMessages returns immediately when the window is not running.
	w.ProcessMessages()
}

func TestCursorCaptureCallback(t *testing.T) {
	w := &engineWindow{}
	var got []bool
	w.SetCursorCaptureCallback(func(captured bool) {
		got = append(got, captured)
	})

	w.SetCursorCaptured(true)
	w.SetCursorCaptured(false)

	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("capture callbacks = %v, want [true false]", got)
	}
}
