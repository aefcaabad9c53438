package engine

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/tri-go/engine/profiler"
	"github.com/Carmen-Shannon/tri-go/engine/scene"
	"github.com/Carmen-Shannon/tri-go/engine/window"
)

var (
	// ErrAlreadyRunning is returned by Run when the loop is already running or has finished.
	ErrAlreadyRunning = errors.New("engine already started")

	// ErrFramePanic wraps a panic recovered from a frame.
	ErrFramePanic = errors.New("frame panicked")
)

// Stepper advances the simulation by one tick and exposes the result for rendering.
// scene.Scene satisfies it.
type Stepper interface {
	Update()
	State() scene.State
}

// FrameRenderer draws one frame of a scene state. renderer.Renderer satisfies it.
type FrameRenderer interface {
	Render(state scene.State) error
}

// engine implements the Engine interface.
type engine struct {
	stepper  Stepper
	renderer FrameRenderer

	started     bool
	startedMu   sync.Mutex
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
	doneChannel chan struct{}

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback func(deltaTime float32)
	frameLimit    time.Duration // minimum frame duration; 0 = paced by presentation only
	frames        uint64
	framesMu      sync.Mutex
}

// Engine owns the frame loop: every iteration runs one scene Update followed by one Render,
// strictly alternated on the loop's goroutine.
type Engine interface {
	// Run runs the frame loop on the calling goroutine until Stop is called, a frame fails,
	// or a frame panics. The goroutine is locked to its OS thread for the duration.
	//
	// Returns:
	//   - error: nil after Stop, the wrapped render error, or an error wrapping ErrFramePanic
	Run() error

	// Stop signals the loop to exit after the current iteration. Safe to call multiple times
	// and from any goroutine, including before Run.
	Stop()

	// Done returns a channel closed when Run has returned.
	//
	// Returns:
	//   - <-chan struct{}: the completion channel
	Done() <-chan struct{}

	// RunWithWindow runs the frame loop on a new goroutine while pumping the window's
	// message loop on the calling goroutine, which must be the thread that created the window.
	// Closing the window stops the loop; a loop failure closes the window.
	//
	// Parameters:
	//   - w: the window whose messages to process
	//
	// Returns:
	//   - error: the result of Run
	RunWithWindow(w window.Window) error

	// Frames returns the number of completed iterations.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64
}

var _ Engine = &engine{}

// NewEngine creates a new Engine driving the given stepper and renderer.
//
// Parameters:
//   - stepper: the simulation advanced once per frame, typically a scene.Scene
//   - renderer: the renderer fed the stepper's state, typically a renderer.Renderer
//   - options: functional options for frame limit, callbacks and profiling
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(stepper Stepper, renderer FrameRenderer, options ...EngineBuilderOption) Engine {
	e := &engine{
		stepper:     stepper,
		renderer:    renderer,
		quitChannel: make(chan struct{}),
		doneChannel: make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profilingEnabled && e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLabel("Engine"))
	}

	return e
}

func (e *engine) Run() error {
	e.startedMu.Lock()
	if e.started {
		e.startedMu.Unlock()
		return ErrAlreadyRunning
	}
	e.started = true
	e.startedMu.Unlock()

	// GPU calls stay on one OS thread for the whole loop.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(e.doneChannel)

	log.Printf("[Engine] frame loop started")
	err := e.loop()
	if err != nil {
		log.Printf("[Engine] frame loop stopped after %d frames: %v", e.Frames(), err)
	} else {
		log.Printf("[Engine] frame loop stopped after %d frames", e.Frames())
	}
	return err
}

// loop runs iterations until the quit channel closes or a frame fails.
func (e *engine) loop() error {
	lastFrame := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return nil
		default:
		}

		frameStart := time.Now()
		dt := float32(frameStart.Sub(lastFrame).Seconds())
		lastFrame = frameStart

		if err := e.frame(); err != nil {
			e.Stop()
			return err
		}

		e.framesMu.Lock()
		e.frames++
		e.framesMu.Unlock()

		if e.frameCallback != nil {
			e.frameCallback(dt)
		}

		if e.profilingEnabled && e.profiler != nil {
			e.profiler.Tick(time.Since(frameStart))
		}

		// Frame rate limiting for uncapped present modes
		if e.frameLimit > 0 {
			if remaining := e.frameLimit - time.Since(frameStart); remaining > 0 {
				select {
				case <-e.quitChannel:
					return nil
				case <-time.After(remaining):
				}
			}
		}
	}
}

// frame runs one Update and one Render, converting a panic in either into an error.
func (e *engine) frame() (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame recovered from panic: %v", r)
			err = fmt.Errorf("%w: %v", ErrFramePanic, r)
		}
	}()

	e.stepper.Update()
	if err := e.renderer.Render(e.stepper.State()); err != nil {
		return fmt.Errorf("render frame %d: %w", e.Frames(), err)
	}
	return nil
}

// Stop closes the quit channel. Uses sync.Once so repeated calls are no-ops.
func (e *engine) Stop() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Done() <-chan struct{} {
	return e.doneChannel
}

func (e *engine) RunWithWindow(w window.Window) error {
	errChannel := make(chan error, 1)
	go func() {
		err := e.Run()
		// A loop that exits on its own closes the window so ProcessMessages returns.
		w.RequestClose()
		errChannel <- err
	}()

	w.ProcessMessages()
	e.Stop()
	return <-errChannel
}

func (e *engine) Frames() uint64 {
	e.framesMu.Lock()
	defer e.framesMu.Unlock()
	return e.frames
}
