package scene

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/tri-go/engine/camera"
	"github.com/Carmen-Shannon/tri-go/engine/entity"
	"github.com/go-gl/mathgl/mgl32"
)

// nearlyEqual compares with an absolute tolerance so components that should be zero can carry
// float32 rounding.
func nearlyEqual(a, b float32) bool {
	return mgl32.Abs(a-b) < 1e-5
}

func newTestScene(t *testing.T, opts ...SceneBuilderOption) Scene {
	t.Helper()
	s, err := NewScene(opts...)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	t.Cleanup(s.Release)
	return s
}

func checkSlots(t *testing.T, s Scene) {
	t.Helper()
	st := s.State()
	for i, e := range s.Entities() {
		m := e.ModelMatrix()
		for k := 0; k < 16; k++ {
			if got := st.Transforms[i*16+k]; got != m[k] {
				t.Fatalf("slot %d component %d = %v, want %v", i, k, got, m[k])
			}
		}
	}
}

func TestUpdateWritesSlots(t *testing.T) {
	tests := []struct {
		name    string
		workers int
	}{
		{"serial", 0},
		{"worker pool", 3},
		{"more workers than entities", 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t, WithRow(10, 1, DefaultRowOrigin), WithComputeWorkers(tt.workers))
			checkSlots(t, s)
			for i := 0; i < 5; i++ {
				s.Update()
				checkSlots(t, s)
			}
			for _, e := range s.Entities() {
				if e.Yaw() != 5 {
					t.Errorf("entity %d yaw = %v, want 5", e.ID(), e.Yaw())
				}
			}
		})
	}
}

func TestFullTurnReturnsToStart(t *testing.T) {
	var ents []entity.Entity
	for i := 0; i < 10; i++ {
		ents = append(ents, entity.NewEntity(
			entity.WithPosition(mgl32.Vec3{2, float32(i), 0}),
			entity.WithYaw(float32(i*37)),
		))
	}
	start := make([]float32, len(ents))
	for i, e := range ents {
		start[i] = e.Yaw()
	}

	s := newTestScene(t, WithEntities(ents...))
	before := s.SnapshotState()
	for i := 0; i < 360; i++ {
		s.Update()
	}
	for i, e := range s.Entities() {
		if e.Yaw() != start[i] {
			t.Errorf("entity %d yaw = %v, want %v", i, e.Yaw(), start[i])
		}
	}
	after := s.State()
	for i := range before.Transforms {
		if after.Transforms[i] != before.Transforms[i] {
			t.Fatalf("transform component %d = %v after full turn, want %v", i, after.Transforms[i], before.Transforms[i])
		}
	}
}

func TestCapacity(t *testing.T) {
	_, err := NewScene(WithCapacity(4), WithRow(5, 1, DefaultRowOrigin))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("err = %v, want ErrCapacityExceeded", err)
	}
	_, err = NewScene(WithCapacity(0))
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("err = %v, want ErrInvalidCapacity", err)
	}

	s := newTestScene(t, WithCapacity(8), WithRow(3, 1, DefaultRowOrigin))
	if s.Capacity() != 8 || s.EntityCount() != 3 {
		t.Errorf("capacity/count = %d/%d, want 8/3", s.Capacity(), s.EntityCount())
	}
	if got := len(s.State().Transforms); got != 3*16 {
		t.Errorf("State transforms = %d floats, want %d", got, 3*16)
	}
}

func TestLookInputIsLastWriteWins(t *testing.T) {
	s := newTestScene(t)

	s.SpinCamera(10, 5)
	s.SpinCamera(90, 0)
	s.Update()

	cam := s.Camera()
	if got := cam.Yaw(); got != 270 {
		t.Errorf("yaw = %v, want 270", got)
	}
	if got := cam.Pitch(); got != 0 {
		t.Errorf("pitch = %v, want 0 (earlier delta must be dropped)", got)
	}
	if got := cam.Forward(); !got.ApproxFuncEqual(mgl32.Vec3{0, -1, 0}, nearlyEqual) {
		t.Errorf("forward = %v, want -Y", got)
	}

	// The look delta is consumed by the tick that applied it.
	s.Update()
	if got := cam.Yaw(); got != 270 {
		t.Errorf("yaw after idle tick = %v, want 270", got)
	}
}

func TestMoveInputIsSticky(t *testing.T) {
	s := newTestScene(t, WithCamera(camera.NewCamera()))

	s.MoveCamera(5, 5)
	s.MoveCamera(1, 0)
	s.Update()
	s.Update()
	if got := s.Camera().Position(); !got.ApproxFuncEqual(mgl32.Vec3{2, 0, 0}, nearlyEqual) {
		t.Errorf("position = %v, want (2,0,0)", got)
	}

	s.MoveCamera(0, 0)
	s.Update()
	if got := s.Camera().Position(); !got.ApproxFuncEqual(mgl32.Vec3{2, 0, 0}, nearlyEqual) {
		t.Errorf("position after stop = %v, want (2,0,0)", got)
	}
	if s.Ticks() != 3 {
		t.Errorf("ticks = %d, want 3", s.Ticks())
	}
}

func TestDefaults(t *testing.T) {
	s := newTestScene(t, WithRow(1, 1, DefaultRowOrigin))
	if got := s.Camera().Position(); got != DefaultCameraPosition {
		t.Errorf("camera position = %v, want %v", got, DefaultCameraPosition)
	}
	if got := s.Entities()[0].Position(); got != DefaultRowOrigin {
		t.Errorf("entity position = %v, want %v", got, DefaultRowOrigin)
	}
	if s.Capacity() != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", s.Capacity(), DefaultCapacity)
	}
}

func TestSnapshotStateIsIndependent(t *testing.T) {
	s := newTestScene(t, WithRow(2, 1, DefaultRowOrigin))
	snap := s.SnapshotState()
	borrowed := s.State()
	s.Update()

	if snap.Transforms[0] == borrowed.Transforms[0] && snap.Transforms[1] == borrowed.Transforms[1] {
		t.Errorf("borrowed view should reflect the update while the snapshot keeps the old values")
	}
	if snap.EntityCount != 2 || len(snap.Transforms) != 32 {
		t.Errorf("snapshot count/len = %d/%d, want 2/32", snap.EntityCount, len(snap.Transforms))
	}
}

func TestConcurrentInput(t *testing.T) {
	s := newTestScene(t, WithRow(4, 1, DefaultRowOrigin))

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.SpinCamera(0.1, 0.1)
				s.MoveCamera(0.01, 0)
			}
		}()
	}
	for i := 0; i < 100; i++ {
		s.Update()
	}
	wg.Wait()

	if p := s.Camera().Pitch(); p < -89 || p > 89 {
		t.Errorf("pitch %v out of range", p)
	}
}
