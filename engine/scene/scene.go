package scene

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/tri-go/common"
	"github.com/Carmen-Shannon/tri-go/engine/camera"
	"github.com/Carmen-Shannon/tri-go/engine/entity"
)

// DefaultCapacity is the transform buffer capacity used when WithCapacity is not given (64 KiB of matrices).
const DefaultCapacity = 1024

// State is the per-tick view of a Scene handed to the renderer.
//
// Transforms borrows the Scene's internal buffer: it holds exactly EntityCount*16 floats and stays valid
// only until the next Update. Callers that need to keep it longer should use Scene.SnapshotState.
type State struct {
	Camera      camera.Snapshot
	Transforms  []float32
	EntityCount int
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex // guards the latched input below

	name string

	entities   []entity.Entity
	cam        camera.Camera
	transforms []float32
	capacity   int
	ticks      uint64

	moveForward, moveRight float32
	lookDX, lookDY         float32
	lookPending            bool

	// computePool runs entity updates in parallel slot ranges when computeWorkers > 1.
	computeWorkers int
	computePool    worker.DynamicWorkerPool
}

// Scene owns the ordered entity collection, the camera, and the flat transform buffer uploaded each frame.
//
// Update and State/SnapshotState are called from the frame loop's goroutine only. The input methods
// (SetMoveVelocity, AddLookDelta, MoveCamera, SpinCamera) are safe to call from any goroutine at any time;
// they latch the most recent values, which the next Update consumes.
type Scene interface {
	camera.MotionTarget

	// Name returns the scene's identifier.
	Name() string

	// Update advances every entity, writes its model matrix into its buffer slot, then applies the
	// latched look and movement input to the camera and recomputes the camera basis.
	Update()

	// MoveCamera is an alias of SetMoveVelocity.
	//
	// Parameters:
	//   - forwardAmount: signed distance along the camera forward per tick
	//   - rightAmount: signed distance along the camera right per tick
	MoveCamera(forwardAmount, rightAmount float32)

	// SpinCamera is an alias of AddLookDelta.
	//
	// Parameters:
	//   - dx: degrees subtracted from yaw on the next tick
	//   - dy: degrees added to pitch on the next tick
	SpinCamera(dx, dy float32)

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Entities returns a copy of the ordered entity slice. Index i is instance i.
	//
	// Returns:
	//   - []entity.Entity: the entities in draw order
	Entities() []entity.Entity

	// EntityCount returns the number of live entities.
	//
	// Returns:
	//   - int: the live entity count
	EntityCount() int

	// Capacity returns the maximum number of entities the transform buffer holds.
	//
	// Returns:
	//   - int: the capacity in entities
	Capacity() int

	// Ticks returns how many times Update has run.
	//
	// Returns:
	//   - uint64: the update count
	Ticks() uint64

	// State returns the camera snapshot and a borrowed view of the live transform prefix.
	// The Transforms slice must not be retained past the next Update.
	//
	// Returns:
	//   - State: the per-tick scene state
	State() State

	// SnapshotState is like State but deep-copies the transforms.
	//
	// Returns:
	//   - State: an independent copy of the scene state
	SnapshotState() State

	// Release stops the compute worker pool, if one was started.
	Release()
}

var _ Scene = &scene{}

// NewScene creates a Scene from the provided options.
// Entities are fixed for the lifetime of the scene. Their initial model matrices are written into the
// transform buffer immediately, so State is valid before the first Update.
//
// Parameters:
//   - options: functional options for capacity, entities, camera, and workers
//
// Returns:
//   - Scene: the newly created scene
//   - error: ErrInvalidCapacity or ErrCapacityExceeded
func NewScene(options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		mu:       &sync.Mutex{},
		name:     "Default Scene",
		capacity: DefaultCapacity,
	}
	for _, opt := range options {
		opt(s)
	}

	if s.capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, s.capacity)
	}
	if len(s.entities) > s.capacity {
		return nil, fmt.Errorf("%w: %d entities, capacity %d", ErrCapacityExceeded, len(s.entities), s.capacity)
	}
	if s.cam == nil {
		s.cam = camera.NewCamera(
			camera.WithPosition(DefaultCameraPosition),
			camera.WithYaw(0),
			camera.WithPitch(0),
		)
	}

	s.transforms = make([]float32, s.capacity*common.Mat4Floats)
	for i, e := range s.entities {
		e.WriteModelMatrix(s.slot(i))
	}

	if s.computeWorkers > 1 {
		// Each tick submits at most computeWorkers tasks, so the queue never needs more room than that.
		s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, s.computeWorkers, 1*time.Second)
	}

	log.Printf("[Scene] %q: %d entities, capacity %d, compute workers %d", s.name, len(s.entities), s.capacity, max(s.computeWorkers, 1))
	return s, nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Update() {
	if s.computePool != nil && len(s.entities) > 1 {
		s.updateEntitiesParallel()
	} else {
		s.updateEntities(0, len(s.entities))
	}

	s.mu.Lock()
	forward, right := s.moveForward, s.moveRight
	dx, dy, look := s.lookDX, s.lookDY, s.lookPending
	s.lookDX, s.lookDY, s.lookPending = 0, 0, false
	s.mu.Unlock()

	if look {
		s.cam.ApplyLook(dx, dy)
	}
	s.cam.ApplyMovement(forward, right)
	s.cam.Update()
	s.ticks++
}

func (s *scene) SetMoveVelocity(forwardAmount, rightAmount float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveForward, s.moveRight = forwardAmount, rightAmount
}

func (s *scene) AddLookDelta(dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookDX, s.lookDY, s.lookPending = dx, dy, true
}

func (s *scene) MoveCamera(forwardAmount, rightAmount float32) {
	s.SetMoveVelocity(forwardAmount, rightAmount)
}

func (s *scene) SpinCamera(dx, dy float32) {
	s.AddLookDelta(dx, dy)
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Entities() []entity.Entity {
	out := make([]entity.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

func (s *scene) EntityCount() int {
	return len(s.entities)
}

func (s *scene) Capacity() int {
	return s.capacity
}

func (s *scene) Ticks() uint64 {
	return s.ticks
}

func (s *scene) State() State {
	n := len(s.entities)
	return State{
		Camera:      s.cam.Snapshot(),
		Transforms:  s.transforms[:n*common.Mat4Floats],
		EntityCount: n,
	}
}

func (s *scene) SnapshotState() State {
	st := s.State()
	st.Transforms = append([]float32(nil), st.Transforms...)
	return st
}

func (s *scene) Release() {
	if s.computePool != nil {
		s.computePool.Stop()
		s.computePool = nil
	}
}

// slot returns the 16-float window of the transform buffer belonging to entity i.
func (s *scene) slot(i int) []float32 {
	return s.transforms[i*common.Mat4Floats : (i+1)*common.Mat4Floats]
}

// updateEntities advances entities in [start, end) and writes their slots.
func (s *scene) updateEntities(start, end int) {
	for i := start; i < end; i++ {
		e := s.entities[i]
		e.Update()
		e.WriteModelMatrix(s.slot(i))
	}
}

// updateEntitiesParallel splits the entities into contiguous ranges, one per worker, and waits for all of them.
// Ranges never overlap so every slot has exactly one writer.
func (s *scene) updateEntitiesParallel() {
	n := len(s.entities)
	chunks := min(s.computeWorkers, n)
	size := (n + chunks - 1) / chunks

	var wg sync.WaitGroup
	for id, start := 0, 0; start < n; id, start = id+1, start+size {
		end := min(start+size, n)
		wg.Add(1)
		lo, hi := start, end
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				s.updateEntities(lo, hi)
				return nil, nil
			},
		})
	}
	wg.Wait()
}
