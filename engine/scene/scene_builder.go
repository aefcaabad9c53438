package scene

import (
	"github.com/Carmen-Shannon/tri-go/engine/camera"
	"github.com/Carmen-Shannon/tri-go/engine/entity"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// DefaultRowOrigin is where WithRow places the first entity when no origin is given.
	DefaultRowOrigin = mgl32.Vec3{2, 0, 0}

	// DefaultCameraPosition is the starting camera position used when WithCamera is not given.
	DefaultCameraPosition = mgl32.Vec3{-2, 0, 0.5}
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier used in logs.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithCapacity sets the maximum number of entities the transform buffer holds.
// NewScene fails with ErrCapacityExceeded if more entities are supplied.
//
// Parameters:
//   - capacity: the buffer capacity in entities (default DefaultCapacity)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCapacity(capacity int) SceneBuilderOption {
	return func(s *scene) {
		s.capacity = capacity
	}
}

// WithEntities appends entities to the scene. Order of appearance is draw and instance order.
//
// Parameters:
//   - entities: the entities to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEntities(entities ...entity.Entity) SceneBuilderOption {
	return func(s *scene) {
		s.entities = append(s.entities, entities...)
	}
}

// WithRow appends count entities in a row along +Y, starting at origin and spaced evenly.
// IDs continue from the number of entities already in the scene.
//
// Parameters:
//   - count: number of entities
//   - spacing: distance between neighbouring entities
//   - origin: position of the first entity (DefaultRowOrigin is the usual choice)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRow(count int, spacing float32, origin mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		for i := 0; i < count; i++ {
			pos := origin.Add(mgl32.Vec3{0, float32(i) * spacing, 0})
			s.entities = append(s.entities, entity.NewEntity(
				entity.WithID(uint64(len(s.entities)+1)),
				entity.WithPosition(pos),
			))
		}
	}
}

// WithCamera sets the scene camera. Without it the scene builds one at DefaultCameraPosition facing +X.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithComputeWorkers sets the number of worker goroutines used to update entities.
// Values of 1 or less (the default) update entities inline on the caller's goroutine.
// Higher values split the entities into that many contiguous ranges on a worker pool.
//
// Parameters:
//   - n: the number of compute workers
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.computeWorkers = n
	}
}
