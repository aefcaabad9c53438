package entity

import (
	"github.com/Carmen-Shannon/tri-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// YawStep is the autonomous rotation applied by each Update, in degrees.
const YawStep float32 = 1

type entity struct {
	id       uint64
	position mgl32.Vec3
	eulers   mgl32.Vec3 // degrees; only eulers[2] (yaw about Z) changes on its own
	model    mgl32.Mat4
}

// Entity is a drawable object with a position, an orientation, and a derived model matrix.
// The model matrix is always translate(position) * rotateZ(yaw) and is only ever produced by Update
// or at construction; nothing writes it directly.
//
// An Entity is not safe for concurrent use. The Scene owns each Entity and updates it from a single
// goroutine at a time.
type Entity interface {
	// ID returns the identifier assigned at construction (0 if none was set).
	//
	// Returns:
	//   - uint64: the entity ID
	ID() uint64

	// Update advances the yaw by YawStep, wrapped into [0, 360), and recomputes the model matrix.
	Update()

	// Position returns the entity's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Eulers returns the orientation as (x, y, z) rotation angles in degrees.
	//
	// Returns:
	//   - mgl32.Vec3: the euler angles
	Eulers() mgl32.Vec3

	// Yaw returns the rotation about the Z axis in degrees, always in [0, 360).
	//
	// Returns:
	//   - float32: the yaw angle
	Yaw() float32

	// ModelMatrix returns a copy of the current column-major model matrix.
	//
	// Returns:
	//   - mgl32.Mat4: translate(position) * rotateZ(yaw)
	ModelMatrix() mgl32.Mat4

	// WriteModelMatrix copies the 16 model matrix components into dst.
	//
	// Parameters:
	//   - dst: destination slice with at least 16 elements
	WriteModelMatrix(dst []float32)
}

var _ Entity = &entity{}

// NewEntity creates a new Entity with the provided options and computes its initial model matrix.
//
// Parameters:
//   - options: functional options for position, orientation, and ID
//
// Returns:
//   - Entity: the newly created entity
func NewEntity(options ...EntityBuilderOption) Entity {
	e := &entity{}
	for _, opt := range options {
		opt(e)
	}
	e.eulers[2] = common.WrapDegrees(e.eulers[2])
	e.recompute()
	return e
}

// ComposeModelMatrix builds translate(position) * rotateZ(yawDegrees).
//
// Parameters:
//   - position: world-space translation
//   - yawDegrees: rotation about the Z axis in degrees
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func ComposeModelMatrix(position mgl32.Vec3, yawDegrees float32) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(yawDegrees)))
}

func (e *entity) ID() uint64 {
	return e.id
}

func (e *entity) Update() {
	e.eulers[2] = common.WrapDegrees(e.eulers[2] + YawStep)
	e.recompute()
}

func (e *entity) Position() mgl32.Vec3 {
	return e.position
}

func (e *entity) Eulers() mgl32.Vec3 {
	return e.eulers
}

func (e *entity) Yaw() float32 {
	return e.eulers[2]
}

func (e *entity) ModelMatrix() mgl32.Mat4 {
	return e.model
}

func (e *entity) WriteModelMatrix(dst []float32) {
	copy(dst[:common.Mat4Floats], e.model[:])
}

func (e *entity) recompute() {
	e.model = ComposeModelMatrix(e.position, e.eulers[2])
}
