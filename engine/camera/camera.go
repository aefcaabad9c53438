package camera

import (
	"sync"

	"github.com/Carmen-Shannon/tri-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch bounds the camera pitch in degrees on both sides of the horizon.
// Staying short of 90 keeps forward from becoming parallel to the world up vector.
const MaxPitch float32 = 89

// worldUp is the world up axis; yaw rotates about it.
var worldUp = mgl32.Vec3{0, 0, 1}

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	eulers   mgl32.Vec3 // degrees: [_, pitch, yaw]

	forward mgl32.Vec3
	right   mgl32.Vec3
	up      mgl32.Vec3

	viewMatrix mgl32.Mat4
}

// Snapshot is an immutable copy of the camera state taken at one point in time.
type Snapshot struct {
	Position mgl32.Vec3
	Pitch    float32
	Yaw      float32
	Forward  mgl32.Vec3
	Right    mgl32.Vec3
	Up       mgl32.Vec3
	View     mgl32.Mat4
}

// Camera is a first-person camera in a Z-up world.
//
// The basis vectors are derived from yaw and pitch by Update:
//
//	forward = (cos yaw * cos pitch, sin yaw * cos pitch, sin pitch)
//	right   = forward x worldUp
//	up      = right x forward
//	view    = lookAt(position, position+forward, up)
//
// ApplyMovement uses whatever basis is currently stored. When movement is applied before Update in the
// same tick (the Scene's order), it moves along the previous tick's basis. That one-tick lag is kept
// deliberately so frame sequences stay deterministic.
type Camera interface {
	// Position returns the world-space camera position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Pitch returns the elevation angle in degrees, always in [-MaxPitch, MaxPitch].
	//
	// Returns:
	//   - float32: pitch in degrees
	Pitch() float32

	// Yaw returns the heading angle in degrees, always in [0, 360).
	//
	// Returns:
	//   - float32: yaw in degrees
	Yaw() float32

	// Forward returns the stored forward basis vector.
	//
	// Returns:
	//   - mgl32.Vec3: unit forward vector
	Forward() mgl32.Vec3

	// Right returns the stored right basis vector.
	//
	// Returns:
	//   - mgl32.Vec3: right vector
	Right() mgl32.Vec3

	// Up returns the stored up basis vector.
	//
	// Returns:
	//   - mgl32.Vec3: up vector
	Up() mgl32.Vec3

	// ViewMatrix returns the current column-major view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ApplyMovement moves the camera along the stored forward and right vectors.
	//
	// Parameters:
	//   - forwardAmount: signed distance along forward
	//   - rightAmount: signed distance along right
	ApplyMovement(forwardAmount, rightAmount float32)

	// ApplyLook turns the camera. Yaw is decreased by yawDelta and wrapped into [0, 360);
	// pitch is increased by pitchDelta and clamped to [-MaxPitch, MaxPitch].
	//
	// Parameters:
	//   - yawDelta: degrees subtracted from yaw
	//   - pitchDelta: degrees added to pitch
	ApplyLook(yawDelta, pitchDelta float32)

	// Update recomputes forward, right, and up from yaw and pitch, then the view matrix.
	Update()

	// Snapshot returns a copy of the camera state.
	//
	// Returns:
	//   - Snapshot: the current state
	Snapshot() Snapshot
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the provided options.
// The basis and view matrix are computed immediately so a new camera is usable before its first Update.
//
// Parameters:
//   - options: functional options for position and heading
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu: &sync.Mutex{},
	}
	for _, opt := range options {
		opt(c)
	}
	c.eulers[1] = mgl32.Clamp(c.eulers[1], -MaxPitch, MaxPitch)
	c.eulers[2] = common.WrapDegrees(c.eulers[2])
	c.recompute()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eulers[1]
}

func (c *cameraImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eulers[2]
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forward
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ApplyMovement(forwardAmount, rightAmount float32) {
	if forwardAmount == 0 && rightAmount == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(c.forward.Mul(forwardAmount)).Add(c.right.Mul(rightAmount))
}

func (c *cameraImpl) ApplyLook(yawDelta, pitchDelta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eulers[2] = common.WrapDegrees(c.eulers[2] - yawDelta)
	c.eulers[1] = mgl32.Clamp(c.eulers[1]+pitchDelta, -MaxPitch, MaxPitch)
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recompute()
}

func (c *cameraImpl) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Position: c.position,
		Pitch:    c.eulers[1],
		Yaw:      c.eulers[2],
		Forward:  c.forward,
		Right:    c.right,
		Up:       c.up,
		View:     c.viewMatrix,
	}
}

// recompute derives the basis and view matrix. Caller must hold mu.
func (c *cameraImpl) recompute() {
	c.forward = common.SphericalToCartesian(c.eulers[2], c.eulers[1])
	c.right = c.forward.Cross(worldUp)
	c.up = c.right.Cross(c.forward)
	c.viewMatrix = mgl32.LookAtV(c.position, c.position.Add(c.forward), c.up)
}
