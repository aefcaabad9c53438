package camera

import (
	"sync"

	"github.com/Carmen-Shannon/tri-go/common"
)

// MotionTarget receives movement and look input. The Scene implements it; both calls latch
// the latest values for the next tick rather than accumulating them.
type MotionTarget interface {
	// SetMoveVelocity sets the per-tick movement along the camera's forward and right vectors.
	//
	// Parameters:
	//   - forwardAmount: signed distance along forward per tick
	//   - rightAmount: signed distance along right per tick
	SetMoveVelocity(forwardAmount, rightAmount float32)

	// AddLookDelta sets the look delta to apply on the next tick.
	//
	// Parameters:
	//   - dx: degrees subtracted from yaw
	//   - dy: degrees added to pitch
	AddLookDelta(dx, dy float32)
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	target MotionTarget

	moveSpeed       float32
	lookSensitivity float32
	invertY         bool

	keys map[uint32]bool

	lastX, lastY int32
	hasCursor    bool
}

// CameraController translates raw window input into first-person camera motion.
// Key state for W/A/S/D (and the arrow keys) is held between events, so movement continues while a
// key stays down. Cursor positions are turned into deltas between consecutive samples.
type CameraController interface {
	// KeyDown records a key press and pushes the resulting velocity to the target.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	KeyDown(keyCode uint32)

	// KeyUp records a key release and pushes the resulting velocity to the target.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	KeyUp(keyCode uint32)

	// MouseMove converts an absolute cursor position into a look delta for the target.
	// The first sample after construction or ResetCursor only records the position.
	//
	// Parameters:
	//   - x, y: cursor position in window pixels
	MouseMove(x, y int32)

	// ResetCursor forgets the last cursor sample, e.g. after the cursor is captured or re-enters.
	ResetCursor()

	// Velocity returns the movement currently requested by the held keys.
	//
	// Returns:
	//   - forward, right: per-tick distances
	Velocity() (forward, right float32)
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a first-person controller feeding the given target.
//
// Parameters:
//   - target: the receiver of movement and look input, typically a Scene
//   - options: functional options for speeds and axis inversion
//
// Returns:
//   - CameraController: the new controller
func NewCameraController(target MotionTarget, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:              &sync.Mutex{},
		target:          target,
		moveSpeed:       0.02,
		lookSensitivity: 0.1,
		keys:            make(map[uint32]bool),
	}
	for _, opt := range options {
		opt(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) KeyDown(keyCode uint32) {
	cc.setKey(keyCode, true)
}

func (cc *cameraControllerImpl) KeyUp(keyCode uint32) {
	cc.setKey(keyCode, false)
}

func (cc *cameraControllerImpl) MouseMove(x, y int32) {
	cc.mu.Lock()
	if !cc.hasCursor {
		cc.lastX, cc.lastY, cc.hasCursor = x, y, true
		cc.mu.Unlock()
		return
	}
	dx := float32(x-cc.lastX) * cc.lookSensitivity
	dy := float32(y-cc.lastY) * cc.lookSensitivity
	cc.lastX, cc.lastY = x, y
	if !cc.invertY {
		// Screen Y grows downwards; moving the mouse up should raise the pitch.
		dy = -dy
	}
	cc.mu.Unlock()

	if dx == 0 && dy == 0 {
		return
	}
	cc.target.AddLookDelta(dx, dy)
}

func (cc *cameraControllerImpl) ResetCursor() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.hasCursor = false
}

func (cc *cameraControllerImpl) Velocity() (forward, right float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.velocity()
}

func (cc *cameraControllerImpl) setKey(keyCode uint32, down bool) {
	cc.mu.Lock()
	if cc.keys[keyCode] == down {
		// Key repeat; nothing changed.
		cc.mu.Unlock()
		return
	}
	cc.keys[keyCode] = down
	f, r := cc.velocity()
	cc.mu.Unlock()

	cc.target.SetMoveVelocity(f, r)
}

// velocity derives the movement from held keys. Caller must hold mu.
func (cc *cameraControllerImpl) velocity() (forward, right float32) {
	held := func(codes ...uint32) float32 {
		for _, c := range codes {
			if cc.keys[c] {
				return 1
			}
		}
		return 0
	}
	forward = (held(common.KeyW, common.KeyUp) - held(common.KeyS, common.KeyDown)) * cc.moveSpeed
	right = (held(common.KeyD, common.KeyRight) - held(common.KeyA, common.KeyLeft)) * cc.moveSpeed
	return forward, right
}
