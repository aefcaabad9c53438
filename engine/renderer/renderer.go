package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/tri-go/common"
	"github.com/Carmen-Shannon/tri-go/engine/camera"
	"github.com/Carmen-Shannon/tri-go/engine/model"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/material"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/tri-go/engine/scene"
	"github.com/Carmen-Shannon/tri-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// State is the initialization progress of a Renderer. States only advance in declaration order.
type State int

const (
	StateUninitialized State = iota
	StateDeviceReady
	StateAssetsLoaded
	StatePipelineReady
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateDeviceReady:
		return "DeviceReady"
	case StateAssetsLoaded:
		return "AssetsLoaded"
	case StatePipelineReady:
		return "PipelineReady"
	case StateRendering:
		return "Rendering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Projection defaults: 45 degree vertical field of view, near plane 0.1, far plane 10.
const (
	DefaultFovY = 45
	DefaultNear = 0.1
	DefaultFar  = 10
)

// DefaultClearColor is the dark blue the color target is cleared to each frame.
var DefaultClearColor = wgpu.Color{R: 0, G: 0, B: 0.4, A: 1}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend Backend
	state   State

	width, height int
	capacity      int
	clampLogged   bool
	suspended     bool
	frames        uint64

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	mesh                 model.Mesh
	material             material.Material
	pipeline             pipeline.Pipeline
	clearColor           wgpu.Color
	fovY, near, far      float32
}

// Renderer draws a scene.State as one instanced draw of a textured triangle per entity.
//
// Initialize walks the state machine Uninitialized -> DeviceReady -> AssetsLoaded -> PipelineReady,
// skipping steps already reached. Render is only accepted from PipelineReady onward and moves the
// Renderer to Rendering on the first presented frame. All methods are safe for concurrent use;
// Resize is typically called from the window thread while Render runs on the frame loop.
type Renderer interface {
	// Initialize acquires the device, loads assets, creates the depth-stencil attachment and the
	// pipeline. Calling it again after success is a no-op.
	//
	// Parameters:
	//   - width, height: the surface size in pixels
	//
	// Returns:
	//   - error: wraps ErrEnvironmentUnavailable or ErrResourceCreation; the state stays at the last completed step
	Initialize(width, height int) error

	// Render uploads the frame data and draws state.EntityCount instances.
	// A count above Capacity is clamped. A count of zero still clears and presents.
	// While suspended by a zero-sized Resize, Render does nothing and returns nil.
	//
	// Parameters:
	//   - state: the scene state for this frame; Transforms is only read during the call
	//
	// Returns:
	//   - error: ErrNotReady before initialization, or an error wrapping ErrSubmission
	Render(state scene.State) error

	// Resize reconfigures the surface and depth-stencil attachment. Ignored before the device is
	// ready. A zero-sized window (minimized) suspends rendering until the next non-zero Resize.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	//
	// Returns:
	//   - error: an error wrapping ErrResourceCreation if the attachment cannot be rebuilt
	Resize(width, height int) error

	// Release frees every GPU resource and returns to StateUninitialized.
	Release()

	// State returns the current initialization state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Capacity returns the maximum number of instances drawn per frame.
	//
	// Returns:
	//   - int: the storage buffer capacity in model matrices
	Capacity() int

	// Frames returns the number of frames presented since initialization.
	//
	// Returns:
	//   - uint64: the presented frame count
	Frames() uint64
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer driving the given backend.
//
// Parameters:
//   - backend: the GPU backend
//   - opts: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer in StateUninitialized
func NewRenderer(backend Backend, opts ...RendererBuilderOption) Renderer {
	r := newRenderer(opts...)
	r.backend = backend
	return r
}

// NewWGPURenderer creates a Renderer backed by WebGPU, presenting to the given window's surface.
// No GPU objects are created until Initialize.
//
// Parameters:
//   - w: the window to present to
//   - opts: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer in StateUninitialized
func NewWGPURenderer(w window.Window, opts ...RendererBuilderOption) Renderer {
	r := newRenderer(opts...)
	r.backend = newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter)
	return r
}

func newRenderer(opts ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		capacity:    scene.DefaultCapacity,
		presentMode: PresentModeVSync,
		clearColor:  DefaultClearColor,
		fovY:        DefaultFovY,
		near:        DefaultNear,
		far:         DefaultFar,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.capacity <= 0 {
		r.capacity = scene.DefaultCapacity
	}
	if r.mesh == nil {
		r.mesh = model.TriangleMesh()
	}
	if r.material == nil {
		r.material = material.NewMaterial()
	}
	return r
}

func (r *renderer) Initialize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid surface size %dx%d", ErrEnvironmentUnavailable, width, height)
	}
	r.width, r.height = width, height

	if r.state < StateDeviceReady {
		if err := r.backend.AcquireDevice(width, height, r.presentMode); err != nil {
			return fmt.Errorf("%w: acquire device: %w", ErrEnvironmentUnavailable, err)
		}
		r.advance(StateDeviceReady)
	}

	if r.state < StateAssetsLoaded {
		if err := r.backend.LoadAssets(r.mesh, r.material); err != nil {
			return fmt.Errorf("%w: load assets: %w", ErrResourceCreation, err)
		}
		r.advance(StateAssetsLoaded)
	}

	if r.state < StatePipelineReady {
		if err := r.backend.CreateDepthStencil(width, height); err != nil {
			return fmt.Errorf("%w: depth-stencil: %w", ErrResourceCreation, err)
		}
		p, layout, err := r.resolvePipeline()
		if err != nil {
			return fmt.Errorf("%w: pipeline: %w", ErrResourceCreation, err)
		}
		if err := r.backend.CreatePipeline(p, layout, r.capacity); err != nil {
			return fmt.Errorf("%w: pipeline: %w", ErrResourceCreation, err)
		}
		r.advance(StatePipelineReady)
	}

	return nil
}

// resolvePipeline builds the default pipeline if none was configured and checks that its shader
// agrees with the binding contract and the mesh vertex layout.
func (r *renderer) resolvePipeline() (pipeline.Pipeline, wgpu.BindGroupLayoutDescriptor, error) {
	layout := bind_group_provider.BindingContractLayout("Instanced Bind Group Layout")

	if r.pipeline == nil {
		s, err := shader.NewInstancedTriangleShader()
		if err != nil {
			return nil, layout, err
		}
		r.pipeline = pipeline.NewPipeline("Instanced Triangle", pipeline.WithShader(s))
	}
	if err := r.pipeline.Validate(); err != nil {
		return nil, layout, err
	}

	s := r.pipeline.Shader()
	if err := s.CheckLayout(0, layout); err != nil {
		return nil, layout, err
	}
	if vl, ok := s.VertexLayout(); !ok || vl.ArrayStride != model.VertexStride {
		return nil, layout, fmt.Errorf("shader %s vertex input does not match the %d-byte mesh vertex", s.Key(), model.VertexStride)
	}
	return r.pipeline, layout, nil
}

func (r *renderer) Render(state scene.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state < StatePipelineReady {
		return ErrNotReady
	}
	// The surface keeps its last configuration while minimized; acquiring from it yields no texture.
	if r.suspended {
		return nil
	}

	count := state.EntityCount
	if count > r.capacity {
		if !r.clampLogged {
			log.Printf("[Renderer] %d entities exceed capacity %d; drawing the first %d", count, r.capacity, r.capacity)
			r.clampLogged = true
		}
		count = r.capacity
	}
	if count < 0 {
		count = 0
	}
	if avail := len(state.Transforms) / common.Mat4Floats; count > avail {
		return fmt.Errorf("%w: %d instances requested but only %d transforms supplied", ErrSubmission, count, avail)
	}

	aspect := float32(1)
	if r.height > 0 {
		aspect = float32(r.width) / float32(r.height)
	}
	uniform := camera.GPUCameraUniform{
		View:       state.Camera.View,
		Projection: common.Perspective(r.fovY, aspect, r.near, r.far),
	}

	writes := make([]bind_group_provider.BufferWrite, 0, 2)
	if count > 0 {
		writes = append(writes, bind_group_provider.BufferWrite{
			Binding: bind_group_provider.BindingTransform,
			Offset:  0,
			Data:    common.SliceToBytes(state.Transforms[:count*common.Mat4Floats]),
		})
	}
	writes = append(writes, bind_group_provider.BufferWrite{
		Binding: bind_group_provider.BindingCamera,
		Offset:  0,
		Data:    uniform.Marshal(),
	})
	if err := r.backend.WriteBuffers(writes); err != nil {
		return fmt.Errorf("%w: upload: %w", ErrSubmission, err)
	}

	if err := r.backend.BeginFrame(r.clearColor); err != nil {
		return fmt.Errorf("%w: begin frame: %w", ErrSubmission, err)
	}
	if count > 0 {
		if err := r.backend.Draw(uint32(count)); err != nil {
			r.backend.AbortFrame()
			return fmt.Errorf("%w: draw: %w", ErrSubmission, err)
		}
	}
	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("%w: end frame: %w", ErrSubmission, err)
	}

	r.frames++
	if r.state < StateRendering {
		r.advance(StateRendering)
	}
	return nil
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state < StateDeviceReady {
		return nil
	}
	if width <= 0 || height <= 0 {
		if !r.suspended {
			log.Printf("[Renderer] surface is %dx%d, suspending frames", width, height)
			r.suspended = true
		}
		return nil
	}
	if err := r.backend.Resize(width, height); err != nil {
		return fmt.Errorf("%w: resize to %dx%d: %w", ErrResourceCreation, width, height, err)
	}
	r.width, r.height = width, height
	if r.suspended {
		log.Printf("[Renderer] surface is %dx%d, resuming frames", width, height)
		r.suspended = false
	}
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A failed AcquireDevice may still hold an instance or surface.
	r.backend.Release()
	if r.state != StateUninitialized {
		log.Printf("[Renderer] %s -> %s (released)", r.state, StateUninitialized)
	}
	r.state = StateUninitialized
	r.frames = 0
	r.clampLogged = false
	r.suspended = false
}

func (r *renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) Capacity() int {
	return r.capacity
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) advance(next State) {
	log.Printf("[Renderer] %s -> %s", r.state, next)
	r.state = next
}
