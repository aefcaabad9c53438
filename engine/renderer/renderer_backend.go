package renderer

import (
	"github.com/Carmen-Shannon/tri-go/engine/model"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/material"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	default:
		return "unknown"
	}
}

// Backend is the GPU API the Renderer drives. Each method is one step of the initialization
// sequence or of the per-frame protocol; the Renderer enforces ordering and wraps errors.
type Backend interface {
	// AcquireDevice requests an adapter, device and queue and configures the surface.
	//
	// Parameters:
	//   - width, height: the initial surface size in pixels
	//   - mode: the present mode to configure the surface with
	//
	// Returns:
	//   - error: an error if no adapter or device is available or the surface cannot be configured
	AcquireDevice(width, height int, mode PresentMode) error

	// LoadAssets uploads the mesh vertex buffer and creates the material texture and sampler.
	//
	// Parameters:
	//   - mesh: the geometry drawn for every instance
	//   - mat: the texture and sampler source
	//
	// Returns:
	//   - error: an error if decoding or any resource creation fails
	LoadAssets(mesh model.Mesh, mat material.Material) error

	// CreateDepthStencil creates the depth-stencil attachment matching the surface size.
	//
	// Parameters:
	//   - width, height: the attachment size in pixels
	//
	// Returns:
	//   - error: an error if the texture or view cannot be created
	CreateDepthStencil(width, height int) error

	// CreatePipeline creates the uniform and storage buffers, the bind group and the render pipeline.
	//
	// Parameters:
	//   - p: the validated pipeline configuration; the created GPU pipeline is stored on it
	//   - layout: the bind group layout the shader's resources are bound with
	//   - capacity: the number of model matrices the storage buffer holds
	//
	// Returns:
	//   - error: an error if any resource creation fails
	CreatePipeline(p pipeline.Pipeline, layout wgpu.BindGroupLayoutDescriptor, capacity int) error

	// WriteBuffers queues writes into the bind group's buffers.
	//
	// Parameters:
	//   - writes: the writes to perform, in order
	//
	// Returns:
	//   - error: the first queue error
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the surface texture and begins the render pass with the given clear color.
	//
	// Parameters:
	//   - clear: the color the target is cleared to
	//
	// Returns:
	//   - error: an error if the surface texture or encoder cannot be obtained
	BeginFrame(clear wgpu.Color) error

	// Draw encodes one instanced draw of the mesh within the current pass.
	//
	// Parameters:
	//   - instanceCount: the number of instances to draw
	//
	// Returns:
	//   - error: an error if no frame is open or the pipeline is missing
	Draw(instanceCount uint32) error

	// EndFrame ends the pass, submits the command buffer and presents the surface texture.
	//
	// Returns:
	//   - error: an error if the pass cannot be ended or finished
	EndFrame() error

	// AbortFrame drops an open frame without submitting it.
	AbortFrame()

	// Resize reconfigures the surface and rebuilds the depth-stencil attachment.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	//
	// Returns:
	//   - error: an error if the depth-stencil attachment cannot be recreated
	Resize(width, height int) error

	// Release frees every GPU object in reverse creation order.
	Release()
}
