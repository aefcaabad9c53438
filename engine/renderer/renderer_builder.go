package renderer

import (
	"github.com/Carmen-Shannon/tri-go/engine/model"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/material"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithCapacity sets how many model matrices the storage buffer holds. It should match the scene's capacity.
//
// Parameters:
//   - capacity: the maximum number of instances per frame
//
// Returns:
//   - RendererBuilderOption: a function that applies the capacity to a renderer
func WithCapacity(capacity int) RendererBuilderOption {
	return func(r *renderer) {
		r.capacity = capacity
	}
}

// WithMaterial sets the texture and sampler source. Defaults to the generated checkerboard.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - RendererBuilderOption: a function that applies the material to a renderer
func WithMaterial(m material.Material) RendererBuilderOption {
	return func(r *renderer) {
		r.material = m
	}
}

// WithMesh sets the geometry drawn per instance. Defaults to model.TriangleMesh.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - RendererBuilderOption: a function that applies the mesh to a renderer
func WithMesh(m model.Mesh) RendererBuilderOption {
	return func(r *renderer) {
		r.mesh = m
	}
}

// WithPipeline replaces the default instanced triangle pipeline. Its shader must declare the
// same group 0 bindings and a 20-byte vertex input.
//
// Parameters:
//   - p: the pipeline configuration
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline to a renderer
func WithPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipeline = p
	}
}

// WithClearColor sets the color the target is cleared to at the start of each frame.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color to a renderer
func WithClearColor(c wgpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithProjection sets the perspective parameters used to build the projection matrix each frame.
//
// Parameters:
//   - fovYDegrees: vertical field of view in degrees
//   - near, far: clip plane distances
//
// Returns:
//   - RendererBuilderOption: a function that applies the projection parameters to a renderer
func WithProjection(fovYDegrees, near, far float32) RendererBuilderOption {
	return func(r *renderer) {
		r.fovY = fovYDegrees
		r.near = near
		r.far = far
	}
}
