package bind_group_provider

import (
	"github.com/Carmen-Shannon/tri-go/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Binding indices of the single bind group (group 0) shared by every draw.
const (
	BindingCamera    = 0
	BindingTexture   = 1
	BindingSampler   = 2
	BindingTransform = 3
)

// CameraUniformSize is the byte size of the camera uniform: view then projection.
const CameraUniformSize = 2 * common.Mat4Size

// TransformBufferSize returns the byte size of the storage buffer holding capacity model matrices.
//
// Parameters:
//   - capacity: the maximum number of instances
//
// Returns:
//   - uint64: capacity * 64
func TransformBufferSize(capacity int) uint64 {
	return uint64(capacity) * common.Mat4Size
}

// BindingContractLayout describes group 0 as the instanced triangle shader consumes it:
//   - 0: uniform camera (view, projection), vertex stage
//   - 1: texture_2d<f32>, fragment stage
//   - 2: filtering sampler, fragment stage
//   - 3: read-only storage array<mat4x4<f32>>, vertex stage
//
// Parameters:
//   - label: the debug label for the layout
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func BindingContractLayout(label string) wgpu.BindGroupLayoutDescriptor {
	entries := []wgpu.BindGroupLayoutEntry{
		{
			Binding:    BindingCamera,
			Visibility: wgpu.ShaderStageVertex,
		},
		{
			Binding:    BindingTexture,
			Visibility: wgpu.ShaderStageFragment,
		},
		{
			Binding:    BindingSampler,
			Visibility: wgpu.ShaderStageFragment,
		},
		{
			Binding:    BindingTransform,
			Visibility: wgpu.ShaderStageVertex,
		},
	}
	entries[BindingCamera].Buffer.Type = wgpu.BufferBindingTypeUniform
	entries[BindingCamera].Buffer.MinBindingSize = CameraUniformSize
	entries[BindingTexture].Texture.SampleType = wgpu.TextureSampleTypeFloat
	entries[BindingTexture].Texture.ViewDimension = wgpu.TextureViewDimension2D
	entries[BindingSampler].Sampler.Type = wgpu.SamplerBindingTypeFiltering
	entries[BindingTransform].Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	entries[BindingTransform].Buffer.MinBindingSize = common.Mat4Size

	return wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	}
}
