package material

import "github.com/Carmen-Shannon/tri-go/common"

// MaterialBuilderOption is a functional option used to configure a Material during construction.
type MaterialBuilderOption func(*material)

// WithName sets the name of the material.
//
// Parameters:
//   - name: the name to assign
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithTexturePath loads the diffuse texture from a PNG or JPEG file. An empty path keeps the checkerboard.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture source to a material
func WithTexturePath(path string) MaterialBuilderOption {
	return func(m *material) {
		if path == "" {
			return
		}
		m.diffuseTexture = &common.ImportedTexture{Path: path}
	}
}

// WithTextureData uses encoded PNG or JPEG bytes as the diffuse texture.
//
// Parameters:
//   - data: the encoded image
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture source to a material
func WithTextureData(data []byte) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = &common.ImportedTexture{Data: data}
	}
}

// WithSampler replaces the whole sampler configuration. Zero enum fields are the first wgpu mode
// (repeat addressing, nearest filtering); start from DefaultSampler to change a single field.
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler to a material
func WithSampler(s common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = s
		m.samplerSet = true
	}
}
