package material

import (
	"fmt"

	"github.com/Carmen-Shannon/tri-go/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Checkerboard dimensions of the generated fallback texture.
const (
	CheckerboardSize = 64
	CheckerboardCell = 8
)

var (
	checkerLight = [4]byte{0xE0, 0xE0, 0xE0, 0xFF}
	checkerDark  = [4]byte{0x30, 0x30, 0x80, 0xFF}
)

// material is the implementation of the Material interface.
type material struct {
	name           string
	diffuseTexture *common.ImportedTexture
	sampler        common.SamplerStagingData
	samplerSet     bool
}

// Material is the asset source for the diffuse texture and sampler bound to every draw.
//
// When no texture source is set, a generated checkerboard stands in so the renderer runs
// without assets on disk. An explicit source that cannot be read or decoded is an error.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// DiffuseTexture retrieves the diffuse texture source, or nil when the checkerboard is used.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture, or nil
	DiffuseTexture() *common.ImportedTexture

	// TextureStaging decodes the diffuse texture to RGBA pixels ready for upload.
	//
	// Returns:
	//   - common.TextureStagingData: the RGBA pixels and dimensions
	//   - error: an error if the texture source cannot be read or decoded
	TextureStaging() (common.TextureStagingData, error)

	// SamplerStaging returns the sampler configuration: the one given to WithSampler, or
	// DefaultSampler when none was given.
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler configuration
	SamplerStaging() common.SamplerStagingData
}

var _ Material = &material{}

// NewMaterial creates a Material with the provided options.
//
// Parameters:
//   - opts: a variadic list of MaterialBuilderOption functions
//
// Returns:
//   - Material: the configured material
func NewMaterial(opts ...MaterialBuilderOption) Material {
	m := &material{
		name: "Default",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) TextureStaging() (common.TextureStagingData, error) {
	if m.diffuseTexture == nil {
		return Checkerboard(CheckerboardSize, CheckerboardCell, checkerLight, checkerDark), nil
	}
	staging, err := m.diffuseTexture.Decode()
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("material %s: %w", m.name, err)
	}
	if err := staging.Validate(); err != nil {
		return common.TextureStagingData{}, fmt.Errorf("material %s: %w", m.name, err)
	}
	return staging, nil
}

func (m *material) SamplerStaging() common.SamplerStagingData {
	if !m.samplerSet {
		return DefaultSampler()
	}
	s := m.sampler
	// wgpu rejects an anisotropy of 0; every other zero field is a valid mode.
	s.MaxAnisotropy = common.Coalesce(s.MaxAnisotropy, 1)
	return s
}

// DefaultSampler returns repeat addressing with linear filtering on every axis and mip level.
//
// Returns:
//   - common.SamplerStagingData: the default sampler configuration
func DefaultSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// Checkerboard generates a square RGBA texture of alternating cells.
//
// Parameters:
//   - size: the width and height in pixels
//   - cell: the edge length of one cell in pixels
//   - a, b: the RGBA colors of even and odd cells
//
// Returns:
//   - common.TextureStagingData: the generated pixels
func Checkerboard(size, cell int, a, b [4]byte) common.TextureStagingData {
	if cell <= 0 {
		cell = 1
	}
	pix := make([]byte, size*size*4)
	for y := range size {
		for x := range size {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			copy(pix[(y*size+x)*4:], c[:])
		}
	}
	return common.TextureStagingData{
		Pixels: pix,
		Width:  uint32(size),
		Height: uint32(size),
	}
}
