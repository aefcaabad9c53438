package model

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// VertexStride is the byte distance between consecutive vertices in the vertex buffer.
const VertexStride = 20

// Attribute offsets inside one vertex.
const (
	PositionOffset = 0
	TexCoordOffset = 12
)

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL vertex inputs @location(0) vec3<f32> and @location(1) vec2<f32>.
// Size: 20 bytes, no padding.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	TexCoord [2]float32 // offset 12: UV texture coordinate (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 20-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, VertexStride)
	g.marshalInto(buf)
	return buf
}

func (g *GPUVertex) marshalInto(buf []byte) {
	binary.LittleEndian.PutUint32(buf[PositionOffset:], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[PositionOffset+4:], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[PositionOffset+8:], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[TexCoordOffset:], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[TexCoordOffset+4:], math.Float32bits(g.TexCoord[1]))
}

// VertexBufferLayout returns the fixed vertex buffer layout: stride 20, float32x3 position at
// location 0 offset 0, float32x2 UV at location 1 offset 12, stepped per vertex.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for the pipeline's vertex stage
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         PositionOffset,
				ShaderLocation: 0,
			},
			{
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         TexCoordOffset,
				ShaderLocation: 1,
			},
		},
	}
}
