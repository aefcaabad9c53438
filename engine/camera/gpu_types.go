package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer at binding 0.
// Matches the WGSL struct { view: mat4x4<f32>, projection: mat4x4<f32> }.
// Size: 128 bytes.
type GPUCameraUniform struct {
	View       mgl32.Mat4 // offset  0
	Projection mgl32.Mat4 // offset 64
}

// ProjectionOffset is the byte offset of the projection matrix inside GPUCameraUniform.
const ProjectionOffset = 64

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.View[i]))
		binary.LittleEndian.PutUint32(buf[ProjectionOffset+i*4:], math.Float32bits(g.Projection[i]))
	}
	return buf
}
