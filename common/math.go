package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Mat4Floats is the number of float32 components in a 4x4 matrix.
const Mat4Floats = 16

// Mat4Size is the byte size of a tightly packed 4x4 float32 matrix.
const Mat4Size = Mat4Floats * 4

// WebGPUClipCorrection remaps OpenGL clip-space depth [-1, 1] to the WebGPU range [0, 1].
// Column-major: z' = 0.5*z + 0.5*w.
var WebGPUClipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Perspective builds a right-handed perspective projection whose depth lands in WebGPU's [0, 1] clip range.
// The GL-convention matrix from mgl32 is left-multiplied by WebGPUClipCorrection.
//
// Parameters:
//   - fovYDegrees: vertical field of view in degrees
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance
//   - far: far clipping plane distance
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovYDegrees, aspect, near, far float32) mgl32.Mat4 {
	return WebGPUClipCorrection.Mul4(mgl32.Perspective(mgl32.DegToRad(fovYDegrees), aspect, near, far))
}

// WrapDegrees maps an angle in degrees into [0, 360).
//
// Parameters:
//   - deg: the angle in degrees, any sign or magnitude
//
// Returns:
//   - float32: the equivalent angle in [0, 360)
func WrapDegrees(deg float32) float32 {
	w := float32(math.Mod(float64(deg), 360))
	if w < 0 {
		w += 360
	}
	// -1e-7 + 360 rounds to 360 in float32.
	if w >= 360 {
		w = 0
	}
	return w
}

// SphericalToCartesian converts a yaw/pitch pair in degrees to a unit direction vector in a Z-up world.
// Yaw rotates about +Z starting from +X, pitch raises the vector towards +Z.
//
// Parameters:
//   - yawDegrees: rotation about the world up axis
//   - pitchDegrees: elevation above the XY plane
//
// Returns:
//   - mgl32.Vec3: (cos yaw * cos pitch, sin yaw * cos pitch, sin pitch)
func SphericalToCartesian(yawDegrees, pitchDegrees float32) mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(yawDegrees))
	pitch := float64(mgl32.DegToRad(pitchDegrees))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
	}
}
