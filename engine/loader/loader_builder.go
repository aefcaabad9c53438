package loader

import (
	"path/filepath"

	"github.com/Carmen-Shannon/tri-go/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithScale multiplies every imported position by s. Non-positive values are ignored.
//
// Parameters:
//   - s: the uniform scale factor
//
// Returns:
//   - LoaderBuilderOption: a function that applies the scale option to a loader
func WithScale(s float32) LoaderBuilderOption {
	return func(l *loader) {
		if s > 0 {
			l.scale = s
		}
	}
}

// WithMesh pre-populates the mesh cache.
//
// Parameters:
//   - path: the cache key, as later passed to LoadMesh
//   - m: the mesh to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh option to a loader
func WithMesh(path string, m model.Mesh) LoaderBuilderOption {
	return func(l *loader) {
		l.meshCache[filepath.Clean(path)] = m
	}
}
