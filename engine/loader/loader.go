package loader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/tri-go/engine/model"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .gltf nor .glb.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrNoGeometry is returned when a document holds no triangle primitive with positions.
	ErrNoGeometry = errors.New("model has no triangle geometry")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	meshCache map[string]model.Mesh
	scale     float32
}

// Loader imports static meshes from glTF 2.0 files (.gltf with embedded or external buffers, or .glb)
// and caches them by path. Every triangle primitive of every mesh is flattened into one non-indexed
// triangle list of POSITION and TEXCOORD_0; other attributes, materials and node transforms are ignored.
// Safe for concurrent use.
type Loader interface {
	// LoadMesh imports the file at path, returning the cached mesh on repeated calls.
	//
	// Parameters:
	//   - path: the .gltf or .glb file path
	//
	// Returns:
	//   - model.Mesh: the flattened triangle mesh
	//   - error: ErrUnsupportedFormat, ErrNoGeometry, or a parse error
	LoadMesh(path string) (model.Mesh, error)

	// LoadMeshReader imports a document from r without caching it. Buffers must be embedded
	// (data URIs or the GLB BIN chunk).
	//
	// Parameters:
	//   - label: the mesh label
	//   - r: the document bytes
	//   - isGLB: true if r holds a GLB container
	//
	// Returns:
	//   - model.Mesh: the flattened triangle mesh
	//   - error: ErrNoGeometry or a parse error
	LoadMeshReader(label string, r io.Reader, isGLB bool) (model.Mesh, error)

	// Cached returns a previously loaded mesh.
	//
	// Parameters:
	//   - path: the path the mesh was loaded from
	//
	// Returns:
	//   - model.Mesh: the cached mesh, or nil
	//   - bool: true if found
	Cached(path string) (model.Mesh, bool)
}

var _ Loader = &loader{}

// NewLoader creates a Loader with an empty cache.
//
// Parameters:
//   - options: functional options for scale and cache pre-population
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		meshCache: make(map[string]model.Mesh),
		scale:     1,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *loader) LoadMesh(path string) (model.Mesh, error) {
	key := filepath.Clean(path)
	if m, ok := l.Cached(key); ok {
		return m, nil
	}

	switch strings.ToLower(filepath.Ext(key)) {
	case ".gltf", ".glb":
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	p := newGLTFParser(filepath.Dir(key))
	if err := p.parseFile(key); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m, err := l.buildMesh(filepath.Base(key), p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.meshCache[key]; ok {
		return cached, nil
	}
	l.meshCache[key] = m
	log.Printf("[Loader] loaded %s: %d vertices", key, m.VertexCount())
	return m, nil
}

func (l *loader) LoadMeshReader(label string, r io.Reader, isGLB bool) (model.Mesh, error) {
	p := newGLTFParser("")
	if err := p.parseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	m, err := l.buildMesh(label, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return m, nil
}

func (l *loader) Cached(path string) (model.Mesh, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.meshCache[filepath.Clean(path)]
	return m, ok
}

// buildMesh flattens every triangle primitive into one vertex list. Primitives with another
// topology are skipped; missing UVs default to (0, 0).
func (l *loader) buildMesh(label string, p *gltfParser) (model.Mesh, error) {
	var vertices []model.GPUVertex

	for mi, mesh := range p.document.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				log.Printf("[Loader] %s: mesh %d primitive %d has mode %d, skipping", label, mi, pi, *prim.Mode)
				continue
			}
			primVertices, err := l.extractPrimitive(p, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			vertices = append(vertices, primVertices...)
		}
	}

	if len(vertices) == 0 {
		return nil, ErrNoGeometry
	}
	return model.NewMesh(label, vertices), nil
}

func (l *loader) extractPrimitive(p *gltfParser, prim gltfPrimitive) ([]model.GPUVertex, error) {
	posIndex, ok := prim.Attributes[gltfAttributePosition]
	if !ok {
		return nil, fmt.Errorf("no %s attribute: %w", gltfAttributePosition, ErrNoGeometry)
	}
	positions, err := p.readFloats(posIndex, gltfAccessorTypeVec3)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	count := len(positions) / 3

	var uvs []float32
	if uvIndex, ok := prim.Attributes[gltfAttributeTexCoord0]; ok {
		if uvs, err = p.readFloats(uvIndex, gltfAccessorTypeVec2); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
		if len(uvs)/2 != count {
			return nil, fmt.Errorf("%d texcoords for %d positions", len(uvs)/2, count)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = p.readIndices(*prim.Indices); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%d indices do not form whole triangles", len(indices))
	}

	vertices := make([]model.GPUVertex, len(indices))
	for i, idx := range indices {
		if int(idx) >= count {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, count)
		}
		v := &vertices[i]
		v.Position = [3]float32{
			positions[idx*3] * l.scale,
			positions[idx*3+1] * l.scale,
			positions[idx*3+2] * l.scale,
		}
		if uvs != nil {
			v.TexCoord = [2]float32{uvs[idx*2], uvs[idx*2+1]}
		}
	}
	return vertices, nil
}
