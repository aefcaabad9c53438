package model

// mesh is the implementation of the Mesh interface.
type mesh struct {
	label    string
	vertices []GPUVertex
}

// Mesh is static, non-indexed vertex geometry uploaded once at initialization.
type Mesh interface {
	// Label returns a name used for GPU resource labels.
	//
	// Returns:
	//   - string: the mesh label
	Label() string

	// Vertices returns a copy of the mesh vertices.
	//
	// Returns:
	//   - []GPUVertex: the vertices in draw order
	Vertices() []GPUVertex

	// VertexCount returns the number of vertices drawn per instance.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// Marshal packs all vertices into one buffer of VertexCount*VertexStride bytes.
	//
	// Returns:
	//   - []byte: the vertex buffer contents
	Marshal() []byte
}

var _ Mesh = &mesh{}

// NewMesh creates a Mesh from the given vertices.
//
// Parameters:
//   - label: the name used for GPU resource labels
//   - vertices: the vertices in draw order
//
// Returns:
//   - Mesh: the mesh
func NewMesh(label string, vertices []GPUVertex) Mesh {
	v := make([]GPUVertex, len(vertices))
	copy(v, vertices)
	return &mesh{label: label, vertices: v}
}

// TriangleMesh returns the single textured triangle drawn for every entity.
// It stands upright in the YZ plane, facing the camera's default +X view direction.
//
// Returns:
//   - Mesh: the triangle mesh (3 vertices)
func TriangleMesh() Mesh {
	return NewMesh("Triangle", []GPUVertex{
		{Position: [3]float32{0, 0, 0.5}, TexCoord: [2]float32{0.5, 0}},
		{Position: [3]float32{0, -0.5, -0.5}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{0, 0.5, -0.5}, TexCoord: [2]float32{1, 1}},
	})
}

func (m *mesh) Label() string {
	return m.label
}

func (m *mesh) Vertices() []GPUVertex {
	out := make([]GPUVertex, len(m.vertices))
	copy(out, m.vertices)
	return out
}

func (m *mesh) VertexCount() int {
	return len(m.vertices)
}

func (m *mesh) Marshal() []byte {
	buf := make([]byte, len(m.vertices)*VertexStride)
	for i := range m.vertices {
		m.vertices[i].marshalInto(buf[i*VertexStride:])
	}
	return buf
}
