package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/tri-go/engine/model"
)

var (
	testPositions = []float32{0, 0.5, 0, -0.5, -0.5, 0, 0.5, -0.5, 0}
	testUVs       = []float32{0.5, 0, 0, 1, 1, 1}
	testIndices   = []uint16{0, 1, 2}
)

// triangleBuffer packs positions (36 bytes), UVs (24 bytes) and ushort indices (6 bytes, padded to 8).
func triangleBuffer() []byte {
	var buf bytes.Buffer
	for _, f := range testPositions {
		binary.Write(&buf, binary.LittleEndian, math.Float32bits(f))
	}
	for _, f := range testUVs {
		binary.Write(&buf, binary.LittleEndian, math.Float32bits(f))
	}
	for _, i := range testIndices {
		binary.Write(&buf, binary.LittleEndian, i)
	}
	buf.Write([]byte{0, 0})
	return buf.Bytes()
}

// triangleDocument returns a glTF document for triangleBuffer. bufferURI is omitted when empty.
func triangleDocument(t *testing.T, version, bufferURI string, mode int) []byte {
	t.Helper()
	buffer := map[string]any{"byteLength": 68}
	if bufferURI != "" {
		buffer["uri"] = bufferURI
	}
	doc := map[string]any{
		"asset": map[string]any{"version": version},
		"meshes": []any{map[string]any{
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0, "TEXCOORD_0": 1},
				"indices":    2,
				"mode":       mode,
			}},
		}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": gltfComponentTypeFloat, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": gltfComponentTypeFloat, "count": 3, "type": "VEC2"},
			map[string]any{"bufferView": 2, "componentType": gltfComponentTypeUnsignedShort, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 24},
			map[string]any{"buffer": 0, "byteOffset": 60, "byteLength": 6},
		},
		"buffers": []any{buffer},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	return data
}

// editDocument decodes doc, applies edit to the generic JSON tree and re-encodes it.
func editDocument(t *testing.T, doc []byte, edit func(root map[string]any)) []byte {
	t.Helper()
	var root map[string]any
	if err := json.Unmarshal(doc, &root); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	edit(root)
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	return data
}

// setField sets key on element i of the top-level array named list.
func setField(list string, i int, key string, value any) func(map[string]any) {
	return func(root map[string]any) {
		root[list].([]any)[i].(map[string]any)[key] = value
	}
}

func dataURI(b []byte) string {
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b)
}

// buildGLB wraps a JSON document and binary chunk in a GLB container.
func buildGLB(jsonData, bin []byte) []byte {
	for len(jsonData)%4 != 0 {
		jsonData = append(jsonData, ' ')
	}
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}
	total := 12 + 8 + len(jsonData) + 8 + len(bin)

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonData)), ChunkType: gltfGLBChunkJSON})
	out.Write(jsonData)
	binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN})
	out.Write(bin)
	return out.Bytes()
}

func checkTriangle(t *testing.T, m model.Mesh, scale float32) {
	t.Helper()
	if m.VertexCount() != 3 {
		t.Fatalf("VertexCount = %d, want 3", m.VertexCount())
	}
	for i, v := range m.Vertices() {
		for c := 0; c < 3; c++ {
			if want := testPositions[i*3+c] * scale; v.Position[c] != want {
				t.Errorf("vertex %d position[%d] = %v, want %v", i, c, v.Position[c], want)
			}
		}
		for c := 0; c < 2; c++ {
			if want := testUVs[i*2+c]; v.TexCoord[c] != want {
				t.Errorf("vertex %d texcoord[%d] = %v, want %v", i, c, v.TexCoord[c], want)
			}
		}
	}
}

func TestLoadMeshReaderDataURI(t *testing.T) {
	doc := triangleDocument(t, "2.0", dataURI(triangleBuffer()), gltfPrimitiveModeTriangles)

	m, err := NewLoader().LoadMeshReader("tri", bytes.NewReader(doc), false)
	if err != nil {
		t.Fatalf("LoadMeshReader: %v", err)
	}
	if m.Label() != "tri" {
		t.Errorf("Label = %q, want tri", m.Label())
	}
	checkTriangle(t, m, 1)
}

func TestLoadMeshReaderGLB(t *testing.T) {
	glb := buildGLB(triangleDocument(t, "2.0", "", gltfPrimitiveModeTriangles), triangleBuffer())

	m, err := NewLoader(WithScale(2)).LoadMeshReader("tri.glb", bytes.NewReader(glb), true)
	if err != nil {
		t.Fatalf("LoadMeshReader: %v", err)
	}
	checkTriangle(t, m, 2)
}

func TestLoadMeshExternalBufferIsCached(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tri.bin"), triangleBuffer(), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "tri.gltf")
	if err := os.WriteFile(path, triangleDocument(t, "2.0", "tri.bin", gltfPrimitiveModeTriangles), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	if _, ok := l.Cached(path); ok {
		t.Fatal("mesh cached before load")
	}
	first, err := l.LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	checkTriangle(t, first, 1)

	// A second load must come from the cache even once the file is gone.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := l.LoadMesh(filepath.Join(dir, ".", "tri.gltf"))
	if err != nil {
		t.Fatalf("second LoadMesh: %v", err)
	}
	if first != second {
		t.Error("second LoadMesh returned a different mesh")
	}
}

func TestWithMeshPrepopulatesCache(t *testing.T) {
	m := model.TriangleMesh()
	l := NewLoader(WithMesh("assets/tri.glb", m))

	got, err := l.LoadMesh("assets/./tri.glb")
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if got != m {
		t.Error("LoadMesh did not return the pre-populated mesh")
	}
}

func TestLoadMeshErrors(t *testing.T) {
	buffer := dataURI(triangleBuffer())
	valid := triangleDocument(t, "2.0", buffer, gltfPrimitiveModeTriangles)
	badIndexBuffer := triangleBuffer()
	binary.LittleEndian.PutUint16(badIndexBuffer[62:], 7)

	tests := []struct {
		name    string
		doc     []byte
		wantErr error
		wantMsg string
	}{
		{
			name:    "version 1.0",
			doc:     triangleDocument(t, "1.0", buffer, gltfPrimitiveModeTriangles),
			wantErr: errInvalidGLTFVersion,
		},
		{
			name:    "points only",
			doc:     triangleDocument(t, "2.0", buffer, 0),
			wantErr: ErrNoGeometry,
		},
		{
			name:    "index out of range",
			doc:     triangleDocument(t, "2.0", dataURI(badIndexBuffer), gltfPrimitiveModeTriangles),
			wantMsg: "out of range",
		},
		{
			name:    "truncated buffer",
			doc:     triangleDocument(t, "2.0", dataURI(triangleBuffer()[:40]), gltfPrimitiveModeTriangles),
			wantErr: errBufferSizeMismatch,
		},
		{
			name:    "negative accessor byteOffset",
			doc:     editDocument(t, valid, setField("accessors", 0, "byteOffset", -8)),
			wantMsg: "negative",
		},
		{
			name:    "negative accessor count",
			doc:     editDocument(t, valid, setField("accessors", 0, "count", -1)),
			wantMsg: "negative",
		},
		{
			name:    "negative bufferView byteOffset",
			doc:     editDocument(t, valid, setField("bufferViews", 1, "byteOffset", -4)),
			wantMsg: "negative",
		},
		{
			name:    "negative bufferView byteLength",
			doc:     editDocument(t, valid, setField("bufferViews", 0, "byteLength", -1)),
			wantMsg: "negative",
		},
		{
			name:    "stride below element size",
			doc:     editDocument(t, valid, setField("bufferViews", 0, "byteStride", 4)),
			wantMsg: "byteStride",
		},
		{
			name:    "accessor past its bufferView",
			doc:     editDocument(t, valid, setField("accessors", 0, "count", 4)),
			wantMsg: "past its bufferView",
		},
		{
			name:    "not json",
			doc:     []byte("solid cube"),
			wantMsg: "failed to parse glTF JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadMeshReader(tt.name, bytes.NewReader(tt.doc), false)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadMeshUnsupportedExtension(t *testing.T) {
	_, err := NewLoader().LoadMesh("cube.obj")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseGLBRejectsBadMagic(t *testing.T) {
	glb := buildGLB(triangleDocument(t, "2.0", "", gltfPrimitiveModeTriangles), triangleBuffer())
	copy(glb, "fake")

	_, err := NewLoader().LoadMeshReader("bad.glb", bytes.NewReader(glb), true)
	if !errors.Is(err, errInvalidGLBMagic) {
		t.Fatalf("err = %v, want errInvalidGLBMagic", err)
	}
}
