package shader

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// InstancedTriangleSource is the WGSL program that draws one textured triangle per instance,
// positioning instance i with objects[i] from the storage buffer at binding 3.
//
//go:embed assets/instanced_triangle.wgsl
var InstancedTriangleSource string

// ShaderType identifies a programmable stage of a render pipeline.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

// ErrMissingEntryPoint is returned when a source lacks a @vertex or @fragment function.
var ErrMissingEntryPoint = errors.New("shader entry point not found")

// ErrLayoutMismatch is returned when a shader's resource declarations disagree with a bind group layout.
var ErrLayoutMismatch = errors.New("shader bindings do not match layout")

// shader is the implementation of the Shader interface.
type shader struct {
	key          string
	source       string
	entryPoints  map[ShaderType]string
	bindings     map[int][]wgpu.BindGroupLayoutEntry
	bindingNames map[int]map[int]string
	vertexLayout *wgpu.VertexBufferLayout
	module       *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed WGSL module holding both the vertex and fragment stages of a render pipeline.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for GPU labels.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// Source retrieves the WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// EntryPoint returns the function name of the given stage.
	//
	// Parameters:
	//   - stage: ShaderTypeVertex or ShaderTypeFragment
	//
	// Returns:
	//   - string: the entry point name, empty if the stage is unknown
	EntryPoint(stage ShaderType) string

	// Bindings returns the resource declarations of a bind group sorted by binding index.
	// Entries carry the resource kind only; Visibility is unset.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutEntry: the declared entries, nil if the group is unused
	Bindings(group int) []wgpu.BindGroupLayoutEntry

	// BindingName returns the WGSL variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or empty if nothing is declared there
	BindingName(group, binding int) string

	// VertexLayout returns the vertex buffer layout derived from the vertex input struct.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the derived layout
	//   - bool: false if the shader has no parseable vertex input struct
	VertexLayout() (wgpu.VertexBufferLayout, bool)

	// Module returns the shader module descriptor used to compile this source on a device.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the WGSL module descriptor
	Module() *wgpu.ShaderModuleDescriptor

	// CheckLayout verifies that a bind group layout provides exactly the resources this shader
	// declares for the group, binding for binding and kind for kind.
	//
	// Parameters:
	//   - group: the bind group index to check
	//   - layout: the layout the pipeline will be created with
	//
	// Returns:
	//   - error: nil on match, otherwise an error wrapping ErrLayoutMismatch
	CheckLayout(group int, layout wgpu.BindGroupLayoutDescriptor) error
}

var _ Shader = &shader{}

// NewShader parses a WGSL source holding one @vertex and one @fragment entry point.
//
// Parameters:
//   - key: a unique identifier for the shader, used for GPU labels
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error wrapping ErrMissingEntryPoint if either stage is absent
func NewShader(key, source string) (Shader, error) {
	cleaned := stripComments(source)

	s := &shader{
		key:         key,
		source:      source,
		entryPoints: make(map[ShaderType]string, 2),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}
	for _, stage := range []ShaderType{ShaderTypeVertex, ShaderTypeFragment} {
		name := parseEntryPoint(cleaned, stage)
		if name == "" {
			return nil, fmt.Errorf("shader %s: %s stage: %w", key, stage, ErrMissingEntryPoint)
		}
		s.entryPoints[stage] = name
	}
	s.bindings, s.bindingNames = parseBindings(cleaned)
	if layout, ok := parseVertexLayout(cleaned); ok {
		s.vertexLayout = &layout
	}
	return s, nil
}

// NewInstancedTriangleShader parses the embedded InstancedTriangleSource.
//
// Returns:
//   - Shader: the parsed shader
//   - error: a parse error, which indicates a broken build
func NewInstancedTriangleShader() (Shader, error) {
	return NewShader("Instanced Triangle", InstancedTriangleSource)
}

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage ShaderType) string {
	return s.entryPoints[stage]
}

func (s *shader) Bindings(group int) []wgpu.BindGroupLayoutEntry {
	entries := s.bindings[group]
	if entries == nil {
		return nil
	}
	out := make([]wgpu.BindGroupLayoutEntry, len(entries))
	copy(out, entries)
	return out
}

func (s *shader) BindingName(group, binding int) string {
	if s.bindingNames[group] == nil {
		return ""
	}
	return s.bindingNames[group][binding]
}

func (s *shader) VertexLayout() (wgpu.VertexBufferLayout, bool) {
	if s.vertexLayout == nil {
		return wgpu.VertexBufferLayout{}, false
	}
	return *s.vertexLayout, true
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) CheckLayout(group int, layout wgpu.BindGroupLayoutDescriptor) error {
	declared := s.bindings[group]
	if len(declared) != len(layout.Entries) {
		return fmt.Errorf("group %d declares %d bindings, layout has %d: %w", group, len(declared), len(layout.Entries), ErrLayoutMismatch)
	}

	provided := make(map[uint32]wgpu.BindGroupLayoutEntry, len(layout.Entries))
	for _, e := range layout.Entries {
		provided[e.Binding] = e
	}
	for _, want := range declared {
		got, ok := provided[want.Binding]
		if !ok {
			return fmt.Errorf("binding %d (%s) missing from layout: %w", want.Binding, s.BindingName(group, int(want.Binding)), ErrLayoutMismatch)
		}
		if got.Buffer.Type != want.Buffer.Type ||
			got.Sampler.Type != want.Sampler.Type ||
			got.Texture.SampleType != want.Texture.SampleType ||
			got.Texture.ViewDimension != want.Texture.ViewDimension {
			return fmt.Errorf("binding %d (%s) resource kind differs: %w", want.Binding, s.BindingName(group, int(want.Binding)), ErrLayoutMismatch)
		}
		if got.Visibility == wgpu.ShaderStageNone {
			return fmt.Errorf("binding %d (%s) has no stage visibility: %w", want.Binding, s.BindingName(group, int(want.Binding)), ErrLayoutMismatch)
		}
	}
	return nil
}
