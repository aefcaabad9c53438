package shader

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestInstancedTriangleShader(t *testing.T) {
	s, err := NewInstancedTriangleShader()
	if err != nil {
		t.Fatalf("NewInstancedTriangleShader: %v", err)
	}

	if got := s.EntryPoint(ShaderTypeVertex); got != "vs_main" {
		t.Errorf("vertex entry point = %q, want vs_main", got)
	}
	if got := s.EntryPoint(ShaderTypeFragment); got != "fs_main" {
		t.Errorf("fragment entry point = %q, want fs_main", got)
	}
	if s.Module() == nil || s.Module().WGSLDescriptor.Code != InstancedTriangleSource {
		t.Errorf("module descriptor does not carry the embedded source")
	}

	entries := s.Bindings(0)
	if len(entries) != 4 {
		t.Fatalf("got %d bindings in group 0, want 4", len(entries))
	}
	tests := []struct {
		binding uint32
		name    string
		check   func(wgpu.BindGroupLayoutEntry) bool
	}{
		{0, "camera", func(e wgpu.BindGroupLayoutEntry) bool { return e.Buffer.Type == wgpu.BufferBindingTypeUniform }},
		{1, "diffuse_texture", func(e wgpu.BindGroupLayoutEntry) bool {
			return e.Texture.SampleType == wgpu.TextureSampleTypeFloat && e.Texture.ViewDimension == wgpu.TextureViewDimension2D
		}},
		{2, "diffuse_sampler", func(e wgpu.BindGroupLayoutEntry) bool { return e.Sampler.Type == wgpu.SamplerBindingTypeFiltering }},
		{3, "objects", func(e wgpu.BindGroupLayoutEntry) bool { return e.Buffer.Type == wgpu.BufferBindingTypeReadOnlyStorage }},
	}
	for i, tt := range tests {
		if entries[i].Binding != tt.binding {
			t.Errorf("entry %d binding = %d, want %d", i, entries[i].Binding, tt.binding)
		}
		if !tt.check(entries[i]) {
			t.Errorf("binding %d has the wrong resource kind: %+v", tt.binding, entries[i])
		}
		if got := s.BindingName(0, int(tt.binding)); got != tt.name {
			t.Errorf("binding %d name = %q, want %q", tt.binding, got, tt.name)
		}
	}
}

func TestVertexLayoutFromSource(t *testing.T) {
	s, err := NewInstancedTriangleShader()
	if err != nil {
		t.Fatalf("NewInstancedTriangleShader: %v", err)
	}
	layout, ok := s.VertexLayout()
	if !ok {
		t.Fatal("no vertex layout parsed")
	}
	if layout.ArrayStride != 20 {
		t.Errorf("stride = %d, want 20", layout.ArrayStride)
	}
	if len(layout.Attributes) != 2 {
		t.Fatalf("got %d attributes, want 2", len(layout.Attributes))
	}
	if a := layout.Attributes[0]; a.Format != wgpu.VertexFormatFloat32x3 || a.Offset != 0 || a.ShaderLocation != 0 {
		t.Errorf("position attribute = %+v", a)
	}
	if a := layout.Attributes[1]; a.Format != wgpu.VertexFormatFloat32x2 || a.Offset != 12 || a.ShaderLocation != 1 {
		t.Errorf("uv attribute = %+v", a)
	}
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"no fragment", "@vertex fn vs() -> @builtin(position) vec4<f32> { return vec4<f32>(); }"},
		{"no vertex", "@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(); }"},
		{"commented out", "// @vertex fn a() {}\n/* @fragment fn b() {} */"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader(tt.name, tt.source)
			if !errors.Is(err, ErrMissingEntryPoint) {
				t.Fatalf("got %v, want ErrMissingEntryPoint", err)
			}
		})
	}
}

func TestCheckLayout(t *testing.T) {
	s, err := NewInstancedTriangleShader()
	if err != nil {
		t.Fatalf("NewInstancedTriangleShader: %v", err)
	}

	good := func() []wgpu.BindGroupLayoutEntry {
		entries := s.Bindings(0)
		for i := range entries {
			entries[i].Visibility = wgpu.ShaderStageVertex
		}
		return entries
	}

	if err := s.CheckLayout(0, wgpu.BindGroupLayoutDescriptor{Entries: good()}); err != nil {
		t.Fatalf("matching layout rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func([]wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry
	}{
		{"missing entry", func(e []wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry { return e[:3] }},
		{"wrong kind", func(e []wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
			e[3].Buffer.Type = wgpu.BufferBindingTypeUniform
			return e
		}},
		{"renumbered", func(e []wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
			e[2].Binding = 7
			return e
		}},
		{"no visibility", func(e []wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
			e[1].Visibility = wgpu.ShaderStageNone
			return e
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CheckLayout(0, wgpu.BindGroupLayoutDescriptor{Entries: tt.mutate(good())})
			if !errors.Is(err, ErrLayoutMismatch) {
				t.Fatalf("got %v, want ErrLayoutMismatch", err)
			}
		})
	}
}

func TestStripComments(t *testing.T) {
	in := "a // line\nb /* block /* nested */ still */ c"
	want := "a \nb  c"
	if got := stripComments(in); got != want {
		t.Errorf("stripComments = %q, want %q", got, want)
	}
}
