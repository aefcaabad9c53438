package bind_group_provider

import (
	"slices"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestBindingContractLayout(t *testing.T) {
	desc := BindingContractLayout("Instanced")
	if len(desc.Entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(desc.Entries))
	}

	cam := desc.Entries[BindingCamera]
	if cam.Buffer.Type != wgpu.BufferBindingTypeUniform || cam.Visibility != wgpu.ShaderStageVertex {
		t.Errorf("camera entry = %+v", cam)
	}
	if cam.Buffer.MinBindingSize != 128 {
		t.Errorf("camera min binding size = %d, want 128", cam.Buffer.MinBindingSize)
	}

	tex := desc.Entries[BindingTexture]
	if tex.Texture.SampleType != wgpu.TextureSampleTypeFloat || tex.Texture.ViewDimension != wgpu.TextureViewDimension2D || tex.Visibility != wgpu.ShaderStageFragment {
		t.Errorf("texture entry = %+v", tex)
	}

	samp := desc.Entries[BindingSampler]
	if samp.Sampler.Type != wgpu.SamplerBindingTypeFiltering || samp.Visibility != wgpu.ShaderStageFragment {
		t.Errorf("sampler entry = %+v", samp)
	}

	tr := desc.Entries[BindingTransform]
	if tr.Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage || tr.Visibility != wgpu.ShaderStageVertex {
		t.Errorf("transform entry = %+v", tr)
	}

	for i, e := range desc.Entries {
		if int(e.Binding) != i {
			t.Errorf("entry %d has binding %d", i, e.Binding)
		}
	}
}

func TestTransformBufferSize(t *testing.T) {
	tests := []struct {
		capacity int
		want     uint64
	}{
		{1, 64},
		{10, 640},
		{1024, 65536},
	}
	for _, tt := range tests {
		if got := TransformBufferSize(tt.capacity); got != tt.want {
			t.Errorf("TransformBufferSize(%d) = %d, want %d", tt.capacity, got, tt.want)
		}
	}
}

func TestMissing(t *testing.T) {
	desc := BindingContractLayout("Instanced")

	p := NewBindGroupProvider("test", WithBuffer(BindingCamera, &wgpu.Buffer{}))
	if got := p.Missing(desc); !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("Missing = %v, want [1 2 3]", got)
	}

	p.SetTexture(BindingTexture, &wgpu.Texture{}, &wgpu.TextureView{})
	p.SetSampler(BindingSampler, &wgpu.Sampler{})
	p.SetBuffer(BindingTransform, &wgpu.Buffer{})
	if got := p.Missing(desc); len(got) != 0 {
		t.Fatalf("Missing = %v, want none", got)
	}
}

func TestProviderAccessors(t *testing.T) {
	vb := &wgpu.Buffer{}
	p := NewBindGroupProvider("Triangle", WithVertexBuffer(vb, 3))
	if p.Label() != "Triangle" {
		t.Errorf("Label = %q", p.Label())
	}
	if p.VertexBuffer() != vb || p.VertexCount() != 3 {
		t.Errorf("vertex buffer not stored")
	}
	if p.BindGroup() != nil || p.BindGroupLayout() != nil {
		t.Errorf("fresh provider has GPU objects")
	}
	if p.Buffer(BindingCamera) != nil || p.TextureView(BindingTexture) != nil || p.Sampler(BindingSampler) != nil {
		t.Errorf("fresh provider has bindings")
	}
}
