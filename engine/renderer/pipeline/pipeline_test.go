package pipeline

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/tri-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	s, err := shader.NewInstancedTriangleShader()
	if err != nil {
		t.Fatalf("NewInstancedTriangleShader: %v", err)
	}
	p := NewPipeline("Instanced", WithShader(s))

	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.RenderPipeline() != nil {
		t.Errorf("RenderPipeline set before creation")
	}

	prim := p.PrimitiveState()
	if prim.Topology != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("topology = %v, want triangle-list", prim.Topology)
	}
	if prim.CullMode != wgpu.CullModeNone {
		t.Errorf("cull mode = %v, want none", prim.CullMode)
	}

	ds := p.DepthStencilState()
	if ds.Format != wgpu.TextureFormatDepth24PlusStencil8 {
		t.Errorf("depth format = %v, want depth24plus-stencil8", ds.Format)
	}
	if !ds.DepthWriteEnabled {
		t.Errorf("depth write disabled")
	}
	if ds.DepthCompare != wgpu.CompareFunctionLessEqual {
		t.Errorf("depth compare = %v, want less-equal", ds.DepthCompare)
	}
	if ds.StencilFront.Compare != wgpu.CompareFunctionAlways || ds.StencilBack.Compare != wgpu.CompareFunctionAlways {
		t.Errorf("stencil compare is not always")
	}

	ct := p.ColorTarget(wgpu.TextureFormatRGBA8Unorm)
	if ct.Format != wgpu.TextureFormatRGBA8Unorm || ct.WriteMask != wgpu.ColorWriteMaskAll || ct.Blend != nil {
		t.Errorf("color target = %+v", ct)
	}
}

func TestPipelineOptions(t *testing.T) {
	p := NewPipeline("custom",
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithDepthCompare(wgpu.CompareFunctionLess),
		WithDepthWriteEnabled(false),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	prim := p.PrimitiveState()
	if prim.CullMode != wgpu.CullModeBack || prim.Topology != wgpu.PrimitiveTopologyLineList || prim.FrontFace != wgpu.FrontFaceCW {
		t.Errorf("primitive state = %+v", prim)
	}
	ds := p.DepthStencilState()
	if ds.DepthWriteEnabled || ds.DepthCompare != wgpu.CompareFunctionLess {
		t.Errorf("depth state = %+v", ds)
	}
	if p.ColorTarget(wgpu.TextureFormatBGRA8Unorm).WriteMask != wgpu.ColorWriteMaskRed {
		t.Errorf("write mask not applied")
	}
}

func TestValidateWithoutShader(t *testing.T) {
	p := NewPipeline("empty")
	if err := p.Validate(); !errors.Is(err, ErrNoShader) {
		t.Fatalf("got %v, want ErrNoShader", err)
	}
}
