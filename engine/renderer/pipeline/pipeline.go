package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/tri-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoShader is returned by Validate when no shader is attached.
var ErrNoShader = errors.New("pipeline has no shader")

// DepthStencilFormat is the format of the depth-stencil attachment every render pipeline targets.
const DepthStencilFormat = wgpu.TextureFormatDepth24PlusStencil8

// pipeline is the implementation of the Pipeline interface.
// It holds the configuration the render pipeline is created from and, once created, the GPU pipeline itself.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for GPU labels
	pipelineKey string

	// shader holds both the vertex and fragment stages
	shader shader.Shader

	// renderPipeline is the created GPU pipeline, nil until the backend registers it
	renderPipeline *wgpu.RenderPipeline

	// The following properties configure pipeline creation and can be set with the builder options.

	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	depthFormat       wgpu.TextureFormat
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
}

// Pipeline is the configuration and GPU handle of a render pipeline made of one vertex and one
// fragment stage, drawing into a color target with a depth-stencil attachment.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the shader holding the vertex and fragment stages, or nil if not set.
	//
	// Returns:
	//   - shader.Shader: the shader or nil
	Shader() shader.Shader

	// RenderPipeline returns the created GPU pipeline, or nil before creation.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// PrimitiveState returns the primitive assembly state: topology, front face and cull mode.
	//
	// Returns:
	//   - wgpu.PrimitiveState: the primitive state
	PrimitiveState() wgpu.PrimitiveState

	// DepthStencilState returns the depth-stencil state. Stencil tests always pass.
	//
	// Returns:
	//   - *wgpu.DepthStencilState: the depth-stencil state
	DepthStencilState() *wgpu.DepthStencilState

	// ColorTarget returns the color target state for the given surface format.
	//
	// Parameters:
	//   - format: the surface texture format
	//
	// Returns:
	//   - wgpu.ColorTargetState: the color target with the configured write mask and no blending
	ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState

	// Validate reports whether the configuration is complete enough to create a GPU pipeline.
	//
	// Returns:
	//   - error: nil when the pipeline can be created
	Validate() error

	// SetRenderPipeline stores the created GPU pipeline, releasing any previous one.
	//
	// Parameters:
	//   - rp: the WebGPU render pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// Release releases the GPU pipeline if one was created.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline configuration. The defaults are a triangle list with no
// culling, counter-clockwise front faces, depth writes on and a less-equal depth test
// against a depth24plus-stencil8 attachment.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLessEqual,
		depthFormat:       DepthStencilFormat,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) PrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  p.topology,
		FrontFace: p.frontFace,
		CullMode:  p.cullMode,
	}
}

func (p *pipeline) DepthStencilState() *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            p.depthFormat,
		DepthWriteEnabled: p.depthWriteEnabled,
		DepthCompare:      p.depthCompare,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

func (p *pipeline) ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState {
	return wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.writeMask,
	}
}

func (p *pipeline) Validate() error {
	if p.shader == nil {
		return fmt.Errorf("pipeline %s: %w", p.pipelineKey, ErrNoShader)
	}
	for _, stage := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
		if p.shader.EntryPoint(stage) == "" {
			return fmt.Errorf("pipeline %s: %s stage: %w", p.pipelineKey, stage, shader.ErrMissingEntryPoint)
		}
	}
	return nil
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	if p.renderPipeline != nil && p.renderPipeline != rp {
		p.renderPipeline.Release()
	}
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
