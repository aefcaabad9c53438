package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/tri-go/common"
	"github.com/Carmen-Shannon/tri-go/engine/model"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/material"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/tri-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceFormat is the preferred swapchain format. The first reported format is used when it is unsupported.
const SurfaceFormat = wgpu.TextureFormatRGBA8Unorm

var errNoFrame = errors.New("no frame in progress")

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	surfaceDescriptor    *wgpu.SurfaceDescriptor
	forceFallbackAdapter bool
	presentMode          wgpu.PresentMode

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat

	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	provider       bind_group_provider.BindGroupProvider
	shaderModule   *wgpu.ShaderModule
	pipelineLayout *wgpu.PipelineLayout
	pipeline       pipeline.Pipeline

	// Frame state between BeginFrame and EndFrame
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ Backend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) *wgpuRendererBackendImpl {
	return &wgpuRendererBackendImpl{
		mu:                   &sync.Mutex{},
		surfaceDescriptor:    surfaceDescriptor,
		forceFallbackAdapter: forceFallbackAdapter,
		presentMode:          wgpu.PresentModeFifo,
	}
}

func (b *wgpuRendererBackendImpl) AcquireDevice(width, height int, mode PresentMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceDescriptor == nil {
		return errors.New("window has no surface descriptor")
	}

	b.instance = wgpu.CreateInstance(nil)
	if b.instance == nil {
		return errors.New("failed to create wgpu instance")
	}
	b.surface = b.instance.CreateSurface(b.surfaceDescriptor)
	if b.surface == nil {
		return errors.New("failed to create surface")
	}

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}

	return b.configureSurface(width, height)
}

// configureSurface picks the surface format, alpha and present modes from the adapter's
// capabilities and (re)configures the surface. Callers hold b.mu.
func (b *wgpuRendererBackendImpl) configureSurface(width, height int) error {
	capabilities := b.surface.GetCapabilities(b.adapter)

	format, ok := common.PickSupported(capabilities.Formats, SurfaceFormat)
	if !ok {
		return errors.New("surface reports no supported formats")
	}
	alphaMode, ok := common.PickSupported(capabilities.AlphaModes, wgpu.CompositeAlphaModeOpaque)
	if !ok {
		return errors.New("surface reports no supported alpha modes")
	}
	// FIFO is always supported, so an unsupported immediate mode falls back to it.
	presentMode := wgpu.PresentModeFifo
	for _, m := range capabilities.PresentModes {
		if m == b.presentMode {
			presentMode = m
			break
		}
	}
	b.surfaceFormat = format

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: presentMode,
		AlphaMode:   alphaMode,
	})
	return nil
}

func (b *wgpuRendererBackendImpl) LoadAssets(mesh model.Mesh, mat material.Material) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexData := mesh.Marshal()
	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: mesh.Label() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("vertex buffer: %w", err)
	}
	b.queue.WriteBuffer(vb, 0, vertexData)
	if b.provider != nil {
		b.provider.Release()
	}
	b.provider = bind_group_provider.NewBindGroupProvider(mesh.Label(), bind_group_provider.WithVertexBuffer(vb, mesh.VertexCount()))

	staging, err := mat.TextureStaging()
	if err != nil {
		return err
	}
	if err := b.initTexture(bind_group_provider.BindingTexture, staging); err != nil {
		return fmt.Errorf("texture: %w", err)
	}
	if err := b.initSampler(bind_group_provider.BindingSampler, mat.SamplerStaging()); err != nil {
		return fmt.Errorf("sampler: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) initTexture(binding int, stagingData common.TextureStagingData) error {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     b.provider.Label() + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	b.provider.SetTexture(binding, tex, view)
	return nil
}

func (b *wgpuRendererBackendImpl) initSampler(binding int, s common.SamplerStagingData) error {
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         b.provider.Label() + " Sampler",
		AddressModeU:  s.AddressModeU,
		AddressModeV:  s.AddressModeV,
		AddressModeW:  s.AddressModeW,
		MagFilter:     s.MagFilter,
		MinFilter:     s.MinFilter,
		MipmapFilter:  s.MipmapFilter,
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   s.LodMaxClamp,
		MaxAnisotropy: s.MaxAnisotropy,
	})
	if err != nil {
		return err
	}
	b.provider.SetSampler(binding, samp)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateDepthStencil(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createDepthStencil(width, height)
}

// createDepthStencil replaces the depth-stencil attachment. Callers hold b.mu.
func (b *wgpuRendererBackendImpl) createDepthStencil(width, height int) error {
	b.releaseDepthStencil()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Stencil Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        pipeline.DepthStencilFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	b.depthTexture = tex
	b.depthTextureView = view
	return nil
}

func (b *wgpuRendererBackendImpl) releaseDepthStencil() {
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) CreatePipeline(p pipeline.Pipeline, layout wgpu.BindGroupLayoutDescriptor, capacity int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.provider == nil {
		return errors.New("assets not loaded")
	}

	uniform, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: b.provider.Label() + " Camera Uniform",
		Size:  bind_group_provider.CameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("uniform buffer: %w", err)
	}
	b.provider.SetBuffer(bind_group_provider.BindingCamera, uniform)

	storage, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: b.provider.Label() + " Transforms",
		Size:  bind_group_provider.TransformBufferSize(capacity),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("storage buffer: %w", err)
	}
	b.provider.SetBuffer(bind_group_provider.BindingTransform, storage)

	if missing := b.provider.Missing(layout); len(missing) > 0 {
		return fmt.Errorf("bindings %v have no resource", missing)
	}

	bindGroupLayout, err := b.device.CreateBindGroupLayout(&layout)
	if err != nil {
		return fmt.Errorf("bind group layout: %w", err)
	}
	b.provider.SetBindGroupLayout(bindGroupLayout)

	entries := make([]wgpu.BindGroupEntry, len(layout.Entries))
	for i, entry := range layout.Entries {
		binding := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: b.provider.TextureView(binding)}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: b.provider.Sampler(binding)}
		default:
			entries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  b.provider.Buffer(binding),
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   b.provider.Label() + " Bind Group",
		Layout:  bindGroupLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("bind group: %w", err)
	}
	b.provider.SetBindGroup(bindGroup)

	s := p.Shader()
	module, err := b.device.CreateShaderModule(s.Module())
	if err != nil {
		return fmt.Errorf("shader module %s: %w", s.Key(), err)
	}
	b.shaderModule = module

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}
	b.pipelineLayout = pipelineLayout

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: s.EntryPoint(shader.ShaderTypeVertex),
			Buffers:    []wgpu.VertexBufferLayout{model.VertexBufferLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: s.EntryPoint(shader.ShaderTypeFragment),
			Targets:    []wgpu.ColorTargetState{p.ColorTarget(b.surfaceFormat)},
		},
		Primitive: p.PrimitiveState(),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: p.DepthStencilState(),
	})
	if err != nil {
		return fmt.Errorf("render pipeline: %w", err)
	}
	p.SetRenderPipeline(created)
	b.pipeline = p

	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		if len(w.Data) == 0 {
			continue
		}
		buf := b.provider.Buffer(w.Binding)
		if buf == nil {
			return fmt.Errorf("binding %d has no buffer", w.Binding)
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) BeginFrame(clear wgpu.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A held surface texture means the previous frame was never presented; acquiring another
	// one fails in wgpu-native with "Surface image is already acquired".
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clear,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              b.depthTextureView,
			DepthLoadOp:       wgpu.LoadOpClear,
			DepthStoreOp:      wgpu.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     wgpu.LoadOpClear,
			StencilStoreOp:    wgpu.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) Draw(instanceCount uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errNoFrame
	}
	if b.pipeline == nil || b.pipeline.RenderPipeline() == nil {
		return errors.New("render pipeline not created")
	}

	b.framePass.SetPipeline(b.pipeline.RenderPipeline())
	b.framePass.SetBindGroup(0, b.provider.BindGroup(), nil)
	b.framePass.SetVertexBuffer(0, b.provider.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.Draw(uint32(b.provider.VertexCount()), instanceCount, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errNoFrame
	}
	defer b.releaseFrame()

	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) AbortFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass != nil {
		b.framePass.End()
		b.framePass = nil
	}
	b.releaseFrame()
}

// releaseFrame drops the references acquired by BeginFrame. Callers hold b.mu.
func (b *wgpuRendererBackendImpl) releaseFrame() {
	b.framePass = nil
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Resize(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return nil
	}
	if err := b.configureSurface(width, height); err != nil {
		return err
	}
	if b.depthTexture == nil {
		return nil
	}
	return b.createDepthStencil(width, height)
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseFrame()

	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
	if b.shaderModule != nil {
		b.shaderModule.Release()
		b.shaderModule = nil
	}
	if b.provider != nil {
		b.provider.Release()
		b.provider = nil
	}
	b.releaseDepthStencil()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
