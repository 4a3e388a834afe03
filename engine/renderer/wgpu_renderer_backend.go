package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	width, height int

	presentMode wgpu.PresentMode

	// bind group layouts per pipeline key, indexed by group
	layouts map[string][]*wgpu.BindGroupLayout

	// one encoder per frame; passes are recorded into it in order
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	passWidth    float32
	passHeight   float32
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		layouts:     make(map[string][]*wgpu.BindGroupLayout),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]
	b.width, b.height = width, height

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	if vertexShader == nil {
		return errors.New("vertex shader must be set to create a render pipeline")
	}
	fragmentShader := p.Shader(shader.ShaderTypeFragment)

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: vertexShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexShader.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("vertex module %q: %w", vertexShader.Key(), err)
	}

	merged := p.BindGroupLayoutDescriptors()
	maxGroup := -1
	for g := range merged {
		maxGroup = max(maxGroup, g)
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := 0; g <= maxGroup; g++ {
		desc, ok := merged[g]
		if !ok {
			desc = wgpu.BindGroupLayoutDescriptor{Label: fmt.Sprintf("%s empty group %d", p.PipelineKey(), g)}
		}
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}

	var fragment *wgpu.FragmentState
	if fragmentShader != nil {
		fs, fsErr := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label: fragmentShader.Key(),
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: fragmentShader.Source(),
			},
		})
		if fsErr != nil {
			return fmt.Errorf("fragment module %q: %w", fragmentShader.Key(), fsErr)
		}
		targets := make([]wgpu.ColorTargetState, 0, len(p.ColorFormats()))
		for _, format := range p.ColorFormats() {
			if format == pipeline.SurfaceFormat {
				format = b.surfaceFormat
			}
			state := wgpu.ColorTargetState{
				Format:    format,
				WriteMask: p.WriteMask(),
			}
			if p.BlendEnabled() {
				state.Blend = p.BlendState()
			}
			targets = append(targets, state)
		}
		fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    targets,
		}
	}

	var depthStencil *wgpu.DepthStencilState
	if p.DepthFormat() != wgpu.TextureFormatUndefined {
		depthStencil = &wgpu.DepthStencilState{
			Format:              p.DepthFormat(),
			DepthWriteEnabled:   p.DepthWriteEnabled(),
			DepthCompare:        p.DepthCompare(),
			DepthBias:           p.DepthBias(),
			DepthBiasSlopeScale: p.DepthBiasSlopeScale(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: fragment,
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil,
	})
	if err != nil {
		return err
	}

	b.layouts[p.PipelineKey()] = bindGroupLayouts
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateTarget(desc TargetDescriptor) (*Target, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        desc.Format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("create target %q: %w", desc.Label, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create target view %q: %w", desc.Label, err)
	}
	return NewTarget(desc, false, tex, view), nil
}

func (b *wgpuRendererBackendImpl) CreateCubeTarget(label string, size int, faces [6][]byte) (*Target, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	edge := uint32(size)
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              edge,
			Height:             edge,
			DepthOrArrayLayers: 6,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create cube %q: %w", label, err)
	}

	for i, pixels := range faces {
		if len(pixels) != int(edge*edge*4) {
			tex.Release()
			return nil, fmt.Errorf("cube %q face %d: got %d bytes, want %d", label, i, len(pixels), edge*edge*4)
		}
		b.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{Z: uint32(i)},
				Aspect:   wgpu.TextureAspectAll,
			},
			pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  edge * 4,
				RowsPerImage: edge,
			},
			&wgpu.Extent3D{
				Width:              edge,
				Height:             edge,
				DepthOrArrayLayers: 1,
			},
		)
	}

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           label + " View",
		Format:          wgpu.TextureFormatRGBA8Unorm,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 6,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create cube view %q: %w", label, err)
	}
	return NewTarget(TargetDescriptor{Label: label, Width: size, Height: size, Format: wgpu.TextureFormatRGBA8Unorm}, true, tex, view), nil
}

func (b *wgpuRendererBackendImpl) CreateBindGroup(p pipeline.Pipeline, group int, res BindGroupResources) (bind_group_provider.BindGroupProvider, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	descriptor, ok := p.BindGroupLayoutDescriptor(group)
	if !ok {
		return nil, fmt.Errorf("pipeline %q declares no group %d", p.PipelineKey(), group)
	}
	layouts := b.layouts[p.PipelineKey()]
	if group >= len(layouts) || layouts[group] == nil {
		return nil, fmt.Errorf("pipeline %q group %d has no layout", p.PipelineKey(), group)
	}

	label := fmt.Sprintf("%s/%d", p.PipelineKey(), group)
	provider := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithGroup(group))
	provider.SetBindGroupLayout(layouts[group])

	fail := func(err error) (bind_group_provider.BindGroupProvider, error) {
		provider.Release()
		return nil, err
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
		isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined

		switch {
		case isTexture:
			target := res.Textures[binding]
			if target == nil || target.View() == nil {
				return fail(fmt.Errorf("%s: texture binding %d has no target", label, binding))
			}
			provider.SetTextureView(binding, target.View(), true)
			entries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: target.View(),
			}
		case isSampler:
			staging, ok := res.Samplers[binding]
			if !ok {
				staging = LinearClampSampler
			}
			samp, err := b.createSampler(label, staging)
			if err != nil {
				return fail(err)
			}
			provider.SetSampler(binding, samp)
			entries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		default:
			var usage wgpu.BufferUsage
			switch entry.Buffer.Type {
			case wgpu.BufferBindingTypeUniform:
				usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
			default:
				usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
			}
			size := entry.Buffer.MinBindingSize
			if override, ok := res.BufferSizes[binding]; ok {
				size = override
			}
			if size == 0 {
				return fail(fmt.Errorf("%s: buffer binding %d has no size", label, binding))
			}
			buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: label + " Buffer",
				Size:  size,
				Usage: usage,
			})
			if err != nil {
				return fail(err)
			}
			provider.SetBuffer(binding, buf, size)
			entries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label + " Bind Group",
		Layout:  layouts[group],
		Entries: entries,
	})
	if err != nil {
		return fail(err)
	}
	provider.SetBindGroup(bindGroup)
	return provider, nil
}

func (b *wgpuRendererBackendImpl) createSampler(label string, staging SamplerStagingData) (*wgpu.Sampler, error) {
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(staging.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
		Compare:       staging.Compare,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler %q: %w", label, err)
	}
	return samp, nil
}

func (b *wgpuRendererBackendImpl) CreateMesh(label string, vertices []byte, vertexCount int, indices []uint32) (bind_group_provider.BindGroupProvider, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	provider := bind_group_provider.NewBindGroupProvider(label)
	if len(vertices) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            label + " Vertex Buffer",
			Size:             uint64(len(vertices)),
			Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return nil, err
		}
		b.queue.WriteBuffer(buf, 0, vertices)
		provider.SetVertexBuffer(buf, vertexCount)
	}

	if len(indices) > 0 {
		data := common.SliceToBytes(indices)
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            label + " Index Buffer",
			Size:             uint64(len(data)),
			Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			provider.Release()
			return nil, err
		}
		b.queue.WriteBuffer(buf, 0, data)
		provider.SetIndexBuffer(buf, len(indices))
	}
	return provider, nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		if w.Provider == nil || len(w.Data) == 0 {
			continue
		}
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		// never write past the allocation; storage arrays are sized at creation
		end := w.Offset + uint64(len(w.Data))
		if size := w.Provider.BufferSize(w.Binding); end > size {
			if w.Offset >= size {
				continue
			}
			w.Data = w.Data[:size-w.Offset]
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
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

	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) BeginPass(desc PassDescriptor, viewport Viewport) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return errors.New("begin pass outside of a frame")
	}
	if b.framePass != nil {
		return errors.New("begin pass while another pass is open")
	}

	rp := &wgpu.RenderPassDescriptor{Label: desc.Label}
	width, height := 0, 0
	if desc.Surface {
		rp.ColorAttachments = append(rp.ColorAttachments, wgpu.RenderPassColorAttachment{
			View:       b.frameView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: desc.ClearColor,
		})
		width, height = b.width, b.height
	}
	for _, t := range desc.Color {
		rp.ColorAttachments = append(rp.ColorAttachments, wgpu.RenderPassColorAttachment{
			View:       t.View(),
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: desc.ClearColor,
		})
		if width == 0 {
			width, height = t.Width(), t.Height()
		}
	}
	if desc.Depth != nil {
		rp.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            desc.Depth.View(),
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: desc.ClearDepth,
		}
		if width == 0 {
			width, height = desc.Depth.Width(), desc.Depth.Height()
		}
	}
	if width == 0 {
		return fmt.Errorf("pass %q has no attachments", desc.Label)
	}

	b.framePass = b.frameEncoder.BeginRenderPass(rp)
	b.passWidth, b.passHeight = float32(width), float32(height)
	b.applyViewport(viewport)
	return nil
}

// applyViewport clips v to the open pass's attachment.
func (b *wgpuRendererBackendImpl) applyViewport(v Viewport) {
	x := common.Clamp(v.X, 0, b.passWidth-1)
	y := common.Clamp(v.Y, 0, b.passHeight-1)
	w := common.Clamp(v.Width, 1, b.passWidth-x)
	h := common.Clamp(v.Height, 1, b.passHeight-y)
	b.framePass.SetViewport(x, y, w, h, 0, 1)
}

func (b *wgpuRendererBackendImpl) SetViewport(v Viewport) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.framePass != nil {
		b.applyViewport(v)
	}
}

func (b *wgpuRendererBackendImpl) Draw(p pipeline.Pipeline, cmd DrawCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("draw outside of a pass")
	}
	if p.Pipeline() == nil {
		return fmt.Errorf("pipeline %q has no GPU object", p.PipelineKey())
	}

	b.framePass.SetPipeline(p.Pipeline())
	for i, bg := range cmd.BindGroups {
		if bg == nil || bg.BindGroup() == nil {
			return fmt.Errorf("pipeline %q: bind group %d is not initialized", p.PipelineKey(), i)
		}
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}

	mesh := cmd.Mesh
	switch {
	case mesh == nil:
		b.framePass.Draw(cmd.VertexCount, cmd.Instances(), 0, cmd.FirstInstance)
	case mesh.IndexBuffer() != nil:
		b.framePass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, wgpu.WholeSize)
		b.framePass.SetIndexBuffer(mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		b.framePass.DrawIndexed(uint32(mesh.IndexCount()), cmd.Instances(), 0, 0, cmd.FirstInstance)
	default:
		b.framePass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, wgpu.WholeSize)
		b.framePass.Draw(uint32(mesh.VertexCount()), cmd.Instances(), 0, cmd.FirstInstance)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) EndPass() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return nil
	}
	if b.framePass != nil {
		b.framePass.End()
		b.framePass = nil
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.releaseSurfaceLocked()
		return fmt.Errorf("finish frame: %w", err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseSurfaceLocked()
}

func (b *wgpuRendererBackendImpl) releaseSurfaceLocked() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseSurfaceLocked()
	for key, layouts := range b.layouts {
		for _, l := range layouts {
			if l != nil {
				l.Release()
			}
		}
		delete(b.layouts, key)
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
