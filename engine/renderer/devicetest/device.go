// Package devicetest provides a recording renderer.Device for exercising render passes without a GPU.
package devicetest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PassRecord is one pass as the device saw it.
type PassRecord struct {
	Desc     renderer.PassDescriptor
	Viewport renderer.Viewport
	Draws    []renderer.DrawCommand
}

// BindGroupRecord is one CreateBindGroup call.
type BindGroupRecord struct {
	Pipeline string
	Group    int
	Res      renderer.BindGroupResources
	Provider bind_group_provider.BindGroupProvider
}

type writeKey struct {
	provider bind_group_provider.BindGroupProvider
	binding  int
}

// Device records every call made against it. GPU handles on returned targets and providers are nil.
type Device struct {
	mu *sync.Mutex

	width, height int
	viewport      renderer.Viewport

	pipelines  map[string]pipeline.Pipeline
	targets    []*renderer.Target
	bindGroups []BindGroupRecord
	meshes     []bind_group_provider.BindGroupProvider
	passes     []*PassRecord
	open       *PassRecord
	writes     map[writeKey][]byte
	writeCount int
}

var _ renderer.Device = &Device{}

// New creates a Device reporting the given framebuffer size.
func New(width, height int) *Device {
	d := &Device{
		mu:        &sync.Mutex{},
		pipelines: make(map[string]pipeline.Pipeline),
		writes:    make(map[writeKey][]byte),
	}
	d.Resize(width, height)
	return d
}

// Resize changes the reported size and resets the viewport.
func (d *Device) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = max(width, 1), max(height, 1)
	d.viewport = renderer.FullViewport(d.width, d.height)
}

func (d *Device) Size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

func (d *Device) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range pipelines {
		if p.Shader(shader.ShaderTypeVertex) == nil {
			return fmt.Errorf("pipeline %q: vertex shader must be set", p.PipelineKey())
		}
		if _, ok := d.pipelines[p.PipelineKey()]; !ok {
			d.pipelines[p.PipelineKey()] = p
		}
	}
	return nil
}

func (d *Device) Pipeline(key string) pipeline.Pipeline {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pipelines[key]
}

func (d *Device) CreateTarget(desc renderer.TargetDescriptor) (*renderer.Target, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := renderer.NewTarget(desc, false, nil, nil)
	d.targets = append(d.targets, t)
	return t, nil
}

func (d *Device) CreateCubeTarget(label string, size int, faces [6][]byte) (*renderer.Target, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	size = max(size, 1)
	for i, f := range faces {
		if len(f) != size*size*4 {
			return nil, fmt.Errorf("cube %q face %d: got %d bytes, want %d", label, i, len(f), size*size*4)
		}
	}
	t := renderer.NewTarget(renderer.TargetDescriptor{Label: label, Width: size, Height: size, Format: wgpu.TextureFormatRGBA8Unorm}, true, nil, nil)
	d.targets = append(d.targets, t)
	return t, nil
}

func (d *Device) CreateBindGroup(pipelineKey string, group int, res renderer.BindGroupResources) (bind_group_provider.BindGroupProvider, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pipelines[pipelineKey]
	if !ok {
		return nil, fmt.Errorf("pipeline %q not registered", pipelineKey)
	}
	desc, ok := p.BindGroupLayoutDescriptor(group)
	if !ok {
		return nil, fmt.Errorf("pipeline %q declares no group %d", pipelineKey, group)
	}

	label := fmt.Sprintf("%s/%d", pipelineKey, group)
	provider := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithGroup(group))
	for _, entry := range desc.Entries {
		binding := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			if res.Textures[binding] == nil {
				return nil, fmt.Errorf("%s: texture binding %d has no target", label, binding)
			}
			provider.SetTextureView(binding, nil, true)
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			provider.SetSampler(binding, nil)
		default:
			size := entry.Buffer.MinBindingSize
			if override, ok := res.BufferSizes[binding]; ok {
				size = override
			}
			if size == 0 {
				return nil, fmt.Errorf("%s: buffer binding %d has no size", label, binding)
			}
			provider.SetBuffer(binding, nil, size)
		}
	}
	d.bindGroups = append(d.bindGroups, BindGroupRecord{Pipeline: pipelineKey, Group: group, Res: res, Provider: provider})
	return provider, nil
}

func (d *Device) CreateMesh(label string, vertices []byte, vertexCount int, indices []uint32) (bind_group_provider.BindGroupProvider, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(vertices) == 0 {
		return nil, errors.New("mesh has no vertices")
	}
	m := bind_group_provider.NewBindGroupProvider(label)
	m.SetVertexBuffer(nil, vertexCount)
	m.SetIndexBuffer(nil, len(indices))
	d.meshes = append(d.meshes, m)
	return m, nil
}

func (d *Device) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range writes {
		if w.Provider == nil {
			continue
		}
		size := w.Provider.BufferSize(w.Binding)
		if size == 0 {
			continue
		}
		k := writeKey{provider: w.Provider, binding: w.Binding}
		buf := d.writes[k]
		if uint64(len(buf)) < size {
			grown := make([]byte, size)
			copy(grown, buf)
			buf = grown
		}
		if w.Offset < size {
			copy(buf[w.Offset:], w.Data)
		}
		d.writes[k] = buf
		d.writeCount++
	}
}

func (d *Device) Viewport() renderer.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport
}

func (d *Device) SetViewport(v renderer.Viewport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewport = v
	if d.open != nil {
		d.open.Viewport = v
	}
}

func (d *Device) BeginPass(desc renderer.PassDescriptor) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open != nil {
		return fmt.Errorf("begin pass %q while %q is open", desc.Label, d.open.Desc.Label)
	}
	if !desc.Surface && len(desc.Color) == 0 && desc.Depth == nil {
		return fmt.Errorf("pass %q has no attachments", desc.Label)
	}
	d.open = &PassRecord{Desc: desc, Viewport: d.viewport}
	d.passes = append(d.passes, d.open)
	return nil
}

func (d *Device) Draw(cmd renderer.DrawCommand) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open == nil {
		return errors.New("draw outside of a pass")
	}
	if _, ok := d.pipelines[cmd.Pipeline]; !ok {
		return fmt.Errorf("pipeline %q not registered", cmd.Pipeline)
	}
	d.open.Draws = append(d.open.Draws, cmd)
	return nil
}

func (d *Device) EndPass() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = nil
}

// Passes returns every pass begun so far, in order.
func (d *Device) Passes() []*PassRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*PassRecord(nil), d.passes...)
}

// PassLabels returns the labels of every pass begun so far, in order.
func (d *Device) PassLabels() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	labels := make([]string, len(d.passes))
	for i, p := range d.passes {
		labels[i] = p.Desc.Label
	}
	return labels
}

// ResetPasses forgets recorded passes, keeping pipelines and resources.
func (d *Device) ResetPasses() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.passes = nil
	d.open = nil
}

// InPass reports whether a pass is open.
func (d *Device) InPass() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open != nil
}

// Targets returns every target created so far.
func (d *Device) Targets() []*renderer.Target {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*renderer.Target(nil), d.targets...)
}

// BindGroups returns every bind group created so far.
func (d *Device) BindGroups() []BindGroupRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]BindGroupRecord(nil), d.bindGroups...)
}

// Meshes returns every mesh created so far.
func (d *Device) Meshes() []bind_group_provider.BindGroupProvider {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bind_group_provider.BindGroupProvider(nil), d.meshes...)
}

// Written returns the accumulated contents of a provider's buffer, or nil if nothing was written.
func (d *Device) Written(provider bind_group_provider.BindGroupProvider, binding int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes[writeKey{provider: provider, binding: binding}]
}

// WriteCount returns the number of buffer writes applied.
func (d *Device) WriteCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeCount
}
