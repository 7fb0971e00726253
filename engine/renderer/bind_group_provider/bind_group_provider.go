package bind_group_provider

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	label      string
	visibility wgpu.ShaderStage

	// GPU resources below are populated by the renderer backend and released by Release.

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer
	sizes           map[int]uint64
}

// BindGroupProvider owns the uniform buffers of one bind group together with the group and
// its layout. The renderer creates the GPU objects and stores them here; draw calls read BindGroup.
//
// Usage pattern:
//  1. Renderer creates a provider named after the uniform block, e.g. "Params"
//  2. Renderer creates the layout from LayoutDescriptor, then the buffers and the bind group
//  3. Per frame, Stage turns the packed parameter bytes into a BufferWrite
//  4. Draw calls bind BindGroup()
type BindGroupProvider interface {
	// Release releases the bind group, its layout and every buffer.
	Release()

	// Label returns the uniform block name the provider was created for.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Ready reports whether the layout, at least one buffer and the bind group are all set.
	//
	// Returns:
	//   - bool: true when the group can be bound
	Ready() bool

	// LayoutDescriptor describes a layout with one uniform entry per binding size.
	//
	// Parameters:
	//   - sizes: the minimum binding size of each entry, keyed by binding index
	//
	// Returns:
	//   - *wgpu.BindGroupLayoutDescriptor: the descriptor, entries sorted by binding
	LayoutDescriptor(sizes map[int]uint64) *wgpu.BindGroupLayoutDescriptor

	// BindGroup returns the created bind group, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created with, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Size returns the allocated size of the buffer at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the size in bytes, 0 when no buffer is set
	Size(binding int) uint64

	// Stage prepares a write of data to the start of a binding's buffer. Data longer than the
	// buffer is cut to the buffer size.
	//
	// Parameters:
	//   - binding: the binding index
	//   - data: the bytes to upload
	//
	// Returns:
	//   - BufferWrite: the write
	//   - bool: false when there is nothing to write or no buffer at the binding
	Stage(binding int, data []byte) (BufferWrite, bool)

	// SetBindGroup sets the bind group.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout.
	//
	// Parameters:
	//   - bgl: the bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores a buffer at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	//   - size: the size the buffer was created with
	SetBuffer(binding int, buf *wgpu.Buffer, size uint64)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider visible to the vertex and fragment stages.
//
// Parameters:
//   - label: the uniform block name, also used in GPU object labels
//   - options: functional options
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:      label,
		visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		buffers:    make(map[int]*wgpu.Buffer),
		sizes:      make(map[int]uint64),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for binding, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, binding)
		delete(p.sizes, binding)
	}
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Ready() bool {
	return p.bindGroupLayout != nil && p.bindGroup != nil && len(p.buffers) > 0
}

func (p *bindGroupProvider) LayoutDescriptor(sizes map[int]uint64) *wgpu.BindGroupLayoutDescriptor {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(sizes))
	for binding := 0; len(entries) < len(sizes); binding++ {
		size, ok := sizes[binding]
		if !ok {
			continue
		}
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: p.visibility,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: size,
			},
		})
	}
	return &wgpu.BindGroupLayoutDescriptor{
		Label:   fmt.Sprintf("%s Bind Group Layout", p.label),
		Entries: entries,
	}
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Size(binding int) uint64 {
	return p.sizes[binding]
}

func (p *bindGroupProvider) Stage(binding int, data []byte) (BufferWrite, bool) {
	size, ok := p.sizes[binding]
	if !ok || len(data) == 0 {
		return BufferWrite{}, false
	}
	if uint64(len(data)) > size {
		data = data[:size]
	}
	return BufferWrite{Provider: p, Binding: binding, Data: data}, true
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer, size uint64) {
	p.buffers[binding] = buf
	p.sizes[binding] = size
}
