// Package batch accumulates homogeneous primitives into CPU staging buffers
// and submits each batch with a single indexed draw call.
package batch

import (
	"fmt"

	"graphx/internal/gpu"
	"graphx/internal/profiling"
)

type state int

const (
	stateIdle state = iota
	stateRecording
	stateEnded
)

// Options configures a batch
type Options struct {
	// MaxPrimitives bounds the staging buffer: 4 vertices and 6 indices each
	MaxPrimitives int
	// TextureSlots is the number of simultaneously bound textures, including
	// the reserved white slot. Zero means MaxTextureImageUnits.
	TextureSlots int
	// White is bound to slot 0 for untextured primitives
	White  gpu.Texture
	Shader gpu.Shader
}

// Stats counts submitted work since the last ResetStats
type Stats struct {
	DrawCalls  int
	Primitives int
}

// Batch is the primitive-agnostic part of an accumulator: staging buffer,
// constant index pattern, texture slot table and the begin/end/flush cycle.
type Batch struct {
	name   string
	device gpu.Device
	shader gpu.Shader
	layout gpu.Layout

	maxPrimitives int
	floatsPerPrim int

	staging []float32
	indices []uint32

	vao gpu.VertexArray
	vbo gpu.VertexBuffer
	ibo gpu.IndexBuffer

	slots *TextureSlots

	count      int
	indexCount int32
	state      state
	stats      Stats
	released   bool
}

func newBatch(name string, device gpu.Device, layout gpu.Layout, opts Options) (*Batch, error) {
	if opts.MaxPrimitives <= 0 {
		return nil, fmt.Errorf("%s: max primitives must be positive, got %d", name, opts.MaxPrimitives)
	}
	if opts.TextureSlots == 0 {
		opts.TextureSlots = MaxTextureImageUnits
	}
	if opts.TextureSlots < 2 || opts.TextureSlots > MaxTextureImageUnits {
		return nil, fmt.Errorf("%s: texture slots must be in [2, %d], got %d", name, MaxTextureImageUnits, opts.TextureSlots)
	}
	if opts.White == nil || opts.Shader == nil {
		return nil, fmt.Errorf("%s: white texture and shader are required", name)
	}

	b := &Batch{
		name:          name,
		device:        device,
		shader:        opts.Shader,
		layout:        layout,
		maxPrimitives: opts.MaxPrimitives,
		floatsPerPrim: layout.Floats() * VerticesPerPrimitive,
		indices:       QuadIndices(opts.MaxPrimitives),
		slots:         NewTextureSlots(opts.TextureSlots, opts.White),
	}
	b.staging = make([]float32, b.maxPrimitives*b.floatsPerPrim)

	b.vao = device.NewVertexArray()
	b.vbo = device.NewVertexBuffer(len(b.staging) * 4)
	b.vao.AddVertexBuffer(b.vbo, layout)
	// The index pattern never changes, so it is uploaded once here.
	b.ibo = device.NewIndexBuffer(b.indices)
	b.vao.SetIndexBuffer(b.ibo)

	b.shader.Bind()
	b.shader.SetIntArray("u_Textures", SamplerUnits(opts.TextureSlots))

	return b, nil
}

// BeginBatch resets the write cursor and the texture slot cursor to 1.
// Calling it again before EndBatch is a programming error.
func (b *Batch) BeginBatch() {
	b.mustLive()
	if b.state == stateRecording {
		panic(b.name + ": BeginBatch called twice without EndBatch")
	}
	b.count = 0
	b.indexCount = 0
	b.slots.Reset()
	b.state = stateRecording
}

// IsFull reports whether the next primitive would exceed the vertex or index capacity
func (b *Batch) IsFull() bool {
	return b.count >= b.maxPrimitives
}

// EndBatch fixes the index count for the primitives written since BeginBatch
func (b *Batch) EndBatch() {
	if b.state != stateRecording {
		panic(b.name + ": EndBatch called without BeginBatch")
	}
	b.indexCount = int32(b.count * IndicesPerPrimitive)
	b.state = stateEnded
}

// Flush binds the occupied texture slots, uploads the staged vertices in one
// transfer and issues one indexed draw call. An empty batch draws nothing.
// The batch must be restarted with BeginBatch before accepting primitives.
func (b *Batch) Flush() {
	if b.state != stateEnded {
		panic(b.name + ": Flush called before EndBatch")
	}
	b.state = stateIdle
	if b.count == 0 {
		return
	}
	defer profiling.Track("batch.Flush")()

	b.shader.Bind()
	b.slots.Bind()

	b.vbo.Bind()
	b.vbo.SetData(b.staging[:b.count*b.floatsPerPrim])

	b.vao.Bind()
	b.device.DrawIndexed(gpu.Triangles, b.indexCount)
	b.vao.Unbind()

	b.stats.DrawCalls++
	b.stats.Primitives += b.count
	profiling.Count("renderer.DrawCalls", 1)
	profiling.Count("renderer.BatchedPrimitives", b.count)
}

// reserve claims the texture slot and staging space for one primitive. It
// returns ErrTextureSlotsFull without side effects when tex does not fit.
func (b *Batch) reserve(tex gpu.Texture) (float32, []float32, error) {
	if b.state != stateRecording {
		panic(b.name + ": primitive added outside BeginBatch/EndBatch")
	}
	if b.IsFull() {
		panic(b.name + ": primitive added to a full batch")
	}
	slot, err := b.slots.Assign(tex)
	if err != nil {
		return 0, nil, err
	}
	start := b.count * b.floatsPerPrim
	return float32(slot), b.staging[start : start+b.floatsPerPrim], nil
}

func (b *Batch) commit() { b.count++ }

func (b *Batch) mustLive() {
	if b.released {
		panic(b.name + ": used after Release")
	}
}

// Count returns the primitives written since BeginBatch
func (b *Batch) Count() int { return b.count }

// Capacity returns the maximum number of primitives per draw call
func (b *Batch) Capacity() int { return b.maxPrimitives }

// VertexCount returns the vertices written since BeginBatch
func (b *Batch) VertexCount() int { return b.count * VerticesPerPrimitive }

// IndexCount returns the index count computed by the last EndBatch
func (b *Batch) IndexCount() int32 { return b.indexCount }

// Slots exposes the texture slot table of the current batch
func (b *Batch) Slots() *TextureSlots { return b.slots }

// Recording reports whether the batch is between BeginBatch and EndBatch
func (b *Batch) Recording() bool { return b.state == stateRecording }

// Shader returns the program the batch draws with
func (b *Batch) Shader() gpu.Shader { return b.shader }

// Indices returns a copy of the constant index pattern
func (b *Batch) Indices() []uint32 {
	return append([]uint32(nil), b.indices...)
}

// Stats returns the work submitted since the last ResetStats
func (b *Batch) Stats() Stats { return b.stats }

// ResetStats zeroes the counters
func (b *Batch) ResetStats() { b.stats = Stats{} }

// Release frees the GPU buffers. The shader and white texture are not owned.
func (b *Batch) Release() {
	if b.released {
		return
	}
	b.released = true
	b.vao.Release()
	b.vbo.Release()
	b.ibo.Release()
}
