package gputest

import (
	"graphx/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexArray records binds against its device
type VertexArray struct {
	dev      *Device
	id       uint32
	Buffers  []*VertexBuffer
	Layouts  []gpu.Layout
	Index    *IndexBuffer
	Released int
}

func (v *VertexArray) ID() uint32 { return v.id }

func (v *VertexArray) Bind() {
	v.dev.BoundArray = v.id
	v.dev.record(Call{Op: OpBindArray, ID: v.id})
}

func (v *VertexArray) Unbind() {
	v.dev.BoundArray = 0
	v.dev.record(Call{Op: OpUnbindArray, ID: v.id})
}

func (v *VertexArray) AddVertexBuffer(vb gpu.VertexBuffer, layout gpu.Layout) {
	v.Buffers = append(v.Buffers, vb.(*VertexBuffer))
	v.Layouts = append(v.Layouts, layout)
}

func (v *VertexArray) SetIndexBuffer(ib gpu.IndexBuffer) {
	v.Index = ib.(*IndexBuffer)
}

func (v *VertexArray) Release() { v.Released++ }

// VertexBuffer keeps the last uploaded data
type VertexBuffer struct {
	dev      *Device
	id       uint32
	Capacity int
	Dynamic  bool
	Data     []float32
	Uploads  int
	Released int
}

func (b *VertexBuffer) ID() uint32 { return b.id }

func (b *VertexBuffer) Bind() { b.dev.record(Call{Op: OpBindBuffer, ID: b.id}) }

func (b *VertexBuffer) Unbind() {}

func (b *VertexBuffer) SetData(data []float32) {
	if len(data)*4 > b.Capacity {
		panic("gputest: vertex upload exceeds buffer capacity")
	}
	b.Data = append(b.Data[:0], data...)
	b.Uploads++
	b.dev.record(Call{Op: OpSetData, ID: b.id, Count: int32(len(data))})
}

func (b *VertexBuffer) Release() { b.Released++ }

// IndexBuffer keeps its immutable contents
type IndexBuffer struct {
	dev      *Device
	id       uint32
	Indices  []uint32
	Uploads  int
	Released int
}

func (b *IndexBuffer) ID() uint32   { return b.id }
func (b *IndexBuffer) Bind()        {}
func (b *IndexBuffer) Unbind()      {}
func (b *IndexBuffer) Count() int32 { return int32(len(b.Indices)) }
func (b *IndexBuffer) Release()     { b.Released++ }

// Texture records slot binds
type Texture struct {
	dev      *Device
	id       uint32
	Slot     uint32
	Released int
}

func (t *Texture) ID() uint32 { return t.id }

func (t *Texture) Bind(slot uint32) {
	t.Slot = slot
	t.dev.record(Call{Op: OpBindTexture, ID: t.id, Slot: slot})
}

func (t *Texture) Unbind() { t.dev.record(Call{Op: OpUnbindTexture, ID: t.id}) }

func (t *Texture) Release() { t.Released++ }

// FrameBuffer records binds
type FrameBuffer struct {
	dev           *Device
	id            uint32
	width, height int32
	Released      int
}

func (f *FrameBuffer) Bind()   { f.dev.record(Call{Op: OpBindFrame, ID: f.id}) }
func (f *FrameBuffer) Unbind() { f.dev.record(Call{Op: OpUnbindFrame, ID: f.id}) }

func (f *FrameBuffer) BindDepthMap(slot uint32) {
	f.dev.record(Call{Op: OpBindTexture, ID: f.id, Slot: slot})
}

func (f *FrameBuffer) Size() (int32, int32) { return f.width, f.height }
func (f *FrameBuffer) Release()             { f.Released++ }

// Shader stores the latest value of every uniform and records each set
type Shader struct {
	dev      *Device
	id       uint32
	Name     string
	Uniforms map[string]any
	Released int
}

// NewShader creates a shader recording into d
func NewShader(d *Device, name string) *Shader {
	return &Shader{dev: d, id: d.id(), Name: name, Uniforms: make(map[string]any)}
}

func (s *Shader) ID() uint32 { return s.id }
func (s *Shader) Bind()      { s.dev.record(Call{Op: OpBindShader, ID: s.id}) }
func (s *Shader) Unbind()    { s.dev.record(Call{Op: OpUnbindShader, ID: s.id}) }
func (s *Shader) Release()   { s.Released++ }

func (s *Shader) set(name string, v any) {
	s.Uniforms[name] = v
	s.dev.record(Call{Op: OpUniform, ID: s.id, Name: name, Value: v})
}

func (s *Shader) SetInt(name string, v int32) { s.set(name, v) }

func (s *Shader) SetIntArray(name string, v []int32) {
	s.set(name, append([]int32(nil), v...))
}

func (s *Shader) SetFloat(name string, v float32)   { s.set(name, v) }
func (s *Shader) SetVec2i(name string, x, y int32)  { s.set(name, [2]int32{x, y}) }
func (s *Shader) SetVec3(name string, v mgl32.Vec3) { s.set(name, v) }
func (s *Shader) SetVec4(name string, v mgl32.Vec4) { s.set(name, v) }
func (s *Shader) SetMat3(name string, m mgl32.Mat3) { s.set(name, m) }
func (s *Shader) SetMat4(name string, m mgl32.Mat4) { s.set(name, m) }
