package graphics

import (
	"graphx/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// VertexBuffer is a GL array buffer
type VertexBuffer struct {
	id       uint32
	size     int
	released bool
}

// NewVertexBuffer allocates a dynamic buffer of sizeBytes for per-frame uploads
func NewVertexBuffer(sizeBytes int) *VertexBuffer {
	vb := &VertexBuffer{size: sizeBytes}
	gl.GenBuffers(1, &vb.id)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	gl.BufferData(gl.ARRAY_BUFFER, sizeBytes, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vb
}

// NewStaticVertexBuffer uploads data once
func NewStaticVertexBuffer(data []float32) *VertexBuffer {
	vb := &VertexBuffer{size: len(data) * 4}
	gl.GenBuffers(1, &vb.id)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, vb.size, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vb
}

func (b *VertexBuffer) Bind()   { gl.BindBuffer(gl.ARRAY_BUFFER, b.id) }
func (b *VertexBuffer) Unbind() { gl.BindBuffer(gl.ARRAY_BUFFER, 0) }

// SetData replaces the start of the buffer with data. The buffer must be bound.
func (b *VertexBuffer) SetData(data []float32) {
	if len(data) == 0 {
		return
	}
	n := len(data) * 4
	if n > b.size {
		panic("graphics: vertex upload exceeds buffer size")
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n, gl.Ptr(data))
}

func (b *VertexBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	gl.DeleteBuffers(1, &b.id)
}

// IndexBuffer is an immutable GL element buffer of uint32 indices
type IndexBuffer struct {
	id       uint32
	count    int32
	released bool
}

func NewIndexBuffer(indices []uint32) *IndexBuffer {
	ib := &IndexBuffer{count: int32(len(indices))}
	gl.GenBuffers(1, &ib.id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	return ib
}

func (b *IndexBuffer) Bind()        { gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.id) }
func (b *IndexBuffer) Unbind()      { gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0) }
func (b *IndexBuffer) Count() int32 { return b.count }

func (b *IndexBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	gl.DeleteBuffers(1, &b.id)
}

// VertexArray records attribute bindings. Attribute locations continue
// across vertex buffers in the order they are added.
type VertexArray struct {
	id       uint32
	next     uint32
	released bool
}

func NewVertexArray() *VertexArray {
	va := &VertexArray{}
	gl.GenVertexArrays(1, &va.id)
	return va
}

func (v *VertexArray) Bind()   { gl.BindVertexArray(v.id) }
func (v *VertexArray) Unbind() { gl.BindVertexArray(0) }

func (v *VertexArray) AddVertexBuffer(vb gpu.VertexBuffer, layout gpu.Layout) {
	gl.BindVertexArray(v.id)
	vb.Bind()
	for _, e := range layout.Elements {
		gl.EnableVertexAttribArray(v.next)
		if e.Type == gpu.Int {
			gl.VertexAttribIPointer(v.next, e.Type.Components(), gl.INT, layout.Stride, gl.PtrOffset(int(e.Offset)))
		} else {
			gl.VertexAttribPointer(v.next, e.Type.Components(), gl.FLOAT, e.Normalized, layout.Stride, gl.PtrOffset(int(e.Offset)))
		}
		v.next++
	}
	gl.BindVertexArray(0)
}

// SetIndexBuffer attaches ib; the element binding is stored in the vertex array
func (v *VertexArray) SetIndexBuffer(ib gpu.IndexBuffer) {
	gl.BindVertexArray(v.id)
	ib.Bind()
	gl.BindVertexArray(0)
}

func (v *VertexArray) Release() {
	if v.released {
		return
	}
	v.released = true
	gl.DeleteVertexArrays(1, &v.id)
}

var (
	_ gpu.VertexBuffer = (*VertexBuffer)(nil)
	_ gpu.IndexBuffer  = (*IndexBuffer)(nil)
	_ gpu.VertexArray  = (*VertexArray)(nil)
)
