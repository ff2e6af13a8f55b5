// Package gputest provides a recording gpu.Device for tests that run without
// a graphics context.
package gputest

import (
	"fmt"

	"graphx/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Op names recorded by the fake device
const (
	OpDrawIndexed   = "DrawIndexed"
	OpDrawArrays    = "DrawArrays"
	OpBindTexture   = "BindTexture"
	OpUnbindTexture = "UnbindTexture"
	OpBindArray     = "BindVertexArray"
	OpUnbindArray   = "UnbindVertexArray"
	OpBindBuffer    = "BindVertexBuffer"
	OpSetData       = "SetData"
	OpBindShader    = "BindShader"
	OpUnbindShader  = "UnbindShader"
	OpUniform       = "Uniform"
	OpDepthMask     = "DepthMask"
	OpCulling       = "FaceCulling"
	OpBlending      = "Blending"
	OpBindFrame     = "BindFrameBuffer"
	OpUnbindFrame   = "UnbindFrameBuffer"
	OpClear         = "Clear"
)

// Call is one recorded device interaction
type Call struct {
	Op    string
	ID    uint32 // resource id the call refers to
	Slot  uint32
	Count int32
	Name  string
	Value any
	Mode  gpu.Primitive
}

// Device records every call in order. Resource ids are unique per device.
type Device struct {
	Calls []Call

	VertexArrays  []*VertexArray
	VertexBuffers []*VertexBuffer
	IndexBuffers  []*IndexBuffer
	Textures      []*Texture
	FrameBuffers  []*FrameBuffer

	DepthMask bool
	Culling   bool
	Blending  bool

	// BoundArray is the id of the currently bound vertex array (0 = none)
	BoundArray uint32

	nextID uint32
}

var _ gpu.Device = (*Device)(nil)

// NewDevice returns a device with depth writes and culling enabled, the
// state the engine configures at context creation.
func NewDevice() *Device {
	return &Device{DepthMask: true, Culling: true}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) record(c Call) {
	d.Calls = append(d.Calls, c)
}

// Reset forgets recorded calls but keeps resources
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
}

// Filter returns the recorded calls with the given op, in order
func (d *Device) Filter(op string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// DrawCalls returns indexed and non-indexed draw calls, in order
func (d *Device) DrawCalls() []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Op == OpDrawIndexed || c.Op == OpDrawArrays {
			out = append(out, c)
		}
	}
	return out
}

func (d *Device) NewVertexArray() gpu.VertexArray {
	va := &VertexArray{dev: d, id: d.id()}
	d.VertexArrays = append(d.VertexArrays, va)
	return va
}

func (d *Device) NewVertexBuffer(sizeBytes int) gpu.VertexBuffer {
	vb := &VertexBuffer{dev: d, id: d.id(), Capacity: sizeBytes, Dynamic: true}
	d.VertexBuffers = append(d.VertexBuffers, vb)
	return vb
}

func (d *Device) NewStaticVertexBuffer(data []float32) gpu.VertexBuffer {
	vb := &VertexBuffer{dev: d, id: d.id(), Capacity: len(data) * 4}
	vb.Data = append([]float32(nil), data...)
	d.VertexBuffers = append(d.VertexBuffers, vb)
	return vb
}

func (d *Device) NewIndexBuffer(indices []uint32) gpu.IndexBuffer {
	ib := &IndexBuffer{dev: d, id: d.id(), Indices: append([]uint32(nil), indices...), Uploads: 1}
	d.IndexBuffers = append(d.IndexBuffers, ib)
	return ib
}

func (d *Device) NewTexture(width, height int, rgba []byte) (gpu.Texture, error) {
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("texture data size %d does not match %dx%d", len(rgba), width, height)
	}
	return d.Texture(), nil
}

// Texture creates a texture with a fresh identity
func (d *Device) Texture() *Texture {
	t := &Texture{dev: d, id: d.id()}
	d.Textures = append(d.Textures, t)
	return t
}

func (d *Device) NewDepthFrameBuffer(width, height int) (gpu.FrameBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	fb := &FrameBuffer{dev: d, id: d.id(), width: int32(width), height: int32(height)}
	d.FrameBuffers = append(d.FrameBuffers, fb)
	return fb, nil
}

func (d *Device) DrawIndexed(mode gpu.Primitive, count int32) {
	d.record(Call{Op: OpDrawIndexed, ID: d.BoundArray, Count: count, Mode: mode})
}

func (d *Device) DrawArrays(mode gpu.Primitive, count int32) {
	d.record(Call{Op: OpDrawArrays, ID: d.BoundArray, Count: count, Mode: mode})
}

func (d *Device) SetDepthMask(enabled bool) {
	d.DepthMask = enabled
	d.record(Call{Op: OpDepthMask, Value: enabled})
}

func (d *Device) SetFaceCulling(enabled bool) {
	d.Culling = enabled
	d.record(Call{Op: OpCulling, Value: enabled})
}

func (d *Device) SetBlending(enabled bool) {
	d.Blending = enabled
	d.record(Call{Op: OpBlending, Value: enabled})
}

func (d *Device) Clear(color mgl32.Vec4) {
	d.record(Call{Op: OpClear, Value: color})
}

func (d *Device) Viewport(x, y, width, height int32) {}
