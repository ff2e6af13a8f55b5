package renderer

import (
	"graphx/internal/gpu"
	"graphx/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// countingDevice counts the draw calls issued through it since the last reset
type countingDevice struct {
	gpu.Device
	draws int
}

func (d *countingDevice) DrawIndexed(mode gpu.Primitive, count int32) {
	d.draws++
	d.Device.DrawIndexed(mode, count)
}

func (d *countingDevice) DrawArrays(mode gpu.Primitive, count int32) {
	d.draws++
	d.Device.DrawArrays(mode, count)
}

// lightState applies the scene lights to each shader at most once per frame
type lightState struct {
	lights  []Light
	shadow  *ShadowPass
	applied map[uint32]struct{}
}

func (l *lightState) set(lights []Light) {
	l.lights = append(l.lights[:0], lights...)
	l.invalidate()
}

func (l *lightState) invalidate() {
	if l.applied == nil {
		l.applied = make(map[uint32]struct{})
	}
	clear(l.applied)
}

// endScene forgets the per-frame shadow binding; lights persist across frames
func (l *lightState) endScene() {
	l.shadow = nil
	l.invalidate()
}

func (l *lightState) apply(s gpu.Shader) {
	if _, ok := l.applied[s.ID()]; ok {
		return
	}
	if l.applied == nil {
		l.applied = make(map[uint32]struct{})
	}
	l.applied[s.ID()] = struct{}{}
	for _, light := range l.lights {
		light.Apply(s)
	}
	if l.shadow != nil {
		s.SetMat4("u_LightSpaceMatrix", l.shadow.LightSpace)
		s.SetInt("u_ShadowMap", int32(l.shadow.MapSlot))
	}
}

// drawQueued renders one drawable with its material
func drawQueued(dev gpu.Device, d Drawable, lights *lightState, debug *debugBoxes) {
	d.Enable()

	mat := d.Material()
	mat.Bind()
	shader := mat.Shader()
	lights.apply(shader)

	model := d.ModelMatrix()
	shader.SetMat4("u_Model", model)
	shader.SetMat3("u_Normal", model.Mat3())

	dev.DrawIndexed(gpu.Triangles, d.IndexCount())
	profiling.Count("renderer.DrawCalls", 1)

	d.Disable()

	if debug != nil {
		if b, ok := d.(Bounded); ok {
			debug.draw(b.Bounds())
		}
	}
}

// drawDepth renders d with the already bound depth shader
func drawDepth(dev gpu.Device, d Drawable, depth gpu.Shader) {
	d.BindBuffers()
	depth.SetMat4("u_Model", d.ModelMatrix())
	dev.DrawIndexed(gpu.Triangles, d.IndexCount())
	profiling.Count("renderer.DrawCalls", 1)
	d.UnbindBuffers()
}

// drainQueue pops and renders every queued drawable, returning how many were drawn
func drainQueue(dev gpu.Device, q *Queue, lights *lightState, debug *debugBoxes) int {
	n := 0
	for {
		d, ok := q.Pop()
		if !ok {
			return n
		}
		drawQueued(dev, d, lights, debug)
		n++
	}
}

var boxEdges = []uint32{
	0, 1, 1, 2, 2, 3, 3, 0,
	4, 5, 5, 6, 6, 7, 7, 4,
	0, 4, 1, 5, 2, 6, 3, 7,
}

// debugBoxes draws wireframe bounding boxes with the debug shader
type debugBoxes struct {
	device gpu.Device
	shader gpu.Shader
	vao    gpu.VertexArray
	vbo    gpu.VertexBuffer
	ibo    gpu.IndexBuffer
	corner [8 * 3]float32
}

func newDebugBoxes(device gpu.Device, shader gpu.Shader) *debugBoxes {
	b := &debugBoxes{device: device, shader: shader}
	b.vao = device.NewVertexArray()
	b.vbo = device.NewVertexBuffer(len(b.corner) * 4)
	b.vao.AddVertexBuffer(b.vbo, gpu.NewLayout(gpu.Float3))
	b.ibo = device.NewIndexBuffer(boxEdges)
	b.vao.SetIndexBuffer(b.ibo)
	return b
}

func (b *debugBoxes) beginScene(cam Camera) {
	b.shader.Bind()
	b.shader.SetMat4("u_ViewProjection", cam.ProjectionViewMatrix())
	b.shader.SetVec4("u_DebugColor", mgl32.Vec4{1, 0, 0, 1})
}

func (b *debugBoxes) draw(min, max mgl32.Vec3) {
	// front face (max z) then back face (min z), counter-clockwise from bottom left
	corners := [8]mgl32.Vec3{
		{min[0], min[1], max[2]}, {max[0], min[1], max[2]}, {max[0], max[1], max[2]}, {min[0], max[1], max[2]},
		{min[0], min[1], min[2]}, {max[0], min[1], min[2]}, {max[0], max[1], min[2]}, {min[0], max[1], min[2]},
	}
	for i, c := range corners {
		copy(b.corner[i*3:], c[:])
	}

	b.vbo.Bind()
	b.vbo.SetData(b.corner[:])
	b.vao.Bind()
	b.shader.Bind()
	b.device.DrawIndexed(gpu.Lines, int32(len(boxEdges)))
	b.vao.Unbind()
}

func (b *debugBoxes) release() {
	b.vao.Release()
	b.vbo.Release()
	b.ibo.Release()
}
