package scene

import (
	"errors"
	"fmt"

	"graphx/internal/gpu"
	"graphx/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex3D is the vertex format of meshes and terrain
type Vertex3D struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
}

// Vertex3DLayout matches Vertex3D: position, uv, normal
var Vertex3DLayout = gpu.NewLayout(gpu.Float3, gpu.Float2, gpu.Float3)

var errEmptyMesh = errors.New("mesh has no vertices or indices")

// Mesh owns the GPU buffers of an indexed triangle list
type Mesh struct {
	Transform Transform

	vao      gpu.VertexArray
	vbo      gpu.VertexBuffer
	ibo      gpu.IndexBuffer
	material *Material

	// local-space bounds
	min, max mgl32.Vec3
	released bool
}

// NewMesh uploads vertices and indices. Every index must address a vertex.
func NewMesh(device gpu.Device, vertices []Vertex3D, indices []uint32, mat *Material) (*Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errEmptyMesh
	}
	if mat == nil {
		return nil, fmt.Errorf("mesh: material is required")
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("mesh: index %d out of range for %d vertices", i, len(vertices))
		}
	}

	m := &Mesh{Transform: NewTransform(mgl32.Vec3{}), material: mat}
	m.min, m.max = vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for k := 0; k < 3; k++ {
			m.min[k] = min(m.min[k], v.Position[k])
			m.max[k] = max(m.max[k], v.Position[k])
		}
	}

	m.vao = device.NewVertexArray()
	m.vbo = device.NewStaticVertexBuffer(FlattenVertices(vertices))
	m.vao.AddVertexBuffer(m.vbo, Vertex3DLayout)
	m.ibo = device.NewIndexBuffer(indices)
	m.vao.SetIndexBuffer(m.ibo)
	return m, nil
}

// NewQuadMesh builds a unit quad in the XY plane facing +Z, for the 2D queue
func NewQuadMesh(device gpu.Device, mat *Material) (*Mesh, error) {
	n := mgl32.Vec3{0, 0, 1}
	vertices := []Vertex3D{
		{Position: mgl32.Vec3{-0.5, -0.5, 0}, TexCoord: mgl32.Vec2{0, 0}, Normal: n},
		{Position: mgl32.Vec3{0.5, -0.5, 0}, TexCoord: mgl32.Vec2{1, 0}, Normal: n},
		{Position: mgl32.Vec3{0.5, 0.5, 0}, TexCoord: mgl32.Vec2{1, 1}, Normal: n},
		{Position: mgl32.Vec3{-0.5, 0.5, 0}, TexCoord: mgl32.Vec2{0, 1}, Normal: n},
	}
	return NewMesh(device, vertices, []uint32{0, 1, 2, 2, 3, 0}, mat)
}

// NewCubeMesh builds a unit cube with per-face normals
func NewCubeMesh(device gpu.Device, mat *Material) (*Mesh, error) {
	type face struct{ normal, u, v mgl32.Vec3 }
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	vertices := make([]Vertex3D, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range corners {
			p := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1])).Mul(0.5)
			vertices = append(vertices, Vertex3D{
				Position: p,
				TexCoord: mgl32.Vec2{(c[0] + 1) / 2, (c[1] + 1) / 2},
				Normal:   f.normal,
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return NewMesh(device, vertices, indices, mat)
}

// FlattenVertices interleaves vertices in Vertex3DLayout order
func FlattenVertices(vertices []Vertex3D) []float32 {
	out := make([]float32, 0, len(vertices)*Vertex3DLayout.Floats())
	for _, v := range vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.TexCoord[0], v.TexCoord[1],
			v.Normal[0], v.Normal[1], v.Normal[2])
	}
	return out
}

func (m *Mesh) Enable()  { m.vao.Bind() }
func (m *Mesh) Disable() { m.vao.Unbind() }

func (m *Mesh) BindBuffers()   { m.vao.Bind() }
func (m *Mesh) UnbindBuffers() { m.vao.Unbind() }

func (m *Mesh) ModelMatrix() mgl32.Mat4               { return m.Transform.Matrix() }
func (m *Mesh) Material() renderer.Material           { return m.material }
func (m *Mesh) IndexCount() int32                     { return m.ibo.Count() }
func (m *Mesh) LocalBounds() (mgl32.Vec3, mgl32.Vec3) { return m.min, m.max }

// Bounds returns the world-space axis aligned box around the transformed mesh
func (m *Mesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	model := m.ModelMatrix()
	var lo, hi mgl32.Vec3
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{m.min[0], m.min[1], m.min[2]}
		if i&1 != 0 {
			c[0] = m.max[0]
		}
		if i&2 != 0 {
			c[1] = m.max[1]
		}
		if i&4 != 0 {
			c[2] = m.max[2]
		}
		w := model.Mul4x1(c.Vec4(1)).Vec3()
		if i == 0 {
			lo, hi = w, w
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], w[k])
			hi[k] = max(hi[k], w[k])
		}
	}
	return lo, hi
}

// Release frees the GPU buffers once
func (m *Mesh) Release() {
	if m.released {
		return
	}
	m.released = true
	m.vao.Release()
	m.vbo.Release()
	m.ibo.Release()
}

var (
	_ renderer.Drawable = (*Mesh)(nil)
	_ renderer.Bounded  = (*Mesh)(nil)
)
