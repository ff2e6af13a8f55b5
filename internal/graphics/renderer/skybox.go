package renderer

import "graphx/internal/gpu"

// cubePositions are the corners of the unit cube: front face (+z) first,
// then the back face, counter-clockwise from bottom left.
var cubePositions = []float32{
	-1, -1, 1,
	1, -1, 1,
	1, 1, 1,
	-1, 1, 1,
	-1, -1, -1,
	1, -1, -1,
	1, 1, -1,
	-1, 1, -1,
}

// skyboxIndices winds every face so it is visible from inside the cube
var skyboxIndices = []uint32{
	// front
	0, 1, 2, 2, 3, 0,
	// top
	7, 3, 6, 6, 3, 2,
	// back
	5, 4, 7, 7, 6, 5,
	// bottom
	0, 4, 1, 1, 4, 5,
	// left
	4, 0, 3, 3, 7, 4,
	// right
	1, 5, 6, 6, 2, 1,
}

// skyboxData is the cube shared by every skybox
type skyboxData struct {
	vao    gpu.VertexArray
	vbo    gpu.VertexBuffer
	ibo    gpu.IndexBuffer
	shader gpu.Shader
}

func newSkyboxData(device gpu.Device, shader gpu.Shader) skyboxData {
	s := skyboxData{shader: shader}
	s.vao = device.NewVertexArray()
	s.vbo = device.NewStaticVertexBuffer(cubePositions)
	s.vao.AddVertexBuffer(s.vbo, gpu.NewLayout(gpu.Float3))
	s.ibo = device.NewIndexBuffer(skyboxIndices)
	s.vao.SetIndexBuffer(s.ibo)
	return s
}

func (s *skyboxData) release() {
	s.vao.Release()
	s.vbo.Release()
	s.ibo.Release()
	s.shader.Release()
}
