package scene

import (
	"graphx/internal/gpu"
	"graphx/internal/graphics/renderer"
)

// Material is a shader plus the textures bound to consecutive units from 0
type Material struct {
	shader   gpu.Shader
	textures []gpu.Texture

	SpecularStrength float32
	Shininess        float32
}

// NewMaterial creates a material drawing with shader
func NewMaterial(shader gpu.Shader) *Material {
	return &Material{shader: shader, SpecularStrength: 0.5, Shininess: 32}
}

// AddTexture appends tex; it is bound to the next texture unit
func (m *Material) AddTexture(tex gpu.Texture) {
	m.textures = append(m.textures, tex)
}

func (m *Material) Textures() []gpu.Texture { return m.textures }

func (m *Material) Shader() gpu.Shader { return m.shader }

// Bind binds the shader, every texture and the surface uniforms
func (m *Material) Bind() {
	m.shader.Bind()
	units := make([]int32, len(m.textures))
	for i, tex := range m.textures {
		tex.Bind(uint32(i))
		units[i] = int32(i)
	}
	if len(units) > 0 {
		m.shader.SetIntArray("u_Textures", units)
	}
	m.shader.SetFloat("u_SpecularStrength", m.SpecularStrength)
	m.shader.SetFloat("u_Shininess", m.Shininess)
}

var _ renderer.Material = (*Material)(nil)
