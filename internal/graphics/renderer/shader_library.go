package renderer

import (
	"fmt"
	"sort"

	"graphx/internal/gpu"
)

// ShaderLibrary caches shaders by name. Every shader in the library receives
// the camera uniforms at BeginScene.
type ShaderLibrary struct {
	shaders map[string]gpu.Shader
	order   []string
}

// NewShaderLibrary returns an empty library
func NewShaderLibrary() *ShaderLibrary {
	return &ShaderLibrary{shaders: make(map[string]gpu.Shader)}
}

// Add registers s under name. Names are unique.
func (l *ShaderLibrary) Add(name string, s gpu.Shader) error {
	if _, ok := l.shaders[name]; ok {
		return fmt.Errorf("shader %q already exists", name)
	}
	l.shaders[name] = s
	l.order = append(l.order, name)
	return nil
}

// Load returns the cached shader for name, or builds it with load and caches it
func (l *ShaderLibrary) Load(name string, load func() (gpu.Shader, error)) (gpu.Shader, error) {
	if s, ok := l.shaders[name]; ok {
		return s, nil
	}
	s, err := load()
	if err != nil {
		return nil, fmt.Errorf("load shader %q: %w", name, err)
	}
	if err := l.Add(name, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the shader registered under name
func (l *ShaderLibrary) Get(name string) (gpu.Shader, bool) {
	s, ok := l.shaders[name]
	return s, ok
}

// Names returns registered names in sorted order
func (l *ShaderLibrary) Names() []string {
	names := append([]string(nil), l.order...)
	sort.Strings(names)
	return names
}

// pushCamera uploads the camera uniforms to every shader, in registration order
func (l *ShaderLibrary) pushCamera(cam Camera) {
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	viewProj := cam.ProjectionViewMatrix()
	pos := cam.Position()
	for _, name := range l.order {
		s := l.shaders[name]
		s.Bind()
		s.SetMat4("u_ViewProjection", viewProj)
		s.SetMat4("u_View", view)
		s.SetMat4("u_Projection", proj)
		s.SetVec3("u_CameraPosition", pos)
	}
}

// release frees every shader exactly once
func (l *ShaderLibrary) release() {
	for _, name := range l.order {
		l.shaders[name].Release()
	}
	clear(l.shaders)
	l.order = nil
}
