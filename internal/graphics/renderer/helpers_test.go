package renderer

import (
	"testing"

	"graphx/internal/gpu"
	"graphx/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCamera struct {
	view, proj mgl32.Mat4
	pos        mgl32.Vec3
	mode       ProjectionMode
}

func newCamera() *fakeCamera {
	return &fakeCamera{
		view: mgl32.Translate3D(0, 0, -5),
		proj: mgl32.Perspective(mgl32.DegToRad(45), 1.5, 0.1, 100),
		pos:  mgl32.Vec3{0, 0, 5},
	}
}

func (c *fakeCamera) ViewMatrix() mgl32.Mat4           { return c.view }
func (c *fakeCamera) ProjectionMatrix() mgl32.Mat4     { return c.proj }
func (c *fakeCamera) ProjectionViewMatrix() mgl32.Mat4 { return c.proj.Mul4(c.view) }
func (c *fakeCamera) Position() mgl32.Vec3             { return c.pos }
func (c *fakeCamera) ProjectionMode() ProjectionMode   { return c.mode }

func (c *fakeCamera) RotationViewMatrix() mgl32.Mat4 {
	v := c.view
	v[12], v[13], v[14] = 0, 0, 0
	return v
}

type fakeMaterial struct {
	shader *gputest.Shader
	binds  int
}

func (m *fakeMaterial) Bind() {
	m.binds++
	m.shader.Bind()
}

func (m *fakeMaterial) Shader() gpu.Shader { return m.shader }

type fakeDrawable struct {
	vao     *gputest.VertexArray
	mat     *fakeMaterial
	model   mgl32.Mat4
	enabled int
	buffers int
}

func newDrawable(dev *gputest.Device, mat *fakeMaterial, model mgl32.Mat4) *fakeDrawable {
	return &fakeDrawable{vao: dev.NewVertexArray().(*gputest.VertexArray), mat: mat, model: model}
}

func (d *fakeDrawable) Enable() {
	d.enabled++
	d.vao.Bind()
}

func (d *fakeDrawable) Disable() { d.vao.Unbind() }

func (d *fakeDrawable) BindBuffers() {
	d.buffers++
	d.vao.Bind()
}

func (d *fakeDrawable) UnbindBuffers()          { d.vao.Unbind() }
func (d *fakeDrawable) ModelMatrix() mgl32.Mat4 { return d.model }
func (d *fakeDrawable) Material() Material      { return d.mat }
func (d *fakeDrawable) IndexCount() int32       { return 36 }

type boundedDrawable struct {
	*fakeDrawable
	min, max mgl32.Vec3
}

func (b *boundedDrawable) Bounds() (mgl32.Vec3, mgl32.Vec3) { return b.min, b.max }

type fakeLight struct {
	color   mgl32.Vec3
	applied int
}

func (l *fakeLight) Apply(s gpu.Shader) {
	l.applied++
	s.SetVec3("u_LightColor", l.color)
}

type fakeSkybox struct {
	enabled, disabled int
}

func (s *fakeSkybox) Enable()                 { s.enabled++ }
func (s *fakeSkybox) Disable()                { s.disabled++ }
func (s *fakeSkybox) ModelMatrix() mgl32.Mat4 { return mgl32.HomogRotate3DY(0.5) }
func (s *fakeSkybox) TintColor() mgl32.Vec4   { return mgl32.Vec4{0.5, 0.6, 0.7, 1} }
func (s *fakeSkybox) BlendFactor() float32    { return 0.25 }
func (s *fakeSkybox) BindingSlot() uint32     { return 11 }

type fakeParticle struct {
	state  ParticleState
	active bool
}

type fakeSource struct {
	atlas     gpu.Texture
	rows      int
	particles []fakeParticle
}

func (s *fakeSource) Atlas() (gpu.Texture, int) { return s.atlas, s.rows }
func (s *fakeSource) ParticleCount() int        { return len(s.particles) }

func (s *fakeSource) Particle(i int) (ParticleState, bool) {
	return s.particles[i].state, s.particles[i].active
}

type fakeFont struct {
	tex        gpu.Texture
	glyphs     map[rune]Glyph
	lineHeight float32
}

func (f *fakeFont) Texture() gpu.Texture { return f.tex }
func (f *fakeFont) LineHeight() float32  { return f.lineHeight }

func (f *fakeFont) Glyph(r rune) (Glyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

// newTestRenderer builds a renderer on a recording device. Resource creation
// order fixes the vertex arrays: quad batch, particle batch, skybox, debug.
func newTestRenderer(t *testing.T, opts Options) (*Renderer, *gputest.Device, *observer.ObservedLogs) {
	t.Helper()
	dev := gputest.NewDevice()
	core, logs := observer.New(zap.DebugLevel)
	if opts.MaxQuads == 0 {
		opts.MaxQuads = 100
	}
	if opts.MaxParticles == 0 {
		opts.MaxParticles = 100
	}
	shaders := Shaders{
		Quad:     gputest.NewShader(dev, "quad"),
		Particle: gputest.NewShader(dev, "particle"),
		Skybox:   gputest.NewShader(dev, "skybox"),
		Debug:    gputest.NewShader(dev, "debug"),
	}
	r, err := New(dev, opts, shaders, zap.New(core))
	require.NoError(t, err)
	dev.Reset()
	return r, dev, logs
}

func quadArray(dev *gputest.Device) *gputest.VertexArray     { return dev.VertexArrays[0] }
func particleArray(dev *gputest.Device) *gputest.VertexArray { return dev.VertexArrays[1] }
func skyboxArray(dev *gputest.Device) *gputest.VertexArray   { return dev.VertexArrays[2] }

func quadBuffer(dev *gputest.Device) *gputest.VertexBuffer     { return dev.VertexBuffers[0] }
func particleBuffer(dev *gputest.Device) *gputest.VertexBuffer { return dev.VertexBuffers[1] }

// indexOf returns the position of the first recorded call matching fn, or -1
func indexOf(calls []gputest.Call, fn func(gputest.Call) bool) int {
	for i, c := range calls {
		if fn(c) {
			return i
		}
	}
	return -1
}
