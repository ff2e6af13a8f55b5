package renderer

import (
	"testing"

	"graphx/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticlesUseViewSpaceAndSkipInactive(t *testing.T) {
	r, dev, _ := newTestRenderer(t, Options{})
	atlas := dev.Texture()
	cam := newCamera()
	src := &fakeSource{
		atlas: atlas,
		rows:  4,
		particles: []fakeParticle{
			{active: true, state: ParticleState{Position: mgl32.Vec3{1, 0, 0}, Size: 1, Color: mgl32.Vec4{1, 0, 0, 1}, BlendFactor: 0.5}},
			{active: false, state: ParticleState{Position: mgl32.Vec3{9, 9, 9}, Size: 1}},
			{active: true, state: ParticleState{Position: mgl32.Vec3{0, 2, 1}, Size: 2}},
		},
	}

	r.BeginScene(cam)
	dev.Reset()
	r.RenderParticles(src)
	r.EndScene()

	draws := dev.DrawCalls()
	require.Len(t, draws, 1)
	assert.Equal(t, particleArray(dev).ID(), draws[0].ID)
	assert.Equal(t, int32(12), draws[0].Count)

	data := particleBuffer(dev).Data
	stride := 16
	require.Len(t, data, 2*4*stride)
	// first particle: world (1, 0, 0) is (1, 0, -5) in view space
	assert.Equal(t, []float32{0.5, -0.5, -5}, data[0:3])
	assert.Equal(t, float32(0.5), data[9])
	assert.Equal(t, float32(4), data[10])
	assert.Equal(t, float32(1), data[15], "atlas slot")
	// second active particle: world (0, 2, 1) is (0, 2, -4)
	second := data[4*stride:]
	assert.Equal(t, []float32{-1, 1, -4}, second[0:3])

	particle, ok := r.Library().Get("Particle")
	require.True(t, ok)
	assert.Equal(t, cam.ProjectionMatrix(), particle.(*gputest.Shader).Uniforms["u_Projection"])
}

func TestParticlesRestoreDepthAndBlending(t *testing.T) {
	r, dev, _ := newTestRenderer(t, Options{})
	src := &fakeSource{particles: []fakeParticle{{active: true, state: ParticleState{Size: 1}}}}

	r.BeginScene(newCamera())
	dev.Reset()
	r.RenderParticles(src)
	r.EndScene()

	drawAt := indexOf(dev.Calls, func(c gputest.Call) bool { return c.Op == gputest.OpDrawIndexed })
	maskOff := indexOf(dev.Calls, func(c gputest.Call) bool { return c.Op == gputest.OpDepthMask && c.Value == false })
	blendOn := indexOf(dev.Calls, func(c gputest.Call) bool { return c.Op == gputest.OpBlending && c.Value == true })
	require.True(t, drawAt >= 0)
	assert.True(t, maskOff >= 0 && maskOff < drawAt)
	assert.True(t, blendOn >= 0 && blendOn < drawAt)
	assert.True(t, dev.DepthMask)
	assert.False(t, dev.Blending)
}

func TestParticlesSplitAcrossBatchesAndSources(t *testing.T) {
	r, dev, _ := newTestRenderer(t, Options{MaxParticles: 2, TextureSlots: 2})
	active := func(n int) []fakeParticle {
		ps := make([]fakeParticle, n)
		for i := range ps {
			ps[i] = fakeParticle{active: true, state: ParticleState{Size: 1}}
		}
		return ps
	}
	fire := &fakeSource{atlas: dev.Texture(), rows: 2, particles: active(3)}
	smoke := &fakeSource{atlas: dev.Texture(), rows: 2, particles: active(1)}

	r.BeginScene(newCamera())
	dev.Reset()
	r.RenderParticles(fire, smoke)
	stats := r.Stats()
	r.EndScene()

	// fire fills one batch and spills one particle; smoke needs a fresh slot
	var counts []int32
	for _, c := range dev.DrawCalls() {
		counts = append(counts, c.Count)
	}
	assert.Equal(t, []int32{12, 6, 6}, counts)
	assert.Equal(t, 4, stats.Particles)
}

func TestRenderParticlesWithoutSources(t *testing.T) {
	r, dev, _ := newTestRenderer(t, Options{})
	r.BeginScene(newCamera())
	dev.Reset()
	r.RenderParticles()
	r.EndScene()

	assert.Empty(t, dev.DrawCalls())
	assert.True(t, dev.DepthMask)
}
