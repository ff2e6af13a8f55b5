package scene

import (
	"math"
	"math/rand"
	"testing"

	"graphx/internal/gpu/gputest"
	"graphx/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraDefaults(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 2, 5}, 1.5, 0.1, 100)
	assert.InDelta(t, 0, c.Front()[0], 1e-6)
	assert.InDelta(t, -1, c.Front()[2], 1e-6)
	assert.Equal(t, renderer.Perspective, c.ProjectionMode())

	// the camera position maps to the view-space origin
	origin := c.ViewMatrix().Mul4x1(c.Position().Vec4(1))
	assert.InDelta(t, 0, origin.Vec3().Len(), 1e-5)

	assert.Equal(t, c.ProjectionMatrix().Mul4(c.ViewMatrix()), c.ProjectionViewMatrix())

	rot := c.RotationViewMatrix()
	assert.Equal(t, float32(0), rot[12])
	assert.Equal(t, float32(0), rot[13])
	assert.Equal(t, float32(0), rot[14])
}

func TestCameraPitchIsClamped(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1, 0.1, 100)
	c.Rotate(0, 200)
	assert.Equal(t, float32(maxPitch), c.Pitch())
	c.Rotate(0, -400)
	assert.Equal(t, float32(-maxPitch), c.Pitch())
}

func TestCameraRecomputesAfterChange(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 1, 0.1, 100)
	before := c.ProjectionMatrix()
	c.SetProjectionMode(renderer.Orthographic)
	after := c.ProjectionMatrix()
	assert.NotEqual(t, before, after)
	assert.Equal(t, float32(1), after[15], "orthographic projection keeps w")

	view := c.ViewMatrix()
	c.Move(1, 0, 0)
	assert.NotEqual(t, view, c.ViewMatrix())
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{1, 2, 3})
	tr.Scale = mgl32.Vec3{2, 2, 2}
	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{3, 2, 3, 1}, p)

	tr.Rotation = mgl32.Vec3{0, math.Pi / 2, 0}
	p = tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, p[0], 1e-5)
	assert.InDelta(t, 1, p[2], 1e-5)
}

func TestMaterialBindsTexturesInOrder(t *testing.T) {
	dev := gputest.NewDevice()
	shader := gputest.NewShader(dev, "lit")
	mat := NewMaterial(shader)
	a, b := dev.Texture(), dev.Texture()
	mat.AddTexture(a)
	mat.AddTexture(b)
	mat.Shininess = 256

	mat.Bind()
	assert.Equal(t, uint32(0), a.Slot)
	assert.Equal(t, uint32(1), b.Slot)
	assert.Equal(t, []int32{0, 1}, shader.Uniforms["u_Textures"])
	assert.Equal(t, float32(256), shader.Uniforms["u_Shininess"])
}

func TestNewMeshValidates(t *testing.T) {
	dev := gputest.NewDevice()
	mat := NewMaterial(gputest.NewShader(dev, "lit"))
	v := []Vertex3D{{Position: mgl32.Vec3{0, 0, 0}}, {Position: mgl32.Vec3{1, 0, 0}}, {Position: mgl32.Vec3{0, 1, 0}}}

	_, err := NewMesh(dev, nil, []uint32{0}, mat)
	assert.ErrorIs(t, err, errEmptyMesh)
	_, err = NewMesh(dev, v, []uint32{0, 1, 3}, mat)
	assert.Error(t, err)
	_, err = NewMesh(dev, v, []uint32{0, 1, 2}, nil)
	assert.Error(t, err)

	m, err := NewMesh(dev, v, []uint32{0, 1, 2}, mat)
	require.NoError(t, err)
	assert.Equal(t, int32(3), m.IndexCount())
	assert.Same(t, mat, m.Material())
	assert.Len(t, dev.VertexBuffers[0].Data, 3*8)
}

func TestMeshBoundsFollowTransform(t *testing.T) {
	dev := gputest.NewDevice()
	m, err := NewCubeMesh(dev, NewMaterial(gputest.NewShader(dev, "lit")))
	require.NoError(t, err)
	assert.Equal(t, int32(36), m.IndexCount())

	lo, hi := m.LocalBounds()
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, lo)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, hi)

	m.Transform.Position = mgl32.Vec3{10, 0, 0}
	m.Transform.Scale = mgl32.Vec3{2, 4, 2}
	lo, hi = m.Bounds()
	assert.InDeltaSlice(t, []float32{9, -2, -1}, lo[:], 1e-5)
	assert.InDeltaSlice(t, []float32{11, 2, 1}, hi[:], 1e-5)

	m.Release()
	m.Release()
	assert.Equal(t, 1, dev.VertexBuffers[0].Released)
}

func TestFlattenVertices(t *testing.T) {
	got := FlattenVertices([]Vertex3D{{
		Position: mgl32.Vec3{1, 2, 3},
		TexCoord: mgl32.Vec2{4, 5},
		Normal:   mgl32.Vec3{6, 7, 8},
	}})
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, got)
	assert.Equal(t, 8, Vertex3DLayout.Floats())
}

func TestTerrainGeometry(t *testing.T) {
	opts := TerrainOptions{TilesX: 4, TilesZ: 3, TileSize: 2}
	vertices, indices := BuildTerrainGeometry(opts)
	require.Len(t, vertices, 12)
	require.Len(t, indices, 3*2*6)

	for _, i := range indices {
		assert.Less(t, int(i), len(vertices))
	}
	// flat terrain: every normal points up
	for _, v := range vertices {
		assert.InDeltaSlice(t, []float32{0, 1, 0}, v.Normal[:], 1e-6)
	}
	assert.Equal(t, mgl32.Vec3{6, 0, 4}, vertices[len(vertices)-1].Position)
}

func TestTerrainNoiseIsDeterministic(t *testing.T) {
	opts := TerrainOptions{TilesX: 8, TilesZ: 8, TileSize: 1, Amplitude: 5, Seed: 42}
	a, _ := BuildTerrainGeometry(opts)
	b, _ := BuildTerrainGeometry(opts)
	assert.Equal(t, a, b)

	opts.Seed = 43
	c, _ := BuildTerrainGeometry(opts)
	assert.NotEqual(t, a, c)

	hasHeight := false
	for _, v := range a {
		if v.Position[1] != 0 {
			hasHeight = true
		}
		assert.InDelta(t, 1, v.Normal.Len(), 1e-5)
	}
	assert.True(t, hasHeight)
}

func TestTerrainBindsBlendMap(t *testing.T) {
	dev := gputest.NewDevice()
	shader := gputest.NewShader(dev, "terrain")
	blend := dev.Texture()

	_, err := NewTerrain(dev, TerrainOptions{TilesX: 1, TilesZ: 4, TileSize: 1}, NewMaterial(shader), blend)
	assert.Error(t, err)

	ter, err := NewTerrain(dev, TerrainOptions{TilesX: 3, TilesZ: 4, TileSize: 1}, NewMaterial(shader), blend)
	require.NoError(t, err)
	assert.Equal(t, [2]int32{3, 4}, shader.Uniforms["u_TerrainDimensions"])
	assert.Equal(t, int32(BlendMapSlot), shader.Uniforms["u_BlendMap"])

	dev.Reset()
	ter.Enable()
	assert.Equal(t, uint32(BlendMapSlot), blend.Slot)
	assert.Len(t, dev.Filter(gputest.OpBindTexture), 1, "only the blend map")
	assert.Empty(t, dev.Filter(gputest.OpBindShader), "the renderer binds the material")
	ter.Disable()
	assert.Len(t, dev.Filter(gputest.OpUnbindTexture), 1)
	assert.Equal(t, int32(2*3*6), ter.IndexCount())
}

func TestSkyboxRotationWraps(t *testing.T) {
	dev := gputest.NewDevice()
	sky := NewSkybox(dev.Texture(), mgl32.Vec4{1, 1, 1, 1}, 0.5, 11, 1)
	sky.Update(7)
	assert.InDelta(t, 7-2*math.Pi, sky.Rotation(), 1e-5)

	sky.RotationSpeed = -1
	sky.Update(1)
	assert.GreaterOrEqual(t, sky.Rotation(), float32(0))

	sky.SetBlendFactor(3)
	assert.Equal(t, float32(1), sky.BlendFactor())
	assert.Equal(t, uint32(11), sky.BindingSlot())
}

func TestLightsApplyUniforms(t *testing.T) {
	dev := gputest.NewDevice()
	shader := gputest.NewShader(dev, "lit")

	NewPointLight(mgl32.Vec3{0, 50, 50}, mgl32.Vec4{1, 1, 1, 1}).Apply(shader)
	assert.Equal(t, mgl32.Vec3{0, 50, 50}, shader.Uniforms["u_LightPos"])
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, shader.Uniforms["u_LightColor"])

	sun := NewDirectionalLight(mgl32.Vec3{0, -2, 0}, mgl32.Vec4{1, 0.9, 0.8, 1})
	sun.Apply(shader)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, shader.Uniforms["u_SunDirection"])

	// the light space matrix maps the centre into the shadow volume
	p := sun.LightSpaceMatrix(mgl32.Vec3{}).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	for i := 0; i < 3; i++ {
		assert.True(t, p[i] >= -1 && p[i] <= 1, "component %d = %v", i, p[i])
	}
}

func TestParticleLifecycle(t *testing.T) {
	var p Particle
	p.Init(ParticleProps{
		Velocity:      mgl32.Vec3{1, 0, 0},
		ColorBegin:    mgl32.Vec4{1, 0, 0, 1},
		ColorEnd:      mgl32.Vec4{0, 0, 1, 0},
		SizeBegin:     1,
		SizeEnd:       3,
		LifeSpan:      1,
		GravityEffect: 0,
	})
	require.True(t, p.Active())

	p.Update(0.5, 1)
	s := p.State()
	assert.InDelta(t, 0.5, s.Position[0], 1e-6)
	assert.InDelta(t, 2, s.Size, 1e-6)
	assert.InDelta(t, 0.5, s.Color[0], 1e-6)
	assert.InDelta(t, 0.5, s.Color[2], 1e-6)

	p.Update(0.5, 1)
	assert.False(t, p.Active())
}

func TestParticleGravity(t *testing.T) {
	var p Particle
	p.Init(ParticleProps{LifeSpan: 10, GravityEffect: 1, SizeBegin: 1, SizeEnd: 1})
	p.Update(0.5, 1)
	assert.InDelta(t, Gravity*0.5, p.Props().Velocity[1], 1e-5)
	assert.InDelta(t, Gravity*0.25, p.Props().Position[1], 1e-5)
}

func TestParticleAtlasStages(t *testing.T) {
	var p Particle
	p.Init(ParticleProps{LifeSpan: 1})
	p.Update(0.6, 2)

	// 4 stages, 60% through: stage 2 blending into stage 3
	off := p.TexOffsets()
	assert.Equal(t, mgl32.Vec4{0, 0.5, 0.5, 0.5}, off)
	assert.InDelta(t, 0.4, p.BlendFactor(), 1e-5)

	p.Update(0.35, 2)
	assert.Equal(t, mgl32.Vec4{0.5, 0.5, 0.5, 0.5}, p.TexOffsets(), "last stage has no successor")
}

func TestParticlePoolReusesRoundRobin(t *testing.T) {
	pool := NewParticlePool(2)
	pool.Emit(ParticleProps{Position: mgl32.Vec3{1, 0, 0}, LifeSpan: 1})
	pool.Emit(ParticleProps{Position: mgl32.Vec3{2, 0, 0}, LifeSpan: 1})
	pool.Emit(ParticleProps{Position: mgl32.Vec3{3, 0, 0}, LifeSpan: 1})

	assert.Equal(t, 2, pool.ActiveCount())
	assert.Equal(t, float32(3), pool.At(0).Props().Position[0])
	assert.Equal(t, float32(2), pool.At(1).Props().Position[0])
}

func TestParticleSystemEmission(t *testing.T) {
	dev := gputest.NewDevice()
	atlas := dev.Texture()
	sys := NewParticleSystem(ParticleSystemConfig{
		PerSecond: 10,
		Speed:     2,
		LifeSpan:  5,
		Scale:     1,
	}, 16, atlas, 4, rand.New(rand.NewSource(7)))

	sys.Update(0.25, mgl32.Vec3{})
	assert.Equal(t, 2, sys.Pool().ActiveCount())
	sys.Update(0.25, mgl32.Vec3{})
	assert.Equal(t, 5, sys.Pool().ActiveCount(), "fractional emissions carry over")

	tex, rows := sys.Atlas()
	assert.Same(t, atlas, tex)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 16, sys.ParticleCount())

	active := 0
	for i := 0; i < sys.ParticleCount(); i++ {
		st, ok := sys.Particle(i)
		if !ok {
			assert.Equal(t, renderer.ParticleState{}, st)
			continue
		}
		active++
		assert.InDelta(t, 1, st.Size, 1e-6)
	}
	assert.Equal(t, 5, active)
}

func TestParticleSystemCone(t *testing.T) {
	sys := NewParticleSystem(ParticleSystemConfig{
		Speed:     1,
		LifeSpan:  1,
		Direction: mgl32.Vec3{0, 1, 0},
		Cone:      0.2,
	}, 64, nil, 1, rand.New(rand.NewSource(3)))

	for i := 0; i < 50; i++ {
		d := sys.direction()
		assert.InDelta(t, 1, d.Len(), 1e-4)
		assert.GreaterOrEqual(t, d[1], float32(math.Cos(0.2))-1e-4)
	}
}

func TestHeightNoiseLattice(t *testing.T) {
	n := newHeightNoise(7)
	assert.Equal(t, hash2(3, 4, 7), hash2(3, 4, 7))
	assert.NotEqual(t, hash2(3, 4, 7), hash2(4, 3, 7), "axes are not interchangeable")
	assert.NotEqual(t, hash2(3, 4, 7), hash2(3, 4, 8))

	for x := -20; x < 20; x++ {
		v := n.random(x, 2*x)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	// interpolation passes through the smoothed lattice values
	assert.InDelta(t, n.smooth(2, 3), n.interpolated(2, 3), 1e-12)
	assert.InDelta(t, 1.0, cosineLerp(0, 1, 1), 1e-12)
	assert.InDelta(t, 0.5, cosineLerp(0, 1, 0.5), 1e-12)
}
