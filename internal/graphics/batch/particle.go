package batch

import (
	"math"

	"graphx/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Particle is one camera-facing billboard. ViewPosition is already in camera
// view space, so the corners are offset in the view plane and the quad always
// faces the camera.
type Particle struct {
	ViewPosition mgl32.Vec3
	Size         float32
	// Rotation rolls the billboard around the view axis, in radians
	Rotation float32
	Color    mgl32.Vec4
	Texture  gpu.Texture
	// AtlasRows is the number of rows (and columns) of the texture atlas
	AtlasRows int
	// TexOffsets holds the atlas offsets of the current (xy) and next (zw) stage
	TexOffsets  mgl32.Vec4
	BlendFactor float32
}

// ParticleBatch accumulates billboards for the particle path
type ParticleBatch struct {
	*Batch
}

// NewParticleBatch allocates staging memory for opts.MaxPrimitives particles
func NewParticleBatch(device gpu.Device, opts Options) (*ParticleBatch, error) {
	b, err := newBatch("particle batch", device, ParticleLayout, opts)
	if err != nil {
		return nil, err
	}
	return &ParticleBatch{Batch: b}, nil
}

// AddParticle appends four vertices. Same preconditions as QuadBatch.AddQuad.
func (b *ParticleBatch) AddParticle(p Particle) error {
	slot, dst, err := b.reserve(p.Texture)
	if err != nil {
		return err
	}

	rows := p.AtlasRows
	if rows < 1 {
		rows = 1
	}
	var sin, cos float32 = 0, 1
	if p.Rotation != 0 {
		s, c := math.Sincos(float64(p.Rotation))
		sin, cos = float32(s), float32(c)
	}

	stride := ParticleLayout.Floats()
	for i, corner := range quadCorners {
		x := (corner[0]*cos - corner[1]*sin) * p.Size
		y := (corner[0]*sin + corner[1]*cos) * p.Size
		v := dst[i*stride : (i+1)*stride]
		v[0], v[1], v[2] = p.ViewPosition[0]+x, p.ViewPosition[1]+y, p.ViewPosition[2]
		v[3], v[4] = DefaultTexCoords[i][0], DefaultTexCoords[i][1]
		v[5], v[6], v[7], v[8] = p.TexOffsets[0], p.TexOffsets[1], p.TexOffsets[2], p.TexOffsets[3]
		v[9] = p.BlendFactor
		v[10] = float32(rows)
		v[11], v[12], v[13], v[14] = p.Color[0], p.Color[1], p.Color[2], p.Color[3]
		v[15] = slot
	}
	b.commit()
	return nil
}
