package scene

import (
	"math"
	"math/rand"

	"graphx/internal/gpu"
	"graphx/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// Gravity is the downward acceleration applied to particles, scaled by GravityEffect
const Gravity = -9.81

// ParticleProps are the launch parameters of one particle
type ParticleProps struct {
	Position   mgl32.Vec3
	Velocity   mgl32.Vec3
	ColorBegin mgl32.Vec4
	ColorEnd   mgl32.Vec4
	// Rotation around the view axis, in radians
	Rotation      float32
	SizeBegin     float32
	SizeEnd       float32
	LifeSpan      float32
	GravityEffect float32
}

// Particle is one pooled billboard. Its atlas stage advances with its age.
type Particle struct {
	props      ParticleProps
	elapsed    float32
	texOffsets mgl32.Vec4
	blend      float32
	active     bool
}

// Init restarts p with props
func (p *Particle) Init(props ParticleProps) {
	if props.LifeSpan <= 0 {
		props.LifeSpan = 1
	}
	p.props = props
	p.elapsed = 0
	p.blend = 0
	p.texOffsets = mgl32.Vec4{}
	p.active = true
}

// Update integrates motion and age; atlasRows picks the texture stage.
// The particle deactivates once its life span is over.
func (p *Particle) Update(dt float32, atlasRows int) {
	if !p.active {
		return
	}
	p.props.Velocity[1] += Gravity * p.props.GravityEffect * dt
	p.props.Position = p.props.Position.Add(p.props.Velocity.Mul(dt))
	p.elapsed += dt
	if p.elapsed >= p.props.LifeSpan {
		p.active = false
		return
	}
	p.updateTexOffsets(atlasRows)
}

func (p *Particle) updateTexOffsets(rows int) {
	if rows < 1 {
		rows = 1
	}
	stages := rows * rows
	progression := p.LifeProgress() * float32(stages)
	current := int(math.Floor(float64(progression)))
	next := current
	if current < stages-1 {
		next = current + 1
	}
	p.blend = progression - float32(current)

	cx, cy := atlasOffset(current, rows)
	nx, ny := atlasOffset(next, rows)
	p.texOffsets = mgl32.Vec4{cx, cy, nx, ny}
}

// atlasOffset returns the top-left UV of stage index in a rows x rows atlas
func atlasOffset(index, rows int) (float32, float32) {
	col := index % rows
	row := index / rows
	return float32(col) / float32(rows), float32(row) / float32(rows)
}

// LifeProgress is the fraction of the life span elapsed, in [0, 1]
func (p *Particle) LifeProgress() float32 {
	return mgl32.Clamp(p.elapsed/p.props.LifeSpan, 0, 1)
}

func (p *Particle) Active() bool           { return p.active }
func (p *Particle) Props() ParticleProps   { return p.props }
func (p *Particle) TexOffsets() mgl32.Vec4 { return p.texOffsets }
func (p *Particle) BlendFactor() float32   { return p.blend }

// State interpolates size and colour over the particle's life
func (p *Particle) State() renderer.ParticleState {
	t := p.LifeProgress()
	size := p.props.SizeBegin + (p.props.SizeEnd-p.props.SizeBegin)*t
	color := p.props.ColorBegin.Mul(1 - t).Add(p.props.ColorEnd.Mul(t))
	return renderer.ParticleState{
		Position:    p.props.Position,
		Size:        size,
		Rotation:    p.props.Rotation,
		Color:       color,
		TexOffsets:  p.texOffsets,
		BlendFactor: p.blend,
	}
}

// ParticlePool is a fixed set of particles reused round robin. When every
// particle is alive the oldest emitted slot is overwritten.
type ParticlePool struct {
	particles []Particle
	next      int
}

// NewParticlePool allocates size particles, all inactive
func NewParticlePool(size int) *ParticlePool {
	if size < 1 {
		size = 1
	}
	return &ParticlePool{particles: make([]Particle, size)}
}

// Emit activates the next pool slot with props
func (p *ParticlePool) Emit(props ParticleProps) {
	p.particles[p.next].Init(props)
	p.next = (p.next + 1) % len(p.particles)
}

// Update advances every active particle
func (p *ParticlePool) Update(dt float32, atlasRows int) {
	for i := range p.particles {
		p.particles[i].Update(dt, atlasRows)
	}
}

// ActiveCount returns the number of live particles
func (p *ParticlePool) ActiveCount() int {
	n := 0
	for i := range p.particles {
		if p.particles[i].active {
			n++
		}
	}
	return n
}

func (p *ParticlePool) Len() int           { return len(p.particles) }
func (p *ParticlePool) At(i int) *Particle { return &p.particles[i] }

// ParticleSystemConfig sets the emission of a ParticleSystem. The *Error
// fields are relative random deviations, e.g. 0.2 means ±20%.
type ParticleSystemConfig struct {
	PerSecond     float32
	Speed         float32
	GravityEffect float32
	LifeSpan      float32
	Scale         float32
	// Cone restricts emission to directions within Cone radians of Direction; zero emits in all directions
	Direction mgl32.Vec3
	Cone      float32

	SpeedError     float32
	LifeError      float32
	ScaleError     float32
	RandomRotation bool

	ColorBegin mgl32.Vec4
	ColorEnd   mgl32.Vec4
}

// ParticleSystem emits particles from a point into its own pool and exposes
// them to the renderer.
type ParticleSystem struct {
	cfg     ParticleSystemConfig
	pool    *ParticlePool
	atlas   gpu.Texture
	rows    int
	rng     *rand.Rand
	pending float32
}

// NewParticleSystem creates a system drawing from atlas, a rows x rows grid of stages
func NewParticleSystem(cfg ParticleSystemConfig, poolSize int, atlas gpu.Texture, rows int, rng *rand.Rand) *ParticleSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if rows < 1 {
		rows = 1
	}
	if cfg.ColorBegin == (mgl32.Vec4{}) {
		cfg.ColorBegin = mgl32.Vec4{1, 1, 1, 1}
	}
	if cfg.ColorEnd == (mgl32.Vec4{}) {
		cfg.ColorEnd = cfg.ColorBegin
	}
	return &ParticleSystem{cfg: cfg, pool: NewParticlePool(poolSize), atlas: atlas, rows: rows, rng: rng}
}

// Update emits PerSecond*dt new particles at center, carrying the
// fractional remainder to the next frame, then advances the pool.
func (s *ParticleSystem) Update(dt float32, center mgl32.Vec3) {
	s.pending += s.cfg.PerSecond * dt
	count := int(s.pending)
	s.pending -= float32(count)
	for i := 0; i < count; i++ {
		s.emit(center)
	}
	s.pool.Update(dt, s.rows)
}

func (s *ParticleSystem) emit(center mgl32.Vec3) {
	dir := s.direction()
	speed := s.vary(s.cfg.Speed, s.cfg.SpeedError)
	scale := s.vary(s.cfg.Scale, s.cfg.ScaleError)
	var rot float32
	if s.cfg.RandomRotation {
		rot = s.rng.Float32() * 2 * math.Pi
	}
	s.pool.Emit(ParticleProps{
		Position:      center,
		Velocity:      dir.Mul(speed),
		ColorBegin:    s.cfg.ColorBegin,
		ColorEnd:      s.cfg.ColorEnd,
		Rotation:      rot,
		SizeBegin:     scale,
		SizeEnd:       scale,
		LifeSpan:      s.vary(s.cfg.LifeSpan, s.cfg.LifeError),
		GravityEffect: s.cfg.GravityEffect,
	})
}

// vary returns avg scaled by a random factor in [1-err, 1+err)
func (s *ParticleSystem) vary(avg, err float32) float32 {
	if err == 0 {
		return avg
	}
	return avg * (1 + (s.rng.Float32()*2-1)*err)
}

// direction picks a random unit vector, inside the cone when one is set
func (s *ParticleSystem) direction() mgl32.Vec3 {
	if s.cfg.Cone <= 0 || s.cfg.Direction.Len() == 0 {
		z := s.rng.Float32()*2 - 1
		theta := s.rng.Float64() * 2 * math.Pi
		r := float32(math.Sqrt(float64(1 - z*z)))
		return mgl32.Vec3{r * float32(math.Cos(theta)), z, r * float32(math.Sin(theta))}
	}
	cosAngle := float32(math.Cos(float64(s.cfg.Cone)))
	theta := s.rng.Float64() * 2 * math.Pi
	z := cosAngle + s.rng.Float32()*(1-cosAngle)
	r := float32(math.Sqrt(float64(1 - z*z)))
	local := mgl32.Vec3{r * float32(math.Cos(theta)), r * float32(math.Sin(theta)), z}

	axis := s.cfg.Direction.Normalize()
	rot := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, axis)
	return rot.Rotate(local).Normalize()
}

// Emit launches one particle with explicit props
func (s *ParticleSystem) Emit(props ParticleProps) { s.pool.Emit(props) }

func (s *ParticleSystem) Pool() *ParticlePool { return s.pool }

func (s *ParticleSystem) Atlas() (gpu.Texture, int) { return s.atlas, s.rows }
func (s *ParticleSystem) ParticleCount() int        { return s.pool.Len() }

func (s *ParticleSystem) Particle(i int) (renderer.ParticleState, bool) {
	p := s.pool.At(i)
	if !p.active {
		return renderer.ParticleState{}, false
	}
	return p.State(), true
}

var _ renderer.ParticleSource = (*ParticleSystem)(nil)
