package main

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"graphx/internal/config"
	"graphx/internal/gpu"
	"graphx/internal/graphics"
	"graphx/internal/graphics/renderer"
	"graphx/internal/input"
	"graphx/internal/logger"
	"graphx/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	skyboxSlot    = 10
	shadowMapSlot = 8
	moveSpeed     = 10
	overlayScale  = 0.03
)

// demo is the scene shown by the executable: a lit terrain with a few
// cubes, a skybox, a particle fountain and a text label.
type demo struct {
	cfg      *config.Engine
	renderer *renderer.Renderer
	window   *glfw.Window
	input    *input.Manager

	camera   *scene.Camera
	sun      *scene.DirectionalLight
	lamp     *scene.PointLight
	skybox   *scene.Skybox
	terrain  *scene.Terrain
	cubes    []*scene.Mesh
	sign     *scene.Mesh
	fountain *scene.ParticleSystem
	font     *graphics.Font

	shadow *renderer.ShadowPass

	owned []interface{ Release() }
	time  float64
	// totals of the last completed frame, shown by the overlay
	stats renderer.Stats
}

func newDemo(cfg *config.Engine, device *graphics.Device, r *renderer.Renderer, window *glfw.Window, im *input.Manager) (*demo, error) {
	d := &demo{cfg: cfg, renderer: r, window: window, input: im}
	if err := d.load(device); err != nil {
		d.release()
		return nil, err
	}
	return d, nil
}

func (d *demo) load(device *graphics.Device) error {
	log := logger.Named("demo")
	lib := d.renderer.Library()
	shaderFile := func(name string) func() (gpu.Shader, error) {
		return func() (gpu.Shader, error) {
			sh, err := graphics.LoadShader(d.cfg.Shaders.Path(name))
			if err != nil {
				return nil, err
			}
			return sh, nil
		}
	}
	lit, err := lib.Load("Lit", shaderFile(d.cfg.Shaders.Lit))
	if err != nil {
		return err
	}
	terrainShader, err := lib.Load("Terrain", shaderFile(d.cfg.Shaders.Terrain))
	if err != nil {
		return err
	}

	w, h := d.window.GetFramebufferSize()
	d.camera = scene.NewCamera(mgl32.Vec3{0, 8, 24}, float32(w)/float32(h), 0.1, 500)
	d.camera.Rotate(0, -15)

	d.sun = scene.NewDirectionalLight(mgl32.Vec3{-0.4, -1, -0.3}, mgl32.Vec4{1, 0.95, 0.85, 1})
	d.lamp = scene.NewPointLight(mgl32.Vec3{0, 3, 0}, mgl32.Vec4{1, 0.6, 0.3, 2})
	d.renderer.SetLights(d.sun, d.lamp)

	// Meshes
	checker, err := d.ownTexture(graphics.NewTexture(64, 64, checkerPixels(64, 8), graphics.TextureOptions{Tiled: true, Nearest: true}))
	if err != nil {
		return err
	}
	cubeMat := scene.NewMaterial(lit)
	cubeMat.AddTexture(checker)
	for i := 0; i < 5; i++ {
		cube, err := scene.NewCubeMesh(device, cubeMat)
		if err != nil {
			return err
		}
		d.owned = append(d.owned, cube)
		angle := float64(i) / 5 * 2 * math.Pi
		cube.Transform.Position = mgl32.Vec3{float32(math.Cos(angle)) * 8, 1.5, float32(math.Sin(angle)) * 8}
		cube.Transform.Scale = mgl32.Vec3{2, 2, 2}
		d.cubes = append(d.cubes, cube)
	}
	d.sign, err = scene.NewQuadMesh(device, cubeMat)
	if err != nil {
		return err
	}
	d.owned = append(d.owned, d.sign)
	d.sign.Transform.Position = mgl32.Vec3{0, 6, -12}
	d.sign.Transform.Scale = mgl32.Vec3{6, 3, 1}

	// Terrain
	terrainMat := scene.NewMaterial(terrainShader)
	terrainMat.SpecularStrength = 0.1
	for _, c := range []mgl32.Vec3{{0.30, 0.55, 0.20}, {0.45, 0.35, 0.20}, {0.55, 0.55, 0.55}, {0.85, 0.80, 0.55}} {
		tex, err := d.ownTexture(graphics.NewTexture(32, 32, noisePixels(32, c, rand.New(rand.NewSource(7))), graphics.TextureOptions{Tiled: true}))
		if err != nil {
			return err
		}
		terrainMat.AddTexture(tex)
	}
	tiles := d.cfg.Assets.TerrainTiles
	blendMap, err := d.ownTexture(graphics.NewTexture(tiles, tiles, blendMapPixels(tiles), graphics.TextureOptions{}))
	if err != nil {
		return err
	}
	d.terrain, err = scene.NewTerrain(device, scene.TerrainOptions{
		TilesX:    tiles,
		TilesZ:    tiles,
		TileSize:  2,
		Amplitude: 3,
		Seed:      42,
		Position:  mgl32.Vec3{-float32(tiles), -1, -float32(tiles)},
	}, terrainMat, blendMap)
	if err != nil {
		return err
	}
	d.owned = append(d.owned, d.terrain)

	// Skybox is optional: the demo still runs without the cube map files
	cube, err := graphics.LoadCubeMap(d.cfg.Assets.SkyboxDir, graphics.CubeMapFaces)
	if err != nil {
		log.Warn("Skybox disabled", zap.Error(err))
	} else {
		d.owned = append(d.owned, cube)
		d.skybox = scene.NewSkybox(cube, mgl32.Vec4{0.5, 0.6, 0.8, 1}, 0.2, skyboxSlot, 0.01)
	}

	// Particles fall back to an untextured quad when the atlas is missing
	var atlas gpu.Texture = d.renderer.WhiteTexture()
	rows := 1
	if tex, err := graphics.GetTexture(d.cfg.Assets.ParticleAtlas, graphics.TextureOptions{FlipY: true}); err != nil {
		log.Warn("Particle atlas not loaded", zap.Error(err))
	} else {
		atlas, rows = tex, d.cfg.Assets.AtlasRows
	}
	p := d.cfg.Particles
	d.fountain = scene.NewParticleSystem(scene.ParticleSystemConfig{
		PerSecond:      p.PerSecond,
		Speed:          p.Speed,
		GravityEffect:  p.Gravity,
		LifeSpan:       p.LifeSpan,
		Scale:          p.Scale,
		Direction:      mgl32.Vec3{0, 1, 0},
		Cone:           0.4,
		SpeedError:     0.25,
		LifeError:      0.2,
		ScaleError:     0.3,
		RandomRotation: true,
		ColorBegin:     mgl32.Vec4(p.ColorBegin),
		ColorEnd:       mgl32.Vec4(p.ColorEnd),
	}, p.PoolSize, atlas, rows, rand.New(rand.NewSource(1)))

	// Label font
	if d.cfg.Assets.Font != "" {
		d.font, err = graphics.LoadFont(device, d.cfg.Assets.Font, d.cfg.Assets.FontSize, graphics.ASCII())
	} else {
		d.font, err = graphics.ParseFont(device, goregular.TTF, d.cfg.Assets.FontSize, graphics.ASCII())
	}
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}
	d.owned = append(d.owned, d.font)

	// Shadow map
	if size := d.cfg.Renderer.ShadowMapSize; size > 0 {
		fb, err := device.NewDepthFrameBuffer(size, size)
		if err != nil {
			return err
		}
		d.owned = append(d.owned, fb)
		depth, err := graphics.LoadShader(d.cfg.Shaders.Path(d.cfg.Shaders.Depth))
		if err != nil {
			return err
		}
		d.owned = append(d.owned, depth)
		d.shadow = &renderer.ShadowPass{Target: fb, Shader: depth, MapSlot: shadowMapSlot}
	}

	log.Info("Demo scene loaded",
		zap.Int("cubes", len(d.cubes)),
		zap.Int("terrainTiles", tiles),
		zap.Bool("skybox", d.skybox != nil),
		zap.Bool("shadows", d.shadow != nil))
	return nil
}

func (d *demo) ownTexture(t *graphics.Texture, err error) (*graphics.Texture, error) {
	if err != nil {
		return nil, err
	}
	d.owned = append(d.owned, t)
	return t, nil
}

// Update moves the camera from keyboard and mouse and animates the scene
func (d *demo) Update(dt float64) {
	step := float32(dt) * moveSpeed
	if d.input.IsActive(input.ActionFast) {
		step *= 3
	}
	var forward, right, up float32
	if d.input.IsActive(input.ActionMoveForward) {
		forward += step
	}
	if d.input.IsActive(input.ActionMoveBackward) {
		forward -= step
	}
	if d.input.IsActive(input.ActionMoveRight) {
		right += step
	}
	if d.input.IsActive(input.ActionMoveLeft) {
		right -= step
	}
	if d.input.IsActive(input.ActionMoveUp) {
		up += step
	}
	if d.input.IsActive(input.ActionMoveDown) {
		up -= step
	}
	d.camera.Move(forward, right, up)
	d.camera.Rotate(lookAngles(d.input.CursorDelta()))

	d.time += dt
	t := float32(d.time)
	d.lamp.Position = mgl32.Vec3{float32(math.Cos(d.time)) * 5, 3, float32(math.Sin(d.time)) * 5}
	for i, cube := range d.cubes {
		cube.Transform.Rotation = mgl32.Vec3{0, t * (0.3 + 0.1*float32(i)), 0}
	}
	if d.skybox != nil {
		d.skybox.Update(float32(dt))
	}
	d.fountain.Update(float32(dt), mgl32.Vec3{0, 0.5, 0})
}

// Frame describes this frame for the renderer
func (d *demo) Frame(width, height int) renderer.Frame {
	if width > 0 && height > 0 {
		d.camera.SetAspect(float32(width) / float32(height))
	}
	d.stats = d.renderer.Stats()

	f := renderer.Frame{
		Camera:    d.camera,
		Meshes2D:  []renderer.Drawable{d.sign},
		Terrain:   []renderer.Drawable{d.terrain},
		Particles: []renderer.ParticleSource{d.fountain},
		Overlay:   d.overlay,
	}
	for _, c := range d.cubes {
		f.Meshes3D = append(f.Meshes3D, c)
	}
	if d.skybox != nil {
		f.Skybox = d.skybox
	}
	if d.shadow != nil {
		d.shadow.LightSpace = d.sun.LightSpaceMatrix(mgl32.Vec3{})
		f.Shadow = d.shadow
	}
	return f
}

// overlay draws a label on a dark panel above the fountain, tinted from
// green to red by the previous frame's draw call count
func (d *demo) overlay(r2d *renderer.Renderer2D) {
	stats := d.stats
	load := mgl32.Clamp(float32(stats.DrawCalls)/100, 0, 1)
	tint := config.Color{0.3, 1, 0.3, 1}.Blend(config.Color{1, 0.3, 0.3, 1}, load)

	lines := []string{
		fmt.Sprintf("particles %d", d.fountain.Pool().ActiveCount()),
		fmt.Sprintf("draw calls %d", stats.DrawCalls),
	}
	origin := mgl32.Vec3{-3, 8, 0}
	r2d.DrawText(d.font, strings.Join(lines, "\n"), origin, overlayScale, mgl32.Vec4(tint))

	center, size := textPanel(d.font, lines, origin, overlayScale, 0.2)
	r2d.DrawQuad(center, size, mgl32.Vec4{0.05, 0.05, 0.08, 1})
}

// textPanel returns the centre and size of a box around lines drawn at
// origin, padded by pad on every side. The box sits just behind the text.
func textPanel(font *graphics.Font, lines []string, origin mgl32.Vec3, scale, pad float32) (mgl32.Vec3, mgl32.Vec2) {
	var width float32
	for _, line := range lines {
		w, _ := font.Measure(line, scale)
		width = max(width, w)
	}
	lh := font.LineHeight() * scale
	top := origin[1] + lh + pad
	bottom := origin[1] - float32(len(lines)-1)*lh - lh/3 - pad
	left, right := origin[0]-pad, origin[0]+width+pad
	center := mgl32.Vec3{(left + right) / 2, (top + bottom) / 2, origin[2] - 0.01}
	return center, mgl32.Vec2{right - left, top - bottom}
}

func (d *demo) release() {
	for i := len(d.owned) - 1; i >= 0; i-- {
		d.owned[i].Release()
	}
	d.owned = nil
	logger.Log.Debug("Releasing cached textures", zap.Int("count", graphics.CachedTextures()))
	graphics.ReleaseTextures()
}
