// Package config loads the engine configuration file and holds the render
// settings that can be changed at runtime.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MaxTextureSlots is the most texture units a batch may bind
const MaxTextureSlots = 32

// Engine is the startup configuration read from YAML
type Engine struct {
	Window    Window    `yaml:"window"`
	Renderer  Renderer  `yaml:"renderer"`
	Shaders   Shaders   `yaml:"shaders"`
	Assets    Assets    `yaml:"assets"`
	Particles Particles `yaml:"particles"`
	Logging   Logging   `yaml:"logging"`
}

type Window struct {
	Title    string `yaml:"title"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	VSync    bool   `yaml:"vsync"`
	FPSLimit int    `yaml:"fps_limit"`
}

type Renderer struct {
	MaxQuads        int   `yaml:"max_quads"`
	MaxParticles    int   `yaml:"max_particles"`
	TextureSlots    int   `yaml:"texture_slots"`
	DebugCollisions bool  `yaml:"debug_collisions"`
	ShadowMapSize   int   `yaml:"shadow_map_size"`
	ClearColor      Color `yaml:"clear_color"`
}

// Shaders names the combined shader files, relative to Dir
type Shaders struct {
	Dir      string `yaml:"dir"`
	Quad     string `yaml:"quad"`
	Particle string `yaml:"particle"`
	Skybox   string `yaml:"skybox"`
	Debug    string `yaml:"debug"`
	Depth    string `yaml:"depth"`
	Lit      string `yaml:"lit"`
	Terrain  string `yaml:"terrain"`
}

// Path returns the full path of a shader file
func (s Shaders) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

type Assets struct {
	SkyboxDir     string `yaml:"skybox_dir"`
	Font          string `yaml:"font"`
	FontSize      int    `yaml:"font_size"`
	ParticleAtlas string `yaml:"particle_atlas"`
	AtlasRows     int    `yaml:"atlas_rows"`
	TerrainTiles  int    `yaml:"terrain_tiles"`
}

// Particles configures the demo emitter
type Particles struct {
	PerSecond  float32 `yaml:"per_second"`
	Speed      float32 `yaml:"speed"`
	LifeSpan   float32 `yaml:"life_span"`
	Scale      float32 `yaml:"scale"`
	Gravity    float32 `yaml:"gravity"`
	PoolSize   int     `yaml:"pool_size"`
	ColorBegin Color   `yaml:"color_begin"`
	ColorEnd   Color   `yaml:"color_end"`
}

type Logging struct {
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is given
func Default() *Engine {
	return &Engine{
		Window: Window{
			Title:    "graphx",
			Width:    1280,
			Height:   720,
			VSync:    true,
			FPSLimit: 60,
		},
		Renderer: Renderer{
			MaxQuads:      10000,
			MaxParticles:  10000,
			TextureSlots:  MaxTextureSlots,
			ShadowMapSize: 2048,
			ClearColor:    Color{0.1, 0.1, 0.12, 1},
		},
		Shaders: Shaders{
			Dir:      "assets/shaders",
			Quad:     "quad.glsl",
			Particle: "particle.glsl",
			Skybox:   "skybox.glsl",
			Debug:    "debug.glsl",
			Depth:    "depth.glsl",
			Lit:      "lit.glsl",
			Terrain:  "terrain.glsl",
		},
		Assets: Assets{
			SkyboxDir:     "assets/textures/skybox",
			FontSize:      32,
			ParticleAtlas: "assets/textures/particles.png",
			AtlasRows:     4,
			TerrainTiles:  64,
		},
		Particles: Particles{
			PerSecond:  60,
			Speed:      4,
			LifeSpan:   2.5,
			Scale:      0.5,
			Gravity:    0.3,
			PoolSize:   2000,
			ColorBegin: Color{1, 0.8, 0.4, 1},
			ColorEnd:   Color{0.6, 0.1, 0.05, 0},
		},
	}
}

// Load reads path over the defaults, so a file only names what it changes
func Load(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Engine, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unusable sizes and clamps the texture slot count to [2, 32]
func (e *Engine) Validate() error {
	var errs []error
	if e.Window.Width <= 0 || e.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", e.Window.Width, e.Window.Height))
	}
	if e.Renderer.MaxQuads <= 0 {
		errs = append(errs, fmt.Errorf("renderer.max_quads must be positive, got %d", e.Renderer.MaxQuads))
	}
	if e.Renderer.MaxParticles <= 0 {
		errs = append(errs, fmt.Errorf("renderer.max_particles must be positive, got %d", e.Renderer.MaxParticles))
	}
	if e.Renderer.ShadowMapSize < 0 {
		errs = append(errs, fmt.Errorf("renderer.shadow_map_size must not be negative, got %d", e.Renderer.ShadowMapSize))
	}
	if e.Particles.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("particles.pool_size must not be negative, got %d", e.Particles.PoolSize))
	}
	if e.Assets.AtlasRows <= 0 {
		errs = append(errs, fmt.Errorf("assets.atlas_rows must be positive, got %d", e.Assets.AtlasRows))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if e.Renderer.TextureSlots < 2 {
		e.Renderer.TextureSlots = 2
	}
	if e.Renderer.TextureSlots > MaxTextureSlots {
		e.Renderer.TextureSlots = MaxTextureSlots
	}
	return nil
}
