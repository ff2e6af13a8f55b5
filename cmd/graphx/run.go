package main

import (
	"fmt"

	"graphx/internal/config"
	"graphx/internal/engine"
	"graphx/internal/gpu"
	"graphx/internal/graphics"
	"graphx/internal/graphics/renderer"
	"graphx/internal/input"
	"graphx/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func run(cfg *config.Engine) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	device, err := graphics.NewDevice(logger.Named("gl"))
	if err != nil {
		return fmt.Errorf("init OpenGL: %w", err)
	}

	shaders, err := loadRendererShaders(cfg.Shaders, config.GetDebugCollisions())
	if err != nil {
		return err
	}
	r, err := renderer.New(device, renderer.Options{
		MaxQuads:        cfg.Renderer.MaxQuads,
		MaxParticles:    cfg.Renderer.MaxParticles,
		TextureSlots:    cfg.Renderer.TextureSlots,
		DebugCollisions: config.GetDebugCollisions(),
	}, shaders, logger.Named("renderer"))
	if err != nil {
		return err
	}
	defer r.Shutdown()

	ctl := newControls(window, input.NewManager())
	demo, err := newDemo(cfg, device, r, window, ctl.input)
	if err != nil {
		return err
	}
	defer demo.release()
	device.CheckErrors("setup")

	app := engine.NewApp(window, device, r, demo, engine.AppOptions{
		PollEvents: ctl.poll,
		ClearColor: mgl32.Vec4(cfg.Renderer.ClearColor),
		Log:        logger.Named("app"),
	})
	ctl.app = app

	logger.Log.Info("Starting main loop",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("fpsLimit", config.GetFPSLimit()))
	app.Run()
	return nil
}

// loadRendererShaders compiles the programs the renderer owns. Ownership
// passes to the renderer, which releases them on Shutdown.
func loadRendererShaders(cfg config.Shaders, debug bool) (renderer.Shaders, error) {
	load := func(name string) (gpu.Shader, error) {
		sh, err := graphics.LoadShader(cfg.Path(name))
		if err != nil {
			return nil, err
		}
		return sh, nil
	}

	var s renderer.Shaders
	var err error
	if s.Quad, err = load(cfg.Quad); err != nil {
		return s, err
	}
	if s.Particle, err = load(cfg.Particle); err != nil {
		return s, err
	}
	if s.Skybox, err = load(cfg.Skybox); err != nil {
		return s, err
	}
	if debug {
		if s.Debug, err = load(cfg.Debug); err != nil {
			return s, err
		}
	}
	return s, nil
}
