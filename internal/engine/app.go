// Package engine runs the frame loop: poll input, update the scene, render
// a frame, present and pace.
package engine

import (
	"time"

	"graphx/internal/config"
	"graphx/internal/gpu"
	"graphx/internal/graphics/renderer"
	"graphx/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Window is the part of a glfw window the loop needs
type Window interface {
	ShouldClose() bool
	SwapBuffers()
	GetFramebufferSize() (width, height int)
}

// Scene is the application content driven by the loop
type Scene interface {
	Update(dt float64)
	// Frame describes what to draw into a viewport of the given size
	Frame(width, height int) renderer.Frame
}

// wireframer and errorChecker are optional device capabilities
type wireframer interface{ SetWireframe(enabled bool) }
type errorChecker interface{ CheckErrors(label string) }

// SlowFrame is the frame time above which the top profiling entries are logged
const SlowFrame = 33 * time.Millisecond

type AppOptions struct {
	PollEvents func()
	ClearColor mgl32.Vec4
	Log        *zap.Logger
}

type App struct {
	window   Window
	device   gpu.Device
	renderer *renderer.Renderer
	scene    Scene
	poll     func()
	clear    mgl32.Vec4
	log      *zap.Logger

	timer      *Timer
	fpsLimiter *FPSLimiter
	paused     bool
	lastFPS    int
}

func NewApp(window Window, device gpu.Device, r *renderer.Renderer, scene Scene, opts AppOptions) *App {
	if opts.PollEvents == nil {
		opts.PollEvents = func() {}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &App{
		window:     window,
		device:     device,
		renderer:   r,
		scene:      scene,
		poll:       opts.PollEvents,
		clear:      opts.ClearColor,
		log:        opts.Log,
		timer:      NewTimer(),
		fpsLimiter: NewFPSLimiter(),
	}
}

// Run loops until the window asks to close
func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
	a.log.Info("Main loop finished",
		zap.Int("frames", a.timer.Frames()),
		zap.Float64("seconds", a.timer.Elapsed()))
}

// SetPaused stops scene updates and drops the frame rate. Rendering continues.
func (a *App) SetPaused(paused bool) { a.paused = paused }
func (a *App) Paused() bool          { return a.paused }
func (a *App) Timer() *Timer         { return a.timer }

func (a *App) tick() {
	profiling.ResetFrame()
	start := time.Now()
	dt := a.timer.Tick()

	func() { defer profiling.Track("glfw.PollEvents")(); a.poll() }()

	if !a.paused {
		func() { defer profiling.Track("scene.Update")(); a.scene.Update(dt) }()
	}

	a.render()

	func() { defer profiling.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()

	if d := time.Since(start); d > SlowFrame {
		a.log.Warn("Slow frame", zap.Duration("duration", d), zap.String("top", profiling.TopN(5)))
	}
	if fps := a.timer.FPS(); fps != a.lastFPS {
		a.lastFPS = fps
		stats := a.renderer.Stats()
		a.log.Debug("FPS",
			zap.Int("fps", fps),
			zap.Int("drawCalls", stats.DrawCalls),
			zap.Int("quads", stats.Quads),
			zap.Int("particles", stats.Particles),
			zap.Int("meshes", stats.Meshes))
	}

	a.fpsLimiter.Wait(a.paused)
}

func (a *App) render() {
	defer profiling.Track("app.Render")()

	w, h := a.window.GetFramebufferSize()
	a.device.Viewport(0, 0, int32(w), int32(h))
	a.device.Clear(a.clear)
	if wf, ok := a.device.(wireframer); ok {
		wf.SetWireframe(config.GetWireframe())
	}

	frame := a.scene.Frame(w, h)
	frame.Viewport = [4]int32{0, 0, int32(w), int32(h)}
	a.renderer.RenderFrame(frame)

	if ec, ok := a.device.(errorChecker); ok {
		ec.CheckErrors("frame")
	}
}
