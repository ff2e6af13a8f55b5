package main

import (
	"fmt"

	"graphx/internal/config"
	"graphx/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupWindow(cfg config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	// The FPS limiter paces frames when vsync is off
	if config.GetVSync() {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}

const lookSensitivity = 0.1

// lookAngles turns cursor motion into yaw and pitch deltas in degrees.
// Moving the cursor up looks up.
func lookAngles(dx, dy float64) (float32, float32) {
	return float32(dx) * lookSensitivity, float32(-dy) * lookSensitivity
}

type pauser interface {
	Paused() bool
	SetPaused(paused bool)
}

// controls handles the actions that must work while the scene is paused
type controls struct {
	window *glfw.Window
	input  *input.Manager
	app    pauser
}

func newControls(window *glfw.Window, im *input.Manager) *controls {
	im.Attach(window)
	return &controls{window: window, input: im}
}

// poll clears last frame's edges, pumps glfw events and applies global actions
func (c *controls) poll() {
	c.input.PostUpdate()
	glfw.PollEvents()

	if c.input.JustPressed(input.ActionToggleWireframe) {
		config.ToggleWireframe()
	}
	if c.input.JustPressed(input.ActionQuit) {
		c.window.SetShouldClose(true)
	}
	if c.app != nil && c.input.JustPressed(input.ActionPause) {
		c.app.SetPaused(!c.app.Paused())
		if c.app.Paused() {
			c.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		} else {
			c.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			c.input.ResetCursor()
		}
	}
}
