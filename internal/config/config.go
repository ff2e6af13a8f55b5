package config

import "sync"

// RenderSettings holds the render options that may change while running
type RenderSettings struct {
	mu              sync.RWMutex
	fpsLimit        int // 0 means unlimited
	vsync           bool
	debugCollisions bool
	wireframe       bool
}

var globalRenderSettings = &RenderSettings{
	fpsLimit: 60, // default value
	vsync:    true,
}

// GetFPSLimit returns the frame cap, 0 when unlimited
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Negative values mean unlimited.
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 0 && limit < 10 {
		limit = 10
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRenderSettings.fpsLimit = limit
}

// GetVSync returns whether buffer swaps wait for vertical blank
func GetVSync() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.vsync
}

func SetVSync(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.vsync = enabled
}

// GetDebugCollisions returns whether bounding boxes are drawn around meshes
func GetDebugCollisions() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.debugCollisions
}

func SetDebugCollisions(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.debugCollisions = enabled
}

// GetWireframe returns whether polygons are rasterised as lines
func GetWireframe() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.wireframe
}

func SetWireframe(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.wireframe = enabled
}

// ToggleWireframe flips wireframe mode and returns the new value
func ToggleWireframe() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.wireframe = !globalRenderSettings.wireframe
	return globalRenderSettings.wireframe
}

// Apply copies the startup values of e into the runtime settings
func Apply(e *Engine) {
	SetFPSLimit(e.Window.FPSLimit)
	SetVSync(e.Window.VSync)
	SetDebugCollisions(e.Renderer.DebugCollisions)
}
