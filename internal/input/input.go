// Package input maps glfw keys and cursor motion to camera actions.
package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionFast
	ActionPause
	ActionToggleWireframe
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// Manager tracks key state per action and accumulates cursor motion. Event
// handlers run from glfw callbacks; queries run on the frame loop.
type Manager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	// cursor tracking for mouse look
	lastX, lastY float64
	haveCursor   bool
	dx, dy       float64
}

// NewManager creates a Manager with WASD, Space/Shift and Escape bindings
func NewManager() *Manager {
	m := &Manager{keyToActions: make(map[glfw.Key][]Action)}

	m.BindKey(glfw.KeyW, ActionMoveForward)
	m.BindKey(glfw.KeyUp, ActionMoveForward)
	m.BindKey(glfw.KeyS, ActionMoveBackward)
	m.BindKey(glfw.KeyDown, ActionMoveBackward)
	m.BindKey(glfw.KeyA, ActionMoveLeft)
	m.BindKey(glfw.KeyLeft, ActionMoveLeft)
	m.BindKey(glfw.KeyD, ActionMoveRight)
	m.BindKey(glfw.KeyRight, ActionMoveRight)
	m.BindKey(glfw.KeySpace, ActionMoveUp)
	m.BindKey(glfw.KeyLeftShift, ActionMoveDown)
	m.BindKey(glfw.KeyLeftControl, ActionFast)
	m.BindKey(glfw.KeyEscape, ActionPause)
	m.BindKey(glfw.KeyF, ActionToggleWireframe)
	m.BindKey(glfw.KeyQ, ActionQuit)

	return m
}

// BindKey binds a physical key to a logical action
func (m *Manager) BindKey(key glfw.Key, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

// HandleKeyEvent updates the state of every action bound to key
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions, ok := m.keyToActions[key]
	if !ok {
		return
	}
	pressed := action == glfw.Press || action == glfw.Repeat
	for _, act := range actions {
		// Detect edges immediately when event arrives
		if pressed && !m.currentState[act] {
			m.justPressed[act] = true
		}
		if !pressed && m.currentState[act] {
			m.justReleased[act] = true
		}
		m.currentState[act] = pressed
	}
}

// HandleCursor accumulates motion since the previous position. The first
// position after ResetCursor only becomes the reference.
func (m *Manager) HandleCursor(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.haveCursor {
		m.dx += x - m.lastX
		m.dy += y - m.lastY
	}
	m.lastX, m.lastY = x, y
	m.haveCursor = true
}

// ResetCursor forgets the reference position, e.g. after the cursor is recaptured
func (m *Manager) ResetCursor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.haveCursor = false
	m.dx, m.dy = 0, 0
}

// CursorDelta returns and clears the accumulated motion. y grows downward.
func (m *Manager) CursorDelta() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dx, dy := m.dx, m.dy
	m.dx, m.dy = 0, 0
	return dx, dy
}

// Attach routes the window's key and cursor callbacks to m
func (m *Manager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		m.HandleCursor(xpos, ypos)
	})
}

// PostUpdate clears the edge flags. Call it once per frame before polling events.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.justPressed[:])
	clear(m.justReleased[:])
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState[action]
}

// JustPressed returns true only if the action was pressed since the last PostUpdate
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

// JustReleased returns true only if the action was released since the last PostUpdate
func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}
