package graphics

import (
	"graphx/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glErrorName maps a glGetError code to its enum name
func glErrorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.STACK_OVERFLOW:
		return "STACK_OVERFLOW"
	case gl.STACK_UNDERFLOW:
		return "STACK_UNDERFLOW"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	}
	return "UNKNOWN"
}

// ErrorMessage translates a GL error code raised after label into a debug message
func ErrorMessage(code uint32, label string) gpu.DebugMessage {
	severity := gpu.SeverityMedium
	if code == gl.OUT_OF_MEMORY {
		severity = gpu.SeverityHigh
	}
	return gpu.DebugMessage{
		ID:       code,
		Source:   "API",
		Type:     "Error",
		Severity: severity,
		Text:     glErrorName(code) + " after " + label,
	}
}

// CheckErrors drains the GL error queue, logging each entry
func (d *Device) CheckErrors(label string) {
	for {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			return
		}
		gpu.HandleDebugMessage(d.log, ErrorMessage(code, label))
	}
}
