package gpu

import (
	"fmt"

	"go.uber.org/zap"
)

// Severity classifies driver debug messages
type Severity int

const (
	SeverityNotification Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityNotification:
		return "Notification"
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// DebugMessage is a driver diagnostic translated out of the graphics API
type DebugMessage struct {
	ID       uint32
	Source   string
	Type     string
	Severity Severity
	Text     string
}

// HandleDebugMessage logs msg at the level matching its severity. High
// severity messages are logged as critical and then panic.
func HandleDebugMessage(log *zap.Logger, msg DebugMessage) {
	fields := []zap.Field{
		zap.Uint32("id", msg.ID),
		zap.String("source", msg.Source),
		zap.String("type", msg.Type),
		zap.Stringer("severity", msg.Severity),
	}

	switch msg.Severity {
	case SeverityHigh:
		log.Panic("[OpenGL Critical Error] "+msg.Text, fields...)
	case SeverityMedium:
		log.Error("[OpenGL Error] "+msg.Text, fields...)
	case SeverityLow:
		log.Warn("[OpenGL Warning] "+msg.Text, fields...)
	default:
		log.Debug("[OpenGL Debug Message] "+msg.Text, fields...)
	}
}
