package logger

import "go.uber.org/zap"

// Standard field names for structured logging across tsreflect.
const (
	FieldComponent  = "component"
	FieldCategory   = "category"
	FieldNodeKind   = "node_kind"
	FieldSymbol     = "symbol"
	FieldFile       = "file"
	FieldLine       = "line"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldTSConfig   = "tsconfig"
	FieldOutput     = "output"
	FieldError      = "error"
)

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	type Pass struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewPass() *Pass {
//	    return &Pass{logger: logger.ComponentLogger("converter")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
