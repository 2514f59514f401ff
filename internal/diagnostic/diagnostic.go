// Package diagnostic collects structured, non-fatal findings produced while
// converting a program: degraded types, unresolved references and projection
// failures.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/tsreflect/tsreflect/internal/logger"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category classifies diagnostics for filtering.
type Category string

const (
	CategoryTypeUnsupported     Category = "type-unsupported"
	CategoryReferenceUnresolved Category = "reference-unresolved"
	CategoryProjectionFailed    Category = "projection-failed"
	CategoryConfigInvalid       Category = "config-invalid"
	CategoryCompiler            Category = "compiler"
)

// Diagnostic represents a structured diagnostic message.
type Diagnostic struct {
	Severity Severity
	Category Category
	File     string // source file path
	Line     int    // 1-based line number (0 = unknown)
	Column   int    // 1-based column number (0 = unknown)
	Message  string
	Hint     string // optional suggestion
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	return d.format(false)
}

func (d Diagnostic) format(colored bool) string {
	var sb strings.Builder

	if d.File != "" {
		loc := d.File
		if d.Line > 0 {
			loc += fmt.Sprintf(":%d", d.Line)
			if d.Column > 0 {
				loc += fmt.Sprintf(":%d", d.Column)
			}
		}
		if colored {
			loc = color.CyanString(loc)
		}
		sb.WriteString(loc)
		sb.WriteString(" - ")
	}

	sev := d.Severity.String()
	if colored {
		switch d.Severity {
		case SeverityError:
			sev = color.RedString(sev)
		case SeverityWarning:
			sev = color.YellowString(sev)
		default:
			sev = color.BlueString(sev)
		}
	}
	sb.WriteString(sev)
	sb.WriteString(": ")

	if d.Category != "" {
		sb.WriteString("[")
		sb.WriteString(string(d.Category))
		sb.WriteString("] ")
	}

	sb.WriteString(d.Message)

	if d.Hint != "" {
		sb.WriteString("\n  hint: ")
		sb.WriteString(d.Hint)
	}

	return sb.String()
}

// Collector collects diagnostics during a conversion pass. A Collector is
// owned by one pass and is not safe for concurrent use.
type Collector struct {
	diagnostics []Diagnostic
	strict      bool // if true, warnings become errors
	quiet       bool // if true, suppress warnings
	logger      *zap.SugaredLogger
}

// NewCollector creates a new diagnostic collector.
func NewCollector(strict, quiet bool) *Collector {
	return &Collector{
		strict: strict,
		quiet:  quiet,
	}
}

// SetLogger mirrors every recorded diagnostic to l. Warnings are logged at
// warn level even when quiet mode drops them from the collector.
func (c *Collector) SetLogger(l *zap.SugaredLogger) {
	if c != nil {
		c.logger = l
	}
}

// HasLogger reports whether recorded diagnostics are mirrored to a logger.
func (c *Collector) HasLogger() bool {
	return c != nil && c.logger != nil
}

// Add records d, applying strict and quiet mode.
func (c *Collector) Add(d Diagnostic) {
	if c == nil {
		return
	}
	if d.Severity == SeverityWarning && c.strict {
		d.Severity = SeverityError
	}
	c.log(d)
	if c.quiet && d.Severity != SeverityError {
		return
	}
	c.diagnostics = append(c.diagnostics, d)
}

func (c *Collector) log(d Diagnostic) {
	if c.logger == nil {
		return
	}
	fields := []interface{}{logger.FieldCategory, string(d.Category)}
	if d.File != "" {
		fields = append(fields, logger.FieldFile, d.File, logger.FieldLine, d.Line)
	}
	switch d.Severity {
	case SeverityError:
		c.logger.Errorw(d.Message, fields...)
	case SeverityWarning:
		c.logger.Warnw(d.Message, fields...)
	default:
		c.logger.Debugw(d.Message, fields...)
	}
}

// Warn adds a warning diagnostic.
func (c *Collector) Warn(category Category, file string, line int, message string) {
	c.Add(Diagnostic{Severity: SeverityWarning, Category: category, File: file, Line: line, Message: message})
}

// WarnAt adds a warning diagnostic with a column.
func (c *Collector) WarnAt(category Category, file string, line, column int, message string) {
	c.Add(Diagnostic{Severity: SeverityWarning, Category: category, File: file, Line: line, Column: column, Message: message})
}

// WarnWithHint adds a warning with a suggestion.
func (c *Collector) WarnWithHint(category Category, file string, line int, message, hint string) {
	c.Add(Diagnostic{Severity: SeverityWarning, Category: category, File: file, Line: line, Message: message, Hint: hint})
}

// Error adds an error diagnostic.
func (c *Collector) Error(category Category, file string, line int, message string) {
	c.Add(Diagnostic{Severity: SeverityError, Category: category, File: file, Line: line, Message: message})
}

// Info adds an informational diagnostic.
func (c *Collector) Info(category Category, file string, line int, message string) {
	c.Add(Diagnostic{Severity: SeverityInfo, Category: category, File: file, Line: line, Message: message})
}

// Merge appends other's diagnostics as already classified.
func (c *Collector) Merge(other *Collector) {
	if c == nil || other == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, other.diagnostics...)
}

// Diagnostics returns all collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	return c.diagnostics
}

// ByCategory returns the diagnostics of one category.
func (c *Collector) ByCategory(category Category) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics() {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors returns true if any error-level diagnostics exist.
func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}

// ErrorCount returns the number of error diagnostics.
func (c *Collector) ErrorCount() int {
	return c.count(SeverityError)
}

// WarningCount returns the number of warning diagnostics.
func (c *Collector) WarningCount() int {
	return c.count(SeverityWarning)
}

func (c *Collector) count(sev Severity) int {
	n := 0
	for _, d := range c.Diagnostics() {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// FormatAll formats all diagnostics as a multi-line string. Colors follow
// fatih/color's terminal detection when colored is set.
func (c *Collector) FormatAll(colored bool) string {
	if c == nil || len(c.diagnostics) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range c.diagnostics {
		sb.WriteString(d.format(colored))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary returns a summary line like "2 warning(s), 1 error(s)".
func (c *Collector) Summary() string {
	if c == nil {
		return ""
	}
	warnings := c.WarningCount()
	errs := c.ErrorCount()

	parts := []string{}
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errs))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warnings))
	}
	if len(parts) == 0 {
		return "no issues"
	}
	return strings.Join(parts, ", ")
}
