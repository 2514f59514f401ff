// Package converter turns the oracle's view of a program into a reflection
// tree. It holds the type conversion engine, the signature and parameter
// factory, member conversion and the top-level declaration driver.
package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tsreflect/tsreflect/internal/diagnostic"
	"github.com/tsreflect/tsreflect/internal/logger"
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

// Context is the traversal state threaded through a conversion pass. Derived
// contexts differ only in scope; the registry, guard, events, diagnostics and
// logger are shared by every context of one pass.
type Context struct {
	oracle  oracle.Oracle
	project *model.Project
	scope   model.Reflection
	pass    *passState
}

type passState struct {
	guard  map[uint64]struct{}
	events *Events
	diags  *diagnostic.Collector
	logger *zap.SugaredLogger
}

// Option configures a conversion pass.
type Option func(*passState)

// WithLogger sets the logger used for pass and degradation messages.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *passState) { s.logger = l }
}

// WithDiagnostics sets the collector receiving degraded conversions.
func WithDiagnostics(c *diagnostic.Collector) Option {
	return func(s *passState) { s.diags = c }
}

// WithEvents sets the listener hub notified of created reflections.
func WithEvents(e *Events) Option {
	return func(s *passState) { s.events = e }
}

// NewContext creates the root context of a pass. Its scope is the project.
func NewContext(o oracle.Oracle, project *model.Project, opts ...Option) *Context {
	state := &passState{guard: make(map[uint64]struct{})}
	for _, opt := range opts {
		opt(state)
	}
	if state.logger == nil {
		state.logger = logger.ComponentLogger("converter")
	}
	if state.events == nil {
		state.events = NewEvents()
	}
	if state.diags == nil {
		state.diags = diagnostic.NewCollector(false, false)
	}
	// Degradations reach the log through the collector only.
	if !state.diags.HasLogger() {
		state.diags.SetLogger(state.logger)
	}
	return &Context{oracle: o, project: project, scope: project, pass: state}
}

func (c *Context) Oracle() oracle.Oracle      { return c.oracle }
func (c *Context) Project() *model.Project    { return c.project }
func (c *Context) Scope() model.Reflection    { return c.scope }
func (c *Context) Logger() *zap.SugaredLogger { return c.pass.logger }
func (c *Context) Diagnostics() *diagnostic.Collector {
	return c.pass.diags
}

// WithScope returns a context whose scope is r. The receiver is unchanged.
func (c *Context) WithScope(r model.Reflection) *Context {
	derived := *c
	derived.scope = r
	return &derived
}

// Register records r in the project. When sym is non-nil the symbol is
// mapped to r unless an earlier reflection already claimed it.
func (c *Context) Register(r model.Reflection, sym oracle.Symbol) {
	c.project.Add(r)
	if sym == nil {
		return
	}
	if !c.project.RegisterSymbol(sym.ID(), r) {
		c.pass.logger.Debugw("symbol already registered",
			logger.FieldSymbol, sym.Name(),
			"kind", string(r.Kind()))
	}
}

// Notify raises ev for r. Anchor is the node documentation comments attach
// to, and may be nil.
func (c *Context) Notify(ev Event, r model.Reflection, anchor oracle.Node) {
	c.pass.events.emit(ev, r, anchor)
}

func (c *Context) guarded(sym oracle.Symbol) bool {
	_, ok := c.pass.guard[sym.ID()]
	return ok
}

func (c *Context) push(sym oracle.Symbol) {
	c.pass.guard[sym.ID()] = struct{}{}
}

func (c *Context) pop(sym oracle.Symbol) {
	delete(c.pass.guard, sym.ID())
}

// degrade records a non-fatal conversion problem at node and returns the
// Unknown type carrying text.
func (c *Context) degrade(category diagnostic.Category, node oracle.Node, text, format string, args ...any) model.Type {
	msg := fmt.Sprintf(format, args...)
	var file string
	var line, col int
	if node != nil {
		pos := node.Pos()
		file, line, col = pos.File, pos.Line+1, pos.Character+1
	}
	c.pass.diags.WarnAt(category, file, line, col, msg)
	return &model.UnknownType{Text: text}
}
