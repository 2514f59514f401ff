package converter

import (
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/tsreflect/tsreflect/internal/logger"
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

// Pass converts one analyzed program into a project. A pass is single-use
// and not safe for concurrent use; independent programs use independent
// passes.
type Pass struct {
	oracle oracle.Oracle
	name   string
	opts   []Option
	logger *zap.SugaredLogger
}

// NewPass prepares a pass producing a project called name.
func NewPass(o oracle.Oracle, name string, opts ...Option) *Pass {
	p := &Pass{oracle: o, name: name, opts: opts}
	var state passState
	for _, opt := range opts {
		opt(&state)
	}
	p.logger = state.logger
	if p.logger == nil {
		p.logger = logger.ComponentLogger("converter")
	}
	return p
}

// Convert runs the pass over every source file. When the oracle breaks the
// converter's assumptions the partial project is discarded and the returned
// error satisfies IsContractViolation.
func (p *Pass) Convert() (project *model.Project, err error) {
	start := time.Now()
	files := p.oracle.SourceFiles()
	p.logger.Infow("conversion started",
		logger.FieldOutput, p.name,
		logger.FieldCount, len(files))

	project = model.NewProject(p.name)
	opts := append([]Option{WithLogger(p.logger)}, p.opts...)
	ctx := NewContext(p.oracle, project, opts...)

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(error)
		if !ok || !errors.HasAssertionFailure(e) {
			panic(r)
		}
		project = nil
		err = errors.Wrapf(e, "converting %s", p.name)
		p.logger.Errorw("conversion aborted",
			logger.FieldOutput, p.name,
			logger.FieldError, e.Error())
	}()

	for _, file := range files {
		ConvertSourceFile(ctx, file)
	}

	p.logger.Infow("conversion finished",
		logger.FieldOutput, p.name,
		logger.FieldCount, project.Count(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return project, nil
}
