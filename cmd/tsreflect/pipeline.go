package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/vfs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tsreflect/tsreflect/internal/buildcache"
	"github.com/tsreflect/tsreflect/internal/compiler"
	"github.com/tsreflect/tsreflect/internal/config"
	"github.com/tsreflect/tsreflect/internal/converter"
	"github.com/tsreflect/tsreflect/internal/diagnostic"
	"github.com/tsreflect/tsreflect/internal/logger"
	"github.com/tsreflect/tsreflect/internal/serialize"
	"github.com/tsreflect/tsreflect/internal/tsoracle"
)

// ErrConversionFailed is returned when a pass finished but recorded errors,
// including warnings promoted by strict mode. Nothing is written for that
// project.
var ErrConversionFailed = errors.New("conversion reported errors")

// projectResult describes one finished pass.
type projectResult struct {
	TSConfig    string
	Output      string
	Reflections int
	Cached      bool
	Duration    time.Duration
	Diagnostics *diagnostic.Collector
	Err         error
	// CompilerDiagnostics is set when the program failed to load.
	CompilerDiagnostics []*ast.Diagnostic
}

// pipeline runs one conversion pass per configured project.
type pipeline struct {
	cfg *config.Config
	cwd string
	// newFS is called once per pass so that reruns observe edits.
	newFS func() vfs.FS
	log   *zap.SugaredLogger
}

func newPipeline(s *settings) *pipeline {
	return &pipeline{
		cfg:   s.cfg,
		cwd:   s.cwd,
		newFS: compiler.DefaultFS,
		log:   logger.ComponentLogger("pipeline"),
	}
}

// run converts every project concurrently. Each pass owns its program,
// checker and project. Results are returned in configuration order, also
// for the projects that failed; the error joins every failure.
func (p *pipeline) run(ctx context.Context) ([]projectResult, error) {
	results := make([]projectResult, len(p.cfg.TSConfig))
	errs := make([]error, len(p.cfg.TSConfig))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, tsconfig := range p.cfg.TSConfig {
		g.Go(func() error {
			results[i], errs[i] = p.convertProject(ctx, tsconfig)
			if errs[i] != nil {
				errs[i] = errors.Wrapf(errs[i], "%s", relativePath(p.cwd, tsconfig))
				results[i].Err = errs[i]
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, errors.Join(errs...)
}

func (p *pipeline) convertProject(ctx context.Context, tsconfig string) (res projectResult, err error) {
	start := time.Now()
	name := buildcache.ProjectName(tsconfig)
	res = projectResult{
		TSConfig:    tsconfig,
		Output:      filepath.Join(p.cfg.Output.Path, name+p.cfg.Extension()),
		Diagnostics: diagnostic.NewCollector(p.cfg.Diagnostics.Strict, p.cfg.Diagnostics.Quiet),
	}
	log := p.log.With(logger.FieldTSConfig, relativePath(p.cwd, tsconfig))
	res.Diagnostics.SetLogger(log)
	defer func() { res.Duration = time.Since(start) }()

	fs := p.newFS()
	projectDir := filepath.Dir(tsconfig)

	cachePath := buildcache.CachePath(p.cfg.Output.Path, name)
	var fingerprint string
	if p.cfg.Cache {
		files, err := compiler.RootFiles(fs, projectDir, tsconfig)
		if err != nil {
			res.CompilerDiagnostics = compiler.DiagnosticsOf(err)
			return res, err
		}
		fingerprint = buildcache.Fingerprint(files, fs.ReadFile, p.fingerprintSettings()...)
		if buildcache.Load(cachePath).IsValid(fingerprint) {
			log.Infow("unchanged, skipping", logger.FieldOutput, res.Output)
			res.Cached = true
			return res, nil
		}
	}

	prog, err := compiler.Load(ctx, compiler.Options{
		FS:             fs,
		Cwd:            projectDir,
		TSConfig:       tsconfig,
		Exclude:        p.cfg.Exclude,
		SkipErrorCheck: p.cfg.SkipErrorCheck,
		Logger:         log,
	})
	if err != nil {
		res.CompilerDiagnostics = compiler.DiagnosticsOf(err)
		return res, err
	}
	defer prog.Close()

	o := tsoracle.New(prog.Checker(), prog.SourceFiles())
	pass := converter.NewPass(o, name,
		converter.WithLogger(log),
		converter.WithDiagnostics(res.Diagnostics))
	project, err := pass.Convert()
	if err != nil {
		return res, err
	}
	if n := res.Diagnostics.ErrorCount(); n > 0 {
		buildcache.Delete(cachePath)
		return res, errors.WithHint(
			errors.Wrapf(ErrConversionFailed, "%d error(s)", n),
			"fix the reported declarations or run without --strict")
	}
	res.Reflections = project.Count()

	if err := writeProject(res.Output, func(w io.Writer) error {
		return serialize.Write(w, project, serialize.Options{
			Format: serialize.Format(p.cfg.Output.Format),
			Pretty: p.cfg.Output.Pretty,
		})
	}); err != nil {
		return res, err
	}

	if p.cfg.Cache {
		if err := buildcache.Save(cachePath, buildcache.New(fingerprint, res.Output)); err != nil {
			log.Warnw("could not save cache", logger.FieldError, err)
		}
	}
	log.Infow("wrote project",
		logger.FieldOutput, res.Output,
		logger.FieldCount, res.Reflections)
	return res, nil
}

// fingerprintSettings lists every option that changes the written bytes.
func (p *pipeline) fingerprintSettings() []string {
	s := []string{
		version,
		strconv.Itoa(serialize.SchemaVersion),
		p.cfg.Output.Format,
		strconv.FormatBool(p.cfg.Output.Pretty),
		strconv.FormatBool(p.cfg.Diagnostics.Strict),
		strconv.FormatBool(p.cfg.SkipErrorCheck),
	}
	return append(s, p.cfg.Exclude...)
}

// writeProject writes through a temp file so readers never see a partial
// document.
func writeProject(path string, encode func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", filepath.Dir(path))
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp output")
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "renaming output to %s", path)
	}
	return nil
}

func relativePath(cwd, path string) string {
	if rel, err := filepath.Rel(cwd, path); err == nil {
		return rel
	}
	return path
}
