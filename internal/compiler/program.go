// Package compiler loads a TypeScript program with typescript-go and hands
// out the checker the conversion pass queries.
package compiler

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/core"
	"github.com/microsoft/typescript-go/shim/tsoptions"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"
	"go.uber.org/zap"

	"github.com/tsreflect/tsreflect/internal/logger"
)

// ErrProgramInvalid matches every DiagnosticsError.
var ErrProgramInvalid = errors.New("program has errors")

// DiagnosticsError carries the compiler diagnostics that stopped a load.
type DiagnosticsError struct {
	Diagnostics []*ast.Diagnostic
}

func (e *DiagnosticsError) Error() string {
	return fmt.Sprintf("%d compiler diagnostic(s)", len(e.Diagnostics))
}

func (e *DiagnosticsError) Unwrap() error { return ErrProgramInvalid }

// Options controls how a program is loaded.
type Options struct {
	// FS defaults to DefaultFS().
	FS  vfs.FS
	Cwd string
	// TSConfig is resolved against Cwd.
	TSConfig string
	// Exclude lists globs of source files the pass should not convert. The
	// files are still part of the program.
	Exclude []string
	// SkipErrorCheck converts even when the program has semantic errors.
	SkipErrorCheck bool
	Logger         *zap.SugaredLogger
}

// Program is a loaded, bound program with an acquired checker. Close must
// be called to return the checker to the program's pool.
type Program struct {
	program *shimcompiler.Program
	checker *shimchecker.Checker
	release func()
	exclude []string
	cwd     string
}

// ParseTSConfig parses a tsconfig.json with tsgo's JSONC parser, following
// extends chains.
func ParseTSConfig(fs vfs.FS, cwd, tsconfigPath string, host shimcompiler.CompilerHost) (*tsoptions.ParsedCommandLine, error) {
	resolved := tspath.ResolvePath(cwd, tsconfigPath)
	if !fs.FileExists(resolved) {
		return nil, errors.WithHint(
			errors.Newf("could not find tsconfig at %s", resolved),
			"pass the project file with -p or set tsconfig in the config file")
	}

	parsed, diags := tsoptions.GetParsedCommandLineOfConfigFile(resolved, &core.CompilerOptions{}, nil, host, nil)
	if len(diags) > 0 {
		return nil, errors.Wrapf(&DiagnosticsError{Diagnostics: diags}, "parsing %s", resolved)
	}
	if parsed != nil && len(parsed.Errors) > 0 {
		return nil, errors.Wrapf(&DiagnosticsError{Diagnostics: parsed.Errors}, "parsing %s", resolved)
	}
	return parsed, nil
}

// RootFiles parses a tsconfig without building a program and returns the
// config file followed by the source files it names. It is enough to tell
// whether a previous pass can be reused.
func RootFiles(fs vfs.FS, cwd, tsconfigPath string) ([]string, error) {
	if fs == nil {
		fs = DefaultFS()
	}
	parsed, err := ParseTSConfig(fs, cwd, tsconfigPath, newHost(cwd, fs))
	if err != nil {
		return nil, err
	}
	return append([]string{tspath.ResolvePath(cwd, tsconfigPath)}, parsed.FileNames()...), nil
}

// Load parses the tsconfig, creates and binds the program, checks it unless
// opts.SkipErrorCheck is set, and acquires a checker.
func Load(ctx context.Context, opts Options) (*Program, error) {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("compiler")
	}
	fs := opts.FS
	if fs == nil {
		fs = DefaultFS()
	}
	host := newHost(opts.Cwd, fs)

	parsed, err := ParseTSConfig(fs, opts.Cwd, opts.TSConfig, host)
	if err != nil {
		return nil, err
	}

	program := shimcompiler.NewProgram(shimcompiler.ProgramOptions{
		Config:                      parsed,
		SingleThreaded:              core.TSTrue,
		Host:                        host,
		UseSourceOfProjectReference: true,
	})
	if program == nil {
		return nil, errors.Newf("failed to create program for %s", opts.TSConfig)
	}
	if diags := program.GetProgramDiagnostics(); CountErrors(diags) > 0 {
		return nil, errors.Wrapf(&DiagnosticsError{Diagnostics: diags}, "creating program for %s", opts.TSConfig)
	}
	program.BindSourceFiles()

	if !opts.SkipErrorCheck {
		diags := gatherDiagnostics(ctx, program)
		if n := CountErrors(diags); n > 0 {
			log.Warnw("program has errors",
				logger.FieldTSConfig, opts.TSConfig,
				logger.FieldCount, n)
			return nil, errors.WithHint(
				errors.Wrapf(&DiagnosticsError{Diagnostics: diags}, "checking %s", opts.TSConfig),
				"fix the errors or pass --skip-error-check")
		}
	}

	checker, release := shimcompiler.Program_GetTypeChecker(program, ctx)
	if checker == nil {
		return nil, errors.Newf("failed to acquire a checker for %s", opts.TSConfig)
	}
	log.Debugw("program loaded",
		logger.FieldTSConfig, opts.TSConfig,
		logger.FieldCount, len(program.GetSourceFiles()))

	return &Program{
		program: program,
		checker: checker,
		release: release,
		exclude: opts.Exclude,
		cwd:     opts.Cwd,
	}, nil
}

// Checker returns the acquired checker. It must not be used concurrently.
func (p *Program) Checker() *shimchecker.Checker { return p.checker }

// SourceFiles returns the program's own source files: declaration files and
// excluded files are skipped.
func (p *Program) SourceFiles() []*ast.SourceFile {
	var files []*ast.SourceFile
	for _, f := range p.program.GetSourceFiles() {
		if f.IsDeclarationFile {
			continue
		}
		if excluded(relativePath(f.FileName(), p.cwd), p.exclude) {
			continue
		}
		files = append(files, f)
	}
	return files
}

// Close releases the checker.
func (p *Program) Close() {
	if p.release != nil {
		p.release()
		p.release = nil
	}
}

// gatherDiagnostics runs tsgo's own cascade:
//
//	config → syntactic → program → bind → options → global → semantic
func gatherDiagnostics(ctx context.Context, program *shimcompiler.Program) []*ast.Diagnostic {
	return shimcompiler.GetDiagnosticsOfAnyProgram(
		ctx,
		program,
		nil,
		false,
		func(ctx context.Context, file *ast.SourceFile) []*ast.Diagnostic {
			// Binding already ran in BindSourceFiles.
			return nil
		},
		func(ctx context.Context, file *ast.SourceFile) []*ast.Diagnostic {
			return shimcompiler.Program_GetSemanticDiagnostics(program, ctx, file)
		},
	)
}
