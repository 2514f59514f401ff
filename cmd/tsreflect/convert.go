package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tsreflect/tsreflect/internal/compiler"
	"github.com/tsreflect/tsreflect/internal/logger"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert projects once and write one document per project",
		Example: `  tsreflect convert
  tsreflect convert -p packages/core/tsconfig.json -p packages/cli/tsconfig.json
  tsreflect convert --format msgpack --out build/reflections
  tsreflect convert --strict --pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			start := time.Now()
			results, err := newPipeline(s).run(cmd.Context())
			report(cmd.ErrOrStderr(), s, results, time.Since(start))
			return err
		},
	}
	addConversionFlags(cmd)
	return cmd
}

// report prints collected diagnostics for every project followed by a
// summary line.
func report(w io.Writer, s *settings, results []projectResult, elapsed time.Duration) {
	for _, r := range results {
		if len(r.CompilerDiagnostics) > 0 {
			if logger.JSONOutput {
				compiler.Report(r.Diagnostics, r.CompilerDiagnostics, s.cwd)
			} else {
				compiler.WriteDiagnostics(w, r.CompilerDiagnostics, s.cwd, !color.NoColor)
			}
		}
		// JSON logs already carry every diagnostic.
		if !logger.JSONOutput {
			fmt.Fprint(w, r.Diagnostics.FormatAll(!color.NoColor))
		}
	}
	fmt.Fprintln(w, summarize(results, elapsed))
}

var printer = message.NewPrinter(language.English)

// summarize renders e.g. "converted 2 project(s), 1,204 reflection(s) in 340ms
// (1 unchanged, 3 warning(s))".
func summarize(results []projectResult, elapsed time.Duration) string {
	var converted, cached, failed, reflections, warnings, errs int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Cached:
			cached++
		default:
			converted++
		}
		reflections += r.Reflections
		warnings += r.Diagnostics.WarningCount()
		errs += r.Diagnostics.ErrorCount()
	}

	line := printer.Sprintf("converted %d project(s), %d reflection(s) in %v",
		converted, reflections, elapsed.Round(time.Millisecond))
	var extra []string
	if cached > 0 {
		extra = append(extra, printer.Sprintf("%d unchanged", cached))
	}
	if failed > 0 {
		extra = append(extra, printer.Sprintf("%d failed", failed))
	}
	if warnings > 0 {
		extra = append(extra, printer.Sprintf("%d warning(s)", warnings))
	}
	if errs > 0 {
		extra = append(extra, printer.Sprintf("%d error(s)", errs))
	}
	if len(extra) > 0 {
		line += " (" + strings.Join(extra, ", ") + ")"
	}
	return line
}
