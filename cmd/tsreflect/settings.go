package main

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsreflect/tsreflect/internal/config"
	"github.com/tsreflect/tsreflect/internal/logger"
)

// flagKeys maps config keys onto the flags that override them. A flag only
// takes effect when set on the command line.
var flagKeys = map[string]string{
	"tsconfig":           "project",
	"output.path":        "out",
	"output.format":      "format",
	"output.pretty":      "pretty",
	"diagnostics.strict": "strict",
	"diagnostics.quiet":  "quiet",
	"exclude":            "exclude",
	"cache":              "cache",
	"skip_error_check":   "skip-error-check",
	"log.level":          "log-level",
	"log.json":           "log-json",
}

// addConversionFlags registers the flags shared by convert and watch.
func addConversionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("project", "p", nil, "tsconfig to convert; repeat for several projects")
	f.StringP("out", "o", "", "output directory")
	f.String("format", "", "output format (json|msgpack)")
	f.Bool("pretty", false, "indent JSON output")
	f.Bool("strict", false, "treat conversion warnings as errors")
	f.Bool("quiet", false, "do not report conversion warnings")
	f.StringSlice("exclude", nil, "glob of source files not to convert")
	f.Bool("cache", true, "skip projects whose inputs and output are unchanged")
	f.Bool("skip-error-check", false, "convert even when the program has type errors")
}

// settings is the resolved configuration of one invocation. Paths in cfg are
// absolute.
type settings struct {
	cfg        *config.Config
	cwd        string
	configFile string
}

// loadSettings finds the config file, layers the command's flags over it,
// and initializes logging.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}
	s, err := resolveSettings(cmd, cwd)
	if err != nil {
		return nil, err
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}
	if err := logger.Initialize(s.cfg.Log.Level, s.cfg.Log.JSON); err != nil {
		return nil, err
	}
	log := logger.ComponentLogger("cli")
	if s.configFile != "" {
		log.Debugw("loaded config", logger.FieldFile, s.configFile)
	}
	for _, w := range s.cfg.ValidateDetailed().Warnings {
		log.Warn(w)
	}
	return s, nil
}

func resolveSettings(cmd *cobra.Command, cwd string) (*settings, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	if path == "" {
		path = config.Find(cwd)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	v, err := config.NewViper(path)
	if err != nil {
		return nil, err
	}
	for key, name := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "binding --%s", name)
			}
		}
	}
	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	// Paths from the command line are relative to the working directory;
	// paths from the config file are relative to the file.
	base := cwd
	if path != "" {
		base = filepath.Dir(path)
	}
	relativeTo := func(flag string) string {
		if flags.Changed(flag) {
			return cwd
		}
		return base
	}
	for i, p := range cfg.TSConfig {
		cfg.TSConfig[i] = absolute(relativeTo("project"), p)
	}
	cfg.Output.Path = absolute(relativeTo("out"), cfg.Output.Path)

	return &settings{cfg: cfg, cwd: cwd, configFile: path}, nil
}

func absolute(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
