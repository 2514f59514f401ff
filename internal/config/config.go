package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config represents the tsreflect configuration.
type Config struct {
	// TSConfig lists the projects to convert. Each one gets its own pass.
	TSConfig    []string          `mapstructure:"tsconfig"`
	Output      OutputConfig      `mapstructure:"output"`
	Log         LogConfig         `mapstructure:"log"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	// Exclude lists globs of source files that are not converted.
	Exclude []string `mapstructure:"exclude"`
	// Cache skips a pass when neither its inputs nor its output changed.
	Cache          bool `mapstructure:"cache"`
	SkipErrorCheck bool `mapstructure:"skip_error_check"`
}

// OutputConfig controls where and how projects are written.
type OutputConfig struct {
	Path   string `mapstructure:"path"`   // directory; one file per project
	Format string `mapstructure:"format"` // json | msgpack
	Pretty bool   `mapstructure:"pretty"` // indent JSON output
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type DiagnosticsConfig struct {
	Strict bool `mapstructure:"strict"` // warnings fail the run
	Quiet  bool `mapstructure:"quiet"`  // suppress warnings from the log
}

// configNames are searched in order by Find.
var configNames = []string{"tsreflect.json", "tsreflect.toml", "tsreflect.yaml", "tsreflect.yml"}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TSConfig: []string{"tsconfig.json"},
		Output: OutputConfig{
			Path:   "docs",
			Format: "json",
		},
		Log:   LogConfig{Level: "info"},
		Cache: true,
	}
}

// SetDefaults registers DefaultConfig's values with v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("tsconfig", d.TSConfig)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.pretty", d.Output.Pretty)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("diagnostics.strict", d.Diagnostics.Strict)
	v.SetDefault("diagnostics.quiet", d.Diagnostics.Quiet)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("cache", d.Cache)
	v.SetDefault("skip_error_check", d.SkipErrorCheck)
}

// NewViper returns a viper instance with defaults and TSREFLECT_* environment
// overrides bound. When path is non-empty the file is read; its format
// follows the extension.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("TSREFLECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %q", path)
		}
	}
	return v, nil
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		if used := v.ConfigFileUsed(); used != "" {
			return nil, errors.Wrapf(err, "invalid config in %q", used)
		}
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// Load reads a tsreflect config file (JSON, TOML or YAML) over the defaults.
// An empty path loads defaults and environment overrides only.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// Find walks up from dir looking for a tsreflect config file. It returns ""
// when none exists.
func Find(dir string) string {
	for {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks the config for logical errors and canonicalizes the
// enumerated options in place.
func (c *Config) Validate() error {
	if len(c.TSConfig) == 0 {
		return errors.WithHint(errors.New("tsconfig must name at least one project"),
			`set "tsconfig": ["tsconfig.json"] or pass -p`)
	}
	for _, p := range c.TSConfig {
		if strings.TrimSpace(p) == "" {
			return errors.New("tsconfig entries must not be empty")
		}
	}
	if c.Output.Path == "" {
		return errors.New("output.path must not be empty")
	}

	format, err := formatOption.resolve(c.Output.Format)
	if err != nil {
		return err
	}
	c.Output.Format = format

	level, err := levelOption.resolve(c.Log.Level)
	if err != nil {
		return err
	}
	c.Log.Level = level

	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return errors.Wrapf(err, "exclude: bad pattern %q", pattern)
		}
	}
	return nil
}

// Extension returns the output file extension for the configured format.
func (c *Config) Extension() string {
	if c.Output.Format == FormatMsgpack {
		return ".msgpack"
	}
	return ".json"
}
