package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs thorough config validation with suggestions. It
// does not modify the config.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	// Projects
	if len(c.TSConfig) == 0 {
		result.Errors = append(result.Errors, "tsconfig: at least one project required")
	}
	seen := make(map[string]bool, len(c.TSConfig))
	for _, p := range c.TSConfig {
		clean := filepath.Clean(p)
		if seen[clean] {
			result.Errors = append(result.Errors, fmt.Sprintf("tsconfig: %q listed twice", p))
		}
		seen[clean] = true
		if filepath.Ext(p) != ".json" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("tsconfig: %q has no .json extension, did you mean %q?", p, filepath.Join(p, "tsconfig.json")))
		}
	}

	// Output
	if c.Output.Path == "" {
		result.Errors = append(result.Errors, "output.path: must not be empty")
	}
	if _, err := formatOption.resolve(c.Output.Format); err != nil {
		result.Errors = append(result.Errors, describe(err))
	} else if c.Output.Pretty && c.Output.Format != "" && c.Output.Format != FormatJSON {
		result.Warnings = append(result.Warnings, "output.pretty: only applies to json output and is ignored")
	}

	// Logging
	if _, err := levelOption.resolve(c.Log.Level); err != nil {
		result.Errors = append(result.Errors, describe(err))
	}

	// Diagnostics
	if c.Diagnostics.Strict && c.Diagnostics.Quiet {
		result.Warnings = append(result.Warnings,
			"diagnostics: strict and quiet are both set, warnings will fail the run without being shown")
	}

	// Exclude
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("exclude: bad pattern %q", pattern))
			continue
		}
		if !strings.Contains(pattern, "*") && !strings.HasSuffix(pattern, ".ts") && !strings.HasSuffix(pattern, ".tsx") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("exclude: pattern %q has no wildcard or .ts extension, did you mean %q?", pattern, pattern+"/**"))
		}
	}

	return result
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// describe renders an error with its hints on one line.
func describe(err error) string {
	msg := err.Error()
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		msg += " (" + strings.Join(hints, "; ") + ")"
	}
	return msg
}
