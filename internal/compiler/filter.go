package compiler

import (
	"path/filepath"
	"strings"
)

// excluded reports whether filePath matches any of the glob patterns.
// Patterns support a single ** segment matching any number of directories.
func excluded(filePath string, patterns []string) bool {
	filePath = filepath.ToSlash(filePath)
	for _, pattern := range patterns {
		if globMatch(filePath, filepath.ToSlash(pattern)) {
			return true
		}
	}
	return false
}

// globMatch matches against suffixes of the path, so "src/**/*.test.ts"
// matches any file below a "src/" directory whose name matches "*.test.ts".
func globMatch(filePath, pattern string) bool {
	if matched, _ := filepath.Match(pattern, filePath); matched {
		return true
	}
	if !strings.Contains(pattern, "**") {
		if !strings.Contains(pattern, "/") {
			matched, _ := filepath.Match(pattern, filepath.Base(filePath))
			return matched
		}
		return false
	}

	prefix, suffix, _ := strings.Cut(pattern, "**")
	prefix = strings.TrimSuffix(prefix, "/")
	suffix = strings.TrimPrefix(suffix, "/")

	rest := filePath
	if prefix != "" {
		idx := strings.Index(filePath, "/"+prefix+"/")
		switch {
		case idx >= 0:
			rest = filePath[idx+len(prefix)+2:]
		case strings.HasPrefix(filePath, prefix+"/"):
			rest = filePath[len(prefix)+1:]
		default:
			return false
		}
	}
	if suffix == "" {
		return true
	}
	if !strings.Contains(suffix, "/") {
		matched, _ := filepath.Match(suffix, filepath.Base(rest))
		return matched
	}
	// Try the suffix against every tail of the remaining path.
	parts := strings.Split(rest, "/")
	for i := range parts {
		if matched, _ := filepath.Match(suffix, strings.Join(parts[i:], "/")); matched {
			return true
		}
	}
	return false
}
