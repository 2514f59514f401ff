// Package buildcache lets a conversion pass be skipped when nothing it
// depends on changed.
//
// The cache is conservative: a pass is skipped only when the schema version,
// the input fingerprint and the output file's hash all match. Any mismatch
// reruns the whole pass.
package buildcache

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/zeebo/xxh3"
)

// SchemaVersion is bumped when the cache format or the output format
// changes, so binary upgrades never reuse stale outputs.
const SchemaVersion = 1

// Cache records what was true when a pass last completed.
type Cache struct {
	V int `json:"v"`

	// Fingerprint covers the input sources and the settings that shape the
	// output.
	Fingerprint string `json:"fingerprint"`

	// Output is the written project file. OutputHash guards against it being
	// edited or replaced since the pass ran.
	Output     string `json:"output"`
	OutputHash string `json:"outputHash"`
}

// CachePath returns the cache file for a project inside the output
// directory, so deleting the output directory also drops the cache.
func CachePath(outDir, project string) string {
	return filepath.Join(outDir, ".tsreflect-cache", project+".json")
}

// Load reads a cache file. It returns nil when the file is missing or
// unreadable; callers treat nil as a miss.
func Load(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}

// Save writes the cache atomically (temp file, then rename).
func Save(path string, cache *Cache) error {
	data, err := json.Marshal(cache, jsontext.WithIndent("  "))
	if err != nil {
		return errors.Wrap(err, "marshaling cache")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating cache directory %s", dir)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "writing cache temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "renaming cache file")
	}
	return nil
}

// Delete removes the cache file. A missing file is not an error.
func Delete(path string) {
	_ = os.Remove(path)
}

// IsValid reports whether the pass that produced c can be skipped:
//
//  1. the schema version matches
//  2. the input fingerprint matches
//  3. the output file still exists with the recorded content
func (c *Cache) IsValid(fingerprint string) bool {
	if c == nil {
		return false
	}
	if c.V != SchemaVersion {
		return false
	}
	if c.Fingerprint != fingerprint {
		return false
	}
	return c.Output != "" && HashFile(c.Output) == c.OutputHash
}

// New records a completed pass. The output file must already be written.
func New(fingerprint, output string) *Cache {
	return &Cache{
		V:           SchemaVersion,
		Fingerprint: fingerprint,
		Output:      output,
		OutputHash:  HashFile(output),
	}
}

// HashFile returns the hex xxh3-128 digest of a file, or "" when it cannot
// be read.
func HashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(sum[:])
}

// ReadFunc reads a file's contents, reporting false when it cannot.
type ReadFunc func(path string) (string, bool)

// ReadOS reads from the operating system's filesystem.
func ReadOS(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Fingerprint digests the given input files, in path order, together with
// settings. A file that cannot be read contributes its path only, so a
// deleted input still changes the fingerprint. A nil read uses ReadOS.
func Fingerprint(files []string, read ReadFunc, settings ...string) string {
	if read == nil {
		read = ReadOS
	}
	sorted := slices.Clone(files)
	slices.Sort(sorted)

	h := xxh3.New()
	for _, s := range settings {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	for _, f := range sorted {
		_, _ = h.WriteString(filepath.ToSlash(f))
		_, _ = h.Write([]byte{0})
		if data, ok := read(f); ok {
			_, _ = h.WriteString(data)
		} else {
			_, _ = h.WriteString("\x00missing")
		}
		_, _ = h.Write([]byte{0})
	}
	sum := h.Sum128().Bytes()
	return hex.EncodeToString(sum[:])
}

// ProjectName derives a stable cache key from a tsconfig path:
// "packages/core/tsconfig.json" becomes "core", and
// "tsconfig.build.json" in directory "app" becomes "app.build".
func ProjectName(tsconfigPath string) string {
	abs, err := filepath.Abs(tsconfigPath)
	if err != nil {
		abs = tsconfigPath
	}
	name := filepath.Base(filepath.Dir(abs))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "project"
	}
	stem := strings.TrimSuffix(filepath.Base(abs), ".json")
	if variant, ok := strings.CutPrefix(stem, "tsconfig."); ok && variant != "" {
		name += "." + variant
	} else if stem != "tsconfig" {
		name += "." + stem
	}
	return name
}
