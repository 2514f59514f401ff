package testutil

import (
	"io/fs"
	pathpkg "path"
	"slices"
	"strings"
	"time"

	"github.com/microsoft/typescript-go/shim/bundled"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"
)

// DefaultTSConfig is the project file ProjectFS writes when none is given.
const DefaultTSConfig = `{
  "compilerOptions": {
    "strict": true,
    "target": "es2022",
    "module": "esnext",
    "moduleResolution": "bundler",
    "noEmit": true
  }
}`

// OverlayVFS serves in-memory sources, keyed by normalized absolute path,
// ahead of a base filesystem. Virtual files are read-only: writing, removing
// or touching one panics.
type OverlayVFS struct {
	fs    vfs.FS
	files map[string]string
}

var _ vfs.FS = (*OverlayVFS)(nil)

// NewOverlayVFS layers virtual files over base.
func NewOverlayVFS(base vfs.FS, virtualFiles map[string]string) *OverlayVFS {
	files := make(map[string]string, len(virtualFiles))
	for p, src := range virtualFiles {
		files[tspath.NormalizePath(p)] = src
	}
	return &OverlayVFS{fs: base, files: files}
}

// NewDefaultOverlayVFS layers virtual files over the OS filesystem with the
// bundled lib.*.d.ts files, which is what compiler.Load needs to check inline
// sources.
func NewDefaultOverlayVFS(virtualFiles map[string]string) *OverlayVFS {
	return NewOverlayVFS(bundled.WrapFS(osvfs.FS()), virtualFiles)
}

// ProjectFS builds a one-directory project rooted at dir. Relative source
// names are resolved against dir; a tsconfig.json is added unless sources
// already contain one.
func ProjectFS(dir string, sources map[string]string) *OverlayVFS {
	files := make(map[string]string, len(sources)+1)
	for name, src := range sources {
		files[tspath.ResolvePath(dir, name)] = src
	}
	config := tspath.ResolvePath(dir, "tsconfig.json")
	if _, ok := files[config]; !ok {
		files[config] = DefaultTSConfig
	}
	return NewDefaultOverlayVFS(files)
}

func (o *OverlayVFS) lookup(path string) (string, bool) {
	src, ok := o.files[tspath.NormalizePath(path)]
	return src, ok
}

func dirPrefix(path string) string {
	p := tspath.NormalizePath(path)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func (o *OverlayVFS) UseCaseSensitiveFileNames() bool {
	return o.fs.UseCaseSensitiveFileNames()
}

func (o *OverlayVFS) FileExists(path string) bool {
	if _, ok := o.lookup(path); ok {
		return true
	}
	return o.fs.FileExists(path)
}

func (o *OverlayVFS) ReadFile(path string) (contents string, ok bool) {
	if src, ok := o.lookup(path); ok {
		return src, true
	}
	return o.fs.ReadFile(path)
}

func (o *OverlayVFS) DirectoryExists(path string) bool {
	prefix := dirPrefix(path)
	for p := range o.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return o.fs.DirectoryExists(path)
}

// GetAccessibleEntries merges virtual entries into the base listing without
// duplicates, so include globs see each file once.
func (o *OverlayVFS) GetAccessibleEntries(path string) vfs.Entries {
	result := o.fs.GetAccessibleEntries(path)
	prefix := dirPrefix(path)

	for p := range o.files {
		rest, found := strings.CutPrefix(p, prefix)
		if !found {
			continue
		}
		if dir, _, nested := strings.Cut(rest, "/"); nested {
			if !slices.Contains(result.Directories, dir) {
				result.Directories = append(result.Directories, dir)
			}
		} else if !slices.Contains(result.Files, rest) {
			result.Files = append(result.Files, rest)
		}
	}
	slices.Sort(result.Files)
	slices.Sort(result.Directories)
	return result
}

type virtualFileInfo struct {
	name string
	size int64
}

var (
	_ fs.FileInfo = (*virtualFileInfo)(nil)
	_ fs.DirEntry = (*virtualFileInfo)(nil)
)

func (fi *virtualFileInfo) IsDir() bool                { return false }
func (fi *virtualFileInfo) ModTime() time.Time         { return time.Time{} }
func (fi *virtualFileInfo) Mode() fs.FileMode          { return 0o444 }
func (fi *virtualFileInfo) Name() string               { return fi.name }
func (fi *virtualFileInfo) Size() int64                { return fi.size }
func (fi *virtualFileInfo) Sys() any                   { return nil }
func (fi *virtualFileInfo) Info() (fs.FileInfo, error) { return fi, nil }
func (fi *virtualFileInfo) Type() fs.FileMode          { return 0 }

func (o *OverlayVFS) Stat(path string) vfs.FileInfo {
	if src, ok := o.lookup(path); ok {
		return &virtualFileInfo{name: pathpkg.Base(tspath.NormalizePath(path)), size: int64(len(src))}
	}
	return o.fs.Stat(path)
}

func (o *OverlayVFS) WalkDir(root string, walkFn vfs.WalkDirFunc) error {
	return o.fs.WalkDir(root, walkFn)
}

func (o *OverlayVFS) Realpath(path string) string {
	if _, ok := o.lookup(path); ok {
		return tspath.NormalizePath(path)
	}
	return o.fs.Realpath(path)
}

func (o *OverlayVFS) WriteFile(path string, data string, writeByteOrderMark bool) error {
	o.mustBeReal(path, "write")
	return o.fs.WriteFile(path, data, writeByteOrderMark)
}

func (o *OverlayVFS) Remove(path string) error {
	o.mustBeReal(path, "remove")
	return o.fs.Remove(path)
}

func (o *OverlayVFS) Chtimes(path string, aTime time.Time, mTime time.Time) error {
	o.mustBeReal(path, "change times on")
	return o.fs.Chtimes(path, aTime, mTime)
}

func (o *OverlayVFS) mustBeReal(path, verb string) {
	if _, ok := o.lookup(path); ok {
		panic("cannot " + verb + " virtual file " + path)
	}
}
