package runtime

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Cicolas/bao-bundler/internal/fsutil"
	"github.com/Cicolas/bao-bundler/internal/security"
)

// SelectorKind tags the three shapes a resolved selector can take.
type SelectorKind int

const (
	SelectorEmpty SelectorKind = iota
	SelectorSingle
	SelectorMany
)

func (k SelectorKind) String() string {
	switch k {
	case SelectorSingle:
		return "single"
	case SelectorMany:
		return "many"
	default:
		return "empty"
	}
}

// Selector is the resolved form of one side of a flow: nothing, one path, or
// an ordered list of paths. Paths are relative to the execution root.
type Selector struct {
	kind  SelectorKind
	paths []string
}

func EmptySelector() Selector {
	return Selector{kind: SelectorEmpty}
}

func SingleSelector(path string) Selector {
	return Selector{kind: SelectorSingle, paths: []string{path}}
}

// ManySelector builds a list selector from a copy of paths. Zero paths
// normalize to Empty, so an empty folder expansion falls under the runner's
// absent-side rule without a special case.
func ManySelector(paths []string) Selector {
	if len(paths) == 0 {
		return EmptySelector()
	}
	copied := make([]string, len(paths))
	copy(copied, paths)
	return Selector{kind: SelectorMany, paths: copied}
}

func (s Selector) Kind() SelectorKind {
	return s.kind
}

func (s Selector) IsEmpty() bool {
	return s.kind == SelectorEmpty
}

// First returns the path of a Single selector, or the first element of a
// Many. Empty selectors return "".
func (s Selector) First() string {
	if len(s.paths) == 0 {
		return ""
	}
	return s.paths[0]
}

// Paths returns a copy of the selector's path list.
func (s Selector) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

func (s Selector) Len() int {
	return len(s.paths)
}

// Flow selects the paths a step operates on. Implementations register in a
// Container under their class name and are constructed from config maps by
// the manifest codec.
type Flow interface {
	// ID returns the flow's stable identifier, derived from the variant tag
	// and source selection only. Flows with equal IDs share one tracked
	// file set.
	ID() string

	// ClassName returns the registered class name the manifest codec writes.
	ClassName() string

	// Resolve produces the source and destination selectors against an
	// explicit root directory. Returned paths are root-relative.
	Resolve(root string) (src Selector, dest Selector, err error)
}

// FileFlow selects one file and one destination path.
type FileFlow struct {
	Source string `json:"source" validate:"required"`
	Dest   string `json:"dest" validate:"required"`
}

func (f *FileFlow) ID() string {
	return "file:" + f.Source
}

func (f *FileFlow) ClassName() string {
	return "FileFlow"
}

// Resolve never touches the filesystem; a missing source surfaces later as
// the runner's copy error.
func (f *FileFlow) Resolve(root string) (Selector, Selector, error) {
	return SingleSelector(f.Source), SingleSelector(f.Dest), nil
}

// FolderFlow selects a folder and a destination. With Expand set it resolves
// to the individual files beneath Source, in deterministic lexicographic
// order, optionally filtered by Extension.
type FolderFlow struct {
	Source    string `json:"source" validate:"required"`
	Dest      string `json:"dest" validate:"required"`
	Expand    bool   `json:"expand"`
	Extension string `json:"extension,omitempty"`
}

// ID ignores the Expand flag: an expanded and an unexpanded flow over the
// same source name the same file population.
func (f *FolderFlow) ID() string {
	if f.Extension != "" {
		return "folder:" + f.Source + "#" + f.Extension
	}
	return "folder:" + f.Source
}

func (f *FolderFlow) ClassName() string {
	return "FolderFlow"
}

func (f *FolderFlow) Resolve(root string) (Selector, Selector, error) {
	if !f.Expand {
		return SingleSelector(f.Source), SingleSelector(f.Dest), nil
	}

	dir, err := security.ResolveWithin(root, f.Source)
	if err != nil {
		return EmptySelector(), EmptySelector(), err
	}

	files, err := fsutil.ListFiles(dir)
	if err != nil {
		return EmptySelector(), EmptySelector(), fmt.Errorf("failed to expand folder %q: %w", f.Source, err)
	}
	files = fsutil.FilterSuffix(files, extensionSuffix(f.Extension))

	sources := make([]string, len(files))
	for i, file := range files {
		sources[i] = filepath.Join(f.Source, file)
	}

	return ManySelector(sources), SingleSelector(f.Dest), nil
}

// extensionSuffix turns "ttf" into ".ttf"; a leading dot passes through.
func extensionSuffix(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// VoidFlow names a single path with no destination. It exists for runners
// whose work is a side effect on the source; CopyRunner treats it as a
// no-op.
type VoidFlow struct {
	Path string `json:"path" validate:"required"`
}

func (f *VoidFlow) ID() string {
	return "void:" + f.Path
}

func (f *VoidFlow) ClassName() string {
	return "VoidFlow"
}

func (f *VoidFlow) Resolve(root string) (Selector, Selector, error) {
	return SingleSelector(f.Path), EmptySelector(), nil
}
