package runtime

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cicolas/bao-bundler/internal/fsutil"
)

// Runner acts on a resolved selector pair within a build execution. The only
// built-in implementation is CopyRunner; side-effecting runners register
// through the Container the same way.
type Runner interface {
	// ClassName returns the registered class name the manifest codec writes.
	ClassName() string

	// Run applies the runner to a resolved source/destination pair. Selector
	// paths are relative to the execution root.
	Run(exec *Execution, src, dest Selector) error
}

// CopyRunner copies resolved sources to resolved destinations. FileMode
// changes the many-to-single case: the destination is taken as the literal
// target path instead of a directory to flatten base names into.
type CopyRunner struct {
	FileMode bool `json:"isFileMode"`
}

func (r *CopyRunner) ClassName() string {
	return "CopyRunner"
}

// Run dispatches on the selector shapes:
//
//	absent source or destination   no-op
//	many -> many, equal lengths    element-wise copy (mismatch is an error)
//	many -> single                 copy each into the destination directory by
//	                               base name; in file mode the destination is
//	                               the literal target path instead
//	single -> many                 degraded, first destination only
//	single -> single               direct copy
//
// Copies overwrite silently, so re-running a step is idempotent.
func (r *CopyRunner) Run(exec *Execution, src, dest Selector) error {
	if src.IsEmpty() || dest.IsEmpty() {
		exec.Logger().DebugContext(exec, fmt.Sprintf("Nothing to copy (source %s, destination %s)", src.Kind(), dest.Kind()))
		return nil
	}

	switch {
	case src.Kind() == SelectorMany && dest.Kind() == SelectorMany:
		if src.Len() != dest.Len() {
			return fmt.Errorf("%w: %d sources, %d destinations", ErrSelectorMismatch, src.Len(), dest.Len())
		}
		sources, dests := src.Paths(), dest.Paths()
		for i := range sources {
			if err := r.copy(exec, sources[i], dests[i]); err != nil {
				return err
			}
		}
		return nil

	case src.Kind() == SelectorMany:
		for _, s := range src.Paths() {
			target := dest.First()
			if !r.FileMode {
				target = filepath.Join(dest.First(), filepath.Base(s))
			}
			if err := r.copy(exec, s, target); err != nil {
				return err
			}
		}
		return nil

	case dest.Kind() == SelectorMany:
		exec.Logger().WarnContext(exec, fmt.Sprintf("Single source %q mapped to %d destinations, copying to %q only", src.First(), dest.Len(), dest.First()))
		return r.copy(exec, src.First(), dest.First())

	default:
		return r.copy(exec, src.First(), dest.First())
	}
}

// copy resolves both ends under the execution root and performs one copy.
func (r *CopyRunner) copy(exec *Execution, src, dest string) error {
	srcPath, err := exec.ResolvePath(src)
	if err != nil {
		return err
	}
	destPath, err := exec.ResolvePath(dest)
	if err != nil {
		return err
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("failed to stat copy source %q: %w", src, err)
	}

	exec.Logger().DebugContext(exec, fmt.Sprintf("Copying %s -> %s", src, dest))

	if info.IsDir() {
		return fsutil.CopyDir(srcPath, destPath)
	}
	return fsutil.CopyFile(srcPath, destPath)
}
