package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestNotFound signals that no manifest file exists at the project
	// root. Callers check it with errors.Is and fall back to constructing the
	// project programmatically.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrSelectorMismatch signals a list/list selector pair whose lengths
	// differ. It is a configuration error and aborts the build.
	ErrSelectorMismatch = errors.New("source and destination selectors are mismatched")
)

// ClassKind identifies which side of a step a class name belongs to.
type ClassKind string

const (
	ClassKindFlow   ClassKind = "flow"
	ClassKindRunner ClassKind = "runner"
)

// ClassNotFoundError reports a class name with no registered factory in the
// Container. The name is preserved so callers can tell the user exactly
// which class their manifest references.
type ClassNotFoundError struct {
	Kind ClassKind
	Name string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("%s class not found: %q", e.Kind, e.Name)
}

// StepError wraps the failure of a single build step with its position and
// the identifier of the flow it was running.
type StepError struct {
	Index  int // 1-based position in the step list
	FlowID string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("error executing step %d (%s): %v", e.Index, e.FlowID, e.Err)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *StepError) Unwrap() error {
	return e.Err
}
