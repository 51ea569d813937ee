// Package security guards filesystem boundaries. Manifest and config files
// supply relative paths that end up in copy operations, so every one of them
// is resolved under an explicit root and rejected if it escapes it.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolveWithin joins rel onto root and returns the resulting path, failing
// if the result escapes root via ".." sequences. rel may also be absolute,
// in which case it must already lie within root.
func ResolveWithin(root, rel string) (string, error) {
	target := rel
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}

	if err := CheckWithin(root, target); err != nil {
		return "", err
	}
	return target, nil
}

// CheckWithin ensures that target is within or equal to root. Both paths are
// resolved to absolute form first, so relative inputs and "../" sequences
// cannot sidestep the check.
func CheckWithin(root, target string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve target path %q: %w", target, err)
	}

	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil {
		return fmt.Errorf("invalid path relationship between %q and %q: %w", absRoot, absTarget, err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: %q escapes root %q", target, root)
	}

	return nil
}
