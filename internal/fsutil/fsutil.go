// Package fsutil provides the filesystem primitives the build pipeline is
// built on: single-file copies, recursive tree copies, and deterministic
// directory listings.
package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CopyFile copies a single file from src to dst, creating dst's parent
// directories as needed. An existing dst is overwritten.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file at %q: %w", src, err)
	}
	defer sourceFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for %q: %w", dst, err)
	}

	destFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file at %q: %w", dst, err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy data from %q to %q: %w", src, dst, err)
	}

	if err := destFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination file at %q: %w", dst, err)
	}

	return nil
}

// CopyDir recursively copies the tree rooted at src into dst, preserving the
// relative layout. Existing files in dst are overwritten; files present only
// in dst are left alone.
func CopyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source directory at %q: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %q is not a directory", src)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %q against %q: %w", path, src, err)
		}

		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory at %q: %w", target, err)
			}
			return nil
		}

		return CopyFile(path, target)
	})
}

// ReplaceDir makes dst an exact copy of src, removing whatever was at dst
// before. A missing src yields an empty dst directory.
func ReplaceDir(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("failed to clear directory at %q: %w", dst, err)
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("failed to create directory at %q: %w", dst, err)
	}

	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat source directory at %q: %w", src, err)
	}

	return CopyDir(src, dst)
}

// ListFiles walks the tree rooted at dir and returns the path of every
// regular file relative to dir, sorted lexicographically. The ordering is
// stable across runs.
func ListFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %q against %q: %w", path, dir, err)
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory at %q: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// FilterSuffix returns the entries of paths whose base name ends in suffix,
// preserving order. An empty suffix keeps everything.
func FilterSuffix(paths []string, suffix string) []string {
	if suffix == "" {
		return paths
	}

	filtered := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.HasSuffix(filepath.Base(p), suffix) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
