package runtime

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cicolas/bao-bundler/internal/fsutil"
	"github.com/Cicolas/bao-bundler/internal/security"
)

// Staging is the temporary working area of one build. Preparing it clears
// the area and fills it with the raw asset tree; runners then write build
// output into it; publishing copies that output to its final location.
type Staging struct {
	Path    string
	project *Project
}

// NewStaging validates the project's staging path and returns a handle to
// it. Nothing is touched on disk until Prepare runs.
func NewStaging(p *Project) (*Staging, error) {
	path := p.TmpDir()

	if !filepath.IsAbs(p.TmpPath) {
		if err := security.CheckWithin(p.RootDir, path); err != nil {
			return nil, fmt.Errorf("invalid staging path: %w", err)
		}
	}

	// The staging area and the asset tree must not contain one another:
	// staging would copy into itself, or clearing the area would take the
	// assets with it.
	if err := security.CheckWithin(p.AssetsPath(), path); err == nil {
		return nil, fmt.Errorf("staging path %q is inside the asset tree %q", path, p.AssetsPath())
	}
	if err := security.CheckWithin(path, p.AssetsPath()); err == nil {
		return nil, fmt.Errorf("staging path %q contains the asset tree %q", path, p.AssetsPath())
	}

	// The same boundary holds against the output directory: publish clears
	// it before copying, and clearing it must not take the staged output
	// with it.
	if err := security.CheckWithin(p.OutputPath(), path); err == nil {
		return nil, fmt.Errorf("staging path %q is inside the output directory %q", path, p.OutputPath())
	}
	if err := security.CheckWithin(path, p.OutputPath()); err == nil {
		return nil, fmt.Errorf("staging path %q contains the output directory %q", path, p.OutputPath())
	}

	return &Staging{Path: path, project: p}, nil
}

// Prepare clears and recreates the staging area, then copies the raw asset
// tree into it. Any failure here is fatal to the build.
func (s *Staging) Prepare() error {
	if err := os.RemoveAll(s.Path); err != nil {
		return fmt.Errorf("failed to clear staging area at %q: %w", s.Path, err)
	}
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create staging area at %q: %w", s.Path, err)
	}

	assets := s.project.AssetsPath()
	if _, err := os.Stat(assets); err != nil {
		return fmt.Errorf("asset tree not found at %q: %w", assets, err)
	}

	if err := fsutil.CopyDir(assets, filepath.Join(s.Path, s.project.AssetsDir)); err != nil {
		return fmt.Errorf("failed to stage asset tree: %w", err)
	}

	return nil
}

// Publish wholesale-replaces the final output directory with the staged
// build output. A build that wrote nothing publishes an empty directory.
func (s *Staging) Publish() error {
	staged := filepath.Join(s.Path, s.project.OutputDir)
	if err := fsutil.ReplaceDir(staged, s.project.OutputPath()); err != nil {
		return fmt.Errorf("failed to publish build output: %w", err)
	}
	return nil
}

// Cleanup removes the staging area. Builds leave it in place by default so
// the staged tree can be inspected; callers opt in to removal.
func (s *Staging) Cleanup() error {
	if s.Path == "" {
		return nil
	}

	if err := os.RemoveAll(s.Path); err != nil {
		return fmt.Errorf("failed to cleanup staging area at %q: %w", s.Path, err)
	}
	return nil
}
