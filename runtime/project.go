package runtime

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
)

const (
	DefaultTmpPath   = ".bao"
	DefaultAssetsDir = "assets"
	DefaultOutputDir = "build"
)

// Step pairs a Flow with the Runner that acts on its resolution. When is an
// optional boolean expression; a false result skips the step.
type Step struct {
	Runner Runner
	Flow   Flow
	When   string
}

// Project is the root aggregate of a build: a name, the dependency map
// (stored and round-tripped, never interpreted by the pipeline), the ordered
// step list, and the tracked file set of every flow that has resolved.
type Project struct {
	Name         string
	Dependencies map[string]string
	Steps        []Step

	// TmpPath is the staging directory, relative to RootDir unless absolute.
	// It persists through the manifest.
	TmpPath string

	// RootDir, AssetsDir and OutputDir locate the project on disk. They are
	// runtime configuration, not manifest state.
	RootDir   string
	AssetsDir string
	OutputDir string

	flowFiles map[string][]string
}

// NewProject creates a project rooted at "." with the default directory
// layout and no dependencies.
func NewProject(name string, steps []Step) *Project {
	return &Project{
		Name:         name,
		Dependencies: map[string]string{},
		Steps:        steps,
		TmpPath:      DefaultTmpPath,
		RootDir:      ".",
		AssetsDir:    DefaultAssetsDir,
		OutputDir:    DefaultOutputDir,
		flowFiles:    map[string][]string{},
	}
}

// Build runs the project with a default executor. Callers that want their
// own logger construct an Executor directly.
func (p *Project) Build(ctx context.Context) error {
	return NewExecutor(slog.Default()).Build(ctx, p)
}

// TrackFiles replaces the tracked file set for flowID with the current
// resolution. Entries are sorted and deduplicated; paths tracked by earlier
// builds but absent from the new resolution are dropped. Returns the
// canonical set.
func (p *Project) TrackFiles(flowID string, paths []string) []string {
	if p.flowFiles == nil {
		p.flowFiles = map[string][]string{}
	}

	unique := sortedUnique(paths)
	p.flowFiles[flowID] = unique

	out := make([]string, len(unique))
	copy(out, unique)
	return out
}

// FlowFiles returns the tracked file set for flowID, sorted. Unknown IDs
// return an empty set.
func (p *Project) FlowFiles(flowID string) []string {
	out := make([]string, len(p.flowFiles[flowID]))
	copy(out, p.flowFiles[flowID])
	return out
}

// FlowIDs returns every flow identifier with a tracked set, sorted.
func (p *Project) FlowIDs() []string {
	ids := make([]string, 0, len(p.flowFiles))
	for id := range p.flowFiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TmpDir returns the absolute-or-root-joined staging directory.
func (p *Project) TmpDir() string {
	return p.resolveDir(p.TmpPath)
}

// AssetsPath returns the location of the raw asset tree.
func (p *Project) AssetsPath() string {
	return p.resolveDir(p.AssetsDir)
}

// OutputPath returns the final build output location.
func (p *Project) OutputPath() string {
	return p.resolveDir(p.OutputDir)
}

func (p *Project) resolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.RootDir, dir)
}

func sortedUnique(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
