package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/Cicolas/bao-bundler/runtime"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "List project dependencies",
	Long: `Deps prints the project's dependency map. Versions are opaque to the
pipeline; entries that are not valid semantic versions or ranges are
flagged as a diagnostic.

Example:
  bao deps
  bao deps -C ./my-game
`,
	RunE: runDeps,
}

func runDeps(_ *cobra.Command, _ []string) error {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	project, source, err := loadProject(dir, runtime.DefaultContainer())
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	fmt.Printf("Dependencies of %s (from %s):\n", project.Name, source)
	if len(project.Dependencies) == 0 {
		fmt.Println("  (none)")
		return nil
	}

	names := make([]string, 0, len(project.Dependencies))
	for name := range project.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		version := project.Dependencies[name]
		fmt.Printf("  %s %s%s\n", name, version, versionDiagnostic(version))
	}

	return nil
}

// versionDiagnostic classifies a version string: exact semver, a semver
// range, or something the semver tooling cannot read.
func versionDiagnostic(version string) string {
	if _, err := semver.NewVersion(version); err == nil {
		return ""
	}
	if _, err := semver.NewConstraint(version); err == nil {
		return "  (range)"
	}
	return "  (not semver)"
}
