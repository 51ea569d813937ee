package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Cicolas/bao-bundler/internal/config"
	"github.com/Cicolas/bao-bundler/runtime"
)

var (
	fromConfig bool
	clean      bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the project and publish its assets",
	Long: `Build stages the asset tree, runs every pipeline step against it, and
publishes the staged output, replacing the previous one. The project is
loaded from bao.manifest.json when present and from bao.yaml otherwise;
a successful build rewrites the manifest.

Example:
  bao build
  bao build -C ./my-game
  bao build --from-config --clean
`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&fromConfig, "from-config", false, "Load the project from bao.yaml even when a manifest exists")
	buildCmd.Flags().BoolVar(&clean, "clean", false, "Remove the staging area after a successful build")
}

// loadProject resolves the project for dir: the compiled manifest when
// present, the authoring config otherwise. Returns the source it used.
func loadProject(dir string, container *runtime.Container) (*runtime.Project, string, error) {
	if !fromConfig {
		project, err := runtime.LoadManifest(dir, container)
		if err == nil {
			return project, runtime.ManifestFileName, nil
		}
		if !errors.Is(err, runtime.ErrManifestNotFound) {
			return nil, "", err
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("no %s or %s in %q, run 'bao init' first", runtime.ManifestFileName, config.FileName, dir)
		}
		return nil, "", err
	}

	project, err := cfg.Project(container)
	if err != nil {
		return nil, "", err
	}
	return project, config.FileName, nil
}

func runBuild(cmd *cobra.Command, _ []string) error {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	project, source, err := loadProject(dir, runtime.DefaultContainer())
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	fmt.Printf("Building %s (from %s)\n", project.Name, source)
	fmt.Printf("Steps: %d\n", len(project.Steps))

	executor := runtime.NewExecutor(slog.Default())
	if err := executor.Build(cmd.Context(), project); err != nil {
		return err
	}

	if err := project.SaveManifest(dir); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}

	if clean {
		staging, err := runtime.NewStaging(project)
		if err != nil {
			return err
		}
		if err := staging.Cleanup(); err != nil {
			return err
		}
	}

	fmt.Printf("\nOutput: %s\n", project.OutputPath())
	return nil
}
