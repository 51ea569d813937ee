package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Cicolas/bao-bundler/internal/config"
	"github.com/Cicolas/bao-bundler/runtime"
)

const configTemplate = `name: %s

# Versions are opaque to the pipeline and round-trip through the manifest.
dependencies: {}

steps:
  - runner:
      className: CopyRunner
    flow:
      className: FolderFlow
      config:
        source: %s
        dest: %s
`

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold a new bao project",
	Long: `Init writes a starter bao.yaml and creates the asset directory. The
project name defaults to the directory name.

Example:
  bao init
  bao init my-game -C ./my-game
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(_ *cobra.Command, args []string) error {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	name := filepath.Base(dir)
	if len(args) > 0 {
		name = args[0]
	}

	configPath := config.Path(dir)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists in %q", config.FileName, dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	content := fmt.Sprintf(configTemplate, name, runtime.DefaultAssetsDir, runtime.DefaultOutputDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	assetsDir := filepath.Join(dir, runtime.DefaultAssetsDir)
	if err := os.MkdirAll(assetsDir, 0755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Printf("Created %s\n", assetsDir)
	fmt.Printf("\nPut assets under %s and run 'bao build'\n", assetsDir)
	return nil
}
