package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Cicolas/bao-bundler/internal/security"
	"github.com/Cicolas/bao-bundler/runtime"
)

// FileName is the authoring config read from the project root. The manifest
// is its compiled counterpart and is regenerated on every build.
const FileName = "bao.yaml"

// ProjectConfig represents the bao.yaml structure
type ProjectConfig struct {
	Name         string            `yaml:"name"`         // Optional: defaults to directory name
	Dependencies map[string]string `yaml:"dependencies"` // Optional: opaque name -> version map
	TmpPath      string            `yaml:"tmpPath"`      // Optional: staging directory, defaults to ".bao"
	Steps        []StepConfig      `yaml:"steps"`

	dir string
}

// StepConfig represents a single pipeline step
type StepConfig struct {
	Runner ClassConfig `yaml:"runner"`
	Flow   ClassConfig `yaml:"flow"`
	When   string      `yaml:"when,omitempty"` // Optional: boolean expression, false skips the step
}

// ClassConfig references a registered class by name plus its config map
type ClassConfig struct {
	ClassName string         `yaml:"className"`
	Config    map[string]any `yaml:"config,omitempty"`
}

// Path returns the config location for a project directory.
func Path(projectDir string) string {
	return filepath.Join(projectDir, FileName)
}

// Load reads and parses bao.yaml from the given directory. String values in
// dependency versions, tmpPath and step configs support ${VAR} and
// ${VAR:default} environment substitution.
func Load(projectDir string) (*ProjectConfig, error) {
	configPath := Path(projectDir)

	if err := security.CheckWithin(projectDir, configPath); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %q: %w", FileName, configPath, err)
	}

	config, err := parse(data)
	if err != nil {
		return nil, err
	}

	config.dir = projectDir
	config.applyDefaults(projectDir)

	return config, nil
}

// parse decodes, expands and validates a bao.yaml document.
func parse(data []byte) (*ProjectConfig, error) {
	var config ProjectConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	if err := config.expandEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that every step names its classes. A config with no steps
// is legal; building it publishes an empty output directory.
func (c *ProjectConfig) Validate() error {
	for i, step := range c.Steps {
		if step.Runner.ClassName == "" {
			return fmt.Errorf("step #%d: runner className is required", i+1)
		}
		if step.Flow.ClassName == "" {
			return fmt.Errorf("step #%d: flow className is required", i+1)
		}
	}

	return nil
}

// Project materializes the config into a runtime project through the
// container's registered classes. Unknown class names surface as
// ClassNotFoundError.
func (c *ProjectConfig) Project(container *runtime.Container) (*runtime.Project, error) {
	steps := make([]runtime.Step, 0, len(c.Steps))
	for i, s := range c.Steps {
		runner, err := container.NewRunner(s.Runner.ClassName, s.Runner.Config)
		if err != nil {
			return nil, fmt.Errorf("step #%d: %w", i+1, err)
		}

		flow, err := container.NewFlow(s.Flow.ClassName, s.Flow.Config)
		if err != nil {
			return nil, fmt.Errorf("step #%d: %w", i+1, err)
		}

		steps = append(steps, runtime.Step{Runner: runner, Flow: flow, When: s.When})
	}

	project := runtime.NewProject(c.Name, steps)
	if c.TmpPath != "" {
		project.TmpPath = c.TmpPath
	}
	if c.dir != "" {
		project.RootDir = c.dir
	}
	for dep, version := range c.Dependencies {
		project.Dependencies[dep] = version
	}

	return project, nil
}

func (c *ProjectConfig) expandEnv() error {
	for dep, version := range c.Dependencies {
		expanded, err := Expand(version)
		if err != nil {
			return fmt.Errorf("dependency %s: %w", dep, err)
		}
		c.Dependencies[dep] = expanded
	}

	if c.TmpPath != "" {
		expanded, err := Expand(c.TmpPath)
		if err != nil {
			return fmt.Errorf("tmpPath: %w", err)
		}
		c.TmpPath = expanded
	}

	for i := range c.Steps {
		if err := c.Steps[i].Runner.expandEnv(); err != nil {
			return fmt.Errorf("step #%d runner: %w", i+1, err)
		}
		if err := c.Steps[i].Flow.expandEnv(); err != nil {
			return fmt.Errorf("step #%d flow: %w", i+1, err)
		}
	}

	return nil
}

func (cc *ClassConfig) expandEnv() error {
	if cc.Config == nil {
		return nil
	}

	expanded, err := expandTree(cc.Config)
	if err != nil {
		return err
	}
	cc.Config = expanded.(map[string]any)

	return nil
}

// applyDefaults fills in missing optional fields with defaults
func (c *ProjectConfig) applyDefaults(projectDir string) {
	if c.Name == "" {
		c.Name = directoryName(projectDir)
	}

	if c.TmpPath == "" {
		c.TmpPath = runtime.DefaultTmpPath
	}

	if c.Dependencies == nil {
		c.Dependencies = map[string]string{}
	}
}

// directoryName extracts the last component of a path
func directoryName(path string) string {
	if path == "." {
		cwd, err := os.Getwd()
		if err != nil {
			return "bao-project"
		}
		path = cwd
	}

	return filepath.Base(path)
}
