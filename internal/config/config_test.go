package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cicolas/bao-bundler/runtime"
)

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
name: my-game
dependencies:
  openfl: "9.2.1"
  lime: "8.0.0"
tmpPath: .bao-tmp
steps:
  - runner:
      className: CopyRunner
      config:
        isFileMode: true
    flow:
      className: FileFlow
      config:
        source: assets/icon.png
        dest: build/icon.png
    when: os == "linux"
  - runner:
      className: CopyRunner
    flow:
      className: FolderFlow
      config:
        source: assets/fonts
        dest: build/fonts
        expand: true
        extension: ttf
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Name != "my-game" {
		t.Errorf("got name %q, want %q", c.Name, "my-game")
	}
	if c.TmpPath != ".bao-tmp" {
		t.Errorf("got tmpPath %q, want %q", c.TmpPath, ".bao-tmp")
	}
	if c.Dependencies["openfl"] != "9.2.1" || c.Dependencies["lime"] != "8.0.0" {
		t.Errorf("unexpected dependencies: %v", c.Dependencies)
	}
	if len(c.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(c.Steps))
	}
	if c.Steps[0].When != `os == "linux"` {
		t.Errorf("got when %q, want %q", c.Steps[0].When, `os == "linux"`)
	}
	if c.Steps[0].Runner.Config["isFileMode"] != true {
		t.Errorf("unexpected runner config: %v", c.Steps[0].Runner.Config)
	}
	if c.Steps[1].Flow.ClassName != "FolderFlow" {
		t.Errorf("got class %q, want %q", c.Steps[1].Flow.ClassName, "FolderFlow")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
steps:
  - runner:
      className: CopyRunner
    flow:
      className: VoidFlow
      config:
        path: assets
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := filepath.Base(dir); c.Name != want {
		t.Errorf("Expected name to default to directory name %q, got %q", want, c.Name)
	}
	if c.TmpPath != runtime.DefaultTmpPath {
		t.Errorf("got tmpPath %q, want %q", c.TmpPath, runtime.DefaultTmpPath)
	}
	if c.Dependencies == nil {
		t.Error("Expected dependencies to default to an empty map")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config, got nil")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "steps: [whoops")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed yaml, got nil")
	}
}

func TestLoad_MissingRunnerClassName(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
steps:
  - runner:
      config:
        isFileMode: true
    flow:
      className: VoidFlow
      config:
        path: assets
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "runner className is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_MissingFlowClassName(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
steps:
  - runner:
      className: CopyRunner
    flow:
      config:
        path: assets
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "flow className is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("BAO_TEST_SRC", "artwork/icon.png")

	dir := t.TempDir()
	writeConfigFile(t, dir, `
dependencies:
  openfl: "${BAO_TEST_VERSION:9.2.1}"
steps:
  - runner:
      className: CopyRunner
    flow:
      className: FileFlow
      config:
        source: "${BAO_TEST_SRC}"
        dest: "${BAO_TEST_DEST:build/icon.png}"
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := c.Steps[0].Flow.Config["source"]; got != "artwork/icon.png" {
		t.Errorf("got source %v, want %q", got, "artwork/icon.png")
	}
	if got := c.Steps[0].Flow.Config["dest"]; got != "build/icon.png" {
		t.Errorf("got dest %v, want %q", got, "build/icon.png")
	}
	if c.Dependencies["openfl"] != "9.2.1" {
		t.Errorf("got dependency %q, want %q", c.Dependencies["openfl"], "9.2.1")
	}
}

func TestLoad_EnvSubstitutionUnsetFails(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
steps:
  - runner:
      className: CopyRunner
    flow:
      className: FileFlow
      config:
        source: "${BAO_TEST_NEVER_SET}"
        dest: build/icon.png
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for unset variable, got nil")
	}
	if !strings.Contains(err.Error(), "BAO_TEST_NEVER_SET") {
		t.Errorf("Expected error to name the variable, got %v", err)
	}
}

func TestProjectConfig_Project(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
name: my-game
dependencies:
  openfl: "9.2.1"
steps:
  - runner:
      className: CopyRunner
    flow:
      className: FolderFlow
      config:
        source: assets/fonts
        dest: build/fonts
        expand: true
        extension: ttf
    when: os != "windows"
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := c.Project(runtime.DefaultContainer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Name != "my-game" {
		t.Errorf("got name %q, want %q", p.Name, "my-game")
	}
	if p.RootDir != dir {
		t.Errorf("got root %q, want %q", p.RootDir, dir)
	}
	if p.Dependencies["openfl"] != "9.2.1" {
		t.Errorf("unexpected dependencies: %v", p.Dependencies)
	}
	if len(p.Steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(p.Steps))
	}
	if got := p.Steps[0].Flow.ID(); got != "folder:assets/fonts#ttf" {
		t.Errorf("got flow id %q, want %q", got, "folder:assets/fonts#ttf")
	}
	if p.Steps[0].When != `os != "windows"` {
		t.Errorf("got when %q, want %q", p.Steps[0].When, `os != "windows"`)
	}
}

func TestProjectConfig_ProjectUnknownClass(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
steps:
  - runner:
      className: ZipRunner
    flow:
      className: VoidFlow
      config:
        path: assets
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Project(runtime.DefaultContainer())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var notFound *runtime.ClassNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected ClassNotFoundError, got %v", err)
	}
	if notFound.Name != "ZipRunner" {
		t.Errorf("got class %q, want %q", notFound.Name, "ZipRunner")
	}
}
