package runtime

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jeffail/gabs/v2"
	"github.com/adnsv/go-utils/filesystem"
)

// ManifestFileName is the fixed name of the project manifest, located at
// the project root.
const ManifestFileName = "bao.manifest.json"

// ManifestPath returns the manifest location for a project directory.
func ManifestPath(dir string) string {
	return filepath.Join(dir, ManifestFileName)
}

type manifestDoc struct {
	Name         string              `json:"name"`
	Dependencies map[string]string   `json:"dependencies"`
	Flows        map[string][]string `json:"flows"`
	Steps        []manifestStep      `json:"steps"`
	TmpPath      string              `json:"tmpPath"`
}

type manifestStep struct {
	Runner manifestRef `json:"runner"`
	Flow   manifestRef `json:"flow"`
	When   string      `json:"when,omitempty"`
}

type manifestRef struct {
	ClassName string         `json:"className"`
	Config    map[string]any `json:"config,omitempty"`
}

// SaveManifest serializes the project to <dir>/bao.manifest.json: name,
// dependencies, the tracked flow file sets as sorted arrays, the step list
// as class references, and the staging path. The file is only rewritten
// when its content changed.
func (p *Project) SaveManifest(dir string) error {
	doc := manifestDoc{
		Name:         p.Name,
		Dependencies: p.Dependencies,
		Flows:        map[string][]string{},
		Steps:        make([]manifestStep, 0, len(p.Steps)),
		TmpPath:      p.TmpPath,
	}
	if doc.Dependencies == nil {
		doc.Dependencies = map[string]string{}
	}

	for _, id := range p.FlowIDs() {
		doc.Flows[id] = p.FlowFiles(id)
	}

	for i, s := range p.Steps {
		runnerRef, err := newManifestRef(s.Runner.ClassName(), s.Runner)
		if err != nil {
			return fmt.Errorf("failed to serialize step %d runner: %w", i+1, err)
		}
		flowRef, err := newManifestRef(s.Flow.ClassName(), s.Flow)
		if err != nil {
			return fmt.Errorf("failed to serialize step %d flow: %w", i+1, err)
		}
		doc.Steps = append(doc.Steps, manifestStep{Runner: runnerRef, Flow: flowRef, When: s.When})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	data = append(data, '\n')

	if err := filesystem.WriteFileIfChanged(ManifestPath(dir), data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

func newManifestRef(className string, v any) (manifestRef, error) {
	config, err := structToMap(v)
	if err != nil {
		return manifestRef{}, err
	}
	if len(config) == 0 {
		config = nil
	}
	return manifestRef{ClassName: className, Config: config}, nil
}

// LoadManifest reads <dir>/bao.manifest.json and reconstructs a Project
// through the container's registered classes. A missing file yields
// ErrManifestNotFound so callers can fall back to building the project
// programmatically; an unknown class name yields a ClassNotFoundError.
// Beyond class lookup, decoding is best-effort: absent keys default rather
// than fail.
func LoadManifest(dir string, container *Container) (*Project, error) {
	path := ManifestPath(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest at %q: %w", path, err)
	}

	doc, err := gabs.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest at %q: %w", path, err)
	}

	name, _ := doc.Path("name").Data().(string)
	project := NewProject(name, nil)
	project.RootDir = dir

	if tmpPath, ok := doc.Path("tmpPath").Data().(string); ok && tmpPath != "" {
		project.TmpPath = tmpPath
	}

	for dep, child := range doc.Path("dependencies").ChildrenMap() {
		if version, ok := child.Data().(string); ok {
			project.Dependencies[dep] = version
		}
	}

	for id, child := range doc.Path("flows").ChildrenMap() {
		var files []string
		for _, f := range child.Children() {
			if s, ok := f.Data().(string); ok {
				files = append(files, s)
			}
		}
		project.TrackFiles(id, files)
	}

	for i, stepNode := range doc.Path("steps").Children() {
		runnerName, runnerConfig, err := classRef(stepNode.Path("runner"))
		if err != nil {
			return nil, fmt.Errorf("manifest step %d runner: %w", i+1, err)
		}
		runner, err := container.NewRunner(runnerName, runnerConfig)
		if err != nil {
			return nil, fmt.Errorf("manifest step %d: %w", i+1, err)
		}

		flowName, flowConfig, err := classRef(stepNode.Path("flow"))
		if err != nil {
			return nil, fmt.Errorf("manifest step %d flow: %w", i+1, err)
		}
		flow, err := container.NewFlow(flowName, flowConfig)
		if err != nil {
			return nil, fmt.Errorf("manifest step %d: %w", i+1, err)
		}

		when, _ := stepNode.Path("when").Data().(string)
		project.Steps = append(project.Steps, Step{Runner: runner, Flow: flow, When: when})
	}

	return project, nil
}

// classRef extracts {className, config?} from a step reference node.
func classRef(node *gabs.Container) (string, map[string]any, error) {
	if node == nil {
		return "", nil, fmt.Errorf("missing class reference")
	}

	className, ok := node.Path("className").Data().(string)
	if !ok || className == "" {
		return "", nil, fmt.Errorf("missing className")
	}

	config := map[string]any{}
	if m, ok := node.Path("config").Data().(map[string]any); ok {
		config = m
	}

	return className, config, nil
}
