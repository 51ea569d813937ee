package runtime

import (
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Cicolas/bao-bundler/internal/security"
)

var _ context.Context = &Execution{}

// Execution carries the state of one build run: a unique identifier, the
// project being built, and the staging root every path resolves against. It
// implements context.Context by delegating to the embedded ctx so log calls
// observe the caller's context.
type Execution struct {
	ID      string
	Project *Project
	Root    string

	l   *slog.Logger
	ctx context.Context
}

func NewExecution(ctx context.Context, l *slog.Logger, project *Project, root string) *Execution {
	if ctx == nil {
		ctx = context.Background()
	}
	if l == nil {
		l = slog.Default()
	}

	return &Execution{
		ID:      uuid.New().String(),
		Project: project,
		Root:    root,
		l:       l,
		ctx:     ctx,
	}
}

// Logger returns the logger attached to this build run.
func (e *Execution) Logger() *slog.Logger {
	return e.l
}

// ResolvePath resolves a project-relative path under the staging root,
// rejecting paths that escape it.
func (e *Execution) ResolvePath(rel string) (string, error) {
	return security.ResolveWithin(e.Root, rel)
}

func (e *Execution) Deadline() (deadline time.Time, ok bool) {
	return e.ctx.Deadline()
}

func (e *Execution) Done() <-chan struct{} {
	return e.ctx.Done()
}

func (e *Execution) Err() error {
	return e.ctx.Err()
}

func (e *Execution) Value(key any) any {
	return e.ctx.Value(key)
}

// Values returns the environment visible to step conditions: the project
// name, its dependency map, the host OS, and the process environment.
func (e *Execution) Values() map[string]any {
	deps := map[string]any{}
	for k, v := range e.Project.Dependencies {
		deps[k] = v
	}

	env := map[string]any{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return map[string]any{
		"name":         e.Project.Name,
		"dependencies": deps,
		"os":           goruntime.GOOS,
		"env":          env,
	}
}
