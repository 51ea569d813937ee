package runtime

import (
	"context"
	"fmt"
	"log/slog"
)

// Executor orchestrates a full build: staging, the sequential step loop,
// and publishing. Steps run strictly in order and the first error aborts
// the build. Manifest persistence stays with the caller.
type Executor struct {
	l *slog.Logger
}

func NewExecutor(l *slog.Logger) *Executor {
	if l == nil {
		l = slog.Default()
	}
	return &Executor{l: l}
}

// Build runs the pipeline: clear and restage the temporary working area
// with the raw asset tree, execute every step against it, then publish the
// staged build output to its final location. ctx is carried for log
// correlation; a copy in flight is not interruptible.
func (e *Executor) Build(ctx context.Context, project *Project) error {
	staging, err := NewStaging(project)
	if err != nil {
		return err
	}

	execution := NewExecution(ctx, e.l, project, staging.Path)
	e.l.InfoContext(execution, fmt.Sprintf("Starting build %s for project %s", execution.ID, project.Name))

	if err := staging.Prepare(); err != nil {
		return fmt.Errorf("staging failed: %w", err)
	}

	if err := e.ExecuteSteps(execution); err != nil {
		return err
	}

	if err := staging.Publish(); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	e.l.InfoContext(execution, fmt.Sprintf("Build %s finished, output published to %s", execution.ID, project.OutputPath()))
	return nil
}

// ExecuteSteps runs the project's steps in order against the execution
// root. Each step resolves its flow, replaces the flow's tracked file set
// with the current resolution, and hands the deduplicated selectors to its
// runner. The first failure aborts with step context attached.
func (e *Executor) ExecuteSteps(execution *Execution) error {
	for i, s := range execution.Project.Steps {
		flowID := s.Flow.ID()

		met, err := e.evaluateCondition(execution, s)
		if err != nil {
			return &StepError{Index: i + 1, FlowID: flowID, Err: err}
		}
		if !met {
			e.l.InfoContext(execution, fmt.Sprintf("Skipping step %d (%s), condition not met: %s", i+1, flowID, s.When))
			continue
		}

		src, dest, err := s.Flow.Resolve(execution.Root)
		if err != nil {
			return &StepError{Index: i + 1, FlowID: flowID, Err: err}
		}

		tracked := execution.Project.TrackFiles(flowID, src.Paths())
		if src.Kind() == SelectorMany && dest.Kind() != SelectorMany {
			src = ManySelector(dedupStable(src.Paths()))
		}

		e.l.InfoContext(execution, fmt.Sprintf("Executing step %d (%s), %d files tracked", i+1, flowID, len(tracked)))

		if err := s.Runner.Run(execution, src, dest); err != nil {
			return &StepError{Index: i + 1, FlowID: flowID, Err: err}
		}
	}

	return nil
}

func (e *Executor) evaluateCondition(execution *Execution, step Step) (bool, error) {
	if step.When == "" {
		return true, nil
	}

	met, err := EvalCondition(step.When, execution.Values())
	if err != nil {
		e.l.ErrorContext(execution, fmt.Sprintf("Error evaluating condition %s", step.When),
			"error", err)
		return false, fmt.Errorf("error evaluating condition %s: %w", step.When, err)
	}

	return met, nil
}

// dedupStable drops repeated paths, keeping first occurrences. List/list
// pairs never pass through here, so positional pairing stays intact.
func dedupStable(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
