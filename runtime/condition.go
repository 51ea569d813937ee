package runtime

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Eval compiles and runs an expression against the given environment.
// Missing variables evaluate to nil instead of failing compilation, so
// conditions can probe values that only some projects define.
func Eval(expression string, env map[string]any) (any, error) {
	// dependency() returns the declared version of a dependency, or "" when
	// the project does not declare it.
	dependencyFn := expr.Function(
		"dependency",
		func(params ...any) (any, error) {
			name, ok := params[0].(string)
			if !ok {
				return "", fmt.Errorf("dependency() expects a string name, got %T", params[0])
			}
			deps, _ := env["dependencies"].(map[string]any)
			version, _ := deps[name].(string)
			return version, nil
		},
		new(func(string) string),
	)

	// NOTE: expr.Env MUST come before AllowUndefinedVariables for it to work
	opts := []expr.Option{
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		dependencyFn,
	}

	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", expression, err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
	}

	return result, nil
}

// EvalCondition evaluates a step condition and requires a boolean result.
func EvalCondition(condition string, env map[string]any) (bool, error) {
	result, err := Eval(condition, env)
	if err != nil {
		return false, err
	}

	resultBool, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %s evaluated to %T, expected boolean", condition, result)
	}

	return resultBool, nil
}
