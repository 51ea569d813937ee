package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// EnvVarSpec is one parsed config value: a plain literal, or a reference to
// an environment variable with an optional default.
type EnvVarSpec struct {
	// VarName is the environment variable name (e.g., "ASSET_DIR")
	VarName string

	// HasDefault indicates if a default value was provided
	HasDefault bool

	// DefaultValue is the default value if HasDefault is true
	DefaultValue string

	// IsLiteral indicates if this is a literal value (not an env var)
	IsLiteral bool

	// LiteralValue is the literal value if IsLiteral is true
	LiteralValue string
}

// envVarPattern matches ${VAR} and ${VAR:default} syntax
var envVarPattern = regexp.MustCompile(`^\$\{([A-Z_][A-Z0-9_]*)(:[^}]*)?\}$`)

// ParseEnvVar parses a config value that may contain environment variable
// syntax.
//
// Supported formats:
//   - ${VAR}         - Required environment variable
//   - ${VAR:default} - Optional environment variable with default
//   - literal        - Plain literal value (no env var)
//
// Anything that does not match the pattern, including malformed references,
// is preserved as a literal.
func ParseEnvVar(value string) (*EnvVarSpec, error) {
	matches := envVarPattern.FindStringSubmatch(value)
	if matches == nil {
		return &EnvVarSpec{
			IsLiteral:    true,
			LiteralValue: value,
		}, nil
	}

	spec := &EnvVarSpec{
		VarName:    matches[1],
		HasDefault: matches[2] != "",
	}
	if spec.HasDefault {
		spec.DefaultValue = strings.TrimPrefix(matches[2], ":")
	}

	return spec, nil
}

// Resolve produces the concrete value of the spec, consulting lookup for
// variable references. A reference without a default fails when the
// variable is unset.
func (s *EnvVarSpec) Resolve(lookup func(string) (string, bool)) (string, error) {
	if s.IsLiteral {
		return s.LiteralValue, nil
	}

	if value, ok := lookup(s.VarName); ok {
		return value, nil
	}

	if s.HasDefault {
		return s.DefaultValue, nil
	}

	return "", fmt.Errorf("environment variable %s is not set", s.VarName)
}

// Expand resolves a single config value against the process environment.
func Expand(value string) (string, error) {
	spec, err := ParseEnvVar(value)
	if err != nil {
		return "", err
	}
	return spec.Resolve(os.LookupEnv)
}

// expandTree walks a decoded YAML value and expands every string leaf.
// Non-string scalars pass through untouched.
func expandTree(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return Expand(v)

	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			expanded, err := expandTree(child)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[key] = expanded
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			expanded, err := expandTree(child)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil

	default:
		return v, nil
	}
}
