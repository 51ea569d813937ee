package runtime

import (
	"testing"
)

func TestEval(t *testing.T) {
	env := map[string]any{
		"name": "my-game",
		"os":   "linux",
		"dependencies": map[string]any{
			"openfl": "9.2.1",
		},
	}

	tests := []struct {
		name     string
		expr     string
		expected any
	}{
		{
			name:     "string comparison",
			expr:     `os == "linux"`,
			expected: true,
		},
		{
			name:     "map membership",
			expr:     `"openfl" in dependencies`,
			expected: true,
		},
		{
			name:     "dependency version lookup",
			expr:     `dependency("openfl")`,
			expected: "9.2.1",
		},
		{
			name:     "missing dependency yields empty string",
			expr:     `dependency("lime")`,
			expected: "",
		},
		{
			name:     "undefined variable is nil",
			expr:     `target == nil`,
			expected: true,
		},
		{
			name:     "boolean combination",
			expr:     `name == "my-game" && os != "windows"`,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Eval(tt.expr, env)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestEval_CompileError(t *testing.T) {
	_, err := Eval(`os ==`, map[string]any{})
	if err == nil {
		t.Fatal("expected compile error, got nil")
	}
}

func TestEvalCondition(t *testing.T) {
	env := map[string]any{"os": "linux"}

	ok, err := EvalCondition(`os == "linux"`, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("Expected condition to hold")
	}

	ok, err = EvalCondition(`os == "windows"`, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected condition to fail")
	}
}

func TestEvalCondition_NonBoolean(t *testing.T) {
	_, err := EvalCondition(`"just a string"`, map[string]any{})
	if err == nil {
		t.Fatal("expected error for non-boolean condition, got nil")
	}
}
