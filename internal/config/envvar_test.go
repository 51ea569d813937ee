package config

import (
	"strings"
	"testing"
)

func TestParseEnvVar_RequiredVariable(t *testing.T) {
	spec, err := ParseEnvVar("${ASSET_DIR}")
	if err != nil {
		t.Fatalf("ParseEnvVar failed: %v", err)
	}

	if spec.IsLiteral {
		t.Error("Expected IsLiteral=false for env var")
	}

	if spec.VarName != "ASSET_DIR" {
		t.Errorf("Expected VarName='ASSET_DIR', got '%s'", spec.VarName)
	}

	if spec.HasDefault {
		t.Error("Expected HasDefault=false for required variable")
	}
}

func TestParseEnvVar_WithDefault(t *testing.T) {
	spec, err := ParseEnvVar("${OUTPUT_DIR:build}")
	if err != nil {
		t.Fatalf("ParseEnvVar failed: %v", err)
	}

	if spec.IsLiteral {
		t.Error("Expected IsLiteral=false for env var")
	}

	if spec.VarName != "OUTPUT_DIR" {
		t.Errorf("Expected VarName='OUTPUT_DIR', got '%s'", spec.VarName)
	}

	if !spec.HasDefault {
		t.Error("Expected HasDefault=true")
	}

	if spec.DefaultValue != "build" {
		t.Errorf("Expected DefaultValue='build', got '%s'", spec.DefaultValue)
	}
}

func TestParseEnvVar_DefaultWithColon(t *testing.T) {
	spec, err := ParseEnvVar("${REMOTE_ADDR:localhost:6379}")
	if err != nil {
		t.Fatalf("ParseEnvVar failed: %v", err)
	}

	if spec.DefaultValue != "localhost:6379" {
		t.Errorf("Expected DefaultValue='localhost:6379', got '%s'", spec.DefaultValue)
	}
}

func TestParseEnvVar_EmptyDefault(t *testing.T) {
	spec, err := ParseEnvVar("${API_KEY:}")
	if err != nil {
		t.Fatalf("ParseEnvVar failed: %v", err)
	}

	if !spec.HasDefault {
		t.Error("Expected HasDefault=true even for empty default")
	}

	if spec.DefaultValue != "" {
		t.Errorf("Expected empty DefaultValue, got '%s'", spec.DefaultValue)
	}
}

func TestParseEnvVar_LiteralValue(t *testing.T) {
	spec, err := ParseEnvVar("assets/fonts")
	if err != nil {
		t.Fatalf("ParseEnvVar failed: %v", err)
	}

	if !spec.IsLiteral {
		t.Error("Expected IsLiteral=true for plain string")
	}

	if spec.LiteralValue != "assets/fonts" {
		t.Errorf("Expected LiteralValue='assets/fonts', got '%s'", spec.LiteralValue)
	}
}

func TestParseEnvVar_MalformedIsLiteral(t *testing.T) {
	tests := []string{
		"${lowercase}",
		"${123VAR}",
		"${VAR-NAME}",
		"$VAR",
		"${VAR",
		"${}",
		"",
	}

	for _, test := range tests {
		spec, err := ParseEnvVar(test)
		if err != nil {
			t.Errorf("ParseEnvVar(%q) should not error, got: %v", test, err)
			continue
		}

		if !spec.IsLiteral {
			t.Errorf("ParseEnvVar(%q) should treat as literal, got IsLiteral=false", test)
		}

		if spec.LiteralValue != test {
			t.Errorf("ParseEnvVar(%q) should preserve value as literal, got %q", test, spec.LiteralValue)
		}
	}
}

func TestEnvVarSpec_Resolve(t *testing.T) {
	env := map[string]string{"ASSET_DIR": "artwork"}
	lookup := func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"set variable", "${ASSET_DIR}", "artwork", false},
		{"unset without default", "${MISSING}", "", true},
		{"unset with default", "${MISSING:fallback}", "fallback", false},
		{"set ignores default", "${ASSET_DIR:fallback}", "artwork", false},
		{"literal", "plain", "plain", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			spec, err := ParseEnvVar(test.value)
			if err != nil {
				t.Fatalf("ParseEnvVar failed: %v", err)
			}

			got, err := spec.Resolve(lookup)
			if test.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("got %q, want %q", got, test.want)
			}
		})
	}
}

func TestExpand_FromEnvironment(t *testing.T) {
	t.Setenv("BAO_TEST_DEST", "build/out")

	got, err := Expand("${BAO_TEST_DEST}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "build/out" {
		t.Errorf("got %q, want %q", got, "build/out")
	}
}

func TestExpand_UnsetNamesVariable(t *testing.T) {
	_, err := Expand("${BAO_TEST_UNSET}")
	if err == nil {
		t.Fatal("expected error for unset variable, got nil")
	}
	if want := "BAO_TEST_UNSET"; !strings.Contains(err.Error(), want) {
		t.Errorf("Expected error to name %q, got %q", want, err.Error())
	}
}
