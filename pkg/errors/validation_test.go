package errors

import (
	"strings"
	"testing"
)

func TestValidateInstanceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"simple", "hexagon", false},
		{"with dash and dot", "cube-3.v2", false},
		{"with underscore", "k4_uniform", false},

		{"leading dot", ".hidden", true},
		{"space", "two words", true},
		{"slash", "a/b", true},
		{"control char", "foo\x01", true},
		{"too long", strings.Repeat("a", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInstanceName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInstanceName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInstance) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInstance)
			}
		})
	}
}

func TestValidateInstancePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  Code
	}{
		{"json", "examples/hexagon.json", ""},
		{"yaml", "/tmp/k4.yaml", ""},
		{"yml upper", "SQUARE.YML", ""},

		{"empty", "", ErrCodeInvalidPath},
		{"newline", "foo\n.json", ErrCodeInvalidPath},
		{"no extension", "instance", ErrCodeInvalidFormat},
		{"wrong extension", "graph.toml", ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInstancePath(tt.input)
			if tt.code == "" {
				if err != nil {
					t.Errorf("ValidateInstancePath(%q) = %v, want nil", tt.input, err)
				}
				return
			}
			if GetCode(err) != tt.code {
				t.Errorf("ValidateInstancePath(%q) code = %v, want %v", tt.input, GetCode(err), tt.code)
			}
		})
	}
}

func TestValidateSolutionIndex(t *testing.T) {
	if err := ValidateSolutionIndex(0, 1); err != nil {
		t.Errorf("index 0 of 1: %v", err)
	}
	for _, i := range []int{-1, 3, 4} {
		if err := ValidateSolutionIndex(i, 3); !Is(err, ErrCodeSolutionNotFound) {
			t.Errorf("index %d of 3: got %v", i, err)
		}
	}
}
