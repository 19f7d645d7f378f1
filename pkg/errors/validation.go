package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds instance names accepted from files and requests.
const maxNameLength = 128

// instanceNameRegex matches names such as "hexagon", "k4" or "cube-3.v2".
var instanceNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateInstanceName validates an optional instance name. Names end up in
// log lines and cache keys, so they are restricted to a safe alphabet.
func ValidateInstanceName(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInstance, "instance name too long (max %d characters)", maxNameLength)
	}
	if !instanceNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInstance, "invalid instance name: %q", name)
	}
	return nil
}

// ValidateInstancePath checks a path given on the command line before it is
// opened. The extension selects the decoder.
func ValidateInstancePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return nil
	default:
		return New(ErrCodeInvalidFormat, "unsupported instance file %q (want .json, .yaml or .yml)", filepath.Base(path))
	}
}

// ValidateSolutionIndex checks that i addresses one of n solutions.
func ValidateSolutionIndex(i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeSolutionNotFound, "solution %d out of range (have %d)", i, n)
	}
	return nil
}
