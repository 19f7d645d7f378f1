package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	apperr "github.com/matzehuels/colortrade/pkg/errors"
	"github.com/matzehuels/colortrade/pkg/instance"
)

// Load resolves ref to an instance. An existing file wins; otherwise ref is
// looked up among the built-in instances, so "hexagon" works without a file.
func Load(ref string) (*instance.Instance, error) {
	if ref == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "instance path or built-in name is required")
	}
	if _, err := os.Stat(ref); err == nil {
		return instance.Load(ref)
	}
	if in, ok := instance.Builtin(ref); ok {
		return in, nil
	}
	if filepath.Ext(ref) == "" {
		return nil, apperr.New(apperr.ErrCodeNotFound, "no file or built-in instance named %q (built-ins: %s)",
			ref, strings.Join(instance.BuiltinNames(), ", "))
	}
	return instance.Load(ref)
}
