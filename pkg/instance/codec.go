package instance

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/colortrade/pkg/errors"
)

// Format is an on-disk encoding of an instance.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", apperr.New(apperr.ErrCodeInvalidFormat, "unsupported instance file %q", filepath.Base(path))
	}
}

// Read decodes an instance from r and validates it. Unknown fields are
// rejected so that typos such as "edge" do not silently drop a section.
// Read does not close r.
func Read(r io.Reader, format Format) (*Instance, error) {
	var in Instance
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInstance, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&in); err != nil {
			if err == io.EOF {
				return nil, apperr.New(apperr.ErrCodeInvalidInstance, "empty document")
			}
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInstance, err, "decode yaml")
		}
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unknown format %q", format)
	}

	if err := in.CheckSections(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Load reads the instance file at path. A file without a name takes the
// file's base name, for example "hexagon" for "graphs/hexagon.json".
func Load(path string) (*Instance, error) {
	if err := apperr.ValidateInstancePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	in, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if in.Name == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if apperr.ValidateInstanceName(base) == nil {
			in.Name = base
		}
	}
	return in, nil
}

// Write encodes in to w in the given format.
func Write(w io.Writer, in *Instance, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(in)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(in); err != nil {
			return err
		}
		return enc.Close()
	default:
		return apperr.New(apperr.ErrCodeInvalidFormat, "unknown format %q", format)
	}
}

// Save writes in to path, choosing the format from the extension.
func Save(in *Instance, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, in, format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
