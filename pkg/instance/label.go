package instance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrBadLabel is returned when a vertex or color is neither a string nor an
// integer.
var ErrBadLabel = errors.New("label must be a string or an integer")

// Label is a vertex identifier or a color. Integers in the source document
// become their canonical decimal text, so 1 and "1" name the same label.
type Label string

// UnmarshalJSON accepts a JSON string or integer.
func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("%w: got null", ErrBadLabel)
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: got %s", ErrBadLabel, b)
	}
	*l = intLabel(n)
	return nil
}

// UnmarshalYAML accepts a YAML string or integer scalar.
func (l *Label) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		switch value.ShortTag() {
		case "!!str":
			*l = Label(value.Value)
			return nil
		case "!!int":
			var n int64
			if err := value.Decode(&n); err != nil {
				return fmt.Errorf("line %d: %w: got %q", value.Line, ErrBadLabel, value.Value)
			}
			*l = intLabel(n)
			return nil
		}
	}
	return fmt.Errorf("line %d: %w: got %q", value.Line, ErrBadLabel, value.Value)
}

func intLabel(n int64) Label { return Label(strconv.FormatInt(n, 10)) }

// String returns the label text.
func (l Label) String() string { return string(l) }

// Labels converts strings to labels.
func Labels(ss ...string) []Label {
	out := make([]Label, len(ss))
	for i, s := range ss {
		out[i] = Label(s)
	}
	return out
}
