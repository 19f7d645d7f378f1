package instance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/colortrade/pkg/core/edgecolor"
	"github.com/matzehuels/colortrade/pkg/core/graph"
	apperr "github.com/matzehuels/colortrade/pkg/errors"
)

var (
	// ErrDuplicateVertex is returned when a vertex is listed twice.
	ErrDuplicateVertex = errors.New("duplicate vertex")

	// ErrBadEdge is returned for an edge entry without exactly two endpoints.
	ErrBadEdge = errors.New("edge must have exactly 2 endpoints")

	// ErrBadLayout is returned for a layout entry that is not an (x, y) pair
	// of a known vertex.
	ErrBadLayout = errors.New("invalid layout entry")
)

// Instance is a decoded edge-coloring instance.
type Instance struct {
	Name     string              `json:"name,omitempty" yaml:"name,omitempty"`
	Vertices Vertices            `json:"vertices" yaml:"vertices"`
	Edges    []Edge              `json:"edges" yaml:"edges"`
	Layout   map[Label][]float64 `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// Vertex is one entry of the "vertices" mapping.
type Vertex struct {
	ID     Label
	Colors []Label
}

// Vertices is the ordered "vertices" mapping. It encodes as a JSON object
// or YAML mapping and keeps the order of the document.
type Vertices []Vertex

// UnmarshalJSON decodes an object of vertex -> colors in document order.
func (vs *Vertices) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("vertices: want an object of vertex to colors")
	}

	out := Vertices{}
	seen := make(map[Label]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id := Label(tok.(string))
		var colors []Label
		if err := dec.Decode(&colors); err != nil {
			return fmt.Errorf("vertex %s: %w", id, err)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateVertex, id)
		}
		seen[id] = true
		out = append(out, Vertex{ID: id, Colors: colors})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*vs = out
	return nil
}

// MarshalJSON encodes the vertices as an object in slice order.
func (vs Vertices) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(v.ID))
		if err != nil {
			return nil, err
		}
		colors := v.Colors
		if colors == nil {
			colors = []Label{}
		}
		val, err := json.Marshal(colors)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a mapping of vertex -> colors in document order.
func (vs *Vertices) UnmarshalYAML(value *yaml.Node) error {
	if value.ShortTag() == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: vertices: want a mapping of vertex to colors", value.Line)
	}

	out := make(Vertices, 0, len(value.Content)/2)
	seen := make(map[Label]bool)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var id Label
		if err := value.Content[i].Decode(&id); err != nil {
			return err
		}
		var colors []Label
		if err := value.Content[i+1].Decode(&colors); err != nil {
			return fmt.Errorf("vertex %s: %w", id, err)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateVertex, id)
		}
		seen[id] = true
		out = append(out, Vertex{ID: id, Colors: colors})
	}
	*vs = out
	return nil
}

// MarshalYAML encodes the vertices as a mapping in slice order, each color
// list on one line.
func (vs Vertices) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range vs {
		var val yaml.Node
		colors := v.Colors
		if colors == nil {
			colors = []Label{}
		}
		if err := val.Encode(colors); err != nil {
			return nil, err
		}
		val.Style = yaml.FlowStyle
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v.ID)}
		node.Content = append(node.Content, key, &val)
	}
	return node, nil
}

// Edge is an (u, v) pair as written in the document.
type Edge [2]Label

// UnmarshalJSON rejects edges that do not have exactly two endpoints.
func (e *Edge) UnmarshalJSON(b []byte) error {
	var ends []Label
	if err := json.Unmarshal(b, &ends); err != nil {
		return err
	}
	if len(ends) != 2 {
		return fmt.Errorf("%w: %s", ErrBadEdge, b)
	}
	*e = Edge{ends[0], ends[1]}
	return nil
}

// UnmarshalYAML rejects edges that do not have exactly two endpoints.
func (e *Edge) UnmarshalYAML(value *yaml.Node) error {
	var ends []Label
	if err := value.Decode(&ends); err != nil {
		return err
	}
	if len(ends) != 2 {
		return fmt.Errorf("line %d: %w", value.Line, ErrBadEdge)
	}
	*e = Edge{ends[0], ends[1]}
	return nil
}

// MarshalYAML writes the edge as a flow sequence.
func (e Edge) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, l := range e {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(l)})
	}
	return node, nil
}

// CheckSections reports a decoded document that lacks the vertices or the
// edges section. An empty list is fine, an absent one is not.
func (in *Instance) CheckSections() error {
	if in.Vertices == nil {
		return apperr.New(apperr.ErrCodeInvalidInstance, "missing required section \"vertices\"")
	}
	if in.Edges == nil {
		return apperr.New(apperr.ErrCodeInvalidInstance, "missing required section \"edges\"")
	}
	return nil
}

// Validate checks the parts of an instance that do not depend on graph
// structure: the name, vertex identifiers and the layout. Graph and
// constraint errors are reported by [Instance.Problem] and the solver.
func (in *Instance) Validate() error {
	if err := apperr.ValidateInstanceName(in.Name); err != nil {
		return err
	}
	seen := make(map[Label]bool, len(in.Vertices))
	for _, v := range in.Vertices {
		if v.ID == "" {
			return apperr.New(apperr.ErrCodeInvalidInstance, "empty vertex identifier")
		}
		if seen[v.ID] {
			return apperr.Wrap(apperr.ErrCodeInvalidInstance, fmt.Errorf("%w: %s", ErrDuplicateVertex, v.ID), "vertices")
		}
		seen[v.ID] = true
	}
	for id, p := range in.Layout {
		if len(p) != 2 {
			return apperr.Wrap(apperr.ErrCodeInvalidInstance, ErrBadLayout, "vertex %s has %d coordinates", id, len(p))
		}
		if !seen[id] && !in.touches(id) {
			return apperr.Wrap(apperr.ErrCodeInvalidInstance, ErrBadLayout, "unknown vertex %s", id)
		}
	}
	return nil
}

func (in *Instance) touches(id Label) bool {
	for _, e := range in.Edges {
		if e[0] == id || e[1] == id {
			return true
		}
	}
	return false
}

// Problem builds the graph and the color constraints of the instance.
//
// Vertices are added in document order, followed by any edge endpoint that
// has no entry under "vertices". Such endpoints have no constraint, which
// the solver reports as a vertex set mismatch.
func (in *Instance) Problem() (*graph.Graph[Label], edgecolor.Constraints[Label, Label], error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	g := graph.New[Label]()
	req := make(edgecolor.Constraints[Label, Label], len(in.Vertices))
	for _, v := range in.Vertices {
		if err := g.AddVertex(v.ID); err != nil {
			return nil, nil, apperr.Wrap(apperr.ErrCodeInvalidInstance, err, "vertices")
		}
		req[v.ID] = append([]Label(nil), v.Colors...)
	}
	for i, e := range in.Edges {
		for _, end := range e {
			if !g.HasVertex(end) {
				_ = g.AddVertex(end)
			}
		}
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, nil, apperr.Wrap(apperr.ErrCodeInvalidInstance, err, "edge %d (%s-%s)", i, e[0], e[1])
		}
	}
	return g, req, nil
}

// Fingerprint returns a canonical encoding of everything that affects the
// solutions: vertices with their colors and edges, in order. The name and
// layout are left out, so renaming or moving a vertex reuses cached results.
func (in *Instance) Fingerprint() ([]byte, error) {
	return json.Marshal(struct {
		Vertices Vertices `json:"vertices"`
		Edges    []Edge   `json:"edges"`
	}{in.Vertices, in.Edges})
}

// Summary describes an instance for log lines.
func (in *Instance) Summary() string {
	name := in.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("%s (%d vertices, %d edges)", name, len(in.Vertices), len(in.Edges))
}
