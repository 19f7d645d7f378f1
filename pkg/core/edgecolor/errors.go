package edgecolor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrVertexSetMismatch means the constraint keys differ from the graph's
	// vertex set.
	ErrVertexSetMismatch = errors.New("constraint vertices do not match graph vertices")

	// ErrDuplicateColor means a vertex lists the same color more than once.
	ErrDuplicateColor = errors.New("duplicate color in constraint")

	// ErrDegreeMismatch means a vertex's degree differs from the number of
	// colors it requires.
	ErrDegreeMismatch = errors.New("vertex degree does not match constraint size")

	// ErrInvalidColoring is returned by Verify when a coloring breaks the
	// per-vertex contract.
	ErrInvalidColoring = errors.New("invalid coloring")
)

// ConstraintError describes an input validation failure. Kind is one of
// ErrVertexSetMismatch, ErrDuplicateColor or ErrDegreeMismatch, so callers can
// use errors.Is on the returned error; errors.As exposes the details.
type ConstraintError struct {
	Kind error

	// Vertex is the offending vertex (DuplicateColor, DegreeMismatch).
	Vertex any
	// Color is the repeated color (DuplicateColor).
	Color any
	// Degree and Size are the vertex degree and constraint length (DegreeMismatch).
	Degree int
	Size   int

	// Missing lists graph vertices without a constraint and Extra lists
	// constrained vertices absent from the graph (VertexSetMismatch).
	Missing []any
	Extra   []any
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	switch e.Kind {
	case ErrVertexSetMismatch:
		var parts []string
		if len(e.Missing) > 0 {
			parts = append(parts, "missing "+joinAny(e.Missing))
		}
		if len(e.Extra) > 0 {
			parts = append(parts, "unknown "+joinAny(e.Extra))
		}
		return fmt.Sprintf("%v: %s", e.Kind, strings.Join(parts, "; "))
	case ErrDuplicateColor:
		return fmt.Sprintf("%v: vertex %v repeats %v", e.Kind, e.Vertex, e.Color)
	case ErrDegreeMismatch:
		return fmt.Sprintf("%v: vertex %v has degree %d but %d colors", e.Kind, e.Vertex, e.Degree, e.Size)
	}
	return fmt.Sprintf("%v: vertex %v", e.Kind, e.Vertex)
}

// Unwrap returns Kind for errors.Is compatibility.
func (e *ConstraintError) Unwrap() error { return e.Kind }

// joinAny formats values sorted by their printed form so messages are stable
// regardless of map iteration order.
func joinAny(vs []any) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = fmt.Sprint(v)
	}
	slices.Sort(s)
	return strings.Join(s, ", ")
}
