// Package instance reads and writes edge-coloring instances.
//
// # Overview
//
// An instance is a simple undirected graph together with the colors every
// vertex must see on its incident edges. Instances are stored as JSON or
// YAML documents so they can be shared with external drawing tools.
//
// # Format
//
// The format has two required sections and one optional one:
//
//	{
//	  "name": "square",
//	  "vertices": {
//	    "a": ["red", "blue"],
//	    "b": ["red", "blue"]
//	  },
//	  "edges": [
//	    ["a", "b"]
//	  ],
//	  "layout": {
//	    "a": [0, 0],
//	    "b": [1, 0]
//	  }
//	}
//
// Vertex identifiers and colors may be written as strings or integers; both
// are read as a [Label] holding the literal text, so 3 and "3" name the same
// vertex. The order of the "vertices" mapping is the vertex order and the
// order of "edges" is the canonical edge order. Both orders are kept exactly
// as written, because they determine the order in which colorings are
// enumerated.
//
// An edge may name an endpoint that has no entry under "vertices". The
// endpoint is still added to the graph so that solving reports the missing
// constraint instead of the loader rejecting the file.
//
// The "layout" section maps vertices to 2D coordinates. It is carried
// through untouched for renderers and plays no part in solving.
//
// # Loading
//
// Use [Load] to read a file (the extension picks the decoder) or [Read] to
// decode from any io.Reader. [Instance.Problem] turns a decoded instance
// into the graph and constraints the solver takes. Errors carry the
// INVALID_INSTANCE code from pkg/errors.
//
// # Built-in instances
//
// [Builtin] returns small reference instances (triangle, square, hexagon,
// k4, bowtie) that are handy for demos and tests.
package instance
