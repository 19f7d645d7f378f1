package instance

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// Palette is the default color set of the built-in instances.
var Palette = []string{"orange", "yellow", "green", "blue", "purple", "black"}

var builtins = map[string]func() *Instance{
	"triangle": func() *Instance {
		return &Instance{
			Name: "triangle",
			Vertices: Vertices{
				{ID: "a", Colors: Labels("orange", "yellow")},
				{ID: "b", Colors: Labels("yellow", "green")},
				{ID: "c", Colors: Labels("green", "orange")},
			},
			Edges:  []Edge{{"a", "b"}, {"b", "c"}, {"c", "a"}},
			Layout: circle(Labels("a", "b", "c")),
		}
	},
	"square":  func() *Instance { in, _ := Cycle(4, Palette[:2]...); in.Name = "square"; return in },
	"hexagon": func() *Instance { in, _ := Cycle(6, Palette[:2]...); in.Name = "hexagon"; return in },
	"k4":      func() *Instance { in, _ := Complete(4, Palette[:3]...); in.Name = "k4"; return in },
	"bowtie": func() *Instance {
		return &Instance{
			Name: "bowtie",
			Vertices: Vertices{
				{ID: "0", Colors: Labels("orange", "yellow", "green", "blue")},
				{ID: "1", Colors: Labels("orange", "green")},
				{ID: "2", Colors: Labels("green", "yellow")},
				{ID: "3", Colors: Labels("green", "purple")},
				{ID: "4", Colors: Labels("purple", "blue")},
			},
			Edges: []Edge{{"0", "1"}, {"1", "2"}, {"2", "0"}, {"0", "3"}, {"3", "4"}, {"4", "0"}},
			Layout: map[Label][]float64{
				"0": {0, 0}, "1": {-1, 1}, "2": {-1, -1}, "3": {1, 1}, "4": {1, -1},
			},
		}
	},
}

// Builtin returns a fresh copy of the named reference instance.
func Builtin(name string) (*Instance, bool) {
	fn, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// BuiltinNames lists the reference instances, sorted.
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// Cycle returns the n-cycle 0-1-...-(n-1)-0 with every vertex required to
// use colors. Only two colors make sense on a cycle; other counts produce a
// degree mismatch when solved.
func Cycle(n int, colors ...string) (*Instance, error) {
	if n < 3 {
		return nil, fmt.Errorf("cycle needs at least 3 vertices, got %d", n)
	}
	ids := numbered(n)
	in := uniform(ids, colors)
	for i := range n {
		in.Edges = append(in.Edges, Edge{ids[i], ids[(i+1)%n]})
	}
	in.Name = fmt.Sprintf("c%d", n)
	in.Layout = circle(ids)
	return in, nil
}

// Complete returns K_n with edges in lexicographic order and every vertex
// required to use colors.
func Complete(n int, colors ...string) (*Instance, error) {
	if n < 2 {
		return nil, fmt.Errorf("complete graph needs at least 2 vertices, got %d", n)
	}
	ids := numbered(n)
	in := uniform(ids, colors)
	for i := range n {
		for j := i + 1; j < n; j++ {
			in.Edges = append(in.Edges, Edge{ids[i], ids[j]})
		}
	}
	in.Name = fmt.Sprintf("k%d", n)
	in.Layout = circle(ids)
	return in, nil
}

func numbered(n int) []Label {
	ids := make([]Label, n)
	for i := range ids {
		ids[i] = Label(strconv.Itoa(i))
	}
	return ids
}

func uniform(ids []Label, colors []string) *Instance {
	in := &Instance{Vertices: make(Vertices, len(ids)), Edges: []Edge{}}
	for i, id := range ids {
		in.Vertices[i] = Vertex{ID: id, Colors: Labels(colors...)}
	}
	return in
}

// circle places ids evenly on the unit circle, starting at the top.
func circle(ids []Label) map[Label][]float64 {
	out := make(map[Label][]float64, len(ids))
	for i, id := range ids {
		a := math.Pi/2 - 2*math.Pi*float64(i)/float64(len(ids))
		out[id] = []float64{math.Round(math.Cos(a)*1e6) / 1e6, math.Round(math.Sin(a)*1e6) / 1e6}
	}
	return out
}
