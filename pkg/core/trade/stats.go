package trade

import (
	"github.com/emirpasic/gods/maps/treemap"

	"github.com/matzehuels/colortrade/pkg/core/graph"
)

// DegreeCount is one line of a degree spectrum: Count solutions trade with
// exactly Degree others.
type DegreeCount struct {
	Degree int `json:"degree"`
	Count  int `json:"count"`
}

// Stats summarizes a trade graph.
type Stats struct {
	Colorings      int           `json:"colorings"`
	Trades         int           `json:"trades"`
	Components     int           `json:"components"`
	ComponentSizes []int         `json:"component_sizes"`
	DegreeSpectrum []DegreeCount `json:"degree_spectrum"`
	MaxDegree      int           `json:"max_degree"`
	Isolated       int           `json:"isolated"`
}

// Analyze computes component sizes (largest first) and the degree spectrum
// (ascending degree) of tg.
func Analyze(tg *graph.Graph[int]) Stats {
	sizes := tg.ComponentSizes()
	st := Stats{
		Colorings:      tg.VertexCount(),
		Trades:         tg.EdgeCount(),
		Components:     len(sizes),
		ComponentSizes: sizes,
		DegreeSpectrum: Spectrum(tg),
	}
	for _, d := range tg.Degrees() {
		if d > st.MaxDegree {
			st.MaxDegree = d
		}
		if d == 0 {
			st.Isolated++
		}
	}
	return st
}

// Spectrum counts how many vertices have each degree, ascending by degree.
// Degrees that do not occur are omitted.
func Spectrum(tg *graph.Graph[int]) []DegreeCount {
	counts := treemap.NewWithIntComparator()
	for _, d := range tg.Degrees() {
		n, _ := counts.Get(d)
		if n == nil {
			counts.Put(d, 1)
		} else {
			counts.Put(d, n.(int)+1)
		}
	}

	out := make([]DegreeCount, 0, counts.Size())
	it := counts.Iterator()
	for it.Next() {
		out = append(out, DegreeCount{Degree: it.Key().(int), Count: it.Value().(int)})
	}
	return out
}
