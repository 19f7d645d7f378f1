package pipeline

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/colortrade/pkg/core/trade"
)

// Report is the serializable summary of a run, shared by `solve --json`
// and the HTTP API.
type Report struct {
	RunID     string           `json:"run_id"`
	Instance  string           `json:"instance"`
	Vertices  int              `json:"vertices"`
	Edges     int              `json:"edges"`
	Stats     trade.Stats      `json:"stats"`
	Timing    Timing           `json:"timing"`
	Cache     CacheReport      `json:"cache"`
	Solutions []ColoringReport `json:"solutions,omitempty"`
}

// Timing holds stage durations in milliseconds.
type Timing struct {
	SolveMS float64 `json:"solve_ms"`
	TradeMS float64 `json:"trade_ms"`
}

// CacheReport mirrors CacheInfo.
type CacheReport struct {
	Solve bool `json:"solve"`
	Trade bool `json:"trade"`
}

// ColoringReport is one coloring with its trade partners.
type ColoringReport struct {
	Index    int         `json:"index"`
	Edges    []EdgeColor `json:"edges"`
	Partners []int       `json:"partners,omitempty"`
}

// EdgeColor is the color of one edge.
type EdgeColor struct {
	U     string `json:"u"`
	V     string `json:"v"`
	Color string `json:"color"`
}

// ReportOptions selects the optional parts of a report.
type ReportOptions struct {
	// Solutions lists every coloring with its partners.
	Solutions bool
}

// Report builds the summary of r.
func (r *Result) Report(opts ReportOptions) Report {
	rep := Report{
		RunID:    r.RunID.String(),
		Instance: instanceName(r.Instance),
		Vertices: r.Stats.Vertices,
		Edges:    r.Stats.Edges,
		Stats:    r.Trade,
		Timing: Timing{
			SolveMS: float64(r.Stats.SolveTime.Microseconds()) / 1000,
			TradeMS: float64(r.Stats.TradeTime.Microseconds()) / 1000,
		},
		Cache: CacheReport{Solve: r.CacheInfo.SolveHit, Trade: r.CacheInfo.TradeHit},
	}
	if !opts.Solutions {
		return rep
	}

	rep.Solutions = make([]ColoringReport, len(r.Solutions))
	for i, s := range r.Solutions {
		cr := ColoringReport{Index: i, Edges: make([]EdgeColor, s.Len())}
		for k := 0; k < s.Len(); k++ {
			e := s.Edge(k)
			cr.Edges[k] = EdgeColor{U: string(e.U), V: string(e.V), Color: string(s.ColorAt(k))}
		}
		if r.TradeGraph != nil {
			cr.Partners = trade.Partners(r.TradeGraph, i)
		}
		rep.Solutions[i] = cr
	}
	return rep
}

// WriteJSON writes rep as indented JSON.
func (rep Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
