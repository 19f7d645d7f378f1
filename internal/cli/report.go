package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/colortrade/pkg/core/trade"
	"github.com/matzehuels/colortrade/pkg/pipeline"
)

// maxListed caps how many colorings `solve --list` prints.
const maxListed = 200

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)

// printReport prints the trade graph summary of res and, with list set, the
// colorings themselves.
func printReport(res *pipeline.Result, list bool) {
	st := res.Trade

	printNewline()
	printKeyValue("Colorings", StyleNumber.Render(strconv.Itoa(len(res.Solutions))))
	if res.TradeGraph == nil {
		printKeyValue("Trades", StyleDim.Render("skipped"))
	} else {
		printKeyValue("Trades", StyleNumber.Render(strconv.Itoa(st.Trades)))
		printKeyValue("Components", StyleNumber.Render(strconv.Itoa(st.Components)))
		printKeyValue("Sizes", formatSizes(st.ComponentSizes))
		printKeyValue("Max degree", strconv.Itoa(st.MaxDegree))
		printKeyValue("Isolated", strconv.Itoa(st.Isolated))
		if len(st.DegreeSpectrum) > 0 {
			printNewline()
			fmt.Println(spectrumTable(st.DegreeSpectrum))
		}
	}

	if !list || len(res.Solutions) == 0 {
		return
	}
	printNewline()
	for i, s := range res.Solutions {
		if i == maxListed {
			printDetail("... %d more", len(res.Solutions)-maxListed)
			break
		}
		line := StyleHighlight.Render(fmt.Sprintf("#%-4d", i)) + " " + formatColoring(s)
		if res.TradeGraph != nil {
			line += " " + StyleDim.Render(iconArrow+" "+formatIndices(trade.Partners(res.TradeGraph, i)))
		}
		fmt.Println(line)
	}
}

// spectrumTable renders a degree spectrum as a two-column table.
func spectrumTable(counts []trade.DegreeCount) string {
	rows := make([][]string, len(counts))
	for i, dc := range counts {
		rows[i] = []string{strconv.Itoa(dc.Degree), strconv.Itoa(dc.Count)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Trades", "Colorings").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
		}).
		Render()
}

// formatColoring renders a coloring as "u-v:color" pairs in edge order.
func formatColoring(s pipeline.Solution) string {
	parts := make([]string, s.Len())
	for k := range parts {
		e := s.Edge(k)
		parts[k] = fmt.Sprintf("%s-%s:%s", e.U, e.V, s.ColorAt(k))
	}
	return strings.Join(parts, " ")
}

// formatSizes renders component sizes, collapsing long tails.
func formatSizes(sizes []int) string {
	const show = 8
	if len(sizes) == 0 {
		return "-"
	}
	s := formatIndices(sizes[:min(show, len(sizes))])
	if len(sizes) > show {
		s += fmt.Sprintf(" (+%d)", len(sizes)-show)
	}
	return s
}

func formatIndices(xs []int) string {
	if len(xs) == 0 {
		return "none"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}
