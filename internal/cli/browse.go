package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colortrade/pkg/core/trade"
	"github.com/matzehuels/colortrade/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the interactive browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse <instance>",
		Short: "Page through the colorings of an instance interactively",
		Long: `Solve an instance and open an interactive list of its colorings.

Move with the arrow keys (or j/k), press t to jump to the next trade partner
of the highlighted coloring and enter to print it and exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, ref string, noCache bool) error {
	in, err := pipeline.Load(ref)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", in.Summary()))
	spinner.Start()
	res, err := runner.Execute(ctx, in, pipeline.Options{Workers: c.Config.Workers, Logger: loggerFromContext(ctx)})
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}
	spinner.Stop()

	if len(res.Solutions) == 0 {
		printWarning("%s has no colorings", in.Summary())
		return nil
	}

	model, err := tea.NewProgram(NewColoringListModel(res), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if m, ok := model.(ColoringListModel); ok && m.Selected >= 0 {
		printSuccess("Coloring #%d", m.Selected)
		printDetail("%s", formatColoring(m.Solutions[m.Selected]))
	}
	return nil
}

// =============================================================================
// ColoringListModel - Interactive coloring browser
// =============================================================================

// ColoringListModel is the bubbletea model for browsing colorings and
// following trades between them.
type ColoringListModel struct {
	Title     string
	Solutions []pipeline.Solution
	Partners  [][]int
	Cursor    int
	Offset    int
	Height    int
	Selected  int

	// origin is where the current run of jumps started; hop counts the
	// jumps so repeated presses cycle through its partners.
	origin int
	hop    int
}

// NewColoringListModel creates a browser over the colorings of res.
func NewColoringListModel(res *pipeline.Result) ColoringListModel {
	partners := make([][]int, len(res.Solutions))
	if res.TradeGraph != nil {
		for i := range partners {
			partners[i] = trade.Partners(res.TradeGraph, i)
		}
	}
	return ColoringListModel{
		Title:     res.Instance.Summary(),
		Solutions: res.Solutions,
		Partners:  partners,
		Height:    10,
		Selected:  -1,
	}
}

func (m ColoringListModel) Init() tea.Cmd {
	return nil
}

func (m ColoringListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.Solutions) == 0 {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.moveTo(m.Cursor - 1)
		case "down", "j":
			m = m.moveTo(m.Cursor + 1)
		case "pgup":
			m = m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m = m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m = m.moveTo(0)
		case "end", "G":
			m = m.moveTo(len(m.Solutions) - 1)
		case "t", "tab":
			m = m.jump()
		case "enter":
			m.Selected = m.Cursor
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, the detail pane and the footer.
		m.Height = max(msg.Height-m.current().Len()-14, 5)
		m = m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor on i (clamped) and scrolls it into view.
func (m ColoringListModel) moveTo(i int) ColoringListModel {
	i = max(0, min(i, len(m.Solutions)-1))
	if i != m.Cursor {
		m.hop = 0
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

// jump moves to a trade partner of the coloring the jump sequence started
// from, cycling through all of them on repeated presses.
func (m ColoringListModel) jump() ColoringListModel {
	if m.hop == 0 {
		m.origin = m.Cursor
	}
	ps := m.Partners[m.origin]
	if len(ps) == 0 {
		return m
	}
	next := ps[m.hop%len(ps)]
	hop := m.hop + 1
	m = m.moveTo(next)
	m.hop = hop
	return m
}

func (m ColoringListModel) current() pipeline.Solution {
	return m.Solutions[m.Cursor]
}

func (m ColoringListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  t next trade  ⏎ select  q quit"))
	b.WriteString("\n\n")
	if len(m.Solutions) == 0 {
		b.WriteString(listDimStyle.Render("no colorings"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Solutions))
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s#%-5d %3d trades", cursor, i, len(m.Partners[i]))
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case len(m.Partners[i]) == 0:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Solutions))))

	return b.String()
}

// detail renders the edges of the highlighted coloring and its partners.
func (m ColoringListModel) detail() string {
	s := m.current()
	rows := make([][]string, s.Len())
	for k := range rows {
		e := s.Edge(k)
		rows[k] = []string{string(e.U), string(e.V), string(s.ColorAt(k))}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("U", "V", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})

	ps := m.Partners[m.Cursor]
	partners := listDimStyle.Render("no trade partners")
	if len(ps) > 0 {
		strs := make([]string, len(ps))
		for i, p := range ps {
			strs[i] = "#" + strconv.Itoa(p)
		}
		partners = StyleDim.Render("trades with ") + StyleValue.Render(strings.Join(strs, " "))
	}
	return t.Render() + "\n" + partners
}
