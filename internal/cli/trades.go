package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/colortrade/pkg/errors"
	"github.com/matzehuels/colortrade/pkg/pipeline"
)

// tradesReport is the JSON form of `trades --json`.
type tradesReport struct {
	Index    int                       `json:"index"`
	Coloring []pipeline.EdgeColor      `json:"coloring"`
	Partners []pipeline.ColoringReport `json:"partners"`
}

// tradesCommand creates the trades command.
func (c *CLI) tradesCommand() *cobra.Command {
	var (
		noCache bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "trades <instance> <index>",
		Short: "Show the trade partners of one coloring",
		Long: `Show one coloring of an instance together with every coloring it trades
with, that is every coloring that differs from it on all edges.

Indexes follow the enumeration order printed by 'colortrade solve --list'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return apperr.New(apperr.ErrCodeInvalidInput, "index %q is not a number", args[1])
			}
			opts := pipeline.Options{Workers: c.Config.Workers}
			return c.runTrades(cmd.Context(), cmd.OutOrStdout(), args[0], idx, opts, noCache, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")

	return cmd
}

func (c *CLI) runTrades(ctx context.Context, w io.Writer, ref string, idx int, opts pipeline.Options, noCache, jsonOut bool) error {
	in, err := pipeline.Load(ref)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	res, err := runner.Execute(ctx, in, opts)
	if err != nil {
		return err
	}
	partners, err := res.Partners(idx)
	if err != nil {
		return err
	}

	if jsonOut {
		rep := res.Report(pipeline.ReportOptions{Solutions: true})
		out := tradesReport{
			Index:    idx,
			Coloring: rep.Solutions[idx].Edges,
			Partners: make([]pipeline.ColoringReport, len(partners)),
		}
		for i, p := range partners {
			out.Partners[i] = rep.Solutions[p]
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printSuccess("Coloring #%d of %s", idx, StyleTitle.Render(in.Summary()))
	printDetail("%s", formatColoring(res.Solutions[idx]))
	printNewline()

	if len(partners) == 0 {
		printInfo("No trades: every other coloring shares an edge color with #%d", idx)
		return nil
	}
	printInfo("%d trade partners", len(partners))
	for _, p := range partners {
		fmt.Println("  " + StyleHighlight.Render(fmt.Sprintf("#%-4d", p)) + " " + formatColoring(res.Solutions[p]))
	}
	return nil
}
