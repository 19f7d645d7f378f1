package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colortrade/pkg/core/edgecolor"
	"github.com/matzehuels/colortrade/pkg/observability"
	"github.com/matzehuels/colortrade/pkg/pipeline"
)

// solveOpts holds the output flags of the solve command.
type solveOpts struct {
	noCache     bool   // disable the result cache
	jsonOut     bool   // print the report as JSON
	list        bool   // list every coloring
	metricsFile string // write Prometheus metrics here after the run
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var so solveOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "solve <instance>",
		Short: "Enumerate the exact edge colorings of an instance",
		Long: `Enumerate every edge coloring of an instance in which each vertex uses
exactly its prescribed colors, then build and summarize the trade graph.

The instance is a JSON or YAML file (.json, .yaml or .yml), or the name of
a built-in instance (see 'colortrade builtins').

Examples:
  colortrade solve hexagon
  colortrade solve k4 --list
  colortrade solve my-graph.yaml --workers 8 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				opts.Workers = c.Config.Workers
			}
			if so.metricsFile == "" {
				so.metricsFile = c.Config.Metrics.Textfile
			}
			return c.runSolve(cmd.Context(), cmd.OutOrStdout(), args[0], opts, so)
		},
	}

	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "search goroutines (default: number of CPUs)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop after this many colorings (0 = all)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&opts.SkipTrades, "skip-trades", false, "only enumerate colorings")
	cmd.Flags().BoolVar(&so.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&so.jsonOut, "json", false, "print the report as JSON")
	cmd.Flags().BoolVarP(&so.list, "list", "l", false, "list every coloring with its trade partners")
	cmd.Flags().StringVar(&so.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	return cmd
}

// runSolve loads the instance, runs the pipeline and prints the report.
func (c *CLI) runSolve(ctx context.Context, w io.Writer, ref string, opts pipeline.Options, so solveOpts) error {
	logger := loggerFromContext(ctx)
	in, err := pipeline.Load(ref)
	if err != nil {
		return err
	}

	if so.metricsFile != "" {
		m := observability.NewMetrics()
		m.Register()
		defer observability.Reset()
		defer func() {
			if err := m.WriteTextfile(so.metricsFile); err != nil {
				logger.Warn("write metrics", "path", so.metricsFile, "err", err)
			}
		}()
	}

	runner, err := c.newRunner(ctx, so.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger
	name := in.Name
	if name == "" {
		name = ref
	}

	prog := newProgress(logger)
	if so.jsonOut {
		res, err := runner.Execute(ctx, in, opts)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Enumerated %d colorings", len(res.Solutions)))
		return res.Report(pipeline.ReportOptions{Solutions: so.list}).WriteJSON(w)
	}

	msg := fmt.Sprintf("Enumerating colorings of %s...", name)
	spinner := newSpinnerWithContext(ctx, msg)
	opts.Progress = func(p edgecolor.Progress) {
		spinner.SetMessage(fmt.Sprintf("%s %d found", msg, p.Solutions))
	}
	spinner.Start()

	res, err := runner.Execute(ctx, in, opts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Enumerated %d colorings", len(res.Solutions)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Solved %s", StyleTitle.Render(in.Summary()))
	trades := -1
	if res.TradeGraph != nil {
		trades = res.Trade.Trades
	}
	printStats(len(res.Solutions), trades, res.CacheInfo.SolveHit)
	printReport(res, so.list)

	if res.TradeGraph != nil && len(res.Solutions) > 0 {
		printNewline()
		printNextStep("Browse", fmt.Sprintf("%s browse %s", appName, ref))
	}
	if so.metricsFile != "" {
		printFile(so.metricsFile)
	}
	return nil
}
