package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/colortrade/pkg/errors"
	"github.com/matzehuels/colortrade/pkg/instance"
)

// builtinsCommand creates the builtins command for listing and exporting
// the reference instances.
func (c *CLI) builtinsCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "builtins [name]",
		Short: "List the built-in instances or export one",
		Long: `Without arguments, list the built-in instances. With a name, write that
instance to stdout (or to --output) so it can be edited and solved as a file.

Examples:
  colortrade builtins
  colortrade builtins hexagon --format yaml
  colortrade builtins k4 -o k4.json`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: instance.BuiltinNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listBuiltins()
				return nil
			}
			return exportBuiltin(cmd.OutOrStdout(), args[0], output, instance.Format(format))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", string(instance.FormatJSON), "stdout format: json, yaml")

	return cmd
}

func listBuiltins() {
	for _, name := range instance.BuiltinNames() {
		in, _ := instance.Builtin(name)
		fmt.Printf("  %s %s\n", StyleHighlight.Render(fmt.Sprintf("%-10s", name)),
			StyleDim.Render(fmt.Sprintf("%d vertices, %d edges", len(in.Vertices), len(in.Edges))))
	}
	printNewline()
	printNextStep("Solve one", appName+" solve hexagon")
}

func exportBuiltin(w io.Writer, name, output string, format instance.Format) error {
	in, ok := instance.Builtin(name)
	if !ok {
		return apperr.New(apperr.ErrCodeNotFound, "unknown builtin %q", name)
	}
	if output == "" {
		return instance.Write(w, in, format)
	}
	if err := instance.Save(in, output); err != nil {
		return err
	}
	printSuccess("Exported %s", in.Summary())
	printFile(output)
	return nil
}
