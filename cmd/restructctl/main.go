// Command restructctl loads a CFG fixture and prints its structured form.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/larchwood/restructure"
	"github.com/larchwood/restructure/cfgfile"
	"github.com/larchwood/restructure/internal/printer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "restructctl",
		Short: "Structure a control-flow-graph fixture into goto-free pseudocode",
	}
	root.AddCommand(newStructureCmd())
	return root
}

func newStructureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "structure <fixture.yaml>",
		Short: "Load a YAML CFG fixture and print its structured AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := cfgfile.Load(args[0])
			if err != nil {
				return err
			}
			stmt, err := restructure.Structure(fn)
			if err != nil {
				return fmt.Errorf("structure %s: %w", fn.Name, err)
			}
			return printer.Fprint(cmd.OutOrStdout(), fn.Name, stmt)
		},
	}
}
