package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groovylang/lsp-core/engine"
)

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose <file>",
		Short: "Open a file in the engine and print its parser diagnostics (the unresolved-reference pass is not run)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readFile(args[0])
			if err != nil {
				return err
			}
			eng := engine.New(cfg, newLogger(), nil, nil)
			uri := "file://" + args[0]
			diags := eng.Open(uri, source, 1)
			if len(diags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no diagnostics")
				return nil
			}
			for _, d := range diags {
				printDiagnostic(cmd, args[0], d.Severity.String(), d.Message, d.Range.Start.Line+1, d.Range.Start.Character+1)
			}
			return nil
		},
	}
}
