package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groovylang/lsp-core/gparse"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Groovy source file and print its syntax diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readFile(args[0])
			if err != nil {
				return err
			}
			result := gparse.Parse(gparse.Request{URI: "file://" + args[0], Source: source})
			if len(result.Diagnostics) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no diagnostics")
				return nil
			}
			for _, d := range result.Diagnostics {
				printDiagnostic(cmd, args[0], d.Severity.String(), d.Message, d.Range.Start.Line+1, d.Range.Start.Character+1)
			}
			return nil
		},
	}
}

func severityColor(sev string) string {
	switch sev {
	case "error":
		return "\x1b[31m"
	case "warning":
		return "\x1b[33m"
	default:
		return "\x1b[36m"
	}
}

func printDiagnostic(cmd *cobra.Command, file, severity, message string, line, column int) {
	if noColor {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: %s: %s\n", file, line, column, severity, message)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s:%d:%d: %s: %s\x1b[0m\n", severityColor(severity), file, line, column, severity, message)
}
