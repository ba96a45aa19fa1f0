package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groovylang/lsp-core/engine"
	"github.com/groovylang/lsp-core/providers"
)

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "Print the document symbol outline for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readFile(args[0])
			if err != nil {
				return err
			}
			eng := engine.New(cfg, newLogger(), nil, nil)
			uri := "file://" + args[0]
			eng.Open(uri, source, 1)

			syms, cerr := eng.DocumentSymbols(context.Background(), uri)
			if cerr != nil {
				return cerr
			}
			for _, s := range syms {
				printSymbol(cmd, s, 0)
			}
			return nil
		},
	}
}

func printSymbol(cmd *cobra.Command, sym providers.SymbolInformation, depth int) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s (%d:%d)\n", strings.Repeat("  ", depth), sym.Kind, sym.Name, sym.Location.Range.Start.Line+1, sym.Location.Range.Start.Character+1)
	for _, child := range sym.Children {
		printSymbol(cmd, child, depth+1)
	}
}
