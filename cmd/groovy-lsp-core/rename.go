package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/groovylang/lsp-core/engine"
	"github.com/groovylang/lsp-core/position"
)

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <file> <line> <character> <new-name>",
		Short: "Dry-run a rename: print the workspace edit a rename at a position would produce",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", args[1], err)
			}
			character, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid character %q: %w", args[2], err)
			}
			newName := args[3]

			source, err := readFile(args[0])
			if err != nil {
				return err
			}
			eng := engine.New(cfg, newLogger(), nil, nil)
			uri := "file://" + args[0]
			eng.Open(uri, source, 1)

			edit, cerr := eng.Rename(context.Background(), uri, position.Pos{Line: line, Character: character}, newName)
			if cerr != nil {
				return cerr
			}

			for editURI, edits := range edit.Changes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", editURI)
				for _, te := range edits {
					fmt.Fprintf(cmd.OutOrStdout(), "  [%d:%d-%d:%d] -> %q\n",
						te.Range.Start.Line+1, te.Range.Start.Character+1,
						te.Range.End.Line+1, te.Range.End.Character+1, te.NewText)
				}
			}
			if edit.RenameFile != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "rename file: %s -> %s\n", edit.RenameFile.OldURI, edit.RenameFile.NewURI)
			}
			return nil
		},
	}
}
