// Command groovy-lsp-core is a CLI harness over the engine package for
// manually driving parse/diagnose/symbols/rename without any LSP
// transport in front of it — the same role the teacher's cmd/morfx plays
// for its own query engine.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/groovylang/lsp-core/internal/config"
	"github.com/groovylang/lsp-core/internal/logging"
)

var (
	configPath string
	envFile    string
	cfg        config.CoreConfig
	noColor    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "groovy-lsp-core",
		Short:         "Drive the Groovy language core's providers from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath, envFile)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file to load before resolving config")
	root.PersistentFlags().BoolVar(&noColor, "no-color", !isatty.IsTerminal(os.Stdout.Fd()), "disable ANSI severity coloring")

	root.AddCommand(newParseCmd())
	root.AddCommand(newDiagnoseCmd())
	root.AddCommand(newSymbolsCmd())
	root.AddCommand(newRenameCmd())
	return root
}

func newLogger() *zap.Logger {
	log, err := logging.New(logging.Options{Level: cfg.LogLevel})
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
