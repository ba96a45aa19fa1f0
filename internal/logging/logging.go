// Package logging constructs the single zap.Logger instance the CLI
// harness hands to engine.New (SPEC_FULL.md §1.1). Nothing in this
// module keeps a package-level logger — spec.md §9 explicitly rejects
// global mutable state, and a logger is state: the engine and the
// compilation cache log through the instance handed to them at
// construction; providers take no logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures logger construction. Level defaults to "info" when
// empty; unrecognized levels also fall back to info rather than erroring,
// since a bad config value for logging shouldn't itself be unloggable.
type Options struct {
	Level      string // "debug", "info", "warn", "error"
	Production bool   // true: JSON encoding for log aggregation; false: human-readable console output
}

// New builds a zap.Logger per Options. Production=false is the CLI
// harness's default (cmd/groovy-lsp-core): readable console output with
// colored level names whether or not the output is a TTY; the CLI's own
// go-isatty check governs only its diagnostic lines, not this logger.
func New(opts Options) (*zap.Logger, error) {
	level := parseLevel(opts.Level)

	var cfg zap.Config
	if opts.Production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
