// Package config loads CoreConfig (SPEC_FULL.md §1.3): an optional YAML
// file layered with environment overrides, mirroring the teacher's
// pflag + config file layering adapted to this module's own config
// surface (spec.md §6).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CompilePhase names the Groovy compile phase documents are parsed to
// (spec.md §4.2). "conversion" — AST built, no semantic resolution — is
// the only phase this module's hand-written parser can produce, but the
// field stays configurable so a future front end has somewhere to plug in.
type CompilePhase string

const (
	PhaseConversion    CompilePhase = "conversion"
	PhaseSemanticAnalysis CompilePhase = "semantic_analysis"
)

// DiagnosticProviders configures the allowlist/denylist override order
// spec.md §4.6.8 describes for the diagnostics-merge layer: a provider
// named in Denylist is always suppressed, even if also present in
// Allowlist — denylist wins.
type DiagnosticProviders struct {
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// JenkinsConfig configures the source-classification glob patterns
// workspace/ uses to recognize Jenkins pipeline scripts (SPEC_FULL.md §3).
type JenkinsConfig struct {
	FilePatterns []string `yaml:"file_patterns"`
}

// CompletionConfig bounds the completion provider's per-request work
// (spec.md §4.6.1).
type CompletionConfig struct {
	TypeParameterLimit int `yaml:"type_parameter_limit"`
}

// CoreConfig is the engine's full configuration surface (spec.md §6
// "configure").
type CoreConfig struct {
	MaxCachedDocuments  int                  `yaml:"max_cached_documents"`
	CompilePhase        CompilePhase         `yaml:"compile_phase"`
	DiagnosticProviders DiagnosticProviders  `yaml:"diagnostic_providers"`
	Jenkins             JenkinsConfig        `yaml:"jenkins"`
	Completion          CompletionConfig     `yaml:"completion"`
	LogLevel            string               `yaml:"log_level"`
}

// Default returns the configuration spec.md's defaults describe:
// 100 cached documents, conversion-phase compiles, no diagnostic
// provider overrides, the conventional Jenkinsfile patterns, and a
// 20-entry type-parameter completion limit.
func Default() CoreConfig {
	return CoreConfig{
		MaxCachedDocuments: 100,
		CompilePhase:       PhaseConversion,
		Jenkins: JenkinsConfig{
			FilePatterns: []string{"Jenkinsfile", "**/*.jenkinsfile", "**/*.Jenkinsfile"},
		},
		Completion: CompletionConfig{TypeParameterLimit: 20},
		LogLevel:   "info",
	}
}

// Load reads path (if non-empty and the file exists) as YAML over the
// defaults, then applies environment overrides — GROOVYLSP_* variables,
// sourced from both the real environment and an optional .env file via
// godotenv, mirroring the CLI harness's env-loading convention
// (SPEC_FULL.md §1.3).
func Load(path string, envFile string) (CoreConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// no config file is not an error; defaults stand.
		default:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *CoreConfig) {
	if v, ok := os.LookupEnv("GROOVYLSP_MAX_CACHED_DOCUMENTS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxCachedDocuments = n
		}
	}
	if v, ok := os.LookupEnv("GROOVYLSP_COMPILE_PHASE"); ok {
		cfg.CompilePhase = CompilePhase(v)
	}
	if v, ok := os.LookupEnv("GROOVYLSP_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("GROOVYLSP_DIAGNOSTIC_DENYLIST"); ok {
		cfg.DiagnosticProviders.Denylist = splitNonEmpty(v)
	}
	if v, ok := os.LookupEnv("GROOVYLSP_DIAGNOSTIC_ALLOWLIST"); ok {
		cfg.DiagnosticProviders.Allowlist = splitNonEmpty(v)
	}
	if v, ok := os.LookupEnv("GROOVYLSP_COMPLETION_TYPE_PARAMETER_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Completion.TypeParameterLimit = n
		}
	}
}

func splitNonEmpty(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DiagnosticEnabled reports whether a diagnostic provider named name
// should run, applying the denylist-wins override order spec.md §4.6.8
// specifies: an empty allowlist means "everything not denylisted";
// Denylist always overrides Allowlist.
func (c CoreConfig) DiagnosticEnabled(name string) bool {
	for _, d := range c.DiagnosticProviders.Denylist {
		if d == name {
			return false
		}
	}
	if len(c.DiagnosticProviders.Allowlist) == 0 {
		return true
	}
	for _, a := range c.DiagnosticProviders.Allowlist {
		if a == name {
			return true
		}
	}
	return false
}
