package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.MaxCachedDocuments)
	assert.Equal(t, PhaseConversion, cfg.CompilePhase)
	assert.Equal(t, 20, cfg.Completion.TypeParameterLimit)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_cached_documents: 50\n"), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxCachedDocuments)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, Default().MaxCachedDocuments, cfg.MaxCachedDocuments)
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_cached_documents: 50\n"), 0o644))

	t.Setenv("GROOVYLSP_MAX_CACHED_DOCUMENTS", "7")
	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxCachedDocuments)
}

func TestDiagnosticEnabledDenylistWinsOverAllowlist(t *testing.T) {
	cfg := Default()
	cfg.DiagnosticProviders.Allowlist = []string{"unused-import"}
	cfg.DiagnosticProviders.Denylist = []string{"unused-import"}
	assert.False(t, cfg.DiagnosticEnabled("unused-import"))
}

func TestDiagnosticEnabledEmptyAllowlistMeansEverything(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.DiagnosticEnabled("anything"))
}
