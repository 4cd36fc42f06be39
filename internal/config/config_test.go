package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, DefaultMaxLineWidth, cfg.MaxLineWidth)
	require.Empty(t, cfg.AdmonitionLabels)
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
max_line_width: 80
admonition_labels:
  note: Nota
  warning: Atención
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 80, cfg.MaxLineWidth)
	require.Equal(t, "Nota", cfg.AdmonitionLabels["note"])
	require.Equal(t, "Atención", cfg.AdmonitionLabels["warning"])
}

func TestLoad_AbsentWidth_UsesDefault(t *testing.T) {
	path := writeConfig(t, `admonition_labels: {note: Nota}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxLineWidth, cfg.MaxLineWidth)
}

func TestLoad_NegativeWidth_Fails(t *testing.T) {
	path := writeConfig(t, `max_line_width: -5`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "max_line_width must be positive")
}

func TestLoad_MalformedYAML_Fails(t *testing.T) {
	path := writeConfig(t, "max_line_width: [not a number")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_MissingFile_Fails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	require.NoError(t, (&Config{MaxLineWidth: 1}).Validate())
	require.Error(t, (&Config{MaxLineWidth: 0}).Validate())
	require.Error(t, (&Config{MaxLineWidth: -120}).Validate())
}
