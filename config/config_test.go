package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithSearchPath(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
sources:
  - src/classes
  - src/more
private: true
format: YML
workers: 4
database: runs.db
`)

	cfg, err := Load(WithSearchPath(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/classes", "src/more"}, cfg.Sources)
	assert.True(t, cfg.IncludePrivate)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "runs.db", cfg.Database)
	assert.Equal(t, []string{".pcode"}, cfg.Extensions)
}

func TestLoadEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "workers: 2\n")
	t.Setenv("APPCLASSDOC_WORKERS", "8")
	t.Setenv("APPCLASSDOC_FORMAT", "line")

	cfg, err := Load(WithSearchPath(dir))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "line", cfg.Format)
}

func TestLoadFlags(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "format: yaml\nworkers: 2\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("format", "f", "json", "")
	flags.Int("workers", 1, "")
	flags.String("db", "", "")
	require.NoError(t, flags.Parse([]string{"--db", "out.db", "-f", "line"}))

	cfg, err := Load(WithSearchPath(dir), WithFlags(flags))
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Format, "changed flag wins over file")
	assert.Equal(t, 2, cfg.Workers, "unchanged flag keeps file value")
	assert.Equal(t, "out.db", cfg.Database)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown format", "format: xml\n"},
		{"no workers", "workers: 0\n"},
		{"bad extension", "extensions: [pcode]\n"},
		{"empty source", "sources: ['']\n"},
		{"no sources", "sources: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(WithSearchPath(dir))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: line\n"), 0o644))

	cfg, err := Load(WithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Format)

	_, err = Load(WithFile(filepath.Join(dir, "missing.yaml")))
	assert.True(t, errors.Is(err, ErrInvalid))
}
