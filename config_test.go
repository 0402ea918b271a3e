package typemock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/typemock"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	config := `source: types/demo.ts
format: yaml
workers: 2
log:
  level: debug
  file: /var/log/typemock.log
  max_size_mb: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".typemock.yaml"), []byte(config), 0o600))

	cfg, err := typemock.LoadConfig(nested)
	require.NoError(t, err)

	want := &typemock.Config{
		Source:  filepath.Join(root, "types", "demo.ts"),
		Format:  "yaml",
		Workers: 2,
		Log: typemock.LogConfig{
			Level:     "debug",
			File:      "/var/log/typemock.log",
			MaxSizeMB: 5,
		},
	}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "typemock.yml"), []byte("format: json\n"), 0o600))

	path, err := typemock.FindConfig(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "typemock.yml"), path)

	cfg, err := typemock.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Empty(t, cfg.Source)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := typemock.LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: [1, 2"), 0o600))

	_, err = typemock.LoadConfigFile(bad)
	require.Error(t, err)
}

func TestConfigWithDefaults(t *testing.T) {
	t.Parallel()

	var nilCfg *typemock.Config

	want := &typemock.Config{
		Format:  typemock.DefaultFormat,
		Workers: typemock.DefaultWorkers,
		Log: typemock.LogConfig{
			Level:      typemock.DefaultLogLevel,
			MaxSizeMB:  typemock.DefaultMaxSizeMB,
			MaxBackups: typemock.DefaultMaxBackups,
			MaxAgeDays: typemock.DefaultMaxAgeDays,
		},
	}

	if diff := cmp.Diff(want, nilCfg.WithDefaults()); diff != "" {
		t.Errorf("WithDefaults() mismatch (-want +got):\n%s", diff)
	}

	cfg := &typemock.Config{Format: "json", Workers: 3}
	got := cfg.WithDefaults()

	assert.Equal(t, "json", got.Format)
	assert.Equal(t, 3, got.Workers)
	assert.Empty(t, cfg.Log.Level, "original is not modified")
}

func TestIsSourceFile(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"a.ts":      true,
		"a.d.ts":    true,
		"a.mts":     true,
		"a.cts":     true,
		"a.tsx":     false,
		"a.js":      false,
		"README.md": false,
		"ts":        false,
	} {
		assert.Equal(t, want, typemock.IsSourceFile(name), name)
	}
}
