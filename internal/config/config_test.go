package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("data-dir", "", "")
	fs.String("backend", "", "")
	fs.String("storage", "", "")
	fs.Duration("debounce", 0, "")
	fs.String("log-file", "", "")
	fs.String("log-level", "", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet(), "")
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.DataDir, cfg.DataDir)
	assert.Equal(t, "file", cfg.StorageBackend)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, filepath.Join(cfg.DataDir, "notetabs.json"), cfg.ResolvedStoragePath())
	assert.Equal(t, filepath.Join(cfg.DataDir, "notetabs.log"), cfg.ResolvedLogFile())
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "notetabs.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
data:
  dir: `+dir+`
storage:
  backend: sqlite
autosave:
  debounce: 2s
log:
  level: warn
`), 0644))

	t.Run("File", func(t *testing.T) {
		cfg, err := Load(newFlagSet(), cfgFile)
		require.NoError(t, err)
		assert.Equal(t, dir, cfg.DataDir)
		assert.Equal(t, "sqlite", cfg.StorageBackend)
		assert.Equal(t, 2*time.Second, cfg.Debounce)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, filepath.Join(dir, "notetabs.db"), cfg.ResolvedStoragePath())
	})

	t.Run("Environment Overrides File", func(t *testing.T) {
		t.Setenv("NOTETABS_AUTOSAVE_DEBOUNCE", "750ms")
		t.Setenv("NOTETABS_STORAGE_BACKEND", "memory")

		cfg, err := Load(newFlagSet(), cfgFile)
		require.NoError(t, err)
		assert.Equal(t, 750*time.Millisecond, cfg.Debounce)
		assert.Equal(t, "memory", cfg.StorageBackend)
	})

	t.Run("Flags Override Environment", func(t *testing.T) {
		t.Setenv("NOTETABS_STORAGE_BACKEND", "memory")

		fs := newFlagSet()
		require.NoError(t, fs.Parse([]string{"--backend", "file", "--storage", "/tmp/x.json", "--debounce", "1s"}))

		cfg, err := Load(fs, cfgFile)
		require.NoError(t, err)
		assert.Equal(t, "file", cfg.StorageBackend)
		assert.Equal(t, "/tmp/x.json", cfg.ResolvedStoragePath())
		assert.Equal(t, time.Second, cfg.Debounce)
		assert.Equal(t, dir, cfg.DataDir, "unset flags must not clobber other layers")
	})
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(nil, "config.ini")
	assert.Error(t, err)

	_, err = Load(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParserForFile(t *testing.T) {
	for _, name := range []string{"a.yml", "a.yaml", "a.json", "a.toml", "a.env", "A.JSON"} {
		_, err := parserForFile(name)
		assert.NoError(t, err, name)
	}

	_, err := parserForFile("a.xml")
	assert.Error(t, err)
}
