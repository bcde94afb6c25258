package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServeConfig(t *testing.T) {
	t.Parallel()

	t.Run("no file yields defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadServeConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultAddr, cfg.Addr)
		assert.Empty(t, cfg.Seed)
		assert.True(t, cfg.GitignoreEnabled())
	})

	t.Run("file values are honored", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"addr: 127.0.0.1:12345\nseed: /srv/data\ngitignore: false\n"), 0o644))

		cfg, err := LoadServeConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:12345", cfg.Addr)
		assert.Equal(t, "/srv/data", cfg.Seed)
		assert.False(t, cfg.GitignoreEnabled())
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("seed: /srv/data\n"), 0o644))

		cfg, err := LoadServeConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultAddr, cfg.Addr)
		assert.True(t, cfg.GitignoreEnabled())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadServeConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("addr: [broken\n"), 0o644))

		_, err := LoadServeConfig(path)
		assert.Error(t, err)
	})
}
