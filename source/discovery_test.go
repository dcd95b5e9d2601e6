// FILE: lixenwraith/resolver/source/discovery_test.go
package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	t.Run("EnvVarWins", func(t *testing.T) {
		t.Setenv("DISCTEST_DATA", "/explicit/data.json")
		path, ok := Discover(DefaultDiscoveryOptions("disctest"))
		assert.True(t, ok)
		assert.Equal(t, "/explicit/data.json", path)
	})

	t.Run("CustomPathsInOrder", func(t *testing.T) {
		first := t.TempDir()
		second := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(second, "app.yaml"), []byte("a: 1\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(first, "app.toml"), []byte("a = 1\n"), 0644))

		opts := DiscoveryOptions{Name: "app", Extensions: []string{".json", ".yaml", ".toml"}, Paths: []string{first, second}}
		path, ok := Discover(opts)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(first, "app.toml"), path)
	})

	t.Run("XDGConfigHome", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(home, "xdgapp"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(home, "xdgapp", "xdgapp.json"), []byte(`{}`), 0644))
		t.Setenv("XDG_CONFIG_HOME", home)

		opts := DefaultDiscoveryOptions("xdgapp")
		opts.UseCurrentDir = false
		path, ok := Discover(opts)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(home, "xdgapp", "xdgapp.json"), path)
	})

	t.Run("DirectoriesAreSkipped", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "app.json"), 0755))

		_, ok := Discover(DiscoveryOptions{Name: "app", Extensions: []string{".json"}, Paths: []string{dir}})
		assert.False(t, ok)
	})

	t.Run("NothingFound", func(t *testing.T) {
		_, ok := Discover(DiscoveryOptions{Name: "nothing-here", Extensions: []string{".json"}, Paths: []string{t.TempDir()}})
		assert.False(t, ok)
	})
}
