package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := &Config{
		Portals: []Portal{
			{Name: "prod", URL: "https://portal.campus.edu"},
			{Name: "staging", URL: "https://staging.portal.campus.edu"},
		},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestFindConfigFileSearchesParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, Save(filepath.Join(root, ConfigFileName), DefaultConfig()))

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { os.Chdir(originalDir) })

	found, err := FindConfigFile()
	require.NoError(t, err)

	// Resolve symlinks: on some systems TempDir is behind /private or similar.
	expected, err := filepath.EvalSymlinks(filepath.Join(root, ConfigFileName))
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func TestFindConfigFileMissing(t *testing.T) {
	dir := t.TempDir()

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(originalDir) })

	_, err = FindConfigFile()
	require.Error(t, err)
}

func TestGetPortalByName(t *testing.T) {
	cfg := &Config{Portals: []Portal{{Name: "prod", URL: "https://p"}}}

	portal, err := cfg.GetPortalByName("prod")
	require.NoError(t, err)
	assert.Equal(t, "https://p", portal.URL)

	_, err = cfg.GetPortalByName("missing")
	assert.Error(t, err)
}

func TestGetDefaultPortal(t *testing.T) {
	_, err := (&Config{}).GetDefaultPortal()
	require.Error(t, err)

	cfg := DefaultConfig()
	portal, err := cfg.GetDefaultPortal()
	require.NoError(t, err)
	assert.Equal(t, "local", portal.Name)
}
