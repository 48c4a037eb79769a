package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSetValue_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SetValue(path, "backend.url", "http://desk:9000"))

	var got map[string]map[string]string
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Equal(t, "http://desk:9000", got["backend"]["url"])
}

func TestSetValue_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "backend.timeout", "15s"))
	require.NoError(t, SetValue(path, "history.path", "/tmp/h.db"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "# airdesk configuration")
	require.Contains(t, content, "timeout: 15s")
	require.Contains(t, content, "path: /tmp/h.db")
	require.Contains(t, content, "url: http://localhost:8000")
}

func TestSetValue_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  url: http://x\n"), 0o600))

	require.ErrorContains(t, SetValue(path, "backend", "x"), "is a section")
	require.ErrorContains(t, SetValue(path, "backend.url.scheme", "x"), "is not a section")
	require.ErrorContains(t, SetValue(path, "backend..url", "x"), "invalid key")
}
