package envfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{".env", ".env.local"}, Candidates(""))
	assert.Equal(t,
		[]string{".env", ".env.local", ".env.production", ".env.production.local"},
		Candidates("production"))
}

func TestRead_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "VUE_APP_API_URL=http://base\nVUE_APP_ENVIRONMENT=base\nONLY_BASE=1\n")
	writeFile(t, dir, ".env.local", "VUE_APP_ENVIRONMENT=local\n")
	writeFile(t, dir, ".env.production", "VUE_APP_API_URL=https://prod.example.com\n")
	writeFile(t, dir, ".env.production.local", "# comment\nVUE_APP_ENVIRONMENT=prod-local\n")

	values, err := Read(dir, "production")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"VUE_APP_API_URL":     "https://prod.example.com",
		"VUE_APP_ENVIRONMENT": "prod-local",
		"ONLY_BASE":           "1",
	}, values)
}

func TestRead_ModeFilesIgnoredForOtherModes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "VUE_APP_API_URL=http://base\n")
	writeFile(t, dir, ".env.production", "VUE_APP_API_URL=https://prod.example.com\n")

	values, err := Read(dir, "development")
	require.NoError(t, err)
	assert.Equal(t, "http://base", values["VUE_APP_API_URL"])
}

func TestRead_NoFiles(t *testing.T) {
	values, err := Read(t.TempDir(), "development")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRead_MissingDirectory(t *testing.T) {
	values, err := Read(filepath.Join(t.TempDir(), "does-not-exist"), "production")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRead_UnreadableEntry(t *testing.T) {
	dir := t.TempDir()
	// A directory named .env exists but cannot be parsed as a file.
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".env"), 0o755))

	_, err := Read(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

func TestOverlay(t *testing.T) {
	files := map[string]string{"A": "file", "B": "file"}
	process := map[string]string{"B": "process", "C": "process"}

	out := Overlay(files, process)

	assert.Equal(t, map[string]string{"A": "file", "B": "process", "C": "process"}, out)
	assert.Equal(t, map[string]string{"A": "file", "B": "file"}, files)
}
