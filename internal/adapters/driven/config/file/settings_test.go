package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".lexroute", "config.toml"), store.Path())
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "data"), settings.DataDir)
	assert.Equal(t, "https://api.openai.com/v1", settings.Encoder.BaseURL)
	assert.Equal(t, "text-embedding-3-small", settings.Encoder.Model)
	assert.Equal(t, 2000, settings.Chunking.MaxChars)
	assert.Equal(t, 200, settings.Chunking.MinChars)
	assert.Equal(t, 1.0, settings.Fetch.RequestsPerSecond)
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	content := `
[encoder]
base_url = "http://localhost:11434/v1"
model = "nomic-embed-text"
dimensions = 768
`
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o600))

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/v1", settings.Encoder.BaseURL)
	assert.Equal(t, "nomic-embed-text", settings.Encoder.Model)
	assert.Equal(t, 768, settings.Encoder.Dimensions)
	// Unset sections fall back to defaults.
	assert.Equal(t, 2000, settings.Chunking.MaxChars)
	assert.Equal(t, filepath.Join(tmpDir, "data"), settings.DataDir)
}

func TestLoad_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("not = [valid"), 0o600))

	_, err = store.Load()
	assert.Error(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(filepath.Join(tmpDir, "nested"))
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	settings.Chunking.MaxChars = 1500
	settings.Encoder.Model = "text-embedding-3-large"

	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1500, loaded.Chunking.MaxChars)
	assert.Equal(t, "text-embedding-3-large", loaded.Encoder.Model)
}

func TestLoad_APIKeyFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	t.Setenv("LEXROUTE_API_KEY", "sk-env")

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, "sk-env", settings.Encoder.APIKey)
}
