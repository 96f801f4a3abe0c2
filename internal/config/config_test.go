package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default("")
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, "2006-01-02", cfg.Dates.DisplayFormat)
	assert.Equal(t, 5*time.Minute, cfg.Undo.Window())

	assert.Equal(t, "EUR", Default("EUR").Currency)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Default("GBP")
	cfg.Import.DateFormats = []string{"02/01/2006"}
	cfg.Import.UnsignedKind = "expense"
	cfg.Undo.WindowSeconds = 60

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, time.Minute, loaded.Undo.Window())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("currency: [oops"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}
