package auth

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "token")
	saved := TokenFile{
		Token:   "tok",
		Server:  "http://api.local",
		Email:   "ops@example.com",
		SavedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, SaveToken(path, saved))

	got, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, saved.Token, got.Token)
	assert.Equal(t, saved.Server, got.Server)
	assert.Equal(t, saved.Email, got.Email)
	assert.True(t, saved.SavedAt.Equal(got.SavedAt))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestTokenFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	_, err := LoadToken(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NoError(t, DeleteToken(path))
}

func TestTokenFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadToken(path)
	assert.Error(t, err)
}

func TestRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, SaveToken(path, TokenFile{Token: "tok", Server: "http://a"}))

	t.Run("matching server", func(t *testing.T) {
		var c Credentials
		ok, err := Restore(&c, path, "http://a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "tok", c.Token())
	})

	t.Run("other server", func(t *testing.T) {
		var c Credentials
		ok, err := Restore(&c, path, "http://b")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, c.Present())
	})

	t.Run("no file", func(t *testing.T) {
		var c Credentials
		ok, err := Restore(&c, filepath.Join(t.TempDir(), "none"), "http://a")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
