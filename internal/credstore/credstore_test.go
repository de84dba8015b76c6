package credstore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Ensure(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "share", "benchwrap")
	s := New(dataDir)

	require.NoError(t, s.Ensure())

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Zero(t, info.Size())
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
	assert.False(t, s.IsRegistered())

	// existing contents survive a second Ensure
	require.NoError(t, s.Save("r1"))
	require.NoError(t, s.Ensure())
	token, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "r1", token)
}

func TestStore_EnsurePropagatesErrors(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := New(filepath.Join(blocker, "benchwrap"))
	assert.Error(t, s.Ensure())
}

func TestStore_IsRegistered(t *testing.T) {
	s := New(t.TempDir())
	assert.False(t, s.IsRegistered(), "missing file")

	require.NoError(t, s.Ensure())
	require.NoError(t, os.WriteFile(s.Path(), []byte("  \n\t"), 0o600))
	assert.False(t, s.IsRegistered(), "blank file")

	require.NoError(t, os.WriteFile(s.Path(), []byte("refresh-abc\n"), 0o600))
	assert.True(t, s.IsRegistered())

	token, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "refresh-abc", token)
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.Save("first-refresh-token"))
	require.NoError(t, s.Save("second"))

	token, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	assert.ErrorIs(t, s.Save("   "), ErrEmptyToken)
}

func TestStore_SaveTightensMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix permissions only")
	}
	s := New(t.TempDir())
	require.NoError(t, s.Ensure())
	require.NoError(t, os.Chmod(s.Path(), 0o644))

	require.NoError(t, s.Save("tok"))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_Clear(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Clear(), "clearing a missing file is a no-op")

	require.NoError(t, s.Save("tok"))
	require.True(t, s.IsRegistered())

	require.NoError(t, s.Clear())
	assert.False(t, s.IsRegistered())
}

func TestReservedNames(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Save("tok"))

	names := ReservedNames()
	assert.Contains(t, names, filepath.Base(s.Path()))
	assert.FileExists(t, filepath.Join(filepath.Dir(s.Path()), names[1]))
}
