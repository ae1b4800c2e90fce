package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kersley/attend/internal/catalog"
)

func TestFileStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.attend")
	store := NewFileStore(path)

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNotFound)

	in := Snapshot{
		CurrentIndex: 3,
		AccountEmail: "grace@example.org",
		Answers:      catalog.Answers{"role": "Speaker"},
	}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, in.CurrentIndex, out.CurrentIndex)
	require.Equal(t, in.AccountEmail, out.AccountEmail)
	require.Equal(t, "Speaker", out.Answers["role"])

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNotFound)

	// Clearing twice is not an error.
	require.NoError(t, store.Clear())
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "progress.attend"))

	require.NoError(t, store.Save(Snapshot{CurrentIndex: 1}))
	require.NoError(t, store.Save(Snapshot{CurrentIndex: 9}))

	out, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, 9, out.CurrentIndex)
}

func TestFileStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.attend")
	require.NoError(t, os.WriteFile(path, []byte("*** scribbles ***"), 0o600))

	_, err := NewFileStore(path).Load()
	require.ErrorIs(t, err, ErrMalformed)
}

func TestFileStore_AtRestFormIsNotPlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.attend")
	store := NewFileStore(path)
	require.NoError(t, store.Save(Snapshot{
		Answers: catalog.Answers{"role": "Speaker"},
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "Speaker")
	require.NotContains(t, string(raw), "{")
}
