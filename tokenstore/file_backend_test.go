package tokenstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/neuroguard/tokenstore"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	backend := tokenstore.NewFileBackend(dir)

	token, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, backend.Save(ctx, "abc.def.ghi"))

	info, err := os.Stat(backend.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = backend.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	require.NoError(t, backend.Delete(ctx))
	require.NoError(t, backend.Delete(ctx))

	_, err = os.Stat(backend.Path())
	require.True(t, os.IsNotExist(err))
}

func TestFileBackend_StoreReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := tokenstore.New(ctx, tokenstore.NewFileBackend(dir))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "tok"))

	reloaded, err := tokenstore.New(ctx, tokenstore.NewFileBackend(dir))
	require.NoError(t, err)
	token, ok := reloaded.Token()
	require.True(t, ok)
	require.Equal(t, "tok", token)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}
