package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "key-1", []byte("payload"), "image/png"))
	require.Equal(t, 1, store.Len())

	data, contentType, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
	require.Equal(t, "image/png", contentType)

	require.NoError(t, store.Delete(ctx, "key-1"))
	require.Zero(t, store.Len())

	_, _, err = store.Get(ctx, "key-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteMissingIsNoop(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Delete(context.Background(), "missing"))
}

func TestMemoryStore_FailPuts(t *testing.T) {
	store := NewMemoryStore()
	store.FailPuts = true

	err := store.Put(context.Background(), "key", []byte("x"), "image/png")
	require.ErrorIs(t, err, ErrPutFailed)
	require.Zero(t, store.Len())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, store.Put(ctx, "key", original, "image/png"))
	original[0] = 'z'

	data, _, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), data)
}
