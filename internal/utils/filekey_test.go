package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsImageContentType(t *testing.T) {
	require.True(t, IsImageContentType("image/jpeg"))
	require.True(t, IsImageContentType("image/heic"))
	require.False(t, IsImageContentType("text/plain"))
	require.False(t, IsImageContentType("application/octet-stream"))
	require.False(t, IsImageContentType(""))
}

func TestBlobKey(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)

	key := BlobKey(now, "image/jpeg")
	require.True(t, strings.HasPrefix(key, "20240601123045.000000-"))
	require.True(t, strings.HasSuffix(key, ".jpeg"))

	require.True(t, strings.HasSuffix(BlobKey(now, "image/jpg"), ".jpeg"))
	require.True(t, strings.HasSuffix(BlobKey(now, "image/png"), ".png"))
	require.True(t, strings.HasSuffix(BlobKey(now, "image/heic"), ".heic"))

	// Unknown image subtypes derive the extension from the subtype name.
	require.True(t, strings.HasSuffix(BlobKey(now, "image/avif"), ".avif"))
}

func TestBlobKey_UniquePerCall(t *testing.T) {
	now := time.Now()
	require.NotEqual(t, BlobKey(now, "image/png"), BlobKey(now, "image/png"))
}
