package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateInviteToken(t *testing.T) {
	token, err := GenerateInviteToken()
	require.NoError(t, err)
	require.Len(t, token, 32)

	_, err = hex.DecodeString(token)
	require.NoError(t, err)
}

func TestGenerateInviteToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateInviteToken()
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}
