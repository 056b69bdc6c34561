package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw")
	require.NoError(t, err)
	require.NotEqual(t, "pw", hash)
	require.True(t, h.Verify(hash, "pw"))
	require.False(t, h.Verify(hash, "PW"))
	require.False(t, h.NeedsRehash(hash))

	other, err := h.Hash("pw")
	require.NoError(t, err)
	require.NotEqual(t, hash, other, "bcrypt salts every hash")
}

func TestHasher_EmptyPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	_, err := h.Hash("")
	require.ErrorIs(t, err, ErrInvalidPassword)
	require.False(t, h.Verify("", "pw"))
	require.False(t, h.Verify(LegacyDigest("pw"), ""))
}

func TestHasher_LegacyDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	legacy := LegacyDigest("pw")
	require.Equal(t, "MMlS+rEiw/l1nwKm2Vw3WLJGtP7iOZV7LU/uRuJhcMQ=", legacy)
	require.True(t, h.Verify(legacy, "pw"))
	require.False(t, h.Verify(legacy, "wrong"))
	require.True(t, h.NeedsRehash(legacy))
}

func TestNewHasher_ClampsCost(t *testing.T) {
	require.Equal(t, bcrypt.MinCost, NewHasher(0).cost)
	require.Equal(t, bcrypt.MaxCost, NewHasher(99).cost)
	require.Equal(t, DefaultCost, NewHasher(DefaultCost).cost)
}
