package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)
	require.NotEqual(t, "secret-password", hash)

	require.True(t, CheckPasswordHash("secret-password", hash))
	require.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestJWT_roundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateJWT(secret, "u1", "a@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(secret, token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UID)
	require.Equal(t, "a@example.com", claims.Email)
}

func TestJWT_wrongSecret(t *testing.T) {
	token, err := GenerateJWT([]byte("secret-a"), "u1", "a@example.com", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT([]byte("secret-b"), token)
	require.Error(t, err)
}

func TestJWT_expired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateJWT(secret, "u1", "a@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(secret, token)
	require.Error(t, err)
}
