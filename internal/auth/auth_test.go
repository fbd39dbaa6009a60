package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func TestHashPassword(t *testing.T) {
	t.Run("Successfully hash password", func(t *testing.T) {
		password := "mySecurePassword123"
		hashed, err := HashPassword(password)

		assert.NoError(t, err)
		assert.NotEmpty(t, hashed)
		assert.NotEqual(t, password, hashed)
	})

	t.Run("Different hashes for same password", func(t *testing.T) {
		password := "samePassword"
		hash1, _ := HashPassword(password)
		hash2, _ := HashPassword(password)

		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPassword(t *testing.T) {
	password := "correctPassword"
	hashed, _ := HashPassword(password)

	t.Run("Correct password", func(t *testing.T) {
		assert.True(t, CheckPassword(hashed, password))
	})

	t.Run("Incorrect password", func(t *testing.T) {
		assert.False(t, CheckPassword(hashed, "wrongPassword"))
	})

	t.Run("Empty password", func(t *testing.T) {
		assert.False(t, CheckPassword(hashed, ""))
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Run("Access token round trip", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "member@example.com", "member", testSecret)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.UserID)
		assert.Equal(t, "member@example.com", claims.Email)
		assert.Equal(t, "member", claims.Role)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("Empty secret rejected", func(t *testing.T) {
		_, err := GenerateAccessToken(1, "member@example.com", "member", "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	})

	t.Run("Wrong secret rejected", func(t *testing.T) {
		token, _ := GenerateAccessToken(1, "member@example.com", "member", testSecret)
		_, err := ValidateToken(token, "other-secret")
		assert.Error(t, err)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		_, err := ValidateToken("not.a.token", testSecret)
		assert.Error(t, err)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	t.Run("Refresh token yields new access token", func(t *testing.T) {
		refresh, err := GenerateRefreshToken(2, "trainer@example.com", "trainer", testSecret)
		require.NoError(t, err)

		access, claims, err := RefreshAccessToken(refresh, testSecret, testSecret)
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.Equal(t, 2, claims.UserID)

		accessClaims, err := ValidateToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "access", accessClaims.TokenType)
	})

	t.Run("Access token cannot be used as refresh", func(t *testing.T) {
		access, _ := GenerateAccessToken(2, "trainer@example.com", "trainer", testSecret)
		_, _, err := RefreshAccessToken(access, testSecret, testSecret)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}
