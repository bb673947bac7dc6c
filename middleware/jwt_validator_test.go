package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTValidator_RoundTrip(t *testing.T) {
	v := NewJWTValidator("test-secret", "review-generator")

	token, err := v.IssueToken("ops@example.com", []string{"admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := v.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Sub)
	assert.Equal(t, "review-generator", claims.Iss)
	assert.True(t, claims.HasRole("admin"))
	assert.Greater(t, claims.Exp, claims.Iat)
}

func TestJWTValidator_Rejects(t *testing.T) {
	ctx := context.Background()
	v := NewJWTValidator("test-secret", "review-generator")

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTValidator("other-secret", "review-generator")
		token, err := other.IssueToken("x", []string{"admin"}, time.Hour)
		require.NoError(t, err)

		_, err = v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTValidator("test-secret", "someone-else")
		token, err := other.IssueToken("x", []string{"admin"}, time.Hour)
		require.NoError(t, err)

		_, err = v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewJWTValidator("test-secret", "review-generator")
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.IssueToken("x", []string{"admin"}, time.Hour)
		require.NoError(t, err)

		_, err = v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("no expiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "x",
			"iss": "review-generator",
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
			"sub": "x",
			"iss": "review-generator",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.ValidateToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTValidator_NotConfigured(t *testing.T) {
	v := NewJWTValidator("", "")

	_, err := v.ValidateToken(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrAuthNotConfigured)

	_, err = v.IssueToken("x", nil, time.Minute)
	assert.ErrorIs(t, err, ErrAuthNotConfigured)
}
