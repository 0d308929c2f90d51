package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.GenerateToken("billing-team")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "billing-team", claims.Subject)
	assert.Equal(t, "invoice-rag", claims.Issuer)
	assert.Equal(t, time.Hour, m.GetTokenDuration())
	assert.Equal(t, m.GetTokenDuration(), claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	other := NewJWTManager("another-secret", time.Hour)
	expired := NewJWTManager("secret", -time.Minute)

	foreign, err := other.GenerateToken("x")
	require.NoError(t, err)
	stale, err := expired.GenerateToken("x")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", foreign},
		{"expired", stale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
