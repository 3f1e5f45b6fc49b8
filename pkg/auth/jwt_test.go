package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-only-key"))
	require.NoError(t, err)
	return tok
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := ExpiresAt(signed(t, jwt.MapClaims{"sub": "1", "exp": exp.Unix()}))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = ExpiresAt(signed(t, jwt.MapClaims{"sub": "1"}))
	assert.False(t, ok)

	_, ok = ExpiresAt("12|laravel-sanctum-plain-token")
	assert.False(t, ok)

	_, ok = ExpiresAt("")
	assert.False(t, ok)
}

func TestSessionTTL(t *testing.T) {
	now := time.Now()
	fallback := 24 * time.Hour

	tests := []struct {
		name  string
		token string
		want  time.Duration
	}{
		{"opaque token", "opaque", fallback},
		{"expires sooner than fallback", signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), time.Hour},
		{"expires later than fallback", signed(t, jwt.MapClaims{"exp": now.Add(48 * time.Hour).Unix()}), fallback},
		{"already expired", signed(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SessionTTL(tt.token, fallback, now)
			assert.InDelta(t, tt.want.Seconds(), got.Seconds(), 1)
		})
	}
}
