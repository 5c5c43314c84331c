package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("test", 30*time.Minute)

	raw, err := tokens.Issue(Principal{UserID: 3, Roles: []Role{RoleManager}})
	require.NoError(t, err)

	p, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.UserID)
	assert.True(t, p.HasRole(RoleManager))
	assert.False(t, p.HasRole(RoleCustomer))
}

func TestTokens_ClaimsShape(t *testing.T) {
	tokens := NewTokens("test", 30*time.Minute)
	raw, err := tokens.Issue(Principal{UserID: 3, Roles: []Role{RoleCustomer}})
	require.NoError(t, err)

	mc := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(raw, mc)
	require.NoError(t, err)
	assert.Contains(t, mc, "exp")
	data, ok := mc["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), data["userId"])
	assert.Equal(t, []any{"customer"}, data["roles"])
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens("test", 30*time.Minute)
	good, err := tokens.Issue(Principal{UserID: 1, Roles: []Role{RoleCustomer}})
	require.NoError(t, err)

	expired := NewTokens("test", 30*time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.Issue(Principal{UserID: 1})
	require.NoError(t, err)

	other, err := NewTokens("other-secret", time.Minute).Issue(Principal{UserID: 1})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"exp":  time.Now().Add(time.Hour).Unix(),
		"data": map[string]any{"userId": 1, "roles": []string{"manager"}},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      old,
		"wrong secret": other,
		"alg none":     none,
		"garbage":      "not-a-token",
		"tampered":     good + "x",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
