package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vocabuilder/api/internal/model"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	user := &model.User{ID: "u-123", Role: model.RoleAdmin}

	token, err := GenerateAccessToken(user, "secret")
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-123", claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	sign := func(method jwt.SigningMethod, key interface{}, claims Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "wrong secret",
			token: sign(jwt.SigningMethodHS256, []byte("other"), Claims{UserID: "u1", RegisteredClaims: valid}),
		},
		{
			name: "expired",
			token: sign(jwt.SigningMethodHS256, []byte("secret"), Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			}}),
		},
		{
			name:  "unsigned",
			token: sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, Claims{UserID: "u1", RegisteredClaims: valid}),
		},
		{
			name: "foreign issuer",
			token: sign(jwt.SigningMethodHS256, []byte("secret"), Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}}),
		},
		{
			name:  "missing user id",
			token: sign(jwt.SigningMethodHS256, []byte("secret"), Claims{RegisteredClaims: valid}),
		},
		{
			name:  "garbage",
			token: "not.a.token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAccessToken(tt.token, "secret")
			assert.Error(t, err)
		})
	}
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	a, err := GenerateRefreshToken()
	require.NoError(t, err)
	b, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 44)
}
