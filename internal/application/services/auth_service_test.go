package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/glambooking/glambooking-api/configs"
	impl "github.com/glambooking/glambooking-api/internal/application/services"
	"github.com/glambooking/glambooking-api/internal/core/domain/auth"
)

const testSecret = "test-secret-with-enough-entropy"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestValidateToken(t *testing.T) {
	svc := impl.NewAuthService(&config.AuthConfig{JWTSecret: testSecret, Issuer: "https://idp.example.com"}, nil)
	valid := jwt.RegisteredClaims{
		Subject:   "owner-1",
		Issuer:    "https://idp.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	claims, err := svc.ValidateToken(context.Background(), signToken(t, testSecret, jwt.SigningMethodHS256, &auth.Claims{Email: "o@example.com", RegisteredClaims: valid}))
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.UserID())
	assert.Equal(t, "o@example.com", claims.Email)

	cases := map[string]string{
		"wrong secret": signToken(t, "other", jwt.SigningMethodHS256, &auth.Claims{RegisteredClaims: valid}),
		"wrong alg":    signToken(t, testSecret, jwt.SigningMethodHS512, &auth.Claims{RegisteredClaims: valid}),
		"expired": signToken(t, testSecret, jwt.SigningMethodHS256, &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "owner-1", Issuer: valid.Issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}),
		"no expiry": signToken(t, testSecret, jwt.SigningMethodHS256, &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "owner-1", Issuer: valid.Issuer,
		}}),
		"other issuer": signToken(t, testSecret, jwt.SigningMethodHS256, &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "owner-1", Issuer: "https://evil.example.com", ExpiresAt: valid.ExpiresAt,
		}}),
		"no subject": signToken(t, testSecret, jwt.SigningMethodHS256, &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer: valid.Issuer, ExpiresAt: valid.ExpiresAt,
		}}),
		"garbage": "not.a.token",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), tok)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
