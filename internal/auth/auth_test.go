package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRY", "")

	service, err := NewService()
	assert.NoError(t, err)
	assert.NotNil(t, service)
	assert.NotEmpty(t, service.jwtSecret)
	assert.Equal(t, 24*time.Hour, service.tokenExp)
}

func TestNewService_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "booking-secret")
	t.Setenv("JWT_EXPIRY", "2h")

	service, err := NewService()
	require.NoError(t, err)
	assert.Equal(t, []byte("booking-secret"), service.jwtSecret)
	assert.Equal(t, 2*time.Hour, service.TokenExpiry())

	t.Setenv("JWT_EXPIRY", "soon")
	_, err = NewService()
	assert.Error(t, err)

	t.Setenv("JWT_EXPIRY", "-1h")
	_, err = NewService()
	assert.Error(t, err)
}

func TestService_GenerateToken(t *testing.T) {
	service, _ := NewService()

	token, err := service.GenerateToken("5f0c6d1e-3b7a-4d2c-9f10-2b8f7a1e4c11")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = service.GenerateToken("")
	assert.Error(t, err)
}

func TestService_ValidateToken(t *testing.T) {
	service, _ := NewService()
	sessionID := "5f0c6d1e-3b7a-4d2c-9f10-2b8f7a1e4c11"

	token, _ := service.GenerateToken(sessionID)

	// Test valid token
	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Greater(t, claims.Exp, time.Now().Unix())

	// Test invalid token
	_, err = service.ValidateToken("invalid-token")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)

	// Test token with Bearer prefix
	_, err = service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	service, _ := NewService()
	issued := time.Now().Add(-48 * time.Hour)
	service.now = func() time.Time { return issued }
	token, err := service.GenerateToken("expired-session")
	require.NoError(t, err)

	service.now = time.Now
	_, err = service.ValidateToken(token)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "one")
	issuer, _ := NewService()
	token, _ := issuer.GenerateToken("session")

	t.Setenv("JWT_SECRET", "two")
	verifier, _ := NewService()
	_, err := verifier.ValidateToken(token)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ValidateToken_MissingSession(t *testing.T) {
	service, _ := NewService()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(service.jwtSecret)
	require.NoError(t, err)

	_, err = service.ValidateToken(signed)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service, _ := NewService()

	// Test valid header
	token := "valid-token"
	header := "Bearer " + token
	extracted, err := service.ExtractTokenFromHeader(header)
	assert.NoError(t, err)
	assert.Equal(t, token, extracted)

	// Test empty header
	_, err = service.ExtractTokenFromHeader("")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)

	// Test invalid format
	_, err = service.ExtractTokenFromHeader("InvalidFormat")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)

	// Test missing token
	_, err = service.ExtractTokenFromHeader("Bearer ")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
}
