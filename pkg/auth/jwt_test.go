package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-signing"

func testValidator(t *testing.T) *JWTValidator {
	t.Helper()
	validator, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        "stackit",
	})
	require.NoError(t, err)
	return validator
}

func testGenerator(t *testing.T, expiry time.Duration) *JWTGenerator {
	t.Helper()
	generator, err := NewJWTGenerator(JWTGeneratorConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        "stackit",
		ExpiryTime:    expiry,
	})
	require.NoError(t, err)
	return generator
}

func TestNewJWTValidator_RequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256"})
	assert.Error(t, err)
}

func TestNewJWTValidator_RejectsNonHMAC(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{SigningMethod: "RS256", SecretKey: testSecret})
	assert.Error(t, err)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	generator := testGenerator(t, time.Hour)
	validator := testValidator(t)

	token, err := generator.GenerateToken("user-1", "user@example.com", []string{"moderator"})
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, []string{"moderator"}, claims.Roles)
}

func TestValidateToken_Expired(t *testing.T) {
	generator := testGenerator(t, -time.Minute)
	validator := testValidator(t)

	token, err := generator.GenerateToken("user-1", "", nil)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	generator, err := NewJWTGenerator(JWTGeneratorConfig{
		SigningMethod: "HS256",
		SecretKey:     "a-different-secret",
		Issuer:        "stackit",
	})
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "", nil)
	require.NoError(t, err)

	_, err = testValidator(t).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	generator, err := NewJWTGenerator(JWTGeneratorConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        "someone-else",
	})
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "", nil)
	require.NoError(t, err)

	_, err = testValidator(t).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidIssuer)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := testValidator(t).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserContext_RoundTrip(t *testing.T) {
	user := &UserContext{UserID: "user-1", Roles: []string{"authenticated"}}

	ctx := SetUserInContext(context.Background(), user)
	got, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = GetUserFromContext(context.Background())
	assert.Error(t, err)
}

func TestUserContext_HasRole(t *testing.T) {
	user := &UserContext{Roles: []string{"authenticated", "moderator"}}

	assert.True(t, user.HasRole("moderator"))
	assert.False(t, user.HasRole("admin"))
}
