package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stackit-backend/pkg/auth"
)

const testSecret = "middleware-test-secret"

func testMiddleware(t *testing.T) func(http.Handler) http.Handler {
	t.Helper()
	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        "stackit",
	})
	require.NoError(t, err)
	return Authenticate(validator, zap.NewNop())
}

func signToken(t *testing.T, userID string, roles []string) string {
	t.Helper()
	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        "stackit",
		ExpiryTime:    time.Hour,
	})
	require.NoError(t, err)

	token, err := generator.GenerateToken(userID, "user@example.com", roles)
	require.NoError(t, err)
	return token
}

func captureUser() (http.Handler, **auth.UserContext) {
	var captured *auth.UserContext
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := auth.GetUserFromContext(r.Context()); err == nil {
			captured = user
		}
		w.WriteHeader(http.StatusOK)
	})
	return handler, &captured
}

func TestAuthenticate_MissingToken(t *testing.T) {
	next, _ := captureUser()
	handler := testMiddleware(t)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/engagement/analyze", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"UNAUTHORIZED"`)
}

func TestAuthenticate_ValidBearerToken(t *testing.T) {
	next, captured := captureUser()
	handler := testMiddleware(t)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/engagement/analyze", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", []string{"moderator"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, *captured)
	assert.Equal(t, "user-1", (*captured).UserID)
	assert.Equal(t, []string{"moderator"}, (*captured).Roles)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	next, _ := captureUser()
	handler := testMiddleware(t)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/engagement/analyze", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_GatewayAuthorizedRequest(t *testing.T) {
	next, captured := captureUser()
	handler := testMiddleware(t)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/engagement/analyze", nil)
	req.Header.Set("X-API-Gateway-Authorized", "true")
	req.Header.Set("X-User-ID", "gw-user")
	req.Header.Set("X-User-Roles", "authenticated,moderator")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, *captured)
	assert.Equal(t, "gw-user", (*captured).UserID)
	assert.Equal(t, []string{"authenticated", "moderator"}, (*captured).Roles)
}

func TestRequireRole_Enforced(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(zap.NewNop(), "moderator")(next)

	user := &auth.UserContext{UserID: "user-1", Roles: []string{"authenticated"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/moderation/analyze", nil)
	req = req.WithContext(auth.SetUserInContext(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	user.Roles = []string{"moderator"}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
