package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewNotFoundError_MessageAndStatus(t *testing.T) {
	err := NewNotFoundError("question q1")

	assert.Equal(t, "question q1 not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.True(t, IsNotFound(err))
}

func TestNewExternalError_CarriesCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := NewExternalError("dynamodb", cause)

	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "dynamodb")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestIsType_WalksWrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("listing questions: %w", NewValidationError("title must not be empty"))

	assert.True(t, IsType(wrapped, ErrorTypeValidation))
	assert.False(t, IsNotFound(wrapped))
	assert.Nil(t, GetAppError(errors.New("plain error")))
}

func TestConstructors_StatusMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NewValidationError("bad input"), http.StatusBadRequest},
		{NewUnauthorizedError(""), http.StatusUnauthorized},
		{NewForbiddenError(""), http.StatusForbidden},
		{NewRateLimitError(100, "minute"), http.StatusTooManyRequests},
		{NewInternalError("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus, tc.err.Message)
	}
}

func TestErrorHandler_RendersAppError(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/duplicates/detect", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req, NewRateLimitError(100, "minute"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Error)
	assert.Equal(t, string(ErrorTypeRateLimit), body.Type)
	assert.Contains(t, body.Message, "100 requests per minute")
}

func TestErrorHandler_MasksUnknownErrors(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topics/extract", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "An internal error occurred", body.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
