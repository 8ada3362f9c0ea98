package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"stackit-backend/pkg/auth"
	apperrors "stackit-backend/pkg/errors"
)

// Per-caller request budgets, enforced per process
const (
	ipRequestsPerMinute   = 100
	userRequestsPerMinute = 200
)

// Authenticate creates an authentication middleware backed by the given
// JWT validator. Requests already validated by an API Gateway JWT
// authorizer are trusted via the context headers the Lambda entrypoint
// sets; everything else must carry a valid bearer token.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(ipRequestsPerMinute)
	userLimiter := auth.NewUserRateLimiter(userRequestsPerMinute)
	errs := apperrors.NewErrorHandler(logger, false)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			allowed, err := ipLimiter.Allow(r.Context(), clientIP)
			if err != nil {
				errs.Handle(w, r, apperrors.NewInternalError("rate limiter failure").WithCause(err))
				return
			}
			if !allowed {
				errs.Handle(w, r, apperrors.NewRateLimitError(ipRequestsPerMinute, "minute"))
				return
			}

			userCtx, ok := gatewayUser(r)
			if !ok {
				token := extractToken(r)
				if token == "" {
					errs.Handle(w, r, apperrors.NewUnauthorizedError("Missing authentication token"))
					return
				}

				claims, err := validator.ValidateToken(token)
				if err != nil {
					logger.Warn("Invalid token",
						zap.Error(err),
						zap.String("ip", clientIP),
						zap.String("path", r.URL.Path),
					)
					switch err {
					case auth.ErrExpiredToken:
						errs.Handle(w, r, apperrors.NewUnauthorizedError("Token has expired"))
					case auth.ErrInvalidSignature:
						errs.Handle(w, r, apperrors.NewUnauthorizedError("Invalid token signature"))
					default:
						errs.Handle(w, r, apperrors.NewUnauthorizedError("Invalid token"))
					}
					return
				}

				userCtx = &auth.UserContext{
					UserID: claims.UserID,
					Email:  claims.Email,
					Roles:  claims.Roles,
				}
			}

			allowed, err = userLimiter.Allow(r.Context(), userCtx.UserID)
			if err != nil {
				errs.Handle(w, r, apperrors.NewInternalError("rate limiter failure").WithCause(err))
				return
			}
			if !allowed {
				errs.Handle(w, r, apperrors.NewRateLimitError(userRequestsPerMinute, "minute"))
				return
			}

			ctx := auth.SetUserInContext(r.Context(), userCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates middleware that requires one of the given roles
func RequireRole(logger *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	errs := apperrors.NewErrorHandler(logger, false)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			if err != nil {
				errs.Handle(w, r, apperrors.NewUnauthorizedError(""))
				return
			}

			for _, role := range roles {
				if user.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			errs.Handle(w, r, apperrors.NewForbiddenError("Insufficient permissions"))
		})
	}
}

// gatewayUser extracts the user identity that the Lambda entrypoint
// propagates for requests already authorized by API Gateway.
func gatewayUser(r *http.Request) (*auth.UserContext, bool) {
	if r.Header.Get("X-API-Gateway-Authorized") != "true" {
		return nil, false
	}

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return nil, false
	}

	roles := []string{"authenticated"}
	if raw := r.Header.Get("X-User-Roles"); raw != "" {
		roles = strings.Split(raw, ",")
	}

	return &auth.UserContext{
		UserID: userID,
		Email:  r.Header.Get("X-User-Email"),
		Roles:  roles,
	}, true
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return authHeader
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
