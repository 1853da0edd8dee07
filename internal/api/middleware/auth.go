package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userstore/user-service/internal/api/metrics"
	"github.com/userstore/user-service/internal/auth/token"
	"github.com/userstore/user-service/internal/core/domain"
)

// claimsKey is the echo context key under which Auth stores the decoded claims.
const claimsKey = "auth.claims"

// ClaimsFrom extracts the claims injected by the Auth middleware.
func ClaimsFrom(c echo.Context) (*token.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*token.Claims)
	return claims, ok
}

// Auth validates the bearer JWT and injects its claims into context. Every
// failure mode maps to the same opaque authorization error so callers cannot
// probe which part of the check failed.
func Auth(codec *token.Codec, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return reject(c, log, "missing_token", nil)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return reject(c, log, "malformed_header", nil)
			}

			claims, err := codec.Decode(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, token.ErrExpired):
					return reject(c, log, "expired_token", err)
				case errors.Is(err, token.ErrSignatureInvalid):
					return reject(c, log, "invalid_signature", err)
				default:
					return reject(c, log, "malformed_token", err)
				}
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// reject counts the rejection, logs it at info and surfaces the opaque
// authorization error.
func reject(c echo.Context, log zerolog.Logger, reason string, err error) error {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	log.Info().
		Err(err).
		Str("reason", reason).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Msg("request rejected")
	return domain.ErrNotAuthorized
}
