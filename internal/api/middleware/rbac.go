package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userstore/user-service/internal/api/metrics"
	"github.com/userstore/user-service/internal/core/domain"
	"github.com/userstore/user-service/internal/core/ports"
)

// RequireRole gates a route on exact role equality. There is no role
// hierarchy: an Admin token does not satisfy a User-gated route or vice versa.
// Denials are recorded on the audit trail.
func RequireRole(role domain.Role, sink ports.AuditSink, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return reject(c, log, "missing_claims", nil)
			}

			if claims.Role != role {
				if sink != nil {
					sink.Enqueue(ports.AuditEventInput{
						Subject:  claims.Subject,
						Role:     claims.Role,
						Action:   domain.AuditActionDenied,
						TargetID: c.Request().Method + " " + c.Path(),
						Outcome:  domain.AuditOutcomeDenied,
					})
				}
				metrics.AuthRejectionsTotal.WithLabelValues("role_mismatch").Inc()
				log.Warn().
					Str("subject", claims.Subject).
					Str("role", string(claims.Role)).
					Str("method", c.Request().Method).
					Str("path", c.Path()).
					Msg("role not permitted")
				return domain.ErrNotAuthorized
			}

			return next(c)
		}
	}
}
