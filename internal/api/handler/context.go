package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/userstore/user-service/internal/api/middleware"
	"github.com/userstore/user-service/internal/auth/token"
	"github.com/userstore/user-service/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware before any
// service call. Presence proves the middleware ran on this route; a route
// registered without it fails closed here.
func ctxClaims(c echo.Context) (*token.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, domain.ErrNotAuthorized
	}
	return claims, nil
}
