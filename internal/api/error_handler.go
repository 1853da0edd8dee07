package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userstore/user-service/internal/core/domain"
)

// Label discriminators carried on every non-auth error body.
const (
	labelValidationFailed = "validation.failed"
	labelJSONParseFailed  = "json_parse.failed"
	labelServerError      = "server.error"
)

// errorResponse is the single-error envelope.
type errorResponse struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// validationResponse carries every violation found across all fields of the
// rejected body.
type validationResponse struct {
	ValidationErrors domain.ValidationErrors `json:"validation_errors"`
	Label            string                  `json:"label"`
}

// authErrorResponse is the opaque envelope for token and role failures. It
// deliberately carries no detail about which check failed.
type authErrorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their deterministic status and body.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	// Echo's own errors (unknown route, method not allowed, body limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Label: labelServerError, Message: fmt.Sprintf("%v", he.Message)}
	}

	var ve domain.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest, validationResponse{ValidationErrors: ve, Label: labelValidationFailed}
	}

	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden, authErrorResponse{Error: "not authorized"}
	case errors.Is(err, domain.ErrInvalidHash):
		// A bad hash is an authorization failure, not a shape failure: the
		// record cannot have come from a server response.
		return http.StatusUnauthorized, errorResponse{Label: labelJSONParseFailed, Message: "Invalid Hash"}
	case errors.Is(err, domain.ErrJSONParse):
		return http.StatusBadRequest, errorResponse{Label: labelJSONParseFailed, Message: err.Error()}
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidUserID):
		return http.StatusNotFound, errorResponse{Label: labelServerError, Message: "Resource not found"}
	}

	// Unexpected error: log the real cause, return a redacted message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Label: labelServerError, Message: "server error"}
}
