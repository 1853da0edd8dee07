package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userstore/user-service/internal/auth/token"
	"github.com/userstore/user-service/internal/core/domain"
	"github.com/userstore/user-service/internal/core/ports"
)

type stubSink struct {
	events []ports.AuditEventInput
}

func (s *stubSink) Enqueue(in ports.AuditEventInput) {
	s.events = append(s.events, in)
}

func newRBACContext(claims *token.Claims) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(claimsKey, claims)
	}
	return c
}

func adminClaims(sub string) *token.Claims {
	return &token.Claims{
		Role:             domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
	}
}

func userClaims(sub string) *token.Claims {
	return &token.Claims{
		Role:             domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
	}
}

func TestRequireRole_Allows(t *testing.T) {
	sink := &stubSink{}
	c := newRBACContext(adminClaims("alice@test.com"))

	called := false
	handler := RequireRole(domain.RoleAdmin, sink, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if len(sink.events) != 0 {
		t.Fatalf("unexpected audit events: %+v", sink.events)
	}
}

func TestRequireRole_NoRoleHierarchy(t *testing.T) {
	tests := []struct {
		name     string
		claims   *token.Claims
		required domain.Role
	}{
		{"user on admin route", userClaims("bob@test.com"), domain.RoleAdmin},
		{"admin on user route", adminClaims("alice@test.com"), domain.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &stubSink{}
			c := newRBACContext(tt.claims)

			handler := RequireRole(tt.required, sink, zerolog.Nop())(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})

			err := handler(c)
			if !errors.Is(err, domain.ErrNotAuthorized) {
				t.Fatalf("expected ErrNotAuthorized, got %v", err)
			}

			if len(sink.events) != 1 {
				t.Fatalf("expected 1 audit event, got %d", len(sink.events))
			}
			got := sink.events[0]
			if got.Action != domain.AuditActionDenied {
				t.Errorf("action = %q, want %q", got.Action, domain.AuditActionDenied)
			}
			if got.Outcome != domain.AuditOutcomeDenied {
				t.Errorf("outcome = %q, want %q", got.Outcome, domain.AuditOutcomeDenied)
			}
			if got.Subject != tt.claims.Subject {
				t.Errorf("subject = %q, want %q", got.Subject, tt.claims.Subject)
			}
		})
	}
}

func TestRequireRole_MissingClaims(t *testing.T) {
	sink := &stubSink{}
	c := newRBACContext(nil)

	handler := RequireRole(domain.RoleAdmin, sink, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if len(sink.events) != 0 {
		t.Fatalf("missing claims should not produce an audit event, got %+v", sink.events)
	}
}
