package handler

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/userstore/user-service/internal/core/domain"
)

// emailPattern is intentionally looser than RFC 5322. It is the exact
// pattern the service has always enforced; do not tighten it, stored
// records were validated against this shape.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9+._-]+@[a-zA-Z-]+\.[a-z]+`)

const (
	tagUserEmail = "user_email"
	tagUserAge   = "user_age"

	codeRange        = "range"
	codeInvalidEmail = "invalid email"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// Rule evaluation never short-circuits: every declared rule on every field
// runs, and all violations come back together as domain.ValidationErrors.
type echoValidator struct {
	v      *validator.Validate
	minAge int
}

// NewValidator returns an echoValidator ready to be assigned to
// echo.Echo.Validator. minAge is the inclusive lower bound enforced by the
// user_age rule.
func NewValidator(minAge int) *echoValidator {
	v := validator.New()

	// Report violations under the JSON field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	ev := &echoValidator{v: v, minAge: minAge}

	// RegisterValidation only errors on an empty tag name.
	_ = v.RegisterValidation(tagUserEmail, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagUserAge, func(fl validator.FieldLevel) bool {
		return fl.Field().Int() >= int64(ev.minAge)
	})

	return ev
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := domain.ValidationErrors{}
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], ev.violation(fe))
	}
	return out
}

// violation translates a single rule failure into the wire vocabulary.
// Message stays nil so it serialises as null.
func (ev *echoValidator) violation(fe validator.FieldError) domain.FieldViolation {
	switch fe.Tag() {
	case tagUserAge:
		return domain.FieldViolation{
			Code: codeRange,
			Params: map[string]any{
				"min":   ev.minAge,
				"value": fe.Value(),
			},
		}
	case tagUserEmail:
		return domain.FieldViolation{
			Code: codeInvalidEmail,
			Params: map[string]any{
				"value": fe.Value(),
			},
		}
	default:
		return domain.FieldViolation{Code: fe.Tag()}
	}
}
