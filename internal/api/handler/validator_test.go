package handler

import (
	"errors"
	"testing"

	"github.com/userstore/user-service/internal/core/domain"
)

func TestValidator_AccumulatesAcrossFields(t *testing.T) {
	v := NewValidator(100)

	err := v.Validate(&saveUserRequest{
		Name:   "Test User",
		Age:    1,
		Email:  "bad_value",
		Gender: domain.GenderMale,
	})

	var ve domain.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(ve) != 2 {
		t.Fatalf("got violations on %d fields, want 2: %+v", len(ve), ve)
	}

	age := ve["age"]
	if len(age) != 1 || age[0].Code != "range" {
		t.Fatalf("age violations = %+v, want one with code range", age)
	}
	if age[0].Message != nil {
		t.Errorf("age message = %v, want nil", *age[0].Message)
	}
	if got := age[0].Params["min"]; got != 100 {
		t.Errorf("age params min = %v, want 100", got)
	}
	if got := age[0].Params["value"]; got != 1 {
		t.Errorf("age params value = %v, want 1", got)
	}

	email := ve["email"]
	if len(email) != 1 || email[0].Code != "invalid email" {
		t.Fatalf("email violations = %+v, want one with code invalid email", email)
	}
	if got := email[0].Params["value"]; got != "bad_value" {
		t.Errorf("email params value = %v, want bad_value", got)
	}
}

func TestValidator_AgeBoundIsInclusive(t *testing.T) {
	tests := []struct {
		name   string
		minAge int
		age    int
		valid  bool
	}{
		{"below bound", 100, 99, false},
		{"exactly bound", 100, 100, true},
		{"above bound", 100, 150, true},
		{"configured lower bound rejects", 18, 17, false},
		{"configured lower bound accepts", 18, 18, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(tt.minAge)
			err := v.Validate(&saveUserRequest{
				Name:   "Test User",
				Age:    tt.age,
				Email:  "test@test.com",
				Gender: domain.GenderMale,
			})
			if tt.valid && err != nil {
				t.Fatalf("age %d with min %d: unexpected error %v", tt.age, tt.minAge, err)
			}
			if !tt.valid && err == nil {
				t.Fatalf("age %d with min %d: expected a range violation", tt.age, tt.minAge)
			}
		})
	}
}

func TestValidator_EmailPattern(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"test@test.com", true},
		{"user+tag@host.com", true},
		{"first.last-x_y@my-host.dev", true},
		{"bad_value", false},
		{"missing@tld", false},
		{"@host.com", false},
		{"UPPER@HOST.COM", false},
	}

	v := NewValidator(100)
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := v.Validate(&saveUserRequest{
				Name:   "Test User",
				Age:    120,
				Email:  tt.email,
				Gender: domain.GenderFemale,
			})
			if tt.valid && err != nil {
				t.Fatalf("%q: unexpected error %v", tt.email, err)
			}
			if !tt.valid && err == nil {
				t.Fatalf("%q: expected an invalid email violation", tt.email)
			}
		})
	}
}

func TestValidator_RequiredFields(t *testing.T) {
	v := NewValidator(100)

	err := v.Validate(&saveUserRequest{})

	var ve domain.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	for _, field := range []string{"name", "age", "email", "gender"} {
		violations := ve[field]
		if len(violations) == 0 {
			t.Errorf("no violation reported on %s", field)
			continue
		}
		if violations[0].Code != "required" {
			t.Errorf("%s code = %q, want required", field, violations[0].Code)
		}
	}
}

func TestValidator_SearchFiltersAreOptional(t *testing.T) {
	v := NewValidator(100)

	if err := v.Validate(&searchUsersRequest{}); err != nil {
		t.Fatalf("empty criteria should pass, got %v", err)
	}

	bad := "not-an-email"
	err := v.Validate(&searchUsersRequest{Email: &bad})
	var ve domain.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(ve["email"]) != 1 || ve["email"][0].Code != "invalid email" {
		t.Fatalf("email violations = %+v, want one with code invalid email", ve["email"])
	}
}
