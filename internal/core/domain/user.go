package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Role is the closed set of capabilities a signed token can carry. Gates
// compare roles by strict equality: Admin is not a superset of User.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole converts a raw string into a Role, rejecting anything outside
// the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// UnmarshalJSON rejects unknown roles so that a token carrying one fails
// decoding instead of slipping through the gates unmatched.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Gender is a closed enumeration; request bodies carrying any other value
// fail at the JSON decoding stage, not at validation.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ParseGender converts a raw string into a Gender, rejecting anything
// outside the closed set.
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), nil
	default:
		return "", fmt.Errorf("unknown gender %q", s)
	}
}

func (g *Gender) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	gender, err := ParseGender(s)
	if err != nil {
		return err
	}
	*g = gender
	return nil
}

// User is the record managed by the service. ID is the hex form of the
// storage ObjectID and is empty until the record has been saved.
type User struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Email  string `json:"email"`
	Gender Gender `json:"gender"`
}

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidUserID = errors.New("invalid user id")
	ErrNotAuthorized = errors.New("not authorized")
	ErrInvalidHash   = errors.New("invalid hash")
	ErrJSONParse     = errors.New("json parse failed")
)

// FieldViolation is a single rule failure on one field. Message is a
// pointer so that rules without a human text serialise as null, matching
// the wire contract.
type FieldViolation struct {
	Code    string         `json:"code"`
	Message *string        `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// ValidationErrors maps field names to every violation found on them.
// The validator accumulates across all fields in one pass; an instance is
// only produced when at least one violation exists.
type ValidationErrors map[string][]FieldViolation

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(v))
}
