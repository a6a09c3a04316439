package validator

import (
	"errors"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// ErrInvalidEmail indicates the address failed the email rule
var ErrInvalidEmail = errors.New("invalid email address")

// EmailValidator checks addresses with the same rule gin applies to
// `binding:"email"` fields
type EmailValidator struct {
	validate *playground.Validate
}

// NewEmailValidator creates a new email validator instance
func NewEmailValidator() *EmailValidator {
	return &EmailValidator{validate: playground.New()}
}

// Validate returns the trimmed address, or ErrInvalidEmail
func (v *EmailValidator) Validate(email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := v.validate.Var(email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}
