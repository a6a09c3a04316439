package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates the number is not 10 digits (11 with a leading 1)
	ErrInvalidLength = errors.New("phone number must be 10 digits")

	// ErrInvalidAreaCode indicates an area code starting with 0 or 1
	ErrInvalidAreaCode = errors.New("area code must start with a digit from 2 to 9")

	// ErrInvalidExchange indicates an exchange code starting with 0 or 1
	ErrInvalidExchange = errors.New("exchange code must start with a digit from 2 to 9")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and separators")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// phoneRegex matches digits only
var phoneRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator handles North American (NANP) phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a North American phone number
// Accepts format: 3125550100, (312) 555-0100, 312.555.0100 or +1 312 555 0100
// Returns sanitized phone number (10 digits) and error if invalid
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	if len(sanitized) != 10 {
		return "", ErrInvalidLength
	}

	if sanitized[0] < '2' {
		return "", ErrInvalidAreaCode
	}
	if sanitized[3] < '2' {
		return "", ErrInvalidExchange
	}

	return sanitized, nil
}

// Sanitize removes separators and the +1 country code
func (v *PhoneValidator) Sanitize(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "", ".", "")
	phone = replacer.Replace(strings.TrimSpace(phone))

	if strings.HasPrefix(phone, "1") && len(phone) == 11 {
		phone = phone[1:]
	}

	return phone
}

// Format formats a phone number in the display format: (NPA) NXX-XXXX
func (v *PhoneValidator) Format(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("(%s) %s-%s",
		sanitized[0:3],  // area code
		sanitized[3:6],  // exchange
		sanitized[6:10], // line number
	), nil
}

// Normalize formats valid numbers and returns anything else trimmed but
// otherwise as entered
func (v *PhoneValidator) Normalize(phone string) string {
	if formatted, err := v.Format(phone); err == nil {
		return formatted
	}
	return strings.TrimSpace(phone)
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
