package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures for the transport layer
type ErrorKind int

const (
	KindStorage ErrorKind = iota
	KindValidation
	KindNotFound
	KindExpired
	KindMethodNotAllowed
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindExpired:
		return "expired"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindConflict:
		return "conflict"
	default:
		return "storage"
	}
}

// ServiceError is returned by every service operation that fails
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ValidationError reports malformed or missing input
func ValidationError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing route or driver
func NotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

// ExpiredError reports a route past its expiration
func ExpiredError(message string) *ServiceError {
	return &ServiceError{Kind: KindExpired, Message: message}
}

// MethodNotAllowedError reports an operation invoked with the wrong verb
func MethodNotAllowedError(message string) *ServiceError {
	return &ServiceError{Kind: KindMethodNotAllowed, Message: message}
}

// ConflictError reports a write rejected by the current state
func ConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: message}
}

// StorageError wraps a database failure
func StorageError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindStorage, Message: message, Err: err}
}

// KindOf returns the kind of a ServiceError anywhere in err's chain.
// Errors that are not ServiceErrors are storage failures.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStorage
}
