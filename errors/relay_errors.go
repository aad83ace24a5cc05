package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind partitions relay failures into the four contract categories. Every
// error crossing a service boundary carries exactly one kind; the HTTP layer
// maps kinds to status codes and nothing else interprets them.
type Kind string

const (
	// KindAuthentication: identity could not be established from the token.
	KindAuthentication Kind = "authentication_error"
	// KindAuthorization: identity was established (or deliberately absent)
	// but the channel policy forbids the grant.
	KindAuthorization Kind = "authorization_error"
	// KindValidation: malformed request shape.
	KindValidation Kind = "validation_error"
	// KindInfrastructure: the provider SDK call itself failed.
	KindInfrastructure Kind = "infrastructure_error"
)

// RelayError is the typed error returned by the validator, the gate and the
// trigger facade.
type RelayError struct {
	Kind    Kind   `json:"error"`
	Message string `json:"message"`
	cause   error
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RelayError) Unwrap() error {
	return e.cause
}

// NewAuthenticationError reports that a supplied token could not be resolved
// to an active user.
func NewAuthenticationError(message string) *RelayError {
	return &RelayError{Kind: KindAuthentication, Message: message}
}

// NewAuthorizationError reports that the requested channel policy refused the
// grant.
func NewAuthorizationError(message string) *RelayError {
	return &RelayError{Kind: KindAuthorization, Message: message}
}

// NewValidationError reports a malformed request.
func NewValidationError(message string) *RelayError {
	return &RelayError{Kind: KindValidation, Message: message}
}

// NewInfrastructureError wraps a provider SDK failure. The cause is preserved
// for logs; the message is what callers see.
func NewInfrastructureError(message string, cause error) *RelayError {
	return &RelayError{Kind: KindInfrastructure, Message: message, cause: cause}
}

// AsRelayError unwraps err into a *RelayError if it carries one.
func AsRelayError(err error) (*RelayError, bool) {
	var re *RelayError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// HTTPStatus maps an error to the response status the HTTP boundary must
// emit: 401 for authentication/authorization, 400 for validation, 500 for
// everything else.
func HTTPStatus(err error) int {
	re, ok := AsRelayError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch re.Kind {
	case KindAuthentication, KindAuthorization:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
