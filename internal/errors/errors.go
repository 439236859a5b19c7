package errors

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the API layer. Every failure returned from an API
// call wraps exactly one of these.
var (
	// ErrSessionExpired is raised for any 401 response. The credential has
	// already been cleared by the time the caller sees it.
	ErrSessionExpired = errors.New("session expired")
	// ErrValidation is a non-2xx JSON response carrying a structured detail list.
	ErrValidation = errors.New("validation failure")
	// ErrService is any other non-2xx response, JSON or not.
	ErrService = errors.New("service failure")
	// ErrNetwork means the request never completed (DNS, connection, timeout).
	ErrNetwork = errors.New("network failure")
)

// Local errors
var (
	ErrDefaultsMissing = errors.New("personal defaults not configured")
	ErrNotFound        = errors.New("not found")
	ErrInvalidRequest  = errors.New("invalid request")
)

// Failure is a classified API failure. Error returns a message that can be
// shown to the user as-is.
type Failure struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Err}
}

// NewFailure builds a Failure of the given kind.
func NewFailure(kind error, status int, message string) *Failure {
	return &Failure{Kind: kind, Status: status, Message: message}
}

// Network wraps a transport error that prevented a response from arriving.
func Network(err error) *Failure {
	return &Failure{Kind: ErrNetwork, Message: err.Error(), Err: err}
}

// KindOf returns the failure kind of err, or nil if err is not a Failure.
func KindOf(err error) error {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return nil
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
