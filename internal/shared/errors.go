package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates the request payload failed validation.
	ErrValidation = errors.New("validation failed")
)

// UserSafeMessage returns a message safe to show to API consumers.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "The requested resource was not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrDuplicate):
		return "The resource already exists"
	case errors.Is(err, ErrValidation):
		return "The request is invalid"
	default:
		return "Something went wrong, please try again"
	}
}
