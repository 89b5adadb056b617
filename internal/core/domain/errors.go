package domain

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBlogNotFound       = errors.New("blog not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrValidation         = errors.New("validation failed")
	ErrRequestInProgress  = errors.New("request with this idempotency key is in progress")

	// ErrStoreUnavailable marks a persistence failure (connectivity, timeout).
	// Callers may retry; the services never do.
	ErrStoreUnavailable = errors.New("store unavailable")
)
