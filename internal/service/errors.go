package service

import "errors"

// Typed rejections surfaced by the lifecycle engine. Handlers translate
// these into HTTP status codes; none are retried at this layer.
var (
	// ErrEmailExists signals a registration conflict.
	ErrEmailExists = errors.New("email already in use")

	// ErrInvalidCredentials covers unknown email and wrong password
	// identically, so responses leak nothing about which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned for valid credentials on an
	// inactive account.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrInvalidToken covers not-found, revoked, used and expired
	// tokens uniformly; callers can never tell which case they hit.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden signals a role check failure.
	ErrForbidden = errors.New("forbidden")

	// ErrUserNotFound is used for direct id lookups only, never on
	// token paths.
	ErrUserNotFound = errors.New("user not found")
)
