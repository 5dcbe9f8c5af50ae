package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrForbidden indicates the acting role lacks the capability for the
	// attempted operation, or a role-specific hard rule was violated.
	// API layer maps this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("operation not permitted for role")

	// ErrCannotDeleteSelf indicates an admin attempted to delete their own
	// account. Owned tasks are reassigned to the acting admin on deletion,
	// which is impossible when the target is the actor.
	// API layer maps this to HTTP 403 Forbidden.
	ErrCannotDeleteSelf = errors.New("cannot delete own account")
)
