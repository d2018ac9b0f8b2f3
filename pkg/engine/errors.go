package engine

import "errors"

var (
	// ErrValidation marks a malformed or empty request, rejected
	// before any collaborator call.
	ErrValidation = errors.New("invalid turn request")

	// ErrConfiguration marks missing model credentials; the turn fails
	// immediately.
	ErrConfiguration = errors.New("model provider not configured")

	// ErrModelInvocation marks a failed completion call. The turn
	// still produces the fixed fallback reply; callers surface this as
	// a service error, never the provider's error body.
	ErrModelInvocation = errors.New("model invocation failed")
)
