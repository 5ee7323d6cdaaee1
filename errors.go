package scribe

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a plan, step, or option failed validation.
	ErrValidation = errors.New("validation error")

	// ErrMissingCredential indicates a run was started without a credential.
	// The backend is never invoked when this is returned.
	ErrMissingCredential = errors.New("missing credential")

	// ErrNoResult indicates the backend returned no usable result.
	ErrNoResult = errors.New("no result")
)
