package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrBaseURLNotSet  = errors.New("NEXT_PUBLIC_API_BASE_URL is not set")
	ErrSessionUnknown = errors.New("unknown session")
	ErrViewClosed     = errors.New("view is closed")
)

// UnknownErrorMessage is shown when a failure carries no message of its own.
const UnknownErrorMessage = "Unknown error"
