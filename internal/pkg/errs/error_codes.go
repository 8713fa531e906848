/*
Package errs provides the application error type and its code catalogue.

Codes identify a failure both in logs and towards the client; each code maps to a
user-facing message, an HTTP status and a Kind that tells the transport layer how
the failure must be reported.
*/
package errs

// 1xxx: request handling
const (
	// ErrInvalidParams indicates a missing or empty required request field.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates a request body that is not JSON.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates a body that could not be decoded.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing data after the JSON document.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates the caller exceeded its request budget.
	ErrRateLimitExceeded = 1007
)

// 2xxx: chat rooms and membership
const (
	ErrChatNotFound       = 2101
	ErrAlreadyMember      = 2102
	ErrNotMember          = 2103
	ErrCreatorCannotLeave = 2104
	ErrPermissionDenied   = 2105
)

// 3xxx: users and sessions
const (
	// ErrUserNotFound indicates a username with no directory entry.
	ErrUserNotFound = 3001

	ErrUsernameTaken      = 3002
	ErrInvalidCredentials = 3003
	ErrInvalidUsername    = 3004
	ErrInvalidPassword    = 3005

	// ErrUnauthorized indicates a request without a valid identity.
	ErrUnauthorized = 3401
)

// 5xxx: internal
const (
	// ErrUnknown represents an unclassified server failure.
	ErrUnknown = 5000
)
