package errs

import (
	"errors"
	"fmt"
	"net/http"

	"convlo/internal/pkg/logx"
)

// Kind classifies a CustomError for the transport layer.
type Kind int

const (
	// KindInternal is an unclassified failure; it is logged and reported as 500.
	KindInternal Kind = iota

	// KindValidation is a structurally invalid request.
	KindValidation

	// KindBusiness is a rule violation reported by the service layer.
	KindBusiness

	// KindIdentity is a missing or unusable caller identity.
	KindIdentity
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusiness:
		return "business"
	case KindIdentity:
		return "identity"
	default:
		return "internal"
	}
}

// CustomError is the error type used across the application. It carries the
// business code, the user-facing message and the HTTP status to report.
type CustomError struct {
	Code    int
	Kind    Kind
	Message string
	Status  int
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	return fmt.Sprintf("error code %d (%s, HTTP %d): %s", e.Code, e.Kind, e.Status, e.Message)
}

// Is reports whether target is a CustomError with the same code, so that
// errors.Is(err, errs.NewError(code)) works across wrapping.
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError returns a fresh *CustomError for a catalogued code. Unknown codes
// fall back to ErrUnknown. When code is ErrUnknown and the first detail is an
// error, that error is logged.
func NewError(code int, details ...any) *CustomError {
	template, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("unknown error code %d", code),
			"unknown error code requested",
			"requested_code", code,
		)
		template = errorMap[ErrUnknown]
	}

	customErr := template
	if customErr.Status == 0 {
		customErr.Status = http.StatusBadRequest
	}

	if code == ErrUnknown && len(details) > 0 {
		if cause, ok := details[0].(error); ok {
			logx.Error(cause, "handling ErrUnknown with underlying error")
		}
	}

	return &customErr
}

// From extracts a *CustomError from err's chain.
func From(err error) (*CustomError, bool) {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr, true
	}
	return nil, false
}

// IsKind reports whether err carries a CustomError of the given kind.
func IsKind(err error, kind Kind) bool {
	customErr, ok := From(err)
	return ok && customErr.Kind == kind
}
