package domain

import "errors"

var (
	ErrUnknownCity        = errors.New("unknown city")
	ErrInvalidLocation    = errors.New("invalid location")
	ErrUnsupportedMode    = errors.New("unsupported transport mode")
	ErrBackendUnavailable = errors.New("routing backend unavailable")
	ErrBackendRejected    = errors.New("routing backend rejected request")
)

// LocationError is returned when a submitted location fails validation.
// It unwraps to ErrInvalidLocation.
type LocationError struct {
	Field  string
	Result ValidationResult
}

func (e *LocationError) Error() string {
	return e.Field + ": " + e.Result.Message()
}

func (e *LocationError) Unwrap() error { return ErrInvalidLocation }

// BackendError carries the message returned by the routing backend.
type BackendError struct {
	Status  int
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	return e.Err.Error() + ": " + e.Message
}

func (e *BackendError) Unwrap() error { return e.Err }
