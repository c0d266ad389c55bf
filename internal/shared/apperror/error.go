package apperror

import "fmt"

// AppError is the error type services return to handlers. The Code and
// Message are safe to show to clients; Err carries the underlying cause
// for logs only.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports errors.Is/As on the wrapped cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a sentinel AppError with no underlying cause.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap attaches code, message and status to an existing error. Returns
// nil when err is nil so it can be used directly on return values.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}
