package errors

import "errors"

// Codes shared by domain services and the HTTP layer.
const (
	CodeInvalidInput        = "invalid_input"
	CodeNotFound            = "not_found"
	CodeConfig              = "config_error"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeUpstream            = "upstream_error"
	CodeLoadFailed          = "load_failed"
	CodeStaleResponse       = "stale_response"
	CodeGeocodeFailed       = "geocode_failed"
	CodeStorage             = "storage_error"
	CodeLLM                 = "llm_error"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost AppError in the chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MessageOf returns the user facing message of the outermost AppError, falling back to err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
