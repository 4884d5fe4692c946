package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromAppError maps a domain error onto its HTTP status, keeping the domain code and message.
func fromAppError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	if code == "" {
		return asHTTPError(err)
	}
	return NewHTTPError(statusForCode(code), code, apperrors.MessageOf(err), err)
}

func statusForCode(code string) int {
	switch code {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeStaleResponse:
		return http.StatusConflict
	case apperrors.CodeGeocodeFailed:
		return http.StatusUnprocessableEntity
	case apperrors.CodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.CodeUpstream, apperrors.CodeLoadFailed, apperrors.CodeLLM:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func abortWithAppError(c *gin.Context, err error) {
	abortWithError(c, fromAppError(err))
}

func abortWithBindError(c *gin.Context, err error) {
	abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
}
