package httpclient

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/kbukum/voiceorder/errors"
)

// ErrorCode classifies a failed call.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	// ErrCodeAuth covers 401 and 403.
	ErrCodeAuth
	ErrCodeNotFound
	ErrCodeRateLimit
	// ErrCodeValidation covers request encoding failures and any 4xx not
	// listed above.
	ErrCodeValidation
	ErrCodeServer
	ErrCodeCircuitOpen
)

var codeNames = [...]string{
	ErrCodeTimeout:     "timeout",
	ErrCodeConnection:  "connection",
	ErrCodeAuth:        "auth",
	ErrCodeNotFound:    "not_found",
	ErrCodeRateLimit:   "rate_limit",
	ErrCodeValidation:  "validation",
	ErrCodeServer:      "server",
	ErrCodeCircuitOpen: "circuit_open",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return "unknown"
	}
	return codeNames[c]
}

// Error describes why a call to an upstream failed. StatusCode is zero when
// no response was received.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func transportError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Retryable: true, Err: err}
}

func NewTimeoutError(err error) *Error { return transportError(ErrCodeTimeout, err) }

func NewConnectionError(err error) *Error { return transportError(ErrCodeConnection, err) }

// NewValidationError reports a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// NewCircuitOpenError reports a call the named client's breaker refused.
func NewCircuitOpenError(name string) *Error {
	return &Error{Code: ErrCodeCircuitOpen, Message: name + " circuit is open"}
}

// ClassifyStatusCode turns a non-2xx status into an *Error and returns nil
// for 2xx. Rate limits and 5xx are retryable.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	code, retry := ErrCodeServer, statusCode >= 500
	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		code, retry = ErrCodeRateLimit, true
	case statusCode >= 400 && statusCode < 500:
		code = ErrCodeValidation
	}
	return &Error{
		StatusCode: statusCode,
		Code:       code,
		Message:    http.StatusText(statusCode),
		Retryable:  retry,
		Body:       body,
	}
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := asError(err)
	return ok && e.Code == code
}

func IsTimeout(err error) bool     { return hasCode(err, ErrCodeTimeout) }
func IsAuth(err error) bool        { return hasCode(err, ErrCodeAuth) }
func IsRateLimit(err error) bool   { return hasCode(err, ErrCodeRateLimit) }
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }

// IsRetryable reports whether another attempt could succeed.
func IsRetryable(err error) bool {
	e, ok := asError(err)
	return ok && e.Retryable
}

// ToAppError converts err into the service error model, attributing it to
// the named upstream. Errors that already are AppErrors pass through.
func ToAppError(service string, err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if ae, ok := apperrors.AsAppError(err); ok {
		return ae
	}
	e, ok := asError(err)
	switch {
	case !ok:
		return apperrors.ExternalServiceError(service, err)
	case e.Code == ErrCodeTimeout:
		return apperrors.Timeout(service).WithCause(err)
	case e.Code == ErrCodeCircuitOpen:
		return apperrors.ServiceUnavailable(service).WithCause(err)
	case e.StatusCode > 0:
		return apperrors.ExternalServiceError(service, err).WithDetail("status", e.StatusCode)
	}
	return apperrors.ExternalServiceError(service, err)
}
