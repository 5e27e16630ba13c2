package errors

import (
	"fmt"
	"net/http"
)

// AppError is an error that knows how it should be reported to a client.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail entry and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// New builds an AppError whose retryability follows its code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Retryable: IsRetryableCode(code)}
}

// AudioFormat reports audio that could not be brought into recognizer format.
func AudioFormat(reason string) *AppError {
	return New(ErrCodeAudioFormat, "Unsupported audio: "+reason, http.StatusUnprocessableEntity)
}

// RecognitionTransient wraps a recognizer failure that reinitializing and
// retrying may recover from.
func RecognitionTransient(strategy string, cause error) *AppError {
	return New(ErrCodeRecognitionTransient, "Speech recognizer rejected the request context.", http.StatusServiceUnavailable).
		WithDetail("strategy", strategy).
		WithCause(cause)
}

// RecognitionTerminal reports that every strategy and retry pass failed,
// quoting the last failure seen.
func RecognitionTerminal(attempts int, lastError string) *AppError {
	return New(ErrCodeRecognitionTerminal, "所有識別策略都失敗了。最後錯誤: "+lastError, http.StatusBadRequest).
		WithDetail("attempts", attempts)
}

// RemoteParse wraps a failure of the language-model parser at stage
// (request, extract, decode, validate).
func RemoteParse(stage string, cause error) *AppError {
	return New(ErrCodeRemoteParse, fmt.Sprintf("Remote order parsing failed at %s.", stage), http.StatusBadGateway).
		WithDetail("stage", stage).
		WithCause(cause)
}

// ServiceUnavailable reports a collaborator that is not configured or reachable.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service), http.StatusServiceUnavailable).
		WithDetail("service", service)
}

func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long. Please try again.", http.StatusGatewayTimeout).
		WithDetail("operation", operation)
}

// InvalidInput reports a rejected request value. field may be empty.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "Invalid input: "+reason, http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// PayloadTooLarge reports an upload of size bytes over limit.
func PayloadTooLarge(size, limit int64) *AppError {
	return New(ErrCodePayloadTooLarge, fmt.Sprintf("Payload of %d bytes exceeds the %d byte limit.", size, limit), http.StatusRequestEntityTooLarge).
		WithDetail("size", size).
		WithDetail("limit", limit)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.", http.StatusInternalServerError).
		WithCause(cause)
}

// ExternalServiceError wraps an error status returned by a backend.
func ExternalServiceError(service string, cause error) *AppError {
	return New(ErrCodeExternalService, fmt.Sprintf("The %s service encountered an error. Please try again.", service), http.StatusBadGateway).
		WithDetail("service", service).
		WithCause(cause)
}
