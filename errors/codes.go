package errors

// ErrorCode is the machine-readable code sent to clients.
type ErrorCode string

const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeExternalService    ErrorCode = "EXTERNAL_SERVICE_ERROR"

	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"

	// ErrCodeAudioFormat means every normalization strategy was exhausted.
	ErrCodeAudioFormat ErrorCode = "AUDIO_FORMAT"
	// ErrCodeRecognitionTransient is recovered by reinitializing the
	// recognizer and retrying.
	ErrCodeRecognitionTransient ErrorCode = "RECOGNITION_TRANSIENT"
	ErrCodeRecognitionTerminal  ErrorCode = "RECOGNITION_TERMINAL"
	// ErrCodeRemoteParse never reaches clients; the local parser takes over.
	ErrCodeRemoteParse ErrorCode = "REMOTE_PARSE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// IsRetryableCode reports whether a failure with code may succeed on retry.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeServiceUnavailable, ErrCodeTimeout, ErrCodeExternalService, ErrCodeRecognitionTransient:
		return true
	}
	return false
}
