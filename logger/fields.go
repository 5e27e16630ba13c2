package logger

// Field keys shared across packages.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldStrategy    = "strategy"
	FieldAttempt     = "attempt"
	FieldContentType = "content_type"
	FieldBytes       = "bytes"
	FieldCacheKey    = "cache_key"
	FieldParser      = "parser"
	FieldPath        = "path"
)

// Fields turns alternating key/value arguments into a field map. Non-string
// keys and a trailing key without a value are dropped.
//
//	log.Info("decoded", logger.Fields("format", "mp3", logger.FieldBytes, 4096))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// MergeWithError sets the error field on fields, allocating when nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{}, 1)
	}
	fields[FieldError] = err.Error()
	return fields
}
