// Package resilience holds the fault-tolerance primitives of the service:
// generic retry with pluggable backoff and a circuit breaker built on
// sony/gobreaker.
//
// Retry drives the transcription orchestrator's retry passes (constant
// backoff) and temp-file deletion (linear backoff). The circuit breaker guards
// outbound HTTP calls to the recognizer and the language model.
//
//	text, err := resilience.Retry(ctx, resilience.RetryConfig{
//	    MaxAttempts: 3,
//	    Backoff:     resilience.ConstantBackoff(time.Second),
//	}, func() (string, error) { return recognize(ctx) })
package resilience
