// Package errors provides the structured error type shared by the speech and
// order pipelines. Every error carries a machine-readable code, an HTTP status
// for the outer API layer, and a retryable flag that drives the retry policies
// of the transcription orchestrator.
package errors
