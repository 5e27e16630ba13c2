// Package api serves the ordering endpoints under /api: speech
// transcription, order parsing and upsell recomputation.
package api
