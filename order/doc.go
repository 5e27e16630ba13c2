// Package order turns transcripts into structured cha chaan teng orders.
//
// ParseLocally is a keyword and numeral heuristic that never fails.
// RemoteParser asks a chat-completion model for the same structure and
// repairs its output. Engine combines both behind a parse cache, and
// Upseller ranks add-on suggestions for the result.
package order
