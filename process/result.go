package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 if the process never started or was killed.
	ExitCode int
	Duration time.Duration
}

const stderrTailBytes = 512

// StderrTail returns the last part of stderr, trimmed, for error messages.
// Tools like ffmpeg print a long banner before the actual failure reason.
func (r *Result) StderrTail() string {
	if r == nil {
		return ""
	}
	s := r.Stderr
	if len(s) > stderrTailBytes {
		s = s[len(s)-stderrTailBytes:]
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(s), ""))
}
