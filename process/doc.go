// Package process runs external binaries (ffmpeg) with captured output,
// timeouts and process-group termination.
package process
