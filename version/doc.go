// Package version exposes build metadata for the /info endpoint.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/voiceorder/version.Version=1.2.0 -X github.com/kbukum/voiceorder/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/voiceorder
//
// When nothing is injected, VCS data recorded by the Go toolchain is used.
package version
