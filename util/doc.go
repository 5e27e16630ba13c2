// Package util holds small helpers shared by the server and the service
// entry point: byte-size parsing for configuration values and masking of
// credentials before they reach logs or the startup summary.
package util
