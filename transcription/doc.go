// Package transcription turns client audio into text through a pluggable
// speech Recognizer.
//
// The Orchestrator normalizes audio with the audio package and then runs
// recognition strategies (single-shot, then continuous) in passes, with a
// fixed delay between passes. Each strategy reads its audio from memory and
// falls back to a scoped TempFile only when the in-memory input cannot be
// set up. A pass succeeds at the first strategy yielding non-blank text.
// Recognizer context-validation failures (Azure error 1007) trigger a
// Reconfigure before the next pass.
//
// # Backends
//
//   - transcription/azure: Azure Speech short-audio REST API
//   - transcription/whisper: faster-whisper HTTP sidecar
//
// # Usage
//
//	rec, _ := azure.New(azure.Config{Key: key, Region: "eastasia"})
//	orch := transcription.NewOrchestrator(rec, audio.NewNormalizer(audio.Config{}), transcription.Config{})
//	out := orch.Transcribe(ctx, raw, "audio/webm")
package transcription
