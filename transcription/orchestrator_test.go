package transcription

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voiceorder/audio"
	"github.com/kbukum/voiceorder/logger"
)

func canonicalWAV() []byte {
	pcm := make([]byte, 6400)
	for i := range pcm {
		pcm[i] = byte(i)
	}
	return audio.EncodeWAV(pcm, audio.TargetFormat)
}

func newTestOrchestrator(rec Recognizer, cfg Config, opts ...Option) *Orchestrator {
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Millisecond
	}
	norm := audio.NewNormalizer(audio.Config{}, audio.WithLogger(logger.NewNop()))
	return NewOrchestrator(rec, norm, cfg, append([]Option{WithLogger(logger.NewNop())}, opts...)...)
}

func recognized(text string) onceFunc {
	return func(int, Input) (RecognitionResult, error) {
		return RecognitionResult{Status: StatusRecognized, Text: text}, nil
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.MaxRetries != 2 || cfg.RetryDelay != time.Second || cfg.Passes() != 3 {
		t.Errorf("unexpected retry defaults %+v", cfg)
	}
	if len(cfg.Strategies) != 2 || cfg.Strategies[0] != StrategySingleShot {
		t.Errorf("unexpected strategies %v", cfg.Strategies)
	}
	if cfg.Recognizer.Language != "zh-HK" || cfg.Recognizer.ContinuousTimeout != 30*time.Second {
		t.Errorf("unexpected recognizer defaults %+v", cfg.Recognizer)
	}
	if (Config{MaxRetries: -1}).Passes() != 1 {
		t.Error("negative MaxRetries must mean a single pass")
	}
}

func TestTranscribeSingleShotSucceeds(t *testing.T) {
	rec := &fakeRecognizer{once: recognized("兩杯凍檸茶")}
	wav := canonicalWAV()

	out := newTestOrchestrator(rec, Config{}).Transcribe(context.Background(), wav, "audio/wav")
	if !out.Succeeded || out.Text != "兩杯凍檸茶" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Strategy != StrategySingleShot || out.Attempts != 1 || out.Input != InputStream {
		t.Errorf("unexpected bookkeeping %+v", out)
	}
	if out.Confidence != Confidence("兩杯凍檸茶") {
		t.Errorf("unexpected confidence %v", out.Confidence)
	}
	if rec.contCalls != 0 {
		t.Error("continuous must not run after single-shot success")
	}
	if !bytes.Equal(rec.payloads[0], wav) {
		t.Error("recognizer must receive the normalized WAV")
	}
}

func TestTranscribeFallsBackToContinuous(t *testing.T) {
	sess := newFakeSession(
		Event{Kind: EventRecognized, Text: "一杯奶茶"},
		Event{Kind: EventRecognized, Text: "走冰"},
		Event{Kind: EventSessionStopped},
	)
	rec := &fakeRecognizer{
		once: recognized("   "),
		cont: func(int, Input) (Session, error) { return sess, nil },
	}

	out := newTestOrchestrator(rec, Config{}).Transcribe(context.Background(), canonicalWAV(), "audio/wav")
	if !out.Succeeded || out.Text != "一杯奶茶 走冰" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Strategy != StrategyContinuous || out.Attempts != 2 {
		t.Errorf("unexpected bookkeeping %+v", out)
	}
	if sess.stopCount() != 1 {
		t.Errorf("session stopped %d times", sess.stopCount())
	}
}

func TestTranscribeExhausted(t *testing.T) {
	rec := &fakeRecognizer{}

	out := newTestOrchestrator(rec, Config{MaxRetries: 2}).Transcribe(context.Background(), canonicalWAV(), "audio/wav")
	if out.Succeeded {
		t.Fatalf("expected failure, got %+v", out)
	}
	if want := MsgAllFailed + MsgContinuousEmpty; out.ErrorDetail != want {
		t.Errorf("detail = %q, want %q", out.ErrorDetail, want)
	}
	if out.Attempts != 6 || rec.onceCalls != 3 || rec.contCalls != 3 {
		t.Errorf("expected 3 passes of 2 strategies, got attempts=%d once=%d cont=%d", out.Attempts, rec.onceCalls, rec.contCalls)
	}
	if out.Err() == nil {
		t.Error("expected the terminal error to be attached")
	}
}

func TestTranscribeSinglePassWhenRetriesDisabled(t *testing.T) {
	rec := &fakeRecognizer{}
	out := newTestOrchestrator(rec, Config{MaxRetries: -1}).Transcribe(context.Background(), canonicalWAV(), "audio/wav")
	if out.Succeeded || out.Attempts != 2 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestTranscribeReconfiguresOnContextValidationError(t *testing.T) {
	rec := &fakeRecognizer{
		once: func(call int, _ Input) (RecognitionResult, error) {
			if call == 1 {
				return RecognitionResult{}, errors.New("websocket upgrade failed: 1007 Could not validate speech context")
			}
			return RecognitionResult{Status: StatusRecognized, Text: "菠蘿油"}, nil
		},
	}

	reconfiguredAtContinuous := -1
	rec.cont = func(int, Input) (Session, error) {
		reconfiguredAtContinuous = rec.reconfigured
		return newFakeSession(Event{Kind: EventSessionStopped}), nil
	}

	out := newTestOrchestrator(rec, Config{}).Transcribe(context.Background(), canonicalWAV(), "audio/wav")
	if !out.Succeeded || out.Text != "菠蘿油" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if reconfiguredAtContinuous != 0 {
		t.Errorf("reconfigure must wait for the next pass, it ran before continuous (count %d)", reconfiguredAtContinuous)
	}
	if rec.reconfigured != 1 {
		t.Errorf("expected one reconfigure, got %d", rec.reconfigured)
	}
	if out.Attempts != 3 {
		t.Errorf("expected single-shot, continuous, single-shot; got %d attempts", out.Attempts)
	}
}

func TestTranscribeNoReconfigureWithoutAnotherPass(t *testing.T) {
	rec := &fakeRecognizer{once: func(int, Input) (RecognitionResult, error) {
		return RecognitionResult{}, errors.New("HTTP 400: 1007")
	}}
	out := newTestOrchestrator(rec, Config{MaxRetries: -1}).Transcribe(context.Background(), canonicalWAV(), "audio/wav")
	if out.Succeeded {
		t.Fatalf("expected failure, got %+v", out)
	}
	if rec.reconfigured != 0 {
		t.Errorf("no pass follows, yet reconfigure ran %d times", rec.reconfigured)
	}
}

func TestTranscribeFileFallbackExhaustedCleansUp(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecognizer{}

	orch := newTestOrchestrator(rec, Config{TempDir: dir, MaxRetries: 1}, WithStreamSetup(func(audio.NormalizedAudio) (Input, error) {
		return Input{}, errors.New("push stream unavailable")
	}))
	out := orch.Transcribe(context.Background(), canonicalWAV(), "audio/wav")

	if out.Succeeded || out.Input != InputFile {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Attempts != 4 || rec.onceCalls != 2 || rec.contCalls != 2 {
		t.Errorf("expected 2 passes of 2 strategies, got attempts=%d once=%d cont=%d", out.Attempts, rec.onceCalls, rec.contCalls)
	}
	for i, kind := range rec.inputs {
		if kind != InputFile {
			t.Errorf("call %d used %s input, want file", i, kind)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp files left after exhausted retries: %v", entries)
	}
}

func TestTranscribeFileFallbackCleansUp(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecognizer{once: recognized("雞蛋三文治")}
	wav := canonicalWAV()

	orch := newTestOrchestrator(rec, Config{TempDir: dir}, WithStreamSetup(func(audio.NormalizedAudio) (Input, error) {
		return Input{}, errors.New("push stream unavailable")
	}))
	out := orch.Transcribe(context.Background(), wav, "audio/wav")

	if !out.Succeeded || out.Input != InputFile {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(rec.inputs) != 1 || rec.inputs[0] != InputFile {
		t.Errorf("recognizer should have read from a file, got %v", rec.inputs)
	}
	if !bytes.Equal(rec.payloads[0], wav) {
		t.Error("file input must hold the normalized WAV")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp files leaked: %v", entries)
	}
}

func TestTranscribeAudioFormatFailure(t *testing.T) {
	rec := &fakeRecognizer{once: recognized("x")}
	out := newTestOrchestrator(rec, Config{}).Transcribe(context.Background(), nil, "audio/webm")
	if out.Succeeded || !strings.Contains(out.ErrorDetail, "empty input") {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Attempts != 0 || rec.onceCalls != 0 {
		t.Error("recognizer must not run when normalization fails")
	}
}

func TestTranscribeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &fakeRecognizer{once: func(int, Input) (RecognitionResult, error) {
		cancel()
		return RecognitionResult{}, context.Canceled
	}}

	out := newTestOrchestrator(rec, Config{}).Transcribe(ctx, canonicalWAV(), "audio/wav")
	if out.Succeeded || out.Attempts != 1 {
		t.Fatalf("expected one attempt before giving up, got %+v", out)
	}
	if !strings.HasPrefix(out.ErrorDetail, MsgAllFailed) {
		t.Errorf("unexpected detail %q", out.ErrorDetail)
	}
}
