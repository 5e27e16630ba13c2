package whisper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/voiceorder/audio"
	"github.com/kbukum/voiceorder/transcription"
)

func testInput(t *testing.T) transcription.Input {
	t.Helper()
	in, err := transcription.NewStreamInput(audio.NormalizedAudio{
		WAV:    audio.EncodeWAV(make([]byte, 320), audio.TargetFormat),
		Format: audio.TargetFormat,
	})
	if err != nil {
		t.Fatal(err)
	}
	return in
}

func TestRecognizeOnceMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, `{"status":"ok"}`)
			return
		case "/transcribe":
		default:
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "small" {
			t.Errorf("model = %q", got)
		}
		if got := r.FormValue("language"); got != "yue" {
			t.Errorf("language = %q", got)
		}
		f, hdr, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("audio part: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "audio.wav" || len(data) != audio.HeaderSize+320 {
			t.Errorf("unexpected upload %s (%d bytes)", hdr.Filename, len(data))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":     " 一杯熱奶茶 ",
			"language": "yue",
			"segments": []map[string]any{{"text": "一杯熱奶茶", "start": 0.5, "end": 2.5}},
		})
	}))
	defer srv.Close()

	r, err := New(Config{URL: srv.URL, Model: "small"})
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsAvailable(context.Background()) {
		t.Error("expected sidecar to be available")
	}
	res, err := r.RecognizeOnce(context.Background(), testInput(t), transcription.RecognizerConfig{})
	if err != nil {
		t.Fatalf("RecognizeOnce: %v", err)
	}
	if res.Status != transcription.StatusRecognized || res.Text != "一杯熱奶茶" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Duration.Milliseconds() != 2000 {
		t.Errorf("unexpected duration %v", res.Duration)
	}
}

func TestRecognizeOnceEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"text":"  ","segments":[]}`)
	}))
	defer srv.Close()

	r, _ := New(Config{URL: srv.URL})
	res, err := r.RecognizeOnce(context.Background(), testInput(t), transcription.RecognizerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != transcription.StatusNoMatch {
		t.Errorf("expected no match, got %+v", res)
	}
}

func TestRecognizeOnceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, _ := New(Config{URL: srv.URL})
	if _, err := r.RecognizeOnce(context.Background(), testInput(t), transcription.RecognizerConfig{}); err == nil {
		t.Fatal("expected error")
	}
	if r.IsAvailable(context.Background()) {
		t.Error("health check should fail on 500")
	}
}

func TestLanguageMapping(t *testing.T) {
	tests := []struct {
		override string
		tag      string
		want     string
	}{
		{"", "zh-HK", "yue"},
		{"", "en-US", "en"},
		{"", "yue-Hant", "yue"},
		{"zh", "zh-HK", "zh"},
	}
	for _, tt := range tests {
		r := &Recognizer{cfg: Config{Language: tt.override}}
		if got := r.language(transcription.RecognizerConfig{Language: tt.tag}); got != tt.want {
			t.Errorf("language(%q, %q) = %q, want %q", tt.override, tt.tag, got, tt.want)
		}
	}
}
