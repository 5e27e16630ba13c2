package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voiceorder/cache"
	"github.com/kbukum/voiceorder/config"
)

func load(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	var cfg Config
	err := config.LoadConfig(serviceName, &cfg,
		config.WithConfigFile(path),
		config.WithEnvFile(filepath.Join(dir, "none.env")),
		config.WithEnvAliases(envAliases),
	)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, cfg.Validate()
}

func TestEnvAliases(t *testing.T) {
	t.Setenv("AZURE_SPEECH_KEY", "secret")
	t.Setenv("AZURE_SPEECH_REGION", "eastasia")
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("OPENROUTER_MODEL", "some/model")
	t.Setenv("MAX_AUDIO_SIZE", "2048")
	t.Setenv("API_TIMEOUT", "45")
	t.Setenv("MAX_RETRIES", "4")
	t.Setenv("LOG_LEVEL", "WARNING")

	cfg, err := load(t, "environment: production\n")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Speech.Azure.Key != "secret" || cfg.Speech.Azure.Region != "eastasia" {
		t.Errorf("azure section %+v", cfg.Speech.Azure)
	}
	if cfg.API.Region != "eastasia" {
		t.Errorf("expected api region from azure, got %q", cfg.API.Region)
	}
	if cfg.LLM.APIKey != "test-key" || cfg.LLM.Model != "some/model" {
		t.Errorf("llm section %+v", cfg.LLM)
	}
	if cfg.API.MaxAudioSize != 2048 {
		t.Errorf("max audio size %d", cfg.API.MaxAudioSize)
	}
	if cfg.Speech.Azure.Timeout != 45*time.Second {
		t.Errorf("azure timeout %v", cfg.Speech.Azure.Timeout)
	}
	if cfg.Speech.Transcription.MaxRetries != 4 {
		t.Errorf("max retries %d", cfg.Speech.Transcription.MaxRetries)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level %q", cfg.Logging.Level)
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("AZURE_SPEECH_KEY", "k")
	t.Setenv("AZURE_SPEECH_REGION", "eastasia")

	cfg, err := load(t, "name: voiceorder\n")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Speech.Recognizer != RecognizerAzure || cfg.Cache.Backend != cache.BackendMemory {
		t.Errorf("unexpected defaults %+v %+v", cfg.Speech.Recognizer, cfg.Cache)
	}
	if cfg.Redis.Enabled {
		t.Error("redis must stay disabled with the memory cache")
	}
	if cfg.API.MaxAudioSize != 10<<20 {
		t.Errorf("expected 10 MiB audio limit, got %d", cfg.API.MaxAudioSize)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected port 5000, got %d", cfg.Server.Port)
	}
}

func TestRedisCacheEnablesRedis(t *testing.T) {
	cfg, err := load(t, "speech:\n  recognizer: whisper\ncache:\n  backend: redis\n")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis cache backend must enable the redis client")
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"azure without key", "speech:\n  recognizer: azure\n", "speech"},
		{"unknown recognizer", "speech:\n  recognizer: vosk\n", "speech.recognizer"},
		{"bad cache backend", "speech:\n  recognizer: whisper\ncache:\n  backend: memcached\n", "cache.backend"},
		{"bad sample rate", "speech:\n  recognizer: whisper\ntracing:\n  sample_rate: 3\n", "tracing.sample_rate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, tc.yaml)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
