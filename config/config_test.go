package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type speechSection struct {
	Region     string        `mapstructure:"region"`
	Key        string        `mapstructure:"key"`
	MaxRetries int           `mapstructure:"max_retries"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Speech        speechSection `mapstructure:"speech"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "voiceorder"}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" {
		t.Errorf("expected development, got %q", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug=true for development")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults, got %+v", cfg.Logging)
	}

	prod := ServiceConfig{Name: "voiceorder", Environment: "production"}
	prod.ApplyDefaults()
	if prod.Debug {
		t.Error("expected debug=false for production")
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name: is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment: must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Fatalf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: voiceorder
environment: staging
speech:
  region: eastasia
  max_retries: 4
  timeout: 45s
`)

	var cfg testConfig
	if err := LoadConfig("voiceorder", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "voiceorder" || cfg.Environment != "staging" {
		t.Errorf("unexpected service section %+v", cfg.ServiceConfig)
	}
	if cfg.Speech.Region != "eastasia" || cfg.Speech.MaxRetries != 4 {
		t.Errorf("unexpected speech section %+v", cfg.Speech)
	}
	if cfg.Speech.Timeout != 45*time.Second {
		t.Errorf("expected 45s timeout, got %v", cfg.Speech.Timeout)
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: voiceorder\nspeech:\n  region: eastasia\n")
	t.Setenv("SPEECH_REGION", "westus")

	var cfg testConfig
	if err := LoadConfig("voiceorder", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none"))); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Speech.Region != "westus" {
		t.Errorf("expected env override westus, got %q", cfg.Speech.Region)
	}
}

func TestLoadConfigEnvAliases(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: voiceorder\n")
	envPath := writeFile(t, dir, ".env", "VOICEORDER_TEST_AZURE_KEY=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("VOICEORDER_TEST_AZURE_KEY") })

	var cfg testConfig
	err := LoadConfig("voiceorder", &cfg,
		WithConfigFile(path),
		WithEnvFile(envPath),
		WithEnvAliases(map[string]string{"VOICEORDER_TEST_AZURE_KEY": "speech.key"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Speech.Key != "from-dotenv" {
		t.Errorf("expected aliased key from .env, got %q", cfg.Speech.Key)
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool  { return f.files[path] }
func (f *fakeFS) LoadEnv(path string) error { return nil }

func TestResolverSearchOrder(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{
		"./config.yml":                true,
		"./cmd/voiceorder/config.yml": true,
		"./.env":                      true,
	}}
	r := &Resolver{FileSystem: fs}
	got := r.ResolveFiles("voiceorder", LoaderConfig{})
	if got.ConfigFile != "./cmd/voiceorder/config.yml" {
		t.Errorf("expected cmd config first, got %q", got.ConfigFile)
	}
	if got.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", got.EnvFile)
	}

	explicit := r.ResolveFiles("voiceorder", LoaderConfig{ConfigFile: "x.yml", EnvFile: "y.env"})
	if explicit.ConfigFile != "x.yml" || explicit.EnvFile != "y.env" {
		t.Errorf("explicit paths must win, got %+v", explicit)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("SPEECH_AZURE_KEY")
	want := map[string]bool{
		"speech_azure_key": true,
		"speech.azure.key": true,
		"speech.azure_key": true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d variants, got %v", len(want), got)
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}
	if single := generateEnvKeyVariants("PORT"); len(single) != 1 || single[0] != "port" {
		t.Errorf("unexpected single-part variants %v", single)
	}
}
