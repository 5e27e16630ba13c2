package main

import (
	"time"

	"github.com/kbukum/voiceorder/api"
	"github.com/kbukum/voiceorder/audio"
	"github.com/kbukum/voiceorder/cache"
	"github.com/kbukum/voiceorder/config"
	"github.com/kbukum/voiceorder/llm"
	"github.com/kbukum/voiceorder/order"
	"github.com/kbukum/voiceorder/redis"
	"github.com/kbukum/voiceorder/server"
	"github.com/kbukum/voiceorder/transcription"
	"github.com/kbukum/voiceorder/transcription/azure"
	"github.com/kbukum/voiceorder/transcription/whisper"
	"github.com/kbukum/voiceorder/validation"
	"github.com/kbukum/voiceorder/version"
)

const serviceName = "voiceorder"

// Recognizer backends.
const (
	RecognizerAzure   = "azure"
	RecognizerWhisper = "whisper"
)

// Config is the service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Speech  SpeechConfig       `yaml:"speech" mapstructure:"speech"`
	Audio   audio.Config       `yaml:"audio" mapstructure:"audio"`
	LLM     llm.Config         `yaml:"llm" mapstructure:"llm"`
	Parser  order.RemoteConfig `yaml:"parser" mapstructure:"parser"`
	Cache   cache.Config       `yaml:"cache" mapstructure:"cache"`
	Redis   redis.Config       `yaml:"redis" mapstructure:"redis"`
	Server  server.Config      `yaml:"server" mapstructure:"server"`
	API     api.Config         `yaml:"api" mapstructure:"api"`
	Tracing TracingConfig      `yaml:"tracing" mapstructure:"tracing"`

	// APITimeout in whole seconds overrides the recognizer HTTP timeout.
	APITimeout int `yaml:"api_timeout" mapstructure:"api_timeout"`
}

// SpeechConfig selects and configures the recognizer.
type SpeechConfig struct {
	Recognizer    string               `yaml:"recognizer" mapstructure:"recognizer"`
	Azure         azure.Config         `yaml:"azure" mapstructure:"azure"`
	Whisper       whisper.Config       `yaml:"whisper" mapstructure:"whisper"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
}

// TracingConfig configures OTLP export of traces and metrics.
type TracingConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// envAliases keeps the flat variable names of earlier deployments working.
var envAliases = map[string]string{
	"AZURE_SPEECH_KEY":    "speech.azure.key",
	"AZURE_SPEECH_REGION": "speech.azure.region",
	"WHISPER_URL":         "speech.whisper.url",
	"OPENROUTER_API_KEY":  "llm.api_key",
	"OPENROUTER_MODEL":    "llm.model",
	"SITE_URL":            "llm.site_url",
	"SITE_NAME":           "llm.site_name",
	"LOG_LEVEL":           "logging.level",
	"MAX_AUDIO_SIZE":      "api.max_audio_size",
	"API_TIMEOUT":         "api_timeout",
	"MAX_RETRIES":         "speech.transcription.max_retries",
	"PORT":                "server.port",
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Speech.Recognizer == "" {
		c.Speech.Recognizer = RecognizerAzure
	}
	if c.APITimeout > 0 {
		c.Speech.Azure.Timeout = time.Duration(c.APITimeout) * time.Second
	}
	c.Speech.Azure.ApplyDefaults()
	c.Speech.Whisper.ApplyDefaults()
	c.Speech.Transcription.ApplyDefaults()

	c.Audio.ApplyDefaults()
	c.LLM.ApplyDefaults()
	c.Parser.ApplyDefaults()
	c.Cache.ApplyDefaults()
	if c.Cache.Backend == cache.BackendRedis {
		c.Redis.Enabled = true
	}
	c.Redis.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.API.Region == "" {
		c.API.Region = c.Speech.Azure.Region
	}
	c.API.ApplyDefaults()

	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Tracing.MetricInterval == 0 {
		c.Tracing.MetricInterval = 15 * time.Second
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	v := validation.New().
		Section("service", c.ServiceConfig.Validate()).
		OneOf("speech.recognizer", c.Speech.Recognizer, []string{RecognizerAzure, RecognizerWhisper}).
		NonNegative("api_timeout", float64(c.APITimeout)).
		Section("llm", c.LLM.Validate()).
		Section("cache", c.Cache.Validate()).
		Section("redis", c.Redis.Validate()).
		Section("server", c.Server.Validate()).
		Between("tracing.sample_rate", c.Tracing.SampleRate, 0, 1)
	if c.Speech.Recognizer == RecognizerAzure {
		v.Section("speech.azure", c.Speech.Azure.Validate())
	}
	return v.Validate()
}
