package transcription

import (
	"context"
	"time"

	"github.com/kbukum/voiceorder/provider"
)

// RecognitionStatus is the outcome class of a single recognition.
type RecognitionStatus int

const (
	StatusRecognized RecognitionStatus = iota
	// StatusNoMatch means audio was processed but no speech was found.
	StatusNoMatch
	// StatusCanceled means the recognizer gave up; Detail says why.
	StatusCanceled
)

func (s RecognitionStatus) String() string {
	switch s {
	case StatusRecognized:
		return "recognized"
	case StatusNoMatch:
		return "no_match"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// RecognitionResult is what a recognizer returns for one utterance.
type RecognitionResult struct {
	Status RecognitionStatus `json:"status"`
	Text   string            `json:"text,omitempty"`
	// Confidence as reported by the backend, when it reports one.
	Confidence float64       `json:"confidence,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	Offset     time.Duration `json:"offset,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// EventKind classifies continuous recognition events.
type EventKind int

const (
	EventRecognized EventKind = iota
	EventSessionStopped
	EventCanceled
)

// Event is emitted by a continuous recognition session.
type Event struct {
	Kind   EventKind
	Text   string
	Detail string
}

// Session is a running continuous recognition. Stop must be called exactly
// once; it releases everything the session holds.
type Session interface {
	Events() <-chan Event
	Stop(ctx context.Context) error
}

// RecognizerConfig carries per-request recognizer settings.
type RecognizerConfig struct {
	Language string `yaml:"language" mapstructure:"language"`
	// OutputFormat is "simple" or "detailed".
	OutputFormat          string        `yaml:"output_format" mapstructure:"output_format"`
	InitialSilenceTimeout time.Duration `yaml:"initial_silence_timeout" mapstructure:"initial_silence_timeout"`
	EndSilenceTimeout     time.Duration `yaml:"end_silence_timeout" mapstructure:"end_silence_timeout"`
	// ContinuousTimeout bounds a continuous session.
	ContinuousTimeout time.Duration `yaml:"continuous_timeout" mapstructure:"continuous_timeout"`
}

// ApplyDefaults sets Cantonese defaults for unset fields.
func (c *RecognizerConfig) ApplyDefaults() {
	if c.Language == "" {
		c.Language = "zh-HK"
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "detailed"
	}
	if c.InitialSilenceTimeout == 0 {
		c.InitialSilenceTimeout = 8 * time.Second
	}
	if c.EndSilenceTimeout == 0 {
		c.EndSilenceTimeout = 5 * time.Second
	}
	if c.ContinuousTimeout == 0 {
		c.ContinuousTimeout = 30 * time.Second
	}
}

// Silence returns the silence windows with defaults applied. A negative
// timeout disables its window.
func (c RecognizerConfig) Silence() Silence {
	c.ApplyDefaults()
	return Silence{Initial: c.InitialSilenceTimeout, End: c.EndSilenceTimeout}
}

// Recognizer is a speech-to-text backend.
type Recognizer interface {
	provider.Provider

	RecognizeOnce(ctx context.Context, in Input, cfg RecognizerConfig) (RecognitionResult, error)
	StartContinuous(ctx context.Context, in Input, cfg RecognizerConfig) (Session, error)
}

// Reconfigurer is implemented by recognizers that can rebuild their client
// state after a context-validation failure.
type Reconfigurer interface {
	Reconfigure(ctx context.Context) error
}

// Outcome is the result of a strategy run or a whole transcription.
type Outcome struct {
	Succeeded   bool      `json:"success"`
	Text        string    `json:"text,omitempty"`
	Confidence  float64   `json:"confidence"`
	ErrorDetail string    `json:"error,omitempty"`
	Strategy    Strategy  `json:"strategy,omitempty"`
	Input       InputKind `json:"input,omitempty"`
	// Attempts counts strategy runs, across passes.
	Attempts int `json:"attempts"`

	err error
}

// Err returns the Go error behind a failed strategy run, if any.
func (o Outcome) Err() error { return o.err }

// Usable reports whether o carries a non-blank transcript.
func (o Outcome) Usable() bool {
	return o.Succeeded && !isBlank(o.Text)
}
