package transcription

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/observability"
)

// Strategy is a way of driving a recognizer.
type Strategy string

const (
	// StrategySingleShot recognizes one utterance.
	StrategySingleShot Strategy = "single_shot"
	// StrategyContinuous collects utterances until the session ends or a
	// deadline passes. It copes better with pauses.
	StrategyContinuous Strategy = "continuous"
)

// DefaultStrategies is the order strategies are tried within a pass.
var DefaultStrategies = []Strategy{StrategySingleShot, StrategyContinuous}

// Failure messages shown to users.
const (
	MsgNoSpeech         = "未識別到語音內容"
	MsgRecognitionError = "識別錯誤: "
	MsgContinuousEmpty  = "連續識別未獲得結果"
	MsgUnknownResult    = "識別失敗"
	MsgAllFailed        = "所有識別策略都失敗了。最後錯誤: "
	MsgUnknownError     = "未知錯誤"
)

// Confidence estimates a confidence from transcript length:
// min(0.95, runes/50 + 0.7). It is a heuristic, not a calibrated score.
func Confidence(text string) float64 {
	return math.Min(0.95, float64(utf8.RuneCountInString(text))/50+0.7)
}

// IsContextValidationError reports whether msg is the recognizer's
// transient speech-context validation failure.
func IsContextValidationError(msg string) bool {
	return strings.Contains(msg, "1007") || strings.Contains(msg, "Could not validate speech context")
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func succeeded(s Strategy, text string) Outcome {
	return Outcome{Succeeded: true, Text: text, Confidence: Confidence(text), Strategy: s}
}

func failed(s Strategy, detail string, err error) Outcome {
	return Outcome{ErrorDetail: detail, Strategy: s, err: err}
}

// RunStrategy runs one strategy against rec. It never returns an error:
// recognizer errors become failed outcomes whose Err is set.
func RunStrategy(ctx context.Context, s Strategy, rec Recognizer, in Input, cfg RecognizerConfig) Outcome {
	cfg.ApplyDefaults()

	ctx, span := observability.StartSpan(ctx, observability.SpanStrategy)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrStrategy, string(s))
	observability.SetSpanAttribute(ctx, "speech.input", string(in.Kind))

	var out Outcome
	switch s {
	case StrategySingleShot:
		out = runSingleShot(ctx, rec, in, cfg)
	case StrategyContinuous:
		out = runContinuous(ctx, rec, in, cfg)
	default:
		out = failed(s, fmt.Sprintf("unknown strategy %q", s), nil)
	}
	out.Input = in.Kind
	out.Attempts = 1

	if !out.Succeeded {
		err := out.err
		if err == nil {
			err = errors.New(out.ErrorDetail)
		}
		observability.SetSpanError(ctx, err)
	}
	return out
}

func runSingleShot(ctx context.Context, rec Recognizer, in Input, cfg RecognizerConfig) Outcome {
	res, err := rec.RecognizeOnce(ctx, in, cfg)
	if err != nil {
		return failed(StrategySingleShot, err.Error(), err)
	}
	switch res.Status {
	case StatusRecognized:
		return succeeded(StrategySingleShot, res.Text)
	case StatusNoMatch:
		return failed(StrategySingleShot, MsgNoSpeech, nil)
	case StatusCanceled:
		return failed(StrategySingleShot, MsgRecognitionError+res.Detail, nil)
	default:
		return failed(StrategySingleShot, MsgUnknownResult, nil)
	}
}

func runContinuous(ctx context.Context, rec Recognizer, in Input, cfg RecognizerConfig) Outcome {
	log := logger.Get("transcription").WithContext(ctx)

	runCtx, cancel := context.WithTimeout(ctx, cfg.ContinuousTimeout)
	defer cancel()

	sess, err := rec.StartContinuous(runCtx, in, cfg)
	if err != nil {
		return failed(StrategyContinuous, err.Error(), err)
	}
	defer func() {
		if err := sess.Stop(context.WithoutCancel(ctx)); err != nil {
			log.Warn("continuous session stop failed", logger.MergeWithError(nil, err))
		}
	}()

	var fragments []string
	var canceled string
	events := sess.Events()
collect:
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				break collect
			}
			switch ev.Kind {
			case EventRecognized:
				if ev.Text != "" {
					fragments = append(fragments, ev.Text)
				}
			case EventSessionStopped:
				break collect
			case EventCanceled:
				log.Warn("continuous recognition canceled", logger.Fields("detail", ev.Detail))
				canceled = ev.Detail
				break collect
			}
		case <-runCtx.Done():
			log.Warn("continuous recognition deadline reached", logger.Fields(logger.FieldStrategy, string(StrategyContinuous)))
			break collect
		}
	}

	text := strings.TrimSpace(strings.Join(fragments, " "))
	if text == "" {
		var cause error
		if canceled != "" {
			cause = errors.New(canceled)
		}
		return failed(StrategyContinuous, MsgContinuousEmpty, cause)
	}
	return succeeded(StrategyContinuous, text)
}
