package transcription

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/voiceorder/audio"
)

// RecognizeFunc recognizes one complete WAV clip.
type RecognizeFunc func(ctx context.Context, wav []byte) (RecognitionResult, error)

// SegmentedSession emulates continuous recognition on request/response
// backends: the input is cut into fixed-length WAV segments that are
// recognized one after another, each result emitted as an event.
type SegmentedSession struct {
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
}

var _ Session = (*SegmentedSession)(nil)

// Silence bounds how much speechless audio a session accepts before it stops
// on its own, measured in audio time. Zero disables a bound.
type Silence struct {
	// Initial is the audio allowed before the first recognized text.
	Initial time.Duration
	// End is the audio allowed after the last recognized text.
	End time.Duration
}

// exceeded reports whether a session at audio position pos has waited too
// long. lastSpeech is where the last recognized segment ended, or negative
// when nothing was recognized yet.
func (s Silence) exceeded(pos, lastSpeech time.Duration) bool {
	if lastSpeech < 0 {
		return s.Initial > 0 && pos >= s.Initial
	}
	return s.End > 0 && pos-lastSpeech >= s.End
}

// StartSegmented starts a SegmentedSession over in. segment is the clip
// length; zero means the whole input as one clip.
func StartSegmented(ctx context.Context, in Input, segment time.Duration, silence Silence, recognize RecognizeFunc) (*SegmentedSession, error) {
	data, err := in.Bytes()
	if err != nil {
		return nil, err
	}
	info, err := audio.ParseWAV(data)
	if err != nil {
		return nil, fmt.Errorf("transcription: segmented session: %w", err)
	}
	segments := splitPCM(info.Data, info.Format, segment)

	runCtx, cancel := context.WithCancel(ctx)
	s := &SegmentedSession{
		events: make(chan Event, len(segments)+1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(runCtx, segments, info.Format, silence, recognize)
	return s, nil
}

func splitPCM(pcm []byte, f audio.Format, segment time.Duration) [][]byte {
	size := len(pcm)
	if segment > 0 {
		frames := int(segment.Seconds() * float64(f.SampleRate))
		if n := frames * f.BlockAlign(); n > 0 && n < size {
			size = n
		}
	}
	if size == 0 {
		return nil
	}
	var out [][]byte
	for off := 0; off < len(pcm); off += size {
		end := min(off+size, len(pcm))
		out = append(out, pcm[off:end])
	}
	return out
}

func (s *SegmentedSession) run(ctx context.Context, segments [][]byte, f audio.Format, silence Silence, recognize RecognizeFunc) {
	defer close(s.done)
	defer close(s.events)

	var pos time.Duration
	lastSpeech := time.Duration(-1)
	for _, seg := range segments {
		if ctx.Err() != nil {
			return
		}
		res, err := recognize(ctx, audio.EncodeWAV(seg, f))
		pos += f.Duration(len(seg))
		switch {
		case err != nil:
			s.emit(ctx, Event{Kind: EventCanceled, Detail: err.Error()})
			return
		case res.Status == StatusCanceled:
			s.emit(ctx, Event{Kind: EventCanceled, Detail: res.Detail})
			return
		case res.Status == StatusRecognized && res.Text != "":
			lastSpeech = pos
			if !s.emit(ctx, Event{Kind: EventRecognized, Text: res.Text}) {
				return
			}
		}
		if silence.exceeded(pos, lastSpeech) {
			break
		}
	}
	s.emit(ctx, Event{Kind: EventSessionStopped})
}

func (s *SegmentedSession) emit(ctx context.Context, ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Events returns the event stream. It is closed when the session ends.
func (s *SegmentedSession) Events() <-chan Event { return s.events }

// Stop cancels outstanding work and waits for the session goroutine.
func (s *SegmentedSession) Stop(ctx context.Context) error {
	s.stop.Do(s.cancel)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
