package transcription

import (
	"context"
	"sync"
)

type onceFunc func(call int, in Input) (RecognitionResult, error)
type contFunc func(call int, in Input) (Session, error)

// fakeRecognizer scripts recognizer behavior per call number (1-based).
type fakeRecognizer struct {
	mu           sync.Mutex
	once         onceFunc
	cont         contFunc
	onceCalls    int
	contCalls    int
	reconfigured int
	inputs       []InputKind
	payloads     [][]byte
}

func (f *fakeRecognizer) Name() string                       { return "fake" }
func (f *fakeRecognizer) IsAvailable(_ context.Context) bool { return true }

func (f *fakeRecognizer) record(in Input) {
	data, _ := in.Bytes()
	f.inputs = append(f.inputs, in.Kind)
	f.payloads = append(f.payloads, data)
}

func (f *fakeRecognizer) RecognizeOnce(_ context.Context, in Input, _ RecognizerConfig) (RecognitionResult, error) {
	f.mu.Lock()
	f.onceCalls++
	n := f.onceCalls
	f.record(in)
	f.mu.Unlock()
	if f.once == nil {
		return RecognitionResult{Status: StatusNoMatch}, nil
	}
	return f.once(n, in)
}

func (f *fakeRecognizer) StartContinuous(_ context.Context, in Input, _ RecognizerConfig) (Session, error) {
	f.mu.Lock()
	f.contCalls++
	n := f.contCalls
	f.record(in)
	f.mu.Unlock()
	if f.cont == nil {
		return newFakeSession(Event{Kind: EventSessionStopped}), nil
	}
	return f.cont(n, in)
}

func (f *fakeRecognizer) Reconfigure(_ context.Context) error {
	f.mu.Lock()
	f.reconfigured++
	f.mu.Unlock()
	return nil
}

// fakeSession replays a fixed list of events and records Stop calls.
type fakeSession struct {
	events chan Event
	mu     sync.Mutex
	stops  int
}

func newFakeSession(events ...Event) *fakeSession {
	ch := make(chan Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	return &fakeSession{events: ch}
}

// silentSession never emits anything.
func silentSession() *fakeSession {
	return &fakeSession{events: make(chan Event)}
}

func (s *fakeSession) Events() <-chan Event { return s.events }

func (s *fakeSession) Stop(_ context.Context) error {
	s.mu.Lock()
	s.stops++
	s.mu.Unlock()
	return nil
}

func (s *fakeSession) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}
