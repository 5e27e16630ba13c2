package order

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/voiceorder/llm"
)

type fakeCompleter struct {
	mu        sync.Mutex
	available bool
	content   string
	err       error
	calls     int
	last      llm.CompletionRequest
}

func (f *fakeCompleter) Name() string                       { return "fake-llm" }
func (f *fakeCompleter) IsAvailable(_ context.Context) bool { return f.available }

func (f *fakeCompleter) Execute(_ context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return llm.CompletionResponse{}, f.err
	}
	return llm.CompletionResponse{Content: f.content}, nil
}

func (f *fakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// mapCache is a minimal Cache for engine tests.
type mapCache struct {
	mu   sync.Mutex
	m    map[string]ParsedOrder
	gets int
}

func newMapCache() *mapCache { return &mapCache{m: make(map[string]ParsedOrder)} }

func (c *mapCache) Get(_ context.Context, text string) (ParsedOrder, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	o, ok := c.m[text]
	return o.Clone(), ok
}

func (c *mapCache) Put(_ context.Context, text string, o ParsedOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[text] = o.Clone()
}

func fixedClock(hour int) Clock {
	return func() time.Time { return time.Date(2026, 5, 4, hour, 30, 0, 0, time.Local) }
}
