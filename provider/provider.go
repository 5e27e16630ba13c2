package provider

import "context"

// Provider is the base interface for every swappable backend: speech
// recognizers, LLM dialects, decoders.
type Provider interface {
	// Name returns the unique name of this provider instance.
	Name() string
	// IsAvailable reports whether the provider can currently serve requests.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a provider that takes one input and returns one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function into a RequestResponse provider.
func Func[I, O any](name string, fn func(ctx context.Context, input I) (O, error)) RequestResponse[I, O] {
	return &funcProvider[I, O]{name: name, fn: fn}
}

type funcProvider[I, O any] struct {
	name string
	fn   func(ctx context.Context, input I) (O, error)
}

func (f *funcProvider[I, O]) Name() string                       { return f.name }
func (f *funcProvider[I, O]) IsAvailable(_ context.Context) bool { return f.fn != nil }

func (f *funcProvider[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.fn(ctx, input)
}
