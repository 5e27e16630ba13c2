package provider

import "slices"

// Middleware decorates a RequestResponse provider.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain folds middlewares into one; the first listed ends up outermost.
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(p RequestResponse[I, O]) RequestResponse[I, O] {
		for _, wrap := range slices.Backward(middlewares) {
			p = wrap(p)
		}
		return p
	}
}
