// Package provider defines the swappable backend contract shared by the
// recognizers, audio decoders and LLM dialects, plus the middleware that
// decorates them.
//
// A RequestResponse provider takes one input and returns one output.
// Middleware composes with Chain, outermost first:
//
//	p = provider.Chain(
//	    provider.WithLogging[Req, Resp](log),
//	    provider.WithTracing[Req, Resp]("voiceorder"),
//	    provider.WithMetrics[Req, Resp](metrics),
//	)(p)
package provider
