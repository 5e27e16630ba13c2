// Package llm is a provider-neutral chat completion client.
//
// An Adapter pairs the REST client with a Dialect that maps request and
// response bodies for one provider family. Dialects register themselves on
// import:
//
//	import _ "github.com/kbukum/voiceorder/llm/openai"
//
//	adapter, err := llm.New(llm.Config{Dialect: "openai", APIKey: key})
//	text, err := llm.Complete(ctx, adapter, llm.UserPrompt(system, prompt))
//
//	var out orderPayload
//	err = llm.DecodeJSONObject(text, &out)
//
// Adapter implements provider.RequestResponse, so the provider middleware
// (logging, tracing, metrics) composes around it.
package llm
