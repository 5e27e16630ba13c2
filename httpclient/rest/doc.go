// Package rest is a JSON-focused layer over httpclient with typed helpers:
//
//	client, _ := rest.New(httpclient.Config{BaseURL: "https://openrouter.ai/api/v1"})
//	resp, err := rest.Post[chatResponse](ctx, client, "/chat/completions", req)
package rest
