// Package httpclient is the outbound HTTP client used for the speech and LLM
// backends. It adds authentication, retry and a circuit breaker to net/http
// and classifies error statuses.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Name:           "azure-speech",
//	    BaseURL:        "https://eastasia.stt.speech.microsoft.com",
//	    Auth:           httpclient.APIKeyAuthHeader(key, "Ocp-Apim-Subscription-Key"),
//	    Retry:          httpclient.DefaultRetryConfig(),
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("azure-speech"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/speech/recognition/conversation/cognitiveservices/v1",
//	    Body:   wavBytes,
//	})
//
// The rest subpackage adds typed JSON helpers on top.
package httpclient
