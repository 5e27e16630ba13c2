package httpclient

import "net/http"

const defaultKeyHeader = "X-API-Key"

// AuthConfig is a credential carried in a single request header.
type AuthConfig struct {
	Header string
	Value  string
}

// BearerAuth sends "Authorization: Bearer <token>".
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Header: "Authorization", Value: "Bearer " + token}
}

// APIKeyAuthHeader sends key in the named header, e.g. Ocp-Apim-Subscription-Key.
// An empty name means X-API-Key.
func APIKeyAuthHeader(key, header string) *AuthConfig {
	if header == "" {
		header = defaultKeyHeader
	}
	return &AuthConfig{Header: header, Value: key}
}

func (a *AuthConfig) apply(h http.Header) {
	if a == nil || a.Header == "" {
		return
	}
	h.Set(a.Header, a.Value)
}
