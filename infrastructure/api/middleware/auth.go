package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AuthConfig holds the accepted API keys. An empty key set disables
// authentication entirely.
type AuthConfig struct {
	keys []string
}

// NewAuthConfigWithKeys creates an AuthConfig with the given keys.
func NewAuthConfigWithKeys(keys []string) AuthConfig {
	copied := make([]string, len(keys))
	copy(copied, keys)
	return AuthConfig{keys: copied}
}

// Enabled reports whether any keys are configured.
func (c AuthConfig) Enabled() bool {
	return len(c.keys) > 0
}

// Matches reports whether the presented key is one of the configured keys.
func (c AuthConfig) Matches(presented string) bool {
	for _, key := range c.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(presented)) == 1 {
			return true
		}
	}
	return false
}

// WriteProtect returns a middleware that requires a valid X-API-Key header
// for mutating methods. Reads pass without a key so dashboards can stay
// credential-free inside a trusted network.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled() || !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if !config.Matches(r.Header.Get("X-API-Key")) {
				http.Error(w, "invalid or missing API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
