package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// openPaths stay reachable without a key so probes and scrapers need no
// secret.
var openPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// requireAPIKey rejects requests that do not present the configured key,
// either as a bearer token or in X-API-Key. A no-op when no key is set.
func requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" || openPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		got := requestKey(r)
		if got == "" {
			incrementAuthFailure("missing_key")
			writeJSONError(w, http.StatusUnauthorized, "api key required")
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
			incrementAuthFailure("bad_key")
			writeJSONError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestKey(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.Header.Get("X-API-Key")
}
