package httpapi

// maxBodyBytes caps the request body on JSON endpoints. 1 MiB fits any
// reasonable input batch while keeping accidental uploads out.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes overrides the request body cap; n <= 0 restores the
// default.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// apiKey guards every endpoint except the probes and /metrics. Empty
// disables authentication.
var apiKey string

// SetAPIKey installs the shared secret clients must present.
func SetAPIKey(key string) { apiKey = key }

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

func corsOrigins() []string {
	if len(corsAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return corsAllowedOrigins
}

func corsMethods() []string {
	if len(corsAllowedMethods) == 0 {
		return []string{"GET", "POST", "OPTIONS"}
	}
	return corsAllowedMethods
}

func corsHeaders() []string {
	if len(corsAllowedHeaders) == 0 {
		return []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-Id"}
	}
	return corsAllowedHeaders
}
