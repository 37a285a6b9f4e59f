package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyDisabledByDefault(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK { t.Fatalf("status=%d", w.Code) }
}

func TestAPIKeyRequired(t *testing.T) {
	SetAPIKey("sekret")
	defer SetAPIKey("")
	r := NewMux(&mockService{ready: true})

	// no key
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusUnauthorized { t.Fatalf("missing key status=%d", w.Code) }

	// wrong key
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("X-API-Key", "nope")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized { t.Fatalf("bad key status=%d", w.Code) }

	// bearer token
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK { t.Fatalf("bearer status=%d", w.Code) }

	// header key
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("X-API-Key", "sekret")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK { t.Fatalf("header key status=%d", w.Code) }
}

func TestAPIKeyExemptsProbes(t *testing.T) {
	SetAPIKey("sekret")
	defer SetAPIKey("")
	r := NewMux(&mockService{ready: true})
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code == http.StatusUnauthorized {
			t.Fatalf("%s rejected without key", path)
		}
	}
}
