package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"thalamusd/internal/config"
)

func TestFetchHubFile(t *testing.T) {
	var resolves atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme/clf/resolve/main/model.bin" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		resolves.Add(1)
		_, _ = w.Write([]byte("hub-bytes"))
	}))
	defer srv.Close()

	f, c := newTestFetcher(t, Options{HubBaseURL: srv.URL, HubToken: "tok"})
	src := config.WeightSource{Type: config.SourceHub, Repo: "acme/clf", Filename: "model.bin"}

	p, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := filepath.Join(c.Dir(), "huggingface", "models--acme--clf", "snapshots", "main", "model.bin")
	if p != want {
		t.Fatalf("path = %q, want %q", p, want)
	}
	if b, _ := os.ReadFile(p); string(b) != "hub-bytes" {
		t.Fatalf("content = %q", b)
	}

	// present files come back without network I/O
	p2, err := f.Fetch(context.Background(), src)
	if err != nil || p2 != p {
		t.Fatalf("refetch = %q, %v", p2, err)
	}
	if resolves.Load() != 1 {
		t.Fatalf("resolve hits = %d", resolves.Load())
	}

	// hub files bypass the generic cache counters
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Files != 0 {
		t.Fatalf("cache stats = %+v", s)
	}
}

func TestFetchHubSnapshot(t *testing.T) {
	var resolves atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/models/acme/clf/tree/v1":
			if r.URL.Query().Get("recursive") != "true" {
				t.Errorf("missing recursive flag: %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`[
				{"type":"file","path":"config.json"},
				{"type":"directory","path":"weights"},
				{"type":"file","path":"weights/model.bin"}
			]`))
		case strings.HasPrefix(r.URL.Path, "/acme/clf/resolve/v1/"):
			resolves.Add(1)
			_, _ = w.Write([]byte("data:" + strings.TrimPrefix(r.URL.Path, "/acme/clf/resolve/v1/")))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, c := newTestFetcher(t, Options{HubBaseURL: srv.URL})
	src := config.WeightSource{Type: config.SourceHub, Repo: "acme/clf", Revision: "v1"}

	dir, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	wantDir := filepath.Join(c.Dir(), "huggingface", "models--acme--clf", "snapshots", "v1")
	if dir != wantDir {
		t.Fatalf("dir = %q, want %q", dir, wantDir)
	}
	if b, _ := os.ReadFile(filepath.Join(dir, "config.json")); string(b) != "data:config.json" {
		t.Fatalf("config.json = %q", b)
	}
	if b, _ := os.ReadFile(filepath.Join(dir, "weights", "model.bin")); string(b) != "data:weights/model.bin" {
		t.Fatalf("model.bin = %q", b)
	}
	if resolves.Load() != 2 {
		t.Fatalf("resolve hits = %d", resolves.Load())
	}

	// a second snapshot fetch relists but re-downloads nothing
	if _, err := f.Fetch(context.Background(), src); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if resolves.Load() != 2 {
		t.Fatalf("resolve hits after refetch = %d", resolves.Load())
	}
}

func TestFetchHubDeniedLeavesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gated repo", http.StatusForbidden)
	}))
	defer srv.Close()

	f, c := newTestFetcher(t, Options{HubBaseURL: srv.URL})
	src := config.WeightSource{Type: config.SourceHub, Repo: "acme/secret", Filename: "w.bin"}

	if _, err := f.Fetch(context.Background(), src); !IsFetch(err) {
		t.Fatalf("err = %v, want fetch error", err)
	}
	snapDir := filepath.Join(c.Dir(), "huggingface", "models--acme--secret", "snapshots", "main")
	if _, err := os.Stat(filepath.Join(snapDir, "w.bin")); err == nil {
		t.Fatalf("denied download left a file")
	}
	parts, _ := filepath.Glob(filepath.Join(snapDir, "*.part"))
	if len(parts) != 0 {
		t.Fatalf("partial files left behind: %v", parts)
	}
}
