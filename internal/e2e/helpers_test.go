package e2e

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"thalamusd/internal/cache"
	"thalamusd/internal/config"
	"thalamusd/internal/demo"
	"thalamusd/internal/device"
	"thalamusd/internal/fetch"
	"thalamusd/internal/httpapi"
	"thalamusd/internal/manager"
	"thalamusd/internal/registry"
	"thalamusd/pkg/model"
)

// classifier is the weighted model the suite serves. Load checks that the
// runtime hands it real weight files on disk before Predict ever runs.
type classifier struct {
	loads   atomic.Int64
	unloads atomic.Int64
}

func (c *classifier) Load(_ context.Context, weights map[string]string, device string) error {
	if device == "" {
		return fmt.Errorf("no device")
	}
	for name, path := range weights {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("weight %s: %w", name, err)
		}
	}
	c.loads.Add(1)
	return nil
}

func (c *classifier) Unload(context.Context) error {
	c.unloads.Add(1)
	return nil
}

func (c *classifier) Predict(_ context.Context, in []any) ([]any, error) {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = "label:" + v.(string)
	}
	return out, nil
}

// weightServer serves deterministic bytes for any path and counts downloads.
func weightServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprintf(w, "weights for %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// startDaemon wires the full serving stack behind an httptest server: the
// demo echo models plus a critical weighted classifier whose weights come
// from a local weight server.
func startDaemon(t *testing.T, apiKey string) (*httptest.Server, *manager.Manager, *atomic.Int64) {
	t.Helper()
	ws, hits := weightServer(t)

	reg := registry.New()
	for _, spec := range demo.Specs() {
		if err := reg.Register(spec); err != nil {
			t.Fatalf("register demo: %v", err)
		}
	}
	clf := &classifier{}
	err := reg.Register(model.Spec{
		ID:               "clf",
		Version:          "1.0.0",
		Description:      "labels string inputs",
		New:              func() model.Model { return clf },
		InputType:        model.TypeOf[string](),
		Critical:         true,
		RequiredWeights:  []string{"main"},
		DevicePreference: "gpu",
	})
	if err != nil {
		t.Fatalf("register clf: %v", err)
	}

	deploy := config.Deploy{Models: map[string]config.ModelConfig{
		"clf": {Weights: map[string]config.WeightSource{
			"main": {Type: config.SourceHTTP, URL: ws.URL + "/clf.bin"},
		}},
	}}

	c, err := cache.New(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	f := fetch.New(c, fetch.Options{})
	t.Cleanup(func() { _ = f.Close() })
	alloc := device.New([]device.Info{{ID: "cuda:0", Class: device.ClassGPU, MemoryMB: 16384}})
	mgr := manager.New(reg, f, alloc, c, deploy)

	httpapi.SetAPIKey(apiKey)
	t.Cleanup(func() { httpapi.SetAPIKey("") })

	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv, mgr, hits
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do req: %v", err) }
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil { t.Fatalf("new req: %v", err) }
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do req: %v", err) }
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
