package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"thalamusd/internal/ctl"
	"thalamusd/pkg/types"
)

func TestDaemonServingFlow(t *testing.T) {
	srv, _, hits := startDaemon(t, "")

	// 1) GET /models lists the demo pair plus the classifier.
	resp, body := httpGet(t, srv.URL+"/models")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/models status=%d body=%s", resp.StatusCode, string(body)) }
	var models types.ModelsResponse
	if err := json.Unmarshal(body, &models); err != nil {
		t.Fatalf("/models json: %v body=%s", err, string(body))
	}
	if len(models.Models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(models.Models))
	}

	// 2) /readyz answers 503 while the critical classifier is unloaded.
	resp, body = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz expected 503, got %d body=%s", resp.StatusCode, string(body))
	}
	var ready types.ReadyResponse
	if err := json.Unmarshal(body, &ready); err != nil { t.Fatalf("/readyz json: %v", err) }
	if ready.Ready || len(ready.Missing) != 1 || ready.Missing[0] != "clf@1.0.0" {
		t.Fatalf("/readyz = %+v, want missing clf@1.0.0", ready)
	}

	// 3) First predict loads the model: weights are fetched, a device is
	//    bound, and the batch is served in one request.
	resp, body = httpPostJSON(t, srv.URL+"/v1/predict/clf", []byte(`{"inputs":["good","bad"]}`))
	if resp.StatusCode != http.StatusOK { t.Fatalf("/v1/predict/clf status=%d body=%s", resp.StatusCode, string(body)) }
	var pr types.PredictResponse
	if err := json.Unmarshal(body, &pr); err != nil { t.Fatalf("predict json: %v", err) }
	if pr.Model != "clf" || pr.Version != "1.0.0" || pr.Device != "cuda:0" {
		t.Fatalf("predict meta = %s@%s on %s", pr.Model, pr.Version, pr.Device)
	}
	if len(pr.Outputs) != 2 || string(pr.Outputs[0]) != `"label:good"` || string(pr.Outputs[1]) != `"label:bad"` {
		t.Fatalf("outputs = %v", pr.Outputs)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("weight downloads = %d, want 1", n)
	}

	// 4) Readiness flips once the critical model is up. The load is
	//    synchronous, so no polling is needed.
	resp, body = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz after load expected 200, got %d body=%s", resp.StatusCode, string(body))
	}

	// 5) /status reflects the load: model bound to the gpu, one cached file.
	resp, body = httpGet(t, srv.URL+"/status")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/status status=%d", resp.StatusCode) }
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil { t.Fatalf("/status json: %v", err) }
	if len(st.Models) != 3 {
		t.Fatalf("/status models = %d, want 3", len(st.Models))
	}
	var clf types.ModelInfo
	for _, mi := range st.Models {
		if mi.ID == "clf" {
			clf = mi
		}
	}
	if !clf.Loaded || clf.Device != "cuda:0" || !clf.Critical {
		t.Fatalf("clf status = %+v", clf)
	}
	var gpuInUse bool
	for _, d := range st.Devices {
		if d.ID == "cuda:0" && d.InUse {
			gpuInUse = true
		}
	}
	if !gpuInUse {
		t.Fatalf("devices = %+v, want cuda:0 in use", st.Devices)
	}
	if st.Cache.Files != 1 || st.Cache.CurrentBytes == 0 || st.Cache.Misses != 1 {
		t.Fatalf("cache = %+v", st.Cache)
	}

	// 6) Version listing for the classifier.
	resp, body = httpGet(t, srv.URL+"/models/clf/versions")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/versions status=%d", resp.StatusCode) }
	var vr types.VersionsResponse
	if err := json.Unmarshal(body, &vr); err != nil { t.Fatalf("versions json: %v", err) }
	if vr.Model != "clf" || len(vr.Versions) != 1 || vr.Versions[0] != "1.0.0" {
		t.Fatalf("versions = %+v", vr)
	}

	// 7) A bare predict resolves the default model: echo at its highest
	//    version, which uppercases.
	resp, body = httpPostJSON(t, srv.URL+"/v1/predict", []byte(`{"inputs":["hi"]}`))
	if resp.StatusCode != http.StatusOK { t.Fatalf("default predict status=%d body=%s", resp.StatusCode, string(body)) }
	if err := json.Unmarshal(body, &pr); err != nil { t.Fatalf("default predict json: %v", err) }
	if pr.Model != "echo" || pr.Version != "2.0.0" {
		t.Fatalf("default resolved to %s@%s", pr.Model, pr.Version)
	}
	if len(pr.Outputs) != 1 || string(pr.Outputs[0]) != `"HI"` {
		t.Fatalf("default outputs = %v", pr.Outputs)
	}

	// 8) A second classifier predict reuses the loaded instance: no new
	//    downloads.
	resp, _ = httpPostJSON(t, srv.URL+"/v1/predict/clf", []byte(`{"inputs":["meh"]}`))
	if resp.StatusCode != http.StatusOK { t.Fatalf("second predict status=%d", resp.StatusCode) }
	if n := hits.Load(); n != 1 {
		t.Fatalf("weight downloads after reuse = %d, want 1", n)
	}
}

func TestDaemonUnloadAndCacheFlow(t *testing.T) {
	srv, mgr, hits := startDaemon(t, "")

	resp, body := httpPostJSON(t, srv.URL+"/v1/predict/clf", []byte(`{"inputs":["x"]}`))
	if resp.StatusCode != http.StatusOK { t.Fatalf("predict status=%d body=%s", resp.StatusCode, string(body)) }

	// Unload tears the instance down but leaves the cached weights on disk.
	resp, body = httpPostJSON(t, srv.URL+"/admin/models/unload", []byte(`{"model":"clf"}`))
	if resp.StatusCode != http.StatusOK { t.Fatalf("unload status=%d body=%s", resp.StatusCode, string(body)) }
	var ur types.UnloadResponse
	if err := json.Unmarshal(body, &ur); err != nil { t.Fatalf("unload json: %v", err) }
	if ur.Model != "clf" || len(ur.Unloaded) != 1 || ur.Unloaded[0] != "1.0.0" {
		t.Fatalf("unload = %+v", ur)
	}
	if mgr.Registry().IsLoaded("clf", "1.0.0") {
		t.Fatal("clf still loaded after unload")
	}
	resp, _ = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz after unload = %d, want 503", resp.StatusCode)
	}
	resp, body = httpGet(t, srv.URL+"/admin/cache")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/admin/cache status=%d", resp.StatusCode) }
	var ci types.CacheInfo
	if err := json.Unmarshal(body, &ci); err != nil { t.Fatalf("cache json: %v", err) }
	if ci.Files != 1 {
		t.Fatalf("cache files after unload = %d, want 1", ci.Files)
	}

	// Clearing the cache removes the file, so the next load downloads again.
	resp, body = httpPostJSON(t, srv.URL+"/admin/cache/clear", nil)
	if resp.StatusCode != http.StatusOK { t.Fatalf("cache clear status=%d", resp.StatusCode) }
	var cc types.CacheClearResponse
	if err := json.Unmarshal(body, &cc); err != nil { t.Fatalf("clear json: %v", err) }
	if cc.FilesDeleted != 1 || cc.BytesFreed == 0 {
		t.Fatalf("clear = %+v", cc)
	}
	resp, _ = httpPostJSON(t, srv.URL+"/v1/predict/clf", []byte(`{"inputs":["y"]}`))
	if resp.StatusCode != http.StatusOK { t.Fatalf("reload predict status=%d", resp.StatusCode) }
	if n := hits.Load(); n != 2 {
		t.Fatalf("weight downloads after clear = %d, want 2", n)
	}
}

func TestDaemonErrorMapping(t *testing.T) {
	srv, _, _ := startDaemon(t, "")

	// Unknown model.
	resp, body := httpPostJSON(t, srv.URL+"/v1/predict/ghost", []byte(`{"inputs":["x"]}`))
	if resp.StatusCode != http.StatusNotFound { t.Fatalf("ghost status=%d body=%s", resp.StatusCode, string(body)) }
	var er types.ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil { t.Fatalf("error json: %v", err) }
	if er.Code != http.StatusNotFound || !strings.Contains(er.Error, "ghost") {
		t.Fatalf("error = %+v", er)
	}

	// Empty batch.
	resp, _ = httpPostJSON(t, srv.URL+"/v1/predict/clf", []byte(`{"inputs":[]}`))
	if resp.StatusCode != http.StatusBadRequest { t.Fatalf("empty inputs status=%d", resp.StatusCode) }

	// Input that does not decode as the declared string type.
	resp, _ = httpPostJSON(t, srv.URL+"/v1/predict/clf", []byte(`{"inputs":[17]}`))
	if resp.StatusCode != http.StatusBadRequest { t.Fatalf("bad input status=%d", resp.StatusCode) }
}

func TestDaemonAuth(t *testing.T) {
	srv, _, _ := startDaemon(t, "sekret")

	// Probes stay open.
	resp, _ := httpGet(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/healthz status=%d", resp.StatusCode) }

	// Everything else requires the key.
	resp, body := httpGet(t, srv.URL+"/models")
	if resp.StatusCode != http.StatusUnauthorized { t.Fatalf("no key status=%d body=%s", resp.StatusCode, string(body)) }

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/models", nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	req.Header.Set("Authorization", "Bearer sekret")
	withKey, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do req: %v", err) }
	_ = withKey.Body.Close()
	if withKey.StatusCode != http.StatusOK {
		t.Fatalf("bearer status=%d", withKey.StatusCode)
	}
}

// The admin CLI client and the daemon share the wire types; drive one
// against the other to keep them honest.
func TestCtlClientAgainstDaemon(t *testing.T) {
	srv, _, _ := startDaemon(t, "sekret")
	ctx := context.Background()
	client := ctl.NewClient(srv.URL, "sekret")

	ready, err := client.Ready(ctx)
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	if ready.Ready || len(ready.Missing) != 1 {
		t.Fatalf("ready = %+v", ready)
	}

	models, err := client.Models(ctx)
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(models) != 3 {
		t.Fatalf("models = %d, want 3", len(models))
	}

	resp, _ := httpPostJSON(t, srv.URL+"/v1/predict/clf", []byte(`{"inputs":["x"]}`))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("predict without key status=%d", resp.StatusCode)
	}

	ur, err := client.Unload(ctx, "clf", "")
	if err != nil {
		t.Fatalf("unload: %v", err)
	}
	if ur.Model != "clf" || len(ur.Unloaded) != 0 {
		t.Fatalf("unload before load = %+v", ur)
	}

	st, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(st.Models) != 3 || st.Cache.MaxBytes != 1<<30 {
		t.Fatalf("status = %+v", st)
	}

	// Wrong key surfaces the daemon's error payload.
	bad := ctl.NewClient(srv.URL, "wrong")
	if _, err := bad.Models(ctx); err == nil || !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("wrong key err = %v", err)
	}
}
