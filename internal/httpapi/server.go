// Package httpapi exposes the daemon over HTTP: prediction, model and
// version listing, cache and lifecycle admin plus the usual health,
// readiness and metrics endpoints. Handlers stay thin; domain errors are
// translated to status codes in one place (writeError) and payload shapes
// live in pkg/types.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thalamusd/pkg/types"
)

// Service defines the manager surface the HTTP layer needs.
type Service interface {
	Predict(ctx context.Context, id, version string, inputs []json.RawMessage) (*types.PredictResponse, error)
	Unload(ctx context.Context, id, version string) ([]string, error)
	ModelInfos() []types.ModelInfo
	ModelInfo(id, version string) (types.ModelInfo, error)
	Versions(id string) ([]string, error)
	Status() types.StatusResponse
	Ready() (bool, []string)
	CacheInfo() types.CacheInfo
	ClearCache() types.CacheClearResponse
}

type server struct {
	svc Service
}

// NewMux builds the router with all endpoints and middleware attached.
func NewMux(svc Service) http.Handler {
	s := &server{svc: svc}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins(),
			AllowedMethods: corsMethods(),
			AllowedHeaders: corsHeaders(),
			MaxAge:         300,
		}))
	}
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)
	r.Use(requireAPIKey)

	r.Get("/healthz", s.health)
	r.Get("/readyz", s.ready)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/status", s.status)
	r.Get("/models", s.listModels)
	r.Get("/models/{id}", s.getModel)
	r.Get("/models/{id}/versions", s.listVersions)
	r.Post("/v1/predict", s.predictDefault)
	r.Post("/v1/predict/{id}", s.predict)
	r.Route("/admin", func(r chi.Router) {
		r.Get("/cache", s.cacheInfo)
		r.Post("/cache/clear", s.clearCache)
		r.Post("/models/unload", s.unload)
	})
	MountSwagger(r)
	return r
}

// health godoc
// @Summary Liveness probe
// @Tags    ops
// @Success 200 {object} types.HealthResponse
// @Router  /healthz [get]
func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
}

// ready godoc
// @Summary Readiness probe, 503 until every critical model is loaded
// @Tags    ops
// @Success 200 {object} types.ReadyResponse
// @Failure 503 {object} types.ReadyResponse
// @Router  /readyz [get]
func (s *server) ready(w http.ResponseWriter, r *http.Request) {
	ready, missing := s.svc.Ready()
	if ready {
		writeJSON(w, http.StatusOK, types.ReadyResponse{Ready: true})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, types.ReadyResponse{Ready: false, Missing: missing})
}

// status godoc
// @Summary Daemon status: models, devices and cache usage
// @Tags    ops
// @Success 200 {object} types.StatusResponse
// @Router  /status [get]
func (s *server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Status())
}

// listModels godoc
// @Summary List every registered model version
// @Tags    models
// @Success 200 {object} types.ModelsResponse
// @Router  /models [get]
func (s *server) listModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: s.svc.ModelInfos()})
}

// getModel godoc
// @Summary Describe one model, resolved like a lookup
// @Tags    models
// @Param   id      path  string true  "model id"
// @Param   version query string false "version, empty or latest picks the serving default"
// @Success 200 {object} types.ModelInfo
// @Failure 404 {object} types.ErrorResponse
// @Router  /models/{id} [get]
func (s *server) getModel(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.ModelInfo(chi.URLParam(r, "id"), r.URL.Query().Get("version"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// listVersions godoc
// @Summary List a model's versions, highest first
// @Tags    models
// @Param   id path string true "model id"
// @Success 200 {object} types.VersionsResponse
// @Failure 404 {object} types.ErrorResponse
// @Router  /models/{id}/versions [get]
func (s *server) listVersions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	versions, err := s.svc.Versions(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.VersionsResponse{Model: id, Versions: versions})
}

// predict godoc
// @Summary Run a batch of inputs through a model
// @Tags    predict
// @Accept  json
// @Produce json
// @Param   id      path  string               true  "model id"
// @Param   version query string               false "version, empty or latest picks the serving default"
// @Param   request body  types.PredictRequest true  "input batch"
// @Success 200 {object} types.PredictResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 502 {object} types.ErrorResponse
// @Failure 503 {object} types.ErrorResponse
// @Router  /v1/predict/{id} [post]
func (s *server) predict(w http.ResponseWriter, r *http.Request) {
	s.servePredict(w, r, chi.URLParam(r, "id"))
}

// predictDefault godoc
// @Summary Run a batch of inputs through the default model
// @Tags    predict
// @Accept  json
// @Produce json
// @Param   request body types.PredictRequest true "input batch"
// @Success 200 {object} types.PredictResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router  /v1/predict [post]
func (s *server) predictDefault(w http.ResponseWriter, r *http.Request) {
	s.servePredict(w, r, "")
}

func (s *server) servePredict(w http.ResponseWriter, r *http.Request, id string) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Join the base context so shutdown cancels in-flight work too.
	ctx, cancel := joinContexts(baseCtx, r.Context())
	defer cancel()
	resp, err := s.svc.Predict(ctx, id, r.URL.Query().Get("version"), req.Inputs)
	if err != nil {
		if r.Context().Err() != nil || baseCtx.Err() != nil {
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// unload godoc
// @Summary Unload a model's live instances, freeing its device
// @Tags    admin
// @Accept  json
// @Produce json
// @Param   request body types.UnloadRequest true "model to unload; empty version means every loaded version"
// @Success 200 {object} types.UnloadResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router  /admin/models/unload [post]
func (s *server) unload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.UnloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Model) == "" {
		writeJSONError(w, http.StatusBadRequest, "model is required")
		return
	}
	ctx, cancel := joinContexts(baseCtx, r.Context())
	defer cancel()
	unloaded, err := s.svc.Unload(ctx, req.Model, req.Version)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.UnloadResponse{Model: req.Model, Unloaded: unloaded})
}

// cacheInfo godoc
// @Summary Weight cache usage and hit statistics
// @Tags    admin
// @Success 200 {object} types.CacheInfo
// @Router  /admin/cache [get]
func (s *server) cacheInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.CacheInfo())
}

// clearCache godoc
// @Summary Delete every cached weight file
// @Tags    admin
// @Success 200 {object} types.CacheClearResponse
// @Router  /admin/cache/clear [post]
func (s *server) clearCache(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.ClearCache())
}

// writeJSON writes v with the given status. Encode failures are ignored;
// the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
