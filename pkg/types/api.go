package types

import "encoding/json"

// PredictRequest carries a batch of inputs for one model. Each element is
// decoded against the model's declared input type; models without one
// receive the raw JSON.
type PredictRequest struct {
	// Batch of inputs, one JSON value per element.
	Inputs []json.RawMessage `json:"inputs"`
}

// PredictResponse reports one output per input plus serving metadata.
type PredictResponse struct {
	// ID of the model that served the batch.
	// example: sentiment
	Model string `json:"model" example:"sentiment"`
	// Version that served the batch.
	// example: 1.2.0
	Version string `json:"version" example:"1.2.0"`
	// Device the model ran on.
	// example: cuda:0
	Device string `json:"device" example:"cuda:0"`
	// Outputs, index-aligned with the request inputs.
	Outputs []json.RawMessage `json:"outputs"`
	// Wall-clock serving duration in milliseconds.
	// example: 12
	DurationMS int64 `json:"duration_ms" example:"12"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not found: sentiment
	Error string `json:"error" example:"model not found: sentiment"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// UnloadRequest names the model (and optionally one version) to unload.
type UnloadRequest struct {
	// Model id to unload.
	// example: sentiment
	Model string `json:"model" example:"sentiment"`
	// Version to unload; empty unloads every loaded version.
	// example: 1.2.0
	Version string `json:"version,omitempty" example:"1.2.0"`
}

// UnloadResponse lists the versions that were actually unloaded.
type UnloadResponse struct {
	// Model id the request applied to.
	// example: sentiment
	Model string `json:"model" example:"sentiment"`
	// Versions torn down by this request.
	Unloaded []string `json:"unloaded"`
}

// CacheClearResponse reports what a cache clear removed.
type CacheClearResponse struct {
	// Bytes removed from disk.
	// example: 1073741824
	BytesFreed int64 `json:"bytes_freed" example:"1073741824"`
	// Number of files removed.
	// example: 3
	FilesDeleted int `json:"files_deleted" example:"3"`
}

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	// Always "ok" when the process is up.
	// example: ok
	Status string `json:"status" example:"ok"`
}

// ReadyResponse is the /readyz payload.
type ReadyResponse struct {
	// True once every critical model is loaded.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Critical model keys still waiting to load.
	Missing []string `json:"missing,omitempty"`
}
