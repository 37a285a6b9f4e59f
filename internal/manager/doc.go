// Package manager coordinates the lifecycle of registered models: fetching
// their weights, binding them to devices, serving predictions and tearing
// them down again. At most one load runs at a time process-wide; the loaded
// check on the serving path is lock-free.
//
// The package is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, status/readiness reporting.
//   - errors.go: error types and helpers (IsConfig, IsInvalidInput).
//   - ensure.go: EnsureLoaded/LoadAll and the load sequence.
//   - unload.go: Unload and hook/device teardown ordering.
//   - predict.go: the predict pipeline (decode, preprocess, predict, postprocess).
//   - metrics.go: prometheus instrumentation for loads, unloads and predictions.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New, EnsureLoaded, LoadAll, Predict, Unload,
// Ready, Status). Models themselves are opaque pkg/model implementations;
// the manager never inspects beyond the declared capability interfaces.
package manager
