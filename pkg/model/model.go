// Package model defines the contract between the serving runtime and the
// model implementations it hosts. A model is registered once per
// (id, version) pair via a Spec and constructed lazily when first needed.
package model

import (
	"context"
	"reflect"
)

// Model is the minimal interface a served model implements. Predict receives
// a batch of decoded inputs and returns exactly one output per input.
type Model interface {
	Predict(ctx context.Context, inputs []any) ([]any, error)
}

// Loader is implemented by models that need weights or device setup before
// they can serve. The weights map carries the declared weight names resolved
// to local file paths; device is the concrete device id the model was bound
// to (e.g. "cuda:0" or "cpu").
type Loader interface {
	Load(ctx context.Context, weights map[string]string, device string) error
}

// Unloader is implemented by models that hold resources needing explicit
// release on unload.
type Unloader interface {
	Unload(ctx context.Context) error
}

// Preprocessor transforms decoded request inputs before Predict runs.
type Preprocessor interface {
	Preprocess(ctx context.Context, inputs []any) ([]any, error)
}

// Postprocessor transforms Predict outputs before they are encoded.
type Postprocessor interface {
	Postprocess(ctx context.Context, outputs []any) ([]any, error)
}

// Spec declares one (id, version) unit of deployable behavior. Specs are
// immutable after registration; runtime load state lives in the registry,
// not here.
type Spec struct {
	ID          string
	Version     string
	Description string

	// New constructs a fresh, unloaded instance. Constructors must be cheap
	// and side-effect free: expensive setup (weight parsing, device memory)
	// belongs in a Load hook. The registry calls New once at registration
	// to probe optional capabilities.
	New func() Model

	// InputType and OutputType describe the JSON shape of a single input or
	// output element. Nil means elements are passed through as raw JSON.
	InputType  reflect.Type
	OutputType reflect.Type

	// Default marks this spec's id as the process-wide default model.
	// DefaultVersion marks this version as the default for its id.
	Default        bool
	DefaultVersion bool

	// Critical specs gate readiness: /readyz stays unavailable until every
	// critical spec is loaded.
	Critical bool

	// RequiredWeights must all be present in deploy configuration for the
	// spec to load; OptionalWeights are fetched when configured and skipped
	// otherwise.
	RequiredWeights []string
	OptionalWeights []string

	// DevicePreference is "auto" (or empty), a device class such as "gpu",
	// or an explicit device id such as "cuda:1". A deploy-time override
	// takes precedence.
	DevicePreference string
}

// Key returns the canonical "id@version" form used in logs and config lookups.
func (s Spec) Key() string {
	return s.ID + "@" + s.Version
}

// TypeOf is a convenience for filling Spec.InputType / Spec.OutputType.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
