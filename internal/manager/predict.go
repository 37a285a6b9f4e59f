package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"thalamusd/internal/registry"
	"thalamusd/pkg/model"
	"thalamusd/pkg/types"
)

// Predict resolves the model, makes sure it is loaded and runs the batch
// through the optional preprocess/postprocess hooks around Predict. An
// empty id picks the process default model.
func (m *Manager) Predict(ctx context.Context, id, version string, inputs []json.RawMessage) (*types.PredictResponse, error) {
	if len(inputs) == 0 {
		return nil, ErrInvalidInput("inputs must not be empty")
	}

	var e *registry.Entry
	var err error
	if id == "" {
		e, err = m.reg.GetDefault()
	} else {
		e, err = m.reg.Get(id, version)
	}
	if err != nil {
		return nil, err
	}
	if err := m.EnsureLoaded(ctx, e); err != nil {
		return nil, err
	}
	l := e.Loaded()
	if l == nil {
		// raced with an unload; one retry covers it
		if err := m.EnsureLoaded(ctx, e); err != nil {
			return nil, err
		}
		if l = e.Loaded(); l == nil {
			return nil, fmt.Errorf("model %s unloaded concurrently", e.Spec.Key())
		}
	}

	start := time.Now()
	batch, err := decodeInputs(e.Spec.InputType, inputs)
	if err != nil {
		return nil, err
	}
	if e.HasPre {
		if batch, err = l.Model.(model.Preprocessor).Preprocess(ctx, batch); err != nil {
			return nil, fmt.Errorf("preprocess %s: %w", e.Spec.Key(), err)
		}
	}
	outputs, err := l.Model.Predict(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", e.Spec.Key(), err)
	}
	if e.HasPost {
		if outputs, err = l.Model.(model.Postprocessor).Postprocess(ctx, outputs); err != nil {
			return nil, fmt.Errorf("postprocess %s: %w", e.Spec.Key(), err)
		}
	}
	if len(outputs) != len(inputs) {
		return nil, fmt.Errorf("model %s returned %d outputs for %d inputs",
			e.Spec.Key(), len(outputs), len(inputs))
	}

	encoded := make([]json.RawMessage, len(outputs))
	for i, o := range outputs {
		b, merr := json.Marshal(o)
		if merr != nil {
			return nil, fmt.Errorf("encode output %d: %w", i, merr)
		}
		encoded[i] = b
	}

	dur := time.Since(start)
	predictDuration.WithLabelValues(e.Spec.ID).Observe(dur.Seconds())
	return &types.PredictResponse{
		Model:      e.Spec.ID,
		Version:    e.Spec.Version,
		Device:     l.Device,
		Outputs:    encoded,
		DurationMS: dur.Milliseconds(),
	}, nil
}

// decodeInputs turns raw JSON elements into the model's declared input type.
// A nil type passes the raw JSON through untouched.
func decodeInputs(t reflect.Type, raw []json.RawMessage) ([]any, error) {
	out := make([]any, len(raw))
	for i, r := range raw {
		if t == nil {
			out[i] = r
			continue
		}
		v := reflect.New(t)
		if err := json.Unmarshal(r, v.Interface()); err != nil {
			return nil, ErrInvalidInput(fmt.Sprintf("input %d: %v", i, err))
		}
		out[i] = v.Elem().Interface()
	}
	return out, nil
}
