// Package demo ships a tiny self-contained model pair for --demo mode and
// the end-to-end tests. The models need no weights, so a daemon started
// with --demo serves predictions without any deploy config.
package demo

import (
	"context"
	"strings"

	"thalamusd/pkg/model"
)

type echoModel struct{}

func (echoModel) Predict(_ context.Context, in []any) ([]any, error) {
	out := make([]any, len(in))
	copy(out, in)
	return out, nil
}

type shoutModel struct{}

func (shoutModel) Predict(_ context.Context, in []any) ([]any, error) {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = strings.ToUpper(v.(string))
	}
	return out, nil
}

// Specs returns the demo registrations: echo@1.0.0 repeats its string
// inputs, echo@2.0.0 uppercases them. The id is the process default, so
// bare predict requests resolve here.
func Specs() []model.Spec {
	return []model.Spec{
		{
			ID:          "echo",
			Version:     "1.0.0",
			Description: "repeats string inputs",
			Default:     true,
			New:         func() model.Model { return echoModel{} },
			InputType:   model.TypeOf[string](),
		},
		{
			ID:          "echo",
			Version:     "2.0.0",
			Description: "repeats string inputs, uppercased",
			New:         func() model.Model { return shoutModel{} },
			InputType:   model.TypeOf[string](),
		},
	}
}
