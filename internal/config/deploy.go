// Package config holds deploy-time configuration (which weights each model
// needs and where they come from) and process environment settings.
package config

import (
	"fmt"
	"sort"
)

// Source kinds accepted in deploy configuration.
const (
	SourceS3   = "s3"
	SourceHub  = "hf"
	SourceHTTP = "http"
)

// WeightSource describes where one named weight artifact comes from.
// Type selects the source family; only that family's fields are meaningful.
// A single flat struct keeps decoding uniform across JSON, YAML and TOML.
type WeightSource struct {
	Type string `json:"type" yaml:"type" toml:"type"`

	// s3
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty" toml:"bucket,omitempty"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`

	// hf
	Repo     string `json:"repo,omitempty" yaml:"repo,omitempty" toml:"repo,omitempty"`
	Filename string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty" toml:"revision,omitempty"`

	// http
	URL string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
}

// Validate checks that the source names a known type and carries the fields
// that type needs. Unknown types are rejected here rather than at fetch time.
func (w WeightSource) Validate() error {
	switch w.Type {
	case SourceS3:
		if w.Bucket == "" || w.Key == "" {
			return fmt.Errorf("s3 source needs bucket and key")
		}
	case SourceHub:
		if w.Repo == "" {
			return fmt.Errorf("hf source needs repo")
		}
	case SourceHTTP:
		if w.URL == "" {
			return fmt.Errorf("http source needs url")
		}
	case "":
		return fmt.Errorf("missing source type")
	default:
		return fmt.Errorf("unknown source type %q (want s3, hf or http)", w.Type)
	}
	return nil
}

// CacheKey returns the stable identity of the artifact. For s3 and http
// sources this is also the weight-cache key.
func (w WeightSource) CacheKey() string {
	switch w.Type {
	case SourceS3:
		return "s3://" + w.Bucket + "/" + w.Key
	case SourceHub:
		rev := w.Revision
		if rev == "" {
			rev = "main"
		}
		if w.Filename == "" {
			return "hf://" + w.Repo + "@" + rev
		}
		return "hf://" + w.Repo + "@" + rev + "/" + w.Filename
	case SourceHTTP:
		return w.URL
	}
	return ""
}

func (w WeightSource) String() string { return w.CacheKey() }

// ModelConfig is the deploy entry for one model key. Device, when set to
// anything but "auto", overrides the spec's device preference.
type ModelConfig struct {
	Device  string                  `json:"device,omitempty" yaml:"device,omitempty" toml:"device,omitempty"`
	Weights map[string]WeightSource `json:"weights,omitempty" yaml:"weights,omitempty" toml:"weights,omitempty"`
}

// Deploy is the full deploy configuration. Model keys are either bare ids
// ("classifier") or pinned to a version ("classifier@1.2.0").
type Deploy struct {
	Name   string                 `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Models map[string]ModelConfig `json:"models,omitempty" yaml:"models,omitempty" toml:"models,omitempty"`
}

// ForModel resolves the deploy entry for a model. A version-pinned key wins
// over a bare id key; absence returns ok=false with a zero entry.
func (d Deploy) ForModel(id, version string) (ModelConfig, bool) {
	if version != "" {
		if mc, ok := d.Models[id+"@"+version]; ok {
			return mc, true
		}
	}
	mc, ok := d.Models[id]
	return mc, ok
}

// Validate checks every weight source in the deploy. The first failure is
// returned with its model and weight names attached.
func (d Deploy) Validate() error {
	for _, mk := range sortedKeys(d.Models) {
		mc := d.Models[mk]
		for _, wk := range sortedKeys(mc.Weights) {
			if err := mc.Weights[wk].Validate(); err != nil {
				return fmt.Errorf("model %q weight %q: %w", mk, wk, err)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
