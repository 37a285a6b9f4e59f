package manager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"thalamusd/internal/device"
	"thalamusd/internal/registry"
	"thalamusd/pkg/model"
)

// EnsureLoaded makes the entry servable, loading it on first use. The fast
// path is a single atomic read; the slow path serializes on the process-wide
// load mutex and re-checks before doing any work, so concurrent callers load
// a model exactly once.
func (m *Manager) EnsureLoaded(ctx context.Context, e *registry.Entry) error {
	if e.IsLoaded() {
		return nil
	}
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	if e.IsLoaded() {
		return nil
	}
	return m.loadLocked(ctx, e)
}

// LoadAll eagerly loads every registered spec, critical ones first. A
// critical failure aborts; non-critical failures log and continue.
func (m *Manager) LoadAll(ctx context.Context) error {
	for _, critical := range []bool{true, false} {
		for _, e := range m.reg.All() {
			if e.Spec.Critical != critical {
				continue
			}
			if err := m.EnsureLoaded(ctx, e); err != nil {
				if e.Spec.Critical {
					return fmt.Errorf("load critical model %s: %w", e.Spec.Key(), err)
				}
				log.Warn().Err(err).
					Str("model", e.Spec.ID).
					Str("version", e.Spec.Version).
					Msg("manager: non-critical model failed to load")
			}
		}
	}
	return nil
}

// loadLocked runs the load sequence under the load mutex. Any failure leaves
// the entry unloaded and the device pool unchanged.
func (m *Manager) loadLocked(ctx context.Context, e *registry.Entry) (err error) {
	spec := e.Spec
	start := time.Now()
	defer func() {
		if err != nil {
			loadFailuresTotal.Inc()
			log.Error().Err(err).
				Str("model", spec.ID).
				Str("version", spec.Version).
				Msg("manager: load failed")
		}
	}()

	mc, _ := m.deploy.ForModel(spec.ID, spec.Version)

	var missing []string
	for _, name := range spec.RequiredWeights {
		if _, ok := mc.Weights[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ErrConfig(fmt.Sprintf("model %s missing required weights: %s",
			spec.Key(), strings.Join(missing, ", ")))
	}

	weights := map[string]string{}
	for _, name := range append(append([]string{}, spec.RequiredWeights...), spec.OptionalWeights...) {
		src, ok := mc.Weights[name]
		if !ok {
			continue
		}
		path, ferr := m.fetcher.Fetch(ctx, src)
		if ferr != nil {
			return fmt.Errorf("weight %q: %w", name, ferr)
		}
		weights[name] = path
	}

	pref := spec.DevicePreference
	if mc.Device != "" && mc.Device != device.Auto {
		pref = mc.Device
	}
	dev, err := m.alloc.Allocate(pref)
	if err != nil {
		return fmt.Errorf("model %s: %w", spec.Key(), err)
	}

	inst := spec.New()
	if inst == nil {
		m.alloc.Release(dev)
		return fmt.Errorf("model %s: constructor returned nil", spec.Key())
	}
	if e.HasLoad {
		if herr := inst.(model.Loader).Load(ctx, weights, dev); herr != nil {
			m.alloc.Release(dev)
			return fmt.Errorf("load %s: %w", spec.Key(), herr)
		}
	}

	e.SetLoaded(&registry.Loaded{
		Model:   inst,
		Device:  dev,
		Weights: weights,
		At:      time.Now(),
	})
	loadsTotal.Inc()
	loadedModels.Inc()
	loadDuration.Observe(time.Since(start).Seconds())
	log.Info().
		Str("model", spec.ID).
		Str("version", spec.Version).
		Str("device", dev).
		Int("weights", len(weights)).
		Dur("dur", time.Since(start)).
		Msg("manager: model loaded")
	return nil
}
