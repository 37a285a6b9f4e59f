package manager

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"thalamusd/internal/registry"
	"thalamusd/pkg/model"
)

// Unload tears down a model's live instances and returns the versions it
// actually unloaded. An empty version means every loaded version of the id.
// Already-unloaded versions are skipped, so repeating an unload is harmless.
// An unload hook failure is reported only after state is fully torn down and
// the device returned to the pool.
func (m *Manager) Unload(ctx context.Context, id, version string) ([]string, error) {
	var entries []*registry.Entry
	if version == "" {
		entries = m.reg.AllForModel(id)
		if entries == nil {
			return nil, registry.ErrNotFound(id, "")
		}
	} else {
		e, err := m.reg.Get(id, version)
		if err != nil {
			return nil, err
		}
		entries = []*registry.Entry{e}
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	var unloaded []string
	var hookErr error
	for _, e := range entries {
		l := e.Loaded()
		if l == nil {
			continue
		}
		if e.HasUnload {
			if err := l.Model.(model.Unloader).Unload(ctx); err != nil && hookErr == nil {
				hookErr = fmt.Errorf("unload hook %s: %w", e.Spec.Key(), err)
			}
		}
		e.SetLoaded(nil)
		m.alloc.Release(l.Device)
		unloaded = append(unloaded, e.Spec.Version)
		unloadsTotal.Inc()
		loadedModels.Dec()
		log.Info().
			Str("model", e.Spec.ID).
			Str("version", e.Spec.Version).
			Str("device", l.Device).
			Msg("manager: model unloaded")
	}
	return unloaded, hookErr
}
