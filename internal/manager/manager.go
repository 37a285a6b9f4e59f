package manager

import (
	"sync"
	"time"

	"thalamusd/internal/cache"
	"thalamusd/internal/config"
	"thalamusd/internal/device"
	"thalamusd/internal/fetch"
	"thalamusd/internal/registry"
	"thalamusd/pkg/types"
)

// Manager wires the registry, fetcher, allocator and cache together.
type Manager struct {
	reg     *registry.Registry
	fetcher *fetch.Fetcher
	alloc   *device.Allocator
	cache   *cache.Cache
	deploy  config.Deploy

	loadMu  sync.Mutex
	started time.Time
}

// New builds a Manager. The deploy config is read-only from here on.
func New(reg *registry.Registry, f *fetch.Fetcher, alloc *device.Allocator, c *cache.Cache, deploy config.Deploy) *Manager {
	return &Manager{
		reg:     reg,
		fetcher: f,
		alloc:   alloc,
		cache:   c,
		deploy:  deploy,
		started: time.Now(),
	}
}

// Registry exposes spec resolution to collaborators.
func (m *Manager) Registry() *registry.Registry { return m.reg }

// Ready reports whether every critical spec is loaded, and which critical
// keys are still pending.
func (m *Manager) Ready() (bool, []string) {
	var missing []string
	for _, e := range m.reg.All() {
		if e.Spec.Critical && !e.IsLoaded() {
			missing = append(missing, e.Spec.Key())
		}
	}
	return len(missing) == 0, missing
}

// Status aggregates uptime, per-spec load state, the device pool and cache
// usage.
func (m *Manager) Status() types.StatusResponse {
	now := time.Now()
	return types.StatusResponse{
		UptimeSeconds:  int64(now.Sub(m.started).Seconds()),
		ServerTimeUnix: now.Unix(),
		Models:         m.ModelInfos(),
		Devices:        m.DeviceStatuses(),
		Cache:          m.CacheInfo(),
	}
}

// ModelInfos describes every registered spec.
func (m *Manager) ModelInfos() []types.ModelInfo {
	entries := m.reg.All()
	out := make([]types.ModelInfo, len(entries))
	for i, e := range entries {
		out[i] = modelInfo(e)
	}
	return out
}

// ModelInfo describes one spec; an empty version resolves like a lookup.
func (m *Manager) ModelInfo(id, version string) (types.ModelInfo, error) {
	e, err := m.reg.Get(id, version)
	if err != nil {
		return types.ModelInfo{}, err
	}
	return modelInfo(e), nil
}

// Versions lists a model's versions, highest first.
func (m *Manager) Versions(id string) ([]string, error) {
	return m.reg.Versions(id)
}

// DeviceStatuses reports the device pool.
func (m *Manager) DeviceStatuses() []types.DeviceStatus {
	snap := m.alloc.Snapshot()
	out := make([]types.DeviceStatus, len(snap))
	for i, s := range snap {
		out[i] = types.DeviceStatus{ID: s.ID, Class: s.Class, MemoryMB: s.MemoryMB, InUse: s.InUse}
	}
	return out
}

// CacheInfo reports weight cache usage.
func (m *Manager) CacheInfo() types.CacheInfo {
	s := m.cache.Stats()
	return types.CacheInfo{
		Hits:         s.Hits,
		Misses:       s.Misses,
		HitRate:      s.HitRate,
		CurrentBytes: s.CurrentBytes,
		MaxBytes:     s.MaxBytes,
		Files:        s.Files,
		EvictedFiles: s.EvictedFiles,
		EvictedBytes: s.EvictedBytes,
	}
}

// ClearCache empties the weight cache.
func (m *Manager) ClearCache() types.CacheClearResponse {
	freed, files := m.cache.Clear()
	return types.CacheClearResponse{BytesFreed: freed, FilesDeleted: files}
}

func modelInfo(e *registry.Entry) types.ModelInfo {
	spec := e.Spec
	info := types.ModelInfo{
		ID:               spec.ID,
		Version:          spec.Version,
		Description:      spec.Description,
		Default:          spec.Default,
		DefaultVersion:   spec.DefaultVersion,
		Critical:         spec.Critical,
		RequiredWeights:  spec.RequiredWeights,
		OptionalWeights:  spec.OptionalWeights,
		DevicePreference: spec.DevicePreference,
	}
	if l := e.Loaded(); l != nil {
		info.Loaded = true
		info.Device = l.Device
		info.LoadedAtUnix = l.At.Unix()
	}
	return info
}
