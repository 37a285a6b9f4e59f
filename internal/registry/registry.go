// Package registry indexes registered model specs by id and version and
// tracks which of them are loaded. Specs are immutable once accepted;
// runtime load state lives behind an atomic pointer per entry so readers
// never take a lock on the serving path.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"

	"thalamusd/pkg/model"
)

// Latest is accepted wherever a version is expected and resolves to the
// model's default version, falling back to its highest semver.
const Latest = "latest"

// Loaded is the immutable record of one live model instance. A non-nil
// pointer always refers to a fully constructed value.
type Loaded struct {
	Model   model.Model
	Device  string
	Weights map[string]string
	At      time.Time
}

// Entry is one registered (id, version) spec plus its runtime state. The
// capability flags are probed once at registration.
type Entry struct {
	Spec model.Spec

	HasLoad   bool
	HasUnload bool
	HasPre    bool
	HasPost   bool

	ver    *semver.Version
	loaded atomic.Pointer[Loaded]
}

// Loaded returns the live state, or nil when the entry is not loaded.
func (e *Entry) Loaded() *Loaded { return e.loaded.Load() }

// IsLoaded reports whether the entry currently has a live instance.
func (e *Entry) IsLoaded() bool { return e.loaded.Load() != nil }

// SetLoaded publishes new live state; nil clears it. Callers must fully
// populate l before publishing.
func (e *Entry) SetLoaded(l *Loaded) { e.loaded.Store(l) }

// Registry is safe for concurrent use and read-heavy.
type Registry struct {
	mu         sync.RWMutex
	models     map[string]map[string]*Entry
	defaultsTo map[string]string // id -> version flagged DefaultVersion
	defaultID  string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		models:     map[string]map[string]*Entry{},
		defaultsTo: map[string]string{},
	}
}

// Register validates and indexes a spec. Invalid versions, duplicate
// (id, version) pairs and conflicting default flags are rejected here, so
// every entry a lookup can return is servable.
func (r *Registry) Register(spec model.Spec) error {
	if spec.ID == "" {
		return ErrInvalidSpec("empty model id")
	}
	if spec.Version == "" || spec.Version == Latest {
		return ErrInvalidSpec("model " + spec.ID + ": missing version")
	}
	ver, err := semver.NewVersion(spec.Version)
	if err != nil {
		return ErrInvalidSpec("model " + spec.ID + ": version " + spec.Version + " is not semver")
	}
	if spec.New == nil {
		return ErrInvalidSpec("model " + spec.Key() + ": nil constructor")
	}
	probe := spec.New()
	if probe == nil {
		return ErrInvalidSpec("model " + spec.Key() + ": constructor returned nil")
	}

	e := &Entry{Spec: spec, ver: ver}
	_, e.HasLoad = probe.(model.Loader)
	_, e.HasUnload = probe.(model.Unloader)
	_, e.HasPre = probe.(model.Preprocessor)
	_, e.HasPost = probe.(model.Postprocessor)

	r.mu.Lock()
	defer r.mu.Unlock()
	versions := r.models[spec.ID]
	if versions == nil {
		versions = map[string]*Entry{}
		r.models[spec.ID] = versions
	}
	// A duplicate (id, version) replaces the prior spec. Replacing a loaded
	// entry discards the record of its live instance; unload first.
	if prev, dup := versions[spec.Version]; dup && prev.IsLoaded() {
		log.Warn().
			Str("model", spec.ID).
			Str("version", spec.Version).
			Msg("registry: replacing a loaded spec, live instance dropped")
	}
	if spec.DefaultVersion {
		if prev, ok := r.defaultsTo[spec.ID]; ok && prev != spec.Version {
			return ErrInvalidSpec("model " + spec.ID + ": default version already set to " + prev)
		}
		r.defaultsTo[spec.ID] = spec.Version
	}
	if spec.Default {
		if r.defaultID != "" && r.defaultID != spec.ID {
			return ErrInvalidSpec("default model already set to " + r.defaultID)
		}
		r.defaultID = spec.ID
	}
	versions[spec.Version] = e
	return nil
}

// Get resolves an entry. An empty or "latest" version picks the model's
// default version when one is flagged, otherwise its highest semver.
func (r *Registry) Get(id, version string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions, ok := r.models[id]
	if !ok {
		return nil, ErrNotFound(id, "")
	}
	if version == "" || version == Latest {
		if def, ok := r.defaultsTo[id]; ok {
			return versions[def], nil
		}
		return r.highestLocked(versions), nil
	}
	e, ok := versions[version]
	if !ok {
		return nil, ErrNotFound(id, version)
	}
	return e, nil
}

// GetDefault resolves the process-wide default model at its default version.
func (r *Registry) GetDefault() (*Entry, error) {
	r.mu.RLock()
	id := r.defaultID
	r.mu.RUnlock()
	if id == "" {
		return nil, ErrNotFound("", "")
	}
	return r.Get(id, "")
}

// DefaultModelID returns the id flagged as process default, or "".
func (r *Registry) DefaultModelID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

// Versions lists a model's versions, highest first.
func (r *Registry) Versions(id string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions, ok := r.models[id]
	if !ok {
		return nil, ErrNotFound(id, "")
	}
	entries := sortedLocked(versions)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Spec.Version
	}
	return out, nil
}

// All lists every entry, ids ascending, versions highest first.
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*Entry
	for _, id := range ids {
		out = append(out, sortedLocked(r.models[id])...)
	}
	return out
}

// AllForModel lists one model's entries, highest version first.
func (r *Registry) AllForModel(id string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions, ok := r.models[id]
	if !ok {
		return nil
	}
	return sortedLocked(versions)
}

// IsLoaded reports whether the resolved entry is loaded. Unknown models
// report false.
func (r *Registry) IsLoaded(id, version string) bool {
	e, err := r.Get(id, version)
	if err != nil {
		return false
	}
	return e.IsLoaded()
}

func (r *Registry) highestLocked(versions map[string]*Entry) *Entry {
	var best *Entry
	for _, e := range versions {
		if best == nil || e.ver.GreaterThan(best.ver) {
			best = e
		}
	}
	return best
}

func sortedLocked(versions map[string]*Entry) []*Entry {
	out := make([]*Entry, 0, len(versions))
	for _, e := range versions {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ver.GreaterThan(out[j].ver) })
	return out
}
