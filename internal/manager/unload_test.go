package manager

import (
	"context"
	"errors"
	"testing"

	"thalamusd/internal/config"
	"thalamusd/internal/registry"
)

func TestUnloadSingleVersion(t *testing.T) {
	fm := &fakeModel{}
	reg := registry.New()
	if err := reg.Register(testSpec("clf", "1.0.0", fm)); err != nil {
		t.Fatalf("register: %v", err)
	}
	m := newTestManager(t, reg, config.Deploy{}, gpuPool())
	e, _ := reg.Get("clf", "")
	if err := m.EnsureLoaded(context.Background(), e); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	got, err := m.Unload(context.Background(), "clf", "1.0.0")
	if err != nil {
		t.Fatalf("unload: %v", err)
	}
	if len(got) != 1 || got[0] != "1.0.0" {
		t.Fatalf("unloaded = %v", got)
	}
	if _, unloads := fm.counts(); unloads != 1 {
		t.Fatalf("unload hook calls = %d", unloads)
	}
	if e.IsLoaded() {
		t.Fatalf("entry still loaded")
	}
	for _, d := range m.DeviceStatuses() {
		if d.InUse {
			t.Fatalf("device not released: %+v", d)
		}
	}
}

func TestUnloadAllVersions(t *testing.T) {
	v1 := &fakeModel{}
	v2 := &fakeModel{}
	reg := registry.New()
	if err := reg.Register(testSpec("clf", "1.0.0", v1)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(testSpec("clf", "2.0.0", v2)); err != nil {
		t.Fatalf("register: %v", err)
	}
	m := newTestManager(t, reg, config.Deploy{}, nil)
	for _, v := range []string{"1.0.0", "2.0.0"} {
		e, _ := reg.Get("clf", v)
		if err := m.EnsureLoaded(context.Background(), e); err != nil {
			t.Fatalf("ensure %s: %v", v, err)
		}
	}

	got, err := m.Unload(context.Background(), "clf", "")
	if err != nil {
		t.Fatalf("unload: %v", err)
	}
	if len(got) != 2 || got[0] != "2.0.0" || got[1] != "1.0.0" {
		t.Fatalf("unloaded = %v, want newest first", got)
	}
	if _, u := v1.counts(); u != 1 {
		t.Fatalf("v1 unload hooks = %d", u)
	}
	if _, u := v2.counts(); u != 1 {
		t.Fatalf("v2 unload hooks = %d", u)
	}
}

func TestUnloadIdempotent(t *testing.T) {
	fm := &fakeModel{}
	reg := registry.New()
	if err := reg.Register(testSpec("clf", "1.0.0", fm)); err != nil {
		t.Fatalf("register: %v", err)
	}
	m := newTestManager(t, reg, config.Deploy{}, nil)

	// never loaded: no versions reported, no error
	got, err := m.Unload(context.Background(), "clf", "")
	if err != nil {
		t.Fatalf("unload: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("unloaded = %v", got)
	}
	if _, u := fm.counts(); u != 0 {
		t.Fatalf("unload hook ran for an unloaded model")
	}
}

func TestUnloadUnknownModel(t *testing.T) {
	m := newTestManager(t, registry.New(), config.Deploy{}, nil)
	_, err := m.Unload(context.Background(), "ghost", "")
	if !registry.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	_, err = m.Unload(context.Background(), "ghost", "1.0.0")
	if !registry.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUnloadHookErrorAfterTeardown(t *testing.T) {
	boom := errors.New("driver wedged")
	fm := &fakeModel{unloadErr: boom}
	reg := registry.New()
	if err := reg.Register(testSpec("clf", "1.0.0", fm)); err != nil {
		t.Fatalf("register: %v", err)
	}
	m := newTestManager(t, reg, config.Deploy{}, gpuPool())
	e, _ := reg.Get("clf", "")
	if err := m.EnsureLoaded(context.Background(), e); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	_, err := m.Unload(context.Background(), "clf", "1.0.0")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	// the error surfaces but teardown still completed
	if e.IsLoaded() {
		t.Fatalf("entry still loaded after failing hook")
	}
	for _, d := range m.DeviceStatuses() {
		if d.InUse {
			t.Fatalf("device not released: %+v", d)
		}
	}
}

func TestUnloadThenReload(t *testing.T) {
	fm := &fakeModel{}
	reg := registry.New()
	if err := reg.Register(testSpec("clf", "1.0.0", fm)); err != nil {
		t.Fatalf("register: %v", err)
	}
	m := newTestManager(t, reg, config.Deploy{}, gpuPool())
	e, _ := reg.Get("clf", "")

	for i := 0; i < 2; i++ {
		if err := m.EnsureLoaded(context.Background(), e); err != nil {
			t.Fatalf("ensure %d: %v", i, err)
		}
		if _, err := m.Unload(context.Background(), "clf", ""); err != nil {
			t.Fatalf("unload %d: %v", i, err)
		}
	}
	loads, unloads := fm.counts()
	if loads != 2 || unloads != 2 {
		t.Fatalf("loads = %d unloads = %d", loads, unloads)
	}
}
