// Package device tracks the accelerator pool and hands devices out to
// models. The pool is fixed at construction; cpu is always present, always
// free and shared by any number of models.
package device

import (
	"sort"
	"strings"
	"sync"
)

// Device classes. The cpu device uses its class name as its id.
const (
	ClassGPU = "gpu"
	ClassCPU = "cpu"
)

// Auto lets the allocator pick: the most capable free accelerator, else cpu.
const Auto = "auto"

// Info describes one device in the pool.
type Info struct {
	ID       string
	Class    string
	MemoryMB int
}

// Status is Info plus the current allocation flag.
type Status struct {
	ID       string
	Class    string
	MemoryMB int
	InUse    bool
}

// Allocator is safe for concurrent use.
type Allocator struct {
	mu   sync.Mutex
	pool []Info
	busy map[string]bool
}

// New builds an allocator over the given accelerators. Duplicates and blank
// ids are dropped; a cpu device is always appended.
func New(devices []Info) *Allocator {
	a := &Allocator{busy: map[string]bool{}}
	seen := map[string]bool{}
	for _, d := range devices {
		if d.ID == "" || d.ID == ClassCPU || seen[d.ID] {
			continue
		}
		if d.Class == "" {
			d.Class = ClassGPU
		}
		seen[d.ID] = true
		a.pool = append(a.pool, d)
	}
	a.pool = append(a.pool, Info{ID: ClassCPU, Class: ClassCPU})
	return a
}

// Allocate binds a device matching the preference and returns its id.
// Preference is "auto" (or empty), "cpu", a class ("gpu", with "cuda" as an
// alias), or an explicit id such as "cuda:1". Only "auto" falls back to cpu;
// a class or explicit request fails when nothing suitable is free.
func (a *Allocator) Allocate(preference string) (string, error) {
	pref := strings.TrimSpace(preference)
	if pref == "" {
		pref = Auto
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	switch pref {
	case Auto:
		if id, ok := a.freeGPULocked(); ok {
			a.busy[id] = true
			return id, nil
		}
		return ClassCPU, nil
	case ClassCPU:
		return ClassCPU, nil
	case ClassGPU, "cuda":
		if id, ok := a.freeGPULocked(); ok {
			a.busy[id] = true
			return id, nil
		}
		return "", ErrUnavailable("no free gpu device")
	}
	for _, d := range a.pool {
		if d.ID == pref {
			if a.busy[pref] {
				return "", ErrUnavailable("device " + pref + " busy")
			}
			a.busy[pref] = true
			return pref, nil
		}
	}
	return "", ErrUnavailable("unknown device " + pref)
}

// Release frees a device. Releasing cpu, an already free device or an
// unknown id is a no-op, so double release is harmless.
func (a *Allocator) Release(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.busy, id)
}

// Snapshot reports the pool with in-use flags, accelerators first.
func (a *Allocator) Snapshot() []Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Status, 0, len(a.pool))
	for _, d := range a.pool {
		out = append(out, Status{ID: d.ID, Class: d.Class, MemoryMB: d.MemoryMB, InUse: a.busy[d.ID]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class == ClassGPU
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// freeGPULocked picks the free accelerator with the most memory; ties break
// toward the lowest id so allocation order is deterministic.
func (a *Allocator) freeGPULocked() (string, bool) {
	best := -1
	for i, d := range a.pool {
		if d.Class != ClassGPU || a.busy[d.ID] {
			continue
		}
		if best < 0 || d.MemoryMB > a.pool[best].MemoryMB ||
			(d.MemoryMB == a.pool[best].MemoryMB && d.ID < a.pool[best].ID) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return a.pool[best].ID, true
}
