// Package cache implements a content-addressed, size-bounded store for model
// weight files. Entries are keyed by source identity (an s3 URI or a URL);
// when the store outgrows its limit the least recently used entries go first.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"thalamusd/internal/common/fsutil"
)

// evictTarget is the fraction of the size limit a sweep drives usage down to,
// so consecutive puts do not each pay an eviction pass.
const evictTarget = 0.8

const tmpSuffix = ".tmp"

// Stats is a point-in-time view of cache usage and lookup counters.
type Stats struct {
	Hits         int64
	Misses       int64
	HitRate      float64
	CurrentBytes int64
	MaxBytes     int64
	Files        int
	EvictedFiles int64
	EvictedBytes int64
}

// Cache is safe for concurrent use. Every operation, including the producer
// run inside Put, serializes on one mutex; producers write to a temp sibling
// that is renamed into place, so readers never observe partial files.
type Cache struct {
	dir string
	max int64

	mu      sync.Mutex
	hits    int64
	misses  int64
	evicted int64
	evBytes int64
}

// New opens (creating if needed) a cache rooted at dir with a size limit of
// maxGB gibibytes.
func New(dir string, maxGB float64) (*Cache, error) {
	return newWithMax(dir, int64(maxGB*float64(1<<30)))
}

func newWithMax(dir string, maxBytes int64) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty cache dir")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("cache size limit must be positive")
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, max: maxBytes}, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string { return c.dir }

// Get returns the path of key's entry if present, refreshing its recency.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.entryPath(key)
	if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
		c.hits++
		hitsTotal.Inc()
		_ = fsutil.Touch(p, time.Now())
		return p, true
	}
	c.misses++
	missesTotal.Inc()
	return "", false
}

// Contains reports whether key has a finalized entry. Unlike Get it neither
// counts toward the hit/miss statistics nor refreshes recency.
func (c *Cache) Contains(key string) bool {
	st, err := os.Stat(c.entryPath(key))
	return err == nil && st.Mode().IsRegular()
}

// Put returns key's entry, materializing it first if absent. The producer
// receives a temp path to write to; on success the file is renamed into
// place, on failure the temp file is removed and the error is returned to
// the caller as-is. Eviction runs before the producer so the producer's
// own output is never an eviction candidate.
func (c *Cache) Put(key string, produce func(tmpPath string) error) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.entryPath(key)
	if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
		c.hits++
		hitsTotal.Inc()
		_ = fsutil.Touch(p, time.Now())
		return p, nil
	}
	c.misses++
	missesTotal.Inc()

	c.evictLocked()

	tmp := p + tmpSuffix
	if err := produce(tmp); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize %s: %w", filepath.Base(p), err)
	}
	return p, nil
}

// Clear removes every finalized and temp entry at the cache root and resets
// the hit/miss counters. Subdirectories (the hub snapshot tree) are kept.
func (c *Cache) Clear() (bytesFreed int64, filesDeleted int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	des, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, 0
	}
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, de.Name())); err != nil {
			continue
		}
		bytesFreed += info.Size()
		filesDeleted++
	}
	c.hits, c.misses = 0, 0
	return bytesFreed, filesDeleted
}

// Stats reports usage by walking the cache root, so it reflects files however
// they got there.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, total := c.scanLocked()
	s := Stats{
		Hits:         c.hits,
		Misses:       c.misses,
		CurrentBytes: total,
		MaxBytes:     c.max,
		Files:        len(entries),
		EvictedFiles: c.evicted,
		EvictedBytes: c.evBytes,
	}
	if lookups := c.hits + c.misses; lookups > 0 {
		s.HitRate = float64(c.hits) / float64(lookups)
	}
	return s
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, entryName(key))
}

type entry struct {
	path  string
	size  int64
	mtime time.Time
}

// scanLocked lists finalized entries at the cache root. Temp files and
// subdirectories are invisible to sizing and eviction.
func (c *Cache) scanLocked() ([]entry, int64) {
	des, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, 0
	}
	var entries []entry
	var total int64
	for _, de := range des {
		if de.IsDir() || strings.HasSuffix(de.Name(), tmpSuffix) {
			continue
		}
		info, err := de.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, entry{filepath.Join(c.dir, de.Name()), info.Size(), info.ModTime()})
		total += info.Size()
	}
	return entries, total
}

// evictLocked removes least recently used entries until usage drops to the
// sweep target. Individual removal failures are skipped so one stuck file
// cannot wedge every subsequent put.
func (c *Cache) evictLocked() {
	entries, total := c.scanLocked()
	if total <= c.max {
		return
	}
	target := int64(float64(c.max) * evictTarget)
	sort.Slice(entries, func(i, j int) bool { return entries[i].mtime.Before(entries[j].mtime) })
	for _, e := range entries {
		if total <= target {
			break
		}
		if err := os.Remove(e.path); err != nil {
			continue
		}
		total -= e.size
		c.evicted++
		c.evBytes += e.size
		evictedFilesTotal.Inc()
		evictedBytesTotal.Add(float64(e.size))
		log.Info().
			Str("file", filepath.Base(e.path)).
			Str("size", humanize.Bytes(uint64(e.size))).
			Msg("cache: evicted")
	}
}

// entryName derives the on-disk name for a key: a 16-hex-char prefix of the
// key's sha256 plus a sanitized basename for debuggability. Keys without a
// usable basename fall back to the hash alone.
func entryName(key string) string {
	sum := sha256.Sum256([]byte(key))
	h := hex.EncodeToString(sum[:8])
	base := sanitizeBase(key)
	if base == "" {
		return h
	}
	return h + "_" + base
}

func sanitizeBase(key string) string {
	s := key
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	base := path.Base(s)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	base = strings.Trim(base, "-.")
	if len(base) > 100 {
		base = base[:100]
	}
	return base
}
