// Package fetch materializes weight artifacts from their configured sources
// into the local weight cache. Object-store and plain HTTP artifacts go
// through the content-addressed cache; hub snapshots keep their own layout
// under the cache root.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/s3blob"

	"thalamusd/internal/cache"
	"thalamusd/internal/config"
)

const (
	defaultTimeout = 5 * time.Minute
	defaultHubBase = "https://huggingface.co"
	copyBufSize    = 8 * 1024
)

// Options tune a Fetcher. The zero value is production-ready.
type Options struct {
	// Timeout bounds one artifact download end to end. Zero means 5m.
	Timeout time.Duration
	// HubBaseURL overrides the model hub endpoint (tests point it at a
	// local server).
	HubBaseURL string
	// HubToken authorizes downloads from gated hub repos.
	HubToken string
	// BucketURL rewrites the gocloud bucket URL opened for an object-store
	// source. Tests use it to substitute fileblob or memblob buckets.
	BucketURL func(src config.WeightSource) string
}

// Fetcher is safe for concurrent use.
type Fetcher struct {
	cache *cache.Cache
	opts  Options
	hc    *http.Client

	mu      sync.Mutex
	buckets map[string]*blob.Bucket
}

// New builds a Fetcher on top of the weight cache.
func New(c *cache.Cache, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HubBaseURL == "" {
		opts.HubBaseURL = defaultHubBase
	}
	opts.HubBaseURL = strings.TrimRight(opts.HubBaseURL, "/")

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	return &Fetcher{
		cache:   c,
		opts:    opts,
		hc:      rc.StandardClient(),
		buckets: map[string]*blob.Bucket{},
	}
}

// Fetch returns a local path for the artifact described by src, downloading
// it on first use. For hub snapshot sources the path is a directory; for
// everything else it is a file inside the cache.
func (f *Fetcher) Fetch(ctx context.Context, src config.WeightSource) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()
	switch src.Type {
	case config.SourceS3:
		return f.fetchBlob(ctx, src)
	case config.SourceHub:
		return f.fetchHub(ctx, src)
	case config.SourceHTTP:
		return f.fetchHTTP(ctx, src)
	}
	return "", fmt.Errorf("unhandled source type %q", src.Type)
}

// Close releases the shared bucket handles.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var first error
	for u, b := range f.buckets {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
		delete(f.buckets, u)
	}
	return first
}

func (f *Fetcher) fetchBlob(ctx context.Context, src config.WeightSource) (string, error) {
	key := src.CacheKey()
	b, err := f.bucket(ctx, src)
	if err != nil {
		return "", ErrFetch(key, err)
	}
	p, err := f.cache.Put(key, func(tmp string) error {
		start := time.Now()
		r, err := b.NewReader(ctx, src.Key, nil)
		if err != nil {
			return err
		}
		defer r.Close()
		if err := writeStream(tmp, r); err != nil {
			return err
		}
		logDownloaded(key, tmp, start)
		return nil
	})
	if err != nil {
		return "", ErrFetch(key, err)
	}
	return p, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, src config.WeightSource) (string, error) {
	key := src.CacheKey()
	p, err := f.cache.Put(key, func(tmp string) error {
		start := time.Now()
		if err := f.download(ctx, src.URL, tmp, ""); err != nil {
			return err
		}
		logDownloaded(key, tmp, start)
		return nil
	})
	if err != nil {
		return "", ErrFetch(key, err)
	}
	return p, nil
}

// bucket returns a shared handle for the source's bucket URL. gocloud
// handles are concurrency-safe, so one per URL serves all fetches.
func (f *Fetcher) bucket(ctx context.Context, src config.WeightSource) (*blob.Bucket, error) {
	u := f.bucketURL(src)
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.buckets[u]; ok {
		return b, nil
	}
	b, err := blob.OpenBucket(ctx, u)
	if err != nil {
		return nil, err
	}
	f.buckets[u] = b
	return b, nil
}

func (f *Fetcher) bucketURL(src config.WeightSource) string {
	if f.opts.BucketURL != nil {
		return f.opts.BucketURL(src)
	}
	u := "s3://" + src.Bucket
	if src.Region != "" {
		u += "?region=" + url.QueryEscape(src.Region)
	}
	return u
}

// download streams rawURL to path. A status >= 400 fails before anything is
// written.
func (f *Fetcher) download(ctx context.Context, rawURL, path, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return writeStream(path, resp.Body)
}

// writeStream copies r to path through a fixed 8 KiB buffer, so artifacts
// larger than memory stream straight to disk.
func writeStream(path string, r io.Reader) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := make([]byte, copyBufSize)
	if _, err := io.CopyBuffer(w, r, buf); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func logDownloaded(key, path string, start time.Time) {
	size := "unknown"
	if st, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(st.Size()))
	}
	log.Info().
		Str("source", key).
		Str("size", size).
		Dur("dur", time.Since(start)).
		Msg("fetch: downloaded")
}
