package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"thalamusd/internal/common/fsutil"
	"thalamusd/internal/config"
)

// hubDirName is the subtree of the cache root holding hub snapshots. The
// layout mirrors the hub's own cache (models--org--repo/snapshots/rev/...),
// and the generic cache treats the whole subtree as opaque.
const hubDirName = "huggingface"

// fetchHub returns the local path of a hub file, or of a full snapshot
// directory when the source names no file. Present files are returned
// without network I/O.
func (f *Fetcher) fetchHub(ctx context.Context, src config.WeightSource) (string, error) {
	rev := src.Revision
	if rev == "" {
		rev = "main"
	}
	snapDir := filepath.Join(f.cache.Dir(), hubDirName,
		"models--"+strings.ReplaceAll(src.Repo, "/", "--"), "snapshots", rev)

	if src.Filename != "" {
		dst := filepath.Join(snapDir, filepath.FromSlash(src.Filename))
		if fsutil.PathExists(dst) {
			return dst, nil
		}
		if err := f.hubFile(ctx, src.Repo, rev, src.Filename, dst); err != nil {
			return "", ErrFetch(src.CacheKey(), err)
		}
		return dst, nil
	}

	files, err := f.hubTree(ctx, src.Repo, rev)
	if err != nil {
		return "", ErrFetch(src.CacheKey(), err)
	}
	for _, name := range files {
		dst := filepath.Join(snapDir, filepath.FromSlash(name))
		if fsutil.PathExists(dst) {
			continue
		}
		if err := f.hubFile(ctx, src.Repo, rev, name, dst); err != nil {
			return "", ErrFetch(src.CacheKey(), err)
		}
	}
	return snapDir, nil
}

// hubFile downloads one repo file into dst via the resolve endpoint,
// writing through a temp sibling so partial downloads never look complete.
func (f *Fetcher) hubFile(ctx context.Context, repo, rev, name, dst string) error {
	if err := fsutil.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	u := fmt.Sprintf("%s/%s/resolve/%s/%s", f.opts.HubBaseURL, repo, url.PathEscape(rev), name)
	start := time.Now()
	tmp := dst + ".part"
	if err := f.download(ctx, u, tmp, f.opts.HubToken); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	logDownloaded(repo+"/"+name, dst, start)
	return nil
}

type hubEntry struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// hubTree lists the file paths of a repo revision.
func (f *Fetcher) hubTree(ctx context.Context, repo, rev string) ([]string, error) {
	u := fmt.Sprintf("%s/api/models/%s/tree/%s?recursive=true", f.opts.HubBaseURL, repo, url.PathEscape(rev))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if f.opts.HubToken != "" {
		req.Header.Set("Authorization", "Bearer "+f.opts.HubToken)
	}
	resp, err := f.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("list %s@%s: %s", repo, rev, resp.Status)
	}
	var entries []hubEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type == "file" {
			files = append(files, e.Path)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("repo %s@%s has no files", repo, rev)
	}
	return files, nil
}
