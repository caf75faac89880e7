package manifest

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/afero"
)

// Fetcher retrieves the raw bytes of a manifest source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, source string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, source string) ([]byte, error) {
	return f(ctx, source)
}

// HTTPFetcher fetches manifests over http and https.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestFetch, "invalid manifest url %q", source)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestFetch, "failed to fetch %s", source)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf(errors.ErrManifestFetch, "fetching %s: unexpected status %s", source, resp.Status).
			WithDetail("status", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestFetch, "failed to read %s", source)
	}
	return data, nil
}

// FileFetcher reads manifests from a filesystem. Sources may be plain paths
// or file:// URLs.
type FileFetcher struct {
	Fs afero.Fs
}

func (f *FileFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := strings.TrimPrefix(source, "file://")
	data, err := afero.ReadFile(f.Fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestFetch, "failed to read %s", p)
	}
	return data, nil
}

// SourceFetcher dispatches on the source's scheme: http and https go to
// HTTP, everything else to Files.
type SourceFetcher struct {
	HTTP  Fetcher
	Files Fetcher
}

// NewSourceFetcher wires the default HTTP and file fetchers.
func NewSourceFetcher(fs afero.Fs, timeout time.Duration) *SourceFetcher {
	return &SourceFetcher{
		HTTP:  NewHTTPFetcher(timeout),
		Files: &FileFetcher{Fs: fs},
	}
}

func (f *SourceFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return f.HTTP.Fetch(ctx, source)
	}
	return f.Files.Fetch(ctx, source)
}

// CachingFetcher keeps successful fetches for a TTL so that repeated refreshes
// (the watch loop, several commands in one process) do not hit the network
// every time. Failures are never cached.
type CachingFetcher struct {
	next  Fetcher
	cache *cache.Cache
}

// NewCachingFetcher wraps next with a cache whose entries live for ttl.
func NewCachingFetcher(next Fetcher, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (f *CachingFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	logger := logging.GetLogger("manifest.cache")

	if cached, ok := f.cache.Get(source); ok {
		logger.Trace().Str("source", source).Msg("cache hit")
		return cached.([]byte), nil
	}

	data, err := f.next.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	f.cache.SetDefault(source, data)
	logger.Trace().Str("source", source).Int("bytes", len(data)).Msg("cached")
	return data, nil
}

// Invalidate drops every cached source.
func (f *CachingFetcher) Invalidate() {
	f.cache.Flush()
}

// String is used in log lines.
func (f *CachingFetcher) String() string {
	return fmt.Sprintf("CachingFetcher(%d entries)", f.cache.ItemCount())
}

type cachedSource struct {
	Data    []byte
	Expires int64
}

// Save writes the unexpired entries to w so a later process can Restore
// them.
func (f *CachingFetcher) Save(w io.Writer) error {
	entries := make(map[string]cachedSource)
	for source, item := range f.cache.Items() {
		data, ok := item.Object.([]byte)
		if !ok {
			continue
		}
		entries[source] = cachedSource{Data: data, Expires: item.Expiration}
	}
	if err := gob.NewEncoder(w).Encode(entries); err != nil {
		return errors.Wrap(err, errors.ErrFileIO, "failed to save manifest cache")
	}
	return nil
}

// Restore loads entries written by Save. Entries that expired in the
// meantime are dropped; the rest keep their original expiry.
func (f *CachingFetcher) Restore(r io.Reader) error {
	var entries map[string]cachedSource
	if err := gob.NewDecoder(r).Decode(&entries); err != nil {
		return errors.Wrap(err, errors.ErrFileIO, "failed to read manifest cache")
	}

	now := time.Now().UnixNano()
	for source, e := range entries {
		ttl := cache.NoExpiration
		if e.Expires > 0 {
			if e.Expires <= now {
				continue
			}
			ttl = time.Duration(e.Expires - now)
		}
		f.cache.Set(source, e.Data, ttl)
	}
	return nil
}
