package manifest

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/manifest.json":
			_, _ = fmt.Fprint(w, `{"mods": {}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewHTTPFetcher(5 * time.Second)

	data, err := f.Fetch(context.Background(), server.URL+"/manifest.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mods": {}}`, string(data))

	_, err = f.Fetch(context.Background(), server.URL+"/missing.json")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestFetch))
}

func TestHTTPFetcherHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(time.Second).Fetch(ctx, server.URL)
	assert.Error(t, err)
}

func TestSourceFetcherRoutesByScheme(t *testing.T) {
	var httpCalls, fileCalls []string
	f := &SourceFetcher{
		HTTP: FetcherFunc(func(_ context.Context, s string) ([]byte, error) {
			httpCalls = append(httpCalls, s)
			return nil, nil
		}),
		Files: FetcherFunc(func(_ context.Context, s string) ([]byte, error) {
			fileCalls = append(fileCalls, s)
			return nil, nil
		}),
	}

	for _, s := range []string{"https://a/m.json", "http://b/m.json", "/local/m.json", "file:///c/m.json"} {
		_, err := f.Fetch(context.Background(), s)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"https://a/m.json", "http://b/m.json"}, httpCalls)
	assert.Equal(t, []string{"/local/m.json", "file:///c/m.json"}, fileCalls)
}

func TestFileFetcher(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/modorg/extra.json", []byte(`{"mods": {}}`), 0644))

	f := &FileFetcher{Fs: fs}

	data, err := f.Fetch(context.Background(), "file:///etc/modorg/extra.json")
	require.NoError(t, err)
	assert.Equal(t, `{"mods": {}}`, string(data))

	_, err = f.Fetch(context.Background(), "/etc/modorg/missing.json")
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestFetch))
}

func TestCachingFetcher(t *testing.T) {
	calls := 0
	fail := false
	next := FetcherFunc(func(_ context.Context, s string) ([]byte, error) {
		calls++
		if fail {
			return nil, errors.New(errors.ErrManifestFetch, "down")
		}
		return []byte(s), nil
	})

	f := NewCachingFetcher(next, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data, err := f.Fetch(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))
	}
	assert.Equal(t, 1, calls)

	fail = true
	_, err := f.Fetch(ctx, "b")
	require.Error(t, err)
	_, err = f.Fetch(ctx, "b")
	require.Error(t, err)
	assert.Equal(t, 3, calls, "failures are not cached")

	f.Invalidate()
	fail = false
	_, err = f.Fetch(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestCachingFetcherSaveRestore(t *testing.T) {
	calls := 0
	next := FetcherFunc(func(_ context.Context, s string) ([]byte, error) {
		calls++
		return []byte("body of " + s), nil
	})
	ctx := context.Background()

	first := NewCachingFetcher(next, time.Minute)
	_, err := first.Fetch(ctx, "https://example.com/a.json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, first.Save(&buf))

	second := NewCachingFetcher(next, time.Minute)
	require.NoError(t, second.Restore(&buf))

	data, err := second.Fetch(ctx, "https://example.com/a.json")
	require.NoError(t, err)
	assert.Equal(t, "body of https://example.com/a.json", string(data))
	assert.Equal(t, 1, calls, "restored entry served from cache")
}

func TestCachingFetcherRestoreSkipsExpired(t *testing.T) {
	var buf bytes.Buffer
	short := NewCachingFetcher(FetcherFunc(func(context.Context, string) ([]byte, error) {
		return []byte("x"), nil
	}), time.Millisecond)
	_, err := short.Fetch(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, short.Save(&buf))

	time.Sleep(5 * time.Millisecond)

	restored := NewCachingFetcher(nil, time.Minute)
	require.NoError(t, restored.Restore(&buf))
	assert.Equal(t, "CachingFetcher(0 entries)", restored.String())
}

func TestCachingFetcherRestoreGarbage(t *testing.T) {
	f := NewCachingFetcher(nil, time.Minute)
	err := f.Restore(bytes.NewBufferString("not gob"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileIO))
}
