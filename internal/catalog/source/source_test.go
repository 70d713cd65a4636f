package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/require"

	"finitefield.org/catalog/internal/catalog/products"
)

const doc = "Deutscher Artikelname,Russischer Artikelname,Gruppe\nQuark,Творог,Milchprodukte\n"

func readAll(t *testing.T, src products.Source) string {
	t.Helper()
	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestParseSelectsImplementation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	src, err := Parse(ctx, "products.csv", Options{})
	require.NoError(t, err)
	require.IsType(t, &File{}, src)

	src, err = Parse(ctx, "file:///srv/data/products.csv", Options{})
	require.NoError(t, err)
	require.Equal(t, "/srv/data/products.csv", src.Name())

	src, err = Parse(ctx, "https://cdn.example.com/products.csv", Options{})
	require.NoError(t, err)
	require.IsType(t, &HTTP{}, src)

	_, err = Parse(ctx, "  ", Options{})
	require.ErrorIs(t, err, ErrEmptyReference)

	_, err = Parse(ctx, "ftp://example.com/p.csv", Options{})
	require.Error(t, err)

	_, err = Parse(ctx, "gs://bucket-only", Options{})
	require.Error(t, err)
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	src := NewFile(path)
	require.Equal(t, path, src.Path())
	require.Equal(t, doc, readAll(t, src))

	_, err := NewFile(filepath.Join(dir, "missing.csv")).Open(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPSource(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.WriteString(w, doc)
	}))
	t.Cleanup(ts.Close)

	require.Equal(t, doc, readAll(t, NewHTTP(ts.URL+"/products.csv", ts.Client())))

	_, err := NewHTTP(ts.URL+"/missing.csv", ts.Client()).Open(context.Background())
	var fetchErr *products.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestHTTPSourceThroughLoader(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	_, err := products.NewLoader(NewHTTP(ts.URL, ts.Client())).Load(context.Background())
	var loadErr *products.LoadError
	require.True(t, errors.As(err, &loadErr))
	var fetchErr *products.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
}

type fakeOpener struct {
	objects map[string]string
}

func (f fakeOpener) NewReader(_ context.Context, bucket, object string) (io.ReadCloser, error) {
	body, ok := f.objects[bucket+"/"+object]
	if !ok {
		return nil, storage.ErrObjectNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestGCSSource(t *testing.T) {
	t.Parallel()

	opener := fakeOpener{objects: map[string]string{"catalog/products.csv": doc}}

	src := newGCSWithOpener("catalog", "products.csv", opener)
	require.Equal(t, "gs://catalog/products.csv", src.Name())
	require.Equal(t, doc, readAll(t, src))
	require.NoError(t, src.Close())

	_, err := newGCSWithOpener("catalog", "gone.csv", opener).Open(context.Background())
	var fetchErr *products.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	require.ErrorIs(t, err, storage.ErrObjectNotExist)
}
