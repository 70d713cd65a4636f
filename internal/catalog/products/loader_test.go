package products

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	body string
	err  error
	read error
}

func (s stubSource) Name() string { return "stub.csv" }

func (s stubSource) Open(context.Context) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.read != nil {
		return io.NopCloser(io.MultiReader(strings.NewReader(s.body), errReader{s.read})), nil
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestLoaderLoadsProducts(t *testing.T) {
	t.Parallel()

	loader := NewLoader(stubSource{body: sampleCSV}, WithTimeout(time.Second))
	items, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "stub.csv", loader.Source().Name())
}

func TestLoaderWrapsFetchFailures(t *testing.T) {
	t.Parallel()

	for name, src := range map[string]stubSource{
		"open": {err: errors.New("connection refused")},
		"read": {body: "Gruppe\n", read: errors.New("connection reset")},
	} {
		src := src
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLoader(src).Load(context.Background())
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			require.Equal(t, "stub.csv", loadErr.Source)
			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr))
		})
	}
}

func TestLoaderKeepsSourceFetchError(t *testing.T) {
	t.Parallel()

	src := stubSource{err: &FetchError{Source: "https://example.com/p.csv", StatusCode: 404}}
	_, err := NewLoader(src).Load(context.Background())
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, 404, fetchErr.StatusCode)
	require.Contains(t, err.Error(), "unexpected status 404")
}

func TestLoaderWrapsParseFailures(t *testing.T) {
	t.Parallel()

	_, err := NewLoader(stubSource{body: ""}).Load(context.Background())
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	var fetchErr *FetchError
	require.False(t, errors.As(err, &fetchErr))
}
