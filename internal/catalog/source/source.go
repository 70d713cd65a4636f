// Package source provides the places a catalog CSV can be read from.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/option"

	"finitefield.org/catalog/internal/catalog/products"
)

// ErrEmptyReference is returned when no source reference was configured.
var ErrEmptyReference = errors.New("source: reference is required")

// Options carry dependencies used by the remote sources.
type Options struct {
	HTTPClient *http.Client
	GCSOptions []option.ClientOption
}

// Parse resolves a reference into a Source:
//
//	http(s)://host/path.csv  -> HTTP
//	gs://bucket/object.csv   -> GCS
//	anything else            -> local file path
func Parse(ctx context.Context, ref string, opts Options) (products.Source, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyReference
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// single-letter schemes are Windows drive letters
		return NewFile(ref), nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTP(ref, opts.HTTPClient), nil
	case "gs":
		object := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || object == "" {
			return nil, fmt.Errorf("source: invalid gcs reference %q", ref)
		}
		return NewGCS(ctx, u.Host, object, opts.GCSOptions...)
	case "file":
		return NewFile(u.Path), nil
	default:
		return nil, fmt.Errorf("source: unsupported scheme %q", u.Scheme)
	}
}
