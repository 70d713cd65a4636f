package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"finitefield.org/catalog/internal/catalog/products"
)

// objectOpener is the subset of the storage client the GCS source needs.
type objectOpener interface {
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

type storageOpener struct {
	client *storage.Client
}

func (s storageOpener) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GCS reads the CSV from a Cloud Storage object.
type GCS struct {
	bucket string
	object string
	opener objectOpener
	closer io.Closer
}

// NewGCS constructs a storage client and returns a source for bucket/object.
func NewGCS(ctx context.Context, bucket, object string, opts ...option.ClientOption) (*GCS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("source: create storage client: %w", err)
	}
	return &GCS{
		bucket: bucket,
		object: object,
		opener: storageOpener{client: client},
		closer: client,
	}, nil
}

func newGCSWithOpener(bucket, object string, opener objectOpener) *GCS {
	return &GCS{bucket: bucket, object: object, opener: opener}
}

// Name implements products.Source.
func (g *GCS) Name() string { return "gs://" + g.bucket + "/" + g.object }

// Open implements products.Source. A missing object fails with status 404.
func (g *GCS) Open(ctx context.Context) (io.ReadCloser, error) {
	rc, err := g.opener.NewReader(ctx, g.bucket, g.object)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, &products.FetchError{Source: g.Name(), StatusCode: http.StatusNotFound, Err: err}
		}
		return nil, err
	}
	return rc, nil
}

// Close releases the underlying storage client.
func (g *GCS) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}
