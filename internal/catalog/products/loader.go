package products

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "finitefield.org/catalog/products"

// Source yields the raw CSV document.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Open starts reading the document. The caller closes the reader.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Loader fetches the CSV document from a Source and parses it into products.
type Loader struct {
	source  Source
	timeout time.Duration
	tracer  trace.Tracer
}

// LoaderOption customises Loader behaviour.
type LoaderOption func(*Loader)

// WithTimeout bounds a single Load call. Zero leaves the fetch unbounded.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithTracer overrides the tracer used for load spans.
func WithTracer(t trace.Tracer) LoaderOption {
	return func(l *Loader) {
		if t != nil {
			l.tracer = t
		}
	}
}

// NewLoader constructs a loader for the given source.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source: source,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Source returns the configured source.
func (l *Loader) Source() Source { return l.source }

// Load retrieves and parses the document. Failures are returned as *LoadError.
// There are no retries.
func (l *Loader) Load(ctx context.Context) ([]Product, error) {
	name := l.source.Name()
	ctx, span := l.tracer.Start(ctx, "products.Load", trace.WithAttributes(attribute.String("catalog.source", name)))
	defer span.End()

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	raw, err := l.fetch(ctx)
	if err != nil {
		return nil, l.fail(span, err)
	}
	span.SetAttributes(attribute.Int("catalog.bytes", len(raw)))

	items, err := ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, l.fail(span, err)
	}
	span.SetAttributes(attribute.Int("catalog.products", len(items)))
	return items, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	name := l.source.Name()
	rc, err := l.source.Open(ctx)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		return nil, &FetchError{Source: name, Err: err}
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, &FetchError{Source: name, Err: err}
	}
	return raw, nil
}

func (l *Loader) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return &LoadError{Source: l.source.Name(), Err: err}
}
