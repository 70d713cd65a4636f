// Package store keeps the currently loaded catalog snapshot.
package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"finitefield.org/catalog/internal/catalog/products"
)

const metricNamespace = "finitefield.org/catalog/store"

// ErrNotLoaded is returned when no snapshot has been loaded yet.
var ErrNotLoaded = errors.New("store: catalog not loaded")

// Loader is satisfied by *products.Loader.
type Loader interface {
	Load(ctx context.Context) ([]products.Product, error)
}

// Snapshot is an immutable view of one successful load.
type Snapshot struct {
	Version  string
	Source   string
	LoadedAt time.Time
	Products []products.Product
}

// Store serves the latest snapshot to concurrent readers and swaps it on reload.
type Store struct {
	loader Loader
	source string
	logger *zap.Logger
	now    func() time.Time
	meter  metric.Meter

	loads        metric.Int64Counter
	loadDuration metric.Float64Histogram

	reloadMu sync.Mutex
	current  atomic.Pointer[Snapshot]
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMeter overrides the meter used for load metrics.
func WithMeter(m metric.Meter) Option {
	return func(s *Store) {
		if m != nil {
			s.meter = m
		}
	}
}

// WithClock injects a clock (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty store backed by loader. source names the data origin in snapshots.
func New(loader Loader, source string, opts ...Option) *Store {
	s := &Store{
		loader: loader,
		source: source,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.meter == nil {
		s.meter = otel.GetMeterProvider().Meter(metricNamespace)
	}

	var err error
	s.loads, err = s.meter.Int64Counter(
		"catalog.loads",
		metric.WithDescription("Count of catalog load attempts by result"),
	)
	if err != nil {
		s.logger.Warn("store: unable to register load counter", zap.Error(err))
	}
	s.loadDuration, err = s.meter.Float64Histogram(
		"catalog.load.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds of catalog loads"),
	)
	if err != nil {
		s.logger.Warn("store: unable to register load latency metric", zap.Error(err))
	}
	return s
}

// NewStatic returns a store pre-populated with items and no loader.
func NewStatic(items []products.Product) *Store {
	s := New(nil, "static")
	s.current.Store(s.snapshot(items))
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() (*Snapshot, bool) {
	snap := s.current.Load()
	return snap, snap != nil
}

// Reload fetches the catalog again. On failure the error is logged, returned,
// and the previous snapshot stays active.
func (s *Store) Reload(ctx context.Context) error {
	if s.loader == nil {
		return nil
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := s.now()
	items, err := s.loader.Load(ctx)
	s.record(ctx, start, err)
	if err != nil {
		fields := []zap.Field{zap.String("source", s.source), zap.Error(err)}
		if prev := s.current.Load(); prev != nil {
			fields = append(fields, zap.String("kept_version", prev.Version))
		}
		s.logger.Error("catalog load failed", fields...)
		return err
	}
	snap := s.snapshot(items)
	s.current.Store(snap)
	s.logger.Info("catalog loaded",
		zap.String("source", s.source),
		zap.String("version", snap.Version),
		zap.Int("products", len(items)),
	)
	return nil
}

func (s *Store) record(ctx context.Context, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	attrs := metric.WithAttributes(attribute.String("result", result))
	if s.loads != nil {
		s.loads.Add(ctx, 1, attrs)
	}
	if s.loadDuration != nil {
		s.loadDuration.Record(ctx, float64(s.now().Sub(start))/float64(time.Millisecond), attrs)
	}
}

func (s *Store) snapshot(items []products.Product) *Snapshot {
	now := s.now().UTC()
	return &Snapshot{
		Version:  ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Source:   s.source,
		LoadedAt: now,
		Products: items,
	}
}
