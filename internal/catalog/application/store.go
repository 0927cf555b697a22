package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	catalog "ledwall-configurator/internal/catalog/domain"
	"ledwall-configurator/internal/observability/metrics"
)

// Source produces a fresh catalog snapshot.
type Source interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*catalog.Catalog, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context) (*catalog.Catalog, error) {
	return f(ctx)
}

// DefaultSource serves the built-in catalog.
var DefaultSource Source = SourceFunc(func(context.Context) (*catalog.Catalog, error) {
	return catalog.Default(), nil
})

// Store holds the active catalog snapshot. Readers never block; a reload
// swaps the pointer only after the new snapshot validated.
type Store struct {
	source  Source
	logger  *log.Logger
	current atomic.Pointer[catalog.Catalog]
	loaded  atomic.Int64

	reloadMu sync.Mutex
}

// NewStore loads the first snapshot from source.
func NewStore(ctx context.Context, source Source, logger *log.Logger) (*Store, error) {
	if source == nil {
		return nil, errors.New("catalog store: nil source")
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{source: source, logger: logger}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps an already built catalog.
func NewStaticStore(c *catalog.Catalog) *Store {
	if c == nil {
		c = catalog.Default()
	}
	s := &Store{
		source: SourceFunc(func(context.Context) (*catalog.Catalog, error) { return c, nil }),
		logger: log.Default(),
	}
	s.current.Store(c)
	s.loaded.Store(time.Now().UTC().UnixNano())
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *catalog.Catalog {
	if s == nil {
		return nil
	}
	return s.current.Load()
}

// LoadedAt reports when the active snapshot was installed.
func (s *Store) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return time.Unix(0, s.loaded.Load()).UTC()
}

// Reload fetches a new snapshot. On failure the previous one stays active.
func (s *Store) Reload(ctx context.Context) error {
	if s == nil {
		return errors.New("catalog store: nil store")
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	next, err := s.source.Load(ctx)
	if err == nil && next == nil {
		err = catalog.ErrNilCatalog
	}
	if err != nil {
		metrics.IncCatalogReload(metrics.ResultError)
		s.logger.Printf("catalog reload failed: %v", err)
		return err
	}
	s.current.Store(next)
	s.loaded.Store(time.Now().UTC().UnixNano())
	metrics.IncCatalogReload(metrics.ResultSuccess)

	t := next.Tables()
	metrics.SetCatalogEntries("processors", len(t.Processors))
	metrics.SetCatalogEntries("receiving_cards", len(t.Cards))
	metrics.SetCatalogEntries("cabinets", len(t.Cabinets))
	metrics.SetCatalogEntries("power_buckets", len(t.PowerBuckets))
	s.logger.Printf("catalog loaded: processors=%d cards=%d cabinets=%d", len(t.Processors), len(t.Cards), len(t.Cabinets))
	return nil
}

// Watch reloads the catalog every interval until ctx is done. Failed reloads
// are logged and retried on the next tick.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	if s == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Reload(ctx)
		}
	}
}
