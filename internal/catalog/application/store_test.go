package application

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	catalog "ledwall-configurator/internal/catalog/domain"
)

type stubSource struct {
	mu       sync.Mutex
	catalogs []*catalog.Catalog
	errs     []error
	calls    int
}

func (s *stubSource) Load(context.Context) (*catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.catalogs) {
		return s.catalogs[i], nil
	}
	return s.catalogs[len(s.catalogs)-1], nil
}

func customCatalog(t *testing.T, ports int) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.DefaultTables().Overlay(catalog.Overlay{
		Processors: []catalog.Processor{{ID: "custom", Label: "Custom", Family: catalog.FamilySync, Ports: ports}},
	}))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func TestStoreReloadSwapsSnapshot(t *testing.T) {
	first, second := customCatalog(t, 4), customCatalog(t, 8)
	src := &stubSource{catalogs: []*catalog.Catalog{first, second}}
	store, err := NewStore(context.Background(), src, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if store.Current() != first {
		t.Fatalf("expected first snapshot")
	}
	held := store.Current()

	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if store.Current() != second {
		t.Fatalf("expected second snapshot")
	}
	if ports, _ := held.PortsFor("custom"); ports != 4 {
		t.Fatalf("held snapshot must stay unchanged, got %d ports", ports)
	}
}

func TestStoreReloadFailureKeepsPrevious(t *testing.T) {
	var logs bytes.Buffer
	first := customCatalog(t, 4)
	src := &stubSource{
		catalogs: []*catalog.Catalog{first},
		errs:     []error{nil, errors.New("disk gone")},
	}
	store, err := NewStore(context.Background(), src, log.New(&logs, "", 0))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Reload(context.Background()); err == nil {
		t.Fatalf("expected reload error")
	}
	if store.Current() != first {
		t.Fatalf("expected previous snapshot after failed reload")
	}
	if !strings.Contains(logs.String(), "catalog reload failed") {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
}

func TestNewStoreFailsWithoutSnapshot(t *testing.T) {
	src := &stubSource{errs: []error{errors.New("boom")}, catalogs: []*catalog.Catalog{nil}}
	if _, err := NewStore(context.Background(), src, nil); err == nil {
		t.Fatalf("expected error when first load fails")
	}
	if _, err := NewStore(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

func TestStoreNilSnapshotRejected(t *testing.T) {
	src := SourceFunc(func(context.Context) (*catalog.Catalog, error) { return nil, nil })
	_, err := NewStore(context.Background(), src, log.New(&bytes.Buffer{}, "", 0))
	if !errors.Is(err, catalog.ErrNilCatalog) {
		t.Fatalf("expected ErrNilCatalog, got %v", err)
	}
}

func TestStaticStoreAndConcurrentReads(t *testing.T) {
	store := NewStaticStore(nil)
	if store.Current() == nil || store.LoadedAt().IsZero() {
		t.Fatalf("expected default snapshot")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := store.Current().PortsFor("vx1000-pro"); err != nil {
					t.Errorf("lookup: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		if err := store.Reload(context.Background()); err != nil {
			t.Fatalf("reload: %v", err)
		}
	}
	wg.Wait()
}

func TestStoreWatchStopsOnCancel(t *testing.T) {
	src := &stubSource{catalogs: []*catalog.Catalog{catalog.Default()}}
	store, err := NewStore(context.Background(), src, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("watch did not stop")
	}
	src.mu.Lock()
	calls := src.calls
	src.mu.Unlock()
	if calls < 2 {
		t.Fatalf("expected periodic reloads, got %d loads", calls)
	}
}
