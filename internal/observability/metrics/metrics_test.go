package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveBeforeInitIsNoop(t *testing.T) {
	if calculationTotal != nil {
		t.Skip("metrics already registered in this process")
	}
	ObserveCalculation(ResultSuccess, time.Millisecond)
	IncPortStatus("ok")
	ObserveExport("pdf", ResultSuccess, time.Millisecond)
	IncCatalogReload(ResultError)
	SetCatalogEntries("processors", 3)
}

func TestCountersAfterInit(t *testing.T) {
	Init(nil, nil)

	before := testutil.ToFloat64(calculationTotal.WithLabelValues(ResultInvalid))
	ObserveCalculation(ResultInvalid, 2*time.Millisecond)
	if got := testutil.ToFloat64(calculationTotal.WithLabelValues(ResultInvalid)); got != before+1 {
		t.Fatalf("expected calculation counter %v, got %v", before+1, got)
	}

	before = testutil.ToFloat64(exportTotal.WithLabelValues("unknown", ResultSuccess))
	ObserveExport("", "", time.Millisecond)
	if got := testutil.ToFloat64(exportTotal.WithLabelValues("unknown", ResultSuccess)); got != before+1 {
		t.Fatalf("expected export counter %v, got %v", before+1, got)
	}

	SetCatalogEntries("cards", 12)
	if got := testutil.ToFloat64(catalogEntries.WithLabelValues("cards")); got != 12 {
		t.Fatalf("expected 12 cards, got %v", got)
	}

	Init(nil, nil)
}

func TestStoredRowsCollectorWithoutDB(t *testing.T) {
	c := newStoredRowsCollector(nil, nil)
	if got := testutil.CollectAndCount(c); got != 0 {
		t.Fatalf("expected no samples without db, got %d", got)
	}
}
