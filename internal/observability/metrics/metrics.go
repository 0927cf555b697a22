package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "ledwall_"

	resultSuccess = "success"
	resultError   = "error"
	resultInvalid = "invalid"
)

var (
	registerOnce sync.Once

	calculationTotal   *prometheus.CounterVec
	calculationLatency *prometheus.HistogramVec
	portStatusTotal    *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	catalogReloadTotal *prometheus.CounterVec
	catalogEntries     *prometheus.GaugeVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		calculationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculation_total",
				Help: "Total sizing calculations by result",
			},
			[]string{"result"},
		)
		calculationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "calculation_latency_seconds",
				Help:    "Sizing calculation latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"result"},
		)
		portStatusTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "port_status_total",
				Help: "Processor port findings by status",
			},
			[]string{"status"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)
		catalogReloadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "catalog_reload_total",
				Help: "Total catalog reloads by result",
			},
			[]string{"result"},
		)
		catalogEntries = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "catalog_entries",
				Help: "Entries in the active catalog snapshot by table",
			},
			[]string{"table"},
		)
		prometheus.MustRegister(
			calculationTotal,
			calculationLatency,
			portStatusTotal,
			exportTotal,
			exportLatency,
			catalogReloadTotal,
			catalogEntries,
		)
		if db != nil {
			prometheus.MustRegister(newStoredRowsCollector(db, logger))
		}
	})
}

// ObserveCalculation records calculation latency and result.
func ObserveCalculation(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if calculationTotal != nil {
		calculationTotal.WithLabelValues(result).Inc()
	}
	if calculationLatency != nil {
		calculationLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncPortStatus counts a processor port finding.
func IncPortStatus(status string) {
	if status == "" {
		status = "unknown"
	}
	if portStatusTotal != nil {
		portStatusTotal.WithLabelValues(status).Inc()
	}
}

// ObserveExport records report export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncCatalogReload counts a catalog reload attempt.
func IncCatalogReload(result string) {
	if result == "" {
		result = resultSuccess
	}
	if catalogReloadTotal != nil {
		catalogReloadTotal.WithLabelValues(result).Inc()
	}
}

// SetCatalogEntries publishes the size of one catalog table.
func SetCatalogEntries(table string, count int) {
	if catalogEntries != nil {
		catalogEntries.WithLabelValues(table).Set(float64(count))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultInvalid = resultInvalid
)
