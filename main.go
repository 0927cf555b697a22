package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apihttp "ledwall-configurator/internal/api/http"
	"ledwall-configurator/internal/audit"
	"ledwall-configurator/internal/auth"
	catalogapp "ledwall-configurator/internal/catalog/application"
	catalogfile "ledwall-configurator/internal/catalog/infrastructure/file"
	catalogrepo "ledwall-configurator/internal/catalog/infrastructure/postgres"
	cataloghttp "ledwall-configurator/internal/catalog/interfaces/http"
	"ledwall-configurator/internal/observability/metrics"
	sizingapp "ledwall-configurator/internal/sizing/application"
	sizinginterfaces "ledwall-configurator/internal/sizing/interfaces"
	sizinghttp "ledwall-configurator/internal/sizing/interfaces/http"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	}

	metrics.Init(db, logger)

	store, err := catalogapp.NewStore(ctx, catalogSource(cfg, db, logger), logger)
	if err != nil {
		logger.Fatalf("catalog load error: %v", err)
	}
	if cfg.CatalogReloadInterval > 0 {
		go store.Watch(ctx, cfg.CatalogReloadInterval)
	}

	opts := append(sizinginterfaces.RendererOptions(), sizingapp.WithLogger(logger))
	sizingService, err := sizingapp.NewService(store, opts...)
	if err != nil {
		logger.Fatalf("sizing service error: %v", err)
	}

	var auditRepo *audit.Repository
	if db != nil {
		auditRepo = audit.NewRepository(db)
	}

	handler, err := newRouter(sizingService, store, auditRepo, cfg.JWTSecret, logger)
	if err != nil {
		logger.Fatalf("router error: %v", err)
	}
	if cfg.JWTSecret == "" {
		logger.Printf("AUTH_JWT_SECRET not set, auth disabled")
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Printf("http listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(err)
	}
	logger.Printf("http server stopped")
}

func newRouter(sizingService *sizingapp.Service, store *catalogapp.Store, auditRepo *audit.Repository, jwtSecret string, logger *log.Logger) (http.Handler, error) {
	var (
		auditLogger audit.Logger
		auditReader apihttp.AuditReader
	)
	if auditRepo != nil {
		auditLogger = auditRepo
		auditReader = auditRepo
	}
	sizingHandler, err := sizinghttp.NewHandler(sizingService, auditLogger)
	if err != nil {
		return nil, err
	}
	catalogHandler, err := cataloghttp.NewHandler(store, auditLogger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/sizing/", sizingHandler)
	mux.Handle("/api/v1/catalog", catalogHandler)
	mux.Handle("/api/v1/catalog/reload", catalogHandler)
	mux.Handle("/api/v1/audit", apihttp.NewAuditHandler(auditReader))
	mux.Handle("/api/v1/exports/audit.csv", apihttp.NewExportAuditCSVHandler(auditReader))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if store.Current() == nil {
			http.Error(w, "catalog not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authMiddleware := auth.NewMiddleware([]byte(jwtSecret), auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil))
	return requestIDMiddleware(loggingMiddleware(authMiddleware.Wrap(mux), logger)), nil
}

func catalogSource(cfg config, db *sql.DB, logger *log.Logger) catalogapp.Source {
	switch {
	case db != nil:
		logger.Printf("catalog source: postgres")
		return catalogrepo.NewCatalogRepository(db)
	case cfg.CatalogFile != "":
		logger.Printf("catalog source: file %s", cfg.CatalogFile)
		return catalogfile.Source{Path: cfg.CatalogFile}
	default:
		logger.Printf("catalog source: built-in")
		return catalogapp.DefaultSource
	}
}

type config struct {
	DatabaseURL           string
	HTTPAddr              string
	CatalogFile           string
	CatalogReloadInterval time.Duration
	JWTSecret             string
	ShutdownTimeout       time.Duration
}

func loadConfig() config {
	return config{
		DatabaseURL:           getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:              getenvDefault("HTTP_ADDR", ":8080"),
		CatalogFile:           getenvDefault("CATALOG_FILE", ""),
		CatalogReloadInterval: getenvDuration("CATALOG_RELOAD_INTERVAL", 0),
		JWTSecret:             getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		ShutdownTimeout:       time.Duration(getenvIntDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

const requestIDHeader = "X-Request-ID"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s id=%s", r.Method, r.URL.Path, resp.status, time.Since(start), r.Header.Get(requestIDHeader))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
