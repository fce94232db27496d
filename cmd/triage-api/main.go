package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/triage-api/internal/config"
	"github.com/kailas-cloud/triage-api/internal/db"
	dbElastic "github.com/kailas-cloud/triage-api/internal/db/elasticsearch"
	dbOpenSearch "github.com/kailas-cloud/triage-api/internal/db/opensearch"
	logpkg "github.com/kailas-cloud/triage-api/internal/logger"
	"github.com/kailas-cloud/triage-api/internal/metrics"
	chiTransport "github.com/kailas-cloud/triage-api/internal/transport/chi"
	healthuc "github.com/kailas-cloud/triage-api/internal/usecase/health"
	logsuc "github.com/kailas-cloud/triage-api/internal/usecase/logs"
	searchuc "github.com/kailas-cloud/triage-api/internal/usecase/search"
	"github.com/kailas-cloud/triage-api/internal/usecase/searcher"
	statsuc "github.com/kailas-cloud/triage-api/internal/usecase/stats"
	"github.com/kailas-cloud/triage-api/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting triage API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("build_date", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("search_driver", cfg.Search.Driver),
		zap.Strings("search_addrs", cfg.SearchAddrs()),
		zap.String("index_pattern", cfg.Search.IndexPattern),
		zap.Int("default_days", cfg.Query.DefaultDays),
	)

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("Failed to create search store", zap.Error(err))
	}
	defer store.Close()

	// The cluster may come up after us; requests fail with 500 until it does.
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Search.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Search cluster not ready, continuing", zap.Error(err))
	} else {
		logger.Info("Connected to search cluster")
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	instrumented := searcher.NewInstrumented(store, logger)

	// Create use case services
	logsSvc := logsuc.New(instrumented, cfg.Search.IndexPattern).WithMaxSize(cfg.Query.MaxSize)
	searchSvc := searchuc.New(instrumented, cfg.Search.IndexPattern).WithMaxSize(cfg.Query.MaxSize)
	statsSvc := statsuc.New(instrumented, cfg.Search.IndexPattern).WithMaxSize(cfg.Query.MaxSize)
	healthSvc := healthuc.New(store)

	server := chiTransport.NewServer(logsSvc, searchSvc, statsSvc, healthSvc, chiTransport.Options{
		DefaultDays: cfg.Query.DefaultDays,
		APIKey:      cfg.Auth.APIKey,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware("/metrics"))
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore creates the search cluster store for the configured driver.
func newStore(cfg config.Config) (db.Store, error) {
	switch cfg.Search.Driver {
	case config.DriverOpenSearch:
		store, err := dbOpenSearch.NewStore(dbOpenSearch.Config{
			Addrs:    cfg.SearchAddrs(),
			Username: cfg.Search.Username,
			Password: cfg.Search.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("opensearch: %w", err)
		}
		return store, nil
	case config.DriverElasticsearch:
		store, err := dbElastic.NewStore(dbElastic.Config{
			Addrs:    cfg.SearchAddrs(),
			Username: cfg.Search.Username,
			Password: cfg.Search.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown search driver %q", cfg.Search.Driver)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{Detail: "Internal Server Error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
