// jobmate board-service API
//
// Job board backend behind the Gateway:
//   - job listings with keyword, filter, sort and paging (/jobs, /jobs/search)
//   - employee job posting and activation (/employee/jobs)
//   - job seeker preferences and match scores (/job-seeker/preferences)
//   - saved searches with alerts on new postings (/saved-searches)
//   - applications and the employer review workflow (/job-applications, /employee/applications)
//   - reference lookups (/reference/{kind})
//
// Publishes EVENT_JOB_POSTED, EVENT_SAVED_SEARCH_MATCH,
// EVENT_APPLICATION_CREATED and EVENT_APPLICATION_STATUS_CHANGED to Redis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobmate/board-service/internal/applications"
	"jobmate/board-service/internal/auth"
	"jobmate/board-service/internal/config"
	"jobmate/board-service/internal/db"
	"jobmate/board-service/internal/events"
	"jobmate/board-service/internal/httpx"
	"jobmate/board-service/internal/jobs"
	"jobmate/board-service/internal/logging"
	"jobmate/board-service/internal/matching"
	"jobmate/board-service/internal/reference"
	"jobmate/board-service/internal/savedsearch"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "YAML config file (default $CONFIG_FILE)")
	flag.Parse()

	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[board-service] config error: %v\n", err)
		os.Exit(1)
	}
	logging.Install(logging.New(os.Stdout, cfg.LogLevel, "board-service"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		fatal("postgres", err)
	}
	defer pool.Close()
	slog.Info("postgres connected", "maxConns", cfg.DBMaxConns)

	// ── Redis ────────────────────────────────────────────────────────────────
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		fatal("redis", err)
	}
	defer rdb.Close()
	slog.Info("redis connected")

	pub := events.NewRedisPublisher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	prefStore := matching.NewStore(pool)
	savedStore := savedsearch.NewStore(pool)

	jobSvc := jobs.NewService(jobs.NewStore(pool), prefStore, pub)
	alerter := savedsearch.NewAlerter(savedStore, pub)
	jobSvc.OnPosted(alerter.JobPosted)
	go alerter.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	reference.NewHandler(reference.NewAccessor(pool)).RegisterRoutes(mux)
	jobs.NewHandler(jobSvc).RegisterRoutes(mux)
	matching.NewHandler(prefStore).RegisterRoutes(mux)
	savedsearch.NewHandler(savedsearch.NewService(savedStore)).RegisterRoutes(mux)
	applications.NewHandler(applications.NewService(applications.NewStore(pool), pub)).RegisterRoutes(mux)

	limiter := httpx.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	handler := httpx.Chain(mux,
		httpx.Recover,
		httpx.WithRequestID,
		httpx.Logging,
		auth.Middleware(httpx.WriteError),
		limiter.Middleware,
	)

	// ── HTTP server ──────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		slog.Info("listening", "version", version, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("http server", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	cancel()
	slog.Info("stopped")
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	httpx.OK(w, map[string]string{
		"status":  "ok",
		"service": "board-service",
		"version": version,
	})
}

func fatal(what string, err error) {
	slog.Error(what+" failed", "err", err)
	os.Exit(1)
}
