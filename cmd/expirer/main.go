// jobmate board-service expirer
//
// Deactivates job listings whose closing date has passed, on the cron
// schedule given by EXPIRY_SCHEDULE. Runs one sweep at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"jobmate/board-service/internal/config"
	"jobmate/board-service/internal/db"
	"jobmate/board-service/internal/events"
	"jobmate/board-service/internal/jobs"
	"jobmate/board-service/internal/logging"
	"jobmate/board-service/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (default $CONFIG_FILE)")
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[expirer] config error: %v\n", err)
		os.Exit(1)
	}
	logging.Install(logging.New(os.Stdout, cfg.LogLevel, "board-expirer"))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		slog.Error("postgres failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Expiry publishes nothing and needs no preference reads.
	svc := jobs.NewService(jobs.NewStore(pool), nil, events.Discard{})
	sched := scheduler.New(svc, cfg.ExpirySchedule)

	if *once {
		sched.RunOnce(ctx)
		return
	}
	if err := sched.Start(ctx); err != nil {
		slog.Error("scheduler failed", "err", err)
		os.Exit(1)
	}

	<-ctx.Done()
	sched.Stop()
}
