package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kozyhq/kozy-review-backend/internal/projects"
	"github.com/kozyhq/kozy-review-backend/internal/reaper"
	"github.com/kozyhq/kozy-review-backend/pkg/config"
	"github.com/kozyhq/kozy-review-backend/pkg/db"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
	"github.com/kozyhq/kozy-review-backend/pkg/metrics"
	"github.com/kozyhq/kozy-review-backend/pkg/migrate"
	"github.com/kozyhq/kozy-review-backend/pkg/redis"
	"github.com/kozyhq/kozy-review-backend/pkg/storage/disk"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "reaper-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "reaper-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	store, err := disk.New(cfg.Media.UploadDir)
	if err != nil {
		logg.Error(context.Background(), "failed to open artifact store", err)
		os.Exit(1)
	}

	sweeper, err := reaper.NewSweeper(reaper.SweeperParams{
		Repo:   projects.NewRepository(dbClient.DB()),
		Store:  store,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)
	job, err := reaper.NewSweepJob(reaper.SweepJobParams{
		Sweeper: sweeper,
		Metrics: jobMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweep job", err)
		os.Exit(1)
	}

	lock, err := reaper.NewRedisLock(redisClient, redisClient.LockKey("reaper"), cfg.Reaper.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create reaper lock", err)
		os.Exit(1)
	}

	runner, err := reaper.NewRunner(reaper.RunnerParams{
		Logger:   logg,
		Job:      job,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Reaper.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reaper runner", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Reaper.Interval.String(),
	})
	logg.Info(ctx, "starting reaper worker")

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "reaper worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "reaper worker shutting down gracefully")
}
