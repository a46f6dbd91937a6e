package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/kozyhq/kozy-review-backend/api/routes"
	"github.com/kozyhq/kozy-review-backend/internal/comments"
	"github.com/kozyhq/kozy-review-backend/internal/projects"
	"github.com/kozyhq/kozy-review-backend/internal/reaper"
	"github.com/kozyhq/kozy-review-backend/pkg/config"
	"github.com/kozyhq/kozy-review-backend/pkg/db"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
	"github.com/kozyhq/kozy-review-backend/pkg/migrate"
	"github.com/kozyhq/kozy-review-backend/pkg/redis"
	"github.com/kozyhq/kozy-review-backend/pkg/storage/disk"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	projectsRepo := projects.NewRepository(dbClient.DB())

	sweeper, err := reaper.NewSweeper(reaper.SweeperParams{
		Repo:   projectsRepo,
		Store:  store,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper", err)
		os.Exit(1)
	}

	projectsService, err := projects.NewService(projects.ServiceParams{
		Repo:    projectsRepo,
		Store:   store,
		Sweeper: sweeper,
		Logger:  logg,
		Review:  cfg.Review,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create projects service", err)
		os.Exit(1)
	}

	commentsService, err := comments.NewService(comments.ServiceParams{
		Repo: comments.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create comments service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:      cfg,
			Logger:      logg,
			Redis:       redisClient,
			DBPinger:    dbClient,
			StorePinger: store,
			Projects:    projectsService,
			Comments:    commentsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
