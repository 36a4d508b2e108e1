package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/plantitas-de-la-fe/pos-backend/internal/alerts"
	"github.com/plantitas-de-la-fe/pos-backend/internal/catalog"
	"github.com/plantitas-de-la-fe/pos-backend/internal/cron"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/config"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/mailer"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/metrics"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/migrate"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "alert-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "alert-worker",
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	alertRepo := alerts.NewRepository(dbClient.DB())

	sweepJob, err := cron.NewAlertSweepJob(cron.AlertSweepJobParams{
		Logger:   logg,
		DB:       dbClient,
		Products: catalog.NewRepository(dbClient.DB()),
		Alerts:   alertRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create alert sweep job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(sweepJob)

	if cfg.Sendgrid.APIKey == "" {
		logg.Warn(context.Background(), "sendgrid api key not set; digest job disabled")
	} else {
		sendgridMailer, err := mailer.NewSendgrid(cfg.Sendgrid)
		if err != nil {
			logg.Error(context.Background(), "failed to create mailer", err)
			os.Exit(1)
		}

		notifier, err := alerts.NewNotifier(alerts.NotifierParams{
			Repo:       alertRepo,
			Mailer:     sendgridMailer,
			Recipients: cfg.Alerts.Recipients(),
			Fallback:   cfg.Sendgrid.DefaultFrom,
			Location:   cfg.App.Location(),
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create digest notifier", err)
			os.Exit(1)
		}

		digestJob, err := cron.NewAlertDigestJob(cron.AlertDigestJobParams{
			Logger:   logg,
			Notifier: notifier,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create alert digest job", err)
			os.Exit(1)
		}
		registry.Register(digestJob)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.CronLockKey("alert-worker"), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting alert worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "alert worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "alert worker shutting down gracefully")
}
