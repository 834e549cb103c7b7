package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/hrtools/rptracker/internal/channel"
	emailChannel "github.com/hrtools/rptracker/internal/channel/email"
	telegramChannel "github.com/hrtools/rptracker/internal/channel/telegram"
	"github.com/hrtools/rptracker/internal/config"
	"github.com/hrtools/rptracker/internal/handler"
	accountHandler "github.com/hrtools/rptracker/internal/handler/account"
	employeeHandler "github.com/hrtools/rptracker/internal/handler/employee"
	notifierHandler "github.com/hrtools/rptracker/internal/handler/notifier"
	"github.com/hrtools/rptracker/internal/middleware"
	"github.com/hrtools/rptracker/internal/repository"
	"github.com/hrtools/rptracker/internal/repository/jsonfile"
	"github.com/hrtools/rptracker/internal/repository/postgres"
	"github.com/hrtools/rptracker/internal/router"
	accountService "github.com/hrtools/rptracker/internal/service/account"
	employeeService "github.com/hrtools/rptracker/internal/service/employee"
	notifierService "github.com/hrtools/rptracker/internal/service/notifier"
	"github.com/hrtools/rptracker/internal/worker"
	"github.com/hrtools/rptracker/pkg/auth"
	"github.com/hrtools/rptracker/pkg/logger"
	"github.com/hrtools/rptracker/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLog := logger.New(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Pretty:     true,
	})
	log.Logger = appLog.ZL

	store, err := newStore(cfg.Store)
	if err != nil {
		appLog.Fatal(err, "failed to initialize snapshot store")
	}

	// Notification channels
	channels := []channel.Channel{
		emailChannel.New(emailChannel.Config{Host: cfg.SMTP.Host, Port: cfg.SMTP.Port}),
		telegramChannel.New(),
	}

	// Services
	metrics := notifierService.NewMetrics("rptracker")
	metrics.Register(prometheus.DefaultRegisterer)

	notifierSvc := notifierService.NewService(store, channels, notifierService.Policy{
		Thresholds: cfg.Scheduler.Thresholds,
		DailyCap:   cfg.Scheduler.DailyCap,
	}, metrics, appLog)

	employeeSvc := employeeService.NewService(store)

	hasher := security.NewBcryptHasher(12)
	tokens := auth.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	accountSvc := accountService.NewService(store, hasher, tokens)

	// HTTP surface
	handler.RegisterValidations()
	r := router.New(
		router.Config{
			RateLimit: middleware.RateLimiterConfig{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst},
			CORS:      middleware.DefaultCORSConfig(),
		},
		middleware.NewAuthMiddleware(tokens),
		accountHandler.NewHandler(accountSvc),
		employeeHandler.NewHandler(employeeSvc),
		notifierHandler.NewHandler(notifierSvc, appLog),
		handler.NewHandler(),
	)
	r.Setup()

	// Clock-fired checks
	checkWorker, err := worker.NewCheckWorker(worker.Config{
		Times:    cfg.Scheduler.Times,
		Timezone: cfg.Scheduler.Timezone,
	}, notifierSvc, appLog)
	if err != nil {
		appLog.Fatal(err, "failed to build check worker")
	}
	checkWorker.Start()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLog.ZL.Info().
			Int("port", cfg.Server.Port).
			Strs("check_times", cfg.Scheduler.Times).
			Ints("thresholds", cfg.Scheduler.Thresholds).
			Msg("rptracker started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(err, "server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLog.Info("shutting down")
	checkWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error(err, "server shutdown failed")
	}
}

func newStore(cfg config.StoreConfig) (repository.SnapshotStore, error) {
	switch cfg.Driver {
	case "", "file":
		return jsonfile.New(cfg.Path), nil
	case "postgres":
		db, err := postgres.NewDB(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.New(db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
