package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHttp "github.com/athaan-fi-beit/backend/internal/api/http"
	"github.com/athaan-fi-beit/backend/internal/cache"
	"github.com/athaan-fi-beit/backend/internal/config"
	"github.com/athaan-fi-beit/backend/internal/db"
	"github.com/athaan-fi-beit/backend/internal/diagnostics"
	"github.com/athaan-fi-beit/backend/internal/metrics"
	"github.com/athaan-fi-beit/backend/internal/queue/asynqserver"
	"github.com/athaan-fi-beit/backend/internal/queue/client"
	"github.com/athaan-fi-beit/backend/internal/repository"
	"github.com/athaan-fi-beit/backend/internal/server"
	"github.com/athaan-fi-beit/backend/internal/service"
	"github.com/athaan-fi-beit/backend/internal/service/recaptcha"
	"github.com/athaan-fi-beit/backend/internal/worker"
	emailProvider "github.com/athaan-fi-beit/backend/pkg/email"
	"github.com/athaan-fi-beit/backend/pkg/email/smtp"
	"github.com/athaan-fi-beit/backend/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	if _, err := logger.SetupLogger(cfg.Env, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting signup backend", zap.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Init store
	var (
		dbMySQL *sqlx.DB
		repos   *repository.Repositories
	)
	if cfg.Database.Enabled() {
		var err error
		dbMySQL, err = db.New(cfg.Database)
		if err != nil {
			logger.Fatal("mysql connect problem", zap.Error(err))
		}
		defer func() {
			if err := dbMySQL.Close(); err != nil {
				logger.Error("error when closing", zap.Error(err))
			}
		}()

		if err := db.Migrate(context.Background(), dbMySQL); err != nil {
			logger.Fatal("mysql migration failed", zap.Error(err))
		}
		repos = repository.NewRepositories(dbMySQL)
		logger.Info("mysql connection done")
	} else {
		repos = repository.NewInMemoryRepositories()
		logger.Warn("DB_DSN not configured - registrants are kept in memory")
	}

	// Mail
	var (
		emailSender  emailProvider.Sender
		mailVerifier diagnostics.MailVerifier
	)
	if cfg.SMTP.Configured() {
		sender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.Email.FromName, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
		if err != nil {
			logger.Error("smtp sender creation failed, emails are disabled", zap.Error(err))
		} else {
			emailSender = sender
			mailVerifier = sender
		}
	}

	// Notification queue
	var (
		rdb         redis.UniversalClient
		redisPinger diagnostics.Pinger
	)
	if cfg.Cache.Enabled() {
		var err error
		rdb, err = cache.NewRedis(cfg.Cache)
		if err != nil {
			logger.Error("redis connect problem, notifications are sent inline", zap.Error(err))
			if rdb != nil {
				_ = rdb.Close()
			}
			rdb = nil
		}
	}
	if rdb != nil {
		defer rdb.Close()
		redisPinger = diagnostics.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})

		asynqClient := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
		defer asynqClient.Close()
		restore := client.SetClient(asynqClient)
		defer restore()
	}

	// Services & API Handlers
	services := service.NewServices(service.Deps{
		Config:             cfg,
		Repos:              repos,
		Verifier:           recaptcha.NewClient(cfg.Recaptcha),
		EmailSender:        emailSender,
		Metrics:            appMetrics,
		QueueNotifications: rdb != nil,
	})

	var queueServer *asynq.Server
	if rdb != nil {
		workers := worker.NewWorkers(worker.Deps{Notifier: services.Emails})
		var mux *asynq.ServeMux
		queueServer, mux = asynqserver.New(cfg.Cache, workers)
		if err := queueServer.Start(mux); err != nil {
			logger.Fatal("asynq server start failed", zap.Error(err))
		}
		logger.Info("notification queue started")
	}

	diagDeps := diagnostics.Deps{
		Config: cfg,
		Repos:  repos,
		Mail:   mailVerifier,
		Redis:  redisPinger,
	}
	if dbMySQL != nil {
		diagDeps.DB = dbMySQL
	}
	diagnostics.Run(context.Background(), diagDeps).Log()

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	router, err := apiHttp.NewHandlers(services, cfg, appMetrics, prometheus.DefaultGatherer).Init(appCtx, cfg)
	if err != nil {
		logger.Fatal("http handlers init failed", zap.Error(err))
	}

	// HTTP Server
	srv := server.NewServer(cfg, router)
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("addr", srv.Addr()))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		logger.Error("failed to stop server", zap.Error(err))
	}
	stopApp()

	if err := services.Signup.Wait(ctx); err != nil {
		logger.Warn("pending notifications not finished before shutdown", zap.Error(err))
	}

	if queueServer != nil {
		queueServer.Shutdown()
	}

	logger.Info("app stopped")
}
