package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ruestwerk/ruestwerk-erp/internal/angebote"
	"github.com/ruestwerk/ruestwerk-erp/internal/app"
	"github.com/ruestwerk/ruestwerk-erp/internal/kalkulation"
	kalkulationhttp "github.com/ruestwerk/ruestwerk-erp/internal/kalkulation/http"
	"github.com/ruestwerk/ruestwerk-erp/internal/kunden"
	"github.com/ruestwerk/ruestwerk-erp/internal/mitarbeiter"
	"github.com/ruestwerk/ruestwerk-erp/internal/observability"
	"github.com/ruestwerk/ruestwerk-erp/internal/platform/cache"
	"github.com/ruestwerk/ruestwerk-erp/internal/platform/db"
	"github.com/ruestwerk/ruestwerk-erp/internal/projekte"
	"github.com/ruestwerk/ruestwerk-erp/internal/rechnungen"
	"github.com/ruestwerk/ruestwerk-erp/internal/urlaub"
	"github.com/ruestwerk/ruestwerk-erp/internal/zeiterfassung"
	"github.com/ruestwerk/ruestwerk-erp/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	reportCache := cache.NewReportCache(redisClient, cfg.ReportCacheTTL)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	kalkulationService := kalkulation.NewService(kalkulation.ServiceConfig{
		Repo:    kalkulation.NewRepository(pool),
		Queue:   jobClient,
		Cache:   reportCache,
		Metrics: metrics,
		Logger:  logger,
	})

	kundenService := kunden.NewService(kunden.NewRepository(pool))
	mitarbeiterService := mitarbeiter.NewService(mitarbeiter.NewRepository(pool))
	projekteService := projekte.NewService(projekte.NewRepository(pool))
	angeboteService := angebote.NewService(angebote.NewRepository(pool), kalkulationService)
	rechnungenService := rechnungen.NewService(rechnungen.NewRepository(pool), angeboteService)
	zeitService := zeiterfassung.NewService(zeiterfassung.NewRepository(pool), jobClient, logger)
	urlaubService := urlaub.NewService(urlaub.NewRepository(pool), mitarbeiterService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		KundenHandler:      kunden.NewHandler(logger, kundenService),
		MitarbeiterHandler: mitarbeiter.NewHandler(logger, mitarbeiterService),
		ProjekteHandler:    projekte.NewHandler(logger, projekteService),
		AngeboteHandler:    angebote.NewHandler(logger, angeboteService),
		RechnungenHandler:  rechnungen.NewHandler(logger, rechnungenService),
		ZeitHandler:        zeiterfassung.NewHandler(logger, zeitService),
		UrlaubHandler:      urlaub.NewHandler(logger, urlaubService),
		KalkulationHandler: kalkulationhttp.NewHandler(logger, kalkulationService, reportCache),
		JobHandler:         jobs.NewHandler(inspector, logger),
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server starting", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.Any("error", err))
	}
}
