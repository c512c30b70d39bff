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

	"gorm.io/gorm"

	httpadp "eva-framework/internal/adapter/http"
	"eva-framework/internal/adapter/llm"
	"eva-framework/internal/adapter/repository/gormdb"
	"eva-framework/internal/config"
	"eva-framework/internal/domain/trace"
	"eva-framework/internal/infrastructure/cache"
	"eva-framework/internal/infrastructure/db"
	"eva-framework/internal/infrastructure/logging"
	"eva-framework/internal/infrastructure/metrics"
	"eva-framework/internal/usecase/screening"
)

func main() {
	cfg := config.Load()
	logger := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	policy, err := cfg.ValidatedPolicy()
	if err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	traces, gdb, err := openTraceStore(cfg)
	if err != nil {
		logger.Error("trace store", "error", err)
		os.Exit(1)
	}
	if gdb != nil {
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Error("redis", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	points := llm.NewClient(llm.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout(),
	}, logger)
	recorder := metrics.NewRecorder()
	uc := screening.NewUsecase(policy, points, traces,
		screening.WithObserver(recorder),
		screening.WithLogger(logger),
	)

	e := httpadp.NewRouter(httpadp.RouterDeps{
		Health:       httpadp.NewHandler(),
		Screening:    httpadp.NewScreeningHandler(uc),
		Metrics:      recorder.Handler(),
		Redis:        rdb,
		IdempTTL:     cfg.IdempTTL(),
		RateLimitRPS: cfg.RateLimitRPS,
		Logger:       logger,
	})
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	addr := ":" + cfg.AppPort
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "bank", policy.Bank,
			"llm", points.Enabled(), "trace_store", cfg.TraceStore, "idempotency", rdb != nil)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server", "error", err)
		return
	case <-quit:
		logger.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func openTraceStore(cfg *config.Config) (trace.Repository, *gorm.DB, error) {
	driver, dsn := cfg.TraceDSN()
	if driver == "" {
		return gormdb.NopTraceRepository{}, nil, nil
	}
	gdb, err := db.OpenGorm(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := gormdb.Migrate(gdb); err != nil {
		return nil, nil, err
	}
	slog.Info("trace store enabled", "driver", driver)
	return gormdb.NewTraceRepository(gdb), gdb, nil
}
