package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"stayrent/internal/infra/config"
	ginserver "stayrent/internal/infra/http/gin"
	"stayrent/internal/infra/obs"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(os.Getenv("APP_ENV"), "info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Probes: app.probes}, app.handlers)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return ignoreCanceled(app.worker.Run(gctx))
	})
	if app.consumer != nil {
		group.Go(func() error {
			logger.Info("calendar events consumer starting", "topic", cfg.CalendarEventsTopic)
			return ignoreCanceled(app.consumer.Run(gctx, []string{cfg.CalendarEventsTopic}))
		})
	}
	group.Go(func() error {
		<-app.scheduler.Start(gctx)
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		return nil
	})
	group.Go(func() error {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "calendar_source", cfg.CalendarSource, "session_store", cfg.SessionStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		stop()
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("service stopped with error", "error", err)
		app.close(logger)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
