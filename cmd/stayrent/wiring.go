package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"stayrent/internal/app/bootstrap"
	"stayrent/internal/app/maintenance"
	appoutbox "stayrent/internal/app/outbox"
	"stayrent/internal/app/policies"
	"stayrent/internal/app/resolver"
	"stayrent/internal/domain/booking"
	"stayrent/internal/infra/backend"
	"stayrent/internal/infra/broker/kafka"
	rediscache "stayrent/internal/infra/cache/redis"
	"stayrent/internal/infra/config"
	mongostore "stayrent/internal/infra/db/mongo"
	ginserver "stayrent/internal/infra/http/gin"
	"stayrent/internal/infra/inbox"
	"stayrent/internal/infra/obs"
	outboxworker "stayrent/internal/infra/outbox"
	"stayrent/internal/infra/schedule"
	"stayrent/internal/infra/storage/memory"
)

type outboxStore interface {
	appoutbox.Outbox
	appoutbox.Relay
}

type application struct {
	handlers  ginserver.Handlers
	probes    map[string]obs.Probe
	worker    *outboxworker.Worker
	consumer  *kafka.Consumer
	scheduler *schedule.Scheduler

	closeOnce sync.Once
	closers   []func(context.Context) error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{probes: map[string]obs.Probe{}}

	source, err := buildCalendarSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	cache, err := app.buildCalendarCache(cfg)
	if err != nil {
		return nil, err
	}
	calendars := resolver.New(resolver.Options{
		Source:   source,
		Cache:    cache,
		TTL:      cfg.CalendarCacheTTL,
		Location: cfg.Location,
		Logger:   logger,
	})

	var (
		sessions booking.SessionRepository
		box      outboxStore
		seen     kafka.Inbox
	)
	switch cfg.SessionStore {
	case config.StoreMongo:
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		app.probes["mongo"] = client.Ping
		if sessions, err = mongostore.NewSessionRepository(ctx, client.DB, cfg.Location, cfg.SessionTTL); err != nil {
			return nil, fmt.Errorf("session repository: %w", err)
		}
		if box, err = outboxworker.NewStore(ctx, client.DB); err != nil {
			return nil, fmt.Errorf("outbox store: %w", err)
		}
		if seen, err = inbox.NewStore(ctx, client.DB, cfg.KafkaGroupID, inbox.DefaultRetention); err != nil {
			return nil, fmt.Errorf("inbox store: %w", err)
		}
	default:
		sessions = memory.NewSessionRepository()
		box = memory.NewOutbox()
		seen = inbox.NewMemory(inbox.DefaultMemorySize)
	}

	buses := bootstrap.NewBuses(bootstrap.Deps{
		Calendars: calendars,
		Sessions:  sessions,
		Outbox:    box,
		Clock:     policies.SystemClock{},
		Logger:    logger,
	})
	app.handlers = ginserver.Handlers{
		Calendar: ginserver.CalendarHandler{Queries: buses.Queries, Location: cfg.Location, Logger: logger},
		Sessions: ginserver.SessionHandler{Commands: buses.Commands, Queries: buses.Queries, Location: cfg.Location, Logger: logger},
	}

	var producer outboxworker.Producer = outboxworker.LogProducer{Logger: logger}
	if cfg.KafkaEnabled() {
		kp, err := kafka.NewProducer(cfg.KafkaBrokers, "stayrent", nil)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return kp.Close() })
		producer = kp

		handler := &kafka.CalendarEventHandler{Calendars: calendars, Inbox: seen, Logger: logger}
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, handler, logger)
		if err != nil {
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return consumer.Close() })
		app.consumer = consumer
	} else {
		logger.Info("kafka not configured, session events go to the log")
	}
	app.worker = &outboxworker.Worker{
		Relay:       box,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}

	app.scheduler = schedule.New(logger, cfg.Location, 0)
	if err := app.scheduler.Add("calendar-cache-sweep", cfg.CacheSweepSpec, maintenance.CalendarCacheSweep(calendars, logger)); err != nil {
		return nil, err
	}
	if err := app.scheduler.Add("session-sweep", cfg.SessionSweepSpec, maintenance.SessionSweep(sessions, cfg.SessionTTL, policies.SystemClock{}, logger)); err != nil {
		return nil, err
	}
	return app, nil
}

func buildCalendarSource(ctx context.Context, cfg config.Config, logger *slog.Logger) (resolver.Source, error) {
	if cfg.CalendarSource != config.SourceMemory {
		return &backend.CalendarClient{
			Client:  &http.Client{},
			BaseURL: cfg.BackendURL,
			Token:   cfg.BackendToken,
			Timeout: cfg.BackendTimeout,
			Logger:  logger,
		}, nil
	}
	repo := memory.NewInventoryRepository()
	path := cfg.CalendarFixtures
	if path == "" {
		path = defaultFixturesPath()
	}
	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("calendar fixtures file not found, skipping", "path", path)
	case err != nil:
		return nil, fmt.Errorf("open fixtures: %w", err)
	default:
		defer f.Close()
		n, err := memory.LoadInventoryFixtures(ctx, repo, f, cfg.Location, logger)
		if err != nil {
			return nil, fmt.Errorf("load fixtures %s: %w", path, err)
		}
		logger.Info("calendar fixtures loaded", "path", path, "properties", n)
	}
	return memory.CalendarSource{Inventories: repo}, nil
}

func (a *application) buildCalendarCache(cfg config.Config) (resolver.Cache, error) {
	if cfg.CalendarCache != config.CacheRedis {
		return resolver.NewMemoryCache(cfg.CalendarCacheSize), nil
	}
	client, err := rediscache.NewClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	cache := &rediscache.CalendarCache{Client: client, TTL: cfg.CalendarCacheTTL}
	a.probes["redis"] = cache.Ping
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	return cache, nil
}

func (a *application) close(logger *slog.Logger) {
	a.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](ctx); err != nil {
				logger.Warn("close failed", "error", err)
			}
		}
	})
}

func defaultFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "calendar.json"),
		filepath.Join("..", "..", "data", "calendar.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
