package app

import (
	"context"
	"errors"
	"fmt"

	"talent-match/internal/config"
	"talent-match/internal/database"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/infrastructure/event"
	"talent-match/internal/metrics"
	"talent-match/internal/pkg/logger"
	"talent-match/internal/session"
	"talent-match/internal/validation"
	"talent-match/internal/ws"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container owns the process-wide infrastructure.
type Container struct {
	Config    config.Config
	Logger    *zap.Logger
	DB        database.DB
	Cache     *cache.Redis
	Publisher event.Publisher
	Metrics   *metrics.Metrics
	Sessions  *session.Bus
	Hub       *ws.Hub
	Validator *validation.Validator
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	validator, err := validation.New()
	if err != nil {
		return nil, err
	}

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger.Component(log, "database"))
	if err != nil {
		return nil, err
	}

	pub, err := event.NewAMQPPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange, logger.Component(log, "events"))
	if err != nil {
		log.Warn("event publisher unavailable, events are dropped", zap.Error(err))
		pub, _ = event.NewAMQPPublisher("", cfg.RabbitMQ.Exchange, logger.Component(log, "events"))
	}

	return &Container{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Cache:     cache.NewRedis(cfg.Redis, logger.Component(log, "cache")),
		Publisher: pub,
		Metrics:   metrics.New(prometheus.NewRegistry()),
		Sessions:  session.NewBus(256),
		Hub:       ws.NewHub(logger.Component(log, "ws")),
		Validator: validator,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Sessions != nil {
		c.Sessions.Close()
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
