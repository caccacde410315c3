package main

import (
	"context"
	"errors"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/config"
	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/tracking"
	"github.com/matst80/slask-storefront/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	source  catalog.Source
	cache   *catalog.Cache
	tracker types.Tracking
	conn    *amqp.Connection
}

func (a *app) connectCatalog() error {
	client, err := catalog.NewClient(catalog.ClientConfig{
		BaseURL:           a.cfg.Catalog.BaseURL,
		Timeout:           a.cfg.Catalog.Timeout,
		RequestsPerSecond: a.cfg.Catalog.RequestsPerSecond,
		Burst:             a.cfg.Catalog.Burst,
	}, a.logger.Named("catalog"))
	if err != nil {
		return err
	}
	a.source = client
	if a.cfg.Redis.Addr == "" {
		a.logger.Info("no redis configured, search responses are not cached")
		return nil
	}
	rdb := catalog.NewRedisClient(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	a.cache = catalog.NewCache(rdb, "slaskstorefront:search:")
	a.source = catalog.NewCachedSource(client, a.cache, a.cfg.Redis.TTL, a.logger.Named("cache"))
	a.logger.Info("caching search responses", zap.String("redis", a.cfg.Redis.Addr), zap.Duration("ttl", a.cfg.Redis.TTL))
	return nil
}

func (a *app) rabbitConfig() messaging.RabbitConfig {
	return messaging.RabbitConfig{Url: a.cfg.Rabbit.URL, Prefix: a.cfg.Rabbit.Prefix}
}

func (a *app) connectTracking() {
	if a.cfg.Rabbit.URL != "" {
		rt, err := tracking.NewRabbitTracking(a.rabbitConfig(), tracking.Options{
			Country:       a.cfg.Country,
			BatchSize:     a.cfg.Rabbit.BatchSize,
			FlushInterval: a.cfg.Rabbit.FlushInterval,
		}, a.logger.Named("tracking"))
		if err == nil {
			a.tracker = rt
			return
		}
		a.logger.Error("connecting tracking to rabbit, logging events instead", zap.Error(err))
	}
	a.tracker = tracking.NewLogTracking(a.logger.Named("tracking"))
}

// connectCatalogChanges drops cached responses whenever the catalog
// publishes a change.
func (a *app) connectCatalogChanges() error {
	if a.cfg.Rabbit.URL == "" || a.cache == nil {
		return nil
	}
	conn, err := amqp.DialConfig(a.cfg.Rabbit.URL, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return err
	}
	a.conn = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := messaging.DefineTopic(ch, a.cfg.Rabbit.Prefix, messaging.CatalogChanged); err != nil {
		return err
	}
	return messaging.ListenToChanges(ch, a.cfg.Rabbit.Prefix, messaging.CatalogChanged, a.logger,
		func(change messaging.CatalogChange) error {
			removed, err := a.cache.Invalidate(context.Background())
			a.logger.Info("catalog changed, cache invalidated",
				zap.Strings("categories", change.Categories),
				zap.String("reason", change.Reason),
				zap.Int("removed", removed))
			return err
		})
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.tracker != nil {
		errs = append(errs, a.tracker.Close())
	}
	if a.conn != nil {
		errs = append(errs, a.conn.Close())
	}
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	return errors.Join(errs...)
}
