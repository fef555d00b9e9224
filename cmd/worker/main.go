package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/pkg/telemetry"
	appsvcs "github.com/ghuser/catalog/services/product/application/services"
	productEvents "github.com/ghuser/catalog/services/product/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close() //nolint:errcheck

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, appConfig, appsvcs.New(appConfig).Product); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	<-ctx.Done()
	// EventBus.Close (deferred) waits up to 30s for in-flight handlers.
	log.Info("shutting down worker...")
}

// cacheSyncer is the part of the product service the subscribers drive.
type cacheSyncer interface {
	Warm(ctx context.Context, id uuid.UUID) error
	Evict(ctx context.Context, id uuid.UUID)
}

// registerSubscribers wires every domain event handler and drains their
// error channels into the log.
func registerSubscribers(ctx context.Context, a *app.Application, products cacheSyncer) error {
	subscriptions := map[string]events.Handler{
		productEvents.TopicProductCreated: handleProductChanged(a.Logger, products),
		productEvents.TopicProductUpdated: handleProductChanged(a.Logger, products),
		productEvents.TopicProductDeleted: handleProductDeleted(a.Logger, products),
	}

	topics := make([]string, 0, len(subscriptions))
	for topic, handler := range subscriptions {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		go func() {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleProductChanged warms the cache for product.created and
// product.updated. A failed warm is retried by the bus.
func handleProductChanged(log logger.Logger, products cacheSyncer) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt productEvents.ProductChangedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			log.ErrorContext(ctx, "dropping undecodable product event", "message_id", msg.UUID, "error", err)
			return nil
		}
		if err := products.Warm(ctx, evt.ProductID); err != nil {
			return fmt.Errorf("warm product %s: %w", evt.ProductID, err)
		}
		log.InfoContext(ctx, "cache warmed", "product_id", evt.ProductID)
		return nil
	}
}

// handleProductDeleted evicts the deleted product.
func handleProductDeleted(log logger.Logger, products cacheSyncer) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt productEvents.ProductDeletedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			log.ErrorContext(ctx, "dropping undecodable product event", "message_id", msg.UUID, "error", err)
			return nil
		}
		products.Evict(ctx, evt.ProductID)
		log.InfoContext(ctx, "cache evicted", "product_id", evt.ProductID)
		return nil
	}
}
