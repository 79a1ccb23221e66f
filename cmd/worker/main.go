package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/trueauth/pkg/app"
	"github.com/ghuser/trueauth/pkg/cache"
	"github.com/ghuser/trueauth/pkg/config"
	"github.com/ghuser/trueauth/pkg/database"
	"github.com/ghuser/trueauth/pkg/events"
	"github.com/ghuser/trueauth/pkg/logger"
	"github.com/ghuser/trueauth/pkg/telemetry"
	ledgerEvents "github.com/ghuser/trueauth/services/ledger/domain/events"
	transferEvents "github.com/ghuser/trueauth/services/transfer/domain/events"
)

// The worker is the notification/audit collaborator: it consumes the fact
// records the ledger and transfer contexts publish, maintains the Redis item
// read model, and logs each fact. Ledger state never depends on anything
// done here.
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

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

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
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all fact-record handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	subscriptions := []struct {
		topic   string
		handler func(context.Context, *message.Message) error
	}{
		{ledgerEvents.TopicItemClaimed, handleItemClaimed(a)},
		{transferEvents.TopicCodeGenerated, handleTransferFact(a, transferEvents.TopicCodeGenerated)},
		{transferEvents.TopicCodeRevoked, handleTransferFact(a, transferEvents.TopicCodeRevoked)},
		{transferEvents.TopicCodeRedeemed, handleCodeRedeemed(a)},
	}

	topics := make([]string, 0, len(subscriptions))
	for _, sub := range subscriptions {
		errCh, err := a.EventBus.Subscribe(ctx, sub.topic, sub.handler)
		if err != nil {
			return err
		}
		topics = append(topics, sub.topic)

		// Drain subscriber errors in background so the channel never blocks.
		topic := sub.topic
		go func() {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleItemClaimed warms the Redis read model so owner lookups right after a
// claim are served from cache. Handlers must be idempotent — EventBus retries
// up to 3× on failure.
func handleItemClaimed(a *app.Application) func(context.Context, *message.Message) error {
	itemCache := cache.NewItemCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt ledgerEvents.ItemClaimedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := itemCache.Set(ctx, &cache.CachedItem{
			ItemID:    evt.ItemID,
			Owner:     evt.To,
			ClaimedAt: evt.OccurredAt,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed for item claim",
				"item_id", evt.ItemID, "error", err)
		}

		a.Logger.InfoContext(ctx, "item claimed",
			"item_id", evt.ItemID, "owner", evt.To)
		return nil
	}
}

// handleCodeRedeemed drops the stale owner entry from the read model and
// records the completed transfer.
func handleCodeRedeemed(a *app.Application) func(context.Context, *message.Message) error {
	itemCache := cache.NewItemCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt transferEvents.TransferEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := itemCache.Delete(ctx, evt.ItemID); err != nil {
			a.Logger.WarnContext(ctx, "cache invalidation failed for transfer",
				"item_id", evt.ItemID, "error", err)
		}

		a.Logger.InfoContext(ctx, "item transferred",
			"item_id", evt.ItemID, "from", evt.From, "to", evt.To)
		return nil
	}
}

// handleTransferFact records code generation and revocation facts. The token
// is never logged.
func handleTransferFact(a *app.Application, topic string) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt transferEvents.TransferEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		a.Logger.InfoContext(ctx, "transfer code fact",
			"kind", evt.Kind, "item_id", evt.ItemID, "from", evt.From, "to", evt.To)
		return nil
	}
}
