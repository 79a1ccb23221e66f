// Package events carries the ledger's provenance facts (item claims, transfer
// code lifecycle) over a PostgreSQL-backed Watermill bus.
//
// Publishing happens inside the same transaction that records the fact: repos
// obtain a publisher bound to their *sql.Tx via NewTxPublisher, so a claim row
// and its claimed event commit or roll back together. In forwarder mode the
// transactional write lands in an outbox table and a background daemon moves
// it to the real topic, which survives a crash between commit and delivery.
//
// Subscribers in the same consumer group load-balance: each fact is handled by
// exactly one worker instance. Handlers must be idempotent; a failing handler
// is retried with exponential backoff before the message is Nacked.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/trueauth/pkg/config"
	"github.com/ghuser/trueauth/pkg/logger"
)

const (
	handlerRetries    = 3
	retryInitialDelay = time.Second
	drainTimeout      = 30 * time.Second
	errBufferSize     = 100

	// outboxTopic is the internal queue the Forwarder daemon drains. Never
	// subscribe to it directly.
	outboxTopic = "ledger_outbox"
)

// EventBus is the Postgres-backed pub/sub bus. Watermill's SQL transport uses
// FOR UPDATE SKIP LOCKED, so concurrent workers never double-process a fact.
type EventBus struct {
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder // nil unless outbox mode is on and started
	db         *sql.DB
	log        logger.Logger
	wg         sync.WaitGroup
	useOutbox  bool

	retries    int
	retryDelay time.Duration
}

// NewEventBus opens cfg.DatabaseURL and wires a direct publisher/subscriber
// pair. Schema tables are created on first use. Instances sharing
// cfg.ServiceName form one consumer group.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, false)
}

// NewEventBusWithForwarder wires the bus in outbox mode: Publish (and every
// tx publisher) writes to a durable queue instead of the target topic, and the
// Forwarder daemon delivers from there. Call StartForwarder after construction.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, true)
}

func newEventBus(cfg *config.Config, log logger.Logger, useOutbox bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	wlog := &watermillLogger{log: log}

	pub, err := newSQLPublisher(db, true, wlog)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	var publisher message.Publisher = pub
	if useOutbox {
		publisher = forwarder.NewPublisher(pub, forwarder.PublisherConfig{
			ForwarderTopic: outboxTopic,
		})
	}

	sub, err := newSQLSubscriber(db, cfg.ServiceName+"-consumer", wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{
		publisher:  publisher,
		subscriber: sub,
		db:         db,
		log:        log,
		useOutbox:  useOutbox,
		retries:    handlerRetries,
		retryDelay: retryInitialDelay,
	}, nil
}

func newSQLPublisher(beginner watermillsql.ContextExecutor, initSchema bool, wlog watermill.LoggerAdapter) (*watermillsql.Publisher, error) {
	return watermillsql.NewPublisher(
		beginner,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: initSchema,
		},
		wlog,
	)
}

func newSQLSubscriber(db *sql.DB, group string, wlog watermill.LoggerAdapter) (*watermillsql.Subscriber, error) {
	return watermillsql.NewSubscriber(
		db,
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    group,
		},
		wlog,
	)
}

// StartForwarder launches the daemon that drains the outbox queue into the
// real topics. Valid only on a bus built with NewEventBusWithForwarder, once.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.useOutbox {
		return fmt.Errorf("events: StartForwarder called on a direct-publish bus")
	}
	if b.fwd != nil {
		return fmt.Errorf("events: forwarder already started")
	}

	wlog := &watermillLogger{log: b.log}

	// The daemon gets its own subscriber and publisher so closing the main
	// pair never stalls outbox delivery mid-flight.
	outboxSub, err := newSQLSubscriber(b.db, "forwarder-consumer", wlog)
	if err != nil {
		return fmt.Errorf("events: new outbox subscriber: %w", err)
	}
	targetPub, err := newSQLPublisher(b.db, true, wlog)
	if err != nil {
		_ = outboxSub.Close()
		return fmt.Errorf("events: new outbox target publisher: %w", err)
	}

	fwd, err := forwarder.NewForwarder(outboxSub, targetPub, wlog, forwarder.Config{
		ForwarderTopic: outboxTopic,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = outboxSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.log.InfoContext(ctx, "events: forwarder started")
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
		} else {
			b.log.InfoContext(ctx, "events: forwarder stopped")
		}
	}()

	select {
	case <-fwd.Running():
	case <-ctx.Done():
		return fmt.Errorf("events: context cancelled waiting for forwarder: %w", ctx.Err())
	}
	return nil
}

// DB exposes the underlying handle so repositories can open the transactions
// their tx publishers bind to.
func (b *EventBus) DB() *sql.DB {
	return b.db
}

// NewTxPublisher returns a publisher whose Publish calls execute inside tx.
// The claim or code-state row and its event therefore commit atomically.
// Schema init is skipped; the tables exist once the bus is constructed.
func (b *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := newSQLPublisher(tx, false, &watermillLogger{log: b.log})
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	if b.useOutbox {
		return forwarder.NewPublisher(pub, forwarder.PublisherConfig{
			ForwarderTopic: outboxTopic,
		}), nil
	}
	return pub, nil
}

// Publish sends msgs to topic, stamping each with the OTel trace context from
// ctx so subscribers can continue the span tree.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe runs handler for every message on topic. The handler context
// carries the publisher's restored trace.
//
// Ack/Nack is managed here: nil from the handler Acks; an error is retried
// with exponential backoff (1s, 2s, 4s) and finally Nacked, with the error
// pushed to the returned channel. The channel is buffered; callers must drain
// it or terminal errors are dropped with a log line. In-flight handlers
// finish before Close returns.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBufferSize)
	propagator := otel.GetTextMapPropagator()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range ch {
			carrier := propagation.MapCarrier{}
			for k, v := range msg.Metadata {
				carrier[k] = v
			}
			msgCtx := propagator.Extract(ctx, carrier)

			if err := b.runWithRetry(msgCtx, msg, handler); err != nil {
				msg.Nack()
				select {
				case errCh <- err:
				default:
					b.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
			} else {
				msg.Ack()
			}
		}
	}()

	return errCh, nil
}

func (b *EventBus) runWithRetry(ctx context.Context, msg *message.Message, handler func(context.Context, *message.Message) error) error {
	var err error
	delay := b.retryDelay
	for attempt := 1; attempt <= b.retries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == b.retries {
			break
		}
		b.log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt,
			"max_retries", b.retries,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d retries: %w", b.retries, err)
}

// Ping reports bus database health for the health endpoint.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber, then the forwarder, waits for in-flight
// handlers (bounded), and finally closes the publisher and database.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	select {
	case <-done:
	case <-ctx.Done():
		b.log.Error("events: timed out waiting for in-flight handlers to complete")
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return b.db.Close()
}

// watermillLogger bridges logger.Logger to watermill.LoggerAdapter.
type watermillLogger struct{ log logger.Logger }

func (a *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(logArgs(fields), "error", err)...)
}
func (a *watermillLogger) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, logArgs(fields)...)
}
func (a *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, logArgs(fields)...)
}
func (a *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, logArgs(fields)...)
}
func (a *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{log: a.log.With(logArgs(fields)...)}
}

func logArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
