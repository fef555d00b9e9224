// Package events provides a PostgreSQL-backed pub/sub EventBus built on Watermill.
//
// Delivery semantics:
//   - All instances of a service share one consumer group, so each message is
//     processed by exactly one instance.
//   - Handlers should be idempotent. A failing handler is retried up to 3 times
//     with exponential backoff, then the message is Nacked and redelivered.
//
// Trace context is injected into message metadata on Publish and restored in
// Subscribe so a consumer's spans join the producer's trace.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	errChanSize     = 100

	// MetadataEventID and MetadataEventVersion are set on every message built
	// by NewJSONMessage.
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
)

// ErrNoTxSupport is returned by NewTxPublisher on a bus without a SQL store.
var ErrNoTxSupport = errors.New("events: bus has no sql store")

// Handler processes one message. Returning an error triggers a retry.
type Handler func(context.Context, *message.Message) error

// EventBus publishes and consumes messages through Watermill.
type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	db         *sql.DB
	log        logger.Logger
	wg         sync.WaitGroup
	retryDelay time.Duration
}

// NewEventBus opens a connection to cfg.DatabaseURL and builds a Watermill
// SQL publisher and subscriber on it. Schema tables are created on first use.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(
		db,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		wlog,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := watermillsql.NewSubscriber(
		db,
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    cfg.ServiceName + "-consumer",
		},
		wlog,
	)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	bus := NewWithPubSub(pub, sub, log)
	bus.db = db
	return bus, nil
}

// NewWithPubSub builds a bus on arbitrary Watermill transports, e.g. the
// in-process gochannel pub/sub in tests. Such a bus has no SQL store.
func NewWithPubSub(pub message.Publisher, sub message.Subscriber, log logger.Logger) *EventBus {
	return &EventBus{
		publisher:  pub,
		subscriber: sub,
		log:        log,
		retryDelay: retryBaseDelay,
	}
}

// NewJSONMessage marshals v into a message carrying event id and version
// metadata.
func NewJSONMessage(eventID uuid.UUID, version int, v any) (*message.Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventID, eventID.String())
	msg.Metadata.Set(MetadataEventVersion, strconv.Itoa(version))
	return msg, nil
}

// NewTxPublisher returns a Publisher bound to tx, so a row change and the
// event announcing it commit or roll back together. The outbox tables must
// already exist, which NewEventBus guarantees.
func (q *EventBus) NewTxPublisher(ctx context.Context, tx *sql.Tx) (message.Publisher, error) {
	if q.db == nil {
		return nil, ErrNoTxSupport
	}
	pub, err := watermillsql.NewPublisher(
		tx,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: false,
		},
		&slogAdapter{log: q.log},
	)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return &tracingPublisher{ctx: ctx, next: pub}, nil
}

// Publish sends msgs to topic with the trace context of ctx attached.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTrace(ctx, msgs)
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe runs handler for every message on topic until ctx is cancelled
// or the bus is closed.
//
//   - handler returns nil   -> Ack
//   - handler returns error -> retried with exponential backoff (1s, 2s)
//   - retries exhausted     -> Nack, and the error is sent on the returned channel
//
// The returned channel is buffered and closed when the subscription ends.
// Callers must drain it.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errChanSize)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)

			if err := retryWithBackoff(msgCtx, msg, handler, maxRetries, q.retryDelay, q.log); err != nil {
				msg.Nack()
				select {
				case errCh <- err:
				default:
					q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
			} else {
				msg.Ack()
			}
		}
	}()

	return errCh, nil
}

// retryWithBackoff calls handler up to maxRetries times, doubling the delay
// between attempts. It returns the last error once retries are exhausted.
func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	maxRetries int,
	baseDelay time.Duration,
	log logger.Logger,
) error {
	delay := baseDelay
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt < maxRetries {
			log.WarnContext(ctx, "events: handler failed, retrying",
				"attempt", attempt,
				"max_retries", maxRetries,
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
	}
	return fmt.Errorf("events: handler failed after %d retries: %w", maxRetries, err)
}

// Ping checks the bus's database connection. A bus without a SQL store is
// always healthy.
func (q *EventBus) Ping(ctx context.Context) error {
	if q.db == nil {
		return nil
	}
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber, waits up to 30s for in-flight handlers, then
// closes the publisher and the database connection.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers to complete")
	}

	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	if q.db != nil {
		return q.db.Close()
	}
	return nil
}

// tracingPublisher attaches the trace context of ctx to every message it
// publishes.
type tracingPublisher struct {
	ctx  context.Context
	next message.Publisher
}

func (p *tracingPublisher) Publish(topic string, msgs ...*message.Message) error {
	injectTrace(p.ctx, msgs)
	return p.next.Publish(topic, msgs...)
}

func (p *tracingPublisher) Close() error {
	return p.next.Close()
}

func injectTrace(ctx context.Context, msgs []*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
