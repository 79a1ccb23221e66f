package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/trueauth/pkg/config"
	"github.com/ghuser/trueauth/pkg/logger"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

// retryBus builds a bus wired for retry tests only: no DB, millisecond delays.
func retryBus() *EventBus {
	return &EventBus{
		log:        logger.New(&config.Config{LogLevel: "error"}),
		retries:    handlerRetries,
		retryDelay: time.Millisecond,
	}
}

func TestRunWithRetry(t *testing.T) {
	t.Run("first attempt succeeds", func(t *testing.T) {
		bus := retryBus()
		calls := 0
		err := bus.runWithRetry(context.Background(), message.NewMessage("id", nil),
			func(_ context.Context, _ *message.Message) error {
				calls++
				return nil
			})
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("recovers after transient failures", func(t *testing.T) {
		bus := retryBus()
		calls := 0
		err := bus.runWithRetry(context.Background(), message.NewMessage("id", nil),
			func(_ context.Context, _ *message.Message) error {
				calls++
				if calls < 3 {
					return errors.New("transient error")
				}
				return nil
			})
		if err != nil {
			t.Fatalf("expected nil after eventual success, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("exhausts retries", func(t *testing.T) {
		bus := retryBus()
		calls := 0
		err := bus.runWithRetry(context.Background(), message.NewMessage("id", nil),
			func(_ context.Context, _ *message.Message) error {
				calls++
				return errors.New("permanent error")
			})
		if err == nil {
			t.Fatal("expected error after exhausted retries")
		}
		if calls != handlerRetries {
			t.Errorf("expected %d calls, got %d", handlerRetries, calls)
		}
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bus := retryBus()
		bus.retryDelay = time.Second
		calls := 0
		err := bus.runWithRetry(ctx, message.NewMessage("id", nil),
			func(_ context.Context, _ *message.Message) error {
				calls++
				return errors.New("error")
			})
		if err == nil {
			t.Fatal("expected error from cancelled context")
		}
		if calls != 1 {
			t.Errorf("expected 1 call before context cancel, got %d", calls)
		}
	})
}

func TestStartForwarder_DirectBus(t *testing.T) {
	bus := &EventBus{useOutbox: false}
	if err := bus.StartForwarder(context.Background()); err == nil {
		t.Fatal("expected error for direct-publish EventBus")
	}
}

// TestOTelPropagation_InjectExtract verifies that trace context injected via
// the same propagation path used by Publish/Subscribe round-trips correctly.
func TestOTelPropagation_InjectExtract(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish-span")
	defer span.End()
	wantTraceID := span.SpanContext().TraceID()

	msg := message.NewMessage("id", nil)
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}

	extractCarrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		extractCarrier[k] = v
	}
	msgCtx := otel.GetTextMapPropagator().Extract(context.Background(), extractCarrier)

	gotSpan := trace.SpanFromContext(msgCtx)
	if !gotSpan.SpanContext().IsValid() {
		t.Fatal("extracted span context is not valid")
	}
	if gotSpan.SpanContext().TraceID() != wantTraceID {
		t.Errorf("trace ID mismatch: want %s, got %s", wantTraceID, gotSpan.SpanContext().TraceID())
	}
}
