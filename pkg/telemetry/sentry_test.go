package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"

	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/errhttp"
)

// captureHub returns a context carrying a hub whose client records events
// in memory instead of sending them.
func captureHub(t *testing.T) (context.Context, func() []*sentry.Event) {
	t.Helper()
	var (
		mu     sync.Mutex
		events []*sentry.Event
	)
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("sentry client: %v", err)
	}
	hub := sentry.NewHub(client, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)
	return ctx, func() []*sentry.Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]*sentry.Event(nil), events...)
	}
}

func TestSetupSentry_EmptyDSNIsNoop(t *testing.T) {
	if err := SetupSentry(&config.Config{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSetupSentry_InvalidDSN(t *testing.T) {
	if err := SetupSentry(&config.Config{SentryDSN: "://not a dsn"}); err == nil {
		t.Fatal("expected error for invalid DSN")
	}
}

func TestSentryReporter_CapturesCause(t *testing.T) {
	ctx, events := captureHub(t)

	SentryReporter()(ctx, errhttp.Internal(errors.New("boom")))

	got := events()
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Tags["error.kind"] != "internal" {
		t.Errorf("expected error.kind tag 'internal', got %q", got[0].Tags["error.kind"])
	}
	if len(got[0].Exception) == 0 || got[0].Exception[len(got[0].Exception)-1].Value != "boom" {
		t.Errorf("expected exception value 'boom', got %+v", got[0].Exception)
	}
}

func TestSentryReporter_SkipsRecoveredPanics(t *testing.T) {
	ctx, events := captureHub(t)

	SentryReporter()(ctx, errhttp.Internal(fmt.Errorf("%w: %v", errhttp.ErrPanic, "nil map write")))

	if got := events(); len(got) != 0 {
		t.Fatalf("expected no events for recovered panic, got %d", len(got))
	}
}

func TestSentryReporter_ConditionWithoutCause(t *testing.T) {
	ctx, events := captureHub(t)

	SentryReporter()(ctx, &errhttp.Condition{Kind: errhttp.Kind(42), Detail: "odd"})

	if got := events(); len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
}
