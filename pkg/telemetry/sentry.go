package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/errhttp"
)

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: 0.2,
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware returns a net/http middleware that puts a request-scoped
// hub on the context and captures panics. Repanic: true so the outer
// errhttp.Recoverer still writes the JSON 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	h := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return h.Handle
}

// SentryReporter returns an errhttp.Reporter that captures 5xx conditions on
// the request's hub (or the global hub outside a request). Recovered panics
// are skipped because SentryMiddleware has already captured them. Events are
// queued by the SDK transport, so the call never waits on the network.
func SentryReporter() errhttp.Reporter {
	return func(ctx context.Context, c *errhttp.Condition) {
		if errors.Is(c.Cause, errhttp.ErrPanic) {
			return
		}
		hub := sentry.GetHubFromContext(ctx)
		if hub == nil {
			hub = sentry.CurrentHub()
		}

		var err error = c
		if c.Cause != nil {
			err = c.Cause
		}
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("error.kind", c.Kind.String())
			scope.SetContext("condition", sentry.Context{
				"kind":   c.Kind.String(),
				"detail": c.Detail,
			})
			hub.CaptureException(err)
		})
	}
}
