// Package errhttp translates failures raised while serving a request into a
// JSON error body and an HTTP status.
//
// Every failure becomes a *Condition. Its Kind selects a Handler from a
// registry fixed at construction, and the default handlers answer through the
// static status table:
//
//	{"status": 404, "error": "Not Found", "message": "product not found"}
//
// 5xx responses always carry a generic message; the original detail and
// cause are written to the diagnostic log (and the Reporter, if any) only.
//
// Domain packages contribute their sentinel errors at startup:
//
//	errs := errhttp.New(log,
//		errhttp.WithSentinel(domain.ErrProductNotFound, errhttp.KindNotFound),
//	)
package errhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/catalog/pkg/httpx"
	"github.com/ghuser/catalog/pkg/logger"
)

// Handler turns a condition into the response payload and status to send.
type Handler func(ctx context.Context, c *Condition) (ErrorResponse, int)

// Reporter receives every 5xx condition after it has been logged, e.g. to
// forward it to a crash reporter. It must not block.
type Reporter func(ctx context.Context, c *Condition)

// Option configures a Translator.
type Option func(*Translator)

type sentinel struct {
	target error
	kind   Kind
}

// Translator is the request-failure dispatcher. Build it once at startup and
// share it; it holds no mutable state.
type Translator struct {
	log       logger.Logger
	handlers  map[Kind]Handler
	sentinels []sentinel
	reporter  Reporter
	meter     metric.Meter
	responses metric.Int64Counter
}

// WithHandler replaces the handler for kind.
func WithHandler(kind Kind, h Handler) Option {
	return func(t *Translator) {
		if h != nil {
			t.handlers[kind] = h
		}
	}
}

// WithSentinel maps errors matching target (errors.Is) to kind. Sentinels are
// tried in registration order.
func WithSentinel(target error, kind Kind) Option {
	return func(t *Translator) {
		t.sentinels = append(t.sentinels, sentinel{target: target, kind: kind})
	}
}

// WithReporter sets the 5xx reporter.
func WithReporter(r Reporter) Option {
	return func(t *Translator) { t.reporter = r }
}

// WithMeter records the error response counter on m instead of the global
// meter provider.
func WithMeter(m metric.Meter) Option {
	return func(t *Translator) { t.meter = m }
}

// New returns a Translator with a default handler for every kind in the
// status table. A nil log discards diagnostics.
func New(log logger.Logger, opts ...Option) *Translator {
	if log == nil {
		log = logger.Nop()
	}
	t := &Translator{
		log:      log,
		handlers: make(map[Kind]Handler, len(statusTable)),
	}
	for kind := range statusTable {
		t.handlers[kind] = t.Respond
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.meter == nil {
		t.meter = otel.Meter("github.com/ghuser/catalog/pkg/errhttp")
	}
	counter, err := t.meter.Int64Counter("http.server.error_responses",
		metric.WithDescription("Error responses written, by condition kind and status."),
	)
	if err != nil {
		log.Warn("errhttp: error response counter unavailable", "error", err)
	}
	t.responses = counter
	return t
}

// Respond is the default Handler: it classifies c and builds the payload.
func (t *Translator) Respond(ctx context.Context, c *Condition) (ErrorResponse, int) {
	status, label := Classify(c)
	return t.Build(ctx, c, status, label)
}

// Handle dispatches c to the handler registered for its kind. Unregistered
// kinds go to the KindInternal handler. A panicking handler is answered with
// a plain 500 built from the table, and c is logged and reported as for any
// other 5xx.
func (t *Translator) Handle(ctx context.Context, c *Condition) (resp ErrorResponse, status int) {
	if c == nil {
		c = &Condition{Kind: KindInternal}
	}
	h, ok := t.handlers[c.Kind]
	if !ok {
		h = t.handlers[KindInternal]
	}

	defer func() {
		if rec := recover(); rec != nil {
			s, label := Classify(&Condition{Kind: KindInternal})
			resp, status = ErrorResponse{Status: s, Error: label, Message: internalMessage}, s
			t.diagnose(ctx, c, s, "handler_panic", fmt.Sprint(rec))
		}
		t.count(ctx, c, status)
	}()

	return h(ctx, c)
}

// FromError normalizes err into a *Condition:
//   - a *Condition anywhere in the chain is returned as is;
//   - a registered sentinel maps to its kind, with err's message as detail;
//   - an oversized request body is a malformed request;
//   - anything else is KindInternal with err as the cause.
func (t *Translator) FromError(err error) *Condition {
	if err == nil {
		return &Condition{Kind: KindInternal}
	}

	var c *Condition
	if errors.As(err, &c) {
		return c
	}
	for _, s := range t.sentinels {
		if errors.Is(err, s.target) {
			return Wrap(s.kind, err)
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &Condition{Kind: KindMalformedRequest, Detail: "request body too large", Cause: err}
	}
	return Internal(err)
}

// WriteError translates err and writes the JSON error response.
func (t *Translator) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	resp, status := t.Handle(r.Context(), t.FromError(err))
	httpx.JSON(w, status, resp)
}

func (t *Translator) count(ctx context.Context, c *Condition, status int) {
	if t.responses == nil {
		return
	}
	defer func() { _ = recover() }()
	t.responses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", c.Kind.String()),
		attribute.Int("status", status),
	))
}
