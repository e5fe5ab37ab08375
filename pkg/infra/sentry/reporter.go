package sentry

import (
	"context"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
)

type reporter struct {
	environment  string
	flushTimeout time.Duration
	transport    sentry.Transport

	mu   sync.Mutex
	hubs map[string]*sentry.Hub
}

// Option configures the reporter
type Option func(*reporter)

// WithTransport replaces the HTTP transport used to deliver events
func WithTransport(t sentry.Transport) Option {
	return func(r *reporter) {
		r.transport = t
	}
}

// NewReporter creates an ErrorReporter sending events to Sentry. The DSN is
// the key passed to Report; one client is kept per DSN.
func NewReporter(environment string, flushTimeout time.Duration, opts ...Option) interfaces.ErrorReporter {
	r := &reporter{
		environment:  environment,
		flushTimeout: flushTimeout,
		hubs:         make(map[string]*sentry.Hub),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *reporter) hub(dsn string) (*sentry.Hub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hub, ok := r.hubs[dsn]; ok {
		return hub, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: r.environment,
		Transport:   r.transport,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Sentry client")
	}

	hub := sentry.NewHub(client, sentry.NewScope())
	r.hubs[dsn] = hub
	return hub, nil
}

// Report captures err with extras attached as the "build" context and as
// tags, then waits for delivery.
func (r *reporter) Report(ctx context.Context, dsn string, err error, extras map[string]string) error {
	if dsn == "" {
		return nil
	}

	base, hubErr := r.hub(dsn)
	if hubErr != nil {
		return hubErr
	}

	// Concurrent runs must not share a scope stack
	hub := base.Clone()

	buildCtx := sentry.Context{}
	for k, v := range extras {
		buildCtx[k] = v
	}

	var eventID *sentry.EventID
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetContext("build", buildCtx)
		scope.SetTags(extras)
		eventID = hub.CaptureException(err)
	})

	if !hub.Flush(r.flushTimeout) {
		ctxlog.From(ctx).Warn("Timed out flushing Sentry events")
	}

	if eventID != nil {
		ctxlog.From(ctx).Info("Reported error to Sentry", "event_id", string(*eventID))
	}
	return nil
}
