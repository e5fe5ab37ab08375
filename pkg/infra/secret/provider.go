package secret

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
	"github.com/m-mizutani/gemhook/pkg/utils/async"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultMaxAttempts  = 100
)

// Provider holds the secret bundle once it has been loaded. It is populated
// exactly once and only read afterwards.
type Provider struct {
	secrets  atomic.Pointer[model.Secrets]
	interval time.Duration
	attempts int

	mu      sync.Mutex
	loading <-chan struct{}
}

// ProviderOption configures a Provider
type ProviderOption func(*Provider)

// WithPollInterval sets the fixed delay between availability checks
func WithPollInterval(d time.Duration) ProviderOption {
	return func(p *Provider) {
		p.interval = d
	}
}

// WithMaxAttempts bounds the number of availability checks in Wait
func WithMaxAttempts(n int) ProviderOption {
	return func(p *Provider) {
		p.attempts = n
	}
}

// NewProvider creates an empty Provider
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		interval: DefaultPollInterval,
		attempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewStaticProvider creates a Provider that is ready immediately
func NewStaticProvider(secrets *model.Secrets) *Provider {
	p := NewProvider()
	p.secrets.Store(secrets)
	return p
}

// Start loads secrets in the background. Load failures are logged and leave
// the provider empty, so waiting callers give up after their bounded polls.
func (p *Provider) Start(ctx context.Context, loader *Loader) {
	done := async.Dispatch(ctx, func(ctx context.Context) error {
		secrets, err := loader.Load(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to load secrets")
		}
		p.secrets.Store(secrets)
		ctxlog.From(ctx).Info("Secrets loaded", "bucket", secrets.BucketName, "notification", secrets.NotificationEnabled())
		return nil
	})

	p.mu.Lock()
	p.loading = done
	p.mu.Unlock()
}

// Ready reports whether secrets are available
func (p *Provider) Ready() bool {
	return p.secrets.Load() != nil
}

// Wait returns the secrets, polling with a fixed delay until they are loaded
// or the attempts are exhausted. It returns early if the background load
// finished without producing secrets.
func (p *Provider) Wait(ctx context.Context) (*model.Secrets, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.mu.Lock()
	loading := p.loading
	p.mu.Unlock()

	for attempt := 0; ; attempt++ {
		if s := p.secrets.Load(); s != nil {
			return s, nil
		}
		if attempt >= p.attempts {
			break
		}
		if attempt == 0 {
			ctxlog.From(ctx).Info("Waiting for secrets")
		}

		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "cancelled while waiting for secrets", goerr.T(types.ErrTagSecretsUnavailable))
		case <-loading:
			if s := p.secrets.Load(); s != nil {
				return s, nil
			}
			return nil, goerr.New("secret bundle failed to load", goerr.T(types.ErrTagSecretsUnavailable))
		case <-ticker.C:
		}
	}

	return nil, goerr.New("secrets are not available",
		goerr.T(types.ErrTagSecretsUnavailable),
		goerr.V("attempts", p.attempts),
		goerr.V("interval", p.interval.String()),
	)
}
