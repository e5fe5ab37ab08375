package interfaces

import (
	"context"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

// Notifier delivers a plain-text notification over one channel
type Notifier interface {
	Notify(ctx context.Context, secrets *model.Secrets, msg *model.Notification) error
}

// ErrorReporter forwards failures to an error tracker
type ErrorReporter interface {
	// Report sends err to the tracker identified by key with extra context
	Report(ctx context.Context, key string, err error, extras map[string]string) error
}

// SecretsProvider hands out the secret bundle once it is loaded
type SecretsProvider interface {
	// Wait blocks until secrets are available, giving up after a bounded number of polls
	Wait(ctx context.Context) (*model.Secrets, error)

	// Ready reports whether secrets are loaded without blocking
	Ready() bool
}
