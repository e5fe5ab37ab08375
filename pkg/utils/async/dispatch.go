package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler in a new goroutine and returns a channel that is
// closed when the handler has returned or panicked.
//
// The handler receives a background context carrying the logger of ctx, so
// cancellation of ctx (e.g. the end of an HTTP request) does not stop it.
// Panics are recovered and logged with their stack; returned errors are logged.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) <-chan struct{} {
	newCtx := detach(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()))
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("error in async handler", "error", err)
		}
	}()

	return done
}

func detach(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
