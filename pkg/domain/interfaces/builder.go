package interfaces

import (
	"context"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

// Builder runs the external build program
type Builder interface {
	// Run executes the build and returns its exit code. A non-nil error
	// means the program could not be run at all.
	Run(ctx context.Context, req *model.BuildRequest) (int, error)
}
