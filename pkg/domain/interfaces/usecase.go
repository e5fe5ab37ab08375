package interfaces

//go:generate moq -out mocks/usecase_mock.go -pkg mocks . PipelineUseCase EventProcessor

import (
	"context"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

// PipelineUseCase runs the build-and-publish pipeline for one event
type PipelineUseCase interface {
	Run(ctx context.Context, secrets *model.Secrets, event *model.InboundEvent) (*model.PipelineResult, error)
}

// EventProcessor turns an inbound event into exactly one outcome
type EventProcessor interface {
	ProcessEvent(ctx context.Context, event *model.InboundEvent) *model.Outcome
}
