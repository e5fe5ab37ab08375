package github

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// EventProcessor runs the pipeline for inbound GitHub events
type EventProcessor struct {
	pipeline interfaces.PipelineUseCase
	secrets  interfaces.SecretsProvider
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(pipeline interfaces.PipelineUseCase, secrets interfaces.SecretsProvider) *EventProcessor {
	return &EventProcessor{
		pipeline: pipeline,
		secrets:  secrets,
	}
}

// ProcessEvent runs one invocation and returns its single terminal outcome
func (p *EventProcessor) ProcessEvent(ctx context.Context, event *model.InboundEvent) *model.Outcome {
	logger := ctxlog.From(ctx).With("delivery_id", event.DeliveryID, "event_type", event.Type)
	ctx = ctxlog.With(ctx, logger)

	secrets, err := p.secrets.Wait(ctx)
	if err != nil {
		logger.Error("Secrets are not available", "error", err)
		return failure(event, err)
	}

	result, err := p.pipeline.Run(ctx, secrets, event)
	if err != nil {
		kind := types.ErrorKind(err)
		switch kind {
		case types.ErrTagMalformedEvent.String(), types.ErrTagNotAPackage.String():
			logger.Info("Ignoring event", "kind", kind, "reason", err.Error())
		case types.ErrTagAuthentication.String():
			logger.Warn("Rejected webhook event", "error", err)
		default:
			logger.Error("Pipeline failed", "kind", kind, "error", err)
		}
		return failure(event, err)
	}

	logger.Info("Pipeline succeeded",
		"owner", result.Owner,
		"repo", result.Repo,
		"tag", result.Tag,
		"version", result.Version,
		"uploaded", len(result.Uploaded),
	)

	return &model.Outcome{
		Status: model.OutcomeSuccess,
		Event:  echo(event),
		Result: result,
	}
}

func failure(event *model.InboundEvent, err error) *model.Outcome {
	return &model.Outcome{
		Status:  model.OutcomeFailure,
		Kind:    types.ErrorKind(err),
		Message: err.Error(),
		Event:   echo(event),
	}
}

// echo returns the payload for the outcome when it is valid JSON
func echo(event *model.InboundEvent) json.RawMessage {
	if json.Valid(event.Payload) {
		return json.RawMessage(event.Payload)
	}
	return nil
}
