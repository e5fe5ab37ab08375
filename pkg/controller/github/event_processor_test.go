package github_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	githubcontroller "github.com/m-mizutani/gemhook/pkg/controller/github"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
	"github.com/m-mizutani/gemhook/pkg/infra/secret"
)

// MockPipeline is a mock implementation of PipelineUseCase
type MockPipeline struct {
	runFunc func(ctx context.Context, secrets *model.Secrets, event *model.InboundEvent) (*model.PipelineResult, error)
	calls   []*model.InboundEvent
}

func (m *MockPipeline) Run(ctx context.Context, secrets *model.Secrets, event *model.InboundEvent) (*model.PipelineResult, error) {
	m.calls = append(m.calls, event)
	if m.runFunc != nil {
		return m.runFunc(ctx, secrets, event)
	}
	return nil, errors.New("mock not configured")
}

// MockSecrets never becomes ready
type MockSecrets struct{}

func (m *MockSecrets) Wait(ctx context.Context) (*model.Secrets, error) {
	return nil, goerr.New("secrets are not available", goerr.T(types.ErrTagSecretsUnavailable))
}

func (m *MockSecrets) Ready() bool { return false }

func newEvent() *model.InboundEvent {
	return &model.InboundEvent{
		DeliveryID: "delivery-1",
		Type:       model.EventTypeCreate,
		Signature:  "sha1=abc",
		Payload:    []byte(`{"ref":"v1.0.0","ref_type":"tag"}`),
	}
}

func TestEventProcessor_ProcessEvent_Success(t *testing.T) {
	ctx := context.Background()
	secrets := &model.Secrets{BucketName: "gems.example.com"}

	mockUC := &MockPipeline{
		runFunc: func(ctx context.Context, s *model.Secrets, event *model.InboundEvent) (*model.PipelineResult, error) {
			gt.Value(t, s).Equal(secrets)
			return &model.PipelineResult{Owner: "acme", Repo: "widget", Tag: "v1.0.0", Version: "1.0.0"}, nil
		},
	}

	processor := githubcontroller.NewEventProcessor(mockUC, secret.NewStaticProvider(secrets))
	outcome := processor.ProcessEvent(ctx, newEvent())

	gt.Value(t, outcome.Succeeded()).Equal(true)
	gt.Value(t, string(outcome.Event)).Equal(`{"ref":"v1.0.0","ref_type":"tag"}`)
	gt.Value(t, outcome.Result.Version).Equal("1.0.0")
	gt.Number(t, len(mockUC.calls)).Equal(1)
}

func TestEventProcessor_ProcessEvent_Failure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind string
	}{
		{
			name:     "authentication",
			err:      goerr.New("signature mismatch", goerr.T(types.ErrTagAuthentication)),
			wantKind: "authentication",
		},
		{
			name:     "not a gem",
			err:      goerr.New("repository not a gem", goerr.T(types.ErrTagNotAPackage)),
			wantKind: "not_a_package",
		},
		{
			name:     "version mismatch",
			err:      goerr.New("tag does not match", goerr.T(types.ErrTagVersionMismatch)),
			wantKind: "version_mismatch",
		},
		{
			name:     "untagged error",
			err:      errors.New("processing failed"),
			wantKind: "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &MockPipeline{
				runFunc: func(ctx context.Context, s *model.Secrets, event *model.InboundEvent) (*model.PipelineResult, error) {
					return nil, tt.err
				},
			}

			processor := githubcontroller.NewEventProcessor(mockUC, secret.NewStaticProvider(&model.Secrets{}))
			outcome := processor.ProcessEvent(context.Background(), newEvent())

			gt.Value(t, outcome.Succeeded()).Equal(false)
			gt.Value(t, outcome.Kind).Equal(tt.wantKind)
			gt.String(t, outcome.Message).Contains(tt.err.Error())
			gt.Value(t, outcome.Result).Nil()
		})
	}
}

func TestEventProcessor_ProcessEvent_SecretsUnavailable(t *testing.T) {
	mockUC := &MockPipeline{}

	processor := githubcontroller.NewEventProcessor(mockUC, &MockSecrets{})
	outcome := processor.ProcessEvent(context.Background(), newEvent())

	gt.Value(t, outcome.Succeeded()).Equal(false)
	gt.Value(t, outcome.Kind).Equal("secrets_unavailable")

	// Pipeline is never started without secrets
	gt.Number(t, len(mockUC.calls)).Equal(0)
}

func TestEventProcessor_ProcessEvent_NonJSONPayload(t *testing.T) {
	mockUC := &MockPipeline{
		runFunc: func(ctx context.Context, s *model.Secrets, event *model.InboundEvent) (*model.PipelineResult, error) {
			return nil, goerr.New("invalid payload", goerr.T(types.ErrTagMalformedEvent))
		},
	}
	event := newEvent()
	event.Payload = []byte("not json")

	processor := githubcontroller.NewEventProcessor(mockUC, secret.NewStaticProvider(&model.Secrets{}))
	outcome := processor.ProcessEvent(context.Background(), event)

	gt.Value(t, outcome.Kind).Equal("malformed_event")
	gt.Value(t, outcome.Event).Nil()
}
