package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// EventHandler accepts events over HTTP and answers with their outcome
type EventHandler struct {
	processor    interfaces.EventProcessor
	maxBodyBytes int64
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(processor interfaces.EventProcessor, maxBodyBytes int64) *EventHandler {
	return &EventHandler{
		processor:    processor,
		maxBodyBytes: maxBodyBytes,
	}
}

// HandleWebhook processes a GitHub webhook delivery. The signature is taken
// from X-Hub-Signature-256 when present, X-Hub-Signature otherwise.
func (h *EventHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := h.readBody(w, r)
	if err != nil {
		ctxlog.From(ctx).Error("Failed to read request body", "error", err)
		h.reject(w, r, err)
		return
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if signature == "" {
		signature = r.Header.Get("X-Hub-Signature")
	}

	event := &model.InboundEvent{
		DeliveryID: r.Header.Get("X-GitHub-Delivery"),
		Type:       model.WebhookEventType(r.Header.Get("X-GitHub-Event")),
		Signature:  signature,
		Payload:    body,
		ReceivedAt: time.Now(),
	}

	h.respond(w, r, h.process(ctx, event))
}

// HandleInvoke processes a direct invocation envelope
func (h *EventHandler) HandleInvoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := h.readBody(w, r)
	if err != nil {
		ctxlog.From(ctx).Error("Failed to read request body", "error", err)
		h.reject(w, r, err)
		return
	}

	env, err := model.ParseEnvelope(body)
	if err != nil {
		ctxlog.From(ctx).Info("Invalid invoke envelope", "error", err)
		h.reject(w, r, err)
		return
	}

	deliveryID := r.Header.Get("X-Request-Id")
	h.respond(w, r, h.process(ctx, env.InboundEvent(deliveryID)))
}

// process runs the event outside of the request's cancellation. A started
// pipeline runs to completion even when the sender disconnects.
func (h *EventHandler) process(ctx context.Context, event *model.InboundEvent) *model.Outcome {
	return h.processor.ProcessEvent(context.WithoutCancel(ctx), event)
}

func (h *EventHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()

	reader := io.Reader(r.Body)
	if h.maxBodyBytes > 0 {
		reader = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read request body", goerr.T(types.ErrTagMalformedEvent))
	}
	return body, nil
}

// reject answers with a failure outcome for an event that never reached the processor
func (h *EventHandler) reject(w http.ResponseWriter, r *http.Request, err error) {
	h.respond(w, r, &model.Outcome{
		Status:  model.OutcomeFailure,
		Kind:    types.ErrorKind(err),
		Message: err.Error(),
	})
}

func (h *EventHandler) respond(w http.ResponseWriter, r *http.Request, outcome *model.Outcome) {
	writeJSON(r.Context(), w, statusCode(outcome), outcome)
}

// statusCode maps an outcome onto the HTTP status returned to the sender.
// Ignored events are accepted so that GitHub does not redeliver them.
func statusCode(outcome *model.Outcome) int {
	if outcome.Succeeded() {
		return http.StatusOK
	}

	switch outcome.Kind {
	case types.ErrTagMalformedEvent.String(), types.ErrTagNotAPackage.String():
		return http.StatusAccepted
	case types.ErrTagAuthentication.String():
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
