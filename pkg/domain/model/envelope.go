package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// Envelope is the direct invocation form of an event. Data holds the exact
// payload bytes covered by Signature.
type Envelope struct {
	Type      string          `json:"type"`
	Signature string          `json:"signature"`
	Data      json.RawMessage `json:"data"`
}

// ParseEnvelope decodes an envelope document
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, goerr.Wrap(err, "failed to decode event envelope", goerr.T(types.ErrTagMalformedEvent))
	}
	if len(env.Data) == 0 {
		return nil, goerr.New("event envelope has no data", goerr.T(types.ErrTagMalformedEvent))
	}
	return &env, nil
}

// InboundEvent converts the envelope into an inbound event
func (e *Envelope) InboundEvent(deliveryID string) *InboundEvent {
	return &InboundEvent{
		DeliveryID: deliveryID,
		Type:       WebhookEventType(e.Type),
		Signature:  e.Signature,
		Payload:    []byte(e.Data),
		ReceivedAt: time.Now(),
	}
}
