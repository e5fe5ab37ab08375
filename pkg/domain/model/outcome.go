package model

import "encoding/json"

// OutcomeStatus is the terminal status of one invocation
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailure OutcomeStatus = "failure"
)

// Outcome is the single terminal report of an invocation
type Outcome struct {
	Status  OutcomeStatus   `json:"status"`
	Kind    string          `json:"kind,omitempty"`
	Message string          `json:"message,omitempty"`
	Event   json.RawMessage `json:"event,omitempty"`
	Result  *PipelineResult `json:"result,omitempty"`
}

// Succeeded reports whether the invocation succeeded
func (o *Outcome) Succeeded() bool {
	return o.Status == OutcomeSuccess
}

// Notification is a plain-text message to a single recipient
type Notification struct {
	From    string
	To      string
	Subject string
	Body    string
}
