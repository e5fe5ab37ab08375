package model

import "time"

// WebhookEventType is the event name reported by GitHub in X-GitHub-Event
type WebhookEventType string

const (
	EventTypeCreate WebhookEventType = "create"
	EventTypePush   WebhookEventType = "push"
	EventTypePing   WebhookEventType = "ping"
)

// RefType is the kind of git reference a create event refers to
type RefType string

const (
	RefTypeTag    RefType = "tag"
	RefTypeBranch RefType = "branch"
)

// InboundEvent is a single signed delivery from GitHub
type InboundEvent struct {
	DeliveryID string           // Retrieved from X-GitHub-Delivery header, if any
	Type       WebhookEventType // Event name
	Signature  string           // Claimed signature including algorithm prefix, e.g. "sha1=..."
	Payload    []byte           // Exact serialized payload covered by Signature
	ReceivedAt time.Time
}

// IsCreate reports whether the event is a ref creation
func (e *InboundEvent) IsCreate() bool {
	return e.Type == EventTypeCreate
}

// RefEvent holds the fields of a create event the pipeline needs
type RefEvent struct {
	RefType RefType
	Ref     string // Tag name
	Owner   string // Repository owner login
	Repo    string // Repository name
}

// IsTag reports whether the created ref is a tag
func (e *RefEvent) IsTag() bool {
	return e.RefType == RefTypeTag
}

// FullName returns "owner/repo"
func (e *RefEvent) FullName() string {
	return e.Owner + "/" + e.Repo
}
