package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

type webhookNotifier struct {
	url string
}

// NewWebhook creates a Notifier posting to a Slack incoming webhook. When url
// is empty, the URL is taken from the secret bundle at send time, and the
// notifier does nothing if that is empty as well.
func NewWebhook(url string) interfaces.Notifier {
	return &webhookNotifier{url: url}
}

// Notify posts the subject and body as a single message
func (n *webhookNotifier) Notify(ctx context.Context, secrets *model.Secrets, msg *model.Notification) error {
	url := n.url
	if url == "" && secrets != nil {
		url = secrets.SlackWebhookURL
	}
	if url == "" {
		return nil
	}

	payload := &slack.WebhookMessage{
		Text: "*" + msg.Subject + "*\n" + msg.Body,
	}
	if err := slack.PostWebhookContext(ctx, url, payload); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook", goerr.V("subject", msg.Subject))
	}

	return nil
}
