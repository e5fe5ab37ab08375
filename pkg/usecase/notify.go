package usecase

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

//go:embed templates/*.txt
var templateFS embed.FS

var messageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))

type messageData struct {
	Owner        string
	Repo         string
	Tag          string
	Version      string
	Source       string
	ChangelogURL string
	GemspecURL   string
}

func (p *Pipeline) gemSource(secrets *model.Secrets) string {
	if p.gemSourceURL != "" {
		return p.gemSourceURL
	}
	return "http://" + secrets.BucketName
}

func (p *Pipeline) successMessage(secrets *model.Secrets, ref *model.RefEvent, result *model.PipelineResult) (*model.Notification, error) {
	body, err := render("success.txt", &messageData{
		Owner:        ref.Owner,
		Repo:         ref.Repo,
		Tag:          ref.Ref,
		Version:      result.Version,
		Source:       p.gemSource(secrets),
		ChangelogURL: result.ChangelogURL,
	})
	if err != nil {
		return nil, err
	}

	return &model.Notification{
		From:    secrets.FromAddress,
		To:      secrets.ToAddress,
		Subject: fmt.Sprintf("[%s][%s] %s built successfully", secrets.BucketName, ref.Repo, ref.Ref),
		Body:    body,
	}, nil
}

func (p *Pipeline) mismatchMessage(secrets *model.Secrets, ref *model.RefEvent, declared string) (*model.Notification, error) {
	body, err := render("mismatch.txt", &messageData{
		Owner:      ref.Owner,
		Repo:       ref.Repo,
		Tag:        ref.Ref,
		Version:    declared,
		GemspecURL: fmt.Sprintf("%s/%s/%s/blob/%s/%s", p.webBaseURL, ref.Owner, ref.Repo, ref.Ref, gemspecPath(ref)),
	})
	if err != nil {
		return nil, err
	}

	return &model.Notification{
		From:    secrets.FromAddress,
		To:      secrets.ToAddress,
		Subject: fmt.Sprintf("[%s][%s] %s build failed", secrets.BucketName, ref.Repo, ref.Ref),
		Body:    body,
	}, nil
}

func render(name string, data *messageData) (string, error) {
	var buf bytes.Buffer
	if err := messageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", goerr.Wrap(err, "failed to render message", goerr.V("template", name))
	}
	return buf.String(), nil
}

// notify sends msg over every channel in order. It does nothing unless both
// sender and recipient are configured.
func (p *Pipeline) notify(ctx context.Context, secrets *model.Secrets, msg *model.Notification) error {
	if !secrets.NotificationEnabled() {
		ctxlog.From(ctx).Debug("Notification disabled, skipping", "subject", msg.Subject)
		return nil
	}

	for _, n := range p.notifiers {
		if err := n.Notify(ctx, secrets, msg); err != nil {
			return goerr.Wrap(err, "failed to send notification", goerr.T(types.ErrTagNotificationTransport), goerr.V("subject", msg.Subject))
		}
	}

	ctxlog.From(ctx).Info("Notification sent", "subject", msg.Subject, "channels", len(p.notifiers))
	return nil
}
