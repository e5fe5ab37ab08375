package mail

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wneessen/go-mail"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

type smtpNotifier struct {
	host string
	port int
}

// NewSMTP creates a Notifier sending plain-text email through an SMTP relay.
// Credentials come from the secret bundle; when no username is set the relay
// is used without authentication.
func NewSMTP(host string, port int) interfaces.Notifier {
	return &smtpNotifier{host: host, port: port}
}

// Notify sends msg to its single recipient. Without a relay host it fails, so
// an enabled notification is never dropped silently.
func (n *smtpNotifier) Notify(ctx context.Context, secrets *model.Secrets, msg *model.Notification) error {
	if n.host == "" {
		return goerr.New("no SMTP host configured for email notification", goerr.V("to", msg.To))
	}

	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return goerr.Wrap(err, "invalid sender address", goerr.V("from", msg.From))
	}
	if err := m.To(msg.To); err != nil {
		return goerr.Wrap(err, "invalid recipient address", goerr.V("to", msg.To))
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	opts := []mail.Option{
		mail.WithPort(n.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if secrets != nil && secrets.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(secrets.SMTPUsername),
			mail.WithPassword(secrets.SMTPPassword),
		)
	}

	client, err := mail.NewClient(n.host, opts...)
	if err != nil {
		return goerr.Wrap(err, "failed to create SMTP client", goerr.V("host", n.host), goerr.V("port", n.port))
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return goerr.Wrap(err, "failed to send email", goerr.V("host", n.host), goerr.V("to", msg.To), goerr.V("subject", msg.Subject))
	}

	return nil
}
