package mail_test

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/infra/mail"
)

func TestSMTP_Notify_InvalidAddress(t *testing.T) {
	n := mail.NewSMTP("localhost", 25)
	err := n.Notify(context.Background(), &model.Secrets{}, &model.Notification{
		From:    "not an address",
		To:      "dev@example.com",
		Subject: "s",
		Body:    "b",
	})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("invalid sender address")
}

func TestSMTP_Notify_WithRealRelay(t *testing.T) {
	host := os.Getenv("TEST_SMTP_HOST")
	port := os.Getenv("TEST_SMTP_PORT")
	to := os.Getenv("TEST_SMTP_TO")
	if host == "" || port == "" || to == "" {
		t.Skip("Test SMTP relay not provided via environment variables")
	}

	portNum, err := strconv.Atoi(port)
	gt.NoError(t, err)

	n := mail.NewSMTP(host, portNum)
	err = n.Notify(context.Background(), &model.Secrets{
		SMTPUsername: os.Getenv("TEST_SMTP_USERNAME"),
		SMTPPassword: os.Getenv("TEST_SMTP_PASSWORD"),
	}, &model.Notification{
		From:    to,
		To:      to,
		Subject: "[gemhook] test message",
		Body:    "This is a test message from gemhook.",
	})
	gt.NoError(t, err)
}

func TestSMTP_Notify_NoHost(t *testing.T) {
	n := mail.NewSMTP("", 587)
	err := n.Notify(context.Background(), &model.Secrets{}, &model.Notification{
		From:    "gems@example.com",
		To:      "dev@example.com",
		Subject: "s",
		Body:    "b",
	})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("no SMTP host")
}
