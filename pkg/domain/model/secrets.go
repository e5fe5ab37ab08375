package model

// Secrets is the decrypted configuration bundle. It is loaded once per
// process and must not be modified afterwards.
type Secrets struct {
	HostAPIUser       string `json:"host_api_user" toml:"host_api_user"`
	HostAPIToken      string `json:"host_api_token" toml:"host_api_token" masq:"secret"`
	WebhookSecret     string `json:"webhook_secret" toml:"webhook_secret" masq:"secret"`
	BucketName        string `json:"bucket_name" toml:"bucket_name"`
	FromAddress       string `json:"from_address" toml:"from_address"`
	ToAddress         string `json:"to_address" toml:"to_address"`
	ErrorReportingKey string `json:"error_reporting_key,omitempty" toml:"error_reporting_key" masq:"secret"`

	SlackWebhookURL string `json:"slack_webhook_url,omitempty" toml:"slack_webhook_url" masq:"secret"`
	SMTPUsername    string `json:"smtp_username,omitempty" toml:"smtp_username"`
	SMTPPassword    string `json:"smtp_password,omitempty" toml:"smtp_password" masq:"secret"`
}

// NotificationEnabled reports whether both sender and recipient are set
func (s *Secrets) NotificationEnabled() bool {
	return s.FromAddress != "" && s.ToAddress != ""
}

// ErrorReportingEnabled reports whether an error tracker key is set
func (s *Secrets) ErrorReportingEnabled() bool {
	return s.ErrorReportingKey != ""
}
