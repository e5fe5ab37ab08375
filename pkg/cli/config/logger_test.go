package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/gemhook/pkg/cli/config"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{level: "debug"},
		{level: "DEBUG"},
		{level: "info"},
		{level: "Warn"},
		{level: "error"},
		{level: "ERROR"},
		{level: "invalid", wantErr: true},
		{level: "", wantErr: true},
		{level: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			logger := &config.Logger{Level: tt.level}

			result, err := logger.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				gt.Value(t, result).Nil()
				return
			}

			gt.NoError(t, err)
			gt.NotNil(t, result)
		})
	}
}

func TestLogger_Configure_Redaction(t *testing.T) {
	for _, jsonFormat := range []bool{true, false} {
		logger := &config.Logger{Level: "debug", JSON: jsonFormat}

		result, err := logger.Configure()
		gt.NoError(t, err)

		// Secret fields must not break either handler
		result.Info("secrets loaded", "secrets", &model.Secrets{
			HostAPIUser:   "bot",
			HostAPIToken:  "ghp_xxx",
			WebhookSecret: "hook",
			BucketName:    "gems.example.com",
		})
	}
}

func TestLogger_Flags(t *testing.T) {
	logger := &config.Logger{}
	flags := logger.Flags()

	gt.Number(t, len(flags)).Equal(2)

	var names []string
	for _, flag := range flags {
		names = append(names, flag.Names()[0])
	}
	gt.Value(t, names).Equal([]string{"log-level", "log-json"})
}
