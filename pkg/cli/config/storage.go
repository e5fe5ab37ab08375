package config

import (
	"context"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/infra/storage"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Storage holds Cloud Storage client configuration
type Storage struct {
	Endpoint        string
	CredentialsFile string
	WithoutAuth     bool
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-endpoint",
			Usage:       "Cloud Storage endpoint (for emulators)",
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("GEMHOOK_STORAGE_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "storage-credentials",
			Usage:       "Path to a service account credentials file",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("GEMHOOK_STORAGE_CREDENTIALS"),
		},
		&cli.BoolFlag{
			Name:        "storage-without-auth",
			Usage:       "Access Cloud Storage without credentials",
			Destination: &c.WithoutAuth,
			Sources:     cli.EnvVars("GEMHOOK_STORAGE_WITHOUT_AUTH"),
		},
	}
}

// ClientOptions returns the Google API client options to use
func (c *Storage) ClientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if c.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.Endpoint))
	}
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	if c.WithoutAuth {
		opts = append(opts, option.WithoutAuthentication())
	}
	return opts
}

// New creates the object store client
func (c *Storage) New(ctx context.Context) (interfaces.ObjectStore, error) {
	return storage.NewGCS(ctx, c.ClientOptions()...)
}
