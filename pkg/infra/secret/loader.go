package secret

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

const gcsScheme = "gs://"

// Loader reads the secret bundle from a local file or a gs://bucket/object URL
type Loader struct {
	source string
	store  interfaces.ObjectStore
}

// NewLoader creates a Loader. store is only required for gs:// sources.
func NewLoader(source string, store interfaces.ObjectStore) *Loader {
	return &Loader{source: source, store: store}
}

// Load reads and decodes the bundle. TOML is used when the source ends with
// ".toml", JSON otherwise.
func (l *Loader) Load(ctx context.Context) (*model.Secrets, error) {
	raw, err := l.read(ctx)
	if err != nil {
		return nil, err
	}

	var secrets model.Secrets
	if strings.HasSuffix(l.source, ".toml") {
		if err := toml.Unmarshal(raw, &secrets); err != nil {
			return nil, goerr.Wrap(err, "failed to decode TOML secret bundle", goerr.V("source", l.source))
		}
	} else {
		if err := json.Unmarshal(raw, &secrets); err != nil {
			return nil, goerr.Wrap(err, "failed to decode JSON secret bundle", goerr.V("source", l.source))
		}
	}

	if err := validate(&secrets); err != nil {
		return nil, goerr.Wrap(err, "invalid secret bundle", goerr.V("source", l.source))
	}

	return &secrets, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if rest, ok := strings.CutPrefix(l.source, gcsScheme); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return nil, goerr.New("malformed GCS secret source, want gs://bucket/object", goerr.V("source", l.source))
		}
		if l.store == nil {
			return nil, goerr.New("object store is not configured for GCS secret source", goerr.V("source", l.source))
		}
		return l.store.GetObject(ctx, bucket, key)
	}

	raw, err := os.ReadFile(l.source)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read secret bundle", goerr.V("source", l.source))
	}
	return raw, nil
}

func validate(s *model.Secrets) error {
	required := []struct {
		key   string
		value string
	}{
		{"host_api_user", s.HostAPIUser},
		{"host_api_token", s.HostAPIToken},
		{"webhook_secret", s.WebhookSecret},
		{"bucket_name", s.BucketName},
	}
	for _, r := range required {
		if r.value == "" {
			return goerr.New("required key is missing", goerr.V("key", r.key))
		}
	}
	return nil
}
