package usecase

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"ref":"v1.0.0","ref_type":"tag"}`)

	mac1 := hmac.New(sha1.New, []byte("secret"))
	mac1.Write(payload)
	valid1 := "sha1=" + hex.EncodeToString(mac1.Sum(nil))

	mac256 := hmac.New(sha256.New, []byte("secret"))
	mac256.Write(payload)
	valid256 := "sha256=" + hex.EncodeToString(mac256.Sum(nil))

	tests := []struct {
		name      string
		signature string
		wantErr   bool
	}{
		{name: "valid sha1", signature: valid1},
		{name: "valid sha256", signature: valid256},
		{name: "sha1 digest with sha256 prefix", signature: "sha256=" + valid1[len("sha1="):], wantErr: true},
		{name: "missing prefix", signature: valid1[len("sha1="):], wantErr: true},
		{name: "uppercase hex", signature: "sha1=" + strings.ToUpper(valid1[len("sha1="):]), wantErr: true},
		{name: "empty", signature: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifySignature("secret", payload, tt.signature)
			if tt.wantErr {
				gt.Error(t, err)
				gt.Value(t, goerr.HasTag(err, types.ErrTagAuthentication)).Equal(true)
				return
			}
			gt.NoError(t, err)
		})
	}
}
