package usecase

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // GitHub's X-Hub-Signature is HMAC-SHA1
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

var signatureAlgorithms = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
}

// verifySignature recomputes "<alg>=<hex hmac>" over payload and requires it
// to equal the claimed signature exactly.
func verifySignature(secret string, payload []byte, signature string) error {
	alg, _, found := strings.Cut(signature, "=")
	newHash, ok := signatureAlgorithms[alg]
	if !found || !ok {
		return goerr.New("unsupported or missing signature", goerr.T(types.ErrTagAuthentication))
	}

	mac := hmac.New(newHash, []byte(secret))
	mac.Write(payload)
	expected := alg + "=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return goerr.New("signature mismatch", goerr.T(types.ErrTagAuthentication), goerr.V("algorithm", alg))
	}

	return nil
}
