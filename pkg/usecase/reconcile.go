package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

var versionPattern = regexp.MustCompile(`Version: ([\d.]*)`)

// parseDeclaredVersion extracts X.Y.Z from "Version: X.Y.Z". It returns ""
// when the metadata has no version line.
func parseDeclaredVersion(metadata []byte) string {
	m := versionPattern.FindSubmatch(metadata)
	if m == nil {
		return ""
	}
	return string(m[1])
}

// tagVersion strips one optional leading "v" from a tag name
func tagVersion(tag string) string {
	return strings.TrimPrefix(tag, "v")
}

// reconcile fails unless the declared version equals the tag. On mismatch
// the mismatch notice is sent when notification is enabled, and the run
// fails either way.
func (p *Pipeline) reconcile(ctx context.Context, secrets *model.Secrets, ref *model.RefEvent, build *model.BuildResult) error {
	if build.DeclaredVersion != "" && tagVersion(ref.Ref) == build.DeclaredVersion {
		return nil
	}

	mismatch := goerr.New("tag does not match the gemspec version",
		goerr.T(types.ErrTagVersionMismatch),
		goerr.V("tag", ref.Ref),
		goerr.V("declared_version", build.DeclaredVersion),
	)

	msg, err := p.mismatchMessage(secrets, ref, build.DeclaredVersion)
	if err != nil {
		return goerr.Wrap(err, "failed to compose mismatch notice", goerr.T(types.ErrTagVersionMismatch), goerr.V("tag", ref.Ref))
	}

	if err := p.notify(ctx, secrets, msg); err != nil {
		return goerr.Wrap(err, "tag does not match the gemspec version and the notice could not be sent",
			goerr.T(types.ErrTagVersionMismatch),
			goerr.V("tag", ref.Ref),
			goerr.V("declared_version", build.DeclaredVersion),
		)
	}

	return mismatch
}
