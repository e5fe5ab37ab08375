package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// parseRefEvent accepts only "create" events for tags
func parseRefEvent(event *model.InboundEvent) (*model.RefEvent, error) {
	if !event.IsCreate() {
		return nil, goerr.New(`event type must be "create"`, goerr.T(types.ErrTagMalformedEvent), goerr.V("type", event.Type))
	}

	var created github.CreateEvent
	if err := json.Unmarshal(event.Payload, &created); err != nil {
		return nil, goerr.Wrap(err, "invalid create event payload", goerr.T(types.ErrTagMalformedEvent))
	}

	ref := &model.RefEvent{
		RefType: model.RefType(created.GetRefType()),
		Ref:     created.GetRef(),
		Owner:   created.GetRepo().GetOwner().GetLogin(),
		Repo:    created.GetRepo().GetName(),
	}

	if !ref.IsTag() {
		return nil, goerr.New(`ref type must be "tag"`, goerr.T(types.ErrTagMalformedEvent), goerr.V("ref_type", ref.RefType))
	}
	if ref.Ref == "" || ref.Owner == "" || ref.Repo == "" {
		return nil, goerr.New("missing required fields in create event",
			goerr.T(types.ErrTagMalformedEvent),
			goerr.V("ref", ref.Ref), goerr.V("owner", ref.Owner), goerr.V("repo", ref.Repo))
	}

	return ref, nil
}

// gemspecPath is the manifest whose presence marks a repository as a gem
func gemspecPath(ref *model.RefEvent) string {
	return ref.Repo + ".gemspec"
}

// checkPackage requires <repo>.gemspec to exist at the tag
func checkPackage(ctx context.Context, gh interfaces.GitHubClient, ref *model.RefEvent) error {
	status, err := gh.ContentStatus(ctx, ref.Owner, ref.Repo, gemspecPath(ref), ref.Ref)
	if err != nil {
		return goerr.Wrap(err, "repository not a gem", goerr.T(types.ErrTagNotAPackage), goerr.V("repo", ref.FullName()))
	}
	if status != http.StatusOK {
		return goerr.New("repository not a gem", goerr.T(types.ErrTagNotAPackage), goerr.V("repo", ref.FullName()), goerr.V("status", status))
	}

	ctxlog.From(ctx).Debug("Found gemspec", "repo", ref.FullName(), "tag", ref.Ref)
	return nil
}
