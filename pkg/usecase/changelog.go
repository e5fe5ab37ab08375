package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/mod/semver"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// changelogURL returns a compare link from the previous tag to the current
// one, or "" if there is no previous tag or the lookup fails.
func (p *Pipeline) changelogURL(ctx context.Context, gh interfaces.GitHubClient, ref *model.RefEvent) string {
	tags, err := gh.ListTags(ctx, ref.Owner, ref.Repo)
	if err != nil {
		err = goerr.Wrap(err, "failed to look up previous tag", goerr.T(types.ErrTagChangelogLookup))
		ctxlog.From(ctx).Warn("Skipping changelog link", "error", err)
		return ""
	}

	prev := previousTag(orderTags(tags), ref.Ref)
	if prev == "" {
		return ""
	}

	return fmt.Sprintf("%s/%s/%s/compare/%s...%s", p.webBaseURL, ref.Owner, ref.Repo, prev, ref.Ref)
}

// orderTags sorts tags newest first by semantic version when every tag is
// one. Otherwise the API order, which is newest first in practice, is kept.
func orderTags(tags []string) []string {
	for _, t := range tags {
		if !semver.IsValid(canonicalTag(t)) {
			return tags
		}
	}

	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return semver.Compare(canonicalTag(sorted[i]), canonicalTag(sorted[j])) > 0
	})
	return sorted
}

func canonicalTag(tag string) string {
	if strings.HasPrefix(tag, "v") {
		return tag
	}
	return "v" + tag
}

// previousTag returns the entry right after current in newest-first order
func previousTag(tags []string, current string) string {
	for i, t := range tags {
		if t == current && i+1 < len(tags) {
			return tags[i+1]
		}
	}
	return ""
}
