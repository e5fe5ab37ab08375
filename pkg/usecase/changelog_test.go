package usecase

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/gemhook/pkg/domain/model"
)

type tagLister struct {
	tags []string
	err  error
}

func (l *tagLister) ContentStatus(ctx context.Context, owner, repo, path, ref string) (int, error) {
	return 200, nil
}

func (l *tagLister) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	return l.tags, l.err
}

func TestChangelogURL(t *testing.T) {
	p := NewPipeline(nil, nil, nil)
	lister := &tagLister{tags: []string{"v3", "v2", "v1"}}

	tests := []struct {
		name    string
		current string
		want    string
	}{
		{name: "middle tag links to the older one", current: "v2", want: "https://github.com/acme/widget/compare/v1...v2"},
		{name: "newest tag links to the next", current: "v3", want: "https://github.com/acme/widget/compare/v2...v3"},
		{name: "oldest tag has no link", current: "v1", want: ""},
		{name: "unknown tag has no link", current: "v9", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := &model.RefEvent{RefType: model.RefTypeTag, Ref: tt.current, Owner: "acme", Repo: "widget"}
			gt.Value(t, p.changelogURL(context.Background(), lister, ref)).Equal(tt.want)
		})
	}
}

func TestChangelogURL_WebBase(t *testing.T) {
	p := NewPipeline(nil, nil, nil, WithWebBaseURL("https://github.example.com/"))
	lister := &tagLister{tags: []string{"v2", "v1"}}
	ref := &model.RefEvent{RefType: model.RefTypeTag, Ref: "v2", Owner: "acme", Repo: "widget"}

	gt.Value(t, p.changelogURL(context.Background(), lister, ref)).Equal("https://github.example.com/acme/widget/compare/v1...v2")
}

func TestOrderTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{
			name: "already newest first",
			tags: []string{"v3", "v2", "v1"},
			want: []string{"v3", "v2", "v1"},
		},
		{
			name: "semver sorted regardless of API order",
			tags: []string{"v1.10.0", "v1.2.0", "v1.9.1", "v2.0.0"},
			want: []string{"v2.0.0", "v1.10.0", "v1.9.1", "v1.2.0"},
		},
		{
			name: "tags without v prefix",
			tags: []string{"0.1.0", "0.3.0", "0.2.0"},
			want: []string{"0.3.0", "0.2.0", "0.1.0"},
		},
		{
			name: "non-semver tags keep API order",
			tags: []string{"release-b", "v1.0.0", "release-a"},
			want: []string{"release-b", "v1.0.0", "release-a"},
		},
		{
			name: "empty",
			tags: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orderTags(tt.tags)
			if len(tt.want) == 0 {
				gt.Number(t, len(got)).Equal(0)
				return
			}
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestOrderTags_DoesNotModifyInput(t *testing.T) {
	tags := []string{"v1", "v3", "v2"}
	_ = orderTags(tags)
	gt.Value(t, tags).Equal([]string{"v1", "v3", "v2"})
}
