package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
)

type client struct {
	githubClient *github.Client
}

type options struct {
	baseURL   string
	transport http.RoundTripper
}

// Option configures the GitHub client
type Option func(*options)

// WithBaseURL points the client at a different API root, e.g. GitHub Enterprise or a test server
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithTransport sets the underlying HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// NewClient creates a new GitHub client authenticated with basic auth
func NewClient(user, token string, opts ...Option) (interfaces.GitHubClient, error) {
	o := &options{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(o)
	}

	tp := &github.BasicAuthTransport{
		Username:  user,
		Password:  token,
		Transport: o.transport,
	}
	githubClient := github.NewClient(tp.Client())

	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("base_url", o.baseURL))
		}
		githubClient.BaseURL = u
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// ContentStatus issues a HEAD request against the contents API for path at ref
func (c *client) ContentStatus(ctx context.Context, owner, repo, path, ref string) (int, error) {
	u := fmt.Sprintf("repos/%s/%s/contents/%s?ref=%s",
		url.PathEscape(owner), url.PathEscape(repo), path, url.QueryEscape(ref))

	req, err := c.githubClient.NewRequest(http.MethodHead, u, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create HEAD request", goerr.V("url", u))
	}

	resp, err := c.githubClient.Do(ctx, req, nil)
	if resp != nil {
		// Non-2xx statuses come back as *github.ErrorResponse; the status is what callers need
		return resp.StatusCode, nil
	}
	if err != nil {
		return 0, goerr.Wrap(err, "failed to request file", goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("path", path), goerr.V("ref", ref))
	}

	return 0, goerr.New("empty response from GitHub", goerr.V("url", u))
}

// ListTags lists every tag of the repository, following pagination
func (c *client) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}
	var names []string

	for {
		tags, resp, err := c.githubClient.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list tags", goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("page", opts.Page))
		}

		for _, tag := range tags {
			names = append(names, tag.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}
