package interfaces

import "context"

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// ContentStatus issues a HEAD request for a file at ref and returns the HTTP status code
	ContentStatus(ctx context.Context, owner, repo, path, ref string) (int, error)

	// ListTags returns tag names in the order the API returns them
	ListTags(ctx context.Context, owner, repo string) ([]string, error)
}
