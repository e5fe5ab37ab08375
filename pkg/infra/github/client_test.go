package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	githubinfra "github.com/m-mizutani/gemhook/pkg/infra/github"
)

func newTestClient(t *testing.T, handler http.Handler) (*httptest.Server, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	return server, server.Close
}

func TestClient_ContentStatus(t *testing.T) {
	var gotMethod, gotPath, gotRef, gotUser, gotPass string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/mygem/contents/mygem.gemspec", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotRef = r.URL.Query().Get("ref")
		gotUser, gotPass, _ = r.BasicAuth()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/repos/owner/notgem/contents/notgem.gemspec", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server, closer := newTestClient(t, mux)
	defer closer()

	client, err := githubinfra.NewClient("bot", "token", githubinfra.WithBaseURL(server.URL))
	gt.NoError(t, err)

	t.Run("existing gemspec", func(t *testing.T) {
		status, err := client.ContentStatus(context.Background(), "owner", "mygem", "mygem.gemspec", "v1.2.3")
		gt.NoError(t, err)
		gt.Number(t, status).Equal(http.StatusOK)
		gt.Value(t, gotMethod).Equal(http.MethodHead)
		gt.Value(t, gotPath).Equal("/repos/owner/mygem/contents/mygem.gemspec")
		gt.Value(t, gotRef).Equal("v1.2.3")
		gt.Value(t, gotUser).Equal("bot")
		gt.Value(t, gotPass).Equal("token")
	})

	t.Run("missing gemspec", func(t *testing.T) {
		status, err := client.ContentStatus(context.Background(), "owner", "notgem", "notgem.gemspec", "v1.0.0")
		gt.NoError(t, err)
		gt.Number(t, status).Equal(http.StatusNotFound)
	})
}

func TestClient_ContentStatus_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := githubinfra.NewClient("bot", "token", githubinfra.WithBaseURL(url))
	gt.NoError(t, err)

	_, err = client.ContentStatus(context.Background(), "owner", "repo", "repo.gemspec", "v1")
	gt.Error(t, err)
}

func TestClient_ListTags_Pagination(t *testing.T) {
	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/owner/repo/tags?page=2>; rel="next"`, serverURL))
			_ = json.NewEncoder(w).Encode([]map[string]string{{"name": "v3"}, {"name": "v2"}})
		case "2":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"name": "v1"}})
		}
	})

	server, closer := newTestClient(t, mux)
	defer closer()
	serverURL = server.URL

	client, err := githubinfra.NewClient("bot", "token", githubinfra.WithBaseURL(server.URL))
	gt.NoError(t, err)

	tags, err := client.ListTags(context.Background(), "owner", "repo")
	gt.NoError(t, err)
	gt.Value(t, tags).Equal([]string{"v3", "v2", "v1"})
}

func TestClient_ListTags_Error(t *testing.T) {
	server, closer := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer closer()

	client, err := githubinfra.NewClient("bot", "token", githubinfra.WithBaseURL(server.URL))
	gt.NoError(t, err)

	_, err = client.ListTags(context.Background(), "owner", "repo")
	gt.Error(t, err)
}
