package usecase_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// MockGitHubClient is a mock implementation of GitHubClient
type MockGitHubClient struct {
	contentStatusFunc func(ctx context.Context, owner, repo, path, ref string) (int, error)
	listTagsFunc      func(ctx context.Context, owner, repo string) ([]string, error)

	contentCalls []string
	tagCalls     int
}

func (m *MockGitHubClient) ContentStatus(ctx context.Context, owner, repo, path, ref string) (int, error) {
	m.contentCalls = append(m.contentCalls, owner+"/"+repo+"/"+path+"@"+ref)
	if m.contentStatusFunc != nil {
		return m.contentStatusFunc(ctx, owner, repo, path, ref)
	}
	return http.StatusOK, nil
}

func (m *MockGitHubClient) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	m.tagCalls++
	if m.listTagsFunc != nil {
		return m.listTagsFunc(ctx, owner, repo)
	}
	return nil, nil
}

func (m *MockGitHubClient) factory() func(user, token string) (interfaces.GitHubClient, error) {
	return func(user, token string) (interfaces.GitHubClient, error) {
		return m, nil
	}
}

// MockObjectStore keeps objects in memory and records every call
type MockObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  map[string]error
	gets    []string
	puts    []MockPut
}

type MockPut struct {
	Bucket string
	Key    string
	Data   string
	Public bool
}

func newMockStore() *MockObjectStore {
	return &MockObjectStore{objects: map[string][]byte{}, putErr: map[string]error{}}
}

func (m *MockObjectStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets = append(m.gets, key)
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, goerr.New("object not found", goerr.T(types.ErrTagObjectNotFound))
	}
	return data, nil
}

func (m *MockObjectStore) PutObject(ctx context.Context, bucket, key string, data []byte, public bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts = append(m.puts, MockPut{Bucket: bucket, Key: key, Data: string(data), Public: public})
	if err := m.putErr[key]; err != nil {
		return err
	}
	m.objects[bucket+"/"+key] = data
	return nil
}

func (m *MockObjectStore) sideEffects() int {
	return len(m.gets) + len(m.puts)
}

// MockBuilder writes the files a real build program would produce
type MockBuilder struct {
	exitCode  int
	runErr    error
	version   string
	artifacts map[string]string // relative to the artifact dir -> content

	// extraManifest entries are listed after the artifacts without being written
	extraManifest []string

	calls  []*model.BuildRequest
	staged []string
}

func (m *MockBuilder) Run(ctx context.Context, req *model.BuildRequest) (int, error) {
	m.calls = append(m.calls, req)

	entries, _ := os.ReadDir(req.Workspace.ArtifactDir())
	for _, e := range entries {
		m.staged = append(m.staged, e.Name())
	}

	if m.runErr != nil {
		return -1, m.runErr
	}
	if m.exitCode != 0 {
		return m.exitCode, nil
	}

	ws := req.Workspace
	if err := os.WriteFile(ws.MetadataPath(), []byte("--- !ruby/object:Gem::Specification\nName: "+req.Repo+"\nVersion: "+m.version+"\n"), 0644); err != nil {
		return -1, err
	}

	var manifest strings.Builder
	for _, name := range sortedKeys(m.artifacts) {
		path := filepath.Join(ws.ArtifactDir(), name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return -1, err
		}
		if err := os.WriteFile(path, []byte(m.artifacts[name]), 0644); err != nil {
			return -1, err
		}
		manifest.WriteString(path + "\n")
	}
	for _, entry := range m.extraManifest {
		manifest.WriteString(entry + "\n")
	}
	if err := os.WriteFile(ws.ManifestPath(), []byte(manifest.String()), 0644); err != nil {
		return -1, err
	}

	return 0, nil
}

// MockNotifier records notifications
type MockNotifier struct {
	err  error
	sent []*model.Notification
}

func (m *MockNotifier) Notify(ctx context.Context, secrets *model.Secrets, msg *model.Notification) error {
	m.sent = append(m.sent, msg)
	return m.err
}

// MockReporter records reported errors
type MockReporter struct {
	keys   []string
	errs   []error
	extras []map[string]string
}

func (m *MockReporter) Report(ctx context.Context, key string, err error, extras map[string]string) error {
	m.keys = append(m.keys, key)
	m.errs = append(m.errs, err)
	m.extras = append(m.extras, extras)
	return nil
}

var errMock = errors.New("mock error")

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(payload)
	return "sha1=" + hex.EncodeToString(mac.Sum(nil))
}

func sign256(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
