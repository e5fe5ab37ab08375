package model

import (
	"path/filepath"
	"strings"
)

const (
	artifactDirName  = "gemserver"
	metadataFileName = "build"
	manifestFileName = "files"
)

// Workspace is the per-invocation scratch directory.
//
// Layout:
//   - <Root>/gemserver: catalog index files and build outputs; object keys are relative to it
//   - <Root>/build: metadata written by the build program
//   - <Root>/files: manifest of output file paths
type Workspace struct {
	Root string
}

// ArtifactDir returns the directory whose contents mirror the bucket
func (w *Workspace) ArtifactDir() string {
	return filepath.Join(w.Root, artifactDirName)
}

// MetadataPath returns the path of the build metadata file
func (w *Workspace) MetadataPath() string {
	return filepath.Join(w.Root, metadataFileName)
}

// ManifestPath returns the path of the artifact manifest file
func (w *Workspace) ManifestPath() string {
	return filepath.Join(w.Root, manifestFileName)
}

// Resolve returns an absolute path for a manifest entry. Relative entries
// are relative to Root, the working directory of the build program.
func (w *Workspace) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(w.Root, path)
}

// ObjectKey derives the bucket key of a manifest entry by stripping the
// artifact directory prefix. It reports false for entries outside the
// artifact directory, which have no key.
func (w *Workspace) ObjectKey(path string) (string, bool) {
	rel, err := filepath.Rel(w.ArtifactDir(), w.Resolve(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// BuildRequest carries the parameters passed to the build program
type BuildRequest struct {
	RunID     string
	Owner     string
	Repo      string
	Tag       string
	AuthToken string
	Workspace *Workspace
}

// BuildResult is what a successful build declared
type BuildResult struct {
	ExitCode        int
	DeclaredVersion string
	ArtifactPaths   []string
}

// PipelineResult summarizes a successful pipeline run
type PipelineResult struct {
	RunID         string   `json:"run_id"`
	Owner         string   `json:"owner"`
	Repo          string   `json:"repo"`
	Tag           string   `json:"tag"`
	Version       string   `json:"version"`
	Uploaded      []string `json:"uploaded"`
	FailedUploads []string `json:"failed_uploads,omitempty"`
	ChangelogURL  string   `json:"changelog_url,omitempty"`
}
